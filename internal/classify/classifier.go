// Package classify assigns items to ruleset categories and routes them
// into their category folders.
package classify

import (
	"github.com/yjpartners/valet/internal/model"
	"github.com/yjpartners/valet/internal/rules"
)

// Assignment maps item IDs to the id of the category each item landed
// in.
type Assignment map[string]string

// Classify assigns every item to exactly one category.
func Classify(items []model.Item, rs model.Ruleset) Assignment {
	out := make(Assignment, len(items))
	for _, item := range items {
		out[item.ID] = ClassifyItem(item, rs)
	}
	return out
}

// ClassifyItem runs the two-pass rule scan for a single item.
// Extension rules are consulted across the whole ruleset before any
// keyword rule is, so an extension match in a late category beats a
// keyword match in an early one. Folders only ever see the keyword
// pass. Whatever nothing claims lands in the catch-all.
func ClassifyItem(item model.Item, rs model.Ruleset) string {
	if ext := item.Ext(); ext != "" {
		for _, r := range rs.Rules {
			if r.IsCatchAll() {
				continue
			}
			if r.MatchesExt(ext) {
				return r.ID
			}
		}
	}

	for _, r := range rs.Rules {
		if r.IsCatchAll() {
			continue
		}
		if _, ok := r.MatchKeyword(item.Name); ok {
			return r.ID
		}
	}

	if catchAll, ok := rs.CatchAll(); ok {
		return catchAll.ID
	}
	return rules.DefaultCatchAllID
}

// Organizable filters out the ruleset's own category folders so a run
// never tries to file a destination folder inside another one.
func Organizable(items []model.Item, rs model.Ruleset) []model.Item {
	categories := make(map[string]struct{}, len(rs.Rules))
	for _, r := range rs.Rules {
		categories[r.ID] = struct{}{}
	}

	out := make([]model.Item, 0, len(items))
	for _, item := range items {
		if item.IsFolder() {
			if _, isCategory := categories[item.Name]; isCategory {
				continue
			}
		}
		out = append(out, item)
	}
	return out
}
