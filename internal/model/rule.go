package model

import "strings"

// Rule is one category in a ruleset: a destination folder plus the
// extension and keyword criteria that route items into it.
type Rule struct {
	ID         string   `yaml:"id"`
	Extensions []string `yaml:"extensions,omitempty"`
	Keywords   []string `yaml:"keywords,omitempty"`
}

// IsCatchAll reports whether the rule has no criteria at all. A
// catch-all rule only ever receives items every other rule passed
// over.
func (r Rule) IsCatchAll() bool {
	return len(r.Extensions) == 0 && len(r.Keywords) == 0
}

// MatchesExt reports whether ext (no leading dot) is one of the rule's
// extensions. Comparison is case-insensitive.
func (r Rule) MatchesExt(ext string) bool {
	if ext == "" {
		return false
	}
	for _, e := range r.Extensions {
		if strings.EqualFold(e, ext) {
			return true
		}
	}
	return false
}

// MatchKeyword returns the first of the rule's keywords contained in
// name, comparing case-insensitively, and whether any matched.
func (r Rule) MatchKeyword(name string) (string, bool) {
	lower := strings.ToLower(name)
	for _, k := range r.Keywords {
		if k == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(k)) {
			return k, true
		}
	}
	return "", false
}

// Ruleset is an ordered list of rules. Order is load order, and it
// decides which rule wins when several could claim the same item.
type Ruleset struct {
	Rules []Rule `yaml:"categories"`
}

// CatchAll returns the ruleset's catch-all rule, if it has one.
func (rs Ruleset) CatchAll() (Rule, bool) {
	for _, r := range rs.Rules {
		if r.IsCatchAll() {
			return r, true
		}
	}
	return Rule{}, false
}

// Rule returns the rule with the given id, if present.
func (rs Ruleset) Rule(id string) (Rule, bool) {
	for _, r := range rs.Rules {
		if r.ID == id {
			return r, true
		}
	}
	return Rule{}, false
}

// CategoryIDs returns the rule ids in ruleset order.
func (rs Ruleset) CategoryIDs() []string {
	ids := make([]string, 0, len(rs.Rules))
	for _, r := range rs.Rules {
		ids = append(ids, r.ID)
	}
	return ids
}
