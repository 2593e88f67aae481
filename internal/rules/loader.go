// Package rules loads and validates the YAML rulesets that drive
// classification.
package rules

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/yjpartners/valet/internal/common"
	"github.com/yjpartners/valet/internal/model"
)

// DefaultCatchAllID names the catch-all category appended to rulesets
// that do not declare one of their own.
const DefaultCatchAllID = "Other"

// Load reads, parses, and validates a ruleset file.
func Load(path string) (model.Ruleset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Ruleset{}, fmt.Errorf("reading ruleset: %w", err)
	}
	rs, err := Parse(data)
	if err != nil {
		return model.Ruleset{}, fmt.Errorf("ruleset %s: %w", path, err)
	}
	return rs, nil
}

// Parse decodes a YAML ruleset, normalizes its criteria, guarantees a
// catch-all, and validates the result.
func Parse(data []byte) (model.Ruleset, error) {
	var rs model.Ruleset
	if err := yaml.Unmarshal(data, &rs); err != nil {
		return model.Ruleset{}, fmt.Errorf("%w: %v", common.ErrInvalidRuleset, err)
	}
	if len(rs.Rules) == 0 {
		return model.Ruleset{}, fmt.Errorf("%w: no categories", common.ErrInvalidRuleset)
	}

	normalize(&rs)

	if _, ok := rs.CatchAll(); !ok {
		rs.Rules = append(rs.Rules, model.Rule{ID: DefaultCatchAllID})
	}

	if err := Validate(rs); err != nil {
		return model.Ruleset{}, err
	}
	return rs, nil
}

// Validate rejects rulesets a classification run could not execute
// sensibly.
func Validate(rs model.Ruleset) error {
	if len(rs.Rules) == 0 {
		return fmt.Errorf("%w: no categories", common.ErrInvalidRuleset)
	}

	seen := make(map[string]struct{}, len(rs.Rules))
	for i, r := range rs.Rules {
		if strings.TrimSpace(r.ID) == "" {
			return fmt.Errorf("%w: category %d has an empty id", common.ErrInvalidRuleset, i+1)
		}
		if _, dup := seen[r.ID]; dup {
			return fmt.Errorf("%w: duplicate category id %q", common.ErrInvalidRuleset, r.ID)
		}
		seen[r.ID] = struct{}{}

		// A rule with no criteria is unreachable unless it is the
		// final catch-all.
		if r.IsCatchAll() && i != len(rs.Rules)-1 {
			return fmt.Errorf("%w: category %q has no criteria but is not last", common.ErrInvalidRuleset, r.ID)
		}
	}
	return nil
}

// normalize lowercases extensions and strips any leading dot so rule
// criteria compare cleanly against item extensions.
func normalize(rs *model.Ruleset) {
	for i := range rs.Rules {
		for j, ext := range rs.Rules[i].Extensions {
			rs.Rules[i].Extensions[j] = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
		}
	}
}
