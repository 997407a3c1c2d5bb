package job

import (
	"github.com/bmatcuk/doublestar/v4"
	"github.com/peter941221/detectfetch/internal/chronicle"
	"github.com/peter941221/detectfetch/internal/model"
)

// RuleFilter selects rules by glob patterns matched against the rule name and the
// normalized rule ID. Exclusion wins; an empty include list selects everything.
type RuleFilter struct {
	Include []string
	Exclude []string
}

func (f RuleFilter) Apply(rules []model.Rule) []model.Rule {
	if len(f.Include) == 0 && len(f.Exclude) == 0 {
		return rules
	}
	out := make([]model.Rule, 0, len(rules))
	for _, r := range rules {
		if f.matches(r) {
			out = append(out, r)
		}
	}
	return out
}

func (f RuleFilter) matches(r model.Rule) bool {
	if matchAny(f.Exclude, r) {
		return false
	}
	if len(f.Include) == 0 {
		return true
	}
	return matchAny(f.Include, r)
}

func matchAny(patterns []string, r model.Rule) bool {
	id := chronicle.NormalizeRuleID(r.RuleID)
	for _, pattern := range patterns {
		if m, err := doublestar.Match(pattern, r.RuleName); err == nil && m {
			return true
		}
		if m, err := doublestar.Match(pattern, id); err == nil && m {
			return true
		}
	}
	return false
}
