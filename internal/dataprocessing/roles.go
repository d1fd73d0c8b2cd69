package dataprocessing

import (
	"strings"

	"sgjobs/internal/config"
)

// RoleClassifier assigns a role family to a job title by ordered keyword
// matching. Classification depends only on the title text and the fixed
// rule table, so results are stable across runs.
type RoleClassifier struct {
	rules []roleRule
}

type roleRule struct {
	family   string
	keywords []string
}

// NewRoleClassifier compiles the configured rule table. Keywords are
// lowered once at construction; rule order is preserved so that more
// specific families shadow the generic ones that follow them.
func NewRoleClassifier(rules []config.RoleRule) *RoleClassifier {
	compiled := make([]roleRule, 0, len(rules))
	for _, r := range rules {
		keywords := make([]string, 0, len(r.Keywords))
		for _, kw := range r.Keywords {
			keywords = append(keywords, strings.ToLower(kw))
		}
		compiled = append(compiled, roleRule{family: r.Family, keywords: keywords})
	}
	return &RoleClassifier{rules: compiled}
}

// Classify returns the family of the first rule with a keyword contained
// in the title, case-insensitively, or the Other fallback when nothing
// matches.
func (c *RoleClassifier) Classify(title string) string {
	if title == "" {
		return config.RoleOther
	}

	lower := strings.ToLower(title)
	for _, rule := range c.rules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.family
			}
		}
	}
	return config.RoleOther
}
