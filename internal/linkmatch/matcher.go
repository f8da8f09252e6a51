// Package linkmatch finds the first supported platform link in a chat message.
package linkmatch

import (
	"fmt"
	"regexp"

	"github.com/MrSnakeDoc/linkbot/internal/domain"
)

// Rule binds a platform name to its link patterns, tried in declaration order.
type Rule struct {
	Platform string
	Patterns []*regexp.Regexp
}

// NewRule compiles patterns into a Rule. It returns an error on the first invalid pattern.
func NewRule(platform string, patterns ...string) (Rule, error) {
	rule := Rule{Platform: platform, Patterns: make([]*regexp.Regexp, 0, len(patterns))}
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return Rule{}, fmt.Errorf("invalid pattern %q for %s: %w", p, platform, err)
		}
		rule.Patterns = append(rule.Patterns, re)
	}
	return rule, nil
}

// Matcher holds an ordered, immutable rule table.
type Matcher struct {
	rules []Rule
}

// New builds a Matcher. Rules are tried in the given order; the slice is copied.
func New(rules ...Rule) (*Matcher, error) {
	seen := make(map[string]bool, len(rules))
	copied := make([]Rule, 0, len(rules))
	for _, r := range rules {
		if r.Platform == "" {
			return nil, fmt.Errorf("rule without platform name")
		}
		if seen[r.Platform] {
			return nil, fmt.Errorf("duplicate rule for platform %s", r.Platform)
		}
		if len(r.Patterns) == 0 {
			return nil, fmt.Errorf("rule %s has no patterns", r.Platform)
		}
		seen[r.Platform] = true
		copied = append(copied, Rule{
			Platform: r.Platform,
			Patterns: append([]*regexp.Regexp(nil), r.Patterns...),
		})
	}
	return &Matcher{rules: copied}, nil
}

// Match returns the first pattern hit anywhere in msg. Platforms are checked in
// table order and patterns in declaration order; the first hit wins.
func (m *Matcher) Match(msg string) (domain.MatchResult, bool) {
	for _, rule := range m.rules {
		for _, re := range rule.Patterns {
			sub := re.FindStringSubmatch(msg)
			if sub == nil {
				continue
			}
			return domain.MatchResult{
				Platform:  rule.Platform,
				FullMatch: sub[0],
				Groups:    append([]string(nil), sub[1:]...),
			}, true
		}
	}
	return domain.MatchResult{}, false
}

// Platforms returns the platform names in match order.
func (m *Matcher) Platforms() []string {
	names := make([]string, 0, len(m.rules))
	for _, r := range m.rules {
		names = append(names, r.Platform)
	}
	return names
}
