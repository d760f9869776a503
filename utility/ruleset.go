package utility

import (
	"fmt"
	"regexp"
	"sync"
)

// RuleSet is a compiled, immutable list of utility rules. It is safe for
// concurrent use.
type RuleSet struct {
	rules    []Rule
	matchers []*regexp.Regexp
}

// New compiles rules into a RuleSet. Rules are kept as a flat list, any match
// marks the token as utility.
func New(rules ...Rule) (*RuleSet, error) {
	rs := &RuleSet{
		rules:    make([]Rule, 0, len(rules)),
		matchers: make([]*regexp.Regexp, 0, len(rules)),
	}
	for i, r := range rules {
		re, err := regexp.Compile(r.Pattern)
		if err != nil {
			return nil, fmt.Errorf("utility rule %d (%s): %w", i, r.Description, err)
		}
		rs.rules = append(rs.rules, r)
		rs.matchers = append(rs.matchers, re)
	}
	return rs, nil
}

var defaultSet = sync.OnceValue(func() *RuleSet {
	rs, err := New(DefaultRules...)
	if err != nil {
		// built-in table is broken, nothing could be done at runtime
		panic(err)
	}
	return rs
})

// Default returns the compiled built-in rule set.
func Default() *RuleSet {
	return defaultSet()
}

// IsUtility reports whether token matches any rule.
func (rs *RuleSet) IsUtility(token string) bool {
	for _, re := range rs.matchers {
		if re.MatchString(token) {
			return true
		}
	}
	return false
}

// Match returns first rule matching token, mostly for diagnostics.
func (rs *RuleSet) Match(token string) (Rule, bool) {
	for i, re := range rs.matchers {
		if re.MatchString(token) {
			return rs.rules[i], true
		}
	}
	return Rule{}, false
}

// Rules returns copy of the rules in the set.
func (rs *RuleSet) Rules() []Rule {
	return append([]Rule(nil), rs.rules...)
}

// Len returns number of rules in the set.
func (rs *RuleSet) Len() int {
	return len(rs.rules)
}
