package pattern

import "strings"

// Matcher decides whether a symbol name is of interest.
type Matcher interface {
	Match(name string) bool
}

// ExactMatcher matches a fixed set of names.
type ExactMatcher struct {
	names map[string]bool
}

// NewExactMatcher creates a matcher from a list of names.
func NewExactMatcher(names []string) *ExactMatcher {
	m := &ExactMatcher{names: make(map[string]bool)}
	for _, n := range names {
		m.names[n] = true
	}
	return m
}

// Match returns true if name is one of the configured names.
func (m *ExactMatcher) Match(name string) bool {
	return m.names[name]
}

// PrefixMatcher matches names by prefix.
type PrefixMatcher struct {
	prefixes []string
}

// NewPrefixMatcher creates a matcher that matches names starting with any prefix.
func NewPrefixMatcher(prefixes []string) *PrefixMatcher {
	return &PrefixMatcher{prefixes: prefixes}
}

// Match returns true if name starts with any prefix.
func (m *PrefixMatcher) Match(name string) bool {
	for _, p := range m.prefixes {
		if strings.HasPrefix(name, p) {
			return true
		}
	}
	return false
}

// RegexpMatcher matches names against full-match patterns.
type RegexpMatcher struct {
	rules []Rule
}

// NewRegexpMatcher compiles patterns into a matcher.
func NewRegexpMatcher(patterns []string) (*RegexpMatcher, error) {
	m := &RegexpMatcher{}
	for _, p := range patterns {
		r, err := CompileRule(p)
		if err != nil {
			return nil, err
		}
		m.rules = append(m.rules, r)
	}
	return m, nil
}

// Match returns true if any pattern matches the whole name.
func (m *RegexpMatcher) Match(name string) bool {
	return anyMatch(m.rules, name)
}

// CompositeMatcher combines multiple matchers.
type CompositeMatcher struct {
	matchers []Matcher
}

// NewCompositeMatcher creates a matcher that matches if any sub-matcher matches.
func NewCompositeMatcher(matchers ...Matcher) *CompositeMatcher {
	return &CompositeMatcher{matchers: matchers}
}

// Match returns true if any sub-matcher matches.
func (m *CompositeMatcher) Match(name string) bool {
	for _, matcher := range m.matchers {
		if matcher.Match(name) {
			return true
		}
	}
	return false
}

type notMatcher struct {
	m Matcher
}

// Not inverts a matcher.
func Not(m Matcher) Matcher {
	return notMatcher{m: m}
}

func (n notMatcher) Match(name string) bool {
	return !n.m.Match(name)
}
