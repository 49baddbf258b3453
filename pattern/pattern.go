// Package pattern selects and renames native symbol names.
//
// A RuleSet pairs an include list with an exclude list of regular
// expressions. Every expression must match the whole name. A name is
// selected when the include list is empty or one include expression
// matches, and no exclude expression matches.
package pattern

import (
	"regexp"

	"github.com/gfxprim/gfxbind/errors"
)

// Rule is one compiled full-match expression together with its source text.
type Rule struct {
	re     *regexp.Regexp
	source string
}

// CompileRule compiles a single full-match pattern.
func CompileRule(p string) (Rule, error) {
	re, err := regexp.Compile(`^(?:` + p + `)$`)
	if err != nil {
		return Rule{}, errors.InvalidPattern(errors.PhaseImport, p, err)
	}
	return Rule{re: re, source: p}, nil
}

// Match reports whether the whole name matches the rule.
func (r Rule) Match(name string) bool {
	return r.re.MatchString(name)
}

// String returns the pattern as written.
func (r Rule) String() string {
	return r.source
}

// RuleSet is an include/exclude selection over symbol names.
type RuleSet struct {
	include []Rule
	exclude []Rule
}

// Compile builds a RuleSet. A malformed pattern in either list is returned as
// an invalid_pattern error naming the pattern; no partial RuleSet is returned.
func Compile(include, exclude []string) (*RuleSet, error) {
	rs := &RuleSet{}
	for _, p := range include {
		r, err := CompileRule(p)
		if err != nil {
			return nil, err
		}
		rs.include = append(rs.include, r)
	}
	for _, p := range exclude {
		r, err := CompileRule(p)
		if err != nil {
			return nil, err
		}
		rs.exclude = append(rs.exclude, r)
	}
	return rs, nil
}

// MustCompile is like Compile but panics on a malformed pattern.
func MustCompile(include, exclude []string) *RuleSet {
	rs, err := Compile(include, exclude)
	if err != nil {
		panic(err)
	}
	return rs
}

// All selects every name.
func All() *RuleSet {
	return &RuleSet{}
}

// Selects reports whether name passes the include and exclude lists.
func (rs *RuleSet) Selects(name string) bool {
	if len(rs.include) > 0 && !anyMatch(rs.include, name) {
		return false
	}
	return !anyMatch(rs.exclude, name)
}

// Match implements Matcher.
func (rs *RuleSet) Match(name string) bool {
	return rs.Selects(name)
}

// Complement returns a RuleSet with no include list whose exclude list is
// this set's include list followed by extra. Names selected by the
// complement are never selected by rs when rs has an include list.
func (rs *RuleSet) Complement(extra ...string) (*RuleSet, error) {
	out := &RuleSet{exclude: append([]Rule(nil), rs.include...)}
	for _, p := range extra {
		r, err := CompileRule(p)
		if err != nil {
			return nil, err
		}
		out.exclude = append(out.exclude, r)
	}
	return out, nil
}

// Include returns the include patterns as written.
func (rs *RuleSet) Include() []string {
	return sources(rs.include)
}

// Exclude returns the exclude patterns as written.
func (rs *RuleSet) Exclude() []string {
	return sources(rs.exclude)
}

func anyMatch(rules []Rule, name string) bool {
	for _, r := range rules {
		if r.Match(name) {
			return true
		}
	}
	return false
}

func sources(rules []Rule) []string {
	out := make([]string, len(rules))
	for i, r := range rules {
		out[i] = r.source
	}
	return out
}
