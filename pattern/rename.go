package pattern

import (
	"regexp"

	"github.com/gfxprim/gfxbind/errors"
)

// Rename maps a selected native name to its public name. It must be pure.
type Rename func(string) string

// Identity keeps names unchanged.
func Identity(s string) string { return s }

// StripGP removes the library prefix from both naming styles:
// "GP_FOO" becomes "FOO" and "gp_text" becomes "text".
var StripGP = MustStripPrefix(`^gp_|^GP_`)

// StripPrefix returns a Rename that deletes the leftmost match of expr.
// expr is expected to be anchored; an unanchored expression removes its
// first occurrence anywhere in the name.
func StripPrefix(expr string) (Rename, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, errors.InvalidPattern(errors.PhaseConfig, expr, err)
	}
	return func(s string) string {
		loc := re.FindStringIndex(s)
		if loc == nil {
			return s
		}
		return s[:loc[0]] + s[loc[1]:]
	}, nil
}

// MustStripPrefix is like StripPrefix but panics on a malformed expression.
func MustStripPrefix(expr string) Rename {
	r, err := StripPrefix(expr)
	if err != nil {
		panic(err)
	}
	return r
}

// Chain applies renames left to right. Nil entries are skipped.
func Chain(renames ...Rename) Rename {
	return func(s string) string {
		for _, r := range renames {
			if r != nil {
				s = r(s)
			}
		}
		return s
	}
}
