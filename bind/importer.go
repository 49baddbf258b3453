package bind

import (
	"go.uber.org/zap"

	"github.com/gfxprim/gfxbind/namespace"
	"github.com/gfxprim/gfxbind/pattern"
	"github.com/gfxprim/gfxbind/symtab"
)

// Collision records two source names that renamed onto one destination name.
// Winner is the symbol that stayed in the namespace.
type Collision struct {
	Name   string
	Loser  string
	Winner string
}

// Report summarises one ImportMembers call.
type Report struct {
	Collisions []Collision
	Selected   int
	Skipped    int
}

// ImportMembers copies every symbol of src selected by rules into dst under
// rename(name). Symbols are visited in ascending name order, so when two
// names rename to the same public name the later one in that order wins.
// src is never modified. A nil rules selects everything and a nil rename
// keeps names unchanged.
func ImportMembers(src *symtab.Table, dst *namespace.Builder, rules *pattern.RuleSet, rename pattern.Rename) (Report, error) {
	if rules == nil {
		rules = pattern.All()
	}
	if rename == nil {
		rename = pattern.Identity
	}

	var rep Report
	for _, sym := range src.Symbols() {
		if !rules.Selects(sym.Name) {
			rep.Skipped++
			continue
		}
		final := rename(sym.Name)
		prev, replaced, err := dst.Set(final, sym)
		if err != nil {
			return rep, err
		}
		rep.Selected++
		if replaced {
			rep.Collisions = append(rep.Collisions, Collision{Name: final, Loser: prev.Name, Winner: sym.Name})
			Logger().Debug("rename collision",
				zap.String("namespace", dst.FullPath()),
				zap.String("name", final),
				zap.String("replaced", prev.Name),
				zap.String("by", sym.Name))
		}
	}
	return rep, nil
}

// ImportPatterns compiles include and exclude and then runs ImportMembers.
// A malformed pattern fails before dst is touched.
func ImportPatterns(src *symtab.Table, dst *namespace.Builder, include, exclude []string, rename pattern.Rename) (Report, error) {
	rules, err := pattern.Compile(include, exclude)
	if err != nil {
		return Report{}, err
	}
	return ImportMembers(src, dst, rules, rename)
}
