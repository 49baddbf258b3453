// Package symtab models the flat symbol table exported by a native library.
//
// A Table is built once from a native binding (a WebAssembly module, a set of
// C headers or a literal map in tests) and is read-only afterwards. Names are
// kept sorted so every consumer walks them in the same order.
package symtab

import (
	"context"
	"fmt"
	"sort"
)

// Kind classifies a native symbol.
type Kind uint8

const (
	KindFunc Kind = iota
	KindConst
	KindType
	KindMacro
)

func (k Kind) String() string {
	switch k {
	case KindFunc:
		return "func"
	case KindConst:
		return "const"
	case KindType:
		return "type"
	case KindMacro:
		return "macro"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Callable is the calling convention of a native function: flat 64-bit
// parameters in, flat 64-bit results out. wazero's api.Function satisfies it.
type Callable interface {
	Call(ctx context.Context, params ...uint64) ([]uint64, error)
}

// CallableFunc adapts an ordinary Go function to Callable.
type CallableFunc func(ctx context.Context, params ...uint64) ([]uint64, error)

// Call implements Callable.
func (f CallableFunc) Call(ctx context.Context, params ...uint64) ([]uint64, error) {
	return f(ctx, params...)
}

// Symbol is one named entity of a native binding.
type Symbol struct {
	Value any
	Name  string
	Kind  Kind
}

// Callable returns the symbol value as a Callable, if it is one.
func (s Symbol) Callable() (Callable, bool) {
	c, ok := s.Value.(Callable)
	return c, ok
}

// Table is an immutable, name-ordered set of symbols.
type Table struct {
	byName map[string]Symbol
	names  []string
}

// New builds a table. When a name appears more than once the later symbol wins.
func New(symbols ...Symbol) *Table {
	t := &Table{byName: make(map[string]Symbol, len(symbols))}
	for _, s := range symbols {
		t.byName[s.Name] = s
	}
	t.names = make([]string, 0, len(t.byName))
	for name := range t.byName {
		t.names = append(t.names, name)
	}
	sort.Strings(t.names)
	return t
}

// FromMap builds a table from name/value pairs. Callable values become
// functions, everything else a constant.
func FromMap(m map[string]any) *Table {
	symbols := make([]Symbol, 0, len(m))
	for name, v := range m {
		kind := KindConst
		if _, ok := v.(Callable); ok {
			kind = KindFunc
		}
		symbols = append(symbols, Symbol{Name: name, Kind: kind, Value: v})
	}
	return New(symbols...)
}

// Merge returns a table holding the symbols of all tables. Later tables
// override earlier ones on equal names.
func Merge(tables ...*Table) *Table {
	var symbols []Symbol
	for _, t := range tables {
		if t == nil {
			continue
		}
		symbols = append(symbols, t.Symbols()...)
	}
	return New(symbols...)
}

// Lookup returns the symbol with the given name.
func (t *Table) Lookup(name string) (Symbol, bool) {
	s, ok := t.byName[name]
	return s, ok
}

// Names returns all names in ascending order.
func (t *Table) Names() []string {
	return append([]string(nil), t.names...)
}

// Symbols returns all symbols in name order.
func (t *Table) Symbols() []Symbol {
	out := make([]Symbol, len(t.names))
	for i, name := range t.names {
		out[i] = t.byName[name]
	}
	return out
}

// Each calls fn for every symbol in name order until fn returns false.
func (t *Table) Each(fn func(Symbol) bool) {
	for _, name := range t.names {
		if !fn(t.byName[name]) {
			return
		}
	}
}

// Len returns the number of symbols.
func (t *Table) Len() int {
	return len(t.names)
}
