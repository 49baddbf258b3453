// Package namespace holds the destination namespaces that composition fills.
//
// A Builder is the mutable, single-goroutine side used while a unit is being
// composed. Freeze turns it into a Namespace, which has no mutators and can
// be shared by any number of readers without locking.
package namespace

import (
	"reflect"
	"sort"
	"strings"

	"github.com/gfxprim/gfxbind/errors"
	"github.com/gfxprim/gfxbind/symtab"
)

// Builder accumulates symbols under their public names.
type Builder struct {
	entries  map[string]symtab.Symbol
	children map[string]*Builder
	parent   *Builder
	name     string
	frozen   bool
}

// NewBuilder creates a root builder.
func NewBuilder(name string) *Builder {
	return &Builder{
		name:     name,
		entries:  make(map[string]symtab.Symbol),
		children: make(map[string]*Builder),
	}
}

// Name returns the builder name
func (b *Builder) Name() string {
	return b.name
}

// FullPath returns the dotted path from the root, like "text.C"
func (b *Builder) FullPath() string {
	if b.parent == nil {
		return b.name
	}
	return b.parent.FullPath() + "." + b.name
}

// Set stores sym under name. An existing entry is overwritten and the
// previous symbol is returned with replaced=true.
func (b *Builder) Set(name string, sym symtab.Symbol) (prev symtab.Symbol, replaced bool, err error) {
	if b.isFrozen() {
		return symtab.Symbol{}, false, errors.Frozen(errors.PhaseImport, b.FullPath())
	}
	prev, replaced = b.entries[name]
	b.entries[name] = sym
	return prev, replaced, nil
}

// Get returns the entry stored under name.
func (b *Builder) Get(name string) (symtab.Symbol, bool) {
	s, ok := b.entries[name]
	return s, ok
}

// Len returns the number of entries.
func (b *Builder) Len() int {
	return len(b.entries)
}

// Child returns or creates the nested builder with the given name.
func (b *Builder) Child(name string) (*Builder, error) {
	if b.isFrozen() {
		return nil, errors.Frozen(errors.PhaseImport, b.FullPath())
	}
	if child, ok := b.children[name]; ok {
		return child, nil
	}
	child := &Builder{
		name:     name,
		entries:  make(map[string]symtab.Symbol),
		children: make(map[string]*Builder),
		parent:   b,
	}
	b.children[name] = child
	return child, nil
}

func (b *Builder) isFrozen() bool {
	for n := b; n != nil; n = n.parent {
		if n.frozen {
			return true
		}
	}
	return false
}

// Freeze copies the builder tree into an immutable Namespace. The builder
// rejects all further mutation.
func (b *Builder) Freeze() *Namespace {
	ns := b.snapshot()
	b.frozen = true
	return ns
}

func (b *Builder) snapshot() *Namespace {
	ns := &Namespace{
		name:     b.name,
		path:     b.FullPath(),
		entries:  make(map[string]symtab.Symbol, len(b.entries)),
		children: make(map[string]*Namespace, len(b.children)),
	}
	for k, v := range b.entries {
		ns.entries[k] = v
	}
	ns.names = sortedKeys(ns.entries)
	for k, child := range b.children {
		ns.children[k] = child.snapshot()
	}
	return ns
}

// Namespace is an immutable name to symbol mapping with named children.
type Namespace struct {
	entries  map[string]symtab.Symbol
	children map[string]*Namespace
	name     string
	path     string
	names    []string
}

// Empty returns a frozen namespace with no entries.
func Empty(name string) *Namespace {
	return NewBuilder(name).Freeze()
}

// Name returns the namespace name
func (ns *Namespace) Name() string {
	return ns.name
}

// FullPath returns the dotted path from the root namespace
func (ns *Namespace) FullPath() string {
	return ns.path
}

// Lookup returns the symbol stored under name.
func (ns *Namespace) Lookup(name string) (symtab.Symbol, bool) {
	s, ok := ns.entries[name]
	return s, ok
}

// Get is Lookup with a not_found error on a miss.
func (ns *Namespace) Get(name string) (symtab.Symbol, error) {
	s, ok := ns.entries[name]
	if !ok {
		return symtab.Symbol{}, errors.NotFound(errors.PhaseCompose, ns.path+" member", name)
	}
	return s, nil
}

// Names returns the entry names in ascending order.
func (ns *Namespace) Names() []string {
	return append([]string(nil), ns.names...)
}

// Len returns the number of entries.
func (ns *Namespace) Len() int {
	return len(ns.entries)
}

// Each calls fn for every entry in name order until fn returns false.
func (ns *Namespace) Each(fn func(name string, sym symtab.Symbol) bool) {
	for _, name := range ns.names {
		if !fn(name, ns.entries[name]) {
			return
		}
	}
}

// Child returns a nested namespace, or nil if none exists.
func (ns *Namespace) Child(name string) *Namespace {
	return ns.children[name]
}

// Children returns the nested namespace names in ascending order.
func (ns *Namespace) Children() []string {
	return sortedKeys(ns.children)
}

// Equal reports whether both namespaces hold the same names bound to the
// same kinds and values, recursively. Funcs compare by code pointer, other
// values with ==, and remaining uncomparable values never compare equal.
func (ns *Namespace) Equal(other *Namespace) bool {
	if ns == other {
		return true
	}
	if ns == nil || other == nil {
		return false
	}
	if len(ns.entries) != len(other.entries) || len(ns.children) != len(other.children) {
		return false
	}
	for k, v := range ns.entries {
		o, ok := other.entries[k]
		if !ok || o.Kind != v.Kind || o.Name != v.Name || !sameValue(o.Value, v.Value) {
			return false
		}
	}
	for k, child := range ns.children {
		if !child.Equal(other.children[k]) {
			return false
		}
	}
	return true
}

// String renders the namespace as "path{a, b, c}"
func (ns *Namespace) String() string {
	return ns.path + "{" + strings.Join(ns.names, ", ") + "}"
}

func sameValue(a, b any) (eq bool) {
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Kind() == reflect.Func && vb.Kind() == reflect.Func {
		return va.Type() == vb.Type() && va.Pointer() == vb.Pointer()
	}
	defer func() {
		if recover() != nil {
			eq = false
		}
	}()
	return a == b
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
