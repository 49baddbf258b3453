package bind

import (
	"github.com/gfxprim/gfxbind/errors"
	"github.com/gfxprim/gfxbind/symtab"
)

// Library is the set of units composed from one native table.
type Library struct {
	table   *symtab.Table
	byName  map[string]*Module
	modules []*Module
}

// ComposeAll composes every unit against table. If any unit fails, or two
// units share a name or attach clashing owner members, no Library is
// returned.
func ComposeAll(table *symtab.Table, units ...Unit) (*Library, error) {
	lib := &Library{
		table:  table,
		byName: make(map[string]*Module, len(units)),
	}
	for _, u := range units {
		if _, dup := lib.byName[u.Name]; dup {
			return nil, errors.New(errors.PhaseCompose, errors.KindCollision).
				Symbol(u.Name).
				Detail("unit declared twice").
				Build()
		}
		m, err := Compose(table, u)
		if err != nil {
			return nil, err
		}
		lib.byName[u.Name] = m
		lib.modules = append(lib.modules, m)
	}
	if _, err := NewOwner(0, lib.modules...); err != nil {
		return nil, err
	}
	return lib, nil
}

// Table returns the native table the library was composed from.
func (l *Library) Table() *symtab.Table {
	return l.table
}

// Module returns a composed unit by name, or nil.
func (l *Library) Module(name string) *Module {
	return l.byName[name]
}

// Modules returns the composed units in declaration order.
func (l *Library) Modules() []*Module {
	return append([]*Module(nil), l.modules...)
}

// NewOwner wraps handle with the submodules and methods of every unit.
func (l *Library) NewOwner(handle uint64) *Owner {
	o, _ := NewOwner(handle, l.modules...)
	return o
}
