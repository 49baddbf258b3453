package bind

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/gfxprim/gfxbind/errors"
	"github.com/gfxprim/gfxbind/namespace"
	"github.com/gfxprim/gfxbind/pattern"
	"github.com/gfxprim/gfxbind/symtab"
)

// ConstantsName is the name of the constants sub-namespace.
const ConstantsName = "C"

type boundMethod struct {
	fn     symtab.Callable
	value  any
	name   string
	native string
}

// MethodInfo describes a bound owner or submodule method.
type MethodInfo struct {
	// Value is the value of the native symbol the method calls.
	Value  any
	Name   string
	Native string
}

type submoduleType struct {
	methods map[string]boundMethod
	name    string
	names   []string
}

// Module is the composed, read-only public surface of one unit.
type Module struct {
	ns         *namespace.Namespace
	consts     *namespace.Namespace
	methods    map[string]boundMethod
	unit       Unit
	submodules []*submoduleType
	constRep   Report
	funcRep    Report
}

// Compose builds the public surface of unit from the native table.
//
// Constants matching unit.ConstInclude go into the C sub-namespace, every
// other name not matched by unit.FuncExclude goes into the module namespace.
// Owner methods and submodule methods are resolved against the native names
// in table. Any failure returns a nil Module; a partially composed unit is
// never returned.
func Compose(table *symtab.Table, unit Unit) (*Module, error) {
	if unit.Name == "" {
		return nil, errors.InvalidInput(errors.PhaseCompose, "unit name cannot be empty")
	}

	constRules, err := pattern.Compile(unit.ConstInclude, nil)
	if err != nil {
		return nil, withPath(err, unit.Name, ConstantsName)
	}
	funcRules, err := constRules.Complement(unit.FuncExclude...)
	if err != nil {
		return nil, withPath(err, unit.Name)
	}

	if err := checkRequired(table, unit); err != nil {
		return nil, err
	}

	root := namespace.NewBuilder(unit.Name)
	consts, err := root.Child(ConstantsName)
	if err != nil {
		return nil, err
	}

	var constRep Report
	if len(unit.ConstInclude) > 0 {
		constRep, err = ImportMembers(table, consts, constRules, unit.ConstRename)
		if err != nil {
			return nil, err
		}
	}
	funcRep, err := ImportMembers(table, root, funcRules, unit.FuncRename)
	if err != nil {
		return nil, err
	}

	methods, err := bindMethods(table, unit.Methods, unit.Name)
	if err != nil {
		return nil, err
	}

	subs := make([]*submoduleType, 0, len(unit.Submodules))
	seen := make(map[string]bool)
	for _, sd := range unit.Submodules {
		if sd.Name == "" || sd.Name == ConstantsName {
			return nil, errors.New(errors.PhaseCompose, errors.KindInvalidInput).
				Path(unit.Name).
				Detail("invalid submodule name %q", sd.Name).
				Build()
		}
		if seen[sd.Name] {
			return nil, errors.New(errors.PhaseCompose, errors.KindCollision).
				Path(unit.Name).
				Symbol(sd.Name).
				Detail("submodule declared twice").
				Build()
		}
		seen[sd.Name] = true

		bound, err := bindMethods(table, sd.Methods, unit.Name, sd.Name)
		if err != nil {
			return nil, err
		}
		subs = append(subs, &submoduleType{name: sd.Name, methods: bound, names: sortedNames(bound)})
	}

	frozen := root.Freeze()
	m := &Module{
		ns:         frozen,
		consts:     frozen.Child(ConstantsName),
		methods:    methods,
		unit:       unit,
		submodules: subs,
		constRep:   constRep,
		funcRep:    funcRep,
	}

	Logger().Info("composed unit",
		zap.String("unit", unit.Name),
		zap.Int("constants", m.consts.Len()),
		zap.Int("functions", m.ns.Len()),
		zap.Int("methods", len(methods)),
		zap.Int("submodules", len(subs)),
		zap.Int("collisions", len(constRep.Collisions)+len(funcRep.Collisions)))

	return m, nil
}

func checkRequired(table *symtab.Table, unit Unit) error {
	var missing []string
	want := append([]string(nil), unit.Require...)
	for _, spec := range unit.Submodules {
		for _, ms := range spec.Methods {
			if !ms.Optional {
				want = append(want, ms.Native)
			}
		}
	}
	for _, ms := range unit.Methods {
		if !ms.Optional {
			want = append(want, ms.Native)
		}
	}
	for _, name := range want {
		if _, ok := table.Lookup(name); !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) == 1 {
		return errors.MissingSymbol(errors.PhaseCompose, unit.Name, missing[0])
	}
	if len(missing) > 1 {
		return errors.NewMissingSymbolsError(unit.Name, missing)
	}
	return nil
}

func bindMethods(table *symtab.Table, specs []MethodSpec, path ...string) (map[string]boundMethod, error) {
	out := make(map[string]boundMethod, len(specs))
	for _, ms := range specs {
		if _, dup := out[ms.Name]; dup {
			return nil, errors.New(errors.PhaseCompose, errors.KindCollision).
				Path(path...).
				Symbol(ms.Name).
				Detail("method declared twice").
				Build()
		}
		sym, ok := table.Lookup(ms.Native)
		if !ok {
			if ms.Optional {
				Logger().Debug("optional method skipped",
					zap.Strings("path", path),
					zap.String("method", ms.Name),
					zap.String("native", ms.Native))
				continue
			}
			return nil, errors.MissingSymbol(errors.PhaseCompose, path[0], ms.Native)
		}
		fn, ok := sym.Callable()
		if !ok {
			return nil, errors.NotCallable(errors.PhaseCompose, append(append([]string(nil), path...), ms.Name), ms.Native, sym.Value)
		}
		out[ms.Name] = boundMethod{fn: fn, value: sym.Value, name: ms.Name, native: ms.Native}
	}
	return out, nil
}

func withPath(err error, path ...string) error {
	if e, ok := err.(*errors.Error); ok {
		e.Path = path
		e.Phase = errors.PhaseCompose
	}
	return err
}

func sortedNames(m map[string]boundMethod) []string {
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Name returns the unit name
func (m *Module) Name() string {
	return m.unit.Name
}

// Unit returns the unit description the module was composed from.
func (m *Module) Unit() Unit {
	return m.unit
}

// Namespace returns the public namespace. Its C child is the constants namespace.
func (m *Module) Namespace() *namespace.Namespace {
	return m.ns
}

// Funcs returns the public namespace. It is the same value as Namespace.
func (m *Module) Funcs() *namespace.Namespace {
	return m.ns
}

// C returns the constants namespace shared by the module and all submodules.
func (m *Module) C() *namespace.Namespace {
	return m.consts
}

// Const returns the value of a constant by its public name.
func (m *Module) Const(name string) (any, bool) {
	s, ok := m.consts.Lookup(name)
	return s.Value, ok
}

// Func returns a public function by its public name.
func (m *Module) Func(name string) (symtab.Callable, bool) {
	s, ok := m.ns.Lookup(name)
	if !ok {
		return nil, false
	}
	return s.Callable()
}

// Call invokes a public function by its public name.
func (m *Module) Call(ctx context.Context, name string, args ...uint64) ([]uint64, error) {
	s, err := m.ns.Get(name)
	if err != nil {
		return nil, err
	}
	fn, ok := s.Callable()
	if !ok {
		return nil, errors.NotCallable(errors.PhaseCall, []string{m.unit.Name}, s.Name, s.Value)
	}
	res, err := fn.Call(ctx, args...)
	if err != nil {
		return nil, errors.NativeCall(s.Name, err)
	}
	return res, nil
}

// Methods returns the names of the owner extension methods in ascending order.
func (m *Module) Methods() []string {
	return sortedNames(m.methods)
}

// Submodules returns the submodule names in declaration order.
func (m *Module) Submodules() []string {
	names := make([]string, len(m.submodules))
	for i, s := range m.submodules {
		names[i] = s.name
	}
	return names
}

// SubmoduleMethods returns the method names of a submodule in ascending order.
func (m *Module) SubmoduleMethods(name string) []string {
	for _, s := range m.submodules {
		if s.name == name {
			return append([]string(nil), s.names...)
		}
	}
	return nil
}

// Method describes a bound owner extension method.
func (m *Module) Method(name string) (MethodInfo, bool) {
	bm, ok := m.methods[name]
	if !ok {
		return MethodInfo{}, false
	}
	return MethodInfo{Value: bm.value, Name: bm.name, Native: bm.native}, true
}

// SubmoduleMethod describes a method of submodule sub.
func (m *Module) SubmoduleMethod(sub, name string) (MethodInfo, bool) {
	for _, s := range m.submodules {
		if s.name != sub {
			continue
		}
		bm, ok := s.methods[name]
		if !ok {
			return MethodInfo{}, false
		}
		return MethodInfo{Value: bm.value, Name: bm.name, Native: bm.native}, true
	}
	return MethodInfo{}, false
}

// Reports returns the import reports for the constants and functions passes.
func (m *Module) Reports() (constants, functions Report) {
	return m.constRep, m.funcRep
}

// NewOwner wraps a native handle and attaches this module's submodules and
// extension methods.
func (m *Module) NewOwner(handle uint64) *Owner {
	o, _ := NewOwner(handle, m)
	return o
}
