package wasm

import (
	"encoding/binary"
	"fmt"
	"math"
	"sort"

	"github.com/gfxprim/gfxbind/errors"
)

// Interface is the externally visible shape of a core module.
type Interface struct {
	Types   []FuncType
	Imports []Import
	// Funcs holds the type index of every defined function.
	Funcs   []uint32
	Globals []Global
	Exports []Export
}

// ExportedFunc is a function export with its resolved signature.
type ExportedFunc struct {
	Name string
	Type FuncType
	Idx  uint32
}

// ExportedGlobal is a global export. Init is nil for imported globals.
type ExportedGlobal struct {
	Name string
	Init []byte
	Type GlobalType
	Idx  uint32
}

// ReadInterface decodes the interface sections of a core module binary.
// Sections it does not describe are skipped.
func ReadInterface(bin []byte) (*Interface, error) {
	if len(bin) < 8 {
		return nil, errors.Load("module header truncated", nil)
	}
	if binary.LittleEndian.Uint32(bin[0:4]) != Magic {
		return nil, errors.Load("bad magic number", nil)
	}
	if v := binary.LittleEndian.Uint32(bin[4:8]); v != Version {
		return nil, errors.Load(fmt.Sprintf("unsupported version %d", v), nil)
	}

	iface := &Interface{}
	r := newReader(bin[8:], 8)
	for !r.done() {
		id, err := r.byte()
		if err != nil {
			return nil, err
		}
		size, err := r.u32()
		if err != nil {
			return nil, err
		}
		start := r.pos()
		content, err := r.bytes(int(size))
		if err != nil {
			return nil, err
		}
		sr := newReader(content, start)
		switch id {
		case SectionType:
			err = iface.readTypes(sr)
		case SectionImport:
			err = iface.readImports(sr)
		case SectionFunction:
			err = iface.readFuncs(sr)
		case SectionGlobal:
			err = iface.readGlobals(sr)
		case SectionExport:
			err = iface.readExports(sr)
		default:
			continue
		}
		if err != nil {
			return nil, err
		}
		if !sr.done() {
			return nil, sr.fail("section %d has %d trailing bytes", id, len(content)-sr.off)
		}
	}
	return iface, nil
}

func (iface *Interface) readTypes(r *reader) error {
	n, err := r.count()
	if err != nil {
		return err
	}
	iface.Types = make([]FuncType, 0, n)
	for i := 0; i < n; i++ {
		form, err := r.byte()
		if err != nil {
			return err
		}
		if form != FuncTypeByte {
			return r.fail("unsupported type form 0x%02x", form)
		}
		var ft FuncType
		if ft.Params, err = r.valTypes(); err != nil {
			return err
		}
		if ft.Results, err = r.valTypes(); err != nil {
			return err
		}
		iface.Types = append(iface.Types, ft)
	}
	return nil
}

func (iface *Interface) readImports(r *reader) error {
	n, err := r.count()
	if err != nil {
		return err
	}
	iface.Imports = make([]Import, 0, n)
	for i := 0; i < n; i++ {
		var imp Import
		if imp.Module, err = r.name(); err != nil {
			return err
		}
		if imp.Name, err = r.name(); err != nil {
			return err
		}
		if imp.Kind, err = r.byte(); err != nil {
			return err
		}
		switch imp.Kind {
		case KindFunc:
			if imp.TypeIdx, err = r.u32(); err != nil {
				return err
			}
		case KindTable:
			if _, err = r.valType(); err != nil {
				return err
			}
			if _, err = r.limits(); err != nil {
				return err
			}
		case KindMemory:
			lim, err := r.limits()
			if err != nil {
				return err
			}
			imp.Memory = &lim
		case KindGlobal:
			gt, err := r.globalType()
			if err != nil {
				return err
			}
			imp.Global = &gt
		case KindTag:
			if _, err = r.byte(); err != nil {
				return err
			}
			if _, err = r.u32(); err != nil {
				return err
			}
		default:
			return r.fail("invalid import kind 0x%02x", imp.Kind)
		}
		iface.Imports = append(iface.Imports, imp)
	}
	return nil
}

func (iface *Interface) readFuncs(r *reader) error {
	n, err := r.count()
	if err != nil {
		return err
	}
	iface.Funcs = make([]uint32, n)
	for i := range iface.Funcs {
		if iface.Funcs[i], err = r.u32(); err != nil {
			return err
		}
		if int(iface.Funcs[i]) >= len(iface.Types) {
			return r.fail("function %d references type %d of %d", i, iface.Funcs[i], len(iface.Types))
		}
	}
	return nil
}

func (iface *Interface) readGlobals(r *reader) error {
	n, err := r.count()
	if err != nil {
		return err
	}
	iface.Globals = make([]Global, n)
	for i := range iface.Globals {
		if iface.Globals[i].Type, err = r.globalType(); err != nil {
			return err
		}
		if iface.Globals[i].Init, err = r.constExpr(); err != nil {
			return err
		}
	}
	return nil
}

func (iface *Interface) readExports(r *reader) error {
	n, err := r.count()
	if err != nil {
		return err
	}
	seen := make(map[string]struct{}, n)
	iface.Exports = make([]Export, 0, n)
	for i := 0; i < n; i++ {
		var exp Export
		if exp.Name, err = r.name(); err != nil {
			return err
		}
		if _, dup := seen[exp.Name]; dup {
			return r.fail("duplicate export %q", exp.Name)
		}
		seen[exp.Name] = struct{}{}
		if exp.Kind, err = r.byte(); err != nil {
			return err
		}
		if exp.Kind > KindTag {
			return r.fail("invalid export kind 0x%02x", exp.Kind)
		}
		if exp.Idx, err = r.u32(); err != nil {
			return err
		}
		iface.Exports = append(iface.Exports, exp)
	}
	return nil
}

// FuncType returns the signature of function index idx, counting imported
// functions first.
func (iface *Interface) FuncType(idx uint32) (FuncType, bool) {
	i := int(idx)
	for _, imp := range iface.Imports {
		if imp.Kind != KindFunc {
			continue
		}
		if i == 0 {
			if int(imp.TypeIdx) >= len(iface.Types) {
				return FuncType{}, false
			}
			return iface.Types[imp.TypeIdx], true
		}
		i--
	}
	if i >= len(iface.Funcs) {
		return FuncType{}, false
	}
	return iface.Types[iface.Funcs[i]], true
}

// Global returns the type and initializer of global index idx. The
// initializer is nil for imported globals.
func (iface *Interface) Global(idx uint32) (GlobalType, []byte, bool) {
	i := int(idx)
	for _, imp := range iface.Imports {
		if imp.Kind != KindGlobal {
			continue
		}
		if i == 0 {
			return *imp.Global, nil, true
		}
		i--
	}
	if i >= len(iface.Globals) {
		return GlobalType{}, nil, false
	}
	g := iface.Globals[i]
	return g.Type, g.Init, true
}

// ExportedFuncs lists function exports sorted by name.
func (iface *Interface) ExportedFuncs() ([]ExportedFunc, error) {
	var out []ExportedFunc
	for _, exp := range iface.Exports {
		if exp.Kind != KindFunc {
			continue
		}
		ft, ok := iface.FuncType(exp.Idx)
		if !ok {
			return nil, errors.Load(fmt.Sprintf("export %q references unknown function %d", exp.Name, exp.Idx), nil)
		}
		out = append(out, ExportedFunc{Name: exp.Name, Type: ft, Idx: exp.Idx})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// ExportedGlobals lists global exports sorted by name.
func (iface *Interface) ExportedGlobals() ([]ExportedGlobal, error) {
	var out []ExportedGlobal
	for _, exp := range iface.Exports {
		if exp.Kind != KindGlobal {
			continue
		}
		gt, init, ok := iface.Global(exp.Idx)
		if !ok {
			return nil, errors.Load(fmt.Sprintf("export %q references unknown global %d", exp.Name, exp.Idx), nil)
		}
		out = append(out, ExportedGlobal{Name: exp.Name, Type: gt, Init: init, Idx: exp.Idx})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// ConstValue evaluates a single-instruction initializer expression.
// Integers decode to int32/int64 and floats to float32/float64. ok is false
// for expressions that do not produce a plain number.
func ConstValue(init []byte) (v any, ok bool) {
	if len(init) < 2 || init[len(init)-1] != OpEnd {
		return nil, false
	}
	body := init[1 : len(init)-1]
	switch init[0] {
	case OpI32Const:
		x, n, err := Sleb128(body, 32)
		if err != nil || n != len(body) {
			return nil, false
		}
		return int32(x), true
	case OpI64Const:
		x, n, err := Sleb128(body, 64)
		if err != nil || n != len(body) {
			return nil, false
		}
		return x, true
	case OpF32Const:
		if len(body) != 4 {
			return nil, false
		}
		return math.Float32frombits(binary.LittleEndian.Uint32(body)), true
	case OpF64Const:
		if len(body) != 8 {
			return nil, false
		}
		return math.Float64frombits(binary.LittleEndian.Uint64(body)), true
	}
	return nil, false
}
