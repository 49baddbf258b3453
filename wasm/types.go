package wasm

import "strings"

// ValType represents a WebAssembly value type.
type ValType byte

// String returns the text format name of the type.
func (v ValType) String() string {
	switch v {
	case ValI32:
		return "i32"
	case ValI64:
		return "i64"
	case ValF32:
		return "f32"
	case ValF64:
		return "f64"
	case ValV128:
		return "v128"
	case ValFuncRef:
		return "funcref"
	case ValExtern:
		return "externref"
	default:
		return "unknown"
	}
}

// FuncType is a function signature.
type FuncType struct {
	Params  []ValType
	Results []ValType
}

// String renders the signature like "(i32, i32) -> i32".
func (f FuncType) String() string {
	var b strings.Builder
	b.WriteByte('(')
	writeValList(&b, f.Params)
	b.WriteByte(')')
	switch len(f.Results) {
	case 0:
	case 1:
		b.WriteString(" -> ")
		b.WriteString(f.Results[0].String())
	default:
		b.WriteString(" -> (")
		writeValList(&b, f.Results)
		b.WriteByte(')')
	}
	return b.String()
}

func writeValList(b *strings.Builder, vals []ValType) {
	for i, v := range vals {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(v.String())
	}
}

// GlobalType describes a global's value type and mutability.
type GlobalType struct {
	ValType ValType
	Mutable bool
}

// Global is a global definition. Init is the constant initializer
// expression including the terminating end opcode.
type Global struct {
	Init []byte
	Type GlobalType
}

// Limits bounds a memory in pages.
type Limits struct {
	Max *uint32
	Min uint32
}

// Import describes an imported definition. TypeIdx is used for functions,
// Global for globals and Memory for memories.
type Import struct {
	Global  *GlobalType
	Memory  *Limits
	Module  string
	Name    string
	TypeIdx uint32
	Kind    byte
}

// Export names a module definition.
type Export struct {
	Name string
	Kind byte
	Idx  uint32
}

// FuncBody is a function's locals and instruction bytes. Body must end
// with OpEnd.
type FuncBody struct {
	Locals []ValType
	Body   []byte
}

// Module is a core module restricted to the sections Encode writes.
type Module struct {
	Types    []FuncType
	Imports  []Import
	Funcs    []uint32
	Memories []Limits
	Globals  []Global
	Exports  []Export
	Code     []FuncBody
}

// NumImportedFuncs returns the count of imported functions.
func (m *Module) NumImportedFuncs() int {
	n := 0
	for _, imp := range m.Imports {
		if imp.Kind == KindFunc {
			n++
		}
	}
	return n
}

// NumImportedGlobals returns the count of imported globals.
func (m *Module) NumImportedGlobals() int {
	n := 0
	for _, imp := range m.Imports {
		if imp.Kind == KindGlobal {
			n++
		}
	}
	return n
}
