// Package wasm reads and writes the parts of the WebAssembly binary format
// that describe a native library's interface.
//
// ReadInterface decodes the type, import, function, global and export
// sections of a core module and skips everything else. The result lists
// every export with its function signature or global type, which is what a
// symbol table needs.
//
// Module and Encode build small core modules. They cover the sections
// ReadInterface understands plus memory and code, enough to assemble
// native test libraries:
//
//	m := &wasm.Module{
//	    Types:   []wasm.FuncType{{Params: []wasm.ValType{wasm.ValI32}, Results: []wasm.ValType{wasm.ValI32}}},
//	    Funcs:   []uint32{0},
//	    Code:    []wasm.FuncBody{{Body: []byte{wasm.OpLocalGet, 0, wasm.OpEnd}}},
//	    Exports: []wasm.Export{{Name: "gp_identity", Kind: wasm.KindFunc, Idx: 0}},
//	}
//	bin := m.Encode()
package wasm
