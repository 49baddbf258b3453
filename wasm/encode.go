package wasm

import (
	"encoding/binary"
	"math"
)

// Encode serializes the module to the WebAssembly binary format. Empty
// sections are omitted.
func (m *Module) Encode() []byte {
	out := binary.LittleEndian.AppendUint32(nil, Magic)
	out = binary.LittleEndian.AppendUint32(out, Version)

	if len(m.Types) > 0 {
		sec := AppendUleb128(nil, uint64(len(m.Types)))
		for _, ft := range m.Types {
			sec = append(sec, FuncTypeByte)
			sec = appendValTypes(sec, ft.Params)
			sec = appendValTypes(sec, ft.Results)
		}
		out = appendSection(out, SectionType, sec)
	}

	if len(m.Imports) > 0 {
		sec := AppendUleb128(nil, uint64(len(m.Imports)))
		for _, imp := range m.Imports {
			sec = appendName(sec, imp.Module)
			sec = appendName(sec, imp.Name)
			sec = append(sec, imp.Kind)
			switch imp.Kind {
			case KindFunc:
				sec = AppendUleb128(sec, uint64(imp.TypeIdx))
			case KindMemory:
				var lim Limits
				if imp.Memory != nil {
					lim = *imp.Memory
				}
				sec = appendLimits(sec, lim)
			case KindGlobal:
				var gt GlobalType
				if imp.Global != nil {
					gt = *imp.Global
				}
				sec = appendGlobalType(sec, gt)
			}
		}
		out = appendSection(out, SectionImport, sec)
	}

	if len(m.Funcs) > 0 {
		sec := AppendUleb128(nil, uint64(len(m.Funcs)))
		for _, idx := range m.Funcs {
			sec = AppendUleb128(sec, uint64(idx))
		}
		out = appendSection(out, SectionFunction, sec)
	}

	if len(m.Memories) > 0 {
		sec := AppendUleb128(nil, uint64(len(m.Memories)))
		for _, lim := range m.Memories {
			sec = appendLimits(sec, lim)
		}
		out = appendSection(out, SectionMemory, sec)
	}

	if len(m.Globals) > 0 {
		sec := AppendUleb128(nil, uint64(len(m.Globals)))
		for _, g := range m.Globals {
			sec = appendGlobalType(sec, g.Type)
			sec = append(sec, g.Init...)
		}
		out = appendSection(out, SectionGlobal, sec)
	}

	if len(m.Exports) > 0 {
		sec := AppendUleb128(nil, uint64(len(m.Exports)))
		for _, exp := range m.Exports {
			sec = appendName(sec, exp.Name)
			sec = append(sec, exp.Kind)
			sec = AppendUleb128(sec, uint64(exp.Idx))
		}
		out = appendSection(out, SectionExport, sec)
	}

	if len(m.Code) > 0 {
		sec := AppendUleb128(nil, uint64(len(m.Code)))
		for _, fb := range m.Code {
			body := appendLocals(nil, fb.Locals)
			body = append(body, fb.Body...)
			sec = AppendUleb128(sec, uint64(len(body)))
			sec = append(sec, body...)
		}
		out = appendSection(out, SectionCode, sec)
	}

	return out
}

// I32Const returns an initializer expression producing v.
func I32Const(v int32) []byte {
	return append(AppendSleb128([]byte{OpI32Const}, int64(v)), OpEnd)
}

// I64Const returns an initializer expression producing v.
func I64Const(v int64) []byte {
	return append(AppendSleb128([]byte{OpI64Const}, v), OpEnd)
}

// F32Const returns an initializer expression producing v.
func F32Const(v float32) []byte {
	b := binary.LittleEndian.AppendUint32([]byte{OpF32Const}, math.Float32bits(v))
	return append(b, OpEnd)
}

// F64Const returns an initializer expression producing v.
func F64Const(v float64) []byte {
	b := binary.LittleEndian.AppendUint64([]byte{OpF64Const}, math.Float64bits(v))
	return append(b, OpEnd)
}

func appendSection(out []byte, id byte, content []byte) []byte {
	out = append(out, id)
	out = AppendUleb128(out, uint64(len(content)))
	return append(out, content...)
}

func appendName(b []byte, s string) []byte {
	b = AppendUleb128(b, uint64(len(s)))
	return append(b, s...)
}

func appendValTypes(b []byte, types []ValType) []byte {
	b = AppendUleb128(b, uint64(len(types)))
	for _, t := range types {
		b = append(b, byte(t))
	}
	return b
}

func appendLimits(b []byte, lim Limits) []byte {
	if lim.Max != nil {
		b = append(b, 0x01)
		b = AppendUleb128(b, uint64(lim.Min))
		return AppendUleb128(b, uint64(*lim.Max))
	}
	b = append(b, 0x00)
	return AppendUleb128(b, uint64(lim.Min))
}

func appendGlobalType(b []byte, gt GlobalType) []byte {
	b = append(b, byte(gt.ValType))
	if gt.Mutable {
		return append(b, 0x01)
	}
	return append(b, 0x00)
}

// Locals are run-length grouped by consecutive type.
func appendLocals(b []byte, locals []ValType) []byte {
	type group struct {
		n uint32
		t ValType
	}
	var groups []group
	for _, l := range locals {
		if len(groups) > 0 && groups[len(groups)-1].t == l {
			groups[len(groups)-1].n++
			continue
		}
		groups = append(groups, group{n: 1, t: l})
	}
	b = AppendUleb128(b, uint64(len(groups)))
	for _, g := range groups {
		b = AppendUleb128(b, uint64(g.n))
		b = append(b, byte(g.t))
	}
	return b
}
