package cheader

import (
	"strings"

	"go.bytecodealliance.org/wit"
)

// maxTypedefDepth bounds typedef chains such as a -> b -> unsigned int.
const maxTypedefDepth = 16

var primitives = map[string]wit.Type{
	"bool":                   wit.Bool{},
	"_Bool":                  wit.Bool{},
	"char":                   wit.S8{},
	"signed char":            wit.S8{},
	"int8_t":                 wit.S8{},
	"unsigned char":          wit.U8{},
	"uint8_t":                wit.U8{},
	"short":                  wit.S16{},
	"short int":              wit.S16{},
	"signed short":           wit.S16{},
	"int16_t":                wit.S16{},
	"unsigned short":         wit.U16{},
	"unsigned short int":     wit.U16{},
	"uint16_t":               wit.U16{},
	"int":                    wit.S32{},
	"signed":                 wit.S32{},
	"signed int":             wit.S32{},
	"int32_t":                wit.S32{},
	"long":                   wit.S32{},
	"long int":               wit.S32{},
	"signed long":            wit.S32{},
	"ssize_t":                wit.S32{},
	"intptr_t":               wit.S32{},
	"ptrdiff_t":              wit.S32{},
	"unsigned":               wit.U32{},
	"unsigned int":           wit.U32{},
	"uint32_t":               wit.U32{},
	"unsigned long":          wit.U32{},
	"unsigned long int":      wit.U32{},
	"size_t":                 wit.U32{},
	"uintptr_t":              wit.U32{},
	"long long":              wit.S64{},
	"long long int":          wit.S64{},
	"signed long long":       wit.S64{},
	"int64_t":                wit.S64{},
	"unsigned long long":     wit.U64{},
	"unsigned long long int": wit.U64{},
	"uint64_t":               wit.U64{},
	"float":                  wit.F32{},
	"double":                 wit.F64{},
	"long double":            wit.F64{},
}

// typeMapper maps C type spellings onto WIT types for a wasm32 target.
type typeMapper struct {
	typedefs map[string]string
	enums    map[string][]string
	enumDefs map[string]*wit.TypeDef
}

func newTypeMapper() *typeMapper {
	return &typeMapper{
		typedefs: make(map[string]string),
		enums:    make(map[string][]string),
		enumDefs: make(map[string]*wit.TypeDef),
	}
}

// normalizeCType drops qualifiers and collapses whitespace.
func normalizeCType(ctype string) string {
	ctype = strings.ReplaceAll(ctype, "*", " * ")
	var parts []string
	for _, f := range strings.Fields(ctype) {
		switch f {
		case "const", "volatile", "restrict", "__restrict", "struct", "union":
			continue
		}
		parts = append(parts, f)
	}
	s := strings.Join(parts, " ")
	return strings.ReplaceAll(s, "* *", "**")
}

// Map returns the WIT type for ctype. void maps to nil.
func (m *typeMapper) Map(ctype string) wit.Type {
	return m.mapDepth(normalizeCType(ctype), 0)
}

func (m *typeMapper) mapDepth(t string, depth int) wit.Type {
	ptr := strings.Count(t, "*")
	base := strings.TrimSpace(strings.ReplaceAll(t, "*", ""))
	if ptr > 0 {
		if ptr == 1 && base == "char" {
			return wit.String{}
		}
		return wit.U32{}
	}
	if base == "void" {
		return nil
	}
	if p, ok := primitives[base]; ok {
		return p
	}
	if name, ok := strings.CutPrefix(base, "enum "); ok {
		return m.enumType(name)
	}
	if alias, ok := m.typedefs[base]; ok && depth < maxTypedefDepth {
		return m.mapDepth(normalizeCType(alias), depth+1)
	}
	if _, ok := m.enums[base]; ok {
		return m.enumType(base)
	}
	// Opaque or by-value aggregates are passed as handles.
	return wit.U32{}
}

func (m *typeMapper) enumType(name string) wit.Type {
	if td, ok := m.enumDefs[name]; ok {
		return td
	}
	cases, ok := m.enums[name]
	if !ok {
		return wit.S32{}
	}
	td := &wit.TypeDef{Name: &name, Kind: &wit.Enum{Cases: enumCases(cases)}}
	m.enumDefs[name] = td
	return td
}

func enumCases(names []string) []wit.EnumCase {
	cases := make([]wit.EnumCase, len(names))
	for i, n := range names {
		cases[i] = wit.EnumCase{Name: n}
	}
	return cases
}

// TypeString renders a WIT type the way WIT source spells it.
func TypeString(t wit.Type) string {
	switch v := t.(type) {
	case nil:
		return "void"
	case wit.Bool:
		return "bool"
	case wit.U8:
		return "u8"
	case wit.S8:
		return "s8"
	case wit.U16:
		return "u16"
	case wit.S16:
		return "s16"
	case wit.U32:
		return "u32"
	case wit.S32:
		return "s32"
	case wit.U64:
		return "u64"
	case wit.S64:
		return "s64"
	case wit.F32:
		return "f32"
	case wit.F64:
		return "f64"
	case wit.Char:
		return "char"
	case wit.String:
		return "string"
	case *wit.TypeDef:
		if v.Name != nil {
			return *v.Name
		}
		return "typedef"
	default:
		return "unknown"
	}
}
