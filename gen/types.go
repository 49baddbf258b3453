package gen

import (
	"fmt"

	"go.bytecodealliance.org/wit"
)

// goType describes how a WIT value crosses the uint64 call boundary.
type goType struct {
	name   string
	encode string // format with the Go value
	decode string // format with the raw uint64
	zero   string
	math   bool
}

var (
	goBool    = goType{name: "bool", encode: "bind.Bool(%s)", decode: "%s != 0", zero: "false"}
	goInt32   = goType{name: "int32", encode: "uint64(uint32(%s))", decode: "int32(uint32(%s))", zero: "0"}
	goUint32  = goType{name: "uint32", encode: "uint64(%s)", decode: "uint32(%s)", zero: "0"}
	goInt64   = goType{name: "int64", encode: "uint64(%s)", decode: "int64(%s)", zero: "0"}
	goUint64  = goType{name: "uint64", encode: "%s", decode: "%s", zero: "0"}
	goFloat32 = goType{name: "float32", encode: "uint64(math.Float32bits(%s))", decode: "math.Float32frombits(uint32(%s))", zero: "0", math: true}
	goFloat64 = goType{name: "float64", encode: "math.Float64bits(%s)", decode: "math.Float64frombits(%s)", zero: "0", math: true}
)

// goTypeOf maps a WIT type onto a Go type. Strings and pointers are guest
// addresses and travel as uint32; enums as int32.
func goTypeOf(t wit.Type) goType {
	switch t.(type) {
	case wit.Bool:
		return goBool
	case wit.S8, wit.S16, wit.S32:
		return goInt32
	case wit.U8, wit.U16, wit.U32, wit.Char, wit.String:
		return goUint32
	case wit.S64:
		return goInt64
	case wit.U64:
		return goUint64
	case wit.F32:
		return goFloat32
	case wit.F64:
		return goFloat64
	case *wit.TypeDef:
		return goInt32
	default:
		return goUint32
	}
}

func (g goType) enc(v string) string { return fmt.Sprintf(g.encode, v) }
func (g goType) dec(v string) string { return fmt.Sprintf(g.decode, v) }
