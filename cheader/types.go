package cheader

import (
	"context"
	"fmt"
	"strings"

	"go.bytecodealliance.org/wit"

	"github.com/gfxprim/gfxbind/errors"
)

// Param is a function parameter or result.
type Param struct {
	// Type is nil for void.
	Type  wit.Type
	Name  string
	CType string
}

// Signature describes a C function declared in a header.
type Signature struct {
	Name     string
	File     string
	Result   Param
	Params   []Param
	Line     int
	Variadic bool
	Inline   bool
}

// Call implements symtab.Callable so declared functions can be bound like
// native ones. Declarations have no implementation and always fail.
func (s *Signature) Call(context.Context, ...uint64) ([]uint64, error) {
	return nil, errors.New(errors.PhaseCall, errors.KindUnsupported).
		Symbol(s.Name).
		Detail("declared in %s without an implementation", s.File).
		Build()
}

// String renders the signature as a C prototype.
func (s *Signature) String() string {
	var b strings.Builder
	b.WriteString(s.Result.CType)
	if !strings.HasSuffix(s.Result.CType, "*") {
		b.WriteByte(' ')
	}
	b.WriteString(s.Name)
	b.WriteByte('(')
	for i, p := range s.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(p.CType)
		if p.Name != "" {
			if !strings.HasSuffix(p.CType, "*") {
				b.WriteByte(' ')
			}
			b.WriteString(p.Name)
		}
	}
	if s.Variadic {
		if len(s.Params) > 0 {
			b.WriteString(", ")
		}
		b.WriteString("...")
	}
	if len(s.Params) == 0 && !s.Variadic {
		b.WriteString("void")
	}
	b.WriteByte(')')
	return b.String()
}

// Macro is a #define whose body is not a constant expression.
type Macro struct {
	Name     string
	Body     string
	File     string
	Params   []string
	Line     int
	Function bool
}

// String renders the macro as written.
func (m *Macro) String() string {
	if m.Function {
		return fmt.Sprintf("#define %s(%s) %s", m.Name, strings.Join(m.Params, ", "), m.Body)
	}
	if m.Body == "" {
		return "#define " + m.Name
	}
	return "#define " + m.Name + " " + m.Body
}

// TypeKind classifies a declared type.
type TypeKind string

const (
	TypeStruct  TypeKind = "struct"
	TypeUnion   TypeKind = "union"
	TypeEnum    TypeKind = "enum"
	TypeTypedef TypeKind = "typedef"
)

// TypeInfo is a struct, union, enum or typedef declaration.
type TypeInfo struct {
	// Type is the WIT rendering of the declared type.
	Type wit.Type
	Name string
	// CType is the aliased type of a typedef.
	CType string
	File  string
	Kind  TypeKind
	// Cases lists enumerators in declaration order.
	Cases []string
	Line  int
}
