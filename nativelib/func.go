package nativelib

import (
	"context"
	"fmt"
	"strings"

	"github.com/tetratelabs/wazero/api"

	"github.com/gfxprim/gfxbind/errors"
)

// Func is an exported native function. It implements symtab.Callable.
type Func struct {
	lib  *Library
	def  api.FunctionDefinition
	fn   api.Function
	name string
}

// Name returns the export name.
func (f *Func) Name() string {
	return f.name
}

// Definition returns the wazero function definition.
func (f *Func) Definition() api.FunctionDefinition {
	return f.def
}

// Signature renders the function type, e.g. "(i32, i32) -> i32".
func (f *Func) Signature() string {
	var b strings.Builder
	b.WriteByte('(')
	for i, t := range f.def.ParamTypes() {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(api.ValueTypeName(t))
	}
	b.WriteByte(')')
	results := f.def.ResultTypes()
	if len(results) > 0 {
		b.WriteString(" -> ")
		for i, t := range results {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(api.ValueTypeName(t))
		}
	}
	return b.String()
}

// Call invokes the function. Parameters use wazero's uint64 encoding.
func (f *Func) Call(ctx context.Context, params ...uint64) ([]uint64, error) {
	if want := len(f.def.ParamTypes()); len(params) != want {
		return nil, errors.New(errors.PhaseCall, errors.KindInvalidInput).
			Symbol(f.name).
			Detail("expected %d params, got %d", want, len(params)).
			Build()
	}
	f.lib.mu.Lock()
	defer f.lib.mu.Unlock()
	results, err := f.fn.Call(ctx, params...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", f.name, err)
	}
	return results, nil
}
