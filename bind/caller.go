package bind

import (
	"context"

	"github.com/gfxprim/gfxbind/errors"
	"github.com/gfxprim/gfxbind/symtab"
)

// Caller invokes native functions by their native name. Generated bindings
// call through a Caller.
type Caller interface {
	Call(ctx context.Context, name string, args ...uint64) ([]uint64, error)
}

// CallerFunc adapts a function to Caller.
type CallerFunc func(ctx context.Context, name string, args ...uint64) ([]uint64, error)

// Call implements Caller.
func (f CallerFunc) Call(ctx context.Context, name string, args ...uint64) ([]uint64, error) {
	return f(ctx, name, args...)
}

// TableCaller calls the callable symbols of t.
func TableCaller(t *symtab.Table) Caller {
	return CallerFunc(func(ctx context.Context, name string, args ...uint64) ([]uint64, error) {
		sym, ok := t.Lookup(name)
		if !ok {
			return nil, errors.NotFound(errors.PhaseCall, "native function", name)
		}
		fn, ok := sym.Callable()
		if !ok {
			return nil, errors.NotCallable(errors.PhaseCall, nil, name, sym.Value)
		}
		res, err := fn.Call(ctx, args...)
		if err != nil {
			return nil, errors.NativeCall(name, err)
		}
		return res, nil
	})
}

// Call1 calls name and returns its single result.
func Call1(ctx context.Context, c Caller, name string, args ...uint64) (uint64, error) {
	res, err := c.Call(ctx, name, args...)
	if err != nil {
		return 0, err
	}
	if len(res) == 0 {
		return 0, errors.New(errors.PhaseCall, errors.KindInvalidData).
			Symbol(name).
			Detail("native function returned no result").
			Build()
	}
	return res[0], nil
}

// Bool encodes a boolean argument.
func Bool(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}
