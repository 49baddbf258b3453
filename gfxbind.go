package gfxbind

import (
	"context"

	"github.com/gfxprim/gfxbind/bind"
	"github.com/gfxprim/gfxbind/nativelib"
)

// Binding is a native library composed into its units.
type Binding struct {
	*bind.Library
	native *nativelib.Library
}

// Load instantiates a WebAssembly build of the native library and composes
// units against its export table. Nil units selects bind.DefaultUnits. On a
// composition failure the library is closed and no Binding is returned.
func Load(ctx context.Context, bin []byte, units []bind.Unit, opts ...nativelib.Option) (*Binding, error) {
	if units == nil {
		units = bind.DefaultUnits()
	}
	native, err := nativelib.Open(ctx, bin, opts...)
	if err != nil {
		return nil, err
	}
	lib, err := bind.ComposeAll(native.Table(), units...)
	if err != nil {
		native.Close(ctx)
		return nil, err
	}
	return &Binding{Library: lib, native: native}, nil
}

// Native returns the underlying library. It implements bind.Caller, so it
// can be passed to generated bindings.
func (b *Binding) Native() *nativelib.Library {
	return b.native
}

// Close releases the native library.
func (b *Binding) Close(ctx context.Context) error {
	return b.native.Close(ctx)
}
