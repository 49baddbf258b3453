// Package nativelib loads a native library compiled to a WebAssembly core
// module and exposes its exports as a symbol table.
//
// Exported functions become callable symbols and exported immutable globals
// become constants:
//
//	lib, err := nativelib.Open(ctx, bin)
//	if err != nil {
//	    return err
//	}
//	defer lib.Close(ctx)
//
//	mods, err := bind.ComposeAll(lib.Table(), bind.DefaultUnits()...)
//
// Calls into the module are serialised. A call whose context is cancelled
// or times out terminates the guest module.
package nativelib
