// Package gfxbind composes the gfxprim native library into the structured
// surface its users program against.
//
// The native library exposes one flat table of symbols: functions such as
// gp_text and gp_pixmap_resize next to constants such as GP_PIXEL_RGB888.
// gfxbind carves that table into units. Each unit selects its constants by
// pattern into a C sub-namespace, selects its functions into the unit
// namespace, optionally strips the gp_/GP_ prefix, and attaches submodules
// to every pixmap whose methods pass the pixmap as the first argument.
//
// # Architecture Overview
//
//	gfxbind/            Load: open a wasm build and compose the default units
//	├── symtab/         Flat symbol table of the native library
//	├── pattern/        Full-match pattern rule sets and rename rules
//	├── namespace/      Mutable builders and frozen read-only namespaces
//	├── bind/           Importer, unit composer, owners and submodules
//	├── config/         YAML unit descriptions
//	├── wasm/           Minimal core module codec
//	├── nativelib/      wazero-backed symbol source
//	├── cheader/        C header scanner (tree-sitter)
//	├── gen/            Go code generator for composed units
//	├── errors/         Structured error types
//	└── cmd/gfxbind/    gen and inspect commands
//
// # Quick Start
//
// Compose a WebAssembly build of the library at runtime:
//
//	b, err := gfxbind.Load(ctx, wasmBytes, nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer b.Close(ctx)
//
//	red, _ := b.Module("core").Const("GP_RED")
//	pixmap := b.NewOwner(handle)
//	text, _ := pixmap.Submodule("text")
//	_, err = text.Call(ctx, "text", x, y)
//
// Or generate typed bindings from the headers once:
//
//	gfxbind gen --header gfxprim.h --out ./bindings
//
// # Naming Contract
//
// The core unit keeps native names: GP_* constants land in core.C and the
// remaining functions in core, minus blitting, context and binding helpers.
// The text unit strips the prefix: GP_ALIGN_LEFT becomes text.C.ALIGN_LEFT
// and gp_text becomes text.text. When two native names rename onto the same
// public name the one greatest in byte order wins.
package gfxbind
