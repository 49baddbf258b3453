// Package bind composes the public surface of a native library from its flat
// symbol table.
//
// Composition runs once, before the library is used:
//
//	lib, err := bind.ComposeAll(table, bind.DefaultUnits()...)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	core := lib.Module("core")
//	red, _ := core.Const("GP_RED")
//
//	pixmap := lib.NewOwner(handle)
//	text, _ := pixmap.Submodule("text")
//	_, err = text.Call(ctx, "text", style, x, y, align, fg, bg, str)
//
// ImportMembers is the building block: it copies the symbols selected by a
// pattern.RuleSet into a namespace.Builder under renamed names. Compose
// calls it once for constants, collected into the C sub-namespace, and once
// for functions with the complementary rules, then binds owner methods and
// submodule methods to native functions.
//
// Everything Compose returns is read-only. Modules, owners and submodules
// may be shared between goroutines; concurrency of the native calls
// themselves is up to the Callable implementation.
package bind
