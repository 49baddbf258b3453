package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/gfxprim/gfxbind/bind"
	"github.com/gfxprim/gfxbind/cheader"
	"github.com/gfxprim/gfxbind/errors"
	"github.com/gfxprim/gfxbind/nativelib"
	"github.com/gfxprim/gfxbind/symtab"
)

// isTerminal reports whether stdout is a terminal.
var isTerminal = func() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

type inspectOptions struct {
	wasmFile    string
	headers     []string
	wasi        bool
	interactive bool
}

func newInspectCmd(a *app) *cobra.Command {
	var o inspectOptions
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Print the composed namespaces",
		Long: `Compose every configured unit against a WebAssembly build of the
library (--wasm) or its C headers (--header) and print the constants,
functions and submodules of each unit.

With -i an interactive browser is opened instead. Functions of a
WebAssembly library can be called from it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if (o.wasmFile == "") == (len(o.headers) == 0) {
				return errors.InvalidInput(errors.PhaseConfig, "exactly one of --wasm and --header is required")
			}
			if o.interactive && !isTerminal() {
				return errors.Unsupported(errors.PhaseConfig, "interactive mode without a terminal")
			}

			ctx := cmd.Context()
			lib, closer, err := a.open(ctx, o)
			if err != nil {
				return err
			}
			defer closer(ctx)

			if o.interactive {
				return runBrowser(o.source(), lib)
			}
			printLibrary(cmd.OutOrStdout(), lib)
			return nil
		},
	}
	cmd.Flags().StringVar(&o.wasmFile, "wasm", "", "WebAssembly build of the native library")
	cmd.Flags().StringSliceVar(&o.headers, "header", nil, "C headers to scan")
	cmd.Flags().BoolVar(&o.wasi, "wasi", false, "Provide WASI preview1 to the library")
	cmd.Flags().BoolVarP(&o.interactive, "interactive", "i", false, "Browse and call functions in a TUI")
	return cmd
}

func (o inspectOptions) source() string {
	if o.wasmFile != "" {
		return o.wasmFile
	}
	return strings.Join(o.headers, ", ")
}

// open loads the symbol table and composes it. The returned closer releases
// the native library, if any.
func (a *app) open(ctx context.Context, o inspectOptions) (*bind.Library, func(context.Context) error, error) {
	nop := func(context.Context) error { return nil }

	if len(o.headers) > 0 {
		tab, err := cheader.ScanFiles(ctx, o.headers...)
		if err != nil {
			return nil, nil, err
		}
		lib, err := a.compose(tab)
		return lib, nop, err
	}

	bin, err := os.ReadFile(o.wasmFile)
	if err != nil {
		return nil, nil, errors.Load("read "+o.wasmFile, err)
	}
	var opts []nativelib.Option
	if o.wasi {
		opts = append(opts, nativelib.WithWASI(), nativelib.WithOutput(os.Stderr, os.Stderr))
	}
	native, err := nativelib.Open(ctx, bin, opts...)
	if err != nil {
		return nil, nil, err
	}
	lib, err := a.compose(native.Table())
	if err != nil {
		native.Close(ctx)
		return nil, nil, err
	}
	return lib, native.Close, nil
}

func printLibrary(w io.Writer, lib *bind.Library) {
	for i, mod := range lib.Modules() {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "unit %s\n", mod.Name())
		mod.C().Each(func(name string, sym symtab.Symbol) bool {
			fmt.Fprintf(w, "  C.%s = %s\n", name, describe(sym))
			return true
		})
		mod.Namespace().Each(func(name string, sym symtab.Symbol) bool {
			fmt.Fprintf(w, "  %s %s: %s\n", sym.Kind, name, describe(sym))
			return true
		})
		for _, name := range mod.Methods() {
			info, _ := mod.Method(name)
			fmt.Fprintf(w, "  owner.%s -> %s\n", name, info.Native)
		}
		for _, sub := range mod.Submodules() {
			for _, name := range mod.SubmoduleMethods(sub) {
				info, _ := mod.SubmoduleMethod(sub, name)
				fmt.Fprintf(w, "  owner.%s.%s -> %s\n", sub, name, info.Native)
			}
		}
	}
}

func describe(sym symtab.Symbol) string {
	switch v := sym.Value.(type) {
	case *nativelib.Func:
		return sym.Name + v.Signature()
	case *cheader.Signature:
		return v.String()
	case *cheader.Macro:
		return v.String()
	case *cheader.TypeInfo:
		if v.CType != "" {
			return v.CType
		}
		return string(v.Kind) + " " + v.Name
	case string:
		return fmt.Sprintf("%q", v)
	}
	return fmt.Sprintf("%v", sym.Value)
}
