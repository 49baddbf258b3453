// Command gfxbind composes the gfxprim native library into its core and text
// units. It generates Go bindings from the C headers and inspects the
// composed namespaces of headers or a WebAssembly build of the library.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
