// Package gen emits Go bindings for a composed unit.
//
// The generated file holds the unit's constants both as package constants
// and as methods of the zero-size Constants type exposed as C, one wrapper
// per public function and, when the unit declares submodules or owner
// methods, an Owner type whose submodules share C. Wrappers call natives
// through a bind.Caller such as a *nativelib.Library.
package gen

import (
	"bytes"
	"go/format"
	"strings"

	"go.uber.org/zap"

	"github.com/gfxprim/gfxbind/bind"
	"github.com/gfxprim/gfxbind/errors"
)

// DefaultBindImport is the import path of the runtime support package.
const DefaultBindImport = "github.com/gfxprim/gfxbind/bind"

// Options control code generation.
type Options struct {
	// Package is the Go package name. Defaults to PackageName("gfx", unit).
	Package string
	// Source is recorded in the file header, e.g. the scanned headers.
	Source string
	// BindImport overrides DefaultBindImport.
	BindImport string
}

// PackageName derives a package name from a prefix and a unit name.
func PackageName(prefix, unit string) string {
	name := strings.ToLower(sanitize(prefix + unit))
	return strings.Trim(name, "_")
}

// Generate renders the Go source for mod.
func Generate(mod *bind.Module, opts Options) ([]byte, error) {
	if mod == nil {
		return nil, errors.InvalidInput(errors.PhaseGenerate, "nil module")
	}
	if opts.Package == "" {
		opts.Package = PackageName("gfx", mod.Name())
	}
	if opts.BindImport == "" {
		opts.BindImport = DefaultBindImport
	}

	f, err := newBuilder(mod, opts).build()
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := fileTemplate.Execute(&buf, f); err != nil {
		return nil, errors.Wrap(errors.PhaseGenerate, errors.KindInvalidData, err, "render "+mod.Name())
	}
	src, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, errors.Wrap(errors.PhaseGenerate, errors.KindInvalidData, err, "format "+mod.Name())
	}

	Logger().Debug("generated unit",
		zap.String("unit", mod.Name()),
		zap.String("package", opts.Package),
		zap.Int("constants", len(f.Consts)),
		zap.Int("functions", len(f.Funcs)),
		zap.Int("submodules", len(f.Submodules)))
	return src, nil
}
