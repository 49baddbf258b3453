// Package errors provides structured error types for gfxbind.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type carries the symbol or pattern involved, a field path and a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseCompose, errors.KindMissingSymbol).
//		Path("text", "submodule", "text").
//		Symbol("gp_text").
//		Detail("native function required by submodule").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.InvalidPattern(errors.PhaseImport, `^GP_[`, cause)
//	err := errors.MissingSymbol(errors.PhaseCompose, "core", "gp_getpixel")
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
