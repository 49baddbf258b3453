// Package cheader scans C headers into a symbol table.
//
// Headers are parsed with tree-sitter's C grammar. Function prototypes and
// static inline definitions become function symbols carrying a *Signature,
// object-like macros whose body is a constant expression become constants,
// enumerators become constants and struct, union, enum and typedef
// declarations become type symbols. Anything else a header #defines is kept
// as a *Macro.
//
// Files are parsed concurrently and then resolved in the order given, so a
// macro may refer to constants defined in any earlier or later header. When
// two headers declare the same name the later one wins.
//
// C types are mapped onto WIT types for a wasm32 target: pointers are u32
// handles, char pointers are strings and enums keep their case names.
package cheader
