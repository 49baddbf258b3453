package errors

import (
	"fmt"
	"sort"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseImport   Phase = "import"   // filtered namespace copy
	PhaseCompose  Phase = "compose"  // unit composition
	PhaseScan     Phase = "scan"     // header scanning
	PhaseGenerate Phase = "generate" // Go source emission
	PhaseLoad     Phase = "load"     // native module loading
	PhaseCall     Phase = "call"     // native function invocation
	PhaseConfig   Phase = "config"   // unit configuration
)

// Kind categorizes the error
type Kind string

const (
	KindInvalidPattern Kind = "invalid_pattern"
	KindMissingSymbol  Kind = "missing_symbol"
	KindNotCallable    Kind = "not_callable"
	KindNotFound       Kind = "not_found"
	KindInvalidData    Kind = "invalid_data"
	KindInvalidInput   Kind = "invalid_input"
	KindCollision      Kind = "collision"
	KindFrozen         Kind = "frozen"
	KindUnsupported    Kind = "unsupported"
	KindOutOfBounds    Kind = "out_of_bounds"
	KindNativeCall     Kind = "native_call"
)

// Error is the structured error type used throughout gfxbind
type Error struct {
	Value   any
	Cause   error
	Phase   Phase
	Kind    Kind
	Symbol  string
	Pattern string
	Detail  string
	Path    []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.Symbol != "" || e.Pattern != "" {
		b.WriteString(": ")
		if e.Symbol != "" && e.Pattern != "" {
			b.WriteString("symbol ")
			b.WriteString(e.Symbol)
			b.WriteString(", pattern ")
			b.WriteString(e.Pattern)
		} else if e.Symbol != "" {
			b.WriteString("symbol ")
			b.WriteString(e.Symbol)
		} else {
			b.WriteString("pattern ")
			b.WriteString(e.Pattern)
		}
	}

	if e.Detail != "" {
		if e.Symbol != "" || e.Pattern != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the location path (unit, submodule, method)
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// Symbol sets the native symbol name
func (b *Builder) Symbol(name string) *Builder {
	b.err.Symbol = name
	return b
}

// Pattern sets the offending pattern
func (b *Builder) Pattern(p string) *Builder {
	b.err.Pattern = p
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// InvalidPattern creates an error for a pattern that does not compile
func InvalidPattern(phase Phase, pattern string, cause error) *Error {
	return &Error{
		Phase:   phase,
		Kind:    KindInvalidPattern,
		Pattern: pattern,
		Cause:   cause,
	}
}

// MissingSymbol creates an error for a native symbol a unit depends on
func MissingSymbol(phase Phase, unit, symbol string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindMissingSymbol,
		Path:   []string{unit},
		Symbol: symbol,
		Detail: "not present in the native symbol table",
	}
}

// NotCallable creates an error for a symbol bound as a method that cannot be called
func NotCallable(phase Phase, path []string, symbol string, value any) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotCallable,
		Path:   path,
		Symbol: symbol,
		Detail: fmt.Sprintf("%T is not callable", value),
		Value:  value,
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %q not found", what, name),
	}
}

// Frozen creates an error for a mutation attempted after a namespace was frozen
func Frozen(phase Phase, namespace string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindFrozen,
		Detail: fmt.Sprintf("namespace %q is frozen", namespace),
	}
}

// Collision creates an error for two symbols that map onto one destination name
func Collision(phase Phase, path []string, name string, sources ...string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindCollision,
		Path:   path,
		Symbol: name,
		Detail: fmt.Sprintf("produced by %s", strings.Join(sources, ", ")),
	}
}

// Unsupported creates an unsupported operation error
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Detail: what,
	}
}

// OutOfBounds creates an out of bounds error
func OutOfBounds(phase Phase, path []string, index, length int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfBounds,
		Path:   path,
		Detail: fmt.Sprintf("index %d out of bounds (length %d)", index, length),
		Value:  index,
	}
}

// InvalidData creates an invalid data error
func InvalidData(phase Phase, path []string, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidData,
		Path:   path,
		Detail: detail,
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}

// NativeCall wraps an error returned by a native function
func NativeCall(symbol string, cause error) *Error {
	return &Error{
		Phase:  PhaseCall,
		Kind:   KindNativeCall,
		Symbol: symbol,
		Cause:  cause,
	}
}

// Load creates a native module loading error
func Load(detail string, cause error) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindInvalidData,
		Detail: detail,
		Cause:  cause,
	}
}

// ParseFailed creates a header parsing error
func ParseFailed(what string, cause error) *Error {
	return &Error{
		Phase:  PhaseScan,
		Kind:   KindInvalidData,
		Detail: fmt.Sprintf("parse %s", what),
		Cause:  cause,
	}
}

// MissingSymbolsError is returned when a unit depends on several native
// symbols the table does not provide.
type MissingSymbolsError struct {
	Unit    string
	Symbols []string
}

// NewMissingSymbolsError creates an error listing the missing names in sorted order
func NewMissingSymbolsError(unit string, symbols []string) *MissingSymbolsError {
	sorted := append([]string(nil), symbols...)
	sort.Strings(sorted)
	return &MissingSymbolsError{Unit: unit, Symbols: sorted}
}

func (e *MissingSymbolsError) Error() string {
	if len(e.Symbols) == 0 {
		return "[compose] missing_symbol: no symbols specified"
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("unit %s: missing %d native symbol(s):", e.Unit, len(e.Symbols)))
	for _, s := range e.Symbols {
		b.WriteString("\n    - ")
		b.WriteString(s)
	}
	return b.String()
}

// Is reports whether target matches this error type
func (e *MissingSymbolsError) Is(target error) bool {
	if _, ok := target.(*MissingSymbolsError); ok {
		return true
	}
	t, ok := target.(*Error)
	return ok && t.Phase == PhaseCompose && t.Kind == KindMissingSymbol
}
