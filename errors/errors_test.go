package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name: "full error",
			err: &Error{
				Phase:   PhaseImport,
				Kind:    KindInvalidPattern,
				Path:    []string{"core", "constants"},
				Symbol:  "GP_RED",
				Pattern: "^GP_[",
				Detail:  "missing closing ]",
			},
			contains: []string{"[import]", "invalid_pattern", "core.constants", "GP_RED", "^GP_[", "missing closing ]"},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase: PhaseCompose,
				Kind:  KindMissingSymbol,
			},
			contains: []string{"[compose]", "missing_symbol"},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:  PhaseLoad,
				Kind:   KindInvalidData,
				Detail: "truncated export section",
				Cause:  errors.New("unexpected EOF"),
			},
			contains: []string{"[load]", "invalid_data", "truncated export section", "caused by", "unexpected EOF"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := &Error{
		Phase: PhaseScan,
		Kind:  KindInvalidData,
		Cause: cause,
	}

	if !errors.Is(errors.Unwrap(err), cause) {
		t.Error("errors.Unwrap did not return cause")
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is should see through to the cause")
	}
}

func TestError_Is(t *testing.T) {
	err := &Error{
		Phase:  PhaseCompose,
		Kind:   KindMissingSymbol,
		Symbol: "gp_text",
	}

	if !err.Is(&Error{Phase: PhaseCompose, Kind: KindMissingSymbol}) {
		t.Error("Is should match same phase and kind")
	}
	if err.Is(&Error{Phase: PhaseImport, Kind: KindMissingSymbol}) {
		t.Error("Is should not match different phase")
	}
	if err.Is(&Error{Phase: PhaseCompose, Kind: KindNotCallable}) {
		t.Error("Is should not match different kind")
	}
}

func TestBuilder(t *testing.T) {
	cause := errors.New("root")
	err := New(PhaseCompose, KindNotCallable).
		Path("text", "text").
		Symbol("gp_text").
		Value(42).
		Cause(cause).
		Detail("bound to %s", "text").
		Build()

	if err.Phase != PhaseCompose {
		t.Errorf("Phase = %v, want %v", err.Phase, PhaseCompose)
	}
	if err.Kind != KindNotCallable {
		t.Errorf("Kind = %v, want %v", err.Kind, KindNotCallable)
	}
	if strings.Join(err.Path, ".") != "text.text" {
		t.Errorf("Path = %v, want [text text]", err.Path)
	}
	if err.Symbol != "gp_text" {
		t.Errorf("Symbol = %q, want %q", err.Symbol, "gp_text")
	}
	if err.Value != 42 {
		t.Errorf("Value = %v, want 42", err.Value)
	}
	if !errors.Is(err.Cause, cause) {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}
	if err.Detail != "bound to text" {
		t.Errorf("Detail = %q, want %q", err.Detail, "bound to text")
	}
}

func TestConvenienceConstructors(t *testing.T) {
	t.Run("InvalidPattern", func(t *testing.T) {
		err := InvalidPattern(PhaseImport, "(", errors.New("bad"))
		if err.Kind != KindInvalidPattern || err.Pattern != "(" {
			t.Errorf("got %+v", err)
		}
	})

	t.Run("MissingSymbol", func(t *testing.T) {
		err := MissingSymbol(PhaseCompose, "text", "gp_text")
		if err.Kind != KindMissingSymbol {
			t.Errorf("Kind = %v, want %v", err.Kind, KindMissingSymbol)
		}
		if !strings.Contains(err.Error(), "gp_text") {
			t.Errorf("Error() = %q, should name the symbol", err.Error())
		}
	})

	t.Run("NotCallable", func(t *testing.T) {
		err := NotCallable(PhaseCompose, []string{"core"}, "GP_RED", 1)
		if err.Kind != KindNotCallable {
			t.Errorf("Kind = %v, want %v", err.Kind, KindNotCallable)
		}
		if !strings.Contains(err.Detail, "int") {
			t.Errorf("Detail = %q, should mention the value type", err.Detail)
		}
	})

	t.Run("NotFound", func(t *testing.T) {
		err := NotFound(PhaseCompose, "function", "blit")
		if err.Kind != KindNotFound {
			t.Errorf("Kind = %v, want %v", err.Kind, KindNotFound)
		}
	})

	t.Run("Frozen", func(t *testing.T) {
		err := Frozen(PhaseImport, "C")
		if err.Kind != KindFrozen || !strings.Contains(err.Detail, `"C"`) {
			t.Errorf("got %+v", err)
		}
	})

	t.Run("Collision", func(t *testing.T) {
		err := Collision(PhaseGenerate, []string{"text"}, "Text", "gp_text", "GP_TEXT")
		if err.Kind != KindCollision {
			t.Errorf("Kind = %v, want %v", err.Kind, KindCollision)
		}
		if !strings.Contains(err.Detail, "gp_text, GP_TEXT") {
			t.Errorf("Detail = %q", err.Detail)
		}
	})

	t.Run("OutOfBounds", func(t *testing.T) {
		err := OutOfBounds(PhaseLoad, []string{"exports"}, 10, 5)
		if err.Value != 10 {
			t.Errorf("Value = %v, want 10", err.Value)
		}
	})

	t.Run("Wrap", func(t *testing.T) {
		cause := errors.New("inner")
		err := Wrap(PhaseCall, KindInvalidInput, cause, "call gp_text")
		if !errors.Is(err, cause) {
			t.Error("Wrap should keep the cause")
		}
	})
}

func TestMissingSymbolsError(t *testing.T) {
	err := NewMissingSymbolsError("core", []string{"gp_putpixel", "gp_getpixel"})

	msg := err.Error()
	first := strings.Index(msg, "gp_getpixel")
	second := strings.Index(msg, "gp_putpixel")
	if first < 0 || second < 0 || first > second {
		t.Errorf("Error() = %q, want sorted symbol list", msg)
	}
	if !errors.Is(err, &Error{Phase: PhaseCompose, Kind: KindMissingSymbol}) {
		t.Error("MissingSymbolsError should match compose/missing_symbol")
	}

	empty := NewMissingSymbolsError("core", nil)
	if !strings.Contains(empty.Error(), "no symbols") {
		t.Errorf("empty Error() = %q", empty.Error())
	}
}
