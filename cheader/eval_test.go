package cheader

import (
	"context"
	"testing"
)

func TestEvalText(t *testing.T) {
	known := map[string]any{"GP_FP_FRAC_BITS": int64(8), "GP_NAME": "gfx"}
	ev := newEvaluator(func(name string) (any, bool) {
		v, ok := known[name]
		return v, ok
	})
	defer ev.close()

	tests := []struct {
		expr string
		want any
	}{
		{"42", int64(42)},
		{"0x1F", int64(31)},
		{"010", int64(8)},
		{"0xffu", int64(255)},
		{"10UL", int64(10)},
		{"1 << 4", int64(16)},
		{"(0x10 | 0x01)", int64(17)},
		{"-1", int64(-1)},
		{"~0", int64(-1)},
		{"!0", int64(1)},
		{"7 % 3", int64(1)},
		{"7 / 2", int64(3)},
		{"6 ^ 3", int64(5)},
		{"6 & 3", int64(2)},
		{"1 << GP_FP_FRAC_BITS", int64(256)},
		{"3 > 2 ? 10 : 20", int64(10)},
		{"2 >= 3", int64(0)},
		{"1 && 0", int64(0)},
		{"(unsigned int)5", int64(5)},
		{"(double)3", 3.0},
		{"1.5 * 2", 3.0},
		{"2.5f", 2.5},
		{"'A'", int64(65)},
		{"'\\n'", int64(10)},
		{`"abc"`, "abc"},
		{`"ab" "cd"`, "abcd"},
		{"GP_NAME", "gfx"},
		{"(1) /* one */", int64(1)},
		{"2 // two", int64(2)},
	}
	for _, tt := range tests {
		got, err := ev.evalText(context.Background(), tt.expr)
		if err != nil {
			t.Errorf("evalText(%q) error: %v", tt.expr, err)
			continue
		}
		if got != tt.want {
			t.Errorf("evalText(%q) = %v (%T), want %v (%T)", tt.expr, got, got, tt.want, tt.want)
		}
	}
}

func TestEvalTextErrors(t *testing.T) {
	ev := newEvaluator(func(string) (any, bool) { return nil, false })
	defer ev.close()

	tests := []struct {
		expr       string
		unresolved bool
	}{
		{"GP_MISSING + 1", true},
		{"1 / 0", false},
		{"sizeof(int)", false},
		{"foo(1)", false},
		{"1 << 64", false},
		{"do {} while (0)", false},
	}
	for _, tt := range tests {
		_, err := ev.evalText(context.Background(), tt.expr)
		if err == nil {
			t.Errorf("evalText(%q) succeeded, want error", tt.expr)
			continue
		}
		if _, ok := err.(*unresolvedError); ok != tt.unresolved {
			t.Errorf("evalText(%q) unresolved = %v, want %v (%v)", tt.expr, ok, tt.unresolved, err)
		}
	}
}

func TestTypeMapper(t *testing.T) {
	m := newTypeMapper()
	m.typedefs["gp_pixel"] = "uint32_t"
	m.typedefs["gp_color"] = "gp_pixel"
	m.typedefs["gp_loop"] = "gp_loop"
	m.typedefs["gp_dir"] = "enum gp_dir"
	m.enums["gp_dir"] = []string{"GP_UP", "GP_DOWN"}

	tests := []struct {
		ctype string
		want  string
	}{
		{"void", "void"},
		{"int", "s32"},
		{"unsigned  int", "u32"},
		{"const char *", "string"},
		{"char **", "u32"},
		{"unsigned char", "u8"},
		{"int64_t", "s64"},
		{"unsigned long long", "u64"},
		{"float", "f32"},
		{"double", "f64"},
		{"bool", "bool"},
		{"gp_color", "u32"},
		{"struct gp_pixmap *", "u32"},
		{"gp_loop", "u32"},
		{"gp_dir", "gp_dir"},
		{"enum gp_dir", "gp_dir"},
		{"enum gp_unknown", "s32"},
	}
	for _, tt := range tests {
		if got := TypeString(m.Map(tt.ctype)); got != tt.want {
			t.Errorf("Map(%q) = %s, want %s", tt.ctype, got, tt.want)
		}
	}
	if m.Map("gp_dir") != m.Map("enum gp_dir") {
		t.Error("enum type definitions should be shared")
	}
}

func TestNormalizeCType(t *testing.T) {
	tests := map[string]string{
		"const char *":          "char *",
		"volatile  unsigned int": "unsigned int",
		"struct gp_pixmap*":     "gp_pixmap *",
		"const char * const *":  "char **",
	}
	for in, want := range tests {
		if got := normalizeCType(in); got != want {
			t.Errorf("normalizeCType(%q) = %q, want %q", in, got, want)
		}
	}
}
