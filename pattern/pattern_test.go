package pattern

import (
	"errors"
	"regexp"
	"testing"

	gberrors "github.com/gfxprim/gfxbind/errors"
)

var coreConstants = []string{`^GP_[A-Z0-9_]*$`, `^GP_PIXEL_x[A-Z0-9_]*$`}

func TestSelects(t *testing.T) {
	tests := []struct {
		name    string
		include []string
		exclude []string
		want    bool
	}{
		{"GP_RED", coreConstants, nil, true},
		{"GP_PIXEL_xRGB888", coreConstants, nil, true},
		{"GP_Blit_Xyz", coreConstants, nil, false},
		{"gp_text", coreConstants, nil, false},
		{"gp_text", nil, coreConstants, true},
		{"GP_RED", nil, coreConstants, false},
		{"GP_Blit_Xyz", nil, []string{`^GP_Blit\w+$`}, false},
		{"_internal", nil, []string{`^_\w+$`}, false},
		{"Pixmap_swigregister", nil, []string{`^\w+_swigregister$`}, false},
		{"anything", nil, nil, true},
		// patterns must match the whole name
		{"xGP_RED", []string{`GP_RED`}, nil, false},
		{"GP_REDx", []string{`GP_RED`}, nil, false},
		{"GP_RED", []string{`GP_RED`}, nil, true},
		// exclude wins over include
		{"GP_RED", []string{`GP_\w+`}, []string{`GP_RED`}, false},
	}

	for _, tt := range tests {
		rs := MustCompile(tt.include, tt.exclude)
		if got := rs.Selects(tt.name); got != tt.want {
			t.Errorf("Compile(%q, %q).Selects(%q) = %v, want %v",
				tt.include, tt.exclude, tt.name, got, tt.want)
		}
	}
}

// TestSelectsPredicate checks every combination of a small pattern pool
// against an independent evaluation of the selection predicate.
func TestSelectsPredicate(t *testing.T) {
	names := []string{
		"GP_RED", "GP_Blit_Xyz", "gp_text", "_internal", "cvar",
		"GP_PIXEL_xRGB", "Pixmap_swigregister", "", "GP_", "gp_",
	}
	pool := []string{`^GP_[A-Z0-9_]*$`, `^GP_Blit\w+$`, `^_\w+$`, `gp_\w*`, `cvar`}

	full := func(p, s string) bool {
		return regexp.MustCompile(`^(?:` + p + `)$`).MatchString(s)
	}

	subsets := func() [][]string {
		var out [][]string
		for mask := 0; mask < 1<<len(pool); mask++ {
			var set []string
			for i, p := range pool {
				if mask&(1<<i) != 0 {
					set = append(set, p)
				}
			}
			out = append(out, set)
		}
		return out
	}()

	for _, inc := range subsets {
		for _, exc := range subsets {
			rs := MustCompile(inc, exc)
			for _, name := range names {
				incOK := len(inc) == 0
				for _, p := range inc {
					if full(p, name) {
						incOK = true
					}
				}
				excHit := false
				for _, p := range exc {
					if full(p, name) {
						excHit = true
					}
				}
				want := incOK && !excHit
				if got := rs.Selects(name); got != want {
					t.Fatalf("include=%q exclude=%q name=%q: Selects = %v, want %v",
						inc, exc, name, got, want)
				}
			}
		}
	}
}

func TestCompileMalformed(t *testing.T) {
	tests := []struct {
		include []string
		exclude []string
		bad     string
	}{
		{[]string{`^GP_[A-Z`}, nil, `^GP_[A-Z`},
		{nil, []string{`ok`, `(unclosed`}, `(unclosed`},
	}

	for _, tt := range tests {
		rs, err := Compile(tt.include, tt.exclude)
		if err == nil {
			t.Fatalf("Compile(%q, %q) succeeded, want error", tt.include, tt.exclude)
		}
		if rs != nil {
			t.Errorf("Compile returned a partial RuleSet")
		}
		var perr *gberrors.Error
		if !errors.As(err, &perr) {
			t.Fatalf("error %T is not *errors.Error", err)
		}
		if perr.Kind != gberrors.KindInvalidPattern || perr.Pattern != tt.bad {
			t.Errorf("got kind=%s pattern=%q, want invalid_pattern %q", perr.Kind, perr.Pattern, tt.bad)
		}
	}
}

func TestMustCompilePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustCompile did not panic on malformed pattern")
		}
	}()
	MustCompile([]string{`[`}, nil)
}

func TestComplementIsDisjoint(t *testing.T) {
	consts := MustCompile(coreConstants, nil)
	funcs, err := consts.Complement(`^GP_Blit\w+$`, `^_\w+$`)
	if err != nil {
		t.Fatal(err)
	}

	for _, name := range []string{"GP_RED", "GP_PIXEL_xRGB", "GP_Blit_Xyz", "gp_text", "_internal", "GP_Mixed"} {
		if consts.Selects(name) && funcs.Selects(name) {
			t.Errorf("%q selected by both constant and function rules", name)
		}
	}

	if got := funcs.Exclude(); len(got) != 4 || got[0] != coreConstants[0] || got[3] != `^_\w+$` {
		t.Errorf("Exclude() = %q", got)
	}
	if len(funcs.Include()) != 0 {
		t.Errorf("Include() = %q, want empty", funcs.Include())
	}

	if _, err := consts.Complement(`(`); err == nil {
		t.Error("Complement accepted a malformed pattern")
	}
}

func TestMatchers(t *testing.T) {
	re, err := NewRegexpMatcher([]string{`^gp_pixmap_\w+$`})
	if err != nil {
		t.Fatal(err)
	}
	m := NewCompositeMatcher(
		NewExactMatcher([]string{"gp_text"}),
		NewPrefixMatcher([]string{"GP_PIXEL_"}),
		re,
	)

	tests := []struct {
		name string
		want bool
	}{
		{"gp_text", true},
		{"GP_PIXEL_RGB888", true},
		{"gp_pixmap_alloc", true},
		{"gp_getpixel", false},
	}
	for _, tt := range tests {
		if got := m.Match(tt.name); got != tt.want {
			t.Errorf("Match(%q) = %v, want %v", tt.name, got, tt.want)
		}
		if got := Not(m).Match(tt.name); got == tt.want {
			t.Errorf("Not(m).Match(%q) = %v, want %v", tt.name, got, !tt.want)
		}
	}

	if _, err := NewRegexpMatcher([]string{`)`}); err == nil {
		t.Error("NewRegexpMatcher accepted a malformed pattern")
	}
}
