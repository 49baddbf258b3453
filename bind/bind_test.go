package bind

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	gberrors "github.com/gfxprim/gfxbind/errors"
	"github.com/gfxprim/gfxbind/namespace"
	"github.com/gfxprim/gfxbind/pattern"
	"github.com/gfxprim/gfxbind/symtab"
)

// fakeFunc records calls and returns the sum of its parameters.
type fakeFunc struct {
	name  string
	mu    sync.Mutex
	calls [][]uint64
}

func (f *fakeFunc) Call(_ context.Context, params ...uint64) ([]uint64, error) {
	f.mu.Lock()
	f.calls = append(f.calls, append([]uint64(nil), params...))
	f.mu.Unlock()
	var sum uint64
	for _, p := range params {
		sum += p
	}
	return []uint64{sum}, nil
}

func (f *fakeFunc) lastCall() []uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.calls) == 0 {
		return nil
	}
	return f.calls[len(f.calls)-1]
}

type failingFunc struct{}

func (failingFunc) Call(context.Context, ...uint64) ([]uint64, error) {
	return nil, errors.New("trap")
}

func scenarioTable() (*symtab.Table, map[string]*fakeFunc) {
	fns := map[string]*fakeFunc{
		"GP_Blit_Xyz": {name: "GP_Blit_Xyz"},
		"gp_text":     {name: "gp_text"},
		"_internal":   {name: "_internal"},
	}
	return symtab.FromMap(map[string]any{
		"GP_RED":      1,
		"GP_Blit_Xyz": fns["GP_Blit_Xyz"],
		"gp_text":     fns["gp_text"],
		"_internal":   fns["_internal"],
	}), fns
}

var (
	scenarioConst   = []string{`^GP_[A-Z0-9_]*$`}
	scenarioExclude = []string{`^GP_[A-Z0-9_]*$`, `^GP_Blit\w+$`, `^_\w+$`}
)

func TestImportScenario(t *testing.T) {
	tbl, fns := scenarioTable()

	tests := []struct {
		name   string
		rename pattern.Rename
		want   string
	}{
		{"pre-rename", nil, "gp_text"},
		{"strip", pattern.StripGP, "text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			consts := namespace.NewBuilder("C")
			if _, err := ImportPatterns(tbl, consts, scenarioConst, nil, nil); err != nil {
				t.Fatal(err)
			}
			module := namespace.NewBuilder("module")
			if _, err := ImportPatterns(tbl, module, nil, scenarioExclude, tt.rename); err != nil {
				t.Fatal(err)
			}

			c := consts.Freeze()
			if diff := cmp.Diff([]string{"GP_RED"}, c.Names()); diff != "" {
				t.Errorf("constants mismatch (-want +got):\n%s", diff)
			}
			if s, _ := c.Lookup("GP_RED"); s.Value != 1 {
				t.Errorf("GP_RED = %v, want 1", s.Value)
			}

			m := module.Freeze()
			if diff := cmp.Diff([]string{tt.want}, m.Names()); diff != "" {
				t.Errorf("module mismatch (-want +got):\n%s", diff)
			}
			if s, _ := m.Lookup(tt.want); s.Value != fns["gp_text"] {
				t.Errorf("%s bound to %v, want gp_text", tt.want, s.Value)
			}
		})
	}
}

func TestImportMembersReport(t *testing.T) {
	tbl, _ := scenarioTable()
	dst := namespace.NewBuilder("m")

	rep, err := ImportMembers(tbl, dst, pattern.MustCompile(nil, scenarioExclude), nil)
	if err != nil {
		t.Fatal(err)
	}
	if rep.Selected != 1 || rep.Skipped != 3 {
		t.Errorf("report = %+v, want 1 selected, 3 skipped", rep)
	}
	if tbl.Len() != 4 {
		t.Errorf("source table changed: %d entries", tbl.Len())
	}
}

func TestImportMalformedPatternLeavesDestinationEmpty(t *testing.T) {
	tbl, _ := scenarioTable()
	dst := namespace.NewBuilder("m")

	_, err := ImportPatterns(tbl, dst, []string{`^GP_[`}, nil, nil)
	if !errors.Is(err, &gberrors.Error{Phase: gberrors.PhaseImport, Kind: gberrors.KindInvalidPattern}) {
		t.Fatalf("err = %v, want invalid_pattern", err)
	}
	if dst.Len() != 0 {
		t.Errorf("destination has %d entries after failed import", dst.Len())
	}
}

func TestImportCollisionLastWins(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	SetLogger(zap.New(core))
	defer SetLogger(zap.NewNop())

	// "GP_text" < "gp_text" in byte order, so gp_text is processed last.
	first := &fakeFunc{name: "GP_text"}
	last := &fakeFunc{name: "gp_text"}
	tbl := symtab.FromMap(map[string]any{"GP_text": first, "gp_text": last})

	dst := namespace.NewBuilder("text")
	rep, err := ImportMembers(tbl, dst, nil, pattern.StripGP)
	if err != nil {
		t.Fatal(err)
	}

	if len(rep.Collisions) != 1 {
		t.Fatalf("collisions = %v, want 1", rep.Collisions)
	}
	want := Collision{Name: "text", Loser: "GP_text", Winner: "gp_text"}
	if rep.Collisions[0] != want {
		t.Errorf("collision = %+v, want %+v", rep.Collisions[0], want)
	}
	if s, _ := dst.Get("text"); s.Value != last {
		t.Errorf("text bound to %v, want gp_text", s.Value)
	}
	if logs.FilterMessage("rename collision").Len() != 1 {
		t.Errorf("expected one collision log entry, got %d", logs.FilterMessage("rename collision").Len())
	}
}

func TestImportRenameCorrectness(t *testing.T) {
	tbl := symtab.FromMap(map[string]any{
		"GP_FOO":      1,
		"GP_BAR_BAZ":  2,
		"gp_text":     &fakeFunc{},
		"gp_text_ext": &fakeFunc{},
	})
	dst := namespace.NewBuilder("m")
	if _, err := ImportMembers(tbl, dst, nil, pattern.StripGP); err != nil {
		t.Fatal(err)
	}
	ns := dst.Freeze()
	for _, name := range tbl.Names() {
		s, ok := ns.Lookup(pattern.StripGP(name))
		if !ok || s.Name != name {
			t.Errorf("%q not stored under %q", name, pattern.StripGP(name))
		}
	}
}
