package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/gfxprim/gfxbind/bind"
	gerrors "github.com/gfxprim/gfxbind/errors"
	"github.com/gfxprim/gfxbind/symtab"
)

func nop(context.Context, ...uint64) ([]uint64, error) { return nil, nil }

func nativeTable() *symtab.Table {
	fn := symtab.CallableFunc(nop)
	return symtab.FromMap(map[string]any{
		"GP_RED":              int32(1),
		"GP_PIXEL_xRGB888":    int32(2),
		"GP_BlitXYXY":         fn,
		"gp_text":             fn,
		"gp_fill":             fn,
		"gp_getpixel":         fn,
		"_private":            fn,
		"gp_foo_swigregister": fn,
	})
}

func TestLoadMissingReturnsDefault(t *testing.T) {
	t.Setenv(EnvUnits, "")
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestDefaultMatchesBuiltinUnits(t *testing.T) {
	units, err := Default().BindUnits()
	if err != nil {
		t.Fatalf("BindUnits: %v", err)
	}
	fromConfig, err := bind.ComposeAll(nativeTable(), units...)
	if err != nil {
		t.Fatalf("ComposeAll(config): %v", err)
	}
	builtin, err := bind.ComposeAll(nativeTable(), bind.DefaultUnits()...)
	if err != nil {
		t.Fatalf("ComposeAll(builtin): %v", err)
	}
	for _, name := range []string{"core", "text"} {
		a, b := fromConfig.Module(name), builtin.Module(name)
		if diff := cmp.Diff(b.Namespace().Names(), a.Namespace().Names()); diff != "" {
			t.Errorf("%s: module names mismatch (-builtin +config):\n%s", name, diff)
		}
		if !a.C().Equal(b.C()) {
			t.Errorf("%s: constants differ\nconfig:  %v\nbuiltin: %v", name, a.C(), b.C())
		}
		if diff := cmp.Diff(b.Methods(), a.Methods()); diff != "" {
			t.Errorf("%s: methods mismatch (-builtin +config):\n%s", name, diff)
		}
		if diff := cmp.Diff(b.Submodules(), a.Submodules()); diff != "" {
			t.Errorf("%s: submodules mismatch (-builtin +config):\n%s", name, diff)
		}
	}
}

func TestDefaultFollowsBuiltinUnits(t *testing.T) {
	cfg := Default()
	builtin := bind.DefaultUnits()
	if len(cfg.Units) != len(builtin) {
		t.Fatalf("Default has %d units, want %d", len(cfg.Units), len(builtin))
	}
	for i, want := range builtin {
		got := cfg.Units[i]
		if got.Name != want.Name {
			t.Errorf("unit %d = %q, want %q", i, got.Name, want.Name)
		}
		if diff := cmp.Diff(want.ConstInclude, got.Constants.Include); diff != "" {
			t.Errorf("%s: constant include mismatch (-builtin +config):\n%s", want.Name, diff)
		}
		if diff := cmp.Diff(want.FuncExclude, got.Functions.Exclude); diff != "" {
			t.Errorf("%s: function exclude mismatch (-builtin +config):\n%s", want.Name, diff)
		}
		if (want.FuncRename != nil) != (got.Functions.Rename != Rename{}) {
			t.Errorf("%s: function rename = %+v, builtin renames = %v", want.Name, got.Functions.Rename, want.FuncRename != nil)
		}
		if len(got.Submodules) != len(want.Submodules) {
			t.Fatalf("%s: %d submodules, want %d", want.Name, len(got.Submodules), len(want.Submodules))
		}
		for j, sub := range want.Submodules {
			if got.Submodules[j].Name != sub.Name || len(got.Submodules[j].Methods) != len(sub.Methods) {
				t.Errorf("%s: submodule %d = %+v, want %+v", want.Name, j, got.Submodules[j], sub)
			}
		}
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Setenv(EnvUnits, "")
	path := filepath.Join(t.TempDir(), "nested", "units.yaml")
	want := Default()
	want.Headers = []string{"include/gp.h"}
	if err := want.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestParseCustomUnit(t *testing.T) {
	cfg, err := Parse([]byte(`
units:
  - name: loaders
    constants:
      include: ['^GP_LOADER_[A-Z_]*$']
      rename: {strip: '^GP_LOADER_'}
    functions:
      exclude: ['^_\w+$']
      rename: {strip: '^gp_', prefix: 'load_'}
    require: [gp_load_image]
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	units, err := cfg.BindUnits()
	if err != nil {
		t.Fatalf("Units: %v", err)
	}

	fn := symtab.CallableFunc(nop)
	mod, err := bind.Compose(symtab.FromMap(map[string]any{
		"GP_LOADER_PNG": int32(1),
		"gp_load_image": fn,
		"_hidden":       fn,
	}), units[0])
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	if diff := cmp.Diff([]string{"PNG"}, mod.C().Names()); diff != "" {
		t.Errorf("C names mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"load_load_image"}, mod.Namespace().Names()); diff != "" {
		t.Errorf("module names mismatch (-want +got):\n%s", diff)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		kind gerrors.Kind
	}{
		{"unknown key", "units: [{name: a, colour: red}]", gerrors.KindInvalidData},
		{"not yaml", "units: [", gerrors.KindInvalidData},
		{"no units", "package_prefix: gfx", gerrors.KindInvalidInput},
		{"unnamed unit", "units: [{constants: {include: [x]}}]", gerrors.KindInvalidInput},
		{"duplicate unit", "units: [{name: a}, {name: a}]", gerrors.KindCollision},
		{"method without native", "units: [{name: a, methods: [{name: m}]}]", gerrors.KindInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			if !errors.Is(err, &gerrors.Error{Phase: gerrors.PhaseConfig, Kind: tt.kind}) {
				t.Errorf("Parse() error = %v, want config/%s", err, tt.kind)
			}
		})
	}
}

func TestUnitsInvalidRename(t *testing.T) {
	cfg := &Config{Units: []Unit{{Name: "bad", Functions: Functions{Rename: Rename{Strip: "("}}}}}
	_, err := cfg.BindUnits()
	if !errors.Is(err, &gerrors.Error{Phase: gerrors.PhaseConfig, Kind: gerrors.KindInvalidPattern}) {
		t.Fatalf("BindUnits() error = %v, want invalid pattern", err)
	}
	var e *gerrors.Error
	if errors.As(err, &e) {
		if diff := cmp.Diff([]string{"bad", "functions"}, e.Path); diff != "" {
			t.Errorf("path mismatch (-want +got):\n%s", diff)
		}
	}
}

func TestEnvSelectsUnits(t *testing.T) {
	t.Setenv(EnvUnits, " text ")
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.Units) != 1 || cfg.Units[0].Name != "text" {
		t.Errorf("units = %+v, want only text", cfg.Units)
	}

	t.Setenv(EnvUnits, "text,loaders")
	_, err = Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if !errors.Is(err, &gerrors.Error{Phase: gerrors.PhaseConfig, Kind: gerrors.KindNotFound}) {
		t.Errorf("Load() error = %v, want unknown unit", err)
	}
}

func TestLoadUnreadable(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "units.yaml"), 0o755); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(filepath.Join(dir, "units.yaml")); err == nil {
		t.Error("Load(directory) succeeded")
	}
}
