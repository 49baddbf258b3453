// Package config loads unit descriptions from YAML.
//
// A configuration file lists the units to carve out of the native symbol
// table, the headers to scan and the package prefix of generated code:
//
//	headers: [include/gp_core.h, include/gp_text.h]
//	package_prefix: gfx
//	units:
//	  - name: text
//	    constants:
//	      include: ['^GP_[A-Z0-9_]*$']
//	      rename: {strip: '^gp_|^GP_'}
//	    functions:
//	      exclude: ['^_\w+$']
//	      rename: {strip: '^gp_|^GP_'}
//	    submodules:
//	      - name: text
//	        methods: [{name: text, native: gp_text}]
//
// Missing files yield Default. GFXBIND_UNITS selects a comma separated
// subset of the configured units.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/gfxprim/gfxbind/bind"
	"github.com/gfxprim/gfxbind/errors"
	"github.com/gfxprim/gfxbind/pattern"
)

// EnvUnits names the environment variable selecting a subset of units.
const EnvUnits = "GFXBIND_UNITS"

// Config holds the unit configuration.
type Config struct {
	PackagePrefix string   `yaml:"package_prefix,omitempty"`
	Headers       []string `yaml:"headers,omitempty"`
	Units         []Unit   `yaml:"units"`
}

// Unit is the YAML form of bind.Unit.
type Unit struct {
	Name       string      `yaml:"name"`
	Constants  Constants   `yaml:"constants,omitempty"`
	Functions  Functions   `yaml:"functions,omitempty"`
	Submodules []Submodule `yaml:"submodules,omitempty"`
	Methods    []Method    `yaml:"methods,omitempty"`
	Require    []string    `yaml:"require,omitempty"`
}

// Constants selects the members of the C namespace.
type Constants struct {
	Include []string `yaml:"include,omitempty"`
	Rename  Rename   `yaml:"rename,omitempty"`
}

// Functions selects the members of the module namespace. Exclude is added
// to the constant include patterns.
type Functions struct {
	Exclude []string `yaml:"exclude,omitempty"`
	Rename  Rename   `yaml:"rename,omitempty"`
}

// Rename strips the leftmost match of Strip, then prepends Prefix.
type Rename struct {
	Strip  string `yaml:"strip,omitempty"`
	Prefix string `yaml:"prefix,omitempty"`
}

// Submodule is the YAML form of bind.SubmoduleSpec.
type Submodule struct {
	Name    string   `yaml:"name"`
	Methods []Method `yaml:"methods,omitempty"`
}

// Method is the YAML form of bind.MethodSpec.
type Method struct {
	Name     string `yaml:"name"`
	Native   string `yaml:"native"`
	Optional bool   `yaml:"optional,omitempty"`
}

// Default returns the core and text units of gfxprim.
func Default() *Config {
	strip := Rename{Strip: `^gp_|^GP_`}
	return &Config{
		PackagePrefix: "gfx",
		Units: []Unit{
			unitOf(bind.CoreUnit(), Rename{}),
			unitOf(bind.TextUnit(), strip),
		},
	}
}

// unitOf converts a built-in unit to its YAML form. Rename functions have no
// YAML form, so rename stands in for both of the unit's renames.
func unitOf(u bind.Unit, rename Rename) Unit {
	out := Unit{
		Name:      u.Name,
		Constants: Constants{Include: u.ConstInclude},
		Functions: Functions{Exclude: u.FuncExclude},
		Methods:   methodsOf(u.Methods),
		Require:   u.Require,
	}
	if u.ConstRename != nil {
		out.Constants.Rename = rename
	}
	if u.FuncRename != nil {
		out.Functions.Rename = rename
	}
	for _, sub := range u.Submodules {
		out.Submodules = append(out.Submodules, Submodule{Name: sub.Name, Methods: methodsOf(sub.Methods)})
	}
	return out
}

func methodsOf(specs []bind.MethodSpec) []Method {
	if len(specs) == 0 {
		return nil
	}
	out := make([]Method, len(specs))
	for i, m := range specs {
		out[i] = Method{Name: m.Name, Native: m.Native, Optional: m.Optional}
	}
	return out
}

// Load reads the configuration at path and applies the environment
// override. A missing file yields Default.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "read "+path)
	default:
		cfg, err = Parse(data)
		if err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes a YAML document. Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	cfg := &Config{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, errors.Wrap(errors.PhaseConfig, errors.KindInvalidData, err, "parse config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks unit and submodule names.
func (c *Config) Validate() error {
	if len(c.Units) == 0 {
		return errors.InvalidInput(errors.PhaseConfig, "no units configured")
	}
	seen := make(map[string]bool, len(c.Units))
	for i, u := range c.Units {
		if u.Name == "" {
			return errors.InvalidInput(errors.PhaseConfig, fmt.Sprintf("unit %d has no name", i))
		}
		if seen[u.Name] {
			return errors.Collision(errors.PhaseConfig, []string{"units"}, u.Name)
		}
		seen[u.Name] = true
		for _, m := range u.allMethods() {
			if m.Name == "" || m.Native == "" {
				return errors.New(errors.PhaseConfig, errors.KindInvalidInput).
					Path(u.Name).
					Detail("method needs both name and native").
					Build()
			}
		}
	}
	return nil
}

func (u Unit) allMethods() []Method {
	out := append([]Method(nil), u.Methods...)
	for _, s := range u.Submodules {
		out = append(out, s.Methods...)
	}
	return out
}

func (c *Config) applyEnv() error {
	v := strings.TrimSpace(os.Getenv(EnvUnits))
	if v == "" {
		return nil
	}
	return c.Select(strings.Split(v, ",")...)
}

// Select keeps only the named units, in configuration order.
func (c *Config) Select(names ...string) error {
	want := make(map[string]bool, len(names))
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			want[n] = true
		}
	}
	var kept []Unit
	for _, u := range c.Units {
		if want[u.Name] {
			kept = append(kept, u)
			delete(want, u.Name)
		}
	}
	for _, n := range names {
		if n = strings.TrimSpace(n); want[n] {
			return errors.NotFound(errors.PhaseConfig, "unit", n)
		}
	}
	c.Units = kept
	return nil
}

// Save writes the configuration to path, creating parent directories.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// BindUnits converts the configuration into bind units, compiling the rename
// rules.
func (c *Config) BindUnits() ([]bind.Unit, error) {
	out := make([]bind.Unit, 0, len(c.Units))
	for _, u := range c.Units {
		bu, err := u.Bind()
		if err != nil {
			return nil, err
		}
		out = append(out, bu)
	}
	return out, nil
}

// Bind converts u into a bind.Unit.
func (u Unit) Bind() (bind.Unit, error) {
	constRename, err := u.Constants.Rename.Func()
	if err != nil {
		return bind.Unit{}, withUnit(err, u.Name, "constants")
	}
	funcRename, err := u.Functions.Rename.Func()
	if err != nil {
		return bind.Unit{}, withUnit(err, u.Name, "functions")
	}
	bu := bind.Unit{
		Name:         u.Name,
		ConstInclude: u.Constants.Include,
		ConstRename:  constRename,
		FuncExclude:  u.Functions.Exclude,
		FuncRename:   funcRename,
		Methods:      methodSpecs(u.Methods),
		Require:      u.Require,
	}
	for _, s := range u.Submodules {
		bu.Submodules = append(bu.Submodules, bind.SubmoduleSpec{Name: s.Name, Methods: methodSpecs(s.Methods)})
	}
	return bu, nil
}

// Func compiles the rename rule. The zero Rename yields nil, which the
// importer treats as the identity.
func (r Rename) Func() (pattern.Rename, error) {
	var steps []pattern.Rename
	if r.Strip != "" {
		strip, err := pattern.StripPrefix(r.Strip)
		if err != nil {
			return nil, err
		}
		steps = append(steps, strip)
	}
	if r.Prefix != "" {
		prefix := r.Prefix
		steps = append(steps, func(s string) string { return prefix + s })
	}
	switch len(steps) {
	case 0:
		return nil, nil
	case 1:
		return steps[0], nil
	}
	return pattern.Chain(steps...), nil
}

func methodSpecs(ms []Method) []bind.MethodSpec {
	if len(ms) == 0 {
		return nil
	}
	out := make([]bind.MethodSpec, len(ms))
	for i, m := range ms {
		out[i] = bind.MethodSpec{Name: m.Name, Native: m.Native, Optional: m.Optional}
	}
	return out
}

func withUnit(err error, path ...string) error {
	if e, ok := err.(*errors.Error); ok {
		e.Path = path
	}
	return err
}
