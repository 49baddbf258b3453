package nativelib

import "io"

// Config holds library loading options.
type Config struct {
	Stdout io.Writer
	Stderr io.Writer
	// Name is the module instance name. Empty means anonymous.
	Name string
	// StartFunctions run after instantiation when exported.
	// Defaults to "_initialize".
	StartFunctions []string
	// MemoryLimitPages caps guest memory in 64KiB pages. 0 keeps the
	// wazero default.
	MemoryLimitPages uint32
	// WASI forces a WASI preview1 host even if the module does not import it.
	WASI bool
	// MutableGlobals also exposes mutable globals as constants, using
	// their value at load time.
	MutableGlobals bool
}

// Option configures Open.
type Option func(*Config)

// WithName sets the module instance name.
func WithName(name string) Option {
	return func(c *Config) { c.Name = name }
}

// WithMemoryLimitPages caps guest memory.
func WithMemoryLimitPages(pages uint32) Option {
	return func(c *Config) { c.MemoryLimitPages = pages }
}

// WithWASI forces instantiation of the WASI preview1 host.
func WithWASI() Option {
	return func(c *Config) { c.WASI = true }
}

// WithOutput routes the guest's stdout and stderr.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(c *Config) {
		c.Stdout = stdout
		c.Stderr = stderr
	}
}

// WithStartFunctions overrides the functions run after instantiation.
func WithStartFunctions(names ...string) Option {
	return func(c *Config) { c.StartFunctions = names }
}

// WithMutableGlobals exposes mutable globals as constants.
func WithMutableGlobals() Option {
	return func(c *Config) { c.MutableGlobals = true }
}

func newConfig(opts []Option) Config {
	cfg := Config{StartFunctions: []string{"_initialize"}}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}
