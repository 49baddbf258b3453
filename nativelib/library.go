package nativelib

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
	"go.uber.org/zap"

	"github.com/gfxprim/gfxbind/errors"
	"github.com/gfxprim/gfxbind/symtab"
	"github.com/gfxprim/gfxbind/wasm"
)

// maxCString bounds ReadCString scans.
const maxCString = 1 << 16

// Library is an instantiated native library.
type Library struct {
	runtime wazero.Runtime
	module  api.Module
	iface   *wasm.Interface
	table   *symtab.Table
	funcs   map[string]*Func
	mu      sync.Mutex
}

// Open compiles and instantiates bin and builds its symbol table.
func Open(ctx context.Context, bin []byte, opts ...Option) (*Library, error) {
	cfg := newConfig(opts)
	log := Logger()

	iface, err := wasm.ReadInterface(bin)
	if err != nil {
		return nil, err
	}

	runtimeCfg := wazero.NewRuntimeConfig().WithCloseOnContextDone(true)
	if cfg.MemoryLimitPages > 0 {
		runtimeCfg = runtimeCfg.WithMemoryLimitPages(cfg.MemoryLimitPages)
	}
	rt := wazero.NewRuntimeWithConfig(ctx, runtimeCfg)

	lib, err := instantiate(ctx, rt, bin, cfg)
	if err != nil {
		_ = rt.Close(ctx)
		return nil, err
	}
	lib.iface = iface

	if err := lib.buildTable(cfg); err != nil {
		_ = rt.Close(ctx)
		return nil, err
	}

	log.Debug("opened native library",
		zap.String("name", cfg.Name),
		zap.Int("symbols", lib.table.Len()),
		zap.Int("functions", len(lib.funcs)))
	return lib, nil
}

func instantiate(ctx context.Context, rt wazero.Runtime, bin []byte, cfg Config) (*Library, error) {
	compiled, err := rt.CompileModule(ctx, bin)
	if err != nil {
		return nil, errors.Load("compile native library", err)
	}

	needsWASI := cfg.WASI
	for _, def := range compiled.ImportedFunctions() {
		if mod, _, ok := def.Import(); ok && mod == wasi_snapshot_preview1.ModuleName {
			needsWASI = true
			break
		}
	}
	if needsWASI {
		if _, err := wasi_snapshot_preview1.Instantiate(ctx, rt); err != nil {
			return nil, errors.Load("instantiate WASI", err)
		}
		Logger().Debug("instantiated WASI host")
	}

	modCfg := wazero.NewModuleConfig().
		WithName(cfg.Name).
		WithStartFunctions(cfg.StartFunctions...)
	if cfg.Stdout != nil {
		modCfg = modCfg.WithStdout(cfg.Stdout)
	}
	if cfg.Stderr != nil {
		modCfg = modCfg.WithStderr(cfg.Stderr)
	}

	mod, err := rt.InstantiateModule(ctx, compiled, modCfg)
	if err != nil {
		return nil, errors.Load("instantiate native library", err)
	}
	return &Library{runtime: rt, module: mod}, nil
}

func (l *Library) buildTable(cfg Config) error {
	defs := l.module.ExportedFunctionDefinitions()
	l.funcs = make(map[string]*Func, len(defs))
	symbols := make([]symtab.Symbol, 0, len(defs))
	for name, def := range defs {
		fn := l.module.ExportedFunction(name)
		if fn == nil {
			return errors.Load(fmt.Sprintf("export %q has no function", name), nil)
		}
		f := &Func{lib: l, name: name, def: def, fn: fn}
		l.funcs[name] = f
		symbols = append(symbols, symtab.Symbol{Name: name, Kind: symtab.KindFunc, Value: f})
	}

	globals, err := l.iface.ExportedGlobals()
	if err != nil {
		return err
	}
	for _, g := range globals {
		if g.Type.Mutable && !cfg.MutableGlobals {
			Logger().Debug("skipping mutable global", zap.String("name", g.Name))
			continue
		}
		glob := l.module.ExportedGlobal(g.Name)
		if glob == nil {
			return errors.Load(fmt.Sprintf("global %q not exported by instance", g.Name), nil)
		}
		v, ok := decodeValue(glob.Type(), glob.Get())
		if !ok {
			Logger().Debug("skipping global of unsupported type",
				zap.String("name", g.Name),
				zap.String("type", api.ValueTypeName(glob.Type())))
			continue
		}
		symbols = append(symbols, symtab.Symbol{Name: g.Name, Kind: symtab.KindConst, Value: v})
	}

	l.table = symtab.New(symbols...)
	return nil
}

func decodeValue(t api.ValueType, raw uint64) (any, bool) {
	switch t {
	case api.ValueTypeI32:
		return api.DecodeI32(raw), true
	case api.ValueTypeI64:
		return int64(raw), true
	case api.ValueTypeF32:
		return api.DecodeF32(raw), true
	case api.ValueTypeF64:
		return api.DecodeF64(raw), true
	default:
		return nil, false
	}
}

// Table returns the library's symbol table.
func (l *Library) Table() *symtab.Table {
	return l.table
}

// Interface returns the decoded module interface.
func (l *Library) Interface() *wasm.Interface {
	return l.iface
}

// Func returns the exported function name.
func (l *Library) Func(name string) (*Func, bool) {
	f, ok := l.funcs[name]
	return f, ok
}

// Call invokes the exported function name. Library implements bind.Caller.
func (l *Library) Call(ctx context.Context, name string, params ...uint64) ([]uint64, error) {
	f, ok := l.funcs[name]
	if !ok {
		return nil, errors.NotFound(errors.PhaseCall, "native function", name)
	}
	return f.Call(ctx, params...)
}

// Funcs returns exported function names in sorted order.
func (l *Library) Funcs() []string {
	names := make([]string, 0, len(l.funcs))
	for name := range l.funcs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ReadMemory copies n bytes of guest memory starting at offset.
func (l *Library) ReadMemory(offset, n uint32) ([]byte, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	mem := l.module.Memory()
	if mem == nil {
		return nil, errors.Unsupported(errors.PhaseCall, "library exports no memory")
	}
	buf, ok := mem.Read(offset, n)
	if !ok {
		return nil, errors.OutOfBounds(errors.PhaseCall, []string{"memory"}, int(offset)+int(n), int(mem.Size()))
	}
	return append([]byte(nil), buf...), nil
}

// WriteMemory copies data into guest memory at offset.
func (l *Library) WriteMemory(offset uint32, data []byte) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	mem := l.module.Memory()
	if mem == nil {
		return errors.Unsupported(errors.PhaseCall, "library exports no memory")
	}
	if !mem.Write(offset, data) {
		return errors.OutOfBounds(errors.PhaseCall, []string{"memory"}, int(offset)+len(data), int(mem.Size()))
	}
	return nil
}

// ReadCString reads a NUL-terminated string at ptr.
func (l *Library) ReadCString(ptr uint32) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	mem := l.module.Memory()
	if mem == nil {
		return "", errors.Unsupported(errors.PhaseCall, "library exports no memory")
	}
	size := mem.Size()
	if ptr >= size {
		return "", errors.OutOfBounds(errors.PhaseCall, []string{"memory"}, int(ptr), int(size))
	}
	n := size - ptr
	if n > maxCString {
		n = maxCString
	}
	buf, _ := mem.Read(ptr, n)
	for i, c := range buf {
		if c == 0 {
			return string(buf[:i]), nil
		}
	}
	return "", errors.InvalidData(errors.PhaseCall, []string{"memory"},
		fmt.Sprintf("no terminator within %d bytes of %#x", n, ptr))
}

// Close releases the runtime and everything instantiated in it.
func (l *Library) Close(ctx context.Context) error {
	return l.runtime.Close(ctx)
}
