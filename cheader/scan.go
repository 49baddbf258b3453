package cheader

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"strconv"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/gfxprim/gfxbind/errors"
	"github.com/gfxprim/gfxbind/symtab"
)

// Source is a named header body.
type Source struct {
	Name string
	Data []byte
}

// ScanFiles reads and scans the headers at paths.
func ScanFiles(ctx context.Context, paths ...string) (*symtab.Table, error) {
	sources := make([]Source, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return errors.Wrap(errors.PhaseScan, errors.KindNotFound, err, "read "+path)
			}
			sources[i] = Source{Name: path, Data: data}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return Scan(ctx, sources...)
}

// Scan parses sources concurrently and resolves them in order.
func Scan(ctx context.Context, sources ...Source) (*symtab.Table, error) {
	files := make([][]decl, len(sources))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, src := range sources {
		g.Go(func() error {
			decls, err := parseSource(gctx, src.Name, src.Data)
			if err != nil {
				return err
			}
			files[i] = decls
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	r := newResolver(ctx)
	defer r.ev.close()
	for _, decls := range files {
		r.collectTypes(decls)
	}
	for _, decls := range files {
		r.add(decls)
	}
	r.settle()

	tab := symtab.New(r.entries...)
	Logger().Debug("scanned headers",
		zap.Int("files", len(sources)),
		zap.Int("symbols", tab.Len()),
		zap.Int("macros", r.macros))
	return tab, nil
}

type pending struct {
	name  string
	expr  string
	decl  decl
	index int
}

// resolver evaluates declarations in file order. Entries keep that order
// so later declarations of a name win in the final table.
type resolver struct {
	ctx     context.Context
	types   *typeMapper
	values  map[string]any
	ev      *evaluator
	entries []symtab.Symbol
	pending []pending
	macros  int
}

func newResolver(ctx context.Context) *resolver {
	r := &resolver{
		ctx:    ctx,
		types:  newTypeMapper(),
		values: make(map[string]any),
	}
	r.ev = newEvaluator(func(name string) (any, bool) {
		v, ok := r.values[name]
		return v, ok
	})
	return r
}

func (r *resolver) collectTypes(decls []decl) {
	for _, d := range decls {
		switch d.kind {
		case declEnum:
			if d.name == "" {
				continue
			}
			names := make([]string, len(d.cases))
			for i, c := range d.cases {
				names[i] = c.name
			}
			r.types.enums[d.name] = names
		case declType:
			if d.typ.Kind == TypeTypedef {
				r.types.typedefs[d.typ.Name] = d.typ.CType
			}
		}
	}
}

func (r *resolver) add(decls []decl) {
	for _, d := range decls {
		switch d.kind {
		case declDefine:
			if d.body == "" {
				r.macro(d, -1)
				continue
			}
			r.constant(d.name, d.body, d)
		case declFuncMacro:
			r.macro(d, -1)
		case declEnum:
			r.enum(d)
		case declFunc:
			sig := d.sig
			sig.Result.Type = r.types.Map(sig.Result.CType)
			for i := range sig.Params {
				sig.Params[i].Type = r.types.Map(sig.Params[i].CType)
			}
			r.entries = append(r.entries, symtab.Symbol{Name: d.name, Kind: symtab.KindFunc, Value: sig})
		case declType:
			info := d.typ
			switch info.Kind {
			case TypeTypedef:
				info.Type = r.types.Map(info.CType)
			case TypeEnum:
				info.Type = r.types.enumType(info.Name)
			}
			r.entries = append(r.entries, symtab.Symbol{Name: d.name, Kind: symtab.KindType, Value: info})
		}
	}
}

func (r *resolver) enum(d decl) {
	base := ""
	k := int64(0)
	for _, c := range d.cases {
		expr := c.expr
		switch {
		case expr != "":
			base = expr
			k = 0
		case base == "":
			expr = strconv.FormatInt(k, 10)
		default:
			expr = fmt.Sprintf("(%s) + %d", base, k)
		}
		k++
		cd := d
		cd.name = c.name
		cd.line = c.line
		cd.body = expr
		r.constant(c.name, expr, cd)
	}
	if d.name != "" {
		info := &TypeInfo{Name: d.name, Kind: TypeEnum, File: d.file, Line: d.line, Type: r.types.enumType(d.name)}
		for _, c := range d.cases {
			info.Cases = append(info.Cases, c.name)
		}
		r.entries = append(r.entries, symtab.Symbol{Name: d.name, Kind: symtab.KindType, Value: info})
	}
}

// constant evaluates expr now or defers it until its identifiers resolve.
func (r *resolver) constant(name, expr string, d decl) {
	d.name = name
	v, err := r.ev.evalText(r.ctx, expr)
	if err == nil {
		r.values[name] = v
		r.entries = append(r.entries, symtab.Symbol{Name: name, Kind: symtab.KindConst, Value: v})
		return
	}
	if _, ok := err.(*unresolvedError); !ok {
		Logger().Debug("macro is not a constant expression",
			zap.String("name", name), zap.String("file", d.file), zap.Error(err))
		r.macro(d, -1)
		return
	}
	r.entries = append(r.entries, symtab.Symbol{Name: name})
	r.pending = append(r.pending, pending{name: name, expr: expr, decl: d, index: len(r.entries) - 1})
}

// settle re-evaluates deferred constants until no more resolve; the rest
// become macros.
func (r *resolver) settle() {
	for progress := true; progress && len(r.pending) > 0; {
		progress = false
		remaining := r.pending[:0]
		for _, p := range r.pending {
			v, err := r.ev.evalText(r.ctx, p.expr)
			if err != nil {
				remaining = append(remaining, p)
				continue
			}
			r.values[p.name] = v
			r.entries[p.index] = symtab.Symbol{Name: p.name, Kind: symtab.KindConst, Value: v}
			progress = true
		}
		r.pending = remaining
	}
	for _, p := range r.pending {
		Logger().Debug("unresolved macro", zap.String("name", p.name), zap.String("file", p.decl.file))
		r.macro(p.decl, p.index)
	}
	r.pending = nil
}

// macro records d as a *Macro, replacing entry index when it is not -1.
func (r *resolver) macro(d decl, index int) {
	m := &Macro{
		Name:     d.name,
		Body:     d.body,
		File:     d.file,
		Line:     d.line,
		Params:   d.params,
		Function: d.kind == declFuncMacro,
	}
	sym := symtab.Symbol{Name: d.name, Kind: symtab.KindMacro, Value: m}
	r.macros++
	if index >= 0 {
		r.entries[index] = sym
		return
	}
	r.entries = append(r.entries, sym)
}
