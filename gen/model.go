package gen

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/gfxprim/gfxbind/bind"
	"github.com/gfxprim/gfxbind/cheader"
	"github.com/gfxprim/gfxbind/errors"
	"github.com/gfxprim/gfxbind/namespace"
	"github.com/gfxprim/gfxbind/symtab"
)

type file struct {
	Package    string
	Unit       string
	Source     string
	BindImport string
	Consts     []constDef
	Values     []constDef
	Funcs      []funcDef
	Methods    []funcDef
	Submodules []submoduleDef
	UsesMath   bool
	HasOwner   bool
}

type constDef struct {
	GoName  string
	Name    string
	Literal string
	GoType  string
}

type funcDef struct {
	GoName   string
	Native   string
	Proto    string
	Params   string // Go parameter list without ctx and caller
	Args     string // call arguments after the native name
	Result   string
	Decode   string
	Zero     string
	Raw      bool
	Void     bool
}

type submoduleDef struct {
	Field   string
	Type    string
	Name    string
	Methods []funcDef
}

// builder assembles the template model and tracks Go names in package scope.
type builder struct {
	mod   *bind.Module
	f     *file
	names map[string]string
}

func newBuilder(mod *bind.Module, opts Options) *builder {
	b := &builder{
		mod: mod,
		f: &file{
			Package:    opts.Package,
			Unit:       mod.Name(),
			Source:     opts.Source,
			BindImport: opts.BindImport,
		},
		names: make(map[string]string),
	}
	for _, id := range []string{"C", "Constants", "Owner", "NewOwner"} {
		b.names[id] = "generated " + id
	}
	return b
}

// claim reserves a package-scope Go identifier.
func (b *builder) claim(id, source string) error {
	if prev, dup := b.names[id]; dup {
		return errors.Collision(errors.PhaseGenerate, []string{b.mod.Name()}, id, prev, source)
	}
	b.names[id] = source
	return nil
}

func (b *builder) build() (*file, error) {
	if err := b.constants(b.mod.C(), &b.f.Consts, "C."); err != nil {
		return nil, err
	}
	if err := b.functions(); err != nil {
		return nil, err
	}
	if err := b.owner(); err != nil {
		return nil, err
	}
	return b.f, nil
}

func (b *builder) constants(ns *namespace.Namespace, out *[]constDef, prefix string) error {
	var err error
	ns.Each(func(name string, sym symtab.Symbol) bool {
		if sym.Kind != symtab.KindConst {
			return true
		}
		lit, typ, ok := literal(sym.Value)
		if !ok {
			Logger().Debug("skipping constant of unsupported type",
				zap.String("name", name), zap.String("type", fmt.Sprintf("%T", sym.Value)))
			return true
		}
		id := constName(name)
		if err = b.claim(id, prefix+name); err != nil {
			return false
		}
		*out = append(*out, constDef{GoName: id, Name: name, Literal: lit, GoType: typ})
		return true
	})
	return err
}

func (b *builder) functions() error {
	ns := b.mod.Funcs()
	if err := b.constants(ns, &b.f.Values, ""); err != nil {
		return err
	}
	var err error
	ns.Each(func(name string, sym symtab.Symbol) bool {
		if sym.Kind != symtab.KindFunc {
			return true
		}
		id := exportName(name)
		if err = b.claim(id, name); err != nil {
			return false
		}
		var fd funcDef
		fd, err = b.function(id, sym.Name, sym.Value, false)
		if err != nil {
			return false
		}
		b.f.Funcs = append(b.f.Funcs, fd)
		return true
	})
	return err
}

func (b *builder) owner() error {
	unit := b.mod.Unit()
	members := map[string]string{"Handle": "generated Handle", "Caller": "generated Caller"}
	claimMember := func(id, source string) error {
		if prev, dup := members[id]; dup {
			return errors.Collision(errors.PhaseGenerate, []string{b.mod.Name(), "Owner"}, id, prev, source)
		}
		members[id] = source
		return nil
	}

	for _, name := range b.mod.Methods() {
		info, _ := b.mod.Method(name)
		id := exportName(name)
		if err := claimMember(id, name); err != nil {
			return err
		}
		fd, err := b.function(id, info.Native, info.Value, true)
		if err != nil {
			return err
		}
		b.f.Methods = append(b.f.Methods, fd)
	}

	for _, ss := range unit.Submodules {
		field := exportName(ss.Name)
		if err := claimMember(field, ss.Name); err != nil {
			return err
		}
		typ := field + "Submodule"
		if err := b.claim(typ, ss.Name+" submodule"); err != nil {
			return err
		}
		sd := submoduleDef{Field: field, Type: typ, Name: ss.Name}
		seen := map[string]string{"Owner": "generated Owner", "C": "generated C"}
		for _, mname := range b.mod.SubmoduleMethods(ss.Name) {
			info, _ := b.mod.SubmoduleMethod(ss.Name, mname)
			id := exportName(mname)
			if prev, dup := seen[id]; dup {
				return errors.Collision(errors.PhaseGenerate, []string{b.mod.Name(), ss.Name}, id, prev, mname)
			}
			seen[id] = mname
			fd, err := b.function(id, info.Native, info.Value, true)
			if err != nil {
				return err
			}
			sd.Methods = append(sd.Methods, fd)
		}
		b.f.Submodules = append(b.f.Submodules, sd)
	}
	b.f.HasOwner = len(b.f.Methods) > 0 || len(b.f.Submodules) > 0
	return nil
}

// function renders one wrapper. Methods pass the owner handle in place of
// the first native parameter.
func (b *builder) function(id, native string, value any, method bool) (funcDef, error) {
	fd := funcDef{GoName: id, Native: native}
	sig, ok := value.(*cheader.Signature)
	if !ok {
		fd.Raw = true
		if method {
			fd.Args = ", append([]uint64{o.handle}, args...)..."
		} else {
			fd.Args = ", args..."
		}
		return fd, nil
	}
	fd.Proto = sig.String()

	params := sig.Params
	var args []string
	if method {
		if len(params) == 0 {
			return funcDef{}, errors.New(errors.PhaseGenerate, errors.KindInvalidInput).
				Path(b.mod.Name()).
				Symbol(native).
				Detail("method %s needs the owner as first parameter", id).
				Build()
		}
		params = params[1:]
		args = append(args, "o.handle")
	}

	raw := make([]string, len(params))
	for i, p := range params {
		raw[i] = p.Name
	}
	names := paramNames(raw)
	decls := make([]string, len(params))
	for i, p := range params {
		gt := goTypeOf(p.Type)
		b.f.UsesMath = b.f.UsesMath || gt.math
		decls[i] = names[i] + " " + gt.name
		args = append(args, gt.enc(names[i]))
	}
	if sig.Variadic {
		decls = append(decls, "va ...uint64")
	}
	fd.Params = strings.Join(decls, ", ")

	switch {
	case sig.Variadic:
		fd.Args = ", append([]uint64{" + strings.Join(args, ", ") + "}, va...)..."
	case len(args) > 0:
		fd.Args = ", " + strings.Join(args, ", ")
	}

	if sig.Result.Type == nil {
		fd.Void = true
		return fd, nil
	}
	gt := goTypeOf(sig.Result.Type)
	b.f.UsesMath = b.f.UsesMath || gt.math
	fd.Result = gt.name
	fd.Decode = gt.dec("v")
	fd.Zero = gt.zero
	return fd, nil
}

// literal renders a constant value as Go source with its accessor type.
func literal(v any) (lit, typ string, ok bool) {
	switch x := v.(type) {
	case int64:
		return strconv.FormatInt(x, 10), "int64", true
	case int32:
		return strconv.FormatInt(int64(x), 10), "int64", true
	case int:
		return strconv.Itoa(x), "int64", true
	case uint32:
		return strconv.FormatUint(uint64(x), 10), "int64", true
	case uint64:
		return strconv.FormatUint(x, 10), "uint64", true
	case float32:
		if math.IsNaN(float64(x)) || math.IsInf(float64(x), 0) {
			return "", "", false
		}
		return floatLiteral(float64(x), 32), "float64", true
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return "", "", false
		}
		return floatLiteral(x, 64), "float64", true
	case string:
		return strconv.Quote(x), "string", true
	case bool:
		return strconv.FormatBool(x), "bool", true
	}
	return "", "", false
}

func floatLiteral(f float64, bits int) string {
	s := strconv.FormatFloat(f, 'g', -1, bits)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}
