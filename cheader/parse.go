package cheader

import (
	"context"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/c"

	"github.com/gfxprim/gfxbind/errors"
)

type declKind uint8

const (
	declDefine declKind = iota
	declFuncMacro
	declEnum
	declFunc
	declType
)

// decl is one top-level declaration in source order. Expressions are kept
// as text and evaluated once every file has been parsed.
type decl struct {
	sig    *Signature
	typ    *TypeInfo
	name   string
	body   string
	file   string
	params []string
	cases  []enumCase
	line   int
	kind   declKind
}

type enumCase struct {
	name string
	expr string
	line int
}

// parser walks one tree-sitter C syntax tree.
type parser struct {
	src   []byte
	file  string
	decls []decl
}

func newCParser() *sitter.Parser {
	p := sitter.NewParser()
	p.SetLanguage(c.GetLanguage())
	return p
}

func parseSource(ctx context.Context, file string, src []byte) ([]decl, error) {
	tp := newCParser()
	defer tp.Close()

	tree, err := tp.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, errors.ParseFailed(file, err)
	}
	defer tree.Close()

	p := &parser{src: src, file: file}
	root := tree.RootNode()
	if root.HasError() {
		Logger().Debug("header has syntax errors, scanning what parsed")
	}
	p.walk(root)
	return p.decls, nil
}

func (p *parser) text(n *sitter.Node) string {
	return n.Content(p.src)
}

func line(n *sitter.Node) int {
	return int(n.StartPoint().Row) + 1
}

// walk visits top-level declarations, descending into conditional
// preprocessor blocks, linkage blocks and error recovery nodes.
func (p *parser) walk(n *sitter.Node) {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		switch child.Type() {
		case "preproc_def":
			p.define(child)
		case "preproc_function_def":
			p.funcMacro(child)
		case "declaration":
			p.declaration(child)
		case "function_definition":
			p.definition(child)
		case "type_definition":
			p.typedef(child)
		case "struct_specifier", "union_specifier", "enum_specifier":
			p.specifier(child)
		case "preproc_ifdef", "preproc_if", "preproc_else", "preproc_elif",
			"preproc_elifdef", "linkage_specification", "declaration_list", "ERROR":
			p.walk(child)
		}
	}
}

func (p *parser) define(n *sitter.Node) {
	name := n.ChildByFieldName("name")
	if name == nil {
		return
	}
	d := decl{kind: declDefine, name: p.text(name), file: p.file, line: line(n)}
	if v := n.ChildByFieldName("value"); v != nil {
		d.body = strings.TrimSpace(p.text(v))
	}
	p.decls = append(p.decls, d)
}

func (p *parser) funcMacro(n *sitter.Node) {
	name := n.ChildByFieldName("name")
	if name == nil {
		return
	}
	d := decl{kind: declFuncMacro, name: p.text(name), file: p.file, line: line(n)}
	if params := n.ChildByFieldName("parameters"); params != nil {
		for i := 0; i < int(params.NamedChildCount()); i++ {
			d.params = append(d.params, p.text(params.NamedChild(i)))
		}
	}
	if v := n.ChildByFieldName("value"); v != nil {
		d.body = strings.TrimSpace(p.text(v))
	}
	p.decls = append(p.decls, d)
}

// declaration handles prototypes and the types a declaration introduces.
func (p *parser) declaration(n *sitter.Node) {
	typ := n.ChildByFieldName("type")
	if typ == nil {
		return
	}
	p.specifier(typ)
	base := p.baseType(n, typ)
	for _, dn := range p.declarators(n, typ) {
		dc := p.unwrap(dn)
		if dc.fn == nil || dc.ptrAfterFn > 0 || dc.name == "" {
			continue
		}
		p.function(n, dc, base, false)
	}
}

// definition handles function bodies, typically static inline helpers.
func (p *parser) definition(n *sitter.Node) {
	typ := n.ChildByFieldName("type")
	dn := n.ChildByFieldName("declarator")
	if typ == nil || dn == nil {
		return
	}
	p.specifier(typ)
	dc := p.unwrap(dn)
	if dc.fn == nil || dc.name == "" {
		return
	}
	p.function(n, dc, p.baseType(n, typ), p.hasStorage(n, "inline"))
}

func (p *parser) function(n *sitter.Node, dc declarator, base string, inline bool) {
	sig := &Signature{
		Name:   dc.name,
		File:   p.file,
		Line:   line(n),
		Inline: inline,
		Result: Param{CType: pointerType(base, dc.ptrBeforeFn)},
	}
	if params := dc.fn.ChildByFieldName("parameters"); params != nil {
		for i := 0; i < int(params.NamedChildCount()); i++ {
			pn := params.NamedChild(i)
			switch pn.Type() {
			case "variadic_parameter":
				sig.Variadic = true
			case "parameter_declaration":
				pt := pn.ChildByFieldName("type")
				if pt == nil {
					continue
				}
				pbase := p.baseType(pn, pt)
				var pdc declarator
				if d := pn.ChildByFieldName("declarator"); d != nil {
					pdc = p.unwrap(d)
				}
				ptr := pdc.ptrBeforeFn
				if pdc.fn != nil {
					ptr = 1
				}
				if ptr == 0 && pbase == "void" {
					continue
				}
				sig.Params = append(sig.Params, Param{Name: pdc.name, CType: pointerType(pbase, ptr)})
			}
		}
	}
	p.decls = append(p.decls, decl{kind: declFunc, name: sig.Name, sig: sig, file: p.file, line: sig.Line})
}

func (p *parser) typedef(n *sitter.Node) {
	typ := n.ChildByFieldName("type")
	if typ == nil {
		return
	}
	anonEnum := typ.Type() == "enum_specifier" &&
		typ.ChildByFieldName("name") == nil && typ.ChildByFieldName("body") != nil
	p.specifier(typ)
	enumIdx := len(p.decls) - 1
	base := p.baseType(n, typ)
	for _, dn := range p.declarators(n, typ) {
		dc := p.unwrap(dn)
		if dc.name == "" {
			continue
		}
		if anonEnum {
			p.decls[enumIdx].name = dc.name
			base = "enum " + dc.name
			anonEnum = false
		}
		ctype := pointerType(base, dc.ptrBeforeFn)
		if dc.fn != nil {
			ctype = "void *"
		}
		info := &TypeInfo{Name: dc.name, Kind: TypeTypedef, CType: ctype, File: p.file, Line: line(n)}
		p.decls = append(p.decls, decl{kind: declType, name: dc.name, typ: info, file: p.file, line: info.Line})
	}
}

// specifier records named struct, union and enum declarations and the
// enumerators of any enum body, named or not.
func (p *parser) specifier(n *sitter.Node) {
	var kind TypeKind
	switch n.Type() {
	case "struct_specifier":
		kind = TypeStruct
	case "union_specifier":
		kind = TypeUnion
	case "enum_specifier":
		kind = TypeEnum
	default:
		return
	}
	body := n.ChildByFieldName("body")
	name := ""
	if nn := n.ChildByFieldName("name"); nn != nil {
		name = p.text(nn)
	}

	if kind == TypeEnum && body != nil {
		d := decl{kind: declEnum, name: name, file: p.file, line: line(n)}
		for i := 0; i < int(body.NamedChildCount()); i++ {
			en := body.NamedChild(i)
			if en.Type() != "enumerator" {
				continue
			}
			cn := en.ChildByFieldName("name")
			if cn == nil {
				continue
			}
			ec := enumCase{name: p.text(cn), line: line(en)}
			if v := en.ChildByFieldName("value"); v != nil {
				ec.expr = p.text(v)
			}
			d.cases = append(d.cases, ec)
		}
		p.decls = append(p.decls, d)
		return
	}
	if name == "" || body == nil {
		return
	}
	info := &TypeInfo{Name: name, Kind: kind, File: p.file, Line: line(n)}
	p.decls = append(p.decls, decl{kind: declType, name: name, typ: info, file: p.file, line: info.Line})
}

// baseType renders the declared type with its qualifiers, e.g. "const char".
func (p *parser) baseType(owner, typ *sitter.Node) string {
	var quals []string
	for i := 0; i < int(owner.NamedChildCount()); i++ {
		child := owner.NamedChild(i)
		if child.Type() == "type_qualifier" {
			quals = append(quals, p.text(child))
		}
	}
	t := typ.Type()
	var name string
	switch t {
	case "struct_specifier", "union_specifier", "enum_specifier":
		keyword := strings.TrimSuffix(t, "_specifier")
		if nn := typ.ChildByFieldName("name"); nn != nil {
			name = keyword + " " + p.text(nn)
		} else {
			name = keyword
		}
	default:
		name = strings.Join(strings.Fields(p.text(typ)), " ")
	}
	return strings.Join(append(quals, name), " ")
}

func (p *parser) hasStorage(n *sitter.Node, class string) bool {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		switch child.Type() {
		case "storage_class_specifier", "function_specifier":
		default:
			continue
		}
		if p.text(child) == class {
			return true
		}
	}
	return false
}

// declarators returns the declarator children of n other than its type.
func (p *parser) declarators(n, typ *sitter.Node) []*sitter.Node {
	var out []*sitter.Node
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		if child.StartByte() == typ.StartByte() && child.EndByte() == typ.EndByte() {
			continue
		}
		switch child.Type() {
		case "function_declarator", "pointer_declarator", "init_declarator",
			"array_declarator", "parenthesized_declarator", "identifier", "type_identifier":
			out = append(out, child)
		}
	}
	return out
}

type declarator struct {
	fn          *sitter.Node
	name        string
	ptrBeforeFn int
	ptrAfterFn  int
}

// unwrap follows a declarator chain down to its identifier. Pointers seen
// before the first function declarator apply to the declared value or the
// function result; pointers after it make a function pointer.
func (p *parser) unwrap(n *sitter.Node) declarator {
	var dc declarator
	for n != nil {
		switch n.Type() {
		case "pointer_declarator", "abstract_pointer_declarator", "array_declarator", "abstract_array_declarator":
			if dc.fn == nil {
				dc.ptrBeforeFn++
			} else {
				dc.ptrAfterFn++
			}
			n = n.ChildByFieldName("declarator")
		case "function_declarator", "abstract_function_declarator":
			if dc.fn == nil {
				dc.fn = n
			}
			n = n.ChildByFieldName("declarator")
		case "init_declarator":
			n = n.ChildByFieldName("declarator")
		case "parenthesized_declarator", "abstract_parenthesized_declarator":
			if n.NamedChildCount() == 0 {
				return dc
			}
			n = n.NamedChild(0)
		case "identifier", "type_identifier", "field_identifier", "primitive_type":
			dc.name = p.text(n)
			return dc
		default:
			return dc
		}
	}
	return dc
}

func pointerType(base string, ptr int) string {
	if ptr == 0 {
		return base
	}
	return base + " " + strings.Repeat("*", ptr)
}
