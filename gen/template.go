package gen

import "text/template"

var fileTemplate = template.Must(template.New("file").Parse(`// Code generated by gfxbind; DO NOT EDIT.
{{- if .Source}}
// Source: {{.Source}}
{{- end}}

// Package {{.Package}} binds the {{.Unit}} unit of gfxprim.
package {{.Package}}
{{if or .Funcs .HasOwner}}
import (
	"context"
{{- if .UsesMath}}
	"math"
{{- end}}

	bind "{{.BindImport}}"
)
{{end}}
{{- if .Consts}}
// Constants of the C namespace.
const (
{{- range .Consts}}
	{{.GoName}} = {{.Literal}}
{{- end}}
)
{{end}}
// Constants is the C namespace of the {{.Unit}} unit. Every submodule shares it.
type Constants struct{}

// C is the {{.Unit}} unit's constants namespace.
var C Constants
{{range .Consts}}
// {{.GoName}} returns C.{{.Name}}.
func (Constants) {{.GoName}}() {{.GoType}} { return {{.GoName}} }
{{end}}
{{- if .Values}}
// Non-function values of the module namespace.
const (
{{- range .Values}}
	{{.GoName}} = {{.Literal}}
{{- end}}
)
{{end}}
{{- range .Funcs}}
{{template "doc" .}}
{{- if .Raw}}
func {{.GoName}}(ctx context.Context, c bind.Caller, args ...uint64) ([]uint64, error) {
	return c.Call(ctx, {{printf "%q" .Native}}{{.Args}})
}
{{- else}}
func {{.GoName}}(ctx context.Context, c bind.Caller{{if .Params}}, {{.Params}}{{end}}) {{template "results" .}} {
{{- template "body" .}}
}
{{- end}}
{{end}}
{{- if .HasOwner}}
// Owner is a native object of the {{.Unit}} unit, such as a pixmap. Its
// handle is passed as the first argument of every method.
type Owner struct {
	caller bind.Caller
	handle uint64
{{- range .Submodules}}
	{{.Field}} *{{.Type}}
{{- end}}
}

// NewOwner wraps handle and attaches its submodules.
func NewOwner(c bind.Caller, handle uint64) *Owner {
	o := &Owner{caller: c, handle: handle}
{{- range .Submodules}}
	o.{{.Field}} = &{{.Type}}{owner: o, C: C}
{{- end}}
	return o
}

// Handle returns the native handle.
func (o *Owner) Handle() uint64 { return o.handle }

// Caller returns the caller the owner was created with.
func (o *Owner) Caller() bind.Caller { return o.caller }
{{range .Methods}}
{{template "doc" .}}
func (o *Owner) {{template "method" .}}
{{end}}
{{- range $sub := .Submodules}}
// {{.Type}} is the {{.Name}} submodule of an Owner.
type {{.Type}} struct {
	owner *Owner
	C     Constants
}

// Owner returns the owner the submodule is attached to.
func (s *{{.Type}}) Owner() *Owner { return s.owner }
{{range .Methods}}
{{template "doc" .}}
func (s *{{$sub.Type}}) {{template "submethod" .}}
{{end}}
{{- end}}
{{- end}}

{{- define "doc"}}// {{.GoName}} calls {{.Native}}.
{{- if .Proto}}
//
//	{{.Proto}}
{{- end}}
{{- end}}

{{- define "results"}}{{if .Void}}error{{else}}({{.Result}}, error){{end}}{{end}}

{{- define "body"}}
{{- if .Void}}
	_, err := c.Call(ctx, {{printf "%q" .Native}}{{.Args}})
	return err
{{- else}}
	v, err := bind.Call1(ctx, c, {{printf "%q" .Native}}{{.Args}})
	if err != nil {
		return {{.Zero}}, err
	}
	return {{.Decode}}, nil
{{- end}}
{{- end}}

{{- define "method"}}
{{- if .Raw}}{{.GoName}}(ctx context.Context, args ...uint64) ([]uint64, error) {
	return o.caller.Call(ctx, {{printf "%q" .Native}}{{.Args}})
}
{{- else}}{{.GoName}}(ctx context.Context{{if .Params}}, {{.Params}}{{end}}) {{template "results" .}} {
	c := o.caller
{{- template "body" .}}
}
{{- end}}
{{- end}}

{{- define "submethod"}}
{{- if .Raw}}{{.GoName}}(ctx context.Context, args ...uint64) ([]uint64, error) {
	o := s.owner
	return o.caller.Call(ctx, {{printf "%q" .Native}}{{.Args}})
}
{{- else}}{{.GoName}}(ctx context.Context{{if .Params}}, {{.Params}}{{end}}) {{template "results" .}} {
	o := s.owner
	c := o.caller
{{- template "body" .}}
}
{{- end}}
{{- end}}
`))
