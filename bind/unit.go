package bind

import "github.com/gfxprim/gfxbind/pattern"

// MethodSpec binds a method name to the native function it calls. The owner
// handle is passed as the native function's first argument.
type MethodSpec struct {
	Name   string
	Native string
	// Optional methods are skipped when the native symbol is absent instead
	// of failing the unit.
	Optional bool
}

// SubmoduleSpec declares a submodule attached to every owner, like the
// "text" submodule of a pixmap.
type SubmoduleSpec struct {
	Name    string
	Methods []MethodSpec
}

// Unit describes how one logical unit is carved out of the native table.
type Unit struct {
	ConstRename  pattern.Rename
	FuncRename   pattern.Rename
	Name         string
	ConstInclude []string
	// FuncExclude is added to ConstInclude to form the function exclude list.
	FuncExclude []string
	// Methods are extension methods attached to the owner itself.
	Methods    []MethodSpec
	Submodules []SubmoduleSpec
	// Require lists native names that must be present for the unit to compose.
	Require []string
}

// Constant naming convention of the native library.
const (
	ConstPattern      = `^GP_[A-Z0-9_]*$`
	PixelConstPattern = `^GP_PIXEL_x[A-Z0-9_]*$`
)

// CoreUnit returns the core unit: constants into C unchanged, functions into
// the module unchanged minus blitting, context, printing and binding helpers.
// Pixmap convenience methods are attached to the owner when present.
func CoreUnit() Unit {
	return Unit{
		Name:         "core",
		ConstInclude: []string{ConstPattern, PixelConstPattern},
		FuncExclude: []string{
			`^GP_Blit\w+$`,
			`^GP_Context\w+$`,
			`^GP_PixelSNPrint\w+$`,
			`^GP_WritePixels\w+$`,
			`^\w+_swigregister$`,
			`^cvar$`,
			`^_\w+$`,
		},
		Methods: []MethodSpec{
			{Name: "getpixel", Native: "gp_getpixel", Optional: true},
			{Name: "putpixel", Native: "gp_putpixel", Optional: true},
			{Name: "resize", Native: "gp_pixmap_resize", Optional: true},
			{Name: "rotate_cw", Native: "gp_pixmap_rotate_cw", Optional: true},
			{Name: "rotate_ccw", Native: "gp_pixmap_rotate_ccw", Optional: true},
			{Name: "copy", Native: "gp_pixmap_copy", Optional: true},
			{Name: "convert", Native: "gp_pixmap_convert", Optional: true},
			{Name: "equal", Native: "gp_pixmap_equal", Optional: true},
			{Name: "set_gamma", Native: "gp_pixmap_set_gamma", Optional: true},
			{Name: "print_info", Native: "gp_pixmap_print_info", Optional: true},
		},
	}
}

// TextUnit returns the text unit: constants and functions both lose their
// gp_/GP_ prefix, and every owner gets a "text" submodule drawing through
// gp_text.
func TextUnit() Unit {
	return Unit{
		Name:         "text",
		ConstInclude: []string{ConstPattern},
		ConstRename:  pattern.StripGP,
		FuncExclude:  []string{`^\w+_swigregister$`, `^_\w+$`},
		FuncRename:   pattern.StripGP,
		Submodules: []SubmoduleSpec{
			{Name: "text", Methods: []MethodSpec{{Name: "text", Native: "gp_text"}}},
		},
	}
}

// DefaultUnits returns the core and text units.
func DefaultUnits() []Unit {
	return []Unit{CoreUnit(), TextUnit()}
}
