package gfxbind_test

import (
	"context"
	"errors"
	"testing"

	"github.com/gfxprim/gfxbind"
	"github.com/gfxprim/gfxbind/bind"
	gerrors "github.com/gfxprim/gfxbind/errors"
	"github.com/gfxprim/gfxbind/wasm"
)

// textLibrary exports gp_text(owner, x) = owner + x and GP_ALIGN_LEFT.
func textLibrary() []byte {
	i32 := wasm.ValI32
	m := &wasm.Module{
		Types: []wasm.FuncType{{Params: []wasm.ValType{i32, i32}, Results: []wasm.ValType{i32}}},
		Funcs: []uint32{0},
		Globals: []wasm.Global{
			{Type: wasm.GlobalType{ValType: i32}, Init: wasm.I32Const(1)},
		},
		Exports: []wasm.Export{
			{Name: "gp_text", Kind: wasm.KindFunc, Idx: 0},
			{Name: "GP_ALIGN_LEFT", Kind: wasm.KindGlobal, Idx: 0},
		},
		Code: []wasm.FuncBody{
			{Body: []byte{wasm.OpLocalGet, 0, wasm.OpLocalGet, 1, wasm.OpI32Add, wasm.OpEnd}},
		},
	}
	return m.Encode()
}

func TestLoadDefaultUnits(t *testing.T) {
	ctx := context.Background()
	b, err := gfxbind.Load(ctx, textLibrary(), nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	defer b.Close(ctx)

	if v, ok := b.Module("core").Const("GP_ALIGN_LEFT"); !ok || v != int32(1) {
		t.Errorf("core.C.GP_ALIGN_LEFT = %v, %v", v, ok)
	}
	if v, ok := b.Module("text").Const("ALIGN_LEFT"); !ok || v != int32(1) {
		t.Errorf("text.C.ALIGN_LEFT = %v, %v", v, ok)
	}

	text, ok := b.NewOwner(40).Submodule("text")
	if !ok {
		t.Fatal("owner has no text submodule")
	}
	res, err := text.Call(ctx, "text", 2)
	if err != nil {
		t.Fatalf("text.text: %v", err)
	}
	if len(res) != 1 || res[0] != 42 {
		t.Errorf("text.text(2) = %v, want [42]", res)
	}

	v, err := bind.Call1(ctx, b.Native(), "gp_text", 1, 2)
	if err != nil || v != 3 {
		t.Errorf("Native gp_text(1, 2) = %d, %v", v, err)
	}
}

func TestLoadMissingRequirement(t *testing.T) {
	units := []bind.Unit{{Name: "loaders", Require: []string{"gp_load_image"}}}
	_, err := gfxbind.Load(context.Background(), textLibrary(), units)
	if !errors.Is(err, &gerrors.Error{Phase: gerrors.PhaseCompose, Kind: gerrors.KindMissingSymbol}) {
		t.Errorf("Load() error = %v, want missing symbol", err)
	}
}

func TestLoadInvalidBinary(t *testing.T) {
	_, err := gfxbind.Load(context.Background(), []byte("\x00asm"), nil)
	if err == nil {
		t.Fatal("Load of a truncated binary succeeded")
	}
}
