package wasm_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/gfxprim/gfxbind/wasm"
)

func TestLEB128Unsigned(t *testing.T) {
	tests := []struct {
		encoded []byte
		value   uint64
	}{
		{[]byte{0x00}, 0},
		{[]byte{0x01}, 1},
		{[]byte{0x7f}, 127},
		{[]byte{0x80, 0x01}, 128},
		{[]byte{0xff, 0x01}, 255},
		{[]byte{0xe5, 0x8e, 0x26}, 624485},
		{[]byte{0xff, 0xff, 0xff, 0xff, 0x0f}, 0xFFFFFFFF},
	}

	for _, tt := range tests {
		t.Run("", func(t *testing.T) {
			if got := wasm.AppendUleb128(nil, tt.value); !bytes.Equal(got, tt.encoded) {
				t.Errorf("encode %d: got %v, want %v", tt.value, got, tt.encoded)
			}
			got, n, err := wasm.Uleb128(tt.encoded, 32)
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if got != tt.value || n != len(tt.encoded) {
				t.Errorf("decode: got %d (%d bytes), want %d (%d bytes)", got, n, tt.value, len(tt.encoded))
			}
		})
	}
}

func TestLEB128Signed(t *testing.T) {
	tests := []struct {
		encoded []byte
		value   int64
	}{
		{[]byte{0x00}, 0},
		{[]byte{0x01}, 1},
		{[]byte{0x7f}, -1},
		{[]byte{0x3f}, 63},
		{[]byte{0xc0, 0x00}, 64},
		{[]byte{0x40}, -64},
		{[]byte{0xbf, 0x7f}, -65},
		{[]byte{0x80, 0x80, 0x80, 0x80, 0x78}, -2147483648},
	}

	for _, tt := range tests {
		t.Run("", func(t *testing.T) {
			if got := wasm.AppendSleb128(nil, tt.value); !bytes.Equal(got, tt.encoded) {
				t.Errorf("encode %d: got %v, want %v", tt.value, got, tt.encoded)
			}
			got, n, err := wasm.Sleb128(tt.encoded, 32)
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if got != tt.value || n != len(tt.encoded) {
				t.Errorf("decode: got %d (%d bytes), want %d", got, n, tt.value)
			}
		})
	}
}

func TestLEB128Errors(t *testing.T) {
	if _, _, err := wasm.Uleb128([]byte{0x80, 0x80}, 32); !errors.Is(err, wasm.ErrTruncated) {
		t.Errorf("truncated: got %v, want ErrTruncated", err)
	}
	if _, _, err := wasm.Uleb128([]byte{0xff, 0xff, 0xff, 0xff, 0x1f}, 32); !errors.Is(err, wasm.ErrOverflow) {
		t.Errorf("u32 overflow: got %v, want ErrOverflow", err)
	}
	if _, _, err := wasm.Uleb128([]byte{0x80, 0x80, 0x80, 0x80, 0x80, 0x01}, 32); !errors.Is(err, wasm.ErrOverflow) {
		t.Errorf("too long: got %v, want ErrOverflow", err)
	}
	if _, _, err := wasm.Sleb128(nil, 64); !errors.Is(err, wasm.ErrTruncated) {
		t.Errorf("empty: got %v, want ErrTruncated", err)
	}
}
