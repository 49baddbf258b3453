package wasm

import (
	"encoding/binary"
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/gfxprim/gfxbind/errors"
)

// reader walks a byte slice and reports failures with the absolute offset.
type reader struct {
	buf  []byte
	base int
	off  int
}

func newReader(buf []byte, base int) *reader {
	return &reader{buf: buf, base: base}
}

func (r *reader) pos() int { return r.base + r.off }

func (r *reader) done() bool { return r.off >= len(r.buf) }

func (r *reader) fail(format string, args ...any) error {
	return errors.Load(fmt.Sprintf("offset %d: %s", r.pos(), fmt.Sprintf(format, args...)), nil)
}

func (r *reader) failCause(what string, cause error) error {
	return errors.Load(fmt.Sprintf("offset %d: %s", r.pos(), what), cause)
}

func (r *reader) byte() (byte, error) {
	if r.done() {
		return 0, r.fail("unexpected end of input")
	}
	b := r.buf[r.off]
	r.off++
	return b, nil
}

func (r *reader) bytes(n int) ([]byte, error) {
	if n < 0 || len(r.buf)-r.off < n {
		return nil, r.fail("need %d bytes, have %d", n, len(r.buf)-r.off)
	}
	b := r.buf[r.off : r.off+n]
	r.off += n
	return b, nil
}

func (r *reader) u32() (uint32, error) {
	v, n, err := Uleb128(r.buf[r.off:], 32)
	if err != nil {
		return 0, r.failCause("read u32", err)
	}
	r.off += n
	return uint32(v), nil
}

func (r *reader) s32() (int32, error) {
	v, n, err := Sleb128(r.buf[r.off:], 32)
	if err != nil {
		return 0, r.failCause("read s32", err)
	}
	r.off += n
	return int32(v), nil
}

func (r *reader) s64() (int64, error) {
	v, n, err := Sleb128(r.buf[r.off:], 64)
	if err != nil {
		return 0, r.failCause("read s64", err)
	}
	r.off += n
	return v, nil
}

func (r *reader) f32() (float32, error) {
	b, err := r.bytes(4)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(binary.LittleEndian.Uint32(b)), nil
}

func (r *reader) f64() (float64, error) {
	b, err := r.bytes(8)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(b)), nil
}

func (r *reader) name() (string, error) {
	n, err := r.u32()
	if err != nil {
		return "", err
	}
	b, err := r.bytes(int(n))
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		return "", r.fail("name is not valid UTF-8")
	}
	return string(b), nil
}

// count reads a vector length and rejects lengths that cannot fit in the
// remaining input, assuming each element takes at least one byte.
func (r *reader) count() (int, error) {
	n, err := r.u32()
	if err != nil {
		return 0, err
	}
	if int(n) > len(r.buf)-r.off {
		return 0, r.fail("vector length %d exceeds remaining input", n)
	}
	return int(n), nil
}

func (r *reader) valType() (ValType, error) {
	b, err := r.byte()
	if err != nil {
		return 0, err
	}
	switch v := ValType(b); v {
	case ValI32, ValI64, ValF32, ValF64, ValV128, ValFuncRef, ValExtern:
		return v, nil
	default:
		return 0, r.fail("invalid value type 0x%02x", b)
	}
}

func (r *reader) valTypes() ([]ValType, error) {
	n, err := r.count()
	if err != nil {
		return nil, err
	}
	out := make([]ValType, n)
	for i := range out {
		if out[i], err = r.valType(); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (r *reader) limits() (Limits, error) {
	flag, err := r.byte()
	if err != nil {
		return Limits{}, err
	}
	var lim Limits
	if lim.Min, err = r.u32(); err != nil {
		return Limits{}, err
	}
	switch flag {
	case 0x00:
	case 0x01, 0x03:
		hi, err := r.u32()
		if err != nil {
			return Limits{}, err
		}
		lim.Max = &hi
	default:
		return Limits{}, r.fail("invalid limits flag 0x%02x", flag)
	}
	return lim, nil
}

func (r *reader) globalType() (GlobalType, error) {
	vt, err := r.valType()
	if err != nil {
		return GlobalType{}, err
	}
	mut, err := r.byte()
	if err != nil {
		return GlobalType{}, err
	}
	if mut > 1 {
		return GlobalType{}, r.fail("invalid mutability 0x%02x", mut)
	}
	return GlobalType{ValType: vt, Mutable: mut == 1}, nil
}

// constExpr reads an initializer expression up to and including its end
// opcode. Only single-instruction expressions are accepted.
func (r *reader) constExpr() ([]byte, error) {
	start := r.off
	op, err := r.byte()
	if err != nil {
		return nil, err
	}
	switch op {
	case OpI32Const:
		_, err = r.s32()
	case OpI64Const:
		_, err = r.s64()
	case OpF32Const:
		_, err = r.bytes(4)
	case OpF64Const:
		_, err = r.bytes(8)
	case OpGlobalGet, OpRefFunc:
		_, err = r.u32()
	case OpRefNull:
		_, err = r.byte()
	default:
		return nil, r.fail("unsupported constant expression opcode 0x%02x", op)
	}
	if err != nil {
		return nil, err
	}
	end, err := r.byte()
	if err != nil {
		return nil, err
	}
	if end != OpEnd {
		return nil, r.fail("constant expression not terminated")
	}
	return r.buf[start:r.off], nil
}
