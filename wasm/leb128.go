package wasm

import "errors"

// ErrOverflow is returned when a LEB128 value exceeds its bit width.
var ErrOverflow = errors.New("leb128: overflow")

// ErrTruncated is returned when input ends inside a LEB128 value.
var ErrTruncated = errors.New("leb128: truncated")

// AppendUleb128 appends the unsigned LEB128 encoding of v.
func AppendUleb128(b []byte, v uint64) []byte {
	for {
		c := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			c |= 0x80
		}
		b = append(b, c)
		if v == 0 {
			return b
		}
	}
}

// AppendSleb128 appends the signed LEB128 encoding of v.
func AppendSleb128(b []byte, v int64) []byte {
	for {
		c := byte(v & 0x7f)
		v >>= 7
		if (v == 0 && c&0x40 == 0) || (v == -1 && c&0x40 != 0) {
			return append(b, c)
		}
		b = append(b, c|0x80)
	}
}

// Uleb128 decodes an unsigned value of at most bits width from the start of
// b and returns it with the number of bytes consumed.
func Uleb128(b []byte, bits uint) (uint64, int, error) {
	var result uint64
	var shift uint
	for i, c := range b {
		if shift >= bits {
			return 0, 0, ErrOverflow
		}
		result |= uint64(c&0x7f) << shift
		shift += 7
		if c&0x80 == 0 {
			if bits < 64 && result>>bits != 0 {
				return 0, 0, ErrOverflow
			}
			return result, i + 1, nil
		}
	}
	return 0, 0, ErrTruncated
}

// Sleb128 decodes a signed value of at most bits width from the start of b.
func Sleb128(b []byte, bits uint) (int64, int, error) {
	var result int64
	var shift uint
	for i, c := range b {
		if shift >= bits {
			return 0, 0, ErrOverflow
		}
		result |= int64(c&0x7f) << shift
		shift += 7
		if c&0x80 == 0 {
			if shift < 64 && c&0x40 != 0 {
				result |= ^int64(0) << shift
			}
			return result, i + 1, nil
		}
	}
	return 0, 0, ErrTruncated
}
