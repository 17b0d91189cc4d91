package bitvec

import (
	"crypto/subtle"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strings"
)

// Vector is an immutable sequence of Bits() bits.
// The zero Vector has width 0 and is only useful as an "absent" marker.
type Vector struct {
	bits int
	data []byte // big-endian, len(data) == bits/8
}

// New returns the all-zero vector of the given width.
func New(bits int) (Vector, error) {
	if !ValidLength(bits) {
		return Vector{}, fmt.Errorf("%w: %d", ErrInvalidLength, bits)
	}
	return Vector{bits: bits, data: make([]byte, bits/8)}, nil
}

// FromBytes builds a vector from a big-endian byte slice of exactly bits/8 bytes.
// The slice is copied.
func FromBytes(bits int, b []byte) (Vector, error) {
	if !ValidLength(bits) {
		return Vector{}, fmt.Errorf("%w: %d", ErrInvalidLength, bits)
	}
	if len(b) != bits/8 {
		return Vector{}, fmt.Errorf("%w: have %d bytes, want %d", ErrLengthMismatch, len(b), bits/8)
	}
	return Vector{bits: bits, data: append([]byte(nil), b...)}, nil
}

// FromUint64 builds a vector holding x in its low-order bits.
// Bits of x above the vector width are dropped.
func FromUint64(bits int, x uint64) (Vector, error) {
	v, err := New(bits)
	if err != nil {
		return Vector{}, err
	}
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], x)
	if len(v.data) >= 8 {
		copy(v.data[len(v.data)-8:], buf[:])
	} else {
		copy(v.data, buf[8-len(v.data):])
	}
	return v, nil
}

// MustFromUint64 is like FromUint64 but panics on an invalid width.
// It is intended for constants in tests and examples.
func MustFromUint64(bits int, x uint64) Vector {
	v, err := FromUint64(bits, x)
	if err != nil {
		panic(err)
	}
	return v
}

// ParseHex parses a hexadecimal string (optionally prefixed with 0x) into a
// vector of the given width. Shorter strings are left-padded with zeros.
func ParseHex(bits int, s string) (Vector, error) {
	if !ValidLength(bits) {
		return Vector{}, fmt.Errorf("%w: %d", ErrInvalidLength, bits)
	}
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	digits := bits / 4
	if len(s) > digits {
		return Vector{}, fmt.Errorf("%w: %d digits for a %d-bit vector", ErrInvalidHex, len(s), bits)
	}
	s = strings.Repeat("0", digits-len(s)) + s
	b, err := hex.DecodeString(s)
	if err != nil {
		return Vector{}, fmt.Errorf("%w: %v", ErrInvalidHex, err)
	}
	return Vector{bits: bits, data: b}, nil
}

// Bits returns the width of the vector.
func (v Vector) Bits() int { return v.bits }

// Bytes returns a copy of the big-endian encoding of v.
func (v Vector) Bytes() []byte { return append([]byte(nil), v.data...) }

// Uint64 returns the low-order 64 bits of v.
func (v Vector) Uint64() uint64 {
	var buf [8]byte
	if len(v.data) >= 8 {
		copy(buf[:], v.data[len(v.data)-8:])
	} else {
		copy(buf[8-len(v.data):], v.data)
	}
	return binary.BigEndian.Uint64(buf[:])
}

// IsZero reports whether every bit of v is clear.
func (v Vector) IsZero() bool {
	for _, b := range v.data {
		if b != 0 {
			return false
		}
	}
	return true
}

// Equal reports whether v and w have the same width and bit pattern.
func (v Vector) Equal(w Vector) bool {
	if v.bits != w.bits {
		return false
	}
	return subtle.ConstantTimeCompare(v.data, w.data) == 1
}

// Xor returns v xor w.
func (v Vector) Xor(w Vector) (Vector, error) {
	if v.bits != w.bits {
		return Vector{}, fmt.Errorf("%w: %d != %d", ErrLengthMismatch, v.bits, w.bits)
	}
	out := make([]byte, len(v.data))
	subtle.XORBytes(out, v.data, w.data)
	return Vector{bits: v.bits, data: out}, nil
}

// Xor returns u xor v.
func Xor(u, v Vector) (Vector, error) { return u.Xor(v) }

// XorAll folds xor over v and every vector in rest.
func XorAll(v Vector, rest ...Vector) (Vector, error) {
	acc := v
	for _, w := range rest {
		var err error
		if acc, err = acc.Xor(w); err != nil {
			return Vector{}, err
		}
	}
	return acc, nil
}

// RotateLeft returns v rotated towards the most significant bit by n positions.
// n is taken modulo the width; negative amounts rotate right.
func (v Vector) RotateLeft(n int) Vector {
	if v.bits == 0 {
		return v
	}
	n %= v.bits
	if n < 0 {
		n += v.bits
	}
	out := make([]byte, len(v.data))
	if n == 0 {
		copy(out, v.data)
		return Vector{bits: v.bits, data: out}
	}
	l := len(v.data)
	k, s := n/8, uint(n%8)
	for i := range out {
		hi := v.data[(i+k)%l]
		if s == 0 {
			out[i] = hi
			continue
		}
		lo := v.data[(i+k+1)%l]
		out[i] = hi<<s | lo>>(8-s)
	}
	return Vector{bits: v.bits, data: out}
}

// RotateRight returns v rotated towards the least significant bit by n positions.
func (v Vector) RotateRight(n int) Vector {
	if v.bits == 0 {
		return v
	}
	return v.RotateLeft(-(n % v.bits))
}

// Hex returns the lowercase hexadecimal encoding of v, Bits()/4 digits long.
func (v Vector) Hex() string { return hex.EncodeToString(v.data) }

func (v Vector) String() string { return v.Hex() }

// MarshalText encodes v as lowercase hex.
func (v Vector) MarshalText() ([]byte, error) {
	return []byte(v.Hex()), nil
}

// UnmarshalText decodes a hex string; the width is taken from the number of digits.
func (v *Vector) UnmarshalText(text []byte) error {
	s := strings.TrimPrefix(string(text), "0x")
	if len(s) == 0 || len(s)%2 != 0 {
		return fmt.Errorf("%w: %q", ErrInvalidHex, s)
	}
	parsed, err := ParseHex(len(s)*4, s)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}
