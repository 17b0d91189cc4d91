package bitvec

import "errors"

var (
	// ErrInvalidLength is returned when a bit length is not a positive multiple of 8.
	ErrInvalidLength = errors.New("bitvec: bit length must be a positive multiple of 8")

	// ErrLengthMismatch is returned when two vectors of different widths are combined.
	ErrLengthMismatch = errors.New("bitvec: vector lengths do not match")

	// ErrInvalidHex is returned when a hex string does not encode a vector of the requested width.
	ErrInvalidHex = errors.New("bitvec: invalid hex encoding")
)

// ValidLength reports whether bits is a usable vector width.
func ValidLength(bits int) bool {
	return bits > 0 && bits%8 == 0
}
