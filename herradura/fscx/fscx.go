// Package fscx implements the Full Surroundings Cyclic XOR transform and its
// iterated form.
//
// FSCX(A, B) xors A and B with the one-bit rotations of both operands in each
// direction, so every output bit depends on a bit and its two cyclic
// neighbours in both inputs. Revolve feeds the result back as the first
// operand while the second operand is held fixed.
package fscx

import (
	"errors"
	"fmt"

	"github.com/TheusHen/herradura/herradura/bitvec"
)

var (
	// ErrNegativeSteps is returned when a revolve is asked for fewer than zero steps.
	ErrNegativeSteps = errors.New("fscx: negative step count")
)

// FSCX computes one round of the transform using the ror1, rol2, ror1 rotation
// order. The working copies end where they started, so a and b are reusable by
// the caller across repeated calls.
func FSCX(a, b bitvec.Vector) (bitvec.Vector, error) {
	if a.Bits() == 0 {
		return bitvec.Vector{}, fmt.Errorf("fscx: %w: empty vector", bitvec.ErrInvalidLength)
	}
	result, err := a.Xor(b)
	if err != nil {
		return bitvec.Vector{}, fmt.Errorf("fscx: %w", err)
	}
	wa, wb := a, b

	wa, wb = wa.RotateRight(1), wb.RotateRight(1)
	if result, err = bitvec.XorAll(result, wa, wb); err != nil {
		return bitvec.Vector{}, err
	}

	wa, wb = wa.RotateLeft(2), wb.RotateLeft(2)
	if result, err = bitvec.XorAll(result, wa, wb); err != nil {
		return bitvec.Vector{}, err
	}

	wa, wb = wa.RotateRight(1), wb.RotateRight(1)
	if !wa.Equal(a) || !wb.Equal(b) {
		panic("fscx: working copies not restored")
	}
	return result, nil
}
