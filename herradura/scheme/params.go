package scheme

import (
	"fmt"
	"io"
	"math/bits"

	"github.com/TheusHen/herradura/herradura/bitvec"
)

// DefaultBits is the width used by the demos when none is configured.
const DefaultBits = 256

// Params fixes the vector width and its diffusion split for a protocol run.
type Params struct {
	Bits int // total width b
	I    int // public diffusion count, b/4
	R    int // private diffusion count, b - I
}

// NewParams validates bits and derives the diffusion split.
// bits must be a power of two no smaller than 8.
func NewParams(n int) (Params, error) {
	if n < 8 || bits.OnesCount(uint(n)) != 1 {
		return Params{}, fmt.Errorf("%w: %d is not a power of two >= 8", bitvec.ErrInvalidLength, n)
	}
	i := n / 4
	return Params{Bits: n, I: i, R: n - i}, nil
}

// MustParams is like NewParams but panics on an invalid width.
func MustParams(n int) Params {
	p, err := NewParams(n)
	if err != nil {
		panic(err)
	}
	return p
}

// Validate reports whether p was built by NewParams.
func (p Params) Validate() error {
	want, err := NewParams(p.Bits)
	if err != nil {
		return err
	}
	if p != want {
		return fmt.Errorf("%w: split i=%d r=%d for %d bits", ErrParamsMismatch, p.I, p.R, p.Bits)
	}
	return nil
}

func (p Params) check(vs ...bitvec.Vector) error {
	for _, v := range vs {
		if v.Bits() != p.Bits {
			return fmt.Errorf("%w: %w: %d-bit vector for %d-bit parameters", ErrParamsMismatch, bitvec.ErrLengthMismatch, v.Bits(), p.Bits)
		}
	}
	return nil
}

// Random draws a fresh vector of the parameter width.
func (p Params) Random(rng io.Reader) (bitvec.Vector, error) {
	return bitvec.Random(rng, p.Bits)
}

func (p Params) String() string {
	return fmt.Sprintf("b=%d i=%d r=%d", p.Bits, p.I, p.R)
}
