package adversary

import (
	"context"
	"fmt"

	"github.com/TheusHen/herradura/herradura/bitvec"
	"github.com/TheusHen/herradura/herradura/fscx"
	"github.com/TheusHen/herradura/herradura/scheme"
)

// MaxBruteForceBits bounds the widths BruteForce accepts.
const MaxBruteForceBits = 16

// cancelCheck is how many candidates are tried between context checks.
const cancelCheck = 1 << 12

// BruteForce enumerates every (A, B) with Revolve(A, B, I) == c and passes
// each match to fn. Returning false from fn stops the search. It returns the
// number of matches seen.
func BruteForce(ctx context.Context, p scheme.Params, c bitvec.Vector, fn func(scheme.Secrets) bool) (int, error) {
	if err := p.Validate(); err != nil {
		return 0, err
	}
	if p.Bits > MaxBruteForceBits {
		return 0, fmt.Errorf("%w: %d bits", ErrWidthTooLarge, p.Bits)
	}
	if c.Bits() != p.Bits {
		return 0, fmt.Errorf("%w: %w: %d-bit commitment", scheme.ErrParamsMismatch, bitvec.ErrLengthMismatch, c.Bits())
	}
	space := uint64(1) << uint(p.Bits)
	found := 0
	var tried uint64
	for b := uint64(0); b < space; b++ {
		bv := bitvec.MustFromUint64(p.Bits, b)
		for a := uint64(0); a < space; a++ {
			tried++
			if tried%cancelCheck == 0 {
				if err := ctx.Err(); err != nil {
					return found, err
				}
			}
			av := bitvec.MustFromUint64(p.Bits, a)
			got, err := fscx.Revolve(av, bv, p.I)
			if err != nil {
				return found, err
			}
			if !got.Equal(c) {
				continue
			}
			found++
			if fn != nil && !fn(scheme.Secrets{A: av, B: bv}) {
				return found, nil
			}
		}
	}
	return found, nil
}
