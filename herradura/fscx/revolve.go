package fscx

import (
	"fmt"
	"iter"

	"github.com/TheusHen/herradura/herradura/bitvec"
)

func checkRevolve(a, b bitvec.Vector, steps int) error {
	if a.Bits() != b.Bits() {
		return fmt.Errorf("fscx: %w: %d != %d", bitvec.ErrLengthMismatch, a.Bits(), b.Bits())
	}
	if a.Bits() == 0 {
		return fmt.Errorf("fscx: %w: empty vector", bitvec.ErrInvalidLength)
	}
	if steps < 0 {
		return fmt.Errorf("%w: %d", ErrNegativeSteps, steps)
	}
	return nil
}

// Revolve applies FSCX steps times, feeding each result back as the first
// operand while b stays fixed. Zero steps returns a unchanged.
func Revolve(a, b bitvec.Vector, steps int) (bitvec.Vector, error) {
	return RevolveFunc(a, b, steps, nil)
}

// RevolveFunc is Revolve with a per-step callback, used for verbose tracing.
// fn may be nil.
func RevolveFunc(a, b bitvec.Vector, steps int, fn func(step int, v bitvec.Vector)) (bitvec.Vector, error) {
	if err := checkRevolve(a, b, steps); err != nil {
		return bitvec.Vector{}, err
	}
	result := a
	for n := 1; n <= steps; n++ {
		var err error
		if result, err = FSCX(result, b); err != nil {
			return bitvec.Vector{}, err
		}
		if fn != nil {
			fn(n, result)
		}
	}
	return result, nil
}

// Trace returns the sequence of intermediate revolve results, numbered from 1.
// The sequence is lazy and finite; ranging over it again recomputes it from a and b.
func Trace(a, b bitvec.Vector, steps int) (iter.Seq2[int, bitvec.Vector], error) {
	if err := checkRevolve(a, b, steps); err != nil {
		return nil, err
	}
	return func(yield func(int, bitvec.Vector) bool) {
		result := a
		for n := 1; n <= steps; n++ {
			// lengths were checked above, FSCX cannot fail here
			result, _ = FSCX(result, b)
			if !yield(n, result) {
				return
			}
		}
	}, nil
}

// Period returns the smallest n in [1, limit] with Revolve(a, b, n) == a.
// The boolean is false when no such n exists within the limit.
func Period(a, b bitvec.Vector, limit int) (int, bool, error) {
	seq, err := Trace(a, b, limit)
	if err != nil {
		return 0, false, err
	}
	for n, v := range seq {
		if v.Equal(a) {
			return n, true, nil
		}
	}
	return 0, false, nil
}
