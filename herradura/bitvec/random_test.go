package bitvec

import (
	"errors"
	"testing"
)

func TestRandomWidth(t *testing.T) {
	for _, bits := range []int{8, 64, 256, 1024} {
		v, err := Random(nil, bits)
		if err != nil {
			t.Fatalf("Random(%d): %v", bits, err)
		}
		if v.Bits() != bits || len(v.Bytes()) != bits/8 {
			t.Fatalf("Random(%d) returned %d bits", bits, v.Bits())
		}
		if len(v.Hex()) != bits/4 {
			t.Fatalf("hex width %d, want %d", len(v.Hex()), bits/4)
		}
	}
	if _, err := Random(nil, 10); !errors.Is(err, ErrInvalidLength) {
		t.Fatalf("expected ErrInvalidLength, got %v", err)
	}
}

func TestSeededReaderDeterministic(t *testing.T) {
	a, _ := Random(NewSeededReader(42), 128)
	b, _ := Random(NewSeededReader(42), 128)
	if !a.Equal(b) {
		t.Fatalf("same seed produced different vectors")
	}
	c, _ := Random(NewSeededReader(43), 128)
	if a.Equal(c) {
		t.Fatalf("different seeds produced the same vector")
	}
}
