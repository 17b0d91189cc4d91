package bitvec

import (
	"crypto/rand"
	"fmt"
	"io"
	mrand "math/rand"
	"sync"
)

// Random returns a vector of the given width whose bits are drawn from rng.
// A nil rng selects crypto/rand.Reader, which is safe for concurrent use.
func Random(rng io.Reader, bits int) (Vector, error) {
	if !ValidLength(bits) {
		return Vector{}, fmt.Errorf("%w: %d", ErrInvalidLength, bits)
	}
	if rng == nil {
		rng = rand.Reader
	}
	buf := make([]byte, bits/8)
	if _, err := io.ReadFull(rng, buf); err != nil {
		return Vector{}, fmt.Errorf("bitvec: reading entropy: %w", err)
	}
	return Vector{bits: bits, data: buf}, nil
}

// SeededReader is a deterministic io.Reader for reproducible test vectors.
// It must never be used to generate real key material.
type SeededReader struct {
	mu   sync.Mutex
	rand *mrand.Rand
}

// NewSeededReader returns a reader producing the same byte stream for the same seed.
func NewSeededReader(seed int64) *SeededReader {
	return &SeededReader{rand: mrand.New(mrand.NewSource(seed))}
}

func (sr *SeededReader) Read(p []byte) (int, error) {
	sr.mu.Lock()
	defer sr.mu.Unlock()
	for i := range p {
		p[i] = byte(sr.rand.Intn(256))
	}
	return len(p), nil
}
