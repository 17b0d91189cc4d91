package scheme

import (
	"fmt"
	"io"

	"github.com/TheusHen/herradura/herradura/bitvec"
	"github.com/TheusHen/herradura/herradura/fscx"
)

// Secrets are the two random vectors a party draws for a run.
type Secrets struct {
	A bitvec.Vector
	B bitvec.Vector
}

// GenerateSecrets draws A and B from rng (nil means crypto/rand).
func GenerateSecrets(p Params, rng io.Reader) (Secrets, error) {
	a, err := p.Random(rng)
	if err != nil {
		return Secrets{}, err
	}
	b, err := p.Random(rng)
	if err != nil {
		return Secrets{}, err
	}
	return Secrets{A: a, B: b}, nil
}

// Commit returns the commitment C = Revolve(A, B, I).
func (s Secrets) Commit(p Params) (bitvec.Vector, error) {
	if err := p.check(s.A, s.B); err != nil {
		return bitvec.Vector{}, err
	}
	return fscx.Revolve(s.A, s.B, p.I)
}

// mask computes Revolve(c, b, r) xor a, the quantity every protocol is built on.
func mask(c, b, a bitvec.Vector, r int) (bitvec.Vector, error) {
	rev, err := fscx.Revolve(c, b, r)
	if err != nil {
		return bitvec.Vector{}, err
	}
	return rev.Xor(a)
}

// PublicKey is the published tuple (C, B2, A2, r): the local commitment paired
// with the counterpart's secrets.
type PublicKey struct {
	C  bitvec.Vector
	B2 bitvec.Vector
	A2 bitvec.Vector
	R  int
}

// Mask returns Revolve(C, B2, R) xor A2.
func (pk PublicKey) Mask() (bitvec.Vector, error) {
	return mask(pk.C, pk.B2, pk.A2, pk.R)
}

// Bits returns the key width.
func (pk PublicKey) Bits() int { return pk.C.Bits() }

func (pk PublicKey) check(p Params) error {
	if pk.R != p.R {
		return fmt.Errorf("%w: public key r=%d, params r=%d", ErrParamsMismatch, pk.R, p.R)
	}
	return p.check(pk.C, pk.B2, pk.A2)
}

// Equal reports whether two public keys hold the same tuple.
func (pk PublicKey) Equal(other PublicKey) bool {
	return pk.R == other.R && pk.C.Equal(other.C) && pk.B2.Equal(other.B2) && pk.A2.Equal(other.A2)
}

// PrivateKey is the retained tuple (C2, B, A, r): the counterpart's commitment
// paired with the local secrets.
type PrivateKey struct {
	C2 bitvec.Vector
	B  bitvec.Vector
	A  bitvec.Vector
	R  int
}

// Mask returns Revolve(C2, B, R) xor A.
func (sk PrivateKey) Mask() (bitvec.Vector, error) {
	return mask(sk.C2, sk.B, sk.A, sk.R)
}

// Bits returns the key width.
func (sk PrivateKey) Bits() int { return sk.C2.Bits() }

func (sk PrivateKey) check(p Params) error {
	if sk.R != p.R {
		return fmt.Errorf("%w: private key r=%d, params r=%d", ErrParamsMismatch, sk.R, p.R)
	}
	return p.check(sk.C2, sk.B, sk.A)
}

// Equal reports whether two private keys hold the same tuple.
func (sk PrivateKey) Equal(other PrivateKey) bool {
	return sk.R == other.R && sk.C2.Equal(other.C2) && sk.B.Equal(other.B) && sk.A.Equal(other.A)
}

// KeyPair bundles a public/private tuple with the parameters it was built for.
type KeyPair struct {
	Params  Params
	Public  PublicKey
	Private PrivateKey
}

// NewKeyPair builds the key tuples from the local secrets (A, B) and the
// counterpart secrets (A2, B2).
func NewKeyPair(p Params, local, counterpart Secrets) (*KeyPair, error) {
	c, err := local.Commit(p)
	if err != nil {
		return nil, err
	}
	c2, err := counterpart.Commit(p)
	if err != nil {
		return nil, err
	}
	return &KeyPair{
		Params:  p,
		Public:  PublicKey{C: c, B2: counterpart.B, A2: counterpart.A, R: p.R},
		Private: PrivateKey{C2: c2, B: local.B, A: local.A, R: p.R},
	}, nil
}

// GenerateKeyPair draws both secret pairs from rng and builds the key tuples.
func GenerateKeyPair(p Params, rng io.Reader) (*KeyPair, error) {
	local, err := GenerateSecrets(p, rng)
	if err != nil {
		return nil, err
	}
	counterpart, err := GenerateSecrets(p, rng)
	if err != nil {
		return nil, err
	}
	return NewKeyPair(p, local, counterpart)
}
