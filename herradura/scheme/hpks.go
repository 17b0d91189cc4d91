package scheme

import (
	"github.com/TheusHen/herradura/herradura/bitvec"
)

// Sign is HPKS signing: S = Revolve(C2, B, R) xor A xor P.
func Sign(p Params, sk PrivateKey, plaintext bitvec.Vector) (bitvec.Vector, error) {
	if err := sk.check(p); err != nil {
		return bitvec.Vector{}, err
	}
	if err := p.check(plaintext); err != nil {
		return bitvec.Vector{}, err
	}
	m, err := sk.Mask()
	if err != nil {
		return bitvec.Vector{}, err
	}
	return m.Xor(plaintext)
}

// Recover computes the verifier value V = Revolve(C, B2, R) xor A2 xor S.
// For a genuine signature V equals the signed plaintext.
func Recover(p Params, pk PublicKey, signature bitvec.Vector) (bitvec.Vector, error) {
	if err := pk.check(p); err != nil {
		return bitvec.Vector{}, err
	}
	if err := p.check(signature); err != nil {
		return bitvec.Vector{}, err
	}
	m, err := pk.Mask()
	if err != nil {
		return bitvec.Vector{}, err
	}
	return m.Xor(signature)
}

// Verify accepts iff Recover(signature) == plaintext. Any error rejects.
func Verify(p Params, pk PublicKey, plaintext, signature bitvec.Vector) bool {
	v, err := Recover(p, pk, signature)
	if err != nil {
		return false
	}
	return v.Equal(plaintext)
}
