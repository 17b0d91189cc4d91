package scheme

import (
	"github.com/TheusHen/herradura/herradura/bitvec"
)

// Seal is HPKE encryption with the recipient's public tuple:
// E = Revolve(C, B2, R) xor A2 xor P.
func Seal(p Params, pk PublicKey, plaintext bitvec.Vector) (bitvec.Vector, error) {
	if err := pk.check(p); err != nil {
		return bitvec.Vector{}, err
	}
	if err := p.check(plaintext); err != nil {
		return bitvec.Vector{}, err
	}
	m, err := pk.Mask()
	if err != nil {
		return bitvec.Vector{}, err
	}
	return m.Xor(plaintext)
}

// Open is HPKE decryption: D = Revolve(C2, B, R) xor A xor E.
// Every ciphertext opens to some value; there is no integrity check.
func Open(p Params, sk PrivateKey, ciphertext bitvec.Vector) (bitvec.Vector, error) {
	if err := sk.check(p); err != nil {
		return bitvec.Vector{}, err
	}
	if err := p.check(ciphertext); err != nil {
		return bitvec.Vector{}, err
	}
	m, err := sk.Mask()
	if err != nil {
		return bitvec.Vector{}, err
	}
	return m.Xor(ciphertext)
}
