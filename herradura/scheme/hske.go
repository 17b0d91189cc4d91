package scheme

import (
	"github.com/TheusHen/herradura/herradura/bitvec"
	"github.com/TheusHen/herradura/herradura/fscx"
)

// Encrypt is HSKE encryption: Revolve(plaintext, key, I).
func Encrypt(p Params, plaintext, key bitvec.Vector) (bitvec.Vector, error) {
	if err := p.check(plaintext, key); err != nil {
		return bitvec.Vector{}, err
	}
	return fscx.Revolve(plaintext, key, p.I)
}

// Decrypt is HSKE decryption: Revolve(ciphertext, key, R). It inverts Encrypt
// because I+R revolve steps under the same key return to the starting vector.
func Decrypt(p Params, ciphertext, key bitvec.Vector) (bitvec.Vector, error) {
	if err := p.check(ciphertext, key); err != nil {
		return bitvec.Vector{}, err
	}
	return fscx.Revolve(ciphertext, key, p.R)
}
