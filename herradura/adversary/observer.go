package adversary

import (
	"errors"
	"fmt"

	"github.com/TheusHen/herradura/herradura/bitvec"
	"github.com/TheusHen/herradura/herradura/fscx"
	"github.com/TheusHen/herradura/herradura/scheme"
)

// ErrWidthTooLarge is returned by BruteForce for widths it will not enumerate.
var ErrWidthTooLarge = errors.New("adversary: width too large for exhaustive search")

// Observer holds what an eavesdropper sees: the parameters and a public key.
type Observer struct {
	params scheme.Params
	pub    scheme.PublicKey
}

// NewObserver checks that pub was built for p.
func NewObserver(p scheme.Params, pub scheme.PublicKey) (*Observer, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if pub.R != p.R {
		return nil, fmt.Errorf("%w: public key r=%d, params r=%d", scheme.ErrParamsMismatch, pub.R, p.R)
	}
	for _, v := range []bitvec.Vector{pub.C, pub.B2, pub.A2} {
		if v.Bits() != p.Bits {
			return nil, fmt.Errorf("%w: %w: %d-bit key component", scheme.ErrParamsMismatch, bitvec.ErrLengthMismatch, v.Bits())
		}
	}
	return &Observer{params: p, pub: pub}, nil
}

// Params returns the parameters the observer works with.
func (o *Observer) Params() scheme.Params { return o.params }

// VerifierQuantity returns V = Revolve(C, B2, R) xor A2.
func (o *Observer) VerifierQuantity() (bitvec.Vector, error) {
	return o.pub.Mask()
}

// ForgeSignature returns V xor nonce. The legitimate verifier recovers nonce.
func (o *Observer) ForgeSignature(nonce bitvec.Vector) (bitvec.Vector, error) {
	v, err := o.VerifierQuantity()
	if err != nil {
		return bitvec.Vector{}, err
	}
	return v.Xor(nonce)
}

// ForgeSignatureWithoutMask omits A2: Revolve(C, B2, R) xor nonce.
// Verification yields nonce xor A2, so the forgery is rejected.
func (o *Observer) ForgeSignatureWithoutMask(nonce bitvec.Vector) (bitvec.Vector, error) {
	rev, err := fscx.Revolve(o.pub.C, o.pub.B2, o.pub.R)
	if err != nil {
		return bitvec.Vector{}, err
	}
	return rev.Xor(nonce)
}

// ForgeEncryptedSignature forges an HPKS signature over an HSKE ciphertext
// when the preshared key is known: V xor Encrypt(nonce, preshared).
func (o *Observer) ForgeEncryptedSignature(nonce, preshared bitvec.Vector) (bitvec.Vector, error) {
	e, err := scheme.Encrypt(o.params, nonce, preshared)
	if err != nil {
		return bitvec.Vector{}, err
	}
	v, err := o.VerifierQuantity()
	if err != nil {
		return bitvec.Vector{}, err
	}
	return v.Xor(e)
}

// RecoverPlaintext strips the HPKE mask from a ciphertext: E xor V.
func (o *Observer) RecoverPlaintext(ciphertext bitvec.Vector) (bitvec.Vector, error) {
	v, err := o.VerifierQuantity()
	if err != nil {
		return bitvec.Vector{}, err
	}
	return ciphertext.Xor(v)
}

// RecoverSharedKey returns V, which equals the HKEX key of the two secret
// pairs the key tuple was built from.
func (o *Observer) RecoverSharedKey() (bitvec.Vector, error) {
	return o.VerifierQuantity()
}

// EavesdropSharedKey computes the HKEX key from the two exchanged commitments
// alone: Revolve(C xor peerC, 0, R). Revolve is linear in both arguments and
// Revolve(C, B, R) == A for power-of-two widths, so every secret term cancels.
func (o *Observer) EavesdropSharedKey(peerCommitment bitvec.Vector) (bitvec.Vector, error) {
	return EavesdropSharedKey(o.params, o.pub.C, peerCommitment)
}

// EavesdropSharedKey is the passive HKEX attack on a pair of commitments.
func EavesdropSharedKey(p scheme.Params, c, peerC bitvec.Vector) (bitvec.Vector, error) {
	sum, err := c.Xor(peerC)
	if err != nil {
		return bitvec.Vector{}, err
	}
	zero, err := bitvec.New(p.Bits)
	if err != nil {
		return bitvec.Vector{}, err
	}
	return fscx.Revolve(sum, zero, p.R)
}
