package scheme

import (
	"fmt"

	"github.com/TheusHen/herradura/herradura/bitvec"
	"github.com/TheusHen/herradura/herradura/fscx"
)

// EntangleMode selects which side of an entangled key pair holds the
// initiator's A secret.
type EntangleMode int

const (
	// EntangleFull gives the sender {PSV, A, B} and the receiver {A2, B2}.
	EntangleFull EntangleMode = iota
	// EntangleCompact gives the sender {PSV, B} and the receiver {A, A2, B2}.
	// It models a receiver that ran the whole exchange alone and handed the
	// sender a smaller key over another channel.
	EntangleCompact
)

func (m EntangleMode) String() string {
	switch m {
	case EntangleFull:
		return "full"
	case EntangleCompact:
		return "compact"
	default:
		return "unknown"
	}
}

// SenderKey encrypts one-to-one messages to the holder of the matching ReceiverKey.
type SenderKey struct {
	Mode EntangleMode
	PSV  bitvec.Vector // pre-shared value, the HKEX key
	A    bitvec.Vector // set in EntangleFull only
	B    bitvec.Vector
}

// ReceiverKey decrypts messages produced with the matching SenderKey.
type ReceiverKey struct {
	Mode EntangleMode
	A    bitvec.Vector // set in EntangleCompact only
	A2   bitvec.Vector
	B2   bitvec.Vector
}

// Entangle runs HKEX between alice (sender) and bob (receiver) and splits the
// exchange parameters into a one-to-one key pair.
func Entangle(alice, bob *Party, mode EntangleMode) (SenderKey, ReceiverKey, error) {
	psv, err := Exchange(alice, bob)
	if err != nil {
		return SenderKey{}, ReceiverKey{}, err
	}
	as, bs := alice.Secrets(), bob.Secrets()
	switch mode {
	case EntangleFull:
		return SenderKey{Mode: mode, PSV: psv, A: as.A, B: as.B},
			ReceiverKey{Mode: mode, A2: bs.A, B2: bs.B}, nil
	case EntangleCompact:
		return SenderKey{Mode: mode, PSV: psv, B: as.B},
			ReceiverKey{Mode: mode, A: as.A, A2: bs.A, B2: bs.B}, nil
	default:
		return SenderKey{}, ReceiverKey{}, fmt.Errorf("scheme: unknown entangle mode %d", mode)
	}
}

// EntangledEncrypt computes E = Revolve(P xor PSV [xor A], B, I).
func EntangledEncrypt(p Params, sk SenderKey, plaintext bitvec.Vector) (bitvec.Vector, error) {
	if err := p.check(sk.PSV, sk.B, plaintext); err != nil {
		return bitvec.Vector{}, err
	}
	k, err := plaintext.Xor(sk.PSV)
	if err != nil {
		return bitvec.Vector{}, err
	}
	if sk.Mode == EntangleFull {
		if sk.A.Bits() == 0 {
			return bitvec.Vector{}, fmt.Errorf("%w: sender A", ErrMissingKey)
		}
		if k, err = k.Xor(sk.A); err != nil {
			return bitvec.Vector{}, err
		}
	}
	return fscx.Revolve(k, sk.B, p.I)
}

// EntangledDecrypt computes P = Revolve(E, B2, R) xor A2 [xor A].
func EntangledDecrypt(p Params, rk ReceiverKey, ciphertext bitvec.Vector) (bitvec.Vector, error) {
	if err := p.check(rk.A2, rk.B2, ciphertext); err != nil {
		return bitvec.Vector{}, err
	}
	out, err := mask(ciphertext, rk.B2, rk.A2, p.R)
	if err != nil {
		return bitvec.Vector{}, err
	}
	if rk.Mode == EntangleCompact {
		if rk.A.Bits() == 0 {
			return bitvec.Vector{}, fmt.Errorf("%w: receiver A", ErrMissingKey)
		}
		return out.Xor(rk.A)
	}
	return out, nil
}
