package scheme

import (
	"io"

	"github.com/TheusHen/herradura/herradura/bitvec"
)

// Party is one side of an HKEX key exchange.
type Party struct {
	params     Params
	secrets    Secrets
	commitment bitvec.Vector
}

// NewParty draws fresh secrets and derives the party's commitment.
func NewParty(p Params, rng io.Reader) (*Party, error) {
	s, err := GenerateSecrets(p, rng)
	if err != nil {
		return nil, err
	}
	return NewPartyFromSecrets(p, s)
}

// NewPartyFromSecrets derives the commitment for existing secrets.
func NewPartyFromSecrets(p Params, s Secrets) (*Party, error) {
	c, err := s.Commit(p)
	if err != nil {
		return nil, err
	}
	return &Party{params: p, secrets: s, commitment: c}, nil
}

// Params returns the parameters the party was built for.
func (pt *Party) Params() Params { return pt.params }

// Commitment returns the value sent to the peer.
func (pt *Party) Commitment() bitvec.Vector { return pt.commitment }

// Secrets returns the party's secrets.
func (pt *Party) Secrets() Secrets { return pt.secrets }

// SharedKey completes the exchange with the peer's commitment:
// Revolve(peerC, B, R) xor A.
func (pt *Party) SharedKey(peerCommitment bitvec.Vector) (bitvec.Vector, error) {
	if err := pt.params.check(peerCommitment); err != nil {
		return bitvec.Vector{}, err
	}
	return mask(peerCommitment, pt.secrets.B, pt.secrets.A, pt.params.R)
}

// Exchange runs HKEX between two local parties and checks that both sides
// agree. It returns the shared key or ErrKeyMismatch.
func Exchange(alice, bob *Party) (bitvec.Vector, error) {
	ka, err := alice.SharedKey(bob.Commitment())
	if err != nil {
		return bitvec.Vector{}, err
	}
	kb, err := bob.SharedKey(alice.Commitment())
	if err != nil {
		return bitvec.Vector{}, err
	}
	if !ka.Equal(kb) {
		return bitvec.Vector{}, ErrKeyMismatch
	}
	return ka, nil
}
