package crypto

import (
	"errors"
	"io"
	"sync"

	"github.com/TheusHen/herradura/herradura/bitvec"
	"github.com/TheusHen/herradura/herradura/crypto/ratchet"
	"github.com/TheusHen/herradura/herradura/scheme"
)

var ErrChannelNotEstablished = errors.New("crypto: secure channel not established")

// MaxSkip is how far a receiver accepts messages ahead of the next expected one.
const MaxSkip = 1000

// SecureChannel runs HKEX for one side of a connection and then seals traffic
// with a ratchet per direction.
type SecureChannel struct {
	mu          sync.Mutex
	initiator   bool
	party       *scheme.Party
	peer        bitvec.Vector
	keys        SessionKeys
	established bool
	send        *ratchet.Chain
	recv        *ratchet.Receiver
}

func newChannel(p scheme.Params, rng io.Reader, initiator bool) (*SecureChannel, error) {
	party, err := scheme.NewParty(p, rng)
	if err != nil {
		return nil, err
	}
	return &SecureChannel{initiator: initiator, party: party}, nil
}

// NewSecureChannelInitiator draws fresh HKEX secrets for the dialing side.
func NewSecureChannelInitiator(p scheme.Params, rng io.Reader) (*SecureChannel, error) {
	return newChannel(p, rng, true)
}

// NewSecureChannelResponder draws fresh HKEX secrets for the accepting side.
func NewSecureChannelResponder(p scheme.Params, rng io.Reader) (*SecureChannel, error) {
	return newChannel(p, rng, false)
}

// Params returns the HKEX parameters of the channel.
func (sc *SecureChannel) Params() scheme.Params { return sc.party.Params() }

// LocalCommitment is the value to send to the peer.
func (sc *SecureChannel) LocalCommitment() bitvec.Vector { return sc.party.Commitment() }

func (sc *SecureChannel) commitments() (initiatorC, responderC bitvec.Vector) {
	if sc.initiator {
		return sc.party.Commitment(), sc.peer
	}
	return sc.peer, sc.party.Commitment()
}

// Complete finishes HKEX with the peer's commitment and keys both ratchets.
// Calling it again is a no-op.
func (sc *SecureChannel) Complete(peerC bitvec.Vector) error {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	if sc.established {
		return nil
	}

	shared, err := sc.party.SharedKey(peerC)
	if err != nil {
		return err
	}
	sc.peer = peerC
	ic, rc := sc.commitments()
	keys, err := DeriveSessionKeys(shared, ic, rc)
	if err != nil {
		return err
	}

	sendKey, recvKey := keys.Initiator, keys.Responder
	if !sc.initiator {
		sendKey, recvKey = recvKey, sendKey
	}
	if sc.send, err = ratchet.NewChain(sendKey); err != nil {
		return err
	}
	if sc.recv, err = ratchet.NewReceiver(recvKey, MaxSkip); err != nil {
		return err
	}
	sc.keys = keys
	sc.established = true
	return nil
}

// IsEstablished reports whether Complete has succeeded.
func (sc *SecureChannel) IsEstablished() bool {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.established
}

func (sc *SecureChannel) role(local bool) byte {
	if sc.initiator == local {
		return RoleInitiator
	}
	return RoleResponder
}

// Confirm returns this side's key-confirmation tag.
func (sc *SecureChannel) Confirm() ([]byte, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	if !sc.established {
		return nil, ErrChannelNotEstablished
	}
	ic, rc := sc.commitments()
	return ConfirmTag(sc.keys.Confirm, sc.role(true), ic, rc), nil
}

// VerifyConfirm checks the peer's tag and returns ErrKeyConfirmation when the
// two sides hold different keys.
func (sc *SecureChannel) VerifyConfirm(tag []byte) error {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	if !sc.established {
		return ErrChannelNotEstablished
	}
	ic, rc := sc.commitments()
	return VerifyConfirmTag(sc.keys.Confirm, sc.role(false), ic, rc, tag)
}

// Encrypt seals plaintext on the send chain.
func (sc *SecureChannel) Encrypt(plaintext, ad []byte) ([]byte, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	if !sc.established {
		return nil, ErrChannelNotEstablished
	}
	msg, err := sc.send.Seal(plaintext, ad)
	if err != nil {
		return nil, err
	}
	return msg.Encode(), nil
}

// Decrypt opens a message sealed by the peer's Encrypt.
func (sc *SecureChannel) Decrypt(ciphertext, ad []byte) ([]byte, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	if !sc.established {
		return nil, ErrChannelNotEstablished
	}
	msg, err := ratchet.DecodeEncryptedMessage(ciphertext)
	if err != nil {
		return nil, err
	}
	return sc.recv.Open(msg, ad)
}

// SendGeneration returns the number of messages sealed so far.
func (sc *SecureChannel) SendGeneration() uint64 {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	if sc.send == nil {
		return 0
	}
	return sc.send.Generation()
}
