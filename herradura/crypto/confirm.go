package crypto

import (
	"crypto/hmac"
	"crypto/sha256"
	"errors"

	"github.com/TheusHen/herradura/herradura/bitvec"
)

// ErrKeyConfirmation means the peer derived a different key, usually because
// a commitment was altered in transit.
var ErrKeyConfirmation = errors.New("crypto: key confirmation failed")

// Roles for confirmation tags. Each side proves its key with its own role so a
// reflected tag is rejected.
const (
	RoleInitiator byte = 'I'
	RoleResponder byte = 'R'
)

// ConfirmTag computes HMAC-SHA256(confirmKey, label || role || commitments).
func ConfirmTag(confirmKey []byte, role byte, initiatorC, responderC bitvec.Vector) []byte {
	mac := hmac.New(sha256.New, confirmKey)
	mac.Write(transcript(confirmLabel, initiatorC, responderC))
	mac.Write([]byte{role})
	return mac.Sum(nil)
}

// VerifyConfirmTag checks a tag produced by ConfirmTag.
func VerifyConfirmTag(confirmKey []byte, role byte, initiatorC, responderC bitvec.Vector, tag []byte) error {
	if !hmac.Equal(tag, ConfirmTag(confirmKey, role, initiatorC, responderC)) {
		return ErrKeyConfirmation
	}
	return nil
}
