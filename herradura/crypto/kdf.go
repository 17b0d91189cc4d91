package crypto

import (
	"crypto/sha256"
	"io"

	"golang.org/x/crypto/hkdf"

	"github.com/TheusHen/herradura/herradura/bitvec"
)

const (
	// KeySize is the length of every derived traffic key.
	KeySize = 32

	sessionLabel = "herradura-session-keys"
	confirmLabel = "herradura-key-confirmation"
)

// DeriveKey expands secret into length bytes with HKDF-SHA256.
func DeriveKey(secret, salt, info []byte, length int) ([]byte, error) {
	key := make([]byte, length)
	if _, err := io.ReadFull(hkdf.New(sha256.New, secret, salt, info), key); err != nil {
		return nil, err
	}
	return key, nil
}

// SessionKeys are the directional traffic keys and the confirmation key of a
// completed exchange.
type SessionKeys struct {
	Initiator []byte
	Responder []byte
	Confirm   []byte
}

// transcript binds derived keys to the parameters and both commitments.
func transcript(label string, initiatorC, responderC bitvec.Vector) []byte {
	ic, rc := initiatorC.Bytes(), responderC.Bytes()
	info := make([]byte, 0, len(label)+2+len(ic)+len(rc))
	info = append(info, label...)
	info = append(info, byte(initiatorC.Bits()>>8), byte(initiatorC.Bits()))
	info = append(info, ic...)
	return append(info, rc...)
}

// DeriveSessionKeys derives the keys for both directions from the HKEX shared
// vector.
func DeriveSessionKeys(shared, initiatorC, responderC bitvec.Vector) (SessionKeys, error) {
	material, err := DeriveKey(shared.Bytes(), nil, transcript(sessionLabel, initiatorC, responderC), 3*KeySize)
	if err != nil {
		return SessionKeys{}, err
	}
	return SessionKeys{
		Initiator: material[:KeySize],
		Responder: material[KeySize : 2*KeySize],
		Confirm:   material[2*KeySize:],
	}, nil
}
