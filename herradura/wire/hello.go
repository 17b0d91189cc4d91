package wire

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/TheusHen/herradura/herradura/bitvec"
)

// ProtocolVersion is carried in every Hello.
const ProtocolVersion = 1

var (
	ErrHelloVersion    = errors.New("wire: unsupported hello version")
	ErrHelloCommitment = errors.New("wire: hello commitment does not match announced width")
	ErrHelloLength     = errors.New("wire: malformed hello")
)

// helloHeaderSize is version (1) + session id (16) + announced width (2).
const helloHeaderSize = 1 + 16 + 2

// Hello opens a session. The initiator picks the SessionID and width; the
// responder echoes both with its own commitment.
type Hello struct {
	Version    int
	SessionID  uuid.UUID
	Bits       int
	Commitment bitvec.Vector
}

// NewHello builds a Hello for a fresh session.
func NewHello(commitment bitvec.Vector) Hello {
	return Hello{
		Version:    ProtocolVersion,
		SessionID:  uuid.New(),
		Bits:       commitment.Bits(),
		Commitment: commitment,
	}
}

// Reply builds the responder's Hello for the same session.
func (h Hello) Reply(commitment bitvec.Vector) Hello {
	return Hello{
		Version:    ProtocolVersion,
		SessionID:  h.SessionID,
		Bits:       commitment.Bits(),
		Commitment: commitment,
	}
}

// Validate checks version and width consistency.
func (h Hello) Validate() error {
	if h.Version != ProtocolVersion {
		return fmt.Errorf("%w: %d", ErrHelloVersion, h.Version)
	}
	if h.Bits != h.Commitment.Bits() {
		return fmt.Errorf("%w: %d != %d", ErrHelloCommitment, h.Bits, h.Commitment.Bits())
	}
	return nil
}

// EncodeHello lays h out as version, session id, announced width (2 bytes
// big-endian) and the commitment in EncodeVector form.
func EncodeHello(h Hello) ([]byte, error) {
	if h.Version < 0 || h.Version > 0xff {
		return nil, fmt.Errorf("%w: %d", ErrHelloVersion, h.Version)
	}
	if h.Bits < 0 || h.Bits > 0xffff {
		return nil, fmt.Errorf("%w: width %d", ErrHelloLength, h.Bits)
	}
	out := make([]byte, helloHeaderSize, helloHeaderSize+2+h.Commitment.Bits()/8)
	out[0] = byte(h.Version)
	copy(out[1:17], h.SessionID[:])
	binary.BigEndian.PutUint16(out[17:], uint16(h.Bits))
	return append(out, EncodeVector(h.Commitment)...), nil
}

// DecodeHello parses and validates the output of EncodeHello.
func DecodeHello(b []byte) (Hello, error) {
	if len(b) < helloHeaderSize {
		return Hello{}, fmt.Errorf("%w: %d bytes", ErrHelloLength, len(b))
	}
	h := Hello{
		Version: int(b[0]),
		Bits:    int(binary.BigEndian.Uint16(b[17:helloHeaderSize])),
	}
	copy(h.SessionID[:], b[1:17])
	c, rest, err := DecodeVector(b[helloHeaderSize:])
	if err != nil {
		return Hello{}, err
	}
	if len(rest) != 0 {
		return Hello{}, fmt.Errorf("%w: %d trailing bytes", ErrHelloLength, len(rest))
	}
	h.Commitment = c
	if err := h.Validate(); err != nil {
		return Hello{}, err
	}
	return h, nil
}
