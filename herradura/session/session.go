package session

import (
	"fmt"
	"io"
	"sync"

	"github.com/google/uuid"

	"github.com/TheusHen/herradura/herradura/crypto"
	"github.com/TheusHen/herradura/herradura/transport/quic"
	"github.com/TheusHen/herradura/herradura/wire"
)

// Session is an established HKEX session. DATA frames on the control stream
// are sealed by the channel's ratchets with the session ID as associated data.
type Session struct {
	id      uuid.UUID
	conn    quic.Conn
	control io.ReadWriteCloser
	channel *crypto.SecureChannel

	wmu sync.Mutex
	rmu sync.Mutex
}

func newSession(id uuid.UUID, control io.ReadWriteCloser, ch *crypto.SecureChannel) *Session {
	return &Session{id: id, control: control, channel: ch}
}

// ID returns the identifier chosen by the initiator.
func (s *Session) ID() uuid.UUID { return s.id }

// Connection returns the QUIC connection, nil for stream-only sessions.
func (s *Session) Connection() quic.Conn { return s.conn }

// Channel exposes the keyed channel.
func (s *Session) Channel() *crypto.SecureChannel { return s.channel }

// Send seals payload into one DATA frame.
func (s *Session) Send(payload []byte) error {
	s.wmu.Lock()
	defer s.wmu.Unlock()
	sealed, err := s.channel.Encrypt(payload, sessionAD(s.id))
	if err != nil {
		return err
	}
	return wire.WriteFrame(s.control, wire.Frame{Type: wire.MessageTypeData, Payload: sealed})
}

// Receive returns the next DATA payload. It returns io.EOF once the peer has
// sent CLOSE, and wire.ErrUnexpectedType for any other frame.
func (s *Session) Receive() ([]byte, error) {
	s.rmu.Lock()
	defer s.rmu.Unlock()
	f, err := wire.ReadFrame(s.control)
	if err != nil {
		return nil, err
	}
	switch f.Type {
	case wire.MessageTypeData:
		return s.channel.Decrypt(f.Payload, sessionAD(s.id))
	case wire.MessageTypeClose:
		return nil, io.EOF
	default:
		return nil, fmt.Errorf("%w: %s after handshake", wire.ErrUnexpectedType, f.Type)
	}
}

// Close sends CLOSE and closes the control stream.
func (s *Session) Close() error {
	s.wmu.Lock()
	err := wire.WriteFrame(s.control, wire.Frame{Type: wire.MessageTypeClose})
	s.wmu.Unlock()
	if cerr := s.control.Close(); err == nil {
		err = cerr
	}
	return err
}
