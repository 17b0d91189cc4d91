// Package session establishes an HKEX-keyed session on a control stream and
// carries sealed DATA frames over it.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/TheusHen/herradura/herradura/crypto"
	"github.com/TheusHen/herradura/herradura/log"
	"github.com/TheusHen/herradura/herradura/metrics"
	"github.com/TheusHen/herradura/herradura/scheme"
	"github.com/TheusHen/herradura/herradura/transport/quic"
	"github.com/TheusHen/herradura/herradura/wire"
)

var (
	ErrSessionMismatch = errors.New("session: peer answered for another session")
	ErrWidthRejected   = errors.New("session: peer proposed an unsupported width")
)

// HandshakeOptions configure both sides of the handshake.
type HandshakeOptions struct {
	// Params fixes the HKEX width. The zero value means scheme.DefaultBits.
	Params scheme.Params
	// Rand is the secret source; nil means crypto/rand.
	Rand   io.Reader
	Logger log.Logger
}

func (o HandshakeOptions) params() (scheme.Params, error) {
	if o.Params.Bits == 0 {
		return scheme.NewParams(scheme.DefaultBits)
	}
	return o.Params, o.Params.Validate()
}

func (o HandshakeOptions) logger() log.Logger {
	if o.Logger == nil {
		return log.Nop()
	}
	return o.Logger
}

// HandshakeClient opens the control stream on conn and runs the initiator side.
func HandshakeClient(ctx context.Context, conn quic.Conn, opts HandshakeOptions) (*Session, error) {
	control, err := conn.OpenStreamSync(ctx)
	if err != nil {
		return nil, err
	}
	s, err := ClientOverStream(control, opts)
	if err != nil {
		return nil, err
	}
	s.conn = conn
	return s, nil
}

// HandshakeServer accepts the control stream opened by the client and runs
// the responder side.
func HandshakeServer(ctx context.Context, conn quic.Conn, opts HandshakeOptions) (*Session, error) {
	control, err := conn.AcceptStream(ctx)
	if err != nil {
		return nil, err
	}
	s, err := ServerOverStream(control, opts)
	if err != nil {
		return nil, err
	}
	s.conn = conn
	return s, nil
}

// ClientOverStream runs the initiator side on an already open stream:
// HELLO out, HELLO in, CONFIRM out, CONFIRM in.
func ClientOverStream(rw io.ReadWriteCloser, opts HandshakeOptions) (s *Session, err error) {
	defer func() { metrics.ObserveProtocol("hkex", err) }()
	p, err := opts.params()
	if err != nil {
		return nil, err
	}
	ch, err := crypto.NewSecureChannelInitiator(p, opts.Rand)
	if err != nil {
		return nil, err
	}

	hello := wire.NewHello(ch.LocalCommitment())
	l := opts.logger().With("session", hello.SessionID.String(), "role", "initiator")
	if err := writeHello(rw, hello); err != nil {
		return nil, err
	}
	reply, err := readHello(rw)
	if err != nil {
		return nil, err
	}
	if reply.SessionID != hello.SessionID {
		return nil, fmt.Errorf("%w: %s", ErrSessionMismatch, reply.SessionID)
	}
	if err := ch.Complete(reply.Commitment); err != nil {
		return nil, err
	}

	if err := sendConfirm(rw, ch); err != nil {
		return nil, err
	}
	if err := receiveConfirm(rw, ch); err != nil {
		l.Warnw("key confirmation failed", "err", err)
		return nil, err
	}
	l.Debugw("handshake complete", "bits", p.Bits)
	return newSession(hello.SessionID, rw, ch), nil
}

// ServerOverStream runs the responder side on an accepted stream.
func ServerOverStream(rw io.ReadWriteCloser, opts HandshakeOptions) (s *Session, err error) {
	defer func() { metrics.ObserveProtocol("hkex", err) }()
	p, err := opts.params()
	if err != nil {
		return nil, err
	}
	hello, err := readHello(rw)
	if err != nil {
		return nil, err
	}
	l := opts.logger().With("session", hello.SessionID.String(), "role", "responder")
	if hello.Bits != p.Bits {
		_ = wire.WriteFrame(rw, wire.Frame{Type: wire.MessageTypeClose, Payload: []byte("width")})
		return nil, fmt.Errorf("%w: %d bits, want %d", ErrWidthRejected, hello.Bits, p.Bits)
	}

	ch, err := crypto.NewSecureChannelResponder(p, opts.Rand)
	if err != nil {
		return nil, err
	}
	if err := writeHello(rw, hello.Reply(ch.LocalCommitment())); err != nil {
		return nil, err
	}
	if err := ch.Complete(hello.Commitment); err != nil {
		return nil, err
	}

	if err := receiveConfirm(rw, ch); err != nil {
		l.Warnw("key confirmation failed", "err", err)
		return nil, err
	}
	if err := sendConfirm(rw, ch); err != nil {
		return nil, err
	}
	l.Debugw("handshake complete", "bits", p.Bits)
	return newSession(hello.SessionID, rw, ch), nil
}

func writeHello(w io.Writer, h wire.Hello) error {
	payload, err := wire.EncodeHello(h)
	if err != nil {
		return err
	}
	return wire.WriteFrame(w, wire.Frame{Type: wire.MessageTypeHello, Payload: payload})
}

func readHello(r io.Reader) (wire.Hello, error) {
	f, err := wire.ReadFrame(r)
	if err != nil {
		return wire.Hello{}, err
	}
	if f.Type == wire.MessageTypeClose {
		return wire.Hello{}, fmt.Errorf("%w: %s", ErrWidthRejected, f.Payload)
	}
	if f.Type != wire.MessageTypeHello {
		return wire.Hello{}, fmt.Errorf("%w: got %s, want HELLO", wire.ErrUnexpectedType, f.Type)
	}
	return wire.DecodeHello(f.Payload)
}

func sendConfirm(w io.Writer, ch *crypto.SecureChannel) error {
	tag, err := ch.Confirm()
	if err != nil {
		return err
	}
	return wire.WriteFrame(w, wire.Frame{Type: wire.MessageTypeConfirm, Payload: tag})
}

func receiveConfirm(r io.Reader, ch *crypto.SecureChannel) error {
	f, err := wire.ReadFrameOf(r, wire.MessageTypeConfirm)
	if err != nil {
		return err
	}
	return ch.VerifyConfirm(f.Payload)
}

func sessionAD(id uuid.UUID) []byte { return id[:] }
