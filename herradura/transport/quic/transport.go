// Package quic carries Herradura sessions over QUIC.
package quic

import (
	"context"
	"net"
	"time"

	q "github.com/quic-go/quic-go"
)

// Config tunes the QUIC connection. The zero value uses quic-go defaults.
type Config struct {
	HandshakeIdleTimeout time.Duration
	MaxIdleTimeout       time.Duration
	KeepAlivePeriod      time.Duration
}

func (c Config) quic() *q.Config {
	return &q.Config{
		HandshakeIdleTimeout: c.HandshakeIdleTimeout,
		MaxIdleTimeout:       c.MaxIdleTimeout,
		KeepAlivePeriod:      c.KeepAlivePeriod,
	}
}

// Conn is an established QUIC connection.
type Conn = q.Connection

// Stream is a bidirectional QUIC stream.
type Stream = q.Stream

type Listener struct {
	inner *q.Listener
}

// Listen starts accepting QUIC connections on addr.
func Listen(addr string, cfg Config) (*Listener, error) {
	tlsConf, err := NewServerTLSConfig()
	if err != nil {
		return nil, err
	}
	ln, err := q.ListenAddr(addr, tlsConf, cfg.quic())
	if err != nil {
		return nil, err
	}
	return &Listener{inner: ln}, nil
}

// Accept waits for the next connection.
func (l *Listener) Accept(ctx context.Context) (Conn, error) {
	return l.inner.Accept(ctx)
}

func (l *Listener) Addr() net.Addr { return l.inner.Addr() }

func (l *Listener) Close() error { return l.inner.Close() }

// Dial opens a QUIC connection to addr.
func Dial(ctx context.Context, addr string, cfg Config) (Conn, error) {
	return q.DialAddr(ctx, addr, NewClientTLSConfig(), cfg.quic())
}
