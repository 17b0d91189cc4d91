package herradura

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/netip"

	"github.com/TheusHen/herradura/herradura/discovery"
	"github.com/TheusHen/herradura/herradura/scheme"
	"github.com/TheusHen/herradura/herradura/session"
	"github.com/TheusHen/herradura/herradura/transport/quic"
)

var (
	ErrNotListening = errors.New("herradura: peer is not listening")
	ErrNoResolver   = errors.New("herradura: peer has no resolver")
)

// Peer combines the QUIC transport with the HKEX session handshake.
type Peer struct {
	Handshake session.HandshakeOptions
	Transport quic.Config

	// Name and Resolver are optional. When both are set, Listen announces
	// the listener under Name and Close withdraws it.
	Name     string
	Resolver discovery.Resolver

	listener *quic.Listener
}

// NewPeer returns a peer using opts for every handshake.
func NewPeer(opts session.HandshakeOptions) *Peer {
	return &Peer{Handshake: opts}
}

func (p *Peer) bits() int {
	if p.Handshake.Params.Bits == 0 {
		return scheme.DefaultBits
	}
	return p.Handshake.Params.Bits
}

func (p *Peer) announces() bool { return p.Resolver != nil && p.Name != "" }

func (p *Peer) Listen(addr string) error {
	ln, err := quic.Listen(addr, p.Transport)
	if err != nil {
		return err
	}
	if p.announces() {
		udp, ok := ln.Addr().(*net.UDPAddr)
		if !ok {
			_ = ln.Close()
			return fmt.Errorf("herradura: unexpected listener address %s", ln.Addr())
		}
		ap := udp.AddrPort()
		info := discovery.AddrInfo{
			Name: p.Name,
			Addr: netip.AddrPortFrom(ap.Addr().Unmap(), ap.Port()),
			Bits: p.bits(),
		}
		if err := p.Resolver.Announce(info); err != nil {
			_ = ln.Close()
			return err
		}
	}
	p.listener = ln
	return nil
}

func (p *Peer) Close() error {
	if p.listener == nil {
		return nil
	}
	err := p.listener.Close()
	if p.announces() {
		if werr := p.Resolver.Withdraw(p.Name); err == nil {
			err = werr
		}
	}
	p.listener = nil
	return err
}

func (p *Peer) ListenAddr() string {
	if p.listener == nil {
		return ""
	}
	return p.listener.Addr().String()
}

// Accept waits for a connection and runs the responder handshake on it.
func (p *Peer) Accept(ctx context.Context) (*session.Session, error) {
	if p.listener == nil {
		return nil, ErrNotListening
	}
	conn, err := p.listener.Accept(ctx)
	if err != nil {
		return nil, err
	}
	sess, err := session.HandshakeServer(ctx, conn, p.Handshake)
	if err != nil {
		_ = conn.CloseWithError(1, "handshake failed")
		return nil, err
	}
	return sess, nil
}

// Dial connects to addr and runs the initiator handshake.
func (p *Peer) Dial(ctx context.Context, addr string) (*session.Session, error) {
	conn, err := quic.Dial(ctx, addr, p.Transport)
	if err != nil {
		return nil, err
	}
	sess, err := session.HandshakeClient(ctx, conn, p.Handshake)
	if err != nil {
		_ = conn.CloseWithError(1, "handshake failed")
		return nil, err
	}
	return sess, nil
}

// DialName resolves name and dials it. A peer announcing another width is
// refused before any packet is sent.
func (p *Peer) DialName(ctx context.Context, name string) (*session.Session, error) {
	if p.Resolver == nil {
		return nil, ErrNoResolver
	}
	info, err := p.Resolver.Lookup(name)
	if err != nil {
		return nil, err
	}
	if info.Bits != p.bits() {
		return nil, fmt.Errorf("%w: %s accepts %d bits, dialer uses %d", session.ErrWidthRejected, name, info.Bits, p.bits())
	}
	return p.Dial(ctx, info.Addr.String())
}
