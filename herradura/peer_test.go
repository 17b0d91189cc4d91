package herradura

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/TheusHen/herradura/herradura/discovery"
	"github.com/TheusHen/herradura/herradura/discovery/memory"
	"github.com/TheusHen/herradura/herradura/scheme"
	"github.com/TheusHen/herradura/herradura/session"
)

func TestPeerDialAccept(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	opts := session.HandshakeOptions{Params: scheme.MustParams(64)}
	server := NewPeer(opts)
	if err := server.Listen("127.0.0.1:0"); err != nil {
		t.Fatalf("Listen: %v", err)
	}
	defer server.Close()

	got := make(chan string, 1)
	go func() {
		sess, err := server.Accept(ctx)
		if err != nil {
			got <- "accept: " + err.Error()
			return
		}
		b, err := sess.Receive()
		if err != nil {
			got <- "receive: " + err.Error()
			return
		}
		got <- string(b)
	}()

	sess, err := NewPeer(opts).Dial(ctx, server.ListenAddr())
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	if err := sess.Send([]byte("horseshoe")); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if msg := <-got; msg != "horseshoe" {
		t.Fatalf("server got %q", msg)
	}
}

func TestPeerNotListening(t *testing.T) {
	if _, err := NewPeer(session.HandshakeOptions{}).Accept(context.Background()); !errors.Is(err, ErrNotListening) {
		t.Fatalf("got %v", err)
	}
}

func TestPeerDialName(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	store := memory.New()
	opts := session.HandshakeOptions{Params: scheme.MustParams(32)}
	server := NewPeer(opts)
	server.Name, server.Resolver = "bob", store
	if err := server.Listen("127.0.0.1:0"); err != nil {
		t.Fatalf("Listen: %v", err)
	}

	info, err := store.Lookup("bob")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if info.Bits != 32 || info.Addr.String() != server.ListenAddr() {
		t.Fatalf("announced %+v, listening on %s", info, server.ListenAddr())
	}

	accepted := make(chan error, 1)
	go func() {
		sess, err := server.Accept(ctx)
		if err == nil {
			_, err = sess.Receive()
		}
		accepted <- err
	}()

	client := NewPeer(opts)
	client.Resolver = store
	sess, err := client.DialName(ctx, "bob")
	if err != nil {
		t.Fatalf("DialName: %v", err)
	}
	if err := sess.Send([]byte("by name")); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if err := <-accepted; err != nil {
		t.Fatalf("server: %v", err)
	}

	wide := NewPeer(session.HandshakeOptions{Params: scheme.MustParams(64)})
	wide.Resolver = store
	if _, err := wide.DialName(ctx, "bob"); !errors.Is(err, session.ErrWidthRejected) {
		t.Fatalf("width: got %v", err)
	}
	if _, err := client.DialName(ctx, "carol"); !errors.Is(err, discovery.ErrNotFound) {
		t.Fatalf("unknown name: got %v", err)
	}
	if _, err := NewPeer(opts).DialName(ctx, "bob"); !errors.Is(err, ErrNoResolver) {
		t.Fatalf("no resolver: got %v", err)
	}

	if err := server.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if _, err := store.Lookup("bob"); !errors.Is(err, discovery.ErrNotFound) {
		t.Fatalf("still announced after Close: %v", err)
	}
}
