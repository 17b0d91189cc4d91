// Package discovery maps peer names to the address a Peer listens on and the
// HKEX width it accepts.
package discovery

import (
	"errors"
	"net/netip"
)

var (
	ErrNotFound = errors.New("discovery: peer not found")
	ErrNoName   = errors.New("discovery: announcement without a name")
)

// AddrInfo is what a listening peer announces.
type AddrInfo struct {
	Name string
	Addr netip.AddrPort
	// Bits is the only width the peer's responder handshake accepts.
	Bits int
}

// Resolver can be backed by a static list, DNS-SD or a shared store.
type Resolver interface {
	Announce(info AddrInfo) error
	Withdraw(name string) error
	Lookup(name string) (AddrInfo, error)
	List() ([]AddrInfo, error)
}
