package memory

import (
	"errors"
	"net/netip"
	"testing"

	"github.com/TheusHen/herradura/herradura/discovery"
)

func TestStoreAnnounceLookup(t *testing.T) {
	s := New()
	info := discovery.AddrInfo{
		Name: "bob",
		Addr: netip.MustParseAddrPort("127.0.0.1:4242"),
		Bits: 256,
	}
	if err := s.Announce(info); err != nil {
		t.Fatalf("Announce: %v", err)
	}
	if err := s.Announce(discovery.AddrInfo{Name: "alice", Bits: 64}); err != nil {
		t.Fatalf("Announce: %v", err)
	}

	got, err := s.Lookup("bob")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if got != info {
		t.Fatalf("got %+v want %+v", got, info)
	}

	all, _ := s.List()
	if len(all) != 2 || all[0].Name != "alice" || all[1].Name != "bob" {
		t.Fatalf("List: %+v", all)
	}

	if err := s.Withdraw("bob"); err != nil {
		t.Fatalf("Withdraw: %v", err)
	}
	if _, err := s.Lookup("bob"); !errors.Is(err, discovery.ErrNotFound) {
		t.Fatalf("after withdraw: got %v", err)
	}
	if err := s.Withdraw("bob"); !errors.Is(err, discovery.ErrNotFound) {
		t.Fatalf("second withdraw: got %v", err)
	}
	if err := s.Announce(discovery.AddrInfo{}); !errors.Is(err, discovery.ErrNoName) {
		t.Fatalf("nameless: got %v", err)
	}
}
