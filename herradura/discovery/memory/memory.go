package memory

import (
	"fmt"
	"sort"
	"sync"

	"github.com/TheusHen/herradura/herradura/discovery"
)

// Store is an in-process resolver, used by tests and examples/basic.
type Store struct {
	mu    sync.RWMutex
	peers map[string]discovery.AddrInfo
}

func New() *Store {
	return &Store{peers: map[string]discovery.AddrInfo{}}
}

// Announce adds or replaces the entry for info.Name.
func (s *Store) Announce(info discovery.AddrInfo) error {
	if info.Name == "" {
		return discovery.ErrNoName
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.peers[info.Name] = info
	return nil
}

func (s *Store) Withdraw(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.peers[name]; !ok {
		return fmt.Errorf("%w: %q", discovery.ErrNotFound, name)
	}
	delete(s.peers, name)
	return nil
}

func (s *Store) Lookup(name string) (discovery.AddrInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	info, ok := s.peers[name]
	if !ok {
		return discovery.AddrInfo{}, fmt.Errorf("%w: %q", discovery.ErrNotFound, name)
	}
	return info, nil
}

// List returns every entry ordered by name.
func (s *Store) List() ([]discovery.AddrInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]discovery.AddrInfo, 0, len(s.peers))
	for _, info := range s.peers {
		out = append(out, info)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
