package memory

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/aretw0/hfsm/pkg/ports"
)

// Store implements ports.SnapshotStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]*ports.Snapshot
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]*ports.Snapshot),
	}
}

// Save keeps a copy of snap, so later mutations by the caller do not leak in.
func (s *Store) Save(ctx context.Context, key string, snap *ports.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = clone(snap)
	return nil
}

// Load returns a copy of the stored snapshot.
func (s *Store) Load(ctx context.Context, key string) (*ports.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap, ok := s.data[key]
	if !ok {
		return nil, ports.ErrSnapshotNotFound
	}
	return clone(snap), nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

// List returns the stored keys in sorted order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Sorted(maps.Keys(s.data)), nil
}

func clone(snap *ports.Snapshot) *ports.Snapshot {
	c := *snap
	c.Path = slices.Clone(snap.Path)
	c.Values = maps.Clone(snap.Values)
	return &c
}
