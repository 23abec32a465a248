package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/aretw0/hpgraph/pkg/domain"
)

// Store implements ports.ManifestStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]*domain.Manifest
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]*domain.Manifest),
	}
}

// Save stores a copy of the manifest.
func (s *Store) Save(ctx context.Context, m *domain.Manifest) error {
	c := m.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[m.ID] = c
	return nil
}

// Load returns a copy so callers cannot mutate the stored manifest.
func (s *Store) Load(ctx context.Context, id string) (*domain.Manifest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.data[id]
	if !ok {
		return nil, domain.ErrManifestNotFound
	}
	return m.Clone(), nil
}

// Delete removes the manifest.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, id)
	return nil
}

// List returns stored manifest IDs, sorted.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.data))
	for id := range s.data {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}
