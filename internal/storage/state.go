package storage

import (
	"context"
	"sort"
	"sync"

	"github.com/aliskhannn/amagambo-bot/internal/repository"
)

// MemoryStateStore keeps state documents in process memory.
// It backs the "memory" storage driver and tests.
type MemoryStateStore struct {
	mu   sync.RWMutex
	docs map[string][]byte
}

// NewMemoryStateStore creates an empty MemoryStateStore.
func NewMemoryStateStore() *MemoryStateStore {
	return &MemoryStateStore{
		docs: make(map[string][]byte),
	}
}

// Load returns a copy of the document stored under name.
func (s *MemoryStateStore) Load(_ context.Context, name string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.docs[name]
	if !ok {
		return nil, repository.ErrStateNotFound
	}
	return append([]byte(nil), doc...), nil
}

// Save replaces the document stored under name.
func (s *MemoryStateStore) Save(_ context.Context, name string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[name] = append([]byte(nil), data...)
	return nil
}

// Delete drops the document stored under name.
func (s *MemoryStateStore) Delete(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, name)
	return nil
}

// List returns the stored names in sorted order.
func (s *MemoryStateStore) List(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.docs))
	for name := range s.docs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}
