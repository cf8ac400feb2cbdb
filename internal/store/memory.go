package store

import (
	"context"
	"sync"

	"github.com/ppiankov/fabula/internal/model"
)

// MemoryStore keeps passage sets in process memory
type MemoryStore struct {
	mu         sync.RWMutex
	narratives map[string][]model.Passage
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		narratives: make(map[string][]model.Passage),
	}
}

// Put stores the passage set for a narrative
func (s *MemoryStore) Put(_ context.Context, narrative string, passages []model.Passage) error {
	copied := make([]model.Passage, len(passages))
	copy(copied, passages)

	s.mu.Lock()
	s.narratives[narrative] = copied
	s.mu.Unlock()
	return nil
}

// Passages returns the stored passage set for a narrative
func (s *MemoryStore) Passages(_ context.Context, narrative string) ([]model.Passage, error) {
	s.mu.RLock()
	stored := s.narratives[narrative]
	s.mu.RUnlock()

	if stored == nil {
		return nil, nil
	}
	copied := make([]model.Passage, len(stored))
	copy(copied, stored)
	return copied, nil
}

// Close is a no-op for the memory store
func (s *MemoryStore) Close() error {
	return nil
}
