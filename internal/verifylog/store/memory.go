package store

import (
	"context"
	"sync"

	"certverify/internal/verifylog/models"
)

// MemoryStore is an in-memory Store for tests.
type MemoryStore struct {
	mu      sync.RWMutex
	entries []models.Entry
	Fail    error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) InsertBatch(_ context.Context, entries []models.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail != nil {
		return s.Fail
	}
	s.entries = append(s.entries, entries...)
	return nil
}

// Entries returns a snapshot of everything persisted so far.
func (s *MemoryStore) Entries() []models.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Entry, len(s.entries))
	copy(out, s.entries)
	return out
}
