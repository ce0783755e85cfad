package store

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"certverify/internal/template/models"
)

// MemoryStore is an in-memory Store for tests.
type MemoryStore struct {
	mu        sync.RWMutex
	templates map[uuid.UUID]*models.Template
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{templates: make(map[uuid.UUID]*models.Template)}
}

func (s *MemoryStore) Create(_ context.Context, template *models.Template) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.templates {
		if existing.Name == template.Name {
			return ErrDuplicateName
		}
	}
	clone := *template
	s.templates[template.ID] = &clone
	return nil
}

func (s *MemoryStore) FindByID(_ context.Context, id uuid.UUID) (*models.Template, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	template, ok := s.templates[id]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *template
	return &clone, nil
}

func (s *MemoryStore) List(_ context.Context) ([]*models.Template, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	templates := make([]*models.Template, 0, len(s.templates))
	for _, template := range s.templates {
		clone := *template
		templates = append(templates, &clone)
	}
	return templates, nil
}
