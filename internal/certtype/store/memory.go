package store

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"certverify/internal/certtype/models"
)

// MemoryStore is an in-memory Store for tests.
type MemoryStore struct {
	mu        sync.RWMutex
	certTypes map[uuid.UUID]*models.CertificateType
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{certTypes: make(map[uuid.UUID]*models.CertificateType)}
}

func (s *MemoryStore) Create(_ context.Context, certType *models.CertificateType) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := *certType
	s.certTypes[certType.ID] = &clone
	return nil
}

func (s *MemoryStore) Update(_ context.Context, certType *models.CertificateType) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.certTypes[certType.ID]; !ok {
		return ErrNotFound
	}
	clone := *certType
	s.certTypes[certType.ID] = &clone
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.certTypes[id]; !ok {
		return ErrNotFound
	}
	delete(s.certTypes, id)
	return nil
}

func (s *MemoryStore) FindByID(_ context.Context, id uuid.UUID) (*models.CertificateType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	certType, ok := s.certTypes[id]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *certType
	return &clone, nil
}

func (s *MemoryStore) List(_ context.Context) ([]*models.CertificateType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	certTypes := make([]*models.CertificateType, 0, len(s.certTypes))
	for _, certType := range s.certTypes {
		clone := *certType
		certTypes = append(certTypes, &clone)
	}
	return certTypes, nil
}
