package store

import (
	"context"
	"sort"
	"sync"

	"certverify/internal/verification/models"
)

// MemoryStore is an in-memory Store for tests. Fail, when set, makes every
// read return it, simulating a relational store outage.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]*Record
	Fail    error
	Reads   int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]*Record)}
}

// Put registers a record under its verify code.
func (s *MemoryStore) Put(record *Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[record.VerifyCode] = record
}

func (s *MemoryStore) FindByVerifyCode(_ context.Context, code string) (*Record, error) {
	s.mu.Lock()
	s.Reads++
	fail := s.Fail
	s.mu.Unlock()
	if fail != nil {
		return nil, fail
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.records[code]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *record
	return &clone, nil
}

func (s *MemoryStore) ListByOwner(_ context.Context, ownerID string) ([]models.CertificateSummary, error) {
	s.mu.RLock()
	fail := s.Fail
	s.mu.RUnlock()
	if fail != nil {
		return nil, fail
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	summaries := []models.CertificateSummary{}
	for _, record := range s.records {
		if record.OwnerID != ownerID {
			continue
		}
		summaries = append(summaries, models.CertificateSummary{
			CertificateNumber: record.CertificateNumber,
			VerifyCode:        record.VerifyCode,
			IssuedDate:        models.NewDate(record.IssuedDate),
		})
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].CertificateNumber < summaries[j].CertificateNumber
	})
	return summaries, nil
}
