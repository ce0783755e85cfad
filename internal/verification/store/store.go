package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"certverify/internal/verification/models"
	dErrors "certverify/pkg/domain-errors"
)

// ErrNotFound is returned when no certificate matches the verify code.
// It is terminal: callers neither cache nor retry it.
var ErrNotFound = dErrors.New(dErrors.CodeNotFound, "certificate not found")

// SubjectRecord is the course row joined onto a certificate, with its topics.
type SubjectRecord struct {
	ID     uuid.UUID
	Name   string
	Level  string
	Topics []models.TopicDetail
}

// Record is a certificate with its joined enrichment rows. Nullable joins are
// pointers; normalization substitutes placeholders for absent ones.
type Record struct {
	ID                uuid.UUID
	CertificateNumber string
	VerifyCode        string
	IssuedDate        time.Time
	OwnerID           string
	TargetRole        *string
	GenerationName    *string
	Subject           *SubjectRecord
	LayoutConfig      []byte
}

// Store reads certificate records from the relational store.
type Store interface {
	FindByVerifyCode(ctx context.Context, code string) (*Record, error)
	ListByOwner(ctx context.Context, ownerID string) ([]models.CertificateSummary, error)
}
