package store

import (
	"context"

	"github.com/google/uuid"

	"certverify/internal/certtype/models"
	dErrors "certverify/pkg/domain-errors"
)

// ErrNotFound is returned when no certificate type matches the lookup.
var ErrNotFound = dErrors.New(dErrors.CodeNotFound, "certificate type not found")

// Store persists certificate types.
type Store interface {
	Create(ctx context.Context, certType *models.CertificateType) error
	Update(ctx context.Context, certType *models.CertificateType) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.CertificateType, error)
	List(ctx context.Context) ([]*models.CertificateType, error)
}
