package store

import (
	"context"

	"certverify/internal/template/models"
	dErrors "certverify/pkg/domain-errors"

	"github.com/google/uuid"
)

// ErrNotFound is returned when no template matches the lookup.
var ErrNotFound = dErrors.New(dErrors.CodeNotFound, "template not found")

// ErrDuplicateName is returned when a template with the same name exists.
var ErrDuplicateName = dErrors.New(dErrors.CodeConflict, "template name already exists")

// Store persists certificate templates.
type Store interface {
	Create(ctx context.Context, template *models.Template) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Template, error)
	List(ctx context.Context) ([]*models.Template, error)
}
