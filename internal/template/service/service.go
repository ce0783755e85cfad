package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"certverify/internal/template/models"
	"certverify/internal/template/store"
	dErrors "certverify/pkg/domain-errors"
	"certverify/pkg/requestcontext"
)

// Service manages certificate templates.
type Service struct {
	store  store.Store
	logger *slog.Logger
}

func New(store store.Store, logger *slog.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// CreateTemplateRequest carries the fields needed to create a template.
type CreateTemplateRequest struct {
	Name         string
	Description  string
	LayoutConfig []models.LayoutElement
}

func (r *CreateTemplateRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return dErrors.New(dErrors.CodeValidation, "template name is required")
	}
	for i := range r.LayoutConfig {
		if err := r.LayoutConfig[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Create validates and persists a new template.
func (s *Service) Create(ctx context.Context, req CreateTemplateRequest) (*models.Template, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	layout := req.LayoutConfig
	if layout == nil {
		layout = []models.LayoutElement{}
	}

	template := &models.Template{
		ID:           uuid.New(),
		Name:         strings.TrimSpace(req.Name),
		Description:  req.Description,
		LayoutConfig: layout,
		CreatedAt:    requestcontext.Now(ctx),
	}

	if err := s.store.Create(ctx, template); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "template created",
		"template_id", template.ID,
		"name", template.Name,
		"elements", len(template.LayoutConfig))
	return template, nil
}

// Get returns a template by ID.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Template, error) {
	return s.store.FindByID(ctx, id)
}

// List returns all templates.
func (s *Service) List(ctx context.Context) ([]*models.Template, error) {
	return s.store.List(ctx)
}
