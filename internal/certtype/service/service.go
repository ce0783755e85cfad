package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"certverify/internal/certtype/models"
	"certverify/internal/certtype/store"
	"certverify/pkg/requestcontext"
)

// Service manages certificate types.
type Service struct {
	store  store.Store
	logger *slog.Logger
}

func New(store store.Store, logger *slog.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// CertificateTypeInput carries the mutable fields of a certificate type.
type CertificateTypeInput struct {
	Name       string
	Category   string
	TargetRole string
	TemplateID *uuid.UUID
}

// Create validates and persists a new certificate type. An empty target role
// defaults to STUDENT.
func (s *Service) Create(ctx context.Context, input CertificateTypeInput) (*models.CertificateType, error) {
	targetRole := input.TargetRole
	if targetRole == "" {
		targetRole = models.TargetRoleStudent
	}

	certType := &models.CertificateType{
		ID:         uuid.New(),
		Name:       strings.TrimSpace(input.Name),
		Category:   input.Category,
		TargetRole: targetRole,
		TemplateID: input.TemplateID,
		CreatedAt:  requestcontext.Now(ctx),
	}
	if err := certType.Validate(); err != nil {
		return nil, err
	}

	if err := s.store.Create(ctx, certType); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "certificate type created",
		"certificate_type_id", certType.ID,
		"name", certType.Name,
		"target_role", certType.TargetRole)
	return certType, nil
}

// Update replaces the mutable fields of an existing certificate type.
func (s *Service) Update(ctx context.Context, id uuid.UUID, input CertificateTypeInput) (*models.CertificateType, error) {
	certType, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	certType.Name = strings.TrimSpace(input.Name)
	certType.Category = input.Category
	if input.TargetRole != "" {
		certType.TargetRole = input.TargetRole
	}
	certType.TemplateID = input.TemplateID
	if err := certType.Validate(); err != nil {
		return nil, err
	}

	if err := s.store.Update(ctx, certType); err != nil {
		return nil, err
	}
	return certType, nil
}

// Delete removes a certificate type.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "certificate type deleted", "certificate_type_id", id)
	return nil
}

// Get returns a certificate type by ID.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.CertificateType, error) {
	return s.store.FindByID(ctx, id)
}

// List returns all certificate types.
func (s *Service) List(ctx context.Context) ([]*models.CertificateType, error) {
	return s.store.List(ctx)
}
