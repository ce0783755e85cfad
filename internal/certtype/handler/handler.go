package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"certverify/internal/certtype/models"
	"certverify/internal/certtype/service"
	dErrors "certverify/pkg/domain-errors"
	"certverify/pkg/platform/httputil"
)

// Service defines the certificate type operations the handler depends on.
type Service interface {
	Create(ctx context.Context, input service.CertificateTypeInput) (*models.CertificateType, error)
	Update(ctx context.Context, id uuid.UUID, input service.CertificateTypeInput) (*models.CertificateType, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Get(ctx context.Context, id uuid.UUID) (*models.CertificateType, error)
	List(ctx context.Context) ([]*models.CertificateType, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/admin/certificate-types", h.HandleCreate)
	r.Get("/admin/certificate-types", h.HandleList)
	r.Get("/admin/certificate-types/{id}", h.HandleGet)
	r.Put("/admin/certificate-types/{id}", h.HandleUpdate)
	r.Delete("/admin/certificate-types/{id}", h.HandleDelete)
}

// CertificateTypeRequest is the JSON body for creating or updating a type.
type CertificateTypeRequest struct {
	Name       string  `json:"name"`
	Category   string  `json:"category"`
	TargetRole string  `json:"target_role"`
	TemplateID *string `json:"template_id"`
}

func (r *CertificateTypeRequest) toInput() (service.CertificateTypeInput, error) {
	input := service.CertificateTypeInput{
		Name:       r.Name,
		Category:   r.Category,
		TargetRole: r.TargetRole,
	}
	if r.TemplateID != nil {
		templateID, err := uuid.Parse(*r.TemplateID)
		if err != nil {
			return input, dErrors.New(dErrors.CodeValidation, "invalid template id")
		}
		input.TemplateID = &templateID
	}
	return input, nil
}

// CertificateTypeResponse is the JSON representation of a certificate type.
type CertificateTypeResponse struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Category   string    `json:"category"`
	TargetRole string    `json:"target_role"`
	TemplateID *string   `json:"template_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// HandleCreate creates a new certificate type.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, ok := httputil.DecodeJSON[CertificateTypeRequest](w, r, h.logger)
	if !ok {
		return
	}
	input, err := req.toInput()
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	certType, err := h.service.Create(ctx, input)
	if err != nil {
		h.logger.ErrorContext(ctx, "create certificate type failed", "error", err)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, toResponse(certType))
}

// HandleUpdate replaces a certificate type's fields.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid certificate type id"))
		return
	}

	req, ok := httputil.DecodeJSON[CertificateTypeRequest](w, r, h.logger)
	if !ok {
		return
	}
	input, err := req.toInput()
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	certType, err := h.service.Update(ctx, id, input)
	if err != nil {
		h.logger.ErrorContext(ctx, "update certificate type failed", "error", err, "certificate_type_id", id)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toResponse(certType))
}

// HandleDelete removes a certificate type.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid certificate type id"))
		return
	}

	if err := h.service.Delete(ctx, id); err != nil {
		h.logger.ErrorContext(ctx, "delete certificate type failed", "error", err, "certificate_type_id", id)
		httputil.WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleGet returns a single certificate type.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid certificate type id"))
		return
	}

	certType, err := h.service.Get(ctx, id)
	if err != nil {
		h.logger.ErrorContext(ctx, "get certificate type failed", "error", err, "certificate_type_id", id)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toResponse(certType))
}

// HandleList returns all certificate types.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	certTypes, err := h.service.List(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list certificate types failed", "error", err)
		httputil.WriteError(w, err)
		return
	}

	out := make([]*CertificateTypeResponse, 0, len(certTypes))
	for _, certType := range certTypes {
		out = append(out, toResponse(certType))
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

func toResponse(t *models.CertificateType) *CertificateTypeResponse {
	resp := &CertificateTypeResponse{
		ID:         t.ID.String(),
		Name:       t.Name,
		Category:   t.Category,
		TargetRole: t.TargetRole,
		CreatedAt:  t.CreatedAt,
	}
	if t.TemplateID != nil {
		templateID := t.TemplateID.String()
		resp.TemplateID = &templateID
	}
	return resp
}
