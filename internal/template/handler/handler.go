package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"certverify/internal/template/models"
	"certverify/internal/template/service"
	dErrors "certverify/pkg/domain-errors"
	"certverify/pkg/platform/httputil"
)

// Service defines the template operations the handler depends on.
type Service interface {
	Create(ctx context.Context, req service.CreateTemplateRequest) (*models.Template, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Template, error)
	List(ctx context.Context) ([]*models.Template, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/admin/templates", h.HandleCreate)
	r.Get("/admin/templates", h.HandleList)
	r.Get("/admin/templates/{id}", h.HandleGet)
}

// CreateTemplateRequest is the JSON body for template creation.
type CreateTemplateRequest struct {
	Name         string                 `json:"name"`
	Description  string                 `json:"description"`
	LayoutConfig []models.LayoutElement `json:"layout_config"`
}

// TemplateResponse is the JSON representation of a template.
type TemplateResponse struct {
	ID           string                 `json:"id"`
	Name         string                 `json:"name"`
	Description  string                 `json:"description"`
	LayoutConfig []models.LayoutElement `json:"layout_config"`
	CreatedAt    time.Time              `json:"created_at"`
}

// HandleCreate creates a new certificate template.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, ok := httputil.DecodeJSON[CreateTemplateRequest](w, r, h.logger)
	if !ok {
		return
	}

	template, err := h.service.Create(ctx, service.CreateTemplateRequest{
		Name:         req.Name,
		Description:  req.Description,
		LayoutConfig: req.LayoutConfig,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "create template failed", "error", err)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, toTemplateResponse(template))
}

// HandleGet returns a single template by ID.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid template id"))
		return
	}

	template, err := h.service.Get(ctx, id)
	if err != nil {
		h.logger.ErrorContext(ctx, "get template failed", "error", err, "template_id", id)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toTemplateResponse(template))
}

// HandleList returns all templates.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	templates, err := h.service.List(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list templates failed", "error", err)
		httputil.WriteError(w, err)
		return
	}

	out := make([]*TemplateResponse, 0, len(templates))
	for _, template := range templates {
		out = append(out, toTemplateResponse(template))
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

func toTemplateResponse(t *models.Template) *TemplateResponse {
	return &TemplateResponse{
		ID:           t.ID.String(),
		Name:         t.Name,
		Description:  t.Description,
		LayoutConfig: t.LayoutConfig,
		CreatedAt:    t.CreatedAt,
	}
}
