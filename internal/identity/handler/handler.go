package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"certverify/internal/identity/models"
	dErrors "certverify/pkg/domain-errors"
	"certverify/pkg/platform/httputil"
	"certverify/pkg/requestcontext"
)

// Resolver resolves person profiles.
type Resolver interface {
	Resolve(ctx context.Context, personID string) (*models.Profile, error)
}

type Handler struct {
	resolver Resolver
	logger   *slog.Logger
}

func New(resolver Resolver, logger *slog.Logger) *Handler {
	return &Handler{resolver: resolver, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/api/v1/me", h.HandleMe)
}

// HandleMe returns the authenticated user's directory profile.
func (h *Handler) HandleMe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID := requestcontext.UserID(ctx)
	if userID == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "missing authenticated user"))
		return
	}

	profile, err := h.resolver.Resolve(ctx, userID)
	if err != nil {
		h.logger.ErrorContext(ctx, "resolve own profile failed", "error", err, "user_id", userID)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, profile)
}
