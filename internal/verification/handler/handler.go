package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"certverify/internal/verification/models"
	verifylog "certverify/internal/verifylog/models"
	dErrors "certverify/pkg/domain-errors"
	"certverify/pkg/platform/httputil"
	"certverify/pkg/requestcontext"
)

// Service defines the verification operations the handler depends on.
type Service interface {
	Verify(ctx context.Context, code string) (*models.VerificationPayload, error)
	ListOwnerCertificates(ctx context.Context, personID string) ([]models.CertificateSummary, error)
}

// Recorder records verification attempts. Fire-and-forget.
type Recorder interface {
	Record(ctx context.Context, verifyCode, result string)
}

type noopRecorder struct{}

func (noopRecorder) Record(context.Context, string, string) {}

type Handler struct {
	service  Service
	recorder Recorder
	logger   *slog.Logger
}

func New(service Service, recorder Recorder, logger *slog.Logger) *Handler {
	if recorder == nil {
		recorder = noopRecorder{}
	}
	return &Handler{service: service, recorder: recorder, logger: logger}
}

// RegisterPublic mounts the unauthenticated verification route.
func (h *Handler) RegisterPublic(r chi.Router) {
	r.Get("/api/v1/certificates/{code}/verify", h.HandleVerify)
}

// RegisterAuthenticated mounts the routes that require a bearer token.
func (h *Handler) RegisterAuthenticated(r chi.Router) {
	r.Get("/api/v1/me/certificates", h.HandleMyCertificates)
}

// HandleVerify answers a public verification request for a code.
func (h *Handler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	code := chi.URLParam(r, "code")

	payload, err := h.service.Verify(ctx, code)
	if err != nil {
		h.recorder.Record(ctx, code, resultFor(err))
		if !dErrors.HasCode(err, dErrors.CodeNotFound) {
			h.logger.ErrorContext(ctx, "verification failed", "error", err, "verify_code", code)
		}
		httputil.WriteError(w, err)
		return
	}

	h.recorder.Record(ctx, code, verifylog.ResultSuccess)
	httputil.WriteJSON(w, http.StatusOK, payload)
}

// HandleMyCertificates lists the authenticated user's certificates.
func (h *Handler) HandleMyCertificates(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID := requestcontext.UserID(ctx)
	if userID == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "missing authenticated user"))
		return
	}

	summaries, err := h.service.ListOwnerCertificates(ctx, userID)
	if err != nil {
		h.logger.ErrorContext(ctx, "list own certificates failed", "error", err, "user_id", userID)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, summaries)
}

func resultFor(err error) string {
	switch {
	case dErrors.HasCode(err, dErrors.CodeNotFound):
		return verifylog.ResultNotFound
	case dErrors.HasCode(err, dErrors.CodeValidation):
		return verifylog.ResultInvalid
	default:
		return verifylog.ResultUnavailable
	}
}
