// Package httptransport composes the HTTP surface: public verification,
// token-guarded self-service routes, and admin routes.
package httptransport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"certverify/internal/platform/middleware"
	"certverify/pkg/platform/httputil"
)

// HealthChecker reports a dependency's liveness.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// Registrar mounts a feature's routes on a router group.
type Registrar interface {
	Register(r chi.Router)
}

// Deps carries everything the router composes. Handlers own their routes;
// the router only decides which guard wraps each group.
type Deps struct {
	Logger *slog.Logger

	TokenValidator middleware.TokenValidator
	AdminTokenHash string

	PublicRoutes        []func(chi.Router)
	AuthenticatedRoutes []func(chi.Router)
	AdminRoutes         []func(chi.Router)

	HealthChecks map[string]HealthChecker
}

// NewRouter builds the full route tree with request-scoped middleware applied
// to every route.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.ClientContext)
	r.Use(middleware.Recovery(deps.Logger))

	r.Group(func(r chi.Router) {
		for _, register := range deps.PublicRoutes {
			register(r)
		}
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(deps.TokenValidator, deps.Logger))
		for _, register := range deps.AuthenticatedRoutes {
			register(r)
		}
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAdminToken(deps.AdminTokenHash, deps.Logger))
		for _, register := range deps.AdminRoutes {
			register(r)
		}
	})

	r.Get("/healthz", healthHandler(deps.HealthChecks))
	r.Handle("/metrics", promhttp.Handler())

	return r
}

func healthHandler(checks map[string]HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := http.StatusOK
		report := make(map[string]string, len(checks)+1)
		report["status"] = "ok"
		for name, check := range checks {
			if check == nil {
				report[name] = "disabled"
				continue
			}
			if err := check.Health(r.Context()); err != nil {
				status = http.StatusServiceUnavailable
				report["status"] = "degraded"
				report[name] = err.Error()
				continue
			}
			report[name] = "ok"
		}
		httputil.WriteJSON(w, status, report)
	}
}
