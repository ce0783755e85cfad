package httptransport

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	jwttoken "certverify/internal/jwt_token"
	"certverify/pkg/requestcontext"
)

type healthStub struct{ err error }

func (h healthStub) Health(context.Context) error { return h.err }

func testDeps(t *testing.T) (Deps, string, string) {
	t.Helper()
	jwtService := jwttoken.NewJWTService("test-signing-key", "certverify", "certverify")
	token, err := jwtService.GenerateAccessToken("owner-1", time.Hour)
	require.NoError(t, err)

	hash, err := bcrypt.GenerateFromPassword([]byte("admin-secret"), bcrypt.MinCost)
	require.NoError(t, err)

	deps := Deps{
		Logger:         slog.Default(),
		TokenValidator: jwttoken.NewJWTServiceAdapter(jwtService),
		AdminTokenHash: string(hash),
		PublicRoutes: []func(chi.Router){func(r chi.Router) {
			r.Get("/api/v1/public", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			})
		}},
		AuthenticatedRoutes: []func(chi.Router){func(r chi.Router) {
			r.Get("/api/v1/me/ping", func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(requestcontext.UserID(r.Context())))
			})
		}},
		AdminRoutes: []func(chi.Router){func(r chi.Router) {
			r.Get("/admin/ping", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			})
		}},
		HealthChecks: map[string]HealthChecker{"database": healthStub{}},
	}
	return deps, token, "admin-secret"
}

func TestPublicRouteNeedsNoAuth(t *testing.T) {
	deps, _, _ := testDeps(t)
	router := NewRouter(deps)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/public", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthenticatedRouteRequiresBearer(t *testing.T) {
	deps, token, _ := testDeps(t)
	router := NewRouter(deps)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/me/ping", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/me/ping", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "owner-1", rec.Body.String())
}

func TestAdminRouteRequiresToken(t *testing.T) {
	deps, _, adminToken := testDeps(t)
	router := NewRouter(deps)

	req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	req.Header.Set("X-Admin-Token", adminToken)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHealthz(t *testing.T) {
	deps, _, _ := testDeps(t)
	router := NewRouter(deps)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var report map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, "ok", report["status"])
	assert.Equal(t, "ok", report["database"])
}

func TestHealthzDegraded(t *testing.T) {
	deps, _, _ := testDeps(t)
	deps.HealthChecks = map[string]HealthChecker{
		"database": healthStub{err: assert.AnError},
	}
	router := NewRouter(deps)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	var report map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, "degraded", report["status"])
}

func TestMetricsEndpoint(t *testing.T) {
	deps, _, _ := testDeps(t)
	router := NewRouter(deps)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
