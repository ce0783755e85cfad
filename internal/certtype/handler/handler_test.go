package handler

import (
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"certverify/internal/certtype/service"
	"certverify/internal/certtype/store"
	"certverify/pkg/testutil"
)

func newTestRouter() chi.Router {
	svc := service.New(store.NewMemoryStore(), slog.Default())
	h := New(svc, slog.Default())
	r := chi.NewRouter()
	h.Register(r)
	return r
}

func createType(t *testing.T, r chi.Router, body string) CertificateTypeResponse {
	t.Helper()
	req := testutil.NewJSONRequest(t, http.MethodPost, "/admin/certificate-types", body)
	rec := testutil.DoRequest(r, req)
	require.Equal(t, http.StatusCreated, rec.Code)
	return *testutil.UnmarshalResponse[CertificateTypeResponse](t, rec)
}

func TestHandleCreate(t *testing.T) {
	r := newTestRouter()

	resp := createType(t, r, `{"name":"Graduation","category":"academic","target_role":"STAFF"}`)
	assert.Equal(t, "Graduation", resp.Name)
	assert.Equal(t, "STAFF", resp.TargetRole)
}

func TestHandleCreateDefaultsTargetRole(t *testing.T) {
	r := newTestRouter()

	resp := createType(t, r, `{"name":"Short Course"}`)
	assert.Equal(t, "STUDENT", resp.TargetRole)
}

func TestHandleCreateInvalidRole(t *testing.T) {
	r := newTestRouter()

	req := testutil.NewJSONRequest(t, http.MethodPost, "/admin/certificate-types",
		`{"name":"X","target_role":"ALUMNI"}`)
	rec := testutil.DoRequest(r, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleCreateInvalidTemplateID(t *testing.T) {
	r := newTestRouter()

	req := testutil.NewJSONRequest(t, http.MethodPost, "/admin/certificate-types",
		`{"name":"X","template_id":"nope"}`)
	rec := testutil.DoRequest(r, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleUpdate(t *testing.T) {
	r := newTestRouter()
	created := createType(t, r, `{"name":"Graduation"}`)

	req := testutil.NewJSONRequest(t, http.MethodPut, "/admin/certificate-types/"+created.ID,
		`{"name":"Graduation 2026","category":"academic"}`)
	rec := testutil.DoRequest(r, req)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := testutil.UnmarshalResponse[CertificateTypeResponse](t, rec)
	assert.Equal(t, "Graduation 2026", resp.Name)
}

func TestHandleDelete(t *testing.T) {
	r := newTestRouter()
	created := createType(t, r, `{"name":"Graduation"}`)

	rec := testutil.DoRequest(r, testutil.NewRequest(t, http.MethodDelete, "/admin/certificate-types/"+created.ID))
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = testutil.DoRequest(r, testutil.NewRequest(t, http.MethodGet, "/admin/certificate-types/"+created.ID))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleList(t *testing.T) {
	r := newTestRouter()
	createType(t, r, `{"name":"One"}`)
	createType(t, r, `{"name":"Two"}`)

	rec := testutil.DoRequest(r, testutil.NewRequest(t, http.MethodGet, "/admin/certificate-types"))

	require.Equal(t, http.StatusOK, rec.Code)
	got := testutil.UnmarshalResponse[[]CertificateTypeResponse](t, rec)
	assert.Len(t, *got, 2)
}
