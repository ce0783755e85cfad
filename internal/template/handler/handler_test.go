package handler

import (
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"certverify/internal/template/service"
	"certverify/internal/template/store"
	"certverify/pkg/testutil"
)

func newTestRouter() chi.Router {
	svc := service.New(store.NewMemoryStore(), slog.Default())
	h := New(svc, slog.Default())
	r := chi.NewRouter()
	h.Register(r)
	return r
}

func TestHandleCreate(t *testing.T) {
	r := newTestRouter()

	body := `{
		"name": "Graduation",
		"description": "Standard layout",
		"layout_config": [{"type":"text","label":"student_name","x":10,"y":20}]
	}`
	rec := testutil.DoRequest(r, testutil.NewJSONRequest(t, http.MethodPost, "/admin/templates", body))

	require.Equal(t, http.StatusCreated, rec.Code)

	resp := testutil.UnmarshalResponse[TemplateResponse](t, rec)
	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, "Graduation", resp.Name)
	require.Len(t, resp.LayoutConfig, 1)
	assert.Equal(t, "student_name", resp.LayoutConfig[0].Label)
}

func TestHandleCreateValidationError(t *testing.T) {
	r := newTestRouter()

	rec := testutil.DoRequest(r, testutil.NewJSONRequest(t, http.MethodPost, "/admin/templates", `{"name":""}`))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleCreateDuplicate(t *testing.T) {
	r := newTestRouter()

	for _, want := range []int{http.StatusCreated, http.StatusConflict} {
		rec := testutil.DoRequest(r, testutil.NewJSONRequest(t, http.MethodPost, "/admin/templates", `{"name":"Graduation"}`))
		assert.Equal(t, want, rec.Code)
	}
}

func TestHandleGet(t *testing.T) {
	r := newTestRouter()

	rec := testutil.DoRequest(r, testutil.NewJSONRequest(t, http.MethodPost, "/admin/templates", `{"name":"Graduation"}`))
	require.Equal(t, http.StatusCreated, rec.Code)
	created := testutil.UnmarshalResponse[TemplateResponse](t, rec)

	rec = testutil.DoRequest(r, testutil.NewRequest(t, http.MethodGet, "/admin/templates/"+created.ID))

	require.Equal(t, http.StatusOK, rec.Code)
	got := testutil.UnmarshalResponse[TemplateResponse](t, rec)
	assert.Equal(t, created.ID, got.ID)
}

func TestHandleGetInvalidID(t *testing.T) {
	r := newTestRouter()

	rec := testutil.DoRequest(r, testutil.NewRequest(t, http.MethodGet, "/admin/templates/not-a-uuid"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleGetNotFound(t *testing.T) {
	r := newTestRouter()

	rec := testutil.DoRequest(r, testutil.NewRequest(t, http.MethodGet, "/admin/templates/7f0b2a4e-57f3-4f19-9e86-0a6a6f7f2d11"))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleList(t *testing.T) {
	r := newTestRouter()

	for _, name := range []string{"One", "Two"} {
		rec := testutil.DoRequest(r, testutil.NewJSONRequest(t, http.MethodPost, "/admin/templates", `{"name":"`+name+`"}`))
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := testutil.DoRequest(r, testutil.NewRequest(t, http.MethodGet, "/admin/templates"))

	require.Equal(t, http.StatusOK, rec.Code)
	got := testutil.UnmarshalResponse[[]TemplateResponse](t, rec)
	assert.Len(t, *got, 2)
}
