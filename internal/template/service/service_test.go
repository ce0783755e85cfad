package service

import (
	"context"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"certverify/internal/template/models"
	"certverify/internal/template/store"
	dErrors "certverify/pkg/domain-errors"
)

func newTestService() *Service {
	return New(store.NewMemoryStore(), slog.Default())
}

func TestCreateTemplate(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	template, err := svc.Create(ctx, CreateTemplateRequest{
		Name:        "Graduation",
		Description: "Standard graduation certificate",
		LayoutConfig: []models.LayoutElement{
			{Type: "text", Label: "student_name", X: 10, Y: 20},
		},
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, template.ID)
	assert.Equal(t, "Graduation", template.Name)
	assert.Len(t, template.LayoutConfig, 1)

	got, err := svc.Get(ctx, template.ID)
	require.NoError(t, err)
	assert.Equal(t, template.Name, got.Name)
}

func TestCreateTemplateValidation(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	t.Run("missing name", func(t *testing.T) {
		_, err := svc.Create(ctx, CreateTemplateRequest{Name: "  "})
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})

	t.Run("invalid element", func(t *testing.T) {
		_, err := svc.Create(ctx, CreateTemplateRequest{
			Name:         "Broken",
			LayoutConfig: []models.LayoutElement{{Type: "text", X: 1, Y: 1}},
		})
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

func TestCreateTemplateDuplicateName(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateTemplateRequest{Name: "Graduation"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, CreateTemplateRequest{Name: "Graduation"})
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeConflict))
}

func TestCreateTemplateNilLayoutBecomesEmpty(t *testing.T) {
	svc := newTestService()

	template, err := svc.Create(context.Background(), CreateTemplateRequest{Name: "Bare"})
	require.NoError(t, err)
	require.NotNil(t, template.LayoutConfig)
	assert.Empty(t, template.LayoutConfig)
}

func TestGetTemplateNotFound(t *testing.T) {
	svc := newTestService()

	_, err := svc.Get(context.Background(), uuid.New())
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
}

func TestListTemplates(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateTemplateRequest{Name: "One"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateTemplateRequest{Name: "Two"})
	require.NoError(t, err)

	templates, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, templates, 2)
}
