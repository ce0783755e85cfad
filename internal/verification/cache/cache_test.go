package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"certverify/internal/verification/models"
)

func payloadFixture() *models.VerificationPayload {
	return &models.VerificationPayload{
		CertificateData: models.CertificateData{
			CertificateNumber: "KSHRD-2024-001",
			IssuedDate:        models.NewDate(time.Date(2024, 11, 15, 0, 0, 0, 0, time.UTC)),
			VerifyCode:        "a1b2c3",
			TargetRole:        "STUDENT",
			StudentName:       "Sok Dara",
			GenerationName:    "Gen 10",
		},
	}
}

func TestMemoryCacheRoundTrip(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "a1b2c3", payloadFixture()))

	got, err := c.Get(ctx, "a1b2c3")
	require.NoError(t, err)
	assert.Equal(t, "KSHRD-2024-001", got.CertificateData.CertificateNumber)
	assert.Equal(t, "2024-11-15", got.CertificateData.IssuedDate.Format("2006-01-02"))
}

func TestMemoryCacheMiss(t *testing.T) {
	c := NewMemoryCache()

	_, err := c.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestSchemaGuard(t *testing.T) {
	tests := []struct {
		name string
		blob string
	}{
		{"legacy flat shape", `{"certificate_number":"KSHRD-2024-001","student_name":"Sok Dara"}`},
		{"missing layout_config", `{"certificate_data":{"verify_code":"a1b2c3"}}`},
		{"missing certificate_data", `{"layout_config":[]}`},
		{"not json", `certificate`},
		{"json array", `[1,2,3]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewMemoryCache()
			c.SeedRaw("a1b2c3", []byte(tt.blob))

			_, err := c.Get(context.Background(), "a1b2c3")
			assert.ErrorIs(t, err, ErrStaleShape)
		})
	}
}

func TestSchemaGuardAcceptsCurrentShape(t *testing.T) {
	c := NewMemoryCache()
	c.SeedRaw("a1b2c3", []byte(`{"certificate_data":{"verify_code":"a1b2c3","certificate_number":"KSHRD-2024-001","issued_date":"2024-11-15","target_role":"STUDENT","subject_detail":null,"student_name":"Sok Dara","student_photo":null,"generation_name":"Gen 10"},"layout_config":[]}`))

	got, err := c.Get(context.Background(), "a1b2c3")
	require.NoError(t, err)
	assert.Equal(t, "Sok Dara", got.CertificateData.StudentName)
	assert.Nil(t, got.CertificateData.SubjectDetail)
}
