package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	identitymodels "certverify/internal/identity/models"
	"certverify/internal/verification/cache"
	"certverify/internal/verification/models"
	"certverify/internal/verification/store"
	dErrors "certverify/pkg/domain-errors"
)

type stubResolver struct {
	mu       sync.Mutex
	profiles map[string]*identitymodels.Profile
	err      error
	calls    int
}

func (r *stubResolver) Resolve(_ context.Context, personID string) (*identitymodels.Profile, error) {
	r.mu.Lock()
	r.calls++
	r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	profile, ok := r.profiles[personID]
	if !ok {
		return nil, dErrors.New(dErrors.CodeNotFound, "profile not found in directory")
	}
	return profile, nil
}

type fixture struct {
	svc      *Service
	cache    *cache.MemoryCache
	store    *store.MemoryStore
	resolver *stubResolver
}

func newFixture() *fixture {
	c := cache.NewMemoryCache()
	st := store.NewMemoryStore()
	r := &stubResolver{profiles: map[string]*identitymodels.Profile{}}
	return &fixture{
		svc:      New(c, st, r, slog.Default(), nil, nil),
		cache:    c,
		store:    st,
		resolver: r,
	}
}

func (f *fixture) seedCertificate(code, ownerID string, layout []byte) *store.Record {
	role := "STUDENT"
	generation := "Gen 10"
	record := &store.Record{
		ID:                uuid.New(),
		CertificateNumber: "KSHRD-2024-001",
		VerifyCode:        code,
		IssuedDate:        time.Date(2024, 11, 15, 0, 0, 0, 0, time.UTC),
		OwnerID:           ownerID,
		TargetRole:        &role,
		GenerationName:    &generation,
		Subject: &store.SubjectRecord{
			ID:    uuid.New(),
			Name:  "Advanced Course",
			Level: "ADVANCED",
			Topics: []models.TopicDetail{
				{Name: "Spring", SortOrder: 1},
				{Name: "Go", SortOrder: 2},
			},
		},
		LayoutConfig: layout,
	}
	f.store.Put(record)
	return record
}

func TestVerifyEmptyCode(t *testing.T) {
	f := newFixture()

	for _, code := range []string{"", "   "} {
		_, err := f.svc.Verify(context.Background(), code)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	}
	assert.Equal(t, 0, f.store.Reads)
}

func TestVerifyUnknownCodeNotFoundAndNotCached(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := f.svc.Verify(ctx, "UNKNOWN-CODE")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
		assert.False(t, f.cache.Has("UNKNOWN-CODE"))
	}
	// Not-found is terminal: no retries, one store read per call.
	assert.Equal(t, 2, f.store.Reads)
}

func TestVerifyScenarioKnownCertificate(t *testing.T) {
	f := newFixture()
	photo := "https://cdn.example.com/dara.jpg"
	f.resolver.profiles["owner-1"] = &identitymodels.Profile{
		ID:         "owner-1",
		FullNameEN: "Dara Chan",
		PhotoURL:   &photo,
	}
	f.seedCertificate("KSHRD-2024-001", "owner-1",
		[]byte(`[{"type":"text","label":"student_name","x":10,"y":20}]`))

	payload, err := f.svc.Verify(context.Background(), "KSHRD-2024-001")
	require.NoError(t, err)

	assert.Equal(t, "Dara Chan", payload.CertificateData.StudentName)
	require.NotNil(t, payload.CertificateData.StudentPhoto)
	assert.Equal(t, photo, *payload.CertificateData.StudentPhoto)
	assert.Equal(t, "STUDENT", payload.CertificateData.TargetRole)
	assert.Equal(t, "Gen 10", payload.CertificateData.GenerationName)
	require.NotNil(t, payload.CertificateData.SubjectDetail)
	assert.Len(t, payload.CertificateData.SubjectDetail.Topics, 2)

	layoutJSON, err := json.Marshal(payload.LayoutConfig)
	require.NoError(t, err)
	assert.JSONEq(t,
		`[{"type":"text","label":"student_name","x":10,"y":20,"width":null,"height":null,"style":null}]`,
		string(layoutJSON))
}

func TestVerifyCacheRoundTrip(t *testing.T) {
	f := newFixture()
	f.resolver.profiles["owner-1"] = &identitymodels.Profile{ID: "owner-1", FullNameEN: "Dara Chan"}
	f.seedCertificate("a1b2c3", "owner-1", nil)
	ctx := context.Background()

	first, err := f.svc.Verify(ctx, "a1b2c3")
	require.NoError(t, err)
	require.Equal(t, 1, f.store.Reads)

	// Second call is served through the schema guard from cache.
	second, err := f.svc.Verify(ctx, "a1b2c3")
	require.NoError(t, err)
	assert.Equal(t, 1, f.store.Reads)
	assert.Equal(t, first, second)
}

func TestVerifyStaleCacheShapeFallsThroughAndOverwrites(t *testing.T) {
	f := newFixture()
	f.resolver.profiles["owner-1"] = &identitymodels.Profile{ID: "owner-1", FullNameEN: "Dara Chan"}
	f.seedCertificate("a1b2c3", "owner-1", nil)
	f.cache.SeedRaw("a1b2c3", []byte(`{"certificate_number":"OLD-SHAPE"}`))
	ctx := context.Background()

	payload, err := f.svc.Verify(ctx, "a1b2c3")
	require.NoError(t, err)
	assert.Equal(t, "KSHRD-2024-001", payload.CertificateData.CertificateNumber)
	assert.Equal(t, 1, f.store.Reads)

	// The stale entry was overwritten: next call is a cache hit.
	_, err = f.svc.Verify(ctx, "a1b2c3")
	require.NoError(t, err)
	assert.Equal(t, 1, f.store.Reads)
}

func TestVerifyNoTemplateYieldsEmptyLayout(t *testing.T) {
	f := newFixture()
	f.resolver.profiles["owner-1"] = &identitymodels.Profile{ID: "owner-1", FullNameEN: "Dara Chan"}

	t.Run("no template", func(t *testing.T) {
		f.seedCertificate("no-template", "owner-1", nil)
		payload, err := f.svc.Verify(context.Background(), "no-template")
		require.NoError(t, err)
		require.NotNil(t, payload.LayoutConfig)
		assert.Empty(t, payload.LayoutConfig)
	})

	t.Run("non-list layout", func(t *testing.T) {
		f.seedCertificate("object-layout", "owner-1", []byte(`{"type":"text"}`))
		payload, err := f.svc.Verify(context.Background(), "object-layout")
		require.NoError(t, err)
		require.NotNil(t, payload.LayoutConfig)
		assert.Empty(t, payload.LayoutConfig)
	})
}

func TestVerifyOwnerUnresolvedDegradesToPlaceholder(t *testing.T) {
	f := newFixture()
	f.seedCertificate("a1b2c3", "ghost", nil)

	payload, err := f.svc.Verify(context.Background(), "a1b2c3")
	require.NoError(t, err)
	assert.Equal(t, models.PlaceholderStudentName, payload.CertificateData.StudentName)
	assert.Nil(t, payload.CertificateData.StudentPhoto)
}

func TestVerifyDirectoryOutageDegradesToPlaceholder(t *testing.T) {
	f := newFixture()
	f.resolver.err = dErrors.New(dErrors.CodeUnavailable, "directory unreachable")
	f.seedCertificate("a1b2c3", "owner-1", nil)

	payload, err := f.svc.Verify(context.Background(), "a1b2c3")
	require.NoError(t, err)
	assert.Equal(t, models.PlaceholderStudentName, payload.CertificateData.StudentName)
	assert.Nil(t, payload.CertificateData.StudentPhoto)
}

func TestVerifyPermissionDenialDoesNotAbortVerification(t *testing.T) {
	f := newFixture()
	f.resolver.err = dErrors.New(dErrors.CodeIdentityConfig, "directory denied access")
	f.seedCertificate("a1b2c3", "owner-1", nil)

	payload, err := f.svc.Verify(context.Background(), "a1b2c3")
	require.NoError(t, err)
	assert.Equal(t, models.PlaceholderStudentName, payload.CertificateData.StudentName)
}

func TestVerifyEmptyResolvedNameUsesPlaceholder(t *testing.T) {
	f := newFixture()
	photo := "https://cdn.example.com/anon.jpg"
	f.resolver.profiles["owner-1"] = &identitymodels.Profile{
		ID:         "owner-1",
		FullNameEN: "   ",
		PhotoURL:   &photo,
	}
	f.seedCertificate("a1b2c3", "owner-1", nil)

	payload, err := f.svc.Verify(context.Background(), "a1b2c3")
	require.NoError(t, err)
	assert.Equal(t, models.PlaceholderStudentName, payload.CertificateData.StudentName)
	// A blank name degrades; the rest of the profile is still used.
	require.NotNil(t, payload.CertificateData.StudentPhoto)
	assert.Equal(t, photo, *payload.CertificateData.StudentPhoto)
}

func TestVerifyMissingEnrichmentUsesSentinels(t *testing.T) {
	f := newFixture()
	f.resolver.profiles["owner-1"] = &identitymodels.Profile{ID: "owner-1", FullNameEN: "Dara Chan"}
	f.store.Put(&store.Record{
		ID:                uuid.New(),
		CertificateNumber: "KSHRD-2024-002",
		VerifyCode:        "bare",
		IssuedDate:        time.Date(2024, 11, 15, 0, 0, 0, 0, time.UTC),
		OwnerID:           "owner-1",
	})

	payload, err := f.svc.Verify(context.Background(), "bare")
	require.NoError(t, err)
	assert.Equal(t, models.DefaultTargetRole, payload.CertificateData.TargetRole)
	assert.Equal(t, models.PlaceholderGeneration, payload.CertificateData.GenerationName)
	assert.Nil(t, payload.CertificateData.SubjectDetail)
}

func TestVerifyStoreOutageRetriesThenSurfacesUnavailable(t *testing.T) {
	f := newFixture()
	f.store.Fail = dErrors.New(dErrors.CodeUnavailable, "connection refused")

	start := time.Now()
	_, err := f.svc.Verify(context.Background(), "a1b2c3")
	elapsed := time.Since(start)

	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnavailable))
	assert.Equal(t, 3, f.store.Reads)
	// Two backoff waits: 250ms + 500ms.
	assert.GreaterOrEqual(t, elapsed, 750*time.Millisecond)
	assert.False(t, f.cache.Has("a1b2c3"))
}

func TestVerifyCallerCancellationDoesNotAbortSharedFetch(t *testing.T) {
	f := newFixture()
	f.store.Fail = dErrors.New(dErrors.CodeUnavailable, "connection refused")

	// The origin fetch is shared through the flight group, so one caller's
	// cancellation must not cut the retry loop short for its peers.
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	_, err := f.svc.Verify(ctx, "a1b2c3")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnavailable))
	assert.Equal(t, 3, f.store.Reads)
}

func TestVerifyCacheWriteFailureStillReturnsPayload(t *testing.T) {
	f := newFixture()
	f.resolver.profiles["owner-1"] = &identitymodels.Profile{ID: "owner-1", FullNameEN: "Dara Chan"}
	f.seedCertificate("a1b2c3", "owner-1", nil)
	f.cache.Fail = dErrors.New(dErrors.CodeUnavailable, "cache down")

	payload, err := f.svc.Verify(context.Background(), "a1b2c3")
	require.NoError(t, err)
	assert.Equal(t, "Dara Chan", payload.CertificateData.StudentName)
}

func TestVerifyConcurrentCallsCoalesce(t *testing.T) {
	f := newFixture()
	f.resolver.profiles["owner-1"] = &identitymodels.Profile{ID: "owner-1", FullNameEN: "Dara Chan"}
	f.seedCertificate("a1b2c3", "owner-1", nil)

	const callers = 16
	payloads := make([]*models.VerificationPayload, callers)
	var wg sync.WaitGroup
	wg.Add(callers)
	for i := 0; i < callers; i++ {
		go func(i int) {
			defer wg.Done()
			payload, err := f.svc.Verify(context.Background(), "a1b2c3")
			assert.NoError(t, err)
			payloads[i] = payload
		}(i)
	}
	wg.Wait()

	for i := 1; i < callers; i++ {
		require.NotNil(t, payloads[i])
		assert.Equal(t, payloads[0].CertificateData, payloads[i].CertificateData)
	}
	// Coalescing bounds origin reads well below the caller count.
	assert.Less(t, f.store.Reads, callers/2)
}

func TestListOwnerCertificates(t *testing.T) {
	f := newFixture()
	f.seedCertificate("a1b2c3", "owner-1", nil)

	summaries, err := f.svc.ListOwnerCertificates(context.Background(), "owner-1")
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, "a1b2c3", summaries[0].VerifyCode)

	summaries, err = f.svc.ListOwnerCertificates(context.Background(), "someone-else")
	require.NoError(t, err)
	assert.Empty(t, summaries)

	_, err = f.svc.ListOwnerCertificates(context.Background(), "")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
}
