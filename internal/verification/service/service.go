// Package service implements the verification orchestrator: the read-through
// cache, normalization, and partial-failure policy that turn a verify code
// into a display-ready payload.
package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	identitymodels "certverify/internal/identity/models"
	templatemodels "certverify/internal/template/models"
	"certverify/internal/verification/cache"
	"certverify/internal/verification/metrics"
	"certverify/internal/verification/models"
	"certverify/internal/verification/store"
	"certverify/internal/verification/tracer"
	dErrors "certverify/pkg/domain-errors"
)

// Retry policy for relational store reads. Only transient (unavailable)
// failures are retried; not-found and validation failures never are.
const (
	storeReadAttempts = 3
	retryBaseDelay    = 250 * time.Millisecond
	retryMaxDelay     = time.Second
)

// ErrEmptyCode rejects blank input before any I/O happens.
var ErrEmptyCode = dErrors.New(dErrors.CodeValidation, "verification code is required")

// ProfileResolver resolves a person's directory profile, cache-first.
type ProfileResolver interface {
	Resolve(ctx context.Context, personID string) (*identitymodels.Profile, error)
}

// Service orchestrates certificate verification.
type Service struct {
	cache    cache.Cache
	store    store.Store
	profiles ProfileResolver
	logger   *slog.Logger
	metrics  *metrics.Metrics
	tracer   tracer.Tracer

	// flight coalesces concurrent origin fetches for the same code, so a
	// cache-miss stampede costs one store read.
	flight singleflight.Group
}

func New(cache cache.Cache, store store.Store, profiles ProfileResolver, logger *slog.Logger, metrics *metrics.Metrics, tr tracer.Tracer) *Service {
	if tr == nil {
		tr = tracer.NewNoop()
	}
	return &Service{
		cache:    cache,
		store:    store,
		profiles: profiles,
		logger:   logger,
		metrics:  metrics,
		tracer:   tr,
	}
}

// Verify answers "is this code a valid issued certificate, and what should be
// displayed for it". Cache-first; on miss the relational store is read (with
// bounded retry for transient failures), the payload is normalized, the
// owner's profile is resolved best-effort, and the result is cached.
//
// An unknown code returns a not-found error: terminal, never cached, never
// retried. A store outage returns a service-unavailable error the caller may
// retry. Directory failures of any kind degrade to placeholder profile data.
func (s *Service) Verify(ctx context.Context, code string) (*models.VerificationPayload, error) {
	start := time.Now()
	defer s.metrics.ObserveVerify(start)

	code = strings.TrimSpace(code)
	if code == "" {
		return nil, ErrEmptyCode
	}

	ctx, span := s.tracer.Start(ctx, "verification.verify", tracer.String("verify_code", code))
	var verifyErr error
	defer func() { span.End(verifyErr) }()

	if payload, err := s.cache.Get(ctx, code); err == nil {
		s.metrics.IncrementCacheHit()
		span.AddEvent("cache.hit")
		return payload, nil
	} else if errors.Is(err, cache.ErrStaleShape) {
		s.metrics.IncrementStaleShape()
		span.AddEvent("cache.stale_shape")
	} else if !errors.Is(err, cache.ErrMiss) {
		// Cache errors never fail a verification; fall through to the store.
		s.logger.WarnContext(ctx, "verification cache read failed, treating as miss",
			"error", err, "verify_code", code)
		span.AddEvent("cache.error")
	}
	s.metrics.IncrementCacheMiss()

	// The origin fetch is shared by every coalesced caller, so it must not
	// inherit the initiating caller's cancellation.
	fetchCtx := context.WithoutCancel(ctx)
	result, err, _ := s.flight.Do(cache.KeyPrefix+code, func() (any, error) {
		return s.fetchAndCache(fetchCtx, code)
	})
	if err != nil {
		verifyErr = err
		return nil, err
	}
	return result.(*models.VerificationPayload), nil
}

func (s *Service) fetchAndCache(ctx context.Context, code string) (*models.VerificationPayload, error) {
	record, err := s.findWithRetry(ctx, code)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeNotFound) {
			s.metrics.IncrementNotFound()
		}
		return nil, err
	}

	payload := s.buildPayload(ctx, record)

	// Best-effort: the authoritative answer is already in hand.
	if err := s.cache.Set(ctx, code, payload); err != nil {
		s.logger.WarnContext(ctx, "verification cache write failed",
			"error", err, "verify_code", code)
	}
	return payload, nil
}

// findWithRetry reads the certificate record, retrying transient store
// failures with exponential backoff.
func (s *Service) findWithRetry(ctx context.Context, code string) (*store.Record, error) {
	var lastErr error
	for attempt := 1; attempt <= storeReadAttempts; attempt++ {
		record, err := s.store.FindByVerifyCode(ctx, code)
		if err == nil {
			return record, nil
		}
		if !dErrors.HasCode(err, dErrors.CodeUnavailable) {
			return nil, err
		}
		lastErr = err
		if attempt == storeReadAttempts {
			break
		}

		delay := retryBaseDelay << (attempt - 1)
		if delay > retryMaxDelay {
			delay = retryMaxDelay
		}
		s.metrics.IncrementStoreRetry()
		s.logger.WarnContext(ctx, "store read failed, retrying",
			"error", err, "verify_code", code, "attempt", attempt, "delay", delay)

		select {
		case <-ctx.Done():
			return nil, dErrors.Wrap(ctx.Err(), dErrors.CodeUnavailable, "verification cancelled")
		case <-time.After(delay):
		}
	}
	return nil, lastErr
}

// buildPayload normalizes a joined record into the cached contract shape and
// enriches it with the owner's profile. Every enrichment miss degrades to a
// sentinel, never to an error.
func (s *Service) buildPayload(ctx context.Context, record *store.Record) *models.VerificationPayload {
	data := models.CertificateData{
		CertificateNumber: record.CertificateNumber,
		IssuedDate:        models.NewDate(record.IssuedDate),
		VerifyCode:        record.VerifyCode,
		TargetRole:        models.DefaultTargetRole,
		StudentName:       models.PlaceholderStudentName,
		GenerationName:    models.PlaceholderGeneration,
	}
	if record.TargetRole != nil && *record.TargetRole != "" {
		data.TargetRole = *record.TargetRole
	}
	if record.GenerationName != nil && *record.GenerationName != "" {
		data.GenerationName = *record.GenerationName
	}
	if record.Subject != nil {
		topics := record.Subject.Topics
		if topics == nil {
			topics = []models.TopicDetail{}
		}
		data.SubjectDetail = &models.SubjectDetail{
			ID:     record.Subject.ID.String(),
			Name:   record.Subject.Name,
			Level:  record.Subject.Level,
			Topics: topics,
		}
	}

	profile, err := s.profiles.Resolve(ctx, record.OwnerID)
	if err != nil {
		// Store data is authoritative; profile data is enrichment. The
		// resolver has already logged the failure at the right severity.
		s.metrics.IncrementDegradedProfile()
		s.logger.WarnContext(ctx, "owner profile unresolved, using placeholder",
			"error", err, "verify_code", record.VerifyCode, "owner_id", record.OwnerID)
	} else {
		if name := strings.TrimSpace(profile.FullNameEN); name != "" {
			data.StudentName = name
		}
		data.StudentPhoto = profile.PhotoURL
	}

	layout, ok := templatemodels.ParseLayoutConfig(record.LayoutConfig)
	if !ok || layout == nil {
		layout = []templatemodels.LayoutElement{}
	}

	return &models.VerificationPayload{
		CertificateData: data,
		LayoutConfig:    layout,
	}
}

// ListOwnerCertificates returns the certificate summaries owned by personID.
func (s *Service) ListOwnerCertificates(ctx context.Context, personID string) ([]models.CertificateSummary, error) {
	if personID == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "person id is required")
	}
	return s.store.ListByOwner(ctx, personID)
}
