// Package resolver is the read-through profile cache in front of the identity
// directory.
package resolver

import (
	"context"
	"errors"
	"log/slog"

	"certverify/internal/identity/cache"
	"certverify/internal/identity/directory"
	"certverify/internal/identity/metrics"
	"certverify/internal/identity/models"
	dErrors "certverify/pkg/domain-errors"
)

// Resolver resolves person profiles, consulting the cache before the
// directory. Cache failures never propagate: an errored read is a miss, an
// errored write is dropped and logged.
type Resolver struct {
	cache     cache.Cache
	directory directory.Directory
	logger    *slog.Logger
	metrics   *metrics.Metrics
}

func New(cache cache.Cache, directory directory.Directory, logger *slog.Logger, metrics *metrics.Metrics) *Resolver {
	return &Resolver{cache: cache, directory: directory, logger: logger, metrics: metrics}
}

// Resolve returns the profile for personID. Directory absence is returned as
// a not-found error without caching, so a person added to the directory later
// is picked up on the next miss. Permission denial is logged at error
// severity and surfaced distinctly; callers decide whether to degrade.
func (r *Resolver) Resolve(ctx context.Context, personID string) (*models.Profile, error) {
	if profile, err := r.cache.Get(ctx, personID); err == nil {
		r.metrics.IncrementCacheHit()
		return profile, nil
	} else if !errors.Is(err, cache.ErrMiss) {
		r.logger.WarnContext(ctx, "profile cache read failed, treating as miss",
			"error", err, "person_id", personID)
	}
	r.metrics.IncrementCacheMiss()

	profile, err := r.directory.FetchProfile(ctx, personID)
	if err != nil {
		switch {
		case dErrors.HasCode(err, dErrors.CodeNotFound):
			// Absence is not cached.
		case dErrors.HasCode(err, dErrors.CodeIdentityConfig):
			r.metrics.IncrementPermissionDenied()
			r.logger.ErrorContext(ctx, "identity directory denied access",
				"error", err, "person_id", personID)
		default:
			r.metrics.IncrementDirectoryError()
			r.logger.ErrorContext(ctx, "identity directory fetch failed",
				"error", err, "person_id", personID)
		}
		return nil, err
	}

	if err := r.cache.Set(ctx, personID, profile); err != nil {
		r.logger.WarnContext(ctx, "profile cache write failed",
			"error", err, "person_id", personID)
	}
	return profile, nil
}
