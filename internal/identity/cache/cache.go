// Package cache stores directory profile snapshots with a freshness window so
// repeated verifications do not hammer the identity directory.
package cache

import (
	"context"

	"certverify/internal/identity/models"
	dErrors "certverify/pkg/domain-errors"
)

// KeyPrefix namespaces profile entries in the shared cache store.
const KeyPrefix = "user_cache:"

// ErrMiss is returned when no cached profile exists for the person.
var ErrMiss = dErrors.New(dErrors.CodeNotFound, "profile cache miss")

// Cache is a TTL-bounded profile store.
type Cache interface {
	Get(ctx context.Context, personID string) (*models.Profile, error)
	Set(ctx context.Context, personID string, profile *models.Profile) error
}

func cacheKey(personID string) string {
	return KeyPrefix + personID
}
