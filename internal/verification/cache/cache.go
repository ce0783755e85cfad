// Package cache stores normalized verification payloads keyed by verify code.
//
// Cached values are schema-guarded: a stored blob must contain both the
// certificate_data and layout_config top-level keys, otherwise it predates
// the current payload shape and is treated as a miss. This lets the payload
// shape evolve without a manual flush of existing entries.
package cache

import (
	"context"
	"encoding/json"

	"certverify/internal/verification/models"
	dErrors "certverify/pkg/domain-errors"
)

// KeyPrefix namespaces verification entries in the shared cache store.
const KeyPrefix = "cert_verify:"

// ErrMiss is returned when no cached payload exists for the code.
var ErrMiss = dErrors.New(dErrors.CodeNotFound, "verification cache miss")

// ErrStaleShape is returned when a cached value exists but fails the schema
// guard. Callers treat it like a miss; the next write overwrites the entry.
var ErrStaleShape = dErrors.New(dErrors.CodeNotFound, "cached payload shape is stale")

// Cache is a TTL-bounded payload store.
type Cache interface {
	Get(ctx context.Context, code string) (*models.VerificationPayload, error)
	Set(ctx context.Context, code string, payload *models.VerificationPayload) error
}

func cacheKey(code string) string {
	return KeyPrefix + code
}

// decodePayload applies the schema guard and deserializes a cached blob.
func decodePayload(data []byte) (*models.VerificationPayload, error) {
	var shape map[string]json.RawMessage
	if err := json.Unmarshal(data, &shape); err != nil {
		return nil, ErrStaleShape
	}
	if _, ok := shape["certificate_data"]; !ok {
		return nil, ErrStaleShape
	}
	if _, ok := shape["layout_config"]; !ok {
		return nil, ErrStaleShape
	}

	var payload models.VerificationPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, ErrStaleShape
	}
	return &payload, nil
}
