// Package directory talks to the external identity directory (a Keycloak
// admin API) and normalizes its user representation into a Profile.
package directory

import (
	"context"

	"certverify/internal/identity/models"
	dErrors "certverify/pkg/domain-errors"
)

// ErrNotFound is returned when the directory has no user for the identifier.
var ErrNotFound = dErrors.New(dErrors.CodeNotFound, "profile not found in directory")

// ErrPermissionDenied is returned when the directory rejects this service's
// credentials. It signals an operational misconfiguration, not a missing
// record, and callers alert on it rather than retry.
var ErrPermissionDenied = dErrors.New(dErrors.CodeIdentityConfig, "directory denied access")

// Directory fetches person profiles from the identity provider.
type Directory interface {
	FetchProfile(ctx context.Context, personID string) (*models.Profile, error)
}
