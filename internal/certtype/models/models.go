package models

import (
	"time"

	"github.com/google/uuid"

	dErrors "certverify/pkg/domain-errors"
)

// Target roles a certificate type can be issued for.
const (
	TargetRoleStudent = "STUDENT"
	TargetRoleStaff   = "STAFF"
)

// CertificateType classifies certificates ("Graduation", "Short Course") and
// binds them to a render template and an audience role.
type CertificateType struct {
	ID         uuid.UUID
	Name       string
	Category   string
	TargetRole string
	TemplateID *uuid.UUID
	CreatedAt  time.Time
}

// ValidTargetRole reports whether role is one of the supported audiences.
func ValidTargetRole(role string) bool {
	return role == TargetRoleStudent || role == TargetRoleStaff
}

// Validate checks the invariants a certificate type must hold before persisting.
func (t *CertificateType) Validate() error {
	if t.Name == "" {
		return dErrors.New(dErrors.CodeValidation, "certificate type name is required")
	}
	if !ValidTargetRole(t.TargetRole) {
		return dErrors.New(dErrors.CodeValidation, "target role must be STUDENT or STAFF")
	}
	return nil
}
