package models

import (
	"time"

	"github.com/google/uuid"
)

// Verification outcomes recorded per request.
const (
	ResultSuccess     = "success"
	ResultNotFound    = "not_found"
	ResultUnavailable = "unavailable"
	ResultInvalid     = "invalid"
)

// Entry is one recorded verification attempt. Entries are observational:
// losing one under backpressure is acceptable, slowing a verification is not.
type Entry struct {
	ID            uuid.UUID
	VerifyCode    string
	Result        string
	ClientIP      string
	UserAgent     string
	DeviceSummary string
	CreatedAt     time.Time
}
