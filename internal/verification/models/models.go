package models

import (
	"time"

	templatemodels "certverify/internal/template/models"
)

// Placeholder values substituted when an enrichment source cannot resolve.
// Certificate existence in the relational store is the authoritative signal;
// everything else degrades instead of failing the verification.
const (
	PlaceholderStudentName = "Unknown"
	PlaceholderGeneration  = "N/A"
	DefaultTargetRole      = "STUDENT"
)

// Date marshals as YYYY-MM-DD.
type Date struct {
	time.Time
}

const dateLayout = "2006-01-02"

func NewDate(t time.Time) Date {
	return Date{Time: t}
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(dateLayout) + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' {
		s = s[1 : len(s)-1]
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// TopicDetail is one curriculum topic, ordered by SortOrder.
type TopicDetail struct {
	Name      string `json:"name"`
	SortOrder int    `json:"sort_order"`
}

// SubjectDetail describes the course a certificate was issued for.
type SubjectDetail struct {
	ID     string        `json:"id"`
	Name   string        `json:"name"`
	Level  string        `json:"level"`
	Topics []TopicDetail `json:"topics"`
}

// CertificateData is the flattened, display-ready half of a verification
// payload.
type CertificateData struct {
	CertificateNumber string         `json:"certificate_number"`
	IssuedDate        Date           `json:"issued_date"`
	VerifyCode        string         `json:"verify_code"`
	TargetRole        string         `json:"target_role"`
	SubjectDetail     *SubjectDetail `json:"subject_detail"`
	StudentName       string         `json:"student_name"`
	StudentPhoto      *string        `json:"student_photo"`
	GenerationName    string         `json:"generation_name"`
}

// VerificationPayload is the unit cached and returned to verifiers. Its shape
// is versioned implicitly: a cached value missing either top-level key is
// treated as stale and refetched.
type VerificationPayload struct {
	CertificateData CertificateData                `json:"certificate_data"`
	LayoutConfig    []templatemodels.LayoutElement `json:"layout_config"`
}

// CertificateSummary is a row in an owner's certificate listing.
type CertificateSummary struct {
	CertificateNumber string  `json:"certificate_number"`
	VerifyCode        string  `json:"verify_code"`
	IssuedDate        Date    `json:"issued_date"`
	TypeName          *string `json:"type_name"`
}
