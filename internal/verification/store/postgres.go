package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"certverify/internal/verification/models"
	dErrors "certverify/pkg/domain-errors"
)

// PostgresStore reads certificates and their joined enrichment rows from
// PostgreSQL. Every join is a LEFT JOIN: a certificate with a dangling type,
// subject, or owner reference still verifies.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) FindByVerifyCode(ctx context.Context, code string) (*Record, error) {
	query := `
		SELECT c.id, c.certificate_number, c.verify_code, c.issued_date, c.owner_id,
		       ct.target_role, g.name, s.id, s.name, s.level, tpl.layout_config
		FROM certificates c
		LEFT JOIN certificate_types ct ON ct.id = c.type_id
		LEFT JOIN certificate_templates tpl ON tpl.id = ct.template_id
		LEFT JOIN subjects s ON s.id = c.subject_id
		LEFT JOIN users u ON u.id = c.owner_id
		LEFT JOIN generations g ON g.id = u.generation_id
		WHERE c.verify_code = $1`

	var record Record
	var targetRole, generationName sql.NullString
	var subjectID uuid.NullUUID
	var subjectName, subjectLevel sql.NullString
	var layout []byte

	err := s.db.QueryRowContext(ctx, query, code).Scan(
		&record.ID, &record.CertificateNumber, &record.VerifyCode,
		&record.IssuedDate, &record.OwnerID,
		&targetRole, &generationName,
		&subjectID, &subjectName, &subjectLevel, &layout)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "query certificate")
	}

	if targetRole.Valid {
		record.TargetRole = &targetRole.String
	}
	if generationName.Valid {
		record.GenerationName = &generationName.String
	}
	record.LayoutConfig = layout

	if subjectID.Valid {
		topics, err := s.findTopics(ctx, subjectID.UUID)
		if err != nil {
			return nil, err
		}
		record.Subject = &SubjectRecord{
			ID:     subjectID.UUID,
			Name:   subjectName.String,
			Level:  subjectLevel.String,
			Topics: topics,
		}
	}
	return &record, nil
}

func (s *PostgresStore) findTopics(ctx context.Context, subjectID uuid.UUID) ([]models.TopicDetail, error) {
	query := `
		SELECT name, sort_order
		FROM topics
		WHERE subject_id = $1
		ORDER BY sort_order, name`

	rows, err := s.db.QueryContext(ctx, query, subjectID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "query topics")
	}
	defer rows.Close()

	topics := []models.TopicDetail{}
	for rows.Next() {
		var topic models.TopicDetail
		if err := rows.Scan(&topic.Name, &topic.SortOrder); err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "scan topic")
		}
		topics = append(topics, topic)
	}
	if err := rows.Err(); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "iterate topics")
	}
	return topics, nil
}

func (s *PostgresStore) ListByOwner(ctx context.Context, ownerID string) ([]models.CertificateSummary, error) {
	query := `
		SELECT c.certificate_number, c.verify_code, c.issued_date, ct.name
		FROM certificates c
		LEFT JOIN certificate_types ct ON ct.id = c.type_id
		WHERE c.owner_id = $1
		ORDER BY c.issued_date DESC, c.certificate_number`

	rows, err := s.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "list certificates")
	}
	defer rows.Close()

	summaries := []models.CertificateSummary{}
	for rows.Next() {
		var summary models.CertificateSummary
		var issued sql.NullTime
		var typeName sql.NullString
		if err := rows.Scan(&summary.CertificateNumber, &summary.VerifyCode, &issued, &typeName); err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "scan certificate summary")
		}
		if issued.Valid {
			summary.IssuedDate = models.NewDate(issued.Time)
		}
		if typeName.Valid {
			summary.TypeName = &typeName.String
		}
		summaries = append(summaries, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "iterate certificate summaries")
	}
	return summaries, nil
}
