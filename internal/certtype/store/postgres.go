package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"certverify/internal/certtype/models"
	dErrors "certverify/pkg/domain-errors"
)

// PostgresStore persists certificate types in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, certType *models.CertificateType) error {
	query := `
		INSERT INTO certificate_types (id, name, category, target_role, template_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := s.db.ExecContext(ctx, query,
		certType.ID, certType.Name, certType.Category, certType.TargetRole,
		certType.TemplateID, certType.CreatedAt)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "insert certificate type")
	}
	return nil
}

func (s *PostgresStore) Update(ctx context.Context, certType *models.CertificateType) error {
	query := `
		UPDATE certificate_types
		SET name = $2, category = $3, target_role = $4, template_id = $5
		WHERE id = $1`

	res, err := s.db.ExecContext(ctx, query,
		certType.ID, certType.Name, certType.Category, certType.TargetRole, certType.TemplateID)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "update certificate type")
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "update certificate type")
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM certificate_types WHERE id = $1`, id)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "delete certificate type")
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "delete certificate type")
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id uuid.UUID) (*models.CertificateType, error) {
	query := `
		SELECT id, name, category, target_role, template_id, created_at
		FROM certificate_types
		WHERE id = $1`

	var certType models.CertificateType
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&certType.ID, &certType.Name, &certType.Category, &certType.TargetRole,
		&certType.TemplateID, &certType.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "find certificate type")
	}
	return &certType, nil
}

func (s *PostgresStore) List(ctx context.Context) ([]*models.CertificateType, error) {
	query := `
		SELECT id, name, category, target_role, template_id, created_at
		FROM certificate_types
		ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "list certificate types")
	}
	defer rows.Close()

	var certTypes []*models.CertificateType
	for rows.Next() {
		var certType models.CertificateType
		if err := rows.Scan(
			&certType.ID, &certType.Name, &certType.Category, &certType.TargetRole,
			&certType.TemplateID, &certType.CreatedAt); err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "scan certificate type")
		}
		certTypes = append(certTypes, &certType)
	}
	if err := rows.Err(); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "iterate certificate types")
	}
	return certTypes, nil
}
