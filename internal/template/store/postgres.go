package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"certverify/internal/template/models"
	dErrors "certverify/pkg/domain-errors"
)

// PostgresStore persists templates in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, template *models.Template) error {
	layout, err := json.Marshal(template.LayoutConfig)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "marshal layout config")
	}

	query := `
		INSERT INTO certificate_templates (id, name, description, layout_config, created_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err = s.db.ExecContext(ctx, query,
		template.ID, template.Name, template.Description, layout, template.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return ErrDuplicateName
		}
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "insert template")
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Template, error) {
	query := `
		SELECT id, name, description, layout_config, created_at
		FROM certificate_templates
		WHERE id = $1`

	return s.scanTemplate(s.db.QueryRowContext(ctx, query, id))
}

func (s *PostgresStore) List(ctx context.Context) ([]*models.Template, error) {
	query := `
		SELECT id, name, description, layout_config, created_at
		FROM certificate_templates
		ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "list templates")
	}
	defer rows.Close()

	var templates []*models.Template
	for rows.Next() {
		template, err := s.scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		templates = append(templates, template)
	}
	if err := rows.Err(); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "iterate templates")
	}
	return templates, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (s *PostgresStore) scanTemplate(row rowScanner) (*models.Template, error) {
	var template models.Template
	var layout []byte

	err := row.Scan(&template.ID, &template.Name, &template.Description, &layout, &template.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "scan template")
	}

	// A layout written by this service is always list-shaped; anything else
	// degrades to an empty layout rather than failing the read.
	if elements, ok := models.ParseLayoutConfig(layout); ok {
		template.LayoutConfig = elements
	} else {
		template.LayoutConfig = []models.LayoutElement{}
	}
	return &template, nil
}
