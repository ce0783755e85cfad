package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"certverify/internal/verifylog/models"
	dErrors "certverify/pkg/domain-errors"
)

// PostgresStore writes verification log entries with a single multi-row
// insert per batch, unnesting parallel arrays server-side.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) InsertBatch(ctx context.Context, entries []models.Entry) error {
	if len(entries) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, len(entries))
	codes := make([]string, len(entries))
	results := make([]string, len(entries))
	clientIPs := make([]string, len(entries))
	userAgents := make([]string, len(entries))
	devices := make([]string, len(entries))
	createdAts := make([]time.Time, len(entries))
	for i, entry := range entries {
		ids[i] = entry.ID
		codes[i] = entry.VerifyCode
		results[i] = entry.Result
		clientIPs[i] = entry.ClientIP
		userAgents[i] = entry.UserAgent
		devices[i] = entry.DeviceSummary
		createdAts[i] = entry.CreatedAt
	}

	query := `
		INSERT INTO certificate_verification_logs
			(id, verify_code, result, client_ip, user_agent, device_summary, created_at)
		SELECT * FROM unnest(
			$1::uuid[], $2::text[], $3::text[], $4::text[], $5::text[], $6::text[], $7::timestamptz[])`

	_, err := s.db.ExecContext(ctx, query,
		pq.Array(ids), pq.Array(codes), pq.Array(results),
		pq.Array(clientIPs), pq.Array(userAgents), pq.Array(devices),
		pq.Array(createdAts))
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "insert verification logs")
	}
	return nil
}
