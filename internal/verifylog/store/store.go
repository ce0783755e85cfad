package store

import (
	"context"

	"certverify/internal/verifylog/models"
)

// Store persists verification log entries in batches.
type Store interface {
	InsertBatch(ctx context.Context, entries []models.Entry) error
}
