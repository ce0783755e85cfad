package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"certverify/internal/platform/config"
)

// An empty URL means "not configured", not an error. Callers must nil-check
// the returned pool before use.
func TestNewWithoutURLReturnsNilPool(t *testing.T) {
	pool, err := New(config.DatabaseConfig{})

	require.NoError(t, err)
	assert.Nil(t, pool)
}
