package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"certverify/internal/platform/config"
	"certverify/internal/verification/models"
	dErrors "certverify/pkg/domain-errors"
)

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

// MemoryCache is an in-process Cache for tests. It stores serialized blobs so
// the schema guard is exercised the same way as with Redis, and raw entries
// (legacy shapes) can be seeded directly. Fail, when set, makes every
// operation return it.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
	Fail    error
	Writes  int
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

// SeedRaw stores an arbitrary blob under the code's key, bypassing
// serialization. Tests use it to plant legacy-shaped entries.
func (c *MemoryCache) SeedRaw(code string, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[cacheKey(code)] = memoryEntry{
		data:      data,
		expiresAt: c.now().Add(config.VerificationCacheTTL),
	}
}

// Has reports whether any entry exists for the code, regardless of shape.
func (c *MemoryCache) Has(code string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.entries[cacheKey(code)]
	return ok && c.now().Before(entry.expiresAt)
}

func (c *MemoryCache) Get(_ context.Context, code string) (*models.VerificationPayload, error) {
	c.mu.RLock()
	fail := c.Fail
	entry, ok := c.entries[cacheKey(code)]
	c.mu.RUnlock()
	if fail != nil {
		return nil, fail
	}
	if !ok || c.now().After(entry.expiresAt) {
		return nil, ErrMiss
	}
	return decodePayload(entry.data)
}

func (c *MemoryCache) Set(_ context.Context, code string, payload *models.VerificationPayload) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "marshal verification payload")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Fail != nil {
		return c.Fail
	}
	c.Writes++
	c.entries[cacheKey(code)] = memoryEntry{
		data:      data,
		expiresAt: c.now().Add(config.VerificationCacheTTL),
	}
	return nil
}
