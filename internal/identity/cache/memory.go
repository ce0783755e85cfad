package cache

import (
	"context"
	"sync"
	"time"

	"certverify/internal/identity/models"
	"certverify/internal/platform/config"
)

type memoryEntry struct {
	profile   models.Profile
	expiresAt time.Time
}

// MemoryCache is an in-process Cache for tests.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (c *MemoryCache) Get(_ context.Context, personID string) (*models.Profile, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.entries[cacheKey(personID)]
	if !ok || c.now().After(entry.expiresAt) {
		return nil, ErrMiss
	}
	profile := entry.profile
	return &profile, nil
}

func (c *MemoryCache) Set(_ context.Context, personID string, profile *models.Profile) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[cacheKey(personID)] = memoryEntry{
		profile:   *profile,
		expiresAt: c.now().Add(config.ProfileCacheTTL),
	}
	return nil
}
