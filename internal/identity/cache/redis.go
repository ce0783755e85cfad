package cache

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/redis/go-redis/v9"

	"certverify/internal/identity/models"
	"certverify/internal/platform/config"
	dErrors "certverify/pkg/domain-errors"
)

// RedisCache stores profiles in Redis with the profile TTL.
type RedisCache struct {
	client *redis.Client
}

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

func (c *RedisCache) Get(ctx context.Context, personID string) (*models.Profile, error) {
	data, err := c.client.Get(ctx, cacheKey(personID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "profile cache read")
	}

	var profile models.Profile
	if err := json.Unmarshal(data, &profile); err != nil {
		// A corrupt entry is indistinguishable from a miss to callers.
		return nil, ErrMiss
	}
	return &profile, nil
}

func (c *RedisCache) Set(ctx context.Context, personID string, profile *models.Profile) error {
	data, err := json.Marshal(profile)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "marshal profile")
	}
	if err := c.client.Set(ctx, cacheKey(personID), data, config.ProfileCacheTTL).Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "profile cache write")
	}
	return nil
}
