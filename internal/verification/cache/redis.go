package cache

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/redis/go-redis/v9"

	"certverify/internal/platform/config"
	"certverify/internal/verification/models"
	dErrors "certverify/pkg/domain-errors"
)

// RedisCache stores verification payloads in Redis with the verification TTL.
type RedisCache struct {
	client *redis.Client
}

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

func (c *RedisCache) Get(ctx context.Context, code string) (*models.VerificationPayload, error) {
	data, err := c.client.Get(ctx, cacheKey(code)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "verification cache read")
	}
	return decodePayload(data)
}

func (c *RedisCache) Set(ctx context.Context, code string, payload *models.VerificationPayload) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "marshal verification payload")
	}
	if err := c.client.Set(ctx, cacheKey(code), data, config.VerificationCacheTTL).Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "verification cache write")
	}
	return nil
}
