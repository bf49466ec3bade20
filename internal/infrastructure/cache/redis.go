// Package cache provides TextCache backends for structured transcripts.
package cache

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/hszk-dev/mediamind/internal/domain/repository"
	"github.com/hszk-dev/mediamind/internal/infrastructure/metrics"
)

// RedisTextCache implements repository.TextCache using Redis as the backing store.
type RedisTextCache struct {
	client *redis.Client
}

// NewRedisTextCache creates a new Redis-backed text cache.
func NewRedisTextCache(client *redis.Client) *RedisTextCache {
	return &RedisTextCache{
		client: client,
	}
}

// Get retrieves text from Redis. A missing or empty value is a miss.
func (c *RedisTextCache) Get(ctx context.Context, key string) (string, bool, error) {
	text, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpGet, metrics.CacheStatusMiss, metrics.CacheTypeRedis).Inc()
			return "", false, nil
		}
		metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpGet, metrics.CacheStatusError, metrics.CacheTypeRedis).Inc()
		return "", false, fmt.Errorf("%w: redis get: %v", repository.ErrCacheAccess, err)
	}

	if text == "" {
		metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpGet, metrics.CacheStatusMiss, metrics.CacheTypeRedis).Inc()
		return "", false, nil
	}

	metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpGet, metrics.CacheStatusHit, metrics.CacheTypeRedis).Inc()
	return text, true, nil
}

// Put stores text without expiry, overwriting any existing value.
func (c *RedisTextCache) Put(ctx context.Context, key, text string) error {
	if err := c.client.Set(ctx, key, text, 0).Err(); err != nil {
		metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpSet, metrics.CacheStatusError, metrics.CacheTypeRedis).Inc()
		return fmt.Errorf("%w: redis set: %v", repository.ErrCacheAccess, err)
	}

	metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpSet, metrics.CacheStatusSuccess, metrics.CacheTypeRedis).Inc()
	return nil
}
