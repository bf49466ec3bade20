package cache

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/hszk-dev/mediamind/internal/domain/repository"
	"github.com/hszk-dev/mediamind/internal/infrastructure/metrics"
)

const (
	objectKeyPrefix   = "text-cache/"
	objectContentType = "text/markdown; charset=utf-8"
)

// ObjectTextCache implements repository.TextCache on top of object storage.
// Each entry is one object named after the cache key.
type ObjectTextCache struct {
	storage repository.ObjectStorage
}

// NewObjectTextCache creates a text cache backed by storage.
func NewObjectTextCache(storage repository.ObjectStorage) *ObjectTextCache {
	return &ObjectTextCache{storage: storage}
}

// Get downloads the entry. A missing or empty object is a miss.
func (c *ObjectTextCache) Get(ctx context.Context, key string) (string, bool, error) {
	rc, err := c.storage.Download(ctx, c.objectKey(key))
	if err != nil {
		if errors.Is(err, repository.ErrObjectNotFound) {
			metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpGet, metrics.CacheStatusMiss, metrics.CacheTypeObject).Inc()
			return "", false, nil
		}
		metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpGet, metrics.CacheStatusError, metrics.CacheTypeObject).Inc()
		return "", false, fmt.Errorf("%w: %v", repository.ErrCacheAccess, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpGet, metrics.CacheStatusError, metrics.CacheTypeObject).Inc()
		return "", false, fmt.Errorf("%w: read object: %v", repository.ErrCacheAccess, err)
	}

	if len(data) == 0 {
		metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpGet, metrics.CacheStatusMiss, metrics.CacheTypeObject).Inc()
		return "", false, nil
	}

	metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpGet, metrics.CacheStatusHit, metrics.CacheTypeObject).Inc()
	return string(data), true, nil
}

// Put uploads text, replacing any existing object.
func (c *ObjectTextCache) Put(ctx context.Context, key, text string) error {
	err := c.storage.Upload(ctx, c.objectKey(key), strings.NewReader(text), int64(len(text)), objectContentType)
	if err != nil {
		metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpSet, metrics.CacheStatusError, metrics.CacheTypeObject).Inc()
		return fmt.Errorf("%w: %v", repository.ErrCacheAccess, err)
	}

	metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpSet, metrics.CacheStatusSuccess, metrics.CacheTypeObject).Inc()
	return nil
}

func (c *ObjectTextCache) objectKey(key string) string {
	return objectKeyPrefix + key
}
