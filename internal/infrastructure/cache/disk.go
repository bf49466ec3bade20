package cache

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"github.com/hszk-dev/mediamind/internal/domain/repository"
	"github.com/hszk-dev/mediamind/internal/infrastructure/metrics"
)

const lockRetryDelay = 50 * time.Millisecond

// DiskTextCache implements repository.TextCache as one file per key in a
// directory. Writes go through a temp file and rename, and a per-key file
// lock serializes writers across processes sharing the directory.
type DiskTextCache struct {
	dir string
}

// NewDiskTextCache creates the cache directory if needed.
func NewDiskTextCache(dir string) (*DiskTextCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}

	return &DiskTextCache{dir: abs}, nil
}

// Get reads the entry under a shared lock. A missing or empty file is a miss.
func (c *DiskTextCache) Get(ctx context.Context, key string) (string, bool, error) {
	lock := flock.New(c.lockPath(key))
	locked, err := lock.TryRLockContext(ctx, lockRetryDelay)
	if err != nil || !locked {
		metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpGet, metrics.CacheStatusError, metrics.CacheTypeDisk).Inc()
		return "", false, fmt.Errorf("%w: lock %s: %v", repository.ErrCacheAccess, key, err)
	}
	defer lock.Unlock()

	data, err := os.ReadFile(c.dataPath(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpGet, metrics.CacheStatusMiss, metrics.CacheTypeDisk).Inc()
			return "", false, nil
		}
		metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpGet, metrics.CacheStatusError, metrics.CacheTypeDisk).Inc()
		return "", false, fmt.Errorf("%w: read %s: %v", repository.ErrCacheAccess, key, err)
	}

	if len(data) == 0 {
		metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpGet, metrics.CacheStatusMiss, metrics.CacheTypeDisk).Inc()
		return "", false, nil
	}

	metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpGet, metrics.CacheStatusHit, metrics.CacheTypeDisk).Inc()
	return string(data), true, nil
}

// Put writes the entry under an exclusive lock.
func (c *DiskTextCache) Put(ctx context.Context, key, text string) error {
	if err := c.put(ctx, key, text); err != nil {
		metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpSet, metrics.CacheStatusError, metrics.CacheTypeDisk).Inc()
		return fmt.Errorf("%w: %v", repository.ErrCacheAccess, err)
	}

	metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpSet, metrics.CacheStatusSuccess, metrics.CacheTypeDisk).Inc()
	return nil
}

func (c *DiskTextCache) put(ctx context.Context, key, text string) error {
	lock := flock.New(c.lockPath(key))
	locked, err := lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return fmt.Errorf("lock %s: %w", key, err)
	}
	if !locked {
		return fmt.Errorf("lock %s: not acquired", key)
	}
	defer lock.Unlock()

	dataPath := c.dataPath(key)
	tmp, err := os.CreateTemp(c.dir, filepath.Base(dataPath)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	_, err = tmp.WriteString(text)
	closeErr := tmp.Close()
	if err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if closeErr != nil {
		return fmt.Errorf("close temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, dataPath); err != nil {
		return fmt.Errorf("rename cache file: %w", err)
	}

	return nil
}

// Cache keys only contain [A-Za-z0-9._-], so they are safe file names.
func (c *DiskTextCache) dataPath(key string) string {
	return filepath.Join(c.dir, key+".md")
}

func (c *DiskTextCache) lockPath(key string) string {
	return filepath.Join(c.dir, key+".lock")
}
