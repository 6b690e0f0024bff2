// ABOUTME: Embedding cache abstraction shared by the memory and redis backends
// ABOUTME: A miss is reported as ok=false, never as an error
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/harper/course-recommender/internal/config"
)

// Cache stores embedding vectors under opaque keys
type Cache interface {
	Get(ctx context.Context, key string) ([]float64, bool, error)
	Set(ctx context.Context, key string, vec []float64, ttl time.Duration) error
	Close() error
}

// New builds the cache selected by cfg.CacheBackend. It returns nil for "none".
func New(ctx context.Context, cfg *config.Config) (Cache, error) {
	switch cfg.CacheBackend {
	case config.CacheNone, "":
		return nil, nil
	case config.CacheMemory:
		return NewMemoryCache(), nil
	case config.CacheRedis:
		rc, err := NewRedisCache(ctx, RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return nil, err
		}
		return rc, nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.CacheBackend)
	}
}
