// ABOUTME: Redis-backed embedding cache using go-redis v9
// ABOUTME: Vectors are stored as little-endian float64 blobs under a fixed prefix
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/harper/course-recommender/internal/util"
)

// KeyPrefix namespaces every cache key in redis
const KeyPrefix = "courserec:emb:"

// RedisOptions configures the redis connection
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
}

// RedisCache stores vectors in redis with per-key TTL
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache connects and pings the server
func NewRedisCache(ctx context.Context, opts RedisOptions) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         opts.Addr,
		Password:     opts.Password,
		DB:           opts.DB,
		DialTimeout:  3 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis failed: %w", err)
	}

	return &RedisCache{client: client}, nil
}

// Get fetches a vector; redis.Nil is a miss
func (c *RedisCache) Get(ctx context.Context, key string) ([]float64, bool, error) {
	raw, err := c.client.Get(ctx, KeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get embedding failed: %w", err)
	}

	vec, err := util.DecodeVector(raw)
	if err != nil {
		return nil, false, fmt.Errorf("decode cached embedding failed: %w", err)
	}
	return vec, true, nil
}

// Set stores vec under key for ttl (0 keeps it forever)
func (c *RedisCache) Set(ctx context.Context, key string, vec []float64, ttl time.Duration) error {
	if err := c.client.Set(ctx, KeyPrefix+key, util.EncodeVector(vec), ttl).Err(); err != nil {
		return fmt.Errorf("redis set embedding failed: %w", err)
	}
	return nil
}

// Close closes the redis client
func (c *RedisCache) Close() error {
	return c.client.Close()
}
