// ABOUTME: Caching decorator for any Embedder
// ABOUTME: Keys are sha1 of model and normalized text; cache failures fall through to the model
package embedding

import (
	"context"
	"crypto/sha1" // #nosec G505 -- cache key, not a security boundary
	"encoding/hex"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/harper/course-recommender/internal/cache"
	"github.com/harper/course-recommender/internal/util"
)

// CachedEmbedder serves repeated texts from a cache
type CachedEmbedder struct {
	inner  Embedder
	cache  cache.Cache
	ttl    time.Duration
	logger *log.Logger
}

// NewCachedEmbedder wraps inner. A nil cache returns inner unchanged.
func NewCachedEmbedder(inner Embedder, c cache.Cache, ttl time.Duration, logger *log.Logger) Embedder {
	if c == nil {
		return inner
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &CachedEmbedder{inner: inner, cache: c, ttl: ttl, logger: logger}
}

// CacheKey returns the cache key of text under model
func CacheKey(model, text string) string {
	sum := sha1.Sum([]byte(model + "|" + util.NormalizeText(text))) // #nosec G401
	return hex.EncodeToString(sum[:])
}

// ModelID returns the wrapped model name
func (c *CachedEmbedder) ModelID() string {
	return c.inner.ModelID()
}

// Embed returns the cached vector or computes and stores it
func (c *CachedEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	key := CacheKey(c.inner.ModelID(), text)
	if vec, ok := c.lookup(ctx, key); ok {
		return vec, nil
	}

	vec, err := c.inner.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	c.store(ctx, key, vec)
	return vec, nil
}

// EmbedBatch embeds only the cache misses, batching them when inner supports it
func (c *CachedEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	out := make([][]float64, len(texts))
	keys := make([]string, len(texts))
	var (
		missIdx   []int
		missTexts []string
	)
	for i, text := range texts {
		keys[i] = CacheKey(c.inner.ModelID(), text)
		if vec, ok := c.lookup(ctx, keys[i]); ok {
			out[i] = vec
			continue
		}
		missIdx = append(missIdx, i)
		missTexts = append(missTexts, text)
	}

	c.logger.Debug("embedding cache", "hits", len(texts)-len(missIdx), "misses", len(missIdx))
	if len(missTexts) == 0 {
		return out, nil
	}

	vecs, err := EmbedAll(ctx, c.inner, missTexts, 1)
	if err != nil {
		return nil, err
	}
	for j, i := range missIdx {
		out[i] = vecs[j]
		c.store(ctx, keys[i], vecs[j])
	}
	return out, nil
}

func (c *CachedEmbedder) lookup(ctx context.Context, key string) ([]float64, bool) {
	vec, ok, err := c.cache.Get(ctx, key)
	if err != nil {
		c.logger.Warn("embedding cache read failed", "err", err)
		return nil, false
	}
	return vec, ok
}

func (c *CachedEmbedder) store(ctx context.Context, key string, vec []float64) {
	if err := c.cache.Set(ctx, key, vec, c.ttl); err != nil {
		c.logger.Warn("embedding cache write failed", "err", err)
	}
}
