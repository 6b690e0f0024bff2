// ABOUTME: In-process embedding cache with per-entry expiry
// ABOUTME: Expired entries are evicted lazily when read
package cache

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	vec     []float64
	expires time.Time
}

// MemoryCache is a mutex-guarded map cache
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryCache creates an empty MemoryCache
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

// Get returns a copy of the cached vector
func (c *MemoryCache) Get(_ context.Context, key string) ([]float64, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false, nil
	}
	if !e.expires.IsZero() && !c.now().Before(e.expires) {
		delete(c.entries, key)
		return nil, false, nil
	}
	out := make([]float64, len(e.vec))
	copy(out, e.vec)
	return out, true, nil
}

// Set stores a copy of vec. A non-positive ttl never expires.
func (c *MemoryCache) Set(_ context.Context, key string, vec []float64, ttl time.Duration) error {
	stored := make([]float64, len(vec))
	copy(stored, vec)

	c.mu.Lock()
	defer c.mu.Unlock()

	e := memoryEntry{vec: stored}
	if ttl > 0 {
		e.expires = c.now().Add(ttl)
	}
	c.entries[key] = e
	return nil
}

// Len returns the number of entries, including expired ones not yet evicted
func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Close drops every entry
func (c *MemoryCache) Close() error {
	c.mu.Lock()
	c.entries = make(map[string]memoryEntry)
	c.mu.Unlock()
	return nil
}
