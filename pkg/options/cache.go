// Package options resolves dropdown option lists for fields whose choices
// are not statically known, with time-bounded caching and fail-soft
// degradation: resolution problems yield empty option lists, never errors.
package options

import (
	"sync"
	"time"
)

// Clock supplies the current time; injected so tests control expiry.
type Clock func() time.Time

// Set is one resolved option list with its fetch time.
type Set struct {
	Key       string
	Options   []string
	FetchedAt time.Time
}

// Cache is a TTL-bounded option-set cache with get/put/expire semantics.
type Cache struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     Clock
	entries map[string]Set
}

// NewCache creates a cache. A nil clock uses time.Now.
func NewCache(ttl time.Duration, now Clock) *Cache {
	if now == nil {
		now = time.Now
	}
	return &Cache{ttl: ttl, now: now, entries: map[string]Set{}}
}

// Get returns the cached options for key if present and fresh.
func (c *Cache) Get(key string) ([]string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().Sub(e.FetchedAt) > c.ttl {
		delete(c.entries, key)
		return nil, false
	}
	return e.Options, true
}

// Put stores options for key, stamping the fetch time.
func (c *Cache) Put(key string, opts []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = Set{Key: key, Options: opts, FetchedAt: c.now()}
}

// Expire removes key regardless of freshness.
func (c *Cache) Expire(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}
