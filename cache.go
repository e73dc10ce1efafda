package main

import (
	"sync"
	"time"
)

// defaultCacheTTL is how long a cached payload counts as fresh.
const defaultCacheTTL = 5 * time.Minute

// cacheEntry pairs a payload with the time it was fetched.
type cacheEntry[T any] struct {
	payload   T
	fetchedAt time.Time
}

// freshnessCache is a time-boxed in-process cache. Get only returns entries
// younger than the TTL; GetStale ignores the TTL and exists for the offline
// path — serving the last known payload when a live fetch fails beats showing
// nothing. Stale reads are acceptable by design; there is no
// invalidation-on-write guarantee beyond Invalidate and the TTL itself.
type freshnessCache[T any] struct {
	mu      sync.RWMutex
	ttl     time.Duration
	now     func() time.Time // injectable for tests
	entries map[string]cacheEntry[T]
}

// newFreshnessCache creates a cache with the given TTL; ttl <= 0 means the
// 5-minute default.
func newFreshnessCache[T any](ttl time.Duration) *freshnessCache[T] {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &freshnessCache[T]{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]cacheEntry[T]),
	}
}

// Get returns the cached payload if it is still fresh. A false return means
// the caller should refetch.
func (c *freshnessCache[T]) Get(key string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	if !ok || c.now().Sub(e.fetchedAt) >= c.ttl {
		var zero T
		return zero, false
	}
	return e.payload, true
}

// GetStale returns the cached payload regardless of age. Offline fallback
// only — callers must have already tried a live fetch.
func (c *freshnessCache[T]) GetStale(key string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	if !ok {
		var zero T
		return zero, false
	}
	return e.payload, true
}

// Set stores a payload fetched now, replacing any previous entry.
func (c *freshnessCache[T]) Set(key string, v T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry[T]{payload: v, fetchedAt: c.now()}
}

// Invalidate drops an entry immediately.
func (c *freshnessCache[T]) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}
