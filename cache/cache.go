// Package cache provides a concurrency-safe in-memory cache whose entries
// expire a fixed duration after they were written.
//
// Expired entries are removed lazily when they are read. Prune can be called
// periodically to drop entries that are written once and never read again.
package cache

import (
	"sync"
	"time"
)

// DefaultTTL is the lifetime of an entry when none is configured.
const DefaultTTL = time.Hour

// entry is a cached value and the time it was stored
type entry struct {
	value      any
	insertedAt time.Time
}

// Cache maps keys to values for a fixed time-to-live
type Cache struct {
	ttl     time.Duration
	entries map[string]entry
	mu      sync.RWMutex

	now func() time.Time
}

// New creates a cache whose entries live for ttl. A non-positive ttl falls
// back to DefaultTTL.
func New(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return &Cache{
		ttl:     ttl,
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// TTL returns the configured time-to-live
func (c *Cache) TTL() time.Duration {
	return c.ttl
}

// Get returns the value stored under key. An entry older than the TTL is
// evicted and reported as missing.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return nil, false
	}

	if c.now().Sub(e.insertedAt) > c.ttl {
		c.mu.Lock()
		// Re-check under the write lock: a concurrent Set may have refreshed it.
		if cur, ok := c.entries[key]; ok && cur.insertedAt.Equal(e.insertedAt) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return nil, false
	}

	return e.value, true
}

// Set stores value under key, replacing any previous entry
func (c *Cache) Set(key string, value any) {
	c.mu.Lock()
	c.entries[key] = entry{value: value, insertedAt: c.now()}
	c.mu.Unlock()
}

// Delete removes key from the cache
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// Clear removes all entries
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]entry)
}

// Len returns the number of stored entries, expired or not
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}

// Prune removes every expired entry and returns how many were dropped
func (c *Cache) Prune() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for key, e := range c.entries {
		if now.Sub(e.insertedAt) > c.ttl {
			delete(c.entries, key)
			removed++
		}
	}

	return removed
}
