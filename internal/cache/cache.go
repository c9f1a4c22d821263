// Package cache provides a bounded in-memory key/value store with per-entry
// TTL. Expiry is checked lazily on read; there is no background sweeper.
// When the store is full, inserting a new key evicts the entry that arrived
// first, regardless of its remaining TTL.
package cache

import (
	"sync"
	"time"
)

type entry[V any] struct {
	value     V
	createdAt time.Time
	ttl       time.Duration
}

// Cache is safe for concurrent use. A single mutex guards the whole
// structure; contention is expected to be low.
type Cache[V any] struct {
	mu      sync.Mutex
	entries map[string]entry[V]
	order   []string // arrival order of currently-tracked keys
	maxSize int
	now     func() time.Time
}

// creates a cache holding at most maxSize entries
func New[V any](maxSize int) *Cache[V] {
	if maxSize < 1 {
		maxSize = 1
	}

	return &Cache[V]{
		entries: make(map[string]entry[V]),
		maxSize: maxSize,
		now:     time.Now,
	}
}

// stores or overwrites an entry, stamped with the current time.
// If the cache is at capacity and key is new, the first-inserted entry
// still tracked is evicted before inserting.
func (c *Cache[V]) Set(key string, value V, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, exists := c.entries[key]

	if !exists && len(c.entries) >= c.maxSize {
		c.evictOldest()
	}

	c.entries[key] = entry[V]{
		value:     value,
		createdAt: c.now(),
		ttl:       ttl,
	}

	// overwrites keep their original arrival position. A key that was
	// lazily expired and is now re-inserted gets a fresh position, so any
	// stale occurrence must go first.
	if !exists {
		c.removeFromOrder(key)
		c.order = append(c.order, key)
	}
}

// returns the value for key if present and not expired. Expired entries are
// removed as a side effect. A miss is a normal return, never an error.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V

	e, ok := c.entries[key]
	if !ok {
		return zero, false
	}

	if c.now().Sub(e.createdAt) > e.ttl {
		delete(c.entries, key)
		return zero, false
	}

	return e.value, true
}

// empties the cache
func (c *Cache[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]entry[V])
	c.order = nil
}

// returns the live entry count without pruning expired entries, so it may
// overcount until stale entries are next read
func (c *Cache[V]) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.entries)
}

// Stats reports current occupancy for observability endpoints.
func (c *Cache[V]) Stats() (size, maxSize int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.entries), c.maxSize
}

func (c *Cache[V]) removeFromOrder(key string) {
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			return
		}
	}
}

// removes the earliest-arrived key still present. Order entries whose keys
// were already removed by lazy expiry are skipped and discarded.
func (c *Cache[V]) evictOldest() {
	for len(c.order) > 0 {
		oldest := c.order[0]
		c.order = c.order[1:]

		if _, ok := c.entries[oldest]; ok {
			delete(c.entries, oldest)
			return
		}
	}
}
