package cache

import (
	"context"
	"sync"
	"time"
)

type keyedEntry[V any] struct {
	value     V
	fetchedAt time.Time
}

// Keyed memoises values per key, each with its own fetch time.
type Keyed[K comparable, V any] struct {
	opts Options

	mu      sync.RWMutex
	entries map[K]keyedEntry[V]
}

// NewKeyed builds an empty keyed cache.
func NewKeyed[K comparable, V any](opts Options) *Keyed[K, V] {
	return &Keyed[K, V]{opts: opts.normalise(), entries: make(map[K]keyedEntry[V])}
}

// Get returns the cached value for key while it is fresh.
func (c *Keyed[K, V]) Get(key K) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.entries[key]
	if !ok || expired(c.opts.Now(), entry.fetchedAt, c.opts.TTL) {
		var zero V
		return zero, false
	}
	return entry.value, true
}

// Set stores value for key.
func (c *Keyed[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = keyedEntry[V]{value: value, fetchedAt: c.opts.Now()}
}

// Delete evicts key.
func (c *Keyed[K, V]) Delete(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// Clear evicts every entry.
func (c *Keyed[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[K]keyedEntry[V])
}

// Purge drops expired entries and returns how many were removed.
func (c *Keyed[K, V]) Purge() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.opts.Now()
	removed := 0
	for key, entry := range c.entries {
		if expired(now, entry.fetchedAt, c.opts.TTL) {
			delete(c.entries, key)
			removed++
		}
	}
	return removed
}

// Len reports the number of stored entries, fresh or not.
func (c *Keyed[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Load returns the fresh value for key or fetches it. A fetch reporting
// found=false is returned as-is and not cached.
func (c *Keyed[K, V]) Load(ctx context.Context, key K, fetch func(context.Context) (V, bool, error)) (V, bool, error) {
	if value, ok := c.Get(key); ok {
		c.opts.record(true)
		return value, true, nil
	}
	c.opts.record(false)

	value, found, err := fetch(ctx)
	if err != nil || !found {
		var zero V
		return zero, false, err
	}
	c.Set(key, value)
	return value, true, nil
}
