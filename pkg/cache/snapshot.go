package cache

import (
	"context"
	"sync"
	"time"
)

// Snapshot memoises a whole collection. Refreshing replaces the value
// atomically and bumps the version so derived indexes can detect it.
type Snapshot[T any] struct {
	opts Options

	mu        sync.RWMutex
	value     T
	fetchedAt time.Time
	loaded    bool
	version   uint64
}

// NewSnapshot builds an empty snapshot cache.
func NewSnapshot[T any](opts Options) *Snapshot[T] {
	return &Snapshot[T]{opts: opts.normalise()}
}

// Get returns the cached value while it is fresh.
func (s *Snapshot[T]) Get() (T, uint64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.loaded || expired(s.opts.Now(), s.fetchedAt, s.opts.TTL) {
		var zero T
		return zero, s.version, false
	}
	return s.value, s.version, true
}

// Set replaces the snapshot and stamps it with the current time.
func (s *Snapshot[T]) Set(value T) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.value = value
	s.fetchedAt = s.opts.Now()
	s.loaded = true
	s.version++
	return s.version
}

// Invalidate drops the snapshot so the next Load fetches again.
func (s *Snapshot[T]) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	var zero T
	s.value = zero
	s.loaded = false
	s.version++
}

// FetchedAt reports when the current snapshot was stored.
func (s *Snapshot[T]) FetchedAt() (time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fetchedAt, s.loaded
}

// Load returns the fresh snapshot or fetches, stores and returns a new one.
// Concurrent callers racing on expiry may each fetch; the last write wins.
func (s *Snapshot[T]) Load(ctx context.Context, fetch func(context.Context) (T, error)) (T, uint64, error) {
	if value, version, ok := s.Get(); ok {
		s.opts.record(true)
		return value, version, nil
	}
	s.opts.record(false)

	value, err := fetch(ctx)
	if err != nil {
		var zero T
		return zero, 0, err
	}
	version := s.Set(value)
	return value, version, nil
}
