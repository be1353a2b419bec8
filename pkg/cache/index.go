package cache

import "sync"

// Index is a lookup derived from a Snapshot value. It is rebuilt lazily when
// the snapshot version changes and never outlives the snapshot it came from.
type Index[T any, K comparable, V any] struct {
	build func(T) map[K]V

	mu      sync.Mutex
	version uint64
	built   bool
	lookup  map[K]V
}

// NewIndex creates an index using build to derive the lookup map.
func NewIndex[T any, K comparable, V any](build func(T) map[K]V) *Index[T, K, V] {
	return &Index[T, K, V]{build: build}
}

// Lookup resolves key against the index for the given snapshot value and version.
func (i *Index[T, K, V]) Lookup(value T, version uint64, key K) (V, bool) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if !i.built || i.version != version {
		i.lookup = i.build(value)
		i.version = version
		i.built = true
	}
	v, ok := i.lookup[key]
	return v, ok
}
