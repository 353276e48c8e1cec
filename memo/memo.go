// Package memo provides the bounded, demand-driven cache each pipeline
// stage is built on (spec.md §5's "pure function of its inputs, memoized
// by value-identity" — the retrieved source's own incremental substrate
// is out of scope, but a runnable Go module needs a concrete stand-in).
package memo

import (
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Store is a fixed-capacity, demand-driven cache keyed by K. A miss
// computes and stores the value; concurrent callers racing on the same
// key may both compute, and the loser's result is discarded — acceptable
// because every stage this package backs is a pure function, so both
// computations produce value-equal results.
type Store[K comparable, V any] struct {
	mu    sync.Mutex
	cache *lru.Cache[K, V]
}

// New returns a Store holding at most capacity entries, evicting the
// least recently used on overflow.
func New[K comparable, V any](capacity int) *Store[K, V] {
	cache, err := lru.New[K, V](capacity)
	if err != nil {
		// Only returned by golang-lru for a non-positive capacity.
		panic(err)
	}
	return &Store[K, V]{cache: cache}
}

// GetOrCompute returns the cached value for key, computing and storing it
// on a miss. compute is never called while holding the store's lock, so a
// slow computation for one key never blocks lookups for another.
func (s *Store[K, V]) GetOrCompute(key K, compute func() V) V {
	s.mu.Lock()
	if v, ok := s.cache.Get(key); ok {
		s.mu.Unlock()
		return v
	}
	s.mu.Unlock()

	v := compute()

	s.mu.Lock()
	s.cache.Add(key, v)
	s.mu.Unlock()
	return v
}

// Len reports the number of entries currently cached.
func (s *Store[K, V]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cache.Len()
}
