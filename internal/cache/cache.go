// Package cache holds the console's in-memory copies of backend lists.
//
// A Cache is replaced wholesale by every successful list fetch and may be
// patched row by row after a successful mutation so views reflect the change
// before the next fetch lands. Replace always wins: a patch never outlives
// the next Replace.
package cache

import "sync"

// Cache is an ordered list of records addressable by key.
type Cache[T any] struct {
	key func(T) string

	mu         sync.RWMutex
	items      []T
	index      map[string]int
	generation uint64
	patched    map[string]struct{}
}

// New creates an empty cache that identifies records with key.
func New[T any](key func(T) string) *Cache[T] {
	return &Cache[T]{
		key:     key,
		index:   make(map[string]int),
		patched: make(map[string]struct{}),
	}
}

// Replace swaps in a freshly fetched list, dropping every local patch.
func (c *Cache[T]) Replace(items []T) {
	cp := make([]T, len(items))
	copy(cp, items)
	idx := make(map[string]int, len(cp))
	for i, it := range cp {
		idx[c.key(it)] = i
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = cp
	c.index = idx
	c.patched = make(map[string]struct{})
	c.generation++
}

// Patch replaces the record with the given key by fn(record). It reports
// false if no such record is cached.
func (c *Cache[T]) Patch(key string, fn func(T) T) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	i, ok := c.index[key]
	if !ok {
		return false
	}
	c.items[i] = fn(c.items[i])
	c.patched[key] = struct{}{}
	return true
}

// Get returns the record with the given key.
func (c *Cache[T]) Get(key string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	i, ok := c.index[key]
	if !ok {
		var zero T
		return zero, false
	}
	return c.items[i], true
}

// All returns a copy of the cached list in fetch order.
func (c *Cache[T]) All() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

// Filter returns the cached records for which keep is true, in order.
func (c *Cache[T]) Filter(keep func(T) bool) []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []T
	for _, it := range c.items {
		if keep(it) {
			out = append(out, it)
		}
	}
	return out
}

// Len returns the number of cached records.
func (c *Cache[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Generation counts Replace calls. It changes exactly when a fetch lands.
func (c *Cache[T]) Generation() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.generation
}

// Patched reports whether the record carries a local patch not yet
// confirmed by a fetch.
func (c *Cache[T]) Patched(key string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.patched[key]
	return ok
}
