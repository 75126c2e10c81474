// Package cache holds whole-collection snapshots for a short TTL so list
// endpoints do not hit the document store on every request.
package cache

import (
	"context"
	"sync"
	"time"
)

const DefaultTTL = 30 * time.Second

type entry[T any] struct {
	items   []T
	fetched time.Time
}

// Cloner is implemented by item types holding slices or pointers. The cache
// clones such items on the way in and out so callers never share them.
type Cloner[T any] interface {
	Clone() T
}

// Cache is a read-through cache with one entry per collection key. Failed
// fetches are not cached and concurrent misses may each fetch.
type Cache[T any] struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]entry[T]
	// gen counts invalidations per key. A fetch that started before an
	// invalidation does not store its result.
	gen map[string]uint64

	// Now is the clock; defaults to time.Now.
	Now func() time.Time
}

func New[T any](ttl time.Duration) *Cache[T] {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache[T]{
		ttl:     ttl,
		entries: make(map[string]entry[T]),
		gen:     make(map[string]uint64),
		Now:     time.Now,
	}
}

// GetAll returns the cached snapshot for key while it is younger than the
// TTL, otherwise calls fetch and caches what it returns.
func (c *Cache[T]) GetAll(ctx context.Context, key string, fetch func(context.Context) ([]T, error)) ([]T, error) {
	c.mu.Lock()
	if e, ok := c.entries[key]; ok && c.now().Sub(e.fetched) < c.ttl {
		items := clone(e.items)
		c.mu.Unlock()
		return items, nil
	}
	gen := c.gen[key]
	c.mu.Unlock()

	items, err := fetch(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if c.gen[key] == gen {
		c.entries[key] = entry[T]{items: clone(items), fetched: c.now()}
	}
	c.mu.Unlock()
	return items, nil
}

// Invalidate drops the snapshot for key.
func (c *Cache[T]) Invalidate(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.gen[key]++
	c.mu.Unlock()
}

func (c *Cache[T]) TTL() time.Duration { return c.ttl }

func (c *Cache[T]) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

func clone[T any](items []T) []T {
	out := make([]T, len(items))
	for i, item := range items {
		if c, ok := any(item).(Cloner[T]); ok {
			out[i] = c.Clone()
			continue
		}
		out[i] = item
	}
	return out
}
