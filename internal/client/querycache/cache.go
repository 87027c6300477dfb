package querycache

import (
	"context"
	"fmt"
	"sync"
)

type fetchFunc func(ctx context.Context) (any, error)

type entry struct {
	fetch fetchFunc
	value any
	valid bool
}

// Cache is an in-process read-through cache keyed by Key. All methods are
// safe for concurrent use; the lock is never held across a fetch.
type Cache struct {
	mu      sync.Mutex
	entries map[Key]*entry
}

func New() *Cache {
	return &Cache{entries: make(map[Key]*entry)}
}

// Resolve returns the cached value under key, or runs fetch and caches the
// result. The fetch is remembered so Invalidate can refresh the entry
// later. A failed fetch caches nothing. A cached value of a different type
// than requested is treated as absent and fetched over.
func Resolve[T any](ctx context.Context, c *Cache, key Key, fetch func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	wrapped := func(ctx context.Context) (any, error) { return fetch(ctx) }

	c.mu.Lock()
	if e, ok := c.entries[key]; ok && e.valid {
		if v, ok := e.value.(T); ok {
			e.fetch = wrapped
			c.mu.Unlock()
			return v, nil
		}
	}
	c.mu.Unlock()

	v, err := fetch(ctx)
	if err != nil {
		return zero, err
	}

	c.mu.Lock()
	c.entries[key] = &entry{fetch: wrapped, value: v, valid: true}
	c.mu.Unlock()
	return v, nil
}

// Invalidate refreshes every key in the group that has been resolved
// before, one after another, and returns only when all refreshes are done.
// Keys never resolved are skipped: there is no stale state under them to
// correct. On a refresh failure the entry stays invalid, the error is
// returned, and remaining keys are left untouched for the caller to retry.
func (c *Cache) Invalidate(ctx context.Context, keys ...Key) error {
	for _, key := range keys {
		c.mu.Lock()
		e, ok := c.entries[key]
		if !ok {
			c.mu.Unlock()
			continue
		}
		e.valid = false
		fetch := e.fetch
		c.mu.Unlock()

		v, err := fetch(ctx)
		if err != nil {
			return fmt.Errorf("refreshing %s: %w", key, err)
		}

		c.mu.Lock()
		// the entry may have been Removed while the fetch was in flight
		if cur, ok := c.entries[key]; ok {
			cur.value = v
			cur.valid = true
		}
		c.mu.Unlock()
	}
	return nil
}

// Remove drops entries without refetching, for resources that ceased to
// exist. Unknown keys are ignored.
func (c *Cache) Remove(keys ...Key) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.entries, k)
	}
}

// Purge empties the whole cache.
func (c *Cache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[Key]*entry)
}

// Len reports the number of cached entries, valid or not.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
