// Process-scoped TTL cache. Keys are a handful of named datasets (e.g.
// "entries"), not per-request, so there is no eviction beyond lazy
// expiry-on-read. State lives for the process lifetime and resets on restart.
package cache

import (
	"sync"
	"time"
)

type item[T any] struct {
	value     T
	expiresAt time.Time
}

type Cache[T any] struct {
	mu    sync.Mutex
	items map[string]item[T]
}

func New[T any]() *Cache[T] {
	return &Cache[T]{items: make(map[string]item[T])}
}

// Get returns the cached value if present and fresh. An expired entry is
// evicted on the spot and reported as a miss.
func (c *Cache[T]) Get(key string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	it, ok := c.items[key]
	if !ok {
		var zero T
		return zero, false
	}
	if time.Now().After(it.expiresAt) {
		delete(c.items, key)
		var zero T
		return zero, false
	}
	return it.value, true
}

// Set overwrites unconditionally.
func (c *Cache[T]) Set(key string, value T, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = item[T]{value: value, expiresAt: time.Now().Add(ttl)}
}

// Clear removes the given keys, or everything when called with none.
func (c *Cache[T]) Clear(keys ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(keys) == 0 {
		c.items = make(map[string]item[T])
		return
	}
	for _, k := range keys {
		delete(c.items, k)
	}
}

// Len reports how many entries are held, expired or not.
func (c *Cache[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}
