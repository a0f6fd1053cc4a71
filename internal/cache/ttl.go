package cache

import (
	"sync"
	"time"
)

// TTLStore is a mutex-guarded cache whose entries expire a fixed duration
// after insertion. Expiry is checked on read; entries are replaced whole,
// never mutated in place.
type TTLStore[T any] struct {
	mu    sync.Mutex
	ttl   time.Duration
	items map[string]entry[T]
}

var _ Cache[struct{}] = (*TTLStore[struct{}])(nil)

type entry[T any] struct {
	data      T
	expiresAt time.Time
}

// NewTTLStore creates a store whose entries live for ttl after Set.
func NewTTLStore[T any](ttl time.Duration) *TTLStore[T] {
	return &TTLStore[T]{
		ttl:   ttl,
		items: make(map[string]entry[T]),
	}
}

// Get retrieves a value; expired entries are dropped and reported missing.
func (c *TTLStore[T]) Get(key string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero T
	e, ok := c.items[key]
	if !ok {
		return zero, false
	}
	if time.Now().After(e.expiresAt) {
		delete(c.items, key)
		return zero, false
	}
	return e.data, true
}

// Set stores a value, restarting its TTL.
func (c *TTLStore[T]) Set(key string, data T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = entry[T]{data: data, expiresAt: time.Now().Add(c.ttl)}
}

// Delete removes a single key.
func (c *TTLStore[T]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
}

// Purge removes every entry regardless of age.
func (c *TTLStore[T]) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]entry[T])
}

// CleanExpired removes all expired entries and returns how many were dropped.
func (c *TTLStore[T]) CleanExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	removed := 0
	for k, e := range c.items {
		if now.After(e.expiresAt) {
			delete(c.items, k)
			removed++
		}
	}
	return removed
}

// Size returns the current number of items in the cache.
func (c *TTLStore[T]) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}
