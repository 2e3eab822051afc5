// Package cache provides a small generic LRU used to keep hot analysis
// results decoded in memory in front of the durable store.
package cache

import (
	"sync"
	"sync/atomic"
)

// DefaultCapacity is the default maximum number of cached entries.
const DefaultCapacity = 128

// LRU is a fixed-capacity least-recently-used cache. Safe for concurrent
// use. The zero value is not usable; construct with New.
type LRU[K comparable, V any] struct {
	mu       sync.Mutex
	entries  map[K]*lruEntry[K, V]
	head     *lruEntry[K, V] // Most recently used.
	tail     *lruEntry[K, V] // Least recently used.
	capacity int

	// Metrics (atomic for lock-free reads).
	hits   atomic.Int64
	misses atomic.Int64
}

// lruEntry is a doubly-linked list node for LRU tracking.
type lruEntry[K comparable, V any] struct {
	key   K
	value V
	prev  *lruEntry[K, V]
	next  *lruEntry[K, V]
}

// New creates an LRU holding at most capacity entries.
// A non-positive capacity uses DefaultCapacity.
func New[K comparable, V any](capacity int) *LRU[K, V] {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}

	return &LRU[K, V]{
		entries:  make(map[K]*lruEntry[K, V], capacity),
		capacity: capacity,
	}
}

// Get fetches a value and marks it most recently used.
func (c *LRU[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		c.misses.Add(1)

		var zero V

		return zero, false
	}

	c.hits.Add(1)
	c.moveToFront(entry)

	return entry.value, true
}

// Put inserts or refreshes a value, evicting the least recently used entry
// when over capacity.
func (c *LRU[K, V]) Put(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, ok := c.entries[key]; ok {
		entry.value = value
		c.moveToFront(entry)

		return
	}

	entry := &lruEntry[K, V]{key: key, value: value}
	c.entries[key] = entry
	c.pushFront(entry)

	if len(c.entries) > c.capacity {
		c.evictTail()
	}
}

// Remove drops a key if present.
func (c *LRU[K, V]) Remove(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return
	}

	c.unlink(entry)
	delete(c.entries, key)
}

// Clear drops all entries. Metrics are kept.
func (c *LRU[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[K]*lruEntry[K, V], c.capacity)
	c.head = nil
	c.tail = nil
}

// Len returns the number of cached entries.
func (c *LRU[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.entries)
}

// Stats returns cumulative hit and miss counts.
func (c *LRU[K, V]) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

func (c *LRU[K, V]) pushFront(entry *lruEntry[K, V]) {
	entry.prev = nil
	entry.next = c.head

	if c.head != nil {
		c.head.prev = entry
	}

	c.head = entry

	if c.tail == nil {
		c.tail = entry
	}
}

func (c *LRU[K, V]) unlink(entry *lruEntry[K, V]) {
	if entry.prev != nil {
		entry.prev.next = entry.next
	} else {
		c.head = entry.next
	}

	if entry.next != nil {
		entry.next.prev = entry.prev
	} else {
		c.tail = entry.prev
	}

	entry.prev = nil
	entry.next = nil
}

func (c *LRU[K, V]) moveToFront(entry *lruEntry[K, V]) {
	if c.head == entry {
		return
	}

	c.unlink(entry)
	c.pushFront(entry)
}

func (c *LRU[K, V]) evictTail() {
	if c.tail == nil {
		return
	}

	victim := c.tail
	c.unlink(victim)
	delete(c.entries, victim.key)
}
