package shelfserve

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/shelfserve/shelfserve/metrics"
)

// Default cache capacities, shared across all requests for the lifetime of
// the process.
const (
	DefaultTOCCacheSize     = 10
	DefaultContentCacheSize = 200
)

// Cache is a bounded least-recently-used cache. Reads refresh recency, so a
// key that keeps getting hit is never the next eviction candidate. All
// operations serialize through a single internal lock; concurrent misses for
// the same key are not coalesced — both callers compute and the last Put
// wins, which is acceptable because entries for a given key are equivalent.
type Cache[K comparable, V any] struct {
	name string
	lru  *lru.Cache[K, V]
}

// NewCache creates a cache with the given capacity. The name labels the
// cache's hit/miss metrics.
func NewCache[K comparable, V any](name string, size int) (*Cache[K, V], error) {
	inner, err := lru.New[K, V](size)
	if err != nil {
		return nil, err
	}
	return &Cache[K, V]{name: name, lru: inner}, nil
}

// Get returns the cached value for key and refreshes its recency.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	v, ok := c.lru.Get(key)
	if ok {
		metrics.RecordCacheHit(c.name)
	} else {
		metrics.RecordCacheMiss(c.name)
	}
	return v, ok
}

// Put stores value under key, evicting the least-recently-used entry when
// the cache is at capacity.
func (c *Cache[K, V]) Put(key K, value V) {
	c.lru.Add(key, value)
}

// Len returns the number of entries currently cached.
func (c *Cache[K, V]) Len() int {
	return c.lru.Len()
}
