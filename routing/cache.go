package routing

import (
	"fmt"
	"sync"
	"sync/atomic"

	"erd/geometry"
)

// CacheKey identifies a route by its two anchors.
type CacheKey struct {
	Source geometry.Anchor
	Target geometry.Anchor
}

// Cache stores previously computed routes for reuse. Routes are pure
// functions of their anchors, so a cached route is always equal to a freshly
// computed one.
type Cache struct {
	mu        sync.RWMutex
	cache     map[CacheKey]Route
	maxSize   int
	hits      atomic.Int64
	misses    atomic.Int64
	evictions atomic.Int64
}

// NewCache creates a route cache holding at most maxSize routes.
func NewCache(maxSize int) *Cache {
	return &Cache{
		cache:   make(map[CacheKey]Route),
		maxSize: maxSize,
	}
}

// Get retrieves a copy of a cached route.
func (c *Cache) Get(source, target geometry.Anchor) (Route, bool) {
	key := CacheKey{Source: source, Target: target}

	c.mu.RLock()
	route, found := c.cache[key]
	c.mu.RUnlock()

	if found {
		c.hits.Add(1)
		return route.Clone(), true
	}
	c.misses.Add(1)
	return Route{}, false
}

// Put stores a copy of a route.
func (c *Cache) Put(source, target geometry.Anchor, route Route) {
	key := CacheKey{Source: source, Target: target}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.cache[key]; !exists && len(c.cache) >= c.maxSize && c.maxSize > 0 {
		// Evict an arbitrary entry; routes are cheap to recompute.
		for k := range c.cache {
			delete(c.cache, k)
			c.evictions.Add(1)
			break
		}
	}

	c.cache[key] = route.Clone()
}

// Clear removes all entries and resets the counters.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cache = make(map[CacheKey]Route)
	c.hits.Store(0)
	c.misses.Store(0)
	c.evictions.Store(0)
}

// Stats returns the hit, miss and eviction counts and the current size.
func (c *Cache) Stats() (hits, misses, evictions, size int) {
	c.mu.RLock()
	size = len(c.cache)
	c.mu.RUnlock()

	return int(c.hits.Load()), int(c.misses.Load()), int(c.evictions.Load()), size
}

// String formats the statistics for logging.
func (c *Cache) String() string {
	hits, misses, evictions, size := c.Stats()
	hitRate := 0.0
	if total := hits + misses; total > 0 {
		hitRate = float64(hits) / float64(total) * 100
	}

	return fmt.Sprintf("RouteCache[size=%d/%d, hits=%d, misses=%d, hitRate=%.1f%%, evictions=%d]",
		size, c.maxSize, hits, misses, hitRate, evictions)
}
