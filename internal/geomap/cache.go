package geomap

import "sync"

// Cache memoizes name resolutions. It is owned by the caller, who decides
// whether one cache is shared across files; it is safe for concurrent use.
type Cache struct {
	mu    sync.RWMutex
	items map[string]cacheEntry
}

type cacheEntry struct {
	path     string
	resolved bool
}

// NewCache creates an empty resolution cache.
func NewCache() *Cache {
	return &Cache{items: make(map[string]cacheEntry)}
}

func (c *Cache) get(key string) (cacheEntry, bool) {
	c.mu.RLock()
	e, ok := c.items[key]
	c.mu.RUnlock()
	return e, ok
}

// put stores e unless another goroutine got there first, and returns the
// winning entry.
func (c *Cache) put(key string, e cacheEntry) cacheEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.items[key]; ok {
		return existing
	}
	c.items[key] = e
	return e
}

// Len returns the number of memoized names.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
