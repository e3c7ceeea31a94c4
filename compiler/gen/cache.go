package gen

import (
	"sync"

	"github.com/syssam/adminkit"
)

// MemoryCache is an in-memory adminkit.Cache. It is safe for concurrent use.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[adminkit.CacheKey]string
}

var _ adminkit.Cache = (*MemoryCache)(nil)

// NewMemoryCache returns an empty cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[adminkit.CacheKey]string)}
}

// Get implements adminkit.Cache.
func (c *MemoryCache) Get(key adminkit.CacheKey) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.entries[key]
	return v, ok
}

// Set implements adminkit.Cache.
func (c *MemoryCache) Set(key adminkit.CacheKey, template string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = template
}

// Purge implements adminkit.Cache.
func (c *MemoryCache) Purge(fingerprint string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.entries {
		if fingerprint == "" || k.Fingerprint != fingerprint {
			delete(c.entries, k)
		}
	}
}

// Len returns the number of cached templates.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
