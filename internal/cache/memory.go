package cache

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	allowed    bool
	expiryTime time.Time
}

// MemoryCache provides thread-safe in-process caching of decisions.
type MemoryCache struct {
	entries map[string]memoryEntry
	mutex   sync.RWMutex
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]memoryEntry),
	}
}

// Get retrieves a decision from cache if not expired
func (c *MemoryCache) Get(_ context.Context, key string) (bool, bool) {
	c.mutex.RLock()
	entry, found := c.entries[key]
	c.mutex.RUnlock()

	if found && time.Now().Before(entry.expiryTime) {
		return entry.allowed, true
	}

	return false, false
}

// Set stores a decision in cache with an expiration time
func (c *MemoryCache) Set(_ context.Context, key string, allowed bool, ttl time.Duration) {
	c.mutex.Lock()
	c.entries[key] = memoryEntry{
		allowed:    allowed,
		expiryTime: time.Now().Add(ttl),
	}
	c.mutex.Unlock()
}

// Purge removes expired entries from cache
func (c *MemoryCache) Purge(_ context.Context) {
	now := time.Now()
	c.mutex.Lock()
	for key, entry := range c.entries {
		if now.After(entry.expiryTime) {
			delete(c.entries, key)
		}
	}
	c.mutex.Unlock()
}
