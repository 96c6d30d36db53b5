package cache

import (
	"sync"
	"time"

	"guestmenu-auth/app/domain"
)

// cacheEntry holds a terminal tenant resolution and its expiry.
type cacheEntry struct {
	resolution domain.TenantResolution
	expiresAt  time.Time
}

// ResolutionCache provides thread-safe in-memory caching of terminal
// tenant resolutions with TTL. Implements port.ResolutionCache. Only
// terminal outcomes are stored; callers skip Set on transient failures.
type ResolutionCache struct {
	mu      sync.RWMutex
	entries map[string]*cacheEntry
	ttl     time.Duration
}

// NewResolutionCache creates a new resolution cache with the specified TTL.
func NewResolutionCache(ttl time.Duration) *ResolutionCache {
	c := &ResolutionCache{
		entries: make(map[string]*cacheEntry),
		ttl:     ttl,
	}
	go c.cleanupLoop()
	return c
}

// Get retrieves a cached resolution by subdomain label.
func (c *ResolutionCache) Get(label string) (domain.TenantResolution, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, found := c.entries[label]
	if !found || time.Now().After(entry.expiresAt) {
		return domain.TenantResolution{}, false
	}
	return entry.resolution, true
}

// Set stores a terminal resolution in the cache.
func (c *ResolutionCache) Set(label string, res domain.TenantResolution) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[label] = &cacheEntry{
		resolution: res,
		expiresAt:  time.Now().Add(c.ttl),
	}
}

// cleanup removes expired entries.
func (c *ResolutionCache) cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for label, entry := range c.entries {
		if now.After(entry.expiresAt) {
			delete(c.entries, label)
		}
	}
}

// cleanupLoop runs periodic cleanup of expired entries.
func (c *ResolutionCache) cleanupLoop() {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		c.cleanup()
	}
}
