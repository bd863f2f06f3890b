// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package transport

import (
	"sync"
	"time"
)

const (
	cacheTTL       = 24 * time.Hour
	cacheSweepSize = 512
)

// nameCache remembers resolved display names. Best-effort only: losing an
// entry costs one extra profile lookup, never correctness. Entries expire
// after 24h; the map is swept when it grows past the size threshold.
type nameCache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
}

type cacheEntry struct {
	name     string
	storedAt time.Time
}

func newNameCache() *nameCache {
	return &nameCache{entries: make(map[string]cacheEntry)}
}

func (c *nameCache) get(key string, now time.Time) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok || now.Sub(e.storedAt) > cacheTTL {
		return "", false
	}
	return e.name, true
}

func (c *nameCache) put(key, name string, now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.entries) >= cacheSweepSize {
		for k, e := range c.entries {
			if now.Sub(e.storedAt) > cacheTTL {
				delete(c.entries, k)
			}
		}
	}
	c.entries[key] = cacheEntry{name: name, storedAt: now}
}
