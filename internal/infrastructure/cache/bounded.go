// Package cache provides bounded in-memory caches with LRU or LFU
// eviction, used by the learning components to avoid recomputation.
package cache

import (
	"sync"
	"time"
)

// Policy selects the eviction strategy.
type Policy string

const (
	// PolicyLRU evicts the entry least recently accessed.
	PolicyLRU Policy = "lru"
	// PolicyLFU evicts the entry with the smallest access count.
	PolicyLFU Policy = "lfu"
)

// Config configures a BoundedCache.
type Config struct {
	// MaxEntries is the hard size cap; a Set over the cap evicts one
	// entry first.
	MaxEntries int `json:"maxEntries"`

	// TTL is the entry time-to-live; expired entries read as misses.
	TTL time.Duration `json:"ttl"`

	// Policy is the eviction policy.
	Policy Policy `json:"policy"`
}

// DefaultConfig returns the default cache configuration.
func DefaultConfig() Config {
	return Config{
		MaxEntries: 1000,
		TTL:        time.Hour,
		Policy:     PolicyLRU,
	}
}

type cacheEntry struct {
	value       interface{}
	createdAt   time.Time
	lastAccess  time.Time
	accessCount int
}

// Stats reports cache effectiveness counters.
type Stats struct {
	Hits      int64   `json:"hits"`
	Misses    int64   `json:"misses"`
	Evictions int64   `json:"evictions"`
	Size      int     `json:"size"`
	MaxSize   int     `json:"maxSize"`
	HitRate   float64 `json:"hitRate"`
}

// BoundedCache is a size- and time-bounded key/value store. All methods
// are safe for concurrent use; a single mutex guards the instance.
type BoundedCache struct {
	mu     sync.Mutex
	config Config

	entries map[string]*cacheEntry
	// order tracks access recency for LRU: least recent at the front.
	order []string

	hits      int64
	misses    int64
	evictions int64
}

// New creates a bounded cache. Non-positive limits fall back to defaults.
func New(config Config) *BoundedCache {
	if config.MaxEntries <= 0 {
		config.MaxEntries = DefaultConfig().MaxEntries
	}
	if config.TTL <= 0 {
		config.TTL = DefaultConfig().TTL
	}
	if config.Policy == "" {
		config.Policy = PolicyLRU
	}
	return &BoundedCache{
		config:  config,
		entries: make(map[string]*cacheEntry),
		order:   make([]string, 0, config.MaxEntries),
	}
}

// Get returns the value for key. An expired entry is removed and counts
// as a miss.
func (c *BoundedCache) Get(key string) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		c.misses++
		return nil, false
	}
	if c.expired(entry) {
		c.remove(key)
		c.misses++
		return nil, false
	}

	entry.lastAccess = time.Now()
	entry.accessCount++
	c.touch(key)
	c.hits++
	return entry.value, true
}

// Set stores a value. When the cache is full and the key is new, exactly
// one entry is evicted per the configured policy first.
func (c *BoundedCache) Set(key string, value interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	if entry, ok := c.entries[key]; ok {
		entry.value = value
		entry.createdAt = now
		entry.lastAccess = now
		entry.accessCount++
		c.touch(key)
		return
	}

	if len(c.entries) >= c.config.MaxEntries {
		c.evictOne()
	}

	c.entries[key] = &cacheEntry{
		value:       value,
		createdAt:   now,
		lastAccess:  now,
		accessCount: 1,
	}
	c.order = append(c.order, key)
}

// Has reports whether an unexpired entry exists without touching access
// bookkeeping or statistics.
func (c *BoundedCache) Has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	return ok && !c.expired(entry)
}

// Delete removes an entry, reporting whether it existed.
func (c *BoundedCache) Delete(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[key]; !ok {
		return false
	}
	c.remove(key)
	return true
}

// Clear removes all entries. Counters are preserved.
func (c *BoundedCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*cacheEntry)
	c.order = c.order[:0]
}

// Size returns the current entry count.
func (c *BoundedCache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Keys returns the cached keys in access order, least recent first.
func (c *BoundedCache) Keys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	keys := make([]string, len(c.order))
	copy(keys, c.order)
	return keys
}

// EvictExpired removes every entry past its TTL and returns the count
// removed. Unexpired entries are untouched.
func (c *BoundedCache) EvictExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for key, entry := range c.entries {
		if c.expired(entry) {
			c.remove(key)
			removed++
		}
	}
	return removed
}

// Stats returns a snapshot of the cache counters. Hit rate is 0 before
// any access.
func (c *BoundedCache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	stats := Stats{
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
		Size:      len(c.entries),
		MaxSize:   c.config.MaxEntries,
	}
	if total := c.hits + c.misses; total > 0 {
		stats.HitRate = float64(c.hits) / float64(total)
	}
	return stats
}

// warm inserts an entry directly, honoring only the size cap. Used by the
// manager's bulk-loading path.
func (c *BoundedCache) warm(key string, value interface{}) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[key]; !ok && len(c.entries) >= c.config.MaxEntries {
		return false
	}
	now := time.Now()
	if entry, ok := c.entries[key]; ok {
		entry.value = value
		entry.createdAt = now
		return true
	}
	c.entries[key] = &cacheEntry{
		value:      value,
		createdAt:  now,
		lastAccess: now,
	}
	c.order = append(c.order, key)
	return true
}

func (c *BoundedCache) expired(entry *cacheEntry) bool {
	return time.Since(entry.createdAt) > c.config.TTL
}

// touch moves key to the most-recent end of the access order list.
func (c *BoundedCache) touch(key string) {
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	c.order = append(c.order, key)
}

// remove deletes the entry and its order slot. Caller holds the lock.
func (c *BoundedCache) remove(key string) {
	delete(c.entries, key)
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			return
		}
	}
}

// evictOne applies the configured policy. Caller holds the lock.
func (c *BoundedCache) evictOne() {
	if len(c.entries) == 0 {
		return
	}

	var victim string
	switch c.config.Policy {
	case PolicyLFU:
		first := true
		minCount := 0
		for key, entry := range c.entries {
			if first || entry.accessCount < minCount {
				victim = key
				minCount = entry.accessCount
				first = false
			}
		}
	default: // LRU: least recently accessed is at the front.
		victim = c.order[0]
	}

	c.remove(victim)
	c.evictions++
}
