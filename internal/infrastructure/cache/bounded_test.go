package cache

import (
	"fmt"
	"testing"
	"time"
)

func TestBoundedCache_RoundTrip(t *testing.T) {
	c := New(Config{MaxEntries: 10, TTL: time.Minute, Policy: PolicyLRU})

	c.Set("a", 1)
	v, ok := c.Get("a")
	if !ok {
		t.Fatal("expected hit for key a")
	}
	if v.(int) != 1 {
		t.Fatalf("expected 1, got %v", v)
	}

	if _, ok := c.Get("missing"); ok {
		t.Fatal("expected miss for absent key")
	}
	if !c.Has("a") {
		t.Fatal("Has should report existing key")
	}
	if c.Has("missing") {
		t.Fatal("Has should not report absent key")
	}
}

func TestBoundedCache_DeleteAndClear(t *testing.T) {
	c := New(Config{MaxEntries: 10, TTL: time.Minute, Policy: PolicyLRU})

	c.Set("a", 1)
	c.Set("b", 2)

	if !c.Delete("a") {
		t.Fatal("Delete should report true for existing key")
	}
	if c.Delete("a") {
		t.Fatal("Delete should report false for absent key")
	}
	if c.Size() != 1 {
		t.Fatalf("expected size 1, got %d", c.Size())
	}

	c.Clear()
	if c.Size() != 0 {
		t.Fatalf("expected empty cache after Clear, got %d", c.Size())
	}
}

func TestBoundedCache_LRUEvictsLeastRecentlyAccessed(t *testing.T) {
	c := New(Config{MaxEntries: 3, TTL: time.Minute, Policy: PolicyLRU})

	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("c", 3)

	// Touch a and c so b is the least recently accessed.
	c.Get("a")
	c.Get("c")

	c.Set("d", 4)

	if c.Has("b") {
		t.Fatal("expected b to be evicted under LRU")
	}
	for _, key := range []string{"a", "c", "d"} {
		if !c.Has(key) {
			t.Fatalf("expected %s to survive eviction", key)
		}
	}

	stats := c.Stats()
	if stats.Evictions != 1 {
		t.Fatalf("expected exactly 1 eviction, got %d", stats.Evictions)
	}
}

func TestBoundedCache_ExactlyOneEvictionPerOverflowSet(t *testing.T) {
	c := New(Config{MaxEntries: 5, TTL: time.Minute, Policy: PolicyLRU})

	for i := 0; i < 12; i++ {
		c.Set(fmt.Sprintf("key-%d", i), i)
	}

	if c.Size() != 5 {
		t.Fatalf("size must never exceed max, got %d", c.Size())
	}
	if got := c.Stats().Evictions; got != 7 {
		t.Fatalf("expected 7 evictions for 7 overflow sets, got %d", got)
	}
}

func TestBoundedCache_OverwriteDoesNotEvict(t *testing.T) {
	c := New(Config{MaxEntries: 2, TTL: time.Minute, Policy: PolicyLRU})

	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("a", 10)

	if got := c.Stats().Evictions; got != 0 {
		t.Fatalf("overwrite must not evict, got %d evictions", got)
	}
	v, _ := c.Get("a")
	if v.(int) != 10 {
		t.Fatalf("expected overwritten value 10, got %v", v)
	}
}

func TestBoundedCache_LFUEvictsLeastFrequentlyAccessed(t *testing.T) {
	c := New(Config{MaxEntries: 3, TTL: time.Minute, Policy: PolicyLFU})

	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("c", 3)

	// a and c gain extra accesses; b keeps its single set access.
	c.Get("a")
	c.Get("a")
	c.Get("c")

	c.Set("d", 4)

	if c.Has("b") {
		t.Fatal("expected b to be evicted under LFU")
	}
}

func TestBoundedCache_ExpiredGetIsMissAndRemoves(t *testing.T) {
	c := New(Config{MaxEntries: 10, TTL: 10 * time.Millisecond, Policy: PolicyLRU})

	c.Set("a", 1)
	time.Sleep(25 * time.Millisecond)

	if _, ok := c.Get("a"); ok {
		t.Fatal("expected expired entry to read as a miss")
	}
	if c.Size() != 0 {
		t.Fatal("expired entry should be removed on Get")
	}

	stats := c.Stats()
	if stats.Misses != 1 {
		t.Fatalf("expected 1 miss, got %d", stats.Misses)
	}
}

func TestBoundedCache_EvictExpiredRemovesOnlyExpired(t *testing.T) {
	c := New(Config{MaxEntries: 10, TTL: 30 * time.Millisecond, Policy: PolicyLRU})

	c.Set("old", 1)
	time.Sleep(40 * time.Millisecond)
	c.Set("fresh", 2)

	removed := c.EvictExpired()
	if removed != 1 {
		t.Fatalf("expected 1 expired entry removed, got %d", removed)
	}
	if !c.Has("fresh") {
		t.Fatal("fresh entry must survive EvictExpired")
	}
}

func TestBoundedCache_HitRate(t *testing.T) {
	c := New(Config{MaxEntries: 10, TTL: time.Minute, Policy: PolicyLRU})

	if got := c.Stats().HitRate; got != 0 {
		t.Fatalf("hit rate with no accesses must be 0, got %f", got)
	}

	c.Set("a", 1)
	c.Get("a")
	c.Get("a")
	c.Get("missing")
	c.Get("missing")

	if got := c.Stats().HitRate; got != 0.5 {
		t.Fatalf("expected hit rate 0.5, got %f", got)
	}
}

func TestBoundedCache_KeysInAccessOrder(t *testing.T) {
	c := New(Config{MaxEntries: 10, TTL: time.Minute, Policy: PolicyLRU})

	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("c", 3)
	c.Get("a")

	keys := c.Keys()
	if len(keys) != 3 {
		t.Fatalf("expected 3 keys, got %d", len(keys))
	}
	if keys[len(keys)-1] != "a" {
		t.Fatalf("expected most recently accessed key last, got %v", keys)
	}
}
