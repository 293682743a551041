package data

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// Observer receives cache hit/miss notifications (e.g. metrics).
type Observer interface {
	CacheHit(name string)
	CacheMiss(name string)
}

// cacheEntry holds a cached value and its expiry
type cacheEntry[T any] struct {
	value     T
	storedAt  time.Time
	expiresAt time.Time
}

// Cache is an explicit, TTL-bound in-memory cache.
//
// Expired entries are not returned by Get but stay available through Peek
// until pruned, so callers can fall back to the last known good value when
// the upstream source fails.
type Cache[T any] struct {
	name string
	mu   sync.RWMutex
	m    map[string]cacheEntry[T]
	ttl  time.Duration
	obs  Observer
	now  func() time.Time
}

// NewCache creates a cache. A ttl <= 0 means entries never expire.
// obs may be nil.
func NewCache[T any](name string, ttl time.Duration, obs Observer) *Cache[T] {
	return &Cache[T]{
		name: name,
		m:    make(map[string]cacheEntry[T]),
		ttl:  ttl,
		obs:  obs,
		now:  time.Now,
	}
}

// Get retrieves a value if present and not expired
func (c *Cache[T]) Get(key string) (T, bool) {
	var zero T
	if c == nil {
		return zero, false
	}
	c.mu.RLock()
	e, ok := c.m[key]
	c.mu.RUnlock()
	if !ok || c.expired(e) {
		if c.obs != nil {
			c.obs.CacheMiss(c.name)
		}
		return zero, false
	}
	if c.obs != nil {
		c.obs.CacheHit(c.name)
	}
	return e.value, true
}

// Peek returns a value regardless of expiry, with the time it was stored.
func (c *Cache[T]) Peek(key string) (T, time.Time, bool) {
	var zero T
	if c == nil {
		return zero, time.Time{}, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.m[key]
	if !ok {
		return zero, time.Time{}, false
	}
	return e.value, e.storedAt, true
}

// Set stores a value
func (c *Cache[T]) Set(key string, v T) {
	if c == nil {
		return
	}
	now := c.now()
	e := cacheEntry[T]{value: v, storedAt: now}
	if c.ttl > 0 {
		e.expiresAt = now.Add(c.ttl)
	}
	c.mu.Lock()
	c.m[key] = e
	c.mu.Unlock()
}

// Invalidate removes one entry.
func (c *Cache[T]) Invalidate(key string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	delete(c.m, key)
	c.mu.Unlock()
}

// Clear removes all entries from the cache
func (c *Cache[T]) Clear() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.m = make(map[string]cacheEntry[T])
	c.mu.Unlock()
}

// Prune removes expired entries and reports how many were dropped.
func (c *Cache[T]) Prune() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for k, e := range c.m {
		if c.expired(e) {
			delete(c.m, k)
			n++
		}
	}
	return n
}

// Len counts stored entries, expired or not.
func (c *Cache[T]) Len() int {
	if c == nil {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.m)
}

func (c *Cache[T]) expired(e cacheEntry[T]) bool {
	return !e.expiresAt.IsZero() && c.now().After(e.expiresAt)
}

// WeatherKey creates a cache key for a weather query
func WeatherKey(q WeatherQuery) string {
	vars := append([]string(nil), q.Variables...)
	sort.Strings(vars)
	keyStr := fmt.Sprintf("weather:%.4f:%.4f:%s:%s:%s",
		q.Latitude,
		q.Longitude,
		q.Start.Format("2006-01-02"),
		q.End.Format("2006-01-02"),
		strings.Join(vars, ","),
	)
	return hashKey(keyStr)
}

// EnergyKey creates a cache key for a document store collection.
func EnergyKey(collection string) string {
	return hashKey("energy:" + collection)
}

func hashKey(s string) string {
	// Hash the key to keep it reasonably sized
	hash := sha256.Sum256([]byte(s))
	return hex.EncodeToString(hash[:])
}
