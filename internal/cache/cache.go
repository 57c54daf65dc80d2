// Package cache provides the freshness layer between the service and its
// upstream providers. Entries carry per-call TTLs because freshness
// requirements differ sharply by data class, and every write also lands in
// an unbounded stale tier so a provider outage degrades to slightly old
// data instead of an empty result.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Default TTLs per data class.
const (
	TTLSchedule  = 30 * time.Minute // scores, scoreboard, standings
	TTLTeamStats = 60 * time.Minute // team season statistics
	TTLOdds      = 15 * time.Minute // odds quotes
	TTLPlayers   = 60 * time.Minute // player-stats provider data
)

type entry struct {
	value     interface{}
	expiresAt time.Time
}

// Cache is a concurrent key/value store with per-entry expiry, a stale
// fallback tier, and an optional Redis mirror so multiple instances share
// warm data. All Redis failures are soft: the memory tiers always answer.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry
	stale   map[string]interface{}
	hits    uint64
	misses  uint64

	rdb    *redis.Client // nil when no shared tier is configured
	logger *logrus.Logger
}

// New creates a cache. rdb may be nil to run memory-only.
func New(rdb *redis.Client, logger *logrus.Logger) *Cache {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Cache{
		entries: make(map[string]entry),
		stale:   make(map[string]interface{}),
		rdb:     rdb,
		logger:  logger,
	}
}

// Get returns the value for key if it has not expired.
func (c *Cache) Get(key string) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if ok && time.Now().Before(e.expiresAt) {
		c.hits++
		return e.value, true
	}
	c.misses++
	return nil, false
}

// GetStale returns the last value ever stored under key, regardless of
// expiry. Used as a fallback when a fresh fetch fails.
func (c *Cache) GetStale(key string) (interface{}, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	v, ok := c.stale[key]
	return v, ok
}

// Set stores value under key with the given TTL and unconditionally
// overwrites the stale slot. When a Redis tier is configured the value is
// mirrored there with the same TTL.
func (c *Cache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	c.mu.Lock()
	c.entries[key] = entry{value: value, expiresAt: time.Now().Add(ttl)}
	c.stale[key] = value
	c.mu.Unlock()

	if c.rdb != nil {
		data, err := json.Marshal(value)
		if err != nil {
			c.logger.Warnf("Cache: failed to marshal %s for redis mirror: %v", key, err)
			return
		}
		if err := c.rdb.Set(ctx, key, data, ttl).Err(); err != nil {
			c.logger.Warnf("Cache: redis mirror set failed for %s: %v", key, err)
		}
	}
}

// Stats is a point-in-time view of cache effectiveness.
type Stats struct {
	Hits    uint64 `json:"hits"`
	Misses  uint64 `json:"misses"`
	Keys    int    `json:"keys"`
	HitRate string `json:"hit_rate"`
}

// GetStats returns hit/miss counters for monitoring.
func (c *Cache) GetStats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	total := c.hits + c.misses
	rate := "0%"
	if total > 0 {
		rate = fmt.Sprintf("%.1f%%", float64(c.hits)/float64(total)*100)
	}
	return Stats{
		Hits:    c.hits,
		Misses:  c.misses,
		Keys:    len(c.entries),
		HitRate: rate,
	}
}

// Flush clears both tiers and resets counters. Intended for tests and
// manual refresh.
func (c *Cache) Flush() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]entry)
	c.stale = make(map[string]interface{})
	c.hits = 0
	c.misses = 0
}

// redisLookup tries the shared tier. Returns false on any miss or error.
func redisLookup[T any](ctx context.Context, c *Cache, key string) (T, bool) {
	var zero T
	if c.rdb == nil {
		return zero, false
	}

	data, err := c.rdb.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warnf("Cache: redis lookup failed for %s: %v", key, err)
		}
		return zero, false
	}

	var v T
	if err := json.Unmarshal([]byte(data), &v); err != nil {
		c.logger.Warnf("Cache: redis value for %s is not decodable: %v", key, err)
		return zero, false
	}
	return v, true
}

// GetOrFetch returns the cached value for key, or invokes fetch on a miss.
// A successful non-nil fetch result is stored in every tier and returned.
// Fetch failures are swallowed at this layer: the stale slot is served if
// one exists (with a log line), otherwise absence is reported. Callers must
// treat absence as "no data available", never as an error to propagate.
func GetOrFetch[T any](ctx context.Context, c *Cache, key string, ttl time.Duration, fetch func(context.Context) (T, error)) (T, bool) {
	var zero T

	if v, ok := c.Get(key); ok {
		if typed, ok := v.(T); ok {
			return typed, true
		}
	}

	if v, ok := redisLookup[T](ctx, c, key); ok {
		c.mu.Lock()
		c.entries[key] = entry{value: v, expiresAt: time.Now().Add(ttl)}
		c.stale[key] = v
		c.mu.Unlock()
		return v, true
	}

	v, err := fetch(ctx)
	if err == nil && !isNil(v) {
		c.Set(ctx, key, v, ttl)
		return v, true
	}
	if err != nil {
		c.logger.Warnf("Cache: fetch failed for %s: %v", key, err)
	}

	if stale, ok := c.GetStale(key); ok {
		if typed, ok := stale.(T); ok {
			c.logger.Infof("Cache: serving stale value for %s", key)
			return typed, true
		}
	}

	return zero, false
}

// isNil reports whether v is a nil pointer, slice, or map hiding behind a
// non-nil interface.
func isNil(v interface{}) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Slice, reflect.Map, reflect.Interface, reflect.Chan, reflect.Func:
		return rv.IsNil()
	}
	return false
}
