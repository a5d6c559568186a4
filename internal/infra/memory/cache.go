// Package memory provides a process-local implementation of domain.Cache.
package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

type entry struct {
	value     []byte
	expiresAt time.Time
}

func (e entry) expired(now time.Time) bool {
	return !now.Before(e.expiresAt)
}

// DefaultMaxEntries bounds the store when no explicit limit is given.
const DefaultMaxEntries = 500

// Cache is an in-memory key-value store with per-entry TTL. Expired entries
// are dropped when they are next read, and swept in bulk whenever a Set
// finds the store full. If the sweep frees nothing, the entry closest to
// expiry is evicted. Safe for concurrent use.
type Cache struct {
	mu         sync.RWMutex
	items      map[string]entry
	now        func() time.Time
	logger     *zap.Logger
	keyPrefix  string
	maxEntries int
}

// Option configures a Cache.
type Option func(*Cache)

// WithClock replaces time.Now, letting tests control expiry.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		c.now = now
	}
}

// WithMaxEntries caps the number of stored entries. Zero or less disables
// the cap.
func WithMaxEntries(n int) Option {
	return func(c *Cache) {
		c.maxEntries = n
	}
}

// NewCache creates an empty in-memory cache holding at most
// DefaultMaxEntries entries unless WithMaxEntries says otherwise.
func NewCache(logger *zap.Logger, keyPrefix string, opts ...Option) *Cache {
	c := &Cache{
		items:      make(map[string]entry),
		now:        time.Now,
		logger:     logger,
		keyPrefix:  keyPrefix,
		maxEntries: DefaultMaxEntries,
	}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Get returns the value stored under key, or nil if it is absent or expired.
func (c *Cache) Get(_ context.Context, key string) ([]byte, error) {
	fullKey := c.buildKey(key)

	c.mu.RLock()
	e, ok := c.items[fullKey]
	c.mu.RUnlock()

	if !ok {
		return nil, nil
	}

	if e.expired(c.now()) {
		c.mu.Lock()
		// another writer may have refreshed the entry meanwhile
		if cur, ok := c.items[fullKey]; ok && cur.expired(c.now()) {
			delete(c.items, fullKey)
		}
		c.mu.Unlock()

		c.logger.Debug("cache entry expired", zap.String("key", key))

		return nil, nil
	}

	c.logger.Debug("cache hit",
		zap.String("key", key),
		zap.Int("bytes", len(e.value)),
	)

	return e.value, nil
}

// Set stores value under key for ttl, replacing any previous entry.
func (c *Cache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	stored := make([]byte, len(value))
	copy(stored, value)

	fullKey := c.buildKey(key)
	now := c.now()

	c.mu.Lock()
	if _, exists := c.items[fullKey]; !exists && c.maxEntries > 0 && len(c.items) >= c.maxEntries {
		c.makeRoom(now)
	}
	c.items[fullKey] = entry{value: stored, expiresAt: now.Add(ttl)}
	c.mu.Unlock()

	c.logger.Debug("cache set",
		zap.String("key", key),
		zap.Int("bytes", len(value)),
		zap.Duration("ttl", ttl),
	)

	return nil
}

// Clear removes every entry under this cache's key prefix.
func (c *Cache) Clear(_ context.Context) error {
	prefix := c.keyPrefix + ":"

	c.mu.Lock()
	removed := 0
	for k := range c.items {
		if strings.HasPrefix(k, prefix) {
			delete(c.items, k)
			removed++
		}
	}
	c.mu.Unlock()

	c.logger.Info("cache cleared", zap.Int("key_count", removed))

	return nil
}

// Ping always succeeds; the store lives in this process.
func (c *Cache) Ping(_ context.Context) error {
	return nil
}

// Len returns the number of stored entries, expired ones included.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.items)
}

// makeRoom frees at least one slot. Callers hold c.mu.
func (c *Cache) makeRoom(now time.Time) {
	swept := 0
	for k, e := range c.items {
		if e.expired(now) {
			delete(c.items, k)
			swept++
		}
	}
	if swept > 0 {
		c.logger.Debug("cache swept expired entries", zap.Int("key_count", swept))
		return
	}

	var (
		victim   string
		earliest time.Time
	)
	for k, e := range c.items {
		if victim == "" || e.expiresAt.Before(earliest) {
			victim, earliest = k, e.expiresAt
		}
	}
	delete(c.items, victim)

	c.logger.Debug("cache full, evicted entry", zap.String("key", victim))
}

func (c *Cache) buildKey(key string) string {
	return c.keyPrefix + ":" + key
}
