package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"media-search-service/internal/domain"
	"media-search-service/internal/metrics"
)

// DefaultResultTTL is the memoization window used when none is configured.
const DefaultResultTTL = 600 * time.Second

// ResultCacheConfig holds memoization settings.
type ResultCacheConfig struct {
	TTL            time.Duration
	CoalesceMisses bool
}

// ResultCache memoizes successful provider results for a fixed window.
// Failed fetches are never stored, and a broken store degrades to a miss.
type ResultCache struct {
	store    domain.Cache
	ttl      time.Duration
	coalesce bool
	group    singleflight.Group
	logger   *zap.Logger
}

// NewResultCache creates a ResultCache over the given byte store.
func NewResultCache(store domain.Cache, cfg ResultCacheConfig, logger *zap.Logger) *ResultCache {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultResultTTL
	}

	return &ResultCache{
		store:    store,
		ttl:      cfg.TTL,
		coalesce: cfg.CoalesceMisses,
		logger:   logger,
	}
}

// Videos returns the memoized video search for (searchTerm, maxResults),
// calling the provider on a miss.
func (c *ResultCache) Videos(ctx context.Context, p domain.VideoProvider, searchTerm string, maxResults int) ([]domain.MediaResult, error) {
	return c.memoize(ctx, domain.ProviderKindVideo, VideoKey(searchTerm, maxResults), videoFetch(p, searchTerm, maxResults))
}

// RefreshVideos calls the provider unconditionally and replaces the cached entry.
func (c *ResultCache) RefreshVideos(ctx context.Context, p domain.VideoProvider, searchTerm string, maxResults int) ([]domain.MediaResult, error) {
	return c.fill(ctx, VideoKey(searchTerm, maxResults), videoFetch(p, searchTerm, maxResults))
}

// Photos returns the memoized photo feed for searchTerm, calling the
// provider on a miss.
func (c *ResultCache) Photos(ctx context.Context, p domain.PhotoProvider, searchTerm string) ([]domain.MediaResult, error) {
	return c.memoize(ctx, domain.ProviderKindPhoto, PhotoKey(searchTerm), photoFetch(p, searchTerm))
}

// RefreshPhotos calls the provider unconditionally and replaces the cached entry.
func (c *ResultCache) RefreshPhotos(ctx context.Context, p domain.PhotoProvider, searchTerm string) ([]domain.MediaResult, error) {
	return c.fill(ctx, PhotoKey(searchTerm), photoFetch(p, searchTerm))
}

// Clear drops every memoized result.
func (c *ResultCache) Clear(ctx context.Context) error {
	if err := c.store.Clear(ctx); err != nil {
		return fmt.Errorf("clearing result cache: %w", err)
	}

	return nil
}

// Ping reports whether the backing store is reachable.
func (c *ResultCache) Ping(ctx context.Context) error {
	return c.store.Ping(ctx)
}

// VideoKey builds the cache key for a video search.
func VideoKey(searchTerm string, maxResults int) string {
	return string(domain.ProviderKindVideo) + ":" + searchTerm + ":" + strconv.Itoa(maxResults)
}

// PhotoKey builds the cache key for a photo feed lookup.
func PhotoKey(searchTerm string) string {
	return string(domain.ProviderKindPhoto) + ":" + searchTerm
}

type fetchFunc func(context.Context) ([]domain.MediaResult, error)

func videoFetch(p domain.VideoProvider, searchTerm string, maxResults int) fetchFunc {
	return func(ctx context.Context) ([]domain.MediaResult, error) {
		return p.SearchVideos(ctx, searchTerm, maxResults)
	}
}

func photoFetch(p domain.PhotoProvider, searchTerm string) fetchFunc {
	return func(ctx context.Context) ([]domain.MediaResult, error) {
		return p.SearchPhotos(ctx, searchTerm)
	}
}

func (c *ResultCache) memoize(
	ctx context.Context,
	kind domain.ProviderKind,
	key string,
	fetch fetchFunc,
) ([]domain.MediaResult, error) {
	if results, ok := c.lookup(ctx, kind, key); ok {
		return results, nil
	}

	if !c.coalesce {
		return c.fill(ctx, key, fetch)
	}

	v, err, shared := c.group.Do(key, func() (interface{}, error) {
		return c.fill(ctx, key, fetch)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		c.logger.Debug("coalesced cache miss", zap.String("key", key))
	}

	return v.([]domain.MediaResult), nil
}

func (c *ResultCache) lookup(ctx context.Context, kind domain.ProviderKind, key string) ([]domain.MediaResult, bool) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		metrics.ObserveCache(string(kind), metrics.CacheError)
		c.logger.Warn("cache read failed, treating as miss",
			zap.String("key", key),
			zap.Error(err),
		)

		return nil, false
	}
	if data == nil {
		metrics.ObserveCache(string(kind), metrics.CacheMiss)

		return nil, false
	}

	var results []domain.MediaResult
	if err := json.Unmarshal(data, &results); err != nil {
		metrics.ObserveCache(string(kind), metrics.CacheError)
		c.logger.Warn("cached entry is corrupt, treating as miss",
			zap.String("key", key),
			zap.Error(err),
		)

		return nil, false
	}

	metrics.ObserveCache(string(kind), metrics.CacheHit)

	return results, true
}

func (c *ResultCache) fill(
	ctx context.Context,
	key string,
	fetch fetchFunc,
) ([]domain.MediaResult, error) {
	results, err := fetch(ctx)
	if err != nil {
		return nil, err
	}
	if results == nil {
		results = []domain.MediaResult{}
	}

	data, err := json.Marshal(results)
	if err != nil {
		return nil, fmt.Errorf("encoding results for cache: %w", err)
	}

	if err := c.store.Set(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn("cache write failed",
			zap.String("key", key),
			zap.Error(err),
		)
	}

	return results, nil
}
