package domain

import (
	"context"
	"time"
)

// VideoProvider searches an external video index.
// Implementations: internal/infra/provider/youtube/
type VideoProvider interface {
	// Name returns the unique identifier for this provider.
	Name() string

	// SearchVideos returns up to maxResults watch URLs in upstream relevance order.
	SearchVideos(ctx context.Context, searchTerm string, maxResults int) ([]MediaResult, error)

	// HealthCheck verifies the provider is accessible.
	HealthCheck(ctx context.Context) error
}

// PhotoProvider searches an external photo feed.
// Implementations: internal/infra/provider/flickr/
type PhotoProvider interface {
	// Name returns the unique identifier for this provider.
	Name() string

	// SearchPhotos returns the media URLs of the feed tagged with searchTerm.
	SearchPhotos(ctx context.Context, searchTerm string) ([]MediaResult, error)

	// HealthCheck verifies the provider is accessible.
	HealthCheck(ctx context.Context) error
}

// Cache defines the interface for caching operations.
// Implementations: internal/infra/memory/cache.go, internal/infra/redis/cache.go
type Cache interface {
	// Get retrieves a value by key. Returns nil if not found or expired.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value with the given TTL.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Clear removes all cached values.
	Clear(ctx context.Context) error

	// Ping verifies the backing store is reachable.
	Ping(ctx context.Context) error
}
