// Package registry builds the configured provider clients.
package registry

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"media-search-service/internal/config"
	"media-search-service/internal/domain"
	"media-search-service/internal/infra/provider"
	"media-search-service/internal/infra/provider/flickr"
	"media-search-service/internal/infra/provider/youtube"
)

// Providers groups the two upstreams the service aggregates.
type Providers struct {
	Video domain.VideoProvider
	Photo domain.PhotoProvider
}

// NewProviders creates all configured provider clients.
// This is a factory function that centralizes provider initialization
// while maintaining dependency injection principles.
func NewProviders(cfg config.ProviderConfig, logger *zap.Logger) Providers {
	return Providers{
		Video: youtube.New(clientConfig(cfg.Video), logger),
		Photo: flickr.New(clientConfig(cfg.Photo), logger),
	}
}

// HealthStatus is the result of probing one provider.
type HealthStatus struct {
	Provider string
	Kind     domain.ProviderKind
	Err      error
}

// CheckHealth probes both providers concurrently.
func (p Providers) CheckHealth(ctx context.Context) []HealthStatus {
	statuses := []HealthStatus{
		{Provider: p.Video.Name(), Kind: domain.ProviderKindVideo},
		{Provider: p.Photo.Name(), Kind: domain.ProviderKindPhoto},
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		statuses[0].Err = p.Video.HealthCheck(ctx)
	}()
	go func() {
		defer wg.Done()
		statuses[1].Err = p.Photo.HealthCheck(ctx)
	}()
	wg.Wait()

	return statuses
}

func clientConfig(ep config.ProviderEndpoint) provider.ClientConfig {
	return provider.ClientConfig{
		BaseURL: ep.BaseURL,
		APIKey:  ep.APIKey,
		Timeout: ep.Timeout,
		Retry: provider.RetryConfig{
			MaxAttempts: ep.Retry.MaxAttempts,
			WaitTime:    ep.Retry.WaitTime,
			MaxWaitTime: ep.Retry.MaxWaitTime,
		},
		CB: provider.CBConfig{
			MaxRequests:  ep.CB.MaxRequests,
			Interval:     ep.CB.Interval,
			Timeout:      ep.CB.Timeout,
			FailureRatio: ep.CB.FailureRatio,
		},
	}
}
