// Package flickr implements the photo provider on top of the Flickr public
// photo feed.
package flickr

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"media-search-service/internal/domain"
	"media-search-service/internal/infra/provider"
	"media-search-service/internal/metrics"
)

// FeedEndpoint is the path of the public photos feed.
const FeedEndpoint = "/services/feeds/photos_public.gne"

// Client implements domain.PhotoProvider for Flickr.
type Client struct {
	name   string
	client *resty.Client
	cb     *gobreaker.CircuitBreaker[*resty.Response]
	logger *zap.Logger
}

// New creates a new Flickr client. The public feed needs no API key.
func New(cfg provider.ClientConfig, logger *zap.Logger) *Client {
	return &Client{
		name:   "flickr",
		client: provider.NewRestyClient(cfg),
		cb:     provider.NewCircuitBreaker[*resty.Response]("flickr", cfg.CB, logger),
		logger: logger,
	}
}

// Name returns the provider identifier.
func (c *Client) Name() string {
	return c.name
}

// SearchPhotos returns the medium-size media URLs of the feed tagged with searchTerm.
func (c *Client) SearchPhotos(ctx context.Context, searchTerm string) ([]domain.MediaResult, error) {
	start := time.Now()
	resp, err := c.cb.Execute(func() (*resty.Response, error) {
		r, err := c.client.R().
			SetContext(ctx).
			SetQueryParams(feedParams(searchTerm)).
			Get(FeedEndpoint)
		if err != nil {
			return nil, err
		}
		if r.IsError() {
			return nil, fmt.Errorf("flickr returned status %d", r.StatusCode())
		}

		return r, nil
	})
	metrics.ObserveProvider(c.name, start, err)

	if err != nil {
		c.logger.Warn("flickr feed fetch failed",
			zap.Error(err),
			zap.String("search_term", searchTerm),
			zap.String("state", c.cb.State().String()),
		)

		return nil, c.fail(err)
	}

	feed, err := decodeFeed(resp.Body())
	if err != nil {
		c.logger.Warn("flickr feed decode failed",
			zap.Error(err),
			zap.Int("bytes", len(resp.Body())),
		)

		return nil, c.fail(err)
	}

	results := feed.mediaURLs()

	c.logger.Debug("flickr feed fetch completed",
		zap.String("search_term", searchTerm),
		zap.Int("count", len(results)),
	)

	return results, nil
}

// HealthCheck verifies the feed is reachable.
func (c *Client) HealthCheck(ctx context.Context) error {
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(feedParams("")).
		Get(FeedEndpoint)
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("health check returned status %d", resp.StatusCode())
	}

	return nil
}

func (c *Client) fail(err error) error {
	return &domain.UpstreamError{
		Provider: domain.ProviderKindPhoto,
		Err:      fmt.Errorf("fetching flickr feed: %w", err),
	}
}

func feedParams(tags string) map[string]string {
	params := map[string]string{
		"format":         "json",
		"nojsoncallback": "1",
	}
	if tags != "" {
		params["tags"] = tags
	}

	return params
}
