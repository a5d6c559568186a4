// Package youtube implements the video search provider on top of the
// YouTube Data API v3.
package youtube

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
	ytapi "google.golang.org/api/youtube/v3"

	"media-search-service/internal/domain"
	"media-search-service/internal/infra/provider"
	"media-search-service/internal/metrics"
)

const (
	// SearchEndpoint is the API path of the search.list method.
	SearchEndpoint = "/youtube/v3/search"

	// CategoriesEndpoint is a 1-quota-unit method used for health checks.
	CategoriesEndpoint = "/youtube/v3/videoCategories"

	// apiKeyHeader keeps the key out of request URLs, and so out of logged errors.
	apiKeyHeader = "X-Goog-Api-Key"
)

// Client implements domain.VideoProvider for YouTube.
type Client struct {
	name   string
	apiKey string
	client *resty.Client
	cb     *gobreaker.CircuitBreaker[*resty.Response]
	logger *zap.Logger
}

// New creates a new YouTube client. A missing API key is not an error here;
// every call fails with domain.ErrMissingAPIKey instead.
func New(cfg provider.ClientConfig, logger *zap.Logger) *Client {
	return &Client{
		name:   "youtube",
		apiKey: cfg.APIKey,
		client: provider.NewRestyClient(cfg),
		cb:     provider.NewCircuitBreaker[*resty.Response]("youtube", cfg.CB, logger),
		logger: logger,
	}
}

// Name returns the provider identifier.
func (c *Client) Name() string {
	return c.name
}

// SearchVideos returns watch URLs for up to maxResults videos matching
// searchTerm, in the order YouTube ranked them.
func (c *Client) SearchVideos(ctx context.Context, searchTerm string, maxResults int) ([]domain.MediaResult, error) {
	if c.apiKey == "" {
		return nil, c.fail(domain.ErrMissingAPIKey)
	}

	start := time.Now()
	resp, err := c.cb.Execute(func() (*resty.Response, error) {
		var result ytapi.SearchListResponse
		r, err := c.client.R().
			SetContext(ctx).
			SetHeader(apiKeyHeader, c.apiKey).
			SetQueryParams(map[string]string{
				"part":       "snippet",
				"q":          searchTerm,
				"type":       "video",
				"maxResults": strconv.Itoa(maxResults),
			}).
			SetResult(&result).
			Get(SearchEndpoint)
		if err != nil {
			return nil, err
		}
		if r.IsError() {
			return nil, fmt.Errorf("youtube returned status %d", r.StatusCode())
		}

		return r, nil
	})
	metrics.ObserveProvider(c.name, start, err)

	if err != nil {
		c.logger.Warn("youtube search failed",
			zap.Error(err),
			zap.String("search_term", searchTerm),
			zap.String("state", c.cb.State().String()),
		)

		return nil, c.fail(err)
	}

	result, ok := resp.Result().(*ytapi.SearchListResponse)
	if !ok || result == nil {
		return nil, c.fail(fmt.Errorf("unexpected youtube payload %T", resp.Result()))
	}

	results := watchURLs(result)

	c.logger.Debug("youtube search completed",
		zap.String("search_term", searchTerm),
		zap.Int("requested", maxResults),
		zap.Int("count", len(results)),
	)

	return results, nil
}

// HealthCheck verifies the API is reachable and the key is accepted.
func (c *Client) HealthCheck(ctx context.Context) error {
	if c.apiKey == "" {
		return domain.ErrMissingAPIKey
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader(apiKeyHeader, c.apiKey).
		SetQueryParams(map[string]string{"part": "snippet", "regionCode": "US"}).
		SetResult(&ytapi.VideoCategoryListResponse{}).
		Get(CategoriesEndpoint)
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
		Provider: domain.ProviderKindVideo,
		Err:      fmt.Errorf("searching youtube: %w", err),
	}
}
