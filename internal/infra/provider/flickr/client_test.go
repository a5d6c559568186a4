package flickr

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"media-search-service/internal/domain"
	"media-search-service/internal/infra/provider"
)

const (
	testBaseURL  = "https://flickr.example.com"
	testEndpoint = testBaseURL + FeedEndpoint
)

func newTestClient() *Client {
	cfg := provider.ClientConfig{
		BaseURL: testBaseURL,
		Timeout: 5 * time.Second,
		CB: provider.CBConfig{
			MaxRequests:  5,
			Interval:     60 * time.Second,
			Timeout:      15 * time.Second,
			FailureRatio: 0.6,
		},
	}
	client := New(cfg, zap.NewNop())

	// Activate httpmock for this client's HTTP transport
	httpmock.ActivateNonDefault(client.client.GetClient())

	return client
}

func mockFeed(n int) Feed {
	items := make([]Item, n)
	for i := range items {
		items[i] = Item{
			Title: fmt.Sprintf("photo %d", i),
			Link:  fmt.Sprintf("https://www.flickr.com/photos/someone/%d/", i),
			Media: Media{M: fmt.Sprintf("https://live.staticflickr.com/65535/%d_abc_m.jpg", i)},
			Tags:  "cat kitten",
		}
	}

	return Feed{Title: "Recent Uploads tagged cat", Items: items}
}

func requireUpstreamError(t *testing.T, err error) {
	t.Helper()

	var upstream *domain.UpstreamError
	require.True(t, errors.As(err, &upstream), "expected UpstreamError, got %v", err)
	assert.Equal(t, domain.ProviderKindPhoto, upstream.Provider)
}

// TestFlickr_SearchPhotos_Success tests media URL extraction.
func TestFlickr_SearchPhotos_Success(t *testing.T) {
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("GET", testEndpoint,
		httpmock.NewJsonResponderOrPanic(200, mockFeed(10)))

	client := newTestClient()
	results, err := client.SearchPhotos(context.Background(), "cat")

	require.NoError(t, err)
	require.Len(t, results, 10)
	assert.Equal(t, "https://live.staticflickr.com/65535/0_abc_m.jpg", results[0].URL)
	assert.Equal(t, "https://live.staticflickr.com/65535/9_abc_m.jpg", results[9].URL)
}

// TestFlickr_SearchPhotos_RequestShape tests the feed query parameters.
func TestFlickr_SearchPhotos_RequestShape(t *testing.T) {
	defer httpmock.DeactivateAndReset()

	var captured *http.Request
	httpmock.RegisterResponder("GET", testEndpoint,
		func(req *http.Request) (*http.Response, error) {
			captured = req

			return httpmock.NewJsonResponse(200, mockFeed(1))
		})

	client := newTestClient()
	_, err := client.SearchPhotos(context.Background(), "sea otter")

	require.NoError(t, err)
	require.NotNil(t, captured)
	assert.Equal(t, "json", captured.URL.Query().Get("format"))
	assert.Equal(t, "1", captured.URL.Query().Get("nojsoncallback"))
	assert.Equal(t, "sea otter", captured.URL.Query().Get("tags"))
}

// TestFlickr_SearchPhotos_InvalidEscapes tests the feed's \' escapes are tolerated.
func TestFlickr_SearchPhotos_InvalidEscapes(t *testing.T) {
	defer httpmock.DeactivateAndReset()

	body := `{"title":"Uploads","items":[{"title":"Bob\'s cat","media":{"m":"https://live.staticflickr.com/1_m.jpg"}}]}`
	httpmock.RegisterResponder("GET", testEndpoint,
		httpmock.NewStringResponder(200, body).HeaderSet(http.Header{"Content-Type": {"application/json"}}))

	client := newTestClient()
	results, err := client.SearchPhotos(context.Background(), "cat")

	require.NoError(t, err)
	assert.Equal(t, []string{"https://live.staticflickr.com/1_m.jpg"}, domain.URLs(results))
}

// TestFlickr_SearchPhotos_SkipsItemsWithoutMedia tests items lacking a media URL.
func TestFlickr_SearchPhotos_SkipsItemsWithoutMedia(t *testing.T) {
	defer httpmock.DeactivateAndReset()

	feed := mockFeed(3)
	feed.Items[1].Media.M = ""
	httpmock.RegisterResponder("GET", testEndpoint,
		httpmock.NewJsonResponderOrPanic(200, feed))

	client := newTestClient()
	results, err := client.SearchPhotos(context.Background(), "cat")

	require.NoError(t, err)
	assert.Len(t, results, 2)
}

// TestFlickr_SearchPhotos_EmptyFeed tests a feed with no items.
func TestFlickr_SearchPhotos_EmptyFeed(t *testing.T) {
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("GET", testEndpoint,
		httpmock.NewJsonResponderOrPanic(200, mockFeed(0)))

	client := newTestClient()
	results, err := client.SearchPhotos(context.Background(), "zzzz")

	require.NoError(t, err)
	assert.Empty(t, results)
}

// TestFlickr_SearchPhotos_HTTPError tests non-success statuses.
func TestFlickr_SearchPhotos_HTTPError(t *testing.T) {
	defer httpmock.DeactivateAndReset()

	for _, status := range []int{400, 404, 500, 503} {
		t.Run(fmt.Sprintf("status %d", status), func(t *testing.T) {
			httpmock.Reset()
			httpmock.RegisterResponder("GET", testEndpoint,
				httpmock.NewStringResponder(status, "Error"))

			client := newTestClient()
			results, err := client.SearchPhotos(context.Background(), "cat")

			require.Error(t, err)
			assert.Nil(t, results)
			requireUpstreamError(t, err)
			assert.Contains(t, err.Error(), fmt.Sprintf("status %d", status))
		})
	}
}

// TestFlickr_SearchPhotos_MalformedBody tests an undecodable payload.
func TestFlickr_SearchPhotos_MalformedBody(t *testing.T) {
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("GET", testEndpoint,
		httpmock.NewStringResponder(200, "jsonFlickrFeed({"))

	client := newTestClient()
	results, err := client.SearchPhotos(context.Background(), "cat")

	require.Error(t, err)
	assert.Nil(t, results)
	requireUpstreamError(t, err)
	assert.Contains(t, err.Error(), "parsing flickr JSON")
}

// TestFlickr_SearchPhotos_NetworkError tests network error handling.
func TestFlickr_SearchPhotos_NetworkError(t *testing.T) {
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("GET", testEndpoint,
		httpmock.NewErrorResponder(fmt.Errorf("network error: connection refused")))

	client := newTestClient()
	results, err := client.SearchPhotos(context.Background(), "cat")

	require.Error(t, err)
	assert.Nil(t, results)
	requireUpstreamError(t, err)
	assert.Contains(t, err.Error(), "fetching flickr feed")
}

// TestFlickr_SearchPhotos_ContextCancellation tests context cancellation handling.
func TestFlickr_SearchPhotos_ContextCancellation(t *testing.T) {
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("GET", testEndpoint,
		func(_ *http.Request) (*http.Response, error) {
			time.Sleep(200 * time.Millisecond)

			return httpmock.NewJsonResponse(200, mockFeed(3))
		})

	client := newTestClient()
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	results, err := client.SearchPhotos(ctx, "cat")

	require.Error(t, err)
	assert.Nil(t, results)
}

// TestFlickr_HealthCheck tests the health probe.
func TestFlickr_HealthCheck(t *testing.T) {
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("GET", testEndpoint,
		httpmock.NewJsonResponderOrPanic(200, mockFeed(1)))

	client := newTestClient()
	require.NoError(t, client.HealthCheck(context.Background()))

	httpmock.Reset()
	httpmock.RegisterResponder("GET", testEndpoint,
		httpmock.NewStringResponder(503, "unavailable"))
	assert.Error(t, client.HealthCheck(context.Background()))
}

// TestFlickr_Name tests the Name method.
func TestFlickr_Name(t *testing.T) {
	defer httpmock.DeactivateAndReset()

	assert.Equal(t, "flickr", newTestClient().Name())
}
