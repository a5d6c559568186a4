package httpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"media-search-service/internal/app/service"
	"media-search-service/internal/domain"
	"media-search-service/internal/infra/memory"
	"media-search-service/internal/infra/provider/registry"
	"media-search-service/internal/job"
	"media-search-service/internal/validator"
	"media-search-service/pkg/locker"
	"media-search-service/pkg/sampler"
)

type stubVideo struct {
	calls atomic.Int32
	ids   []string
	err   error
}

func (s *stubVideo) Name() string { return "youtube" }

func (s *stubVideo) SearchVideos(_ context.Context, _ string, maxResults int) ([]domain.MediaResult, error) {
	s.calls.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	results := make([]domain.MediaResult, 0, maxResults)
	for i, id := range s.ids {
		if i == maxResults {
			break
		}
		results = append(results, domain.MediaResult{URL: domain.WatchURL(id)})
	}

	return results, nil
}

func (s *stubVideo) HealthCheck(context.Context) error { return s.err }

type stubPhoto struct {
	calls atomic.Int32
	count int
	err   error
}

func (s *stubPhoto) Name() string { return "flickr" }

func (s *stubPhoto) SearchPhotos(context.Context, string) ([]domain.MediaResult, error) {
	s.calls.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	results := make([]domain.MediaResult, s.count)
	for i := range results {
		results[i] = domain.MediaResult{URL: fmt.Sprintf("https://live.staticflickr.com/%d_m.jpg", i)}
	}

	return results, nil
}

func (s *stubPhoto) HealthCheck(context.Context) error { return s.err }

type testServer struct {
	server *Server
	video  *stubVideo
	photo  *stubPhoto
}

func newTestServer(t *testing.T, rateLimit int) *testServer {
	t.Helper()

	video := &stubVideo{ids: []string{"a1", "b2", "c3", "d4", "e5"}}
	photo := &stubPhoto{count: 10}
	store := memory.NewCache(zap.NewNop(), "test")
	cache := service.NewResultCache(store, service.ResultCacheConfig{TTL: 10 * time.Minute}, zap.NewNop())
	media := service.NewMediaService(video, photo, cache, sampler.NewSeeded(1), validator.New(), zap.NewNop())
	warmup := job.NewWarmupScheduler(
		service.NewWarmupService(media, []string{"cats"}, zap.NewNop()),
		job.WarmupConfig{Interval: time.Minute, Timeout: time.Second},
		zap.NewNop(),
		locker.NewLocalLocker(),
	)

	server := NewServer(ServerConfig{
		RateLimit:     rateLimit,
		SessionSecret: "test-secret",
	}, Dependencies{
		Media:     media,
		Cache:     media,
		Providers: registry.Providers{Video: video, Photo: photo},
		Warmup:    warmup,
		Store:     store,
	}, zap.NewNop())

	return &testServer{server: server, video: video, photo: photo}
}

func (ts *testServer) get(t *testing.T, target string) (*http.Response, string) {
	t.Helper()

	resp, err := ts.server.App.Test(httptest.NewRequest(http.MethodGet, target, nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp, string(body)
}

func decodeURLs(t *testing.T, body string) []string {
	t.Helper()

	var payload struct {
		URLs []string `json:"urls"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &payload))

	return payload.URLs
}

func TestServer_Images_ReturnsThreeOfTen(t *testing.T) {
	ts := newTestServer(t, 0)

	resp, body := ts.get(t, "/api/v1/images?search_term=cat")

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decodeURLs(t, body), 3)
}

func TestServer_Shorts_EmptyTerm(t *testing.T) {
	ts := newTestServer(t, 0)

	resp, body := ts.get(t, "/api/v1/shorts?search_term=&max_results=5")

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.JSONEq(t, `{"errors":{"search_term":"String should have at least 1 character"}}`, body)
	assert.Zero(t, ts.video.calls.Load())
}

func TestServer_Shorts_WatchURLs(t *testing.T) {
	ts := newTestServer(t, 0)

	resp, body := ts.get(t, "/api/v1/shorts?search_term=cat&max_results=5")

	require.Equal(t, http.StatusOK, resp.StatusCode)
	urls := decodeURLs(t, body)
	require.Len(t, urls, 5)
	for _, u := range urls {
		assert.True(t, strings.HasPrefix(u, "https://www.youtube.com/watch?v="), u)
	}
}

func TestServer_Shorts_UpstreamFailureIsGeneric(t *testing.T) {
	ts := newTestServer(t, 0)
	ts.video.err = &domain.UpstreamError{
		Provider: domain.ProviderKindVideo,
		Err:      fmt.Errorf("returned status 403: quotaExceeded"),
	}

	resp, body := ts.get(t, "/api/v1/shorts?search_term=cat&max_results=5")

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.JSONEq(t, `{"error":"Failed to fetch data from YouTube"}`, body)
	assert.NotContains(t, body, "quotaExceeded")
}

func TestServer_Shorts_MemoizedWithinWindow(t *testing.T) {
	ts := newTestServer(t, 0)

	_, first := ts.get(t, "/api/v1/shorts?search_term=cat&max_results=3")
	_, second := ts.get(t, "/api/v1/shorts?search_term=cat&max_results=3")

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), ts.video.calls.Load())
}

func TestServer_Probes(t *testing.T) {
	ts := newTestServer(t, 0)

	resp, _ := ts.get(t, "/livez")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = ts.get(t, "/readyz")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestServer_Metrics(t *testing.T) {
	ts := newTestServer(t, 0)
	ts.get(t, "/api/v1/images?search_term=cat")

	resp, body := ts.get(t, "/metrics")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "media_search_http_requests_total")
	assert.Contains(t, body, "media_search_cache_lookups_total")
}

func TestServer_NotFoundIsJSON(t *testing.T) {
	ts := newTestServer(t, 0)

	resp, body := ts.get(t, "/api/v1/unknown")

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, body, `"error"`)
}

func TestServer_RateLimit(t *testing.T) {
	ts := newTestServer(t, 2)

	for i := 0; i < 2; i++ {
		resp, _ := ts.get(t, "/api/v1/images?search_term=cat")
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}

	resp, body := ts.get(t, "/api/v1/images?search_term=cat")
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.JSONEq(t, `{"error":"Too many requests"}`, body)

	// pages are not limited
	resp, _ = ts.get(t, "/")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestServer_FlashCookieIsEncrypted(t *testing.T) {
	ts := newTestServer(t, 0)

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("search_term="))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := ts.server.App.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusFound, resp.StatusCode)

	cookie, _, _ := strings.Cut(resp.Header.Get("Set-Cookie"), ";")
	require.True(t, strings.HasPrefix(cookie, defaultSessionCookie+"="), cookie)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Cookie", cookie)
	resp, err = ts.server.App.Test(req, -1)
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)

	assert.Contains(t, string(body), "Search term is required")
}

func TestServer_AdminWarmupThenCacheHit(t *testing.T) {
	ts := newTestServer(t, 0)

	resp, err := ts.server.App.Test(httptest.NewRequest(http.MethodPost, "/api/v1/admin/warmup", nil), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	ts.get(t, "/api/v1/shorts?search_term=cats")
	ts.get(t, "/api/v1/images?search_term=cats")

	assert.Equal(t, int32(1), ts.video.calls.Load())
	assert.Equal(t, int32(1), ts.photo.calls.Load())

	resp, err = ts.server.App.Test(httptest.NewRequest(http.MethodDelete, "/api/v1/admin/cache", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	ts.get(t, "/api/v1/shorts?search_term=cats")
	assert.Equal(t, int32(2), ts.video.calls.Load())
}

func TestServer_AdminWarmupRepeatable(t *testing.T) {
	ts := newTestServer(t, 0)

	for i := 0; i < 2; i++ {
		resp, err := ts.server.App.Test(httptest.NewRequest(http.MethodPost, "/api/v1/admin/warmup", nil), -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	}

	assert.Equal(t, int32(2), ts.video.calls.Load(), "each manual run refreshes upstream")
}

func TestCookieKey(t *testing.T) {
	key := cookieKey("secret_key")

	assert.Len(t, key, 44)
	assert.Equal(t, key, cookieKey("secret_key"))
	assert.NotEqual(t, key, cookieKey("other"))
}
