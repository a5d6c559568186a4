package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"media-search-service/internal/domain"
)

type stubVideoProvider struct {
	calls   atomic.Int32
	results []domain.MediaResult
	err     error
	delay   time.Duration
}

func (p *stubVideoProvider) Name() string { return "stub-video" }

func (p *stubVideoProvider) SearchVideos(ctx context.Context, _ string, maxResults int) ([]domain.MediaResult, error) {
	p.calls.Add(1)
	if p.delay > 0 {
		time.Sleep(p.delay)
	}
	if p.err != nil {
		return nil, p.err
	}
	if maxResults < len(p.results) {
		return p.results[:maxResults], nil
	}

	return p.results, nil
}

func (p *stubVideoProvider) HealthCheck(context.Context) error { return p.err }

type stubPhotoProvider struct {
	calls   atomic.Int32
	results []domain.MediaResult
	err     error
}

func (p *stubPhotoProvider) Name() string { return "stub-photo" }

func (p *stubPhotoProvider) SearchPhotos(context.Context, string) ([]domain.MediaResult, error) {
	p.calls.Add(1)
	if p.err != nil {
		return nil, p.err
	}

	return p.results, nil
}

func (p *stubPhotoProvider) HealthCheck(context.Context) error { return p.err }

// brokenStore fails every operation.
type brokenStore struct{}

var errStoreDown = errors.New("store down")

func (brokenStore) Get(context.Context, string) ([]byte, error)              { return nil, errStoreDown }
func (brokenStore) Set(context.Context, string, []byte, time.Duration) error { return errStoreDown }
func (brokenStore) Clear(context.Context) error                              { return errStoreDown }
func (brokenStore) Ping(context.Context) error                               { return errStoreDown }

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func videoIDs(n int) []domain.MediaResult {
	results := make([]domain.MediaResult, n)
	for i := range results {
		results[i] = domain.MediaResult{URL: domain.WatchURL(fmt.Sprintf("vid%d", i+1))}
	}

	return results
}

func photoURLs(n int) []domain.MediaResult {
	results := make([]domain.MediaResult, n)
	for i := range results {
		results[i] = domain.MediaResult{URL: fmt.Sprintf("https://live.staticflickr.com/%d_m.jpg", i+1)}
	}

	return results
}

func upstreamFailure(kind domain.ProviderKind) error {
	return &domain.UpstreamError{Provider: kind, Err: errors.New("returned status 503")}
}
