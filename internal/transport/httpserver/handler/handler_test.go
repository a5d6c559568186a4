package handler

import (
	"context"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/gofiber/template/html/v2"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"media-search-service/internal/domain"
	"media-search-service/web"
)

// fakeMedia records the queries it receives and returns canned envelopes.
type fakeMedia struct {
	mu      sync.Mutex
	shorts  domain.Envelope
	images  domain.Envelope
	queries map[string]domain.SearchQuery
}

func newFakeMedia(shorts, images domain.Envelope) *fakeMedia {
	return &fakeMedia{shorts: shorts, images: images, queries: make(map[string]domain.SearchQuery)}
}

func (f *fakeMedia) Shorts(_ context.Context, q domain.SearchQuery) domain.Envelope {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries["shorts"] = q

	return f.shorts
}

func (f *fakeMedia) Images(_ context.Context, q domain.SearchQuery) domain.Envelope {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries["images"] = q

	return f.images
}

func (f *fakeMedia) query(op string) (domain.SearchQuery, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	q, ok := f.queries[op]

	return q, ok
}

func newTestApp(media MediaSearcher) *fiber.App {
	app := fiber.New(fiber.Config{
		Views: html.NewFileSystem(web.Templates(), ".html"),
	})

	mh := NewMediaHandler(media)
	ph := NewPageHandler(media, session.New(), zap.NewNop())

	app.Get("/", ph.Index)
	app.Post("/", ph.Search)
	app.Get("/results", ph.Results)
	app.Get("/api/v1/shorts", mh.Shorts)
	app.Get("/api/v1/images", mh.Images)

	return app
}

func doRequest(t *testing.T, app *fiber.App, req *http.Request) (*http.Response, string) {
	t.Helper()

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp, string(body)
}

func formRequest(target, body string) *http.Request {
	req, _ := http.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationForm)

	return req
}

// sessionCookie returns the "name=value" part of the first Set-Cookie header.
func sessionCookie(resp *http.Response) string {
	raw := resp.Header.Get(fiber.HeaderSetCookie)
	name, _, _ := strings.Cut(raw, ";")

	return name
}
