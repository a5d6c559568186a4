package handler

import (
	"net/url"
	"sort"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"media-search-service/internal/domain"
	"media-search-service/internal/transport/httpserver/dto"
)

const (
	flashKey = "flashes"

	// MsgSearchTermRequired is flashed when the search form is submitted empty.
	MsgSearchTermRequired = "Search term is required"
)

// PageHandler serves the HTML search form and results page.
type PageHandler struct {
	media    MediaSearcher
	sessions *session.Store
	logger   *zap.Logger
}

// NewPageHandler creates a new PageHandler.
func NewPageHandler(media MediaSearcher, sessions *session.Store, logger *zap.Logger) *PageHandler {
	return &PageHandler{
		media:    media,
		sessions: sessions,
		logger:   logger,
	}
}

// Index handles GET /
func (h *PageHandler) Index(c *fiber.Ctx) error {
	return c.Render("pages/index", fiber.Map{
		"Title":   "Media Search",
		"Flashes": h.popFlashes(c),
	}, "layouts/base")
}

// Search handles POST / and redirects to the results page.
func (h *PageHandler) Search(c *fiber.Ctx) error {
	term := strings.TrimSpace(c.FormValue(dto.ParamSearchTerm))
	if term == "" {
		return h.redirectWithFlash(c, MsgSearchTermRequired)
	}

	return c.Redirect("/results?" + dto.ParamSearchTerm + "=" + url.QueryEscape(term))
}

// Results handles GET /results
// Both searches run concurrently; the page renders with whichever succeeded.
func (h *PageHandler) Results(c *fiber.Ctx) error {
	term := c.Query(dto.ParamSearchTerm)
	if strings.TrimSpace(term) == "" {
		return h.redirectWithFlash(c, MsgSearchTermRequired)
	}

	query := domain.NewSearchQuery(term, "")
	ctx := c.UserContext()

	var shorts, images domain.Envelope
	var g errgroup.Group
	g.Go(func() error {
		shorts = h.media.Shorts(ctx, query)
		return nil
	})
	g.Go(func() error {
		images = h.media.Images(ctx, query)
		return nil
	})
	_ = g.Wait()

	if shorts.Errors != nil {
		return h.redirectWithFlash(c, fieldMessages(shorts.Errors)...)
	}

	return c.Render("pages/results", fiber.Map{
		"Title":         "Results for " + strings.TrimSpace(term),
		"SearchTerm":    strings.TrimSpace(term),
		"Flashes":       h.popFlashes(c),
		"VideoEmbedURL": domain.EmbedURL(shorts.First()),
		"VideoError":    shorts.Error,
		"ImageURL":      images.First(),
		"ImageError":    images.Error,
	}, "layouts/base")
}

func (h *PageHandler) redirectWithFlash(c *fiber.Ctx, messages ...string) error {
	sess, err := h.sessions.Get(c)
	if err != nil {
		h.logger.Warn("session unavailable, dropping flash", zap.Error(err))

		return c.Redirect("/")
	}

	pending, _ := sess.Get(flashKey).([]string)
	sess.Set(flashKey, append(pending, messages...))
	if err := sess.Save(); err != nil {
		h.logger.Warn("failed to save session", zap.Error(err))
	}

	return c.Redirect("/")
}

func (h *PageHandler) popFlashes(c *fiber.Ctx) []string {
	sess, err := h.sessions.Get(c)
	if err != nil {
		return nil
	}

	flashes, _ := sess.Get(flashKey).([]string)
	if len(flashes) == 0 {
		return nil
	}

	sess.Delete(flashKey)
	if err := sess.Save(); err != nil {
		h.logger.Warn("failed to save session", zap.Error(err))
	}

	return flashes
}

// fieldMessages flattens validation errors in field order.
func fieldMessages(fields map[string]string) []string {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	messages := make([]string, len(names))
	for i, name := range names {
		messages[i] = name + ": " + fields[name]
	}

	return messages
}
