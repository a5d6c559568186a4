// Package handler provides HTTP handlers for the API.
package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"media-search-service/internal/domain"
	"media-search-service/internal/transport/httpserver/dto"
)

// MediaSearcher answers the two search queries.
type MediaSearcher interface {
	Shorts(ctx context.Context, query domain.SearchQuery) domain.Envelope
	Images(ctx context.Context, query domain.SearchQuery) domain.Envelope
}

// MediaHandler serves the JSON search endpoints.
type MediaHandler struct {
	media MediaSearcher
}

// NewMediaHandler creates a new MediaHandler.
func NewMediaHandler(media MediaSearcher) *MediaHandler {
	return &MediaHandler{media: media}
}

// Shorts handles GET /api/v1/shorts
func (h *MediaHandler) Shorts(c *fiber.Ctx) error {
	env := h.media.Shorts(c.UserContext(), dto.SearchQueryFromArgs(c.Queries()))

	return writeEnvelope(c, env)
}

// Images handles GET /api/v1/images
func (h *MediaHandler) Images(c *fiber.Ctx) error {
	env := h.media.Images(c.UserContext(), dto.SearchQueryFromArgs(c.Queries()))

	return writeEnvelope(c, env)
}

func writeEnvelope(c *fiber.Ctx, env domain.Envelope) error {
	return c.Status(env.Status).JSON(dto.FromEnvelope(env))
}
