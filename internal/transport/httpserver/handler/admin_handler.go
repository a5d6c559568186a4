package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"media-search-service/internal/app/service"
	"media-search-service/internal/infra/provider/registry"
	"media-search-service/internal/transport/httpserver/dto"
)

// HealthChecker probes the upstream providers.
type HealthChecker interface {
	CheckHealth(ctx context.Context) []registry.HealthStatus
}

// CacheClearer drops memoized results.
type CacheClearer interface {
	ClearCache(ctx context.Context) error
}

// WarmupTrigger runs a cache warm-up on demand.
type WarmupTrigger interface {
	RunNow(ctx context.Context) ([]service.WarmupResult, bool, error)
}

// AdminHandler handles admin-related HTTP requests.
type AdminHandler struct {
	providers HealthChecker
	cache     CacheClearer
	warmup    WarmupTrigger
	logger    *zap.Logger
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(providers HealthChecker, cache CacheClearer, warmup WarmupTrigger, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		providers: providers,
		cache:     cache,
		warmup:    warmup,
		logger:    logger,
	}
}

// GetProviders handles GET /api/v1/admin/providers
func (h *AdminHandler) GetProviders(c *fiber.Ctx) error {
	resp := dto.FromHealthStatuses(h.providers.CheckHealth(c.UserContext()))

	status := fiber.StatusOK
	for _, p := range resp.Providers {
		if !p.Healthy {
			status = fiber.StatusServiceUnavailable
		}
	}

	return c.Status(status).JSON(resp)
}

// ClearCache handles DELETE /api/v1/admin/cache
func (h *AdminHandler) ClearCache(c *fiber.Ctx) error {
	h.logger.Info("manual cache clear triggered")

	if err := h.cache.ClearCache(c.UserContext()); err != nil {
		h.logger.Error("cache clear failed", zap.Error(err))

		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: "Failed to clear cache",
		})
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// Warmup handles POST /api/v1/admin/warmup
// Responds 409 while another warm-up runs or a scheduled run's cooldown is
// active. A manual run leaves no cooldown, so it can be repeated at once.
func (h *AdminHandler) Warmup(c *fiber.Ctx) error {
	h.logger.Info("manual warm-up triggered")

	results, executed, err := h.warmup.RunNow(c.UserContext())
	if err != nil {
		h.logger.Error("warm-up failed", zap.Error(err))

		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: "Failed to run warm-up",
		})
	}

	if !executed {
		return c.Status(fiber.StatusConflict).JSON(dto.FromWarmupResults(false, nil))
	}

	return c.JSON(dto.FromWarmupResults(true, results))
}
