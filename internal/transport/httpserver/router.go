// Package httpserver provides HTTP server and routing.
package httpserver

import (
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/encryptcookie"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/gofiber/template/html/v2"
	"go.uber.org/zap"

	"media-search-service/internal/metrics"
	"media-search-service/internal/transport/httpserver/dto"
	"media-search-service/internal/transport/httpserver/handler"
	"media-search-service/internal/transport/httpserver/middleware"
	"media-search-service/web"
)

// ServerConfig holds server configuration.
type ServerConfig struct {
	Port      int
	BodyLimit int
	Debug     bool
	RateLimit int // requests per minute per IP on /api, 0 disables

	SessionSecret     string
	SessionCookieName string
	SessionExpiration time.Duration
}

const defaultSessionCookie = "media_search_session"

// Dependencies are the application components the routes call into.
type Dependencies struct {
	Media     handler.MediaSearcher
	Cache     handler.CacheClearer
	Providers handler.HealthChecker
	Warmup    handler.WarmupTrigger
	Store     middleware.Pinger
}

// Server wraps Fiber app with handlers.
type Server struct {
	App    *fiber.App
	Logger *zap.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(cfg ServerConfig, deps Dependencies, logger *zap.Logger) *Server {
	engine := html.NewFileSystem(web.Templates(), ".html")
	if cfg.Debug {
		engine.Reload(true)
	}

	app := fiber.New(fiber.Config{
		AppName:      "media-search-service",
		BodyLimit:    cfg.BodyLimit,
		ErrorHandler: errorHandler(logger),
		Views:        engine,
	})

	// Health check middleware MUST be registered BEFORE other middleware
	// for Kubernetes probes to work even during high load
	app.Use(middleware.NewHealthCheck(deps.Store))

	app.Use(requestid.New())
	app.Use(middleware.Recover(logger))
	app.Use(middleware.Logger(logger))
	app.Use(compress.New())
	app.Use(encryptcookie.New(encryptcookie.Config{
		Key: cookieKey(cfg.SessionSecret),
	}))

	cookieName := cfg.SessionCookieName
	if cookieName == "" {
		cookieName = defaultSessionCookie
	}
	sessions := session.New(session.Config{
		Expiration:     cfg.SessionExpiration,
		KeyLookup:      "cookie:" + cookieName,
		CookieHTTPOnly: true,
		CookieSameSite: fiber.CookieSameSiteLaxMode,
	})

	mediaHandler := handler.NewMediaHandler(deps.Media)
	pageHandler := handler.NewPageHandler(deps.Media, sessions, logger)
	adminHandler := handler.NewAdminHandler(deps.Providers, deps.Cache, deps.Warmup, logger)

	registerRoutes(app, cfg, mediaHandler, pageHandler, adminHandler)

	return &Server{
		App:    app,
		Logger: logger,
	}
}

// registerRoutes sets up all routes.
func registerRoutes(
	app *fiber.App,
	cfg ServerConfig,
	mediaHandler *handler.MediaHandler,
	pageHandler *handler.PageHandler,
	adminHandler *handler.AdminHandler,
) {
	// Health checks are handled by middleware (/livez, /readyz)

	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))

	// Pages (HTML)
	app.Get("/", pageHandler.Index)
	app.Post("/", pageHandler.Search)
	app.Get("/results", pageHandler.Results)

	// API v1 routes
	v1 := app.Group("/api/v1")
	if cfg.RateLimit > 0 {
		v1.Use(limiter.New(limiter.Config{
			Max:        cfg.RateLimit,
			Expiration: time.Minute,
			LimitReached: func(c *fiber.Ctx) error {
				return c.Status(fiber.StatusTooManyRequests).JSON(dto.ErrorResponse{
					Error: "Too many requests",
				})
			},
		}))
	}

	v1.Get("/shorts", mediaHandler.Shorts)
	v1.Get("/images", mediaHandler.Images)

	admin := v1.Group("/admin")
	admin.Get("/providers", adminHandler.GetProviders)
	admin.Delete("/cache", adminHandler.ClearCache)
	admin.Post("/warmup", adminHandler.Warmup)
}

// cookieKey derives the 32-byte encryptcookie key from the session secret.
func cookieKey(secret string) string {
	sum := sha256.Sum256([]byte(secret))

	return base64.StdEncoding.EncodeToString(sum[:])
}

// errorHandler returns a custom error handler that logs based on HTTP status code.
// 404s are logged at DEBUG level (expected client behavior), 4xx at WARN, 5xx at ERROR.
// Only fiber errors carry their message to the client.
func errorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := "Internal server error"

		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
			message = fe.Message
		}

		switch {
		case code == fiber.StatusNotFound:
			logger.Debug("resource not found",
				zap.String("path", c.Path()),
				zap.String("method", c.Method()),
			)
		case code >= 500:
			logger.Error("server error",
				zap.Error(err),
				zap.Int("status", code),
				zap.String("path", c.Path()),
			)
		default:
			logger.Warn("client error",
				zap.Error(err),
				zap.Int("status", code),
				zap.String("path", c.Path()),
			)
		}

		return c.Status(code).JSON(dto.ErrorResponse{Error: message})
	}
}

// Start starts the HTTP server.
func (s *Server) Start(port int) error {
	s.Logger.Info("starting HTTP server", zap.Int("port", port))

	return s.App.Listen(fmt.Sprintf(":%d", port))
}
