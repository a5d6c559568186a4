// Package main is the entry point for the media-search-service API.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"media-search-service/internal/app/service"
	"media-search-service/internal/config"
	"media-search-service/internal/domain"
	"media-search-service/internal/infra/memory"
	"media-search-service/internal/infra/provider/registry"
	rediscache "media-search-service/internal/infra/redis"
	"media-search-service/internal/job"
	"media-search-service/internal/logger"
	"media-search-service/internal/transport/httpserver"
	"media-search-service/internal/validator"
	"media-search-service/pkg/locker"
	"media-search-service/pkg/sampler"
)

func main() {
	// Load configuration
	cfg, err := config.Load(os.Getenv("APP_CONFIG"))
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(
		logger.Config{
			Level:  cfg.Logger.Level,
			Format: cfg.Logger.Format,
			Output: cfg.Logger.Output,
		},
		logger.SentryConfig{
			Enabled:     cfg.Sentry.Enabled,
			DSN:         cfg.Sentry.DSN,
			Environment: cfg.Sentry.Environment,
			SampleRate:  cfg.Sentry.SampleRate,
		},
	)
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting media-search-service",
		zap.String("env", cfg.App.Env),
		zap.Int("port", cfg.App.Port),
		zap.String("cache_driver", cfg.Cache.Driver),
	)

	if cfg.Provider.Video.APIKey == "" {
		log.Warn("video provider api key is not set, shorts requests will fail")
	}

	// Result store and lock backend
	var (
		store      domain.Cache
		distLocker locker.DistributedLocker
	)

	switch cfg.Cache.Driver {
	case config.CacheDriverRedis:
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer func() { _ = redisClient.Close() }()

		// Redis outages degrade to cache misses, so an unreachable server
		// at start-up is not fatal.
		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			log.Error("redis is unreachable, results will not be cached until it recovers", zap.Error(err))
		} else {
			log.Info("connected to Redis", zap.String("addr", cfg.Redis.Addr()))
		}
		cancel()

		store = rediscache.NewCache(redisClient, log.Logger, cfg.Cache.KeyPrefix)
		distLocker = locker.NewRedisLocker(redisClient, log.Logger)
	default:
		store = memory.NewCache(log.Logger, cfg.Cache.KeyPrefix, memory.WithMaxEntries(cfg.Cache.MaxEntries))
		distLocker = locker.NewLocalLocker()
	}

	// Providers and services
	providers := registry.NewProviders(cfg.Provider, log.Logger)

	resultCache := service.NewResultCache(store, service.ResultCacheConfig{
		TTL:            cfg.Cache.TTL,
		CoalesceMisses: cfg.Cache.CoalesceMisses,
	}, log.Logger)

	mediaSvc := service.NewMediaService(
		providers.Video,
		providers.Photo,
		resultCache,
		sampler.New(nil),
		validator.New(),
		log.Logger,
	)
	warmupSvc := service.NewWarmupService(mediaSvc, cfg.Warmup.Terms, log.Logger)

	scheduler := job.NewWarmupScheduler(
		warmupSvc,
		job.WarmupConfig{
			Interval:  cfg.Warmup.Interval,
			Timeout:   cfg.Warmup.Timeout,
			OnStartup: cfg.Warmup.OnStartup,
		},
		log.Logger,
		distLocker,
	)

	// Create HTTP server
	server := httpserver.NewServer(
		httpserver.ServerConfig{
			Port:              cfg.App.Port,
			BodyLimit:         64 * 1024,
			Debug:             cfg.App.Debug,
			RateLimit:         cfg.App.RateLimit,
			SessionSecret:     cfg.Session.Secret,
			SessionCookieName: cfg.Session.CookieName,
			SessionExpiration: cfg.Session.Expiration,
		},
		httpserver.Dependencies{
			Media:     mediaSvc,
			Cache:     mediaSvc,
			Providers: providers,
			Warmup:    scheduler,
			Store:     resultCache,
		},
		log.Logger,
	)

	if cfg.Warmup.Enabled {
		scheduler.Start()
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Info("shutdown signal received")

		scheduler.Stop()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.App.ShutdownWithContext(ctx); err != nil {
			log.Error("server shutdown error", zap.Error(err))
		}
	}()

	if err := server.Start(cfg.App.Port); err != nil {
		log.Fatal("server error", zap.Error(err))
	}
}
