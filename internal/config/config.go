// Package config provides application configuration management using Viper.
// Configuration is loaded from YAML files and environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Cache drivers.
const (
	CacheDriverMemory = "memory"
	CacheDriverRedis  = "redis"
)

// Config holds all application configuration.
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Provider ProviderConfig `mapstructure:"provider"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Session  SessionConfig  `mapstructure:"session"`
	Warmup   WarmupConfig   `mapstructure:"warmup"`
	Logger   LoggerConfig   `mapstructure:"logger"`
	Sentry   SentryConfig   `mapstructure:"sentry"`
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Name      string `mapstructure:"name"`
	Env       string `mapstructure:"env"` // development, staging, production
	Port      int    `mapstructure:"port"`
	Debug     bool   `mapstructure:"debug"`
	RateLimit int    `mapstructure:"rate_limit"` // requests per minute per IP, 0 disables
}

// ProviderConfig holds external provider settings.
type ProviderConfig struct {
	Video ProviderEndpoint `mapstructure:"video"`
	Photo ProviderEndpoint `mapstructure:"photo"`
}

// ProviderEndpoint holds a single provider's configuration.
type ProviderEndpoint struct {
	BaseURL string        `mapstructure:"base_url"`
	APIKey  string        `mapstructure:"api_key"`
	Timeout time.Duration `mapstructure:"timeout"`
	Retry   RetryConfig   `mapstructure:"retry"`
	CB      CBConfig      `mapstructure:"circuit_breaker"`
}

// RetryConfig holds retry settings.
type RetryConfig struct {
	MaxAttempts int           `mapstructure:"max_attempts"`
	WaitTime    time.Duration `mapstructure:"wait_time"`
	MaxWaitTime time.Duration `mapstructure:"max_wait_time"`
}

// CBConfig holds circuit breaker settings.
type CBConfig struct {
	MaxRequests  uint32        `mapstructure:"max_requests"`
	Interval     time.Duration `mapstructure:"interval"`
	Timeout      time.Duration `mapstructure:"timeout"`
	FailureRatio float64       `mapstructure:"failure_ratio"`
}

// CacheConfig holds result memoization settings.
type CacheConfig struct {
	Driver         string        `mapstructure:"driver"` // memory, redis
	TTL            time.Duration `mapstructure:"ttl"`
	KeyPrefix      string        `mapstructure:"key_prefix"`
	CoalesceMisses bool          `mapstructure:"coalesce_misses"`
	MaxEntries     int           `mapstructure:"max_entries"` // memory driver only, 0 disables the cap
}

// RedisConfig holds Redis connection settings, used by the redis cache
// driver and the warm-up lock.
type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Addr returns the host:port address of the Redis server.
func (c *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// SessionConfig holds browser session settings.
type SessionConfig struct {
	Secret     string        `mapstructure:"secret"`
	CookieName string        `mapstructure:"cookie_name"`
	Expiration time.Duration `mapstructure:"expiration"`
}

// WarmupConfig holds the cache warm-up job settings.
type WarmupConfig struct {
	Enabled   bool          `mapstructure:"enabled"`
	Interval  time.Duration `mapstructure:"interval"`
	Timeout   time.Duration `mapstructure:"timeout"`
	OnStartup bool          `mapstructure:"on_startup"`
	Terms     []string      `mapstructure:"terms"`
}

// LoggerConfig holds logging settings.
type LoggerConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json, console
	Output string `mapstructure:"output"` // stdout, stderr, file path
}

// SentryConfig holds Sentry error tracking settings.
type SentryConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	DSN         string  `mapstructure:"dsn"`
	Environment string  `mapstructure:"environment"`
	SampleRate  float64 `mapstructure:"sample_rate"`
}

// Load reads configuration from file and environment variables.
// Priority: env vars > config file > defaults
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Config file settings
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Config file not found, continue with defaults + env vars
	}

	// Environment variable settings
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Secrets keep their conventional unprefixed names as well
	if err := bindSecrets(v); err != nil {
		return nil, err
	}

	// Unmarshal config
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func bindSecrets(v *viper.Viper) error {
	bindings := map[string][]string{
		"provider.video.api_key": {"APP_PROVIDER_VIDEO_API_KEY", "YOUTUBE_API_KEY"},
		"session.secret":         {"APP_SESSION_SECRET", "FLASH_SECRET_KEY"},
	}
	for key, envs := range bindings {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return fmt.Errorf("binding env for %s: %w", key, err)
		}
	}

	return nil
}

// validate rejects settings the service cannot run with. Missing secrets
// are not fatal: the video provider reports them on first use.
func (c *Config) validate() error {
	switch c.Cache.Driver {
	case CacheDriverMemory, CacheDriverRedis:
	default:
		return fmt.Errorf("unknown cache driver %q", c.Cache.Driver)
	}
	if c.Cache.TTL <= 0 {
		return fmt.Errorf("cache ttl must be positive, got %s", c.Cache.TTL)
	}
	if c.Cache.MaxEntries < 0 {
		return fmt.Errorf("cache max_entries must not be negative, got %d", c.Cache.MaxEntries)
	}
	if c.Warmup.Enabled && c.Warmup.Interval <= 0 {
		return fmt.Errorf("warmup interval must be positive, got %s", c.Warmup.Interval)
	}

	return nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "media-search-service")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", 8080)
	v.SetDefault("app.debug", false)
	v.SetDefault("app.rate_limit", 120)

	// Video provider defaults
	v.SetDefault("provider.video.base_url", "https://www.googleapis.com")
	v.SetDefault("provider.video.api_key", "")
	v.SetDefault("provider.video.timeout", "10s")
	v.SetDefault("provider.video.retry.max_attempts", 0)
	v.SetDefault("provider.video.retry.wait_time", "500ms")
	v.SetDefault("provider.video.retry.max_wait_time", "2s")
	v.SetDefault("provider.video.circuit_breaker.max_requests", 3)
	v.SetDefault("provider.video.circuit_breaker.interval", "60s")
	v.SetDefault("provider.video.circuit_breaker.timeout", "30s")
	v.SetDefault("provider.video.circuit_breaker.failure_ratio", 0.5)

	// Photo provider defaults
	v.SetDefault("provider.photo.base_url", "https://www.flickr.com")
	v.SetDefault("provider.photo.timeout", "10s")
	v.SetDefault("provider.photo.retry.max_attempts", 0)
	v.SetDefault("provider.photo.retry.wait_time", "500ms")
	v.SetDefault("provider.photo.retry.max_wait_time", "2s")
	v.SetDefault("provider.photo.circuit_breaker.max_requests", 3)
	v.SetDefault("provider.photo.circuit_breaker.interval", "60s")
	v.SetDefault("provider.photo.circuit_breaker.timeout", "30s")
	v.SetDefault("provider.photo.circuit_breaker.failure_ratio", 0.5)

	// Cache defaults
	v.SetDefault("cache.driver", CacheDriverMemory)
	v.SetDefault("cache.ttl", "600s")
	v.SetDefault("cache.key_prefix", "media-search")
	v.SetDefault("cache.coalesce_misses", false)
	v.SetDefault("cache.max_entries", 500)

	// Redis defaults
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	// Session defaults
	v.SetDefault("session.secret", "secret_key")
	v.SetDefault("session.cookie_name", "media_search_session")
	v.SetDefault("session.expiration", "1h")

	// Warm-up defaults
	v.SetDefault("warmup.enabled", false)
	v.SetDefault("warmup.interval", "9m")
	v.SetDefault("warmup.timeout", "30s")
	v.SetDefault("warmup.on_startup", true)
	v.SetDefault("warmup.terms", []string{})

	// Logger defaults
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.output", "stdout")

	// Sentry defaults
	v.SetDefault("sentry.enabled", false)
	v.SetDefault("sentry.dsn", "")
	v.SetDefault("sentry.environment", "development")
	v.SetDefault("sentry.sample_rate", 1.0)
}
