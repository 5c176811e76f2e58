// Package config provides configuration loading for the telemetry service.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// dotEnvFiles are loaded, if present, before environment overrides are read.
// Variables already set in the process environment win.
var dotEnvFiles = []string{".env", ".env.local"}

// Config holds all configuration for the telemetry service.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Generator GeneratorConfig `mapstructure:"generator"`
	CORS      CORSConfig      `mapstructure:"cors"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Stream    StreamConfig    `mapstructure:"stream"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// GeneratorConfig controls the random source. Seed 0 means a random seed.
type GeneratorConfig struct {
	Seed int64 `mapstructure:"seed"`
}

// CORSConfig lists the dashboard origins allowed to poll the API.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	MaxAge         int      `mapstructure:"max_age"`
}

// RateLimitConfig configures the Redis-backed per-client limiter.
// TrustProxyHeaders should only be set behind a proxy that rewrites
// X-Forwarded-For; otherwise clients can pick their own rate-limit key.
type RateLimitConfig struct {
	Enabled           bool          `mapstructure:"enabled"`
	RedisURL          string        `mapstructure:"redis_url"`
	Limit             int           `mapstructure:"limit"`
	Window            time.Duration `mapstructure:"window"`
	TrustProxyHeaders bool          `mapstructure:"trust_proxy_headers"`
}

// StreamConfig configures the scheduled alert publisher.
type StreamConfig struct {
	Enabled       bool          `mapstructure:"enabled"`
	NATSURL       string        `mapstructure:"nats_url"`
	Interval      time.Duration `mapstructure:"interval"`
	MaxReconnects int           `mapstructure:"max_reconnects"`
	ReconnectWait time.Duration `mapstructure:"reconnect_wait"`
}

// Load reads configuration from defaults, an optional YAML file and
// NCTIRS_-prefixed environment variables (NCTIRS_SERVER_PORT, ...).
func Load(configPath string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.port", 8090)
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.idle_timeout", "60s")
	v.SetDefault("server.shutdown_timeout", "10s")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("generator.seed", 0)

	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("cors.max_age", 300)

	v.SetDefault("ratelimit.enabled", false)
	v.SetDefault("ratelimit.redis_url", "redis://localhost:6379/0")
	v.SetDefault("ratelimit.limit", 120)
	v.SetDefault("ratelimit.window", "1m")
	v.SetDefault("ratelimit.trust_proxy_headers", false)

	v.SetDefault("stream.enabled", false)
	v.SetDefault("stream.nats_url", "nats://localhost:4222")
	v.SetDefault("stream.interval", "5s")
	v.SetDefault("stream.max_reconnects", -1)
	v.SetDefault("stream.reconnect_wait", "2s")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/nctirs/telemetry")
	}

	loadDotEnv()

	v.SetEnvPrefix("NCTIRS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// A missing default config file is fine; an explicit path must exist.
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func loadDotEnv() {
	for _, path := range dotEnvFiles {
		// Missing files are expected outside local development.
		_ = godotenv.Load(path)
	}
}

// Validate rejects settings the service cannot run with.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d", c.Server.Port)
	}
	if c.RateLimit.Enabled {
		if c.RateLimit.Limit <= 0 {
			return fmt.Errorf("ratelimit.limit must be positive, got %d", c.RateLimit.Limit)
		}
		if c.RateLimit.Window <= 0 {
			return fmt.Errorf("ratelimit.window must be positive, got %s", c.RateLimit.Window)
		}
	}
	if c.Stream.Enabled && c.Stream.Interval < time.Second {
		return fmt.Errorf("stream.interval must be at least 1s, got %s", c.Stream.Interval)
	}
	return nil
}
