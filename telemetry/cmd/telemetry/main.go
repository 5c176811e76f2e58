package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/nctirs/nctirs-stack/common/logging"
	"github.com/nctirs/nctirs-stack/common/messaging"
	"github.com/nctirs/nctirs-stack/common/middleware"
	"github.com/nctirs/nctirs-stack/telemetry/internal/config"
	"github.com/nctirs/nctirs-stack/telemetry/internal/handlers"
	"github.com/nctirs/nctirs-stack/telemetry/internal/hostinfo"
	"github.com/nctirs/nctirs-stack/telemetry/internal/ratelimit"
	"github.com/nctirs/nctirs-stack/telemetry/internal/server"
	"github.com/nctirs/nctirs-stack/telemetry/internal/service"
	"github.com/nctirs/nctirs-stack/telemetry/internal/stream"
	"github.com/nctirs/nctirs-stack/telemetry/pkg/generator"

	natsclient "github.com/nctirs/nctirs-stack/common/messaging/nats"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *configPath); err != nil {
		stop()
		log.Fatalf("Telemetry service failed: %v", err)
	}
}

// run starts the service and blocks until ctx is done or the listener fails.
// Connections opened along the way are closed before it returns.
func run(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := logging.New(
		logging.ParseLevel(cfg.Logging.Level),
		cfg.Logging.Format,
	).With(logging.Service("telemetry"))
	logging.SetDefault(logger)

	slog.Info("Starting telemetry service",
		slog.String("version", version),
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Logging.Level),
		slog.String("log_format", cfg.Logging.Format),
	)
	if configPath != "" {
		slog.Info("Loaded configuration", slog.String("config_path", configPath))
	}

	var genOpts []generator.Option
	if cfg.Generator.Seed != 0 {
		genOpts = append(genOpts, generator.WithSeed(cfg.Generator.Seed))
		slog.Info("Generator seeded", slog.Int64("seed", cfg.Generator.Seed))
	}
	svc := service.NewService(generator.New(genOpts...))

	handlerOpts := []handlers.Option{
		handlers.WithVersion(version),
		handlers.WithHostStats(hostinfo.Collect),
	}

	// Rate limiter (optional)
	var rateLimiter ratelimit.RateLimiter
	if cfg.RateLimit.Enabled {
		limiter, err := ratelimit.NewRedisRateLimiter(cfg.RateLimit.RedisURL, cfg.RateLimit.Limit, cfg.RateLimit.Window)
		if err != nil {
			slog.Warn("Failed to initialize Redis rate limiter, continuing without rate limiting",
				logging.Error(err))
		} else {
			rateLimiter = limiter
			handlerOpts = append(handlerOpts, handlers.WithReadinessCheck("redis", limiter.Ping))
			slog.Info("Rate limiting enabled",
				slog.Int("limit", cfg.RateLimit.Limit),
				slog.String("window", cfg.RateLimit.Window.String()))
			defer limiter.Close()
		}
	} else {
		slog.Info("Rate limiting disabled in configuration")
	}

	// Threat stream (optional)
	var publisher *stream.Publisher
	if cfg.Stream.Enabled {
		natsCfg := natsclient.DefaultConfig()
		natsCfg.URL = cfg.Stream.NATSURL
		natsCfg.Name = "nctirs-telemetry"
		natsCfg.MaxReconnects = cfg.Stream.MaxReconnects
		natsCfg.ReconnectWait = cfg.Stream.ReconnectWait

		client, err := natsclient.NewClient(natsCfg)
		if err != nil {
			slog.Warn("Failed to connect to NATS, threat stream disabled", logging.Error(err))
		} else {
			defer client.Close()
			handlerOpts = append(handlerOpts, handlers.WithReadinessCheck("nats", func(context.Context) error {
				if status := messaging.CheckHealth(client); !status.Connected {
					return errors.New(status.Error)
				}
				return nil
			}))

			publisher = stream.NewPublisher(svc, client, cfg.Stream.Interval, logger)
			if err := publisher.Start(); err != nil {
				return fmt.Errorf("start threat stream: %w", err)
			}
		}
	} else {
		slog.Info("Threat stream disabled in configuration")
	}

	handler := handlers.NewHandler(svc, logger, handlerOpts...)
	router := server.NewRouter(handler, server.Options{
		CORS: middleware.CORSConfig{
			AllowedOrigins: cfg.CORS.AllowedOrigins,
			MaxAge:         cfg.CORS.MaxAge,
		},
		RateLimiter:       rateLimiter,
		TrustProxyHeaders: cfg.RateLimit.TrustProxyHeaders,
		Logger:            logger,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("Telemetry service listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if publisher != nil {
			_ = publisher.Stop(context.Background())
		}
		return fmt.Errorf("serve: %w", err)
	}

	slog.Info("Shutting down telemetry service")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if publisher != nil {
		if err := publisher.Stop(shutdownCtx); err != nil {
			slog.Warn("Threat stream did not stop cleanly", logging.Error(err))
		}
	}

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", logging.Error(err))
	}

	slog.Info("Server stopped")
	return nil
}
