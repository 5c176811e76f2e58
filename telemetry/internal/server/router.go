package server

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nctirs/nctirs-stack/common/logging"
	"github.com/nctirs/nctirs-stack/common/middleware"
	"github.com/nctirs/nctirs-stack/telemetry/internal/handlers"
	"github.com/nctirs/nctirs-stack/telemetry/internal/ratelimit"
)

// Options configures the router. A nil RateLimiter disables rate limiting.
// TrustProxyHeaders keys rate limits on X-Forwarded-For / X-Real-IP.
type Options struct {
	CORS              middleware.CORSConfig
	RateLimiter       ratelimit.RateLimiter
	TrustProxyHeaders bool
	Logger            *logging.Logger
}

// NewRouter constructs a ServeMux with the dashboard API, health probes and
// Prometheus metrics registered.
func NewRouter(h *handlers.Handler, opts Options) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Default()
	}

	onPanic := func(r *http.Request, recovered any) {
		logger.ErrorContext(r.Context(), "panic in handler",
			logging.Path(r.URL.Path),
			logging.Error(fmt.Errorf("%v", recovered)))
	}

	mux := http.NewServeMux()

	// Dashboard API
	for _, route := range h.APIRoutes() {
		var next http.Handler = middleware.Recover(route.Message, onPanic)(route.Handler)
		if opts.RateLimiter != nil {
			next = ratelimit.Middleware(opts.RateLimiter, logger, opts.TrustProxyHeaders)(next)
		}
		mux.Handle(route.Pattern, instrument(route.Endpoint, logger, next))
	}

	// Health endpoints
	mux.Handle("GET /healthz", instrument("healthz", logger, http.HandlerFunc(h.Health)))
	mux.Handle("GET /readyz", instrument("readyz", logger, http.HandlerFunc(h.Ready)))

	// Prometheus metrics
	mux.Handle("GET /metrics", promhttp.Handler())

	var handler http.Handler = mux
	handler = middleware.CORS(corsConfig(opts.CORS))(handler)
	handler = middleware.RequestID(handler)
	handler = middleware.Recover("internal server error", onPanic)(handler)
	return handler
}

func corsConfig(c middleware.CORSConfig) middleware.CORSConfig {
	if len(c.AllowedMethods) == 0 {
		c.AllowedMethods = []string{http.MethodGet, http.MethodOptions}
	}
	if len(c.AllowedHeaders) == 0 {
		c.AllowedHeaders = []string{"Content-Type", middleware.RequestIDHeader}
	}
	return c
}
