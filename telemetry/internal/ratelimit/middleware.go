package ratelimit

import (
	"net"
	"net/http"
	"strings"

	"github.com/nctirs/nctirs-stack/common/httputil"
	"github.com/nctirs/nctirs-stack/common/logging"
	"github.com/nctirs/nctirs-stack/telemetry/internal/metrics"
)

// Middleware rejects requests over the limit with 429. Limiter errors are
// logged and the request is let through. trustProxy selects whether clients
// are keyed by proxy headers or by the socket peer; see ClientIP.
func Middleware(limiter RateLimiter, logger *logging.Logger, trustProxy bool) func(http.Handler) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := ClientIP(r, trustProxy)

			allowed, err := limiter.Allow(r.Context(), "ip:"+ip)
			if err != nil {
				metrics.RateLimitErrors.Inc()
				logger.WarnContext(r.Context(), "rate limiter unavailable, allowing request",
					logging.ClientIP(ip), logging.Error(err))
				next.ServeHTTP(w, r)
				return
			}
			if !allowed {
				logger.DebugContext(r.Context(), "rate limit exceeded", logging.ClientIP(ip))
				httputil.WriteError(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// ClientIP returns the originating client address. X-Forwarded-For and
// X-Real-IP are only honoured when trustProxy is set: any client can write
// them, so they are safe only when a reverse proxy in front of the service
// overwrites them.
func ClientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			first, _, _ := strings.Cut(xff, ",")
			return strings.TrimSpace(first)
		}
		if xri := r.Header.Get("X-Real-IP"); xri != "" {
			return strings.TrimSpace(xri)
		}
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
