// Package server wires the telemetry HTTP handlers into a router.
package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/nctirs/nctirs-stack/common/logging"
	"github.com/nctirs/nctirs-stack/telemetry/internal/metrics"
)

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	return r.ResponseWriter.Write(b)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// instrument records request count and latency for endpoint and writes an
// access log line.
func instrument(endpoint string, logger *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w}

		next.ServeHTTP(rec, r)

		status := rec.status
		if status == 0 {
			status = http.StatusOK
		}
		elapsed := time.Since(start)

		metrics.RequestsTotal.WithLabelValues(endpoint, strconv.Itoa(status)).Inc()
		metrics.RequestDuration.WithLabelValues(endpoint).Observe(elapsed.Seconds())

		logger.InfoContext(r.Context(), "request completed",
			logging.Endpoint(endpoint),
			logging.Method(r.Method),
			logging.Path(r.URL.Path),
			logging.Status(status),
			logging.Duration(elapsed),
			logging.ClientIP(r.RemoteAddr))
	})
}
