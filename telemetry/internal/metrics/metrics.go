// Package metrics defines the Prometheus collectors exported by the
// telemetry service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP API metrics
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nctirs_telemetry_requests_total",
			Help: "Total number of API requests by endpoint and status code",
		},
		[]string{"endpoint", "status"},
	)

	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "nctirs_telemetry_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	// Generator metrics
	RecordsGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nctirs_telemetry_records_generated_total",
			Help: "Total number of synthetic records generated by record family",
		},
		[]string{"endpoint"},
	)

	GenerationFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nctirs_telemetry_generation_failures_total",
			Help: "Total number of requests that failed during generation or encoding",
		},
		[]string{"endpoint"},
	)

	// Threat stream metrics
	StreamPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nctirs_telemetry_stream_published_total",
			Help: "Total number of alerts published to the threat stream by severity",
		},
		[]string{"severity"},
	)

	StreamErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "nctirs_telemetry_stream_errors_total",
			Help: "Total number of failed threat stream publishes",
		},
	)

	// Rate limiting metrics
	RateLimitHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "nctirs_telemetry_rate_limit_hits_total",
			Help: "Total number of requests rejected by the rate limiter",
		},
	)

	RateLimitErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "nctirs_telemetry_rate_limit_errors_total",
			Help: "Total number of rate limiter backend errors (requests allowed through)",
		},
	)
)
