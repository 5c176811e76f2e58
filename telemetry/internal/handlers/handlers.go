// Package handlers implements the HTTP endpoints of the telemetry service.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"reflect"
	"time"

	"github.com/nctirs/nctirs-stack/common/httputil"
	"github.com/nctirs/nctirs-stack/common/logging"
	"github.com/nctirs/nctirs-stack/common/models"
	"github.com/nctirs/nctirs-stack/telemetry/internal/metrics"
	"github.com/nctirs/nctirs-stack/telemetry/internal/service"
)

// ServiceName is reported by the health endpoints.
const ServiceName = "nctirs-telemetry"

// Endpoint names used as metric and log labels.
const (
	EndpointThreats        = "threats"
	EndpointStatistics     = "statistics"
	EndpointMetrics        = "metrics"
	EndpointGeoThreats     = "geo-threats"
	EndpointMLModels       = "ml-models"
	EndpointCompliance     = "compliance"
	EndpointAgencies       = "agencies"
	EndpointResponses      = "responses"
	EndpointDataProtection = "data-protection"
	EndpointTimeline       = "timeline"
)

// Client-facing failure messages. They never include error details.
const (
	msgThreats        = "Failed to fetch threats"
	msgStatistics     = "Failed to fetch statistics"
	msgMetrics        = "Failed to fetch metrics"
	msgGeoThreats     = "Failed to fetch geographic threats"
	msgMLModels       = "Failed to fetch ML models"
	msgCompliance     = "Failed to fetch compliance data"
	msgAgencies       = "Failed to fetch agency data"
	msgResponses      = "Failed to fetch automated responses"
	msgDataProtection = "Failed to fetch data protection metrics"
	msgTimeline       = "Failed to fetch incident timeline"
	msgInvalidID      = "invalid threat id"
)

const readinessTimeout = 2 * time.Second

// TelemetryService is the subset of service.Service used by the handlers.
type TelemetryService interface {
	Threats(ctx context.Context) ([]models.ThreatAlert, error)
	Statistics(ctx context.Context) (models.ThreatStatistics, error)
	Metrics(ctx context.Context) (models.SystemMetrics, error)
	GeoThreats(ctx context.Context) ([]models.GeographicThreat, error)
	MLModels(ctx context.Context) ([]models.MLModelMetrics, error)
	Compliance(ctx context.Context) ([]models.ComplianceStatus, error)
	Agencies(ctx context.Context) ([]models.AgencyCollaboration, error)
	Responses(ctx context.Context) ([]models.AutomatedResponse, error)
	DataProtection(ctx context.Context) ([]models.DataProtectionMetric, error)
	Timeline(ctx context.Context, threatID string) ([]models.IncidentTimelineEvent, error)
}

// ReadinessCheck probes one optional dependency.
type ReadinessCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// HostStatsFunc samples host statistics for /healthz.
type HostStatsFunc func(ctx context.Context) (*models.HostStats, error)

type Handler struct {
	service   TelemetryService
	logger    *logging.Logger
	version   string
	started   time.Time
	checks    []ReadinessCheck
	hostStats HostStatsFunc
}

// Option configures a Handler.
type Option func(*Handler)

func WithVersion(version string) Option {
	return func(h *Handler) { h.version = version }
}

// WithReadinessCheck adds a dependency probe to /readyz.
func WithReadinessCheck(name string, check func(ctx context.Context) error) Option {
	return func(h *Handler) {
		h.checks = append(h.checks, ReadinessCheck{Name: name, Check: check})
	}
}

func WithHostStats(fn HostStatsFunc) Option {
	return func(h *Handler) { h.hostStats = fn }
}

func NewHandler(svc TelemetryService, logger *logging.Logger, opts ...Option) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	h := &Handler{
		service: svc,
		logger:  logger,
		started: time.Now(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Route binds a dashboard endpoint to its handler. Message is the body
// returned when the endpoint fails, including on panic.
type Route struct {
	Pattern  string
	Endpoint string
	Message  string
	Handler  http.HandlerFunc
}

// APIRoutes lists the dashboard API endpoints.
func (h *Handler) APIRoutes() []Route {
	return []Route{
		{"GET /api/threats", EndpointThreats, msgThreats, h.Threats},
		{"GET /api/threats/{id}/timeline", EndpointTimeline, msgTimeline, h.Timeline},
		{"GET /api/statistics", EndpointStatistics, msgStatistics, h.Statistics},
		{"GET /api/metrics", EndpointMetrics, msgMetrics, h.Metrics},
		{"GET /api/geo-threats", EndpointGeoThreats, msgGeoThreats, h.GeoThreats},
		{"GET /api/ml-models", EndpointMLModels, msgMLModels, h.MLModels},
		{"GET /api/compliance", EndpointCompliance, msgCompliance, h.Compliance},
		{"GET /api/agencies", EndpointAgencies, msgAgencies, h.Agencies},
		{"GET /api/responses", EndpointResponses, msgResponses, h.Responses},
		{"GET /api/data-protection", EndpointDataProtection, msgDataProtection, h.DataProtection},
	}
}

// Threats handles GET /api/threats.
func (h *Handler) Threats(w http.ResponseWriter, r *http.Request) {
	serve(h, w, r, EndpointThreats, msgThreats, h.service.Threats)
}

// Statistics handles GET /api/statistics.
func (h *Handler) Statistics(w http.ResponseWriter, r *http.Request) {
	serve(h, w, r, EndpointStatistics, msgStatistics, h.service.Statistics)
}

// Metrics handles GET /api/metrics.
func (h *Handler) Metrics(w http.ResponseWriter, r *http.Request) {
	serve(h, w, r, EndpointMetrics, msgMetrics, h.service.Metrics)
}

// GeoThreats handles GET /api/geo-threats.
func (h *Handler) GeoThreats(w http.ResponseWriter, r *http.Request) {
	serve(h, w, r, EndpointGeoThreats, msgGeoThreats, h.service.GeoThreats)
}

// MLModels handles GET /api/ml-models.
func (h *Handler) MLModels(w http.ResponseWriter, r *http.Request) {
	serve(h, w, r, EndpointMLModels, msgMLModels, h.service.MLModels)
}

// Compliance handles GET /api/compliance.
func (h *Handler) Compliance(w http.ResponseWriter, r *http.Request) {
	serve(h, w, r, EndpointCompliance, msgCompliance, h.service.Compliance)
}

// Agencies handles GET /api/agencies.
func (h *Handler) Agencies(w http.ResponseWriter, r *http.Request) {
	serve(h, w, r, EndpointAgencies, msgAgencies, h.service.Agencies)
}

// Responses handles GET /api/responses.
func (h *Handler) Responses(w http.ResponseWriter, r *http.Request) {
	serve(h, w, r, EndpointResponses, msgResponses, h.service.Responses)
}

// DataProtection handles GET /api/data-protection.
func (h *Handler) DataProtection(w http.ResponseWriter, r *http.Request) {
	serve(h, w, r, EndpointDataProtection, msgDataProtection, h.service.DataProtection)
}

// Timeline handles GET /api/threats/{id}/timeline.
func (h *Handler) Timeline(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if !service.ValidThreatID(id) {
		httputil.WriteError(w, http.StatusBadRequest, msgInvalidID)
		return
	}

	serve(h, w, r, EndpointTimeline, msgTimeline, func(ctx context.Context) ([]models.IncidentTimelineEvent, error) {
		return h.service.Timeline(ctx, id)
	})
}

// Health handles GET /healthz. It always reports healthy while the
// process can serve requests; host stats are best effort.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	resp := models.HealthResponse{
		Status:  "healthy",
		Service: ServiceName,
		Version: h.version,
		Uptime:  time.Since(h.started).Round(time.Second).String(),
	}

	if h.hostStats != nil {
		stats, err := h.hostStats(r.Context())
		if err != nil {
			h.logger.DebugContext(r.Context(), "host stats unavailable", logging.Error(err))
		} else {
			resp.Host = stats
		}
	}

	h.write(w, r, http.StatusOK, resp)
}

// Ready handles GET /readyz. Each configured dependency is probed; any
// failure yields 503.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	resp := models.HealthResponse{
		Status:  "ready",
		Service: ServiceName,
		Version: h.version,
	}
	status := http.StatusOK

	if len(h.checks) > 0 {
		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		resp.Checks = make(map[string]string, len(h.checks))
		for _, c := range h.checks {
			if err := c.Check(ctx); err != nil {
				resp.Checks[c.Name] = err.Error()
				status = http.StatusServiceUnavailable
				resp.Status = "not ready"
				continue
			}
			resp.Checks[c.Name] = "ok"
		}
	}

	h.write(w, r, status, resp)
}

func (h *Handler) write(w http.ResponseWriter, r *http.Request, status int, data any) {
	if err := httputil.WriteJSON(w, status, data); err != nil {
		h.logger.ErrorContext(r.Context(), "failed to write response", logging.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, "internal error")
	}
}

// serve runs fetch and writes its result as JSON. Generation and encoding
// failures share one path: log with the request ID, then 500 with message.
func serve[T any](h *Handler, w http.ResponseWriter, r *http.Request, endpoint, message string, fetch func(context.Context) (T, error)) {
	ctx := r.Context()

	data, err := fetch(ctx)
	if err == nil {
		err = httputil.WriteJSON(w, http.StatusOK, data)
	}
	if err != nil {
		metrics.GenerationFailures.WithLabelValues(endpoint).Inc()
		if errors.Is(err, context.Canceled) {
			h.logger.WarnContext(ctx, "request cancelled", logging.Endpoint(endpoint))
		} else {
			h.logger.ErrorContext(ctx, message, logging.Endpoint(endpoint), logging.Error(err))
		}
		httputil.WriteError(w, http.StatusInternalServerError, message)
		return
	}

	metrics.RecordsGenerated.WithLabelValues(endpoint).Add(float64(recordCount(data)))
}

// recordCount is the number of records in a payload: the length of a slice,
// otherwise one.
func recordCount(data any) int {
	v := reflect.ValueOf(data)
	if v.Kind() == reflect.Slice {
		return v.Len()
	}
	return 1
}
