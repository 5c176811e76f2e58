package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nctirs/nctirs-stack/common/logging"
	"github.com/nctirs/nctirs-stack/common/middleware"
	"github.com/nctirs/nctirs-stack/common/models"
	"github.com/nctirs/nctirs-stack/telemetry/internal/handlers"
	"github.com/nctirs/nctirs-stack/telemetry/internal/service"
	"github.com/nctirs/nctirs-stack/telemetry/pkg/generator"
)

// panickingService panics on the threat feed; every other endpoint works.
type panickingService struct {
	*service.Service
}

func (panickingService) Threats(context.Context) ([]models.ThreatAlert, error) {
	panic("generator exploded")
}

type denyAll struct{}

func (denyAll) Allow(context.Context, string) (bool, error) { return false, nil }
func (denyAll) Close() error                                { return nil }

func quietLogger() *logging.Logger {
	return logging.NewWithWriter(io.Discard, logging.ParseLevel("error"), "json")
}

func newTestServer(t *testing.T, svc handlers.TelemetryService, opts Options) *httptest.Server {
	t.Helper()
	if opts.Logger == nil {
		opts.Logger = quietLogger()
	}
	if opts.CORS.AllowedOrigins == nil {
		opts.CORS.AllowedOrigins = []string{"*"}
	}
	h := handlers.NewHandler(svc, opts.Logger)
	srv := httptest.NewServer(NewRouter(h, opts))
	t.Cleanup(srv.Close)
	return srv
}

func realService() *service.Service {
	return service.NewService(generator.New(generator.WithSeed(11)))
}

func TestRouter_APIEndpoints(t *testing.T) {
	srv := newTestServer(t, realService(), Options{})

	paths := []string{
		"/api/threats",
		"/api/statistics",
		"/api/metrics",
		"/api/geo-threats",
		"/api/ml-models",
		"/api/compliance",
		"/api/agencies",
		"/api/responses",
		"/api/data-protection",
		"/api/threats/THR-1-1234/timeline",
		"/healthz",
		"/readyz",
	}

	for _, path := range paths {
		t.Run(path, func(t *testing.T) {
			resp, err := http.Get(srv.URL + path)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
			assert.NotEmpty(t, resp.Header.Get(middleware.RequestIDHeader))

			var body any
			assert.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		})
	}
}

func TestRouter_ThreatFeed(t *testing.T) {
	srv := newTestServer(t, realService(), Options{})

	resp, err := http.Get(srv.URL + "/api/threats")
	require.NoError(t, err)
	defer resp.Body.Close()

	var alerts []models.ThreatAlert
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&alerts))
	require.Len(t, alerts, service.ThreatFeedSize)
	for i := 1; i < len(alerts); i++ {
		assert.False(t, alerts[i].Timestamp.After(alerts[i-1].Timestamp))
	}
}

func TestRouter_PanicBecomesEndpointError(t *testing.T) {
	srv := newTestServer(t, panickingService{realService()}, Options{})

	resp, err := http.Get(srv.URL + "/api/threats")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.JSONEq(t, `{"error":"Failed to fetch threats"}`, string(body))

	// Other endpoints are unaffected.
	resp2, err := http.Get(srv.URL + "/api/metrics")
	require.NoError(t, err)
	resp2.Body.Close()
	assert.Equal(t, http.StatusOK, resp2.StatusCode)
}

func TestRouter_InvalidTimelineID(t *testing.T) {
	srv := newTestServer(t, realService(), Options{})

	resp, err := http.Get(srv.URL + "/api/threats/bad%20id/timeline")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRouter_MethodAndPath(t *testing.T) {
	srv := newTestServer(t, realService(), Options{})

	resp, err := http.Post(srv.URL+"/api/threats", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/api/unknown")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRouter_CORSPreflight(t *testing.T) {
	srv := newTestServer(t, realService(), Options{
		CORS: middleware.CORSConfig{AllowedOrigins: []string{"https://soc.example.go.ke"}},
	})

	req, _ := http.NewRequest(http.MethodOptions, srv.URL+"/api/threats", nil)
	req.Header.Set("Origin", "https://soc.example.go.ke")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "https://soc.example.go.ke", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Contains(t, resp.Header.Get("Access-Control-Allow-Methods"), http.MethodGet)
}

func TestRouter_RateLimitAppliesToAPIOnly(t *testing.T) {
	srv := newTestServer(t, realService(), Options{RateLimiter: denyAll{}})

	resp, err := http.Get(srv.URL + "/api/statistics")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.JSONEq(t, `{"error":"rate limit exceeded"}`, string(body))

	resp, err = http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRouter_PrometheusMetrics(t *testing.T) {
	srv := newTestServer(t, realService(), Options{})

	resp, err := http.Get(srv.URL + "/api/agencies")
	require.NoError(t, err)
	resp.Body.Close()

	resp, err = http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "nctirs_telemetry_requests_total")
	assert.Contains(t, string(body), `endpoint="agencies"`)
}

func TestStatusRecorder(t *testing.T) {
	rr := httptest.NewRecorder()
	rec := &statusRecorder{ResponseWriter: rr}

	_, _ = rec.Write([]byte("ok"))
	assert.Equal(t, http.StatusOK, rec.status)

	rr = httptest.NewRecorder()
	rec = &statusRecorder{ResponseWriter: rr}
	rec.WriteHeader(http.StatusTeapot)
	assert.Equal(t, http.StatusTeapot, rec.status)
	assert.Equal(t, rr, rec.Unwrap())
}
