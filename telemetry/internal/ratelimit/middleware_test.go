package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type mockRateLimiter struct {
	allowFunc func(ctx context.Context, key string) (bool, error)
	keys      []string
}

func (m *mockRateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	m.keys = append(m.keys, key)
	if m.allowFunc != nil {
		return m.allowFunc(ctx, key)
	}
	return true, nil
}

func (m *mockRateLimiter) Close() error {
	return nil
}

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestMiddleware_Allowed(t *testing.T) {
	limiter := &mockRateLimiter{}
	handler := Middleware(limiter, nil, false)(okHandler)

	req := httptest.NewRequest(http.MethodGet, "/api/threats", nil)
	req.RemoteAddr = "10.1.2.3:54321"
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, []string{"ip:10.1.2.3"}, limiter.keys)
}

func TestMiddleware_Rejected(t *testing.T) {
	limiter := &mockRateLimiter{
		allowFunc: func(context.Context, string) (bool, error) { return false, nil },
	}
	handler := Middleware(limiter, nil, false)(okHandler)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/threats", nil))

	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.JSONEq(t, `{"error":"rate limit exceeded"}`, rr.Body.String())
}

func TestMiddleware_FailsOpen(t *testing.T) {
	limiter := &mockRateLimiter{
		allowFunc: func(context.Context, string) (bool, error) { return false, errors.New("redis down") },
	}
	handler := Middleware(limiter, nil, false)(okHandler)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/threats", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestMiddleware_WithRedis(t *testing.T) {
	limiter, _ := newTestLimiter(t, 2, time.Minute)
	handler := Middleware(limiter, nil, false)(okHandler)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/metrics", nil)
		req.RemoteAddr = "192.0.2.10:1234"
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		codes = append(codes, rr.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		headers    map[string]string
		trustProxy bool
		expected   string
	}{
		{name: "remote addr with port", remoteAddr: "10.0.0.1:1234", expected: "10.0.0.1"},
		{name: "remote addr without port", remoteAddr: "10.0.0.1", expected: "10.0.0.1"},
		{name: "ipv6 remote addr", remoteAddr: "[::1]:8080", expected: "::1"},
		{
			name:       "forwarded for chain behind proxy",
			remoteAddr: "10.0.0.1:1234",
			headers:    map[string]string{"X-Forwarded-For": "203.0.113.5, 10.0.0.2"},
			trustProxy: true,
			expected:   "203.0.113.5",
		},
		{
			name:       "real ip behind proxy",
			remoteAddr: "10.0.0.1:1234",
			headers:    map[string]string{"X-Real-IP": "198.51.100.7"},
			trustProxy: true,
			expected:   "198.51.100.7",
		},
		{
			name:       "forwarded for ignored without proxy",
			remoteAddr: "10.0.0.1:1234",
			headers:    map[string]string{"X-Forwarded-For": "203.0.113.5"},
			expected:   "10.0.0.1",
		},
		{
			name:       "real ip ignored without proxy",
			remoteAddr: "10.0.0.1:1234",
			headers:    map[string]string{"X-Real-IP": "198.51.100.7"},
			expected:   "10.0.0.1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tt.expected, ClientIP(req, tt.trustProxy))
		})
	}
}

func TestMiddleware_SpoofedForwardedForStillLimited(t *testing.T) {
	limiter, _ := newTestLimiter(t, 2, time.Minute)
	handler := Middleware(limiter, nil, false)(okHandler)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/threats", nil)
		req.RemoteAddr = "192.0.2.20:1234"
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("203.0.113.%d", i+1))
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		codes = append(codes, rr.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestMiddleware_TrustedProxyKeysOnForwardedFor(t *testing.T) {
	limiter := &mockRateLimiter{}
	handler := Middleware(limiter, nil, true)(okHandler)

	req := httptest.NewRequest(http.MethodGet, "/api/threats", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, []string{"ip:203.0.113.9"}, limiter.keys)
}
