package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jao1224/crmimobiliaria-sub000/internal/config"
	"github.com/jao1224/crmimobiliaria-sub000/internal/http/middleware"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func newRateLimitedHandler(cfg *config.RateLimitConfig, calls *int) http.Handler {
	rl := middleware.NewRateLimiter(cfg, zap.NewNop())
	return rl.LimitByIP(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*calls++
		w.WriteHeader(http.StatusOK)
	}))
}

func TestRateLimiter_Disabled(t *testing.T) {
	calls := 0
	handler := newRateLimitedHandler(&config.RateLimitConfig{
		Enabled:           false,
		RequestsPerMinute: 2,
	}, &calls)

	for i := 0; i < 20; i++ {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.RemoteAddr = "192.168.1.1:12345"
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	}
	assert.Equal(t, 20, calls)
}

func TestRateLimiter_BlocksOverLimit(t *testing.T) {
	calls := 0
	handler := newRateLimitedHandler(&config.RateLimitConfig{
		Enabled:           true,
		RequestsPerMinute: 2,
	}, &calls)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.RemoteAddr = "192.168.1.1:12345"
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
	assert.Equal(t, 2, calls)
}

func TestRateLimiter_WhitelistedIP(t *testing.T) {
	calls := 0
	handler := newRateLimitedHandler(&config.RateLimitConfig{
		Enabled:           true,
		RequestsPerMinute: 2,
		WhitelistIPs:      []string{"127.0.0.1"},
	}, &calls)

	for i := 0; i < 10; i++ {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.RemoteAddr = "127.0.0.1:12345"
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	}
	assert.Equal(t, 10, calls)
}

func TestRateLimiter_WhitelistedPathPrefix(t *testing.T) {
	calls := 0
	handler := newRateLimitedHandler(&config.RateLimitConfig{
		Enabled:           true,
		RequestsPerMinute: 2,
		WhitelistPaths:    []string{"/health/*"},
	}, &calls)

	for i := 0; i < 10; i++ {
		req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
		req.RemoteAddr = "192.168.1.1:12345"
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	}
	assert.Equal(t, 10, calls)
}
