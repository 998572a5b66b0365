package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/benx421/digital-bank/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestFailureInjection(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		rate   float64
		status int
	}{
		{name: "disabled", path: "/transactions/transfer", rate: 0, status: http.StatusOK},
		{name: "always fails", path: "/transactions/transfer", rate: 1, status: http.StatusServiceUnavailable},
		{name: "health excluded", path: "/health", rate: 1, status: http.StatusOK},
		{name: "docs excluded", path: "/docs/openapi", rate: 1, status: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.AppConfig{FailureRate: tt.rate}
			handler := FailureInjection(cfg, testLogger())(testHandler(http.StatusOK, "ok"))

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, tt.path, nil))

			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestFailureInjection_RetryAfter(t *testing.T) {
	handler := FailureInjection(&config.AppConfig{FailureRate: 1}, testLogger())(testHandler(http.StatusOK, "ok"))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/transactions/transfer", nil))

	assert.Equal(t, "1", rec.Header().Get("Retry-After"))
	assert.Contains(t, rec.Body.String(), "service_unavailable")
}

func TestFaultInjector_Fail(t *testing.T) {
	for rate, want := range map[float64]bool{-1: false, 0: false, 1: true, 2: true} {
		fi := &faultInjector{failureRate: rate}
		assert.Equal(t, want, fi.fail(), "rate %v", rate)
	}
}

func TestFaultInjector_Latency(t *testing.T) {
	fixed := &faultInjector{minLatency: 5 * time.Millisecond, maxLatency: 5 * time.Millisecond}
	assert.Equal(t, 5*time.Millisecond, fixed.latency())

	ranged := &faultInjector{minLatency: time.Millisecond, maxLatency: 3 * time.Millisecond}
	for range 50 {
		d := ranged.latency()
		assert.GreaterOrEqual(t, d, time.Millisecond)
		assert.LessOrEqual(t, d, 3*time.Millisecond)
	}
}
