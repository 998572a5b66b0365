package middleware

import (
	"log/slog"
	"math/rand/v2"
	"net/http"
	"strings"
	"time"

	"github.com/benx421/digital-bank/internal/config"
)

// Paths that never see injected faults: health checks, docs and the signup
// countdown the client polls while the window is closed
var chaosExemptPrefixes = []string{
	"/health",
	"/docs",
	"/auth/signup-status",
}

type faultInjector struct {
	logger      *slog.Logger
	failureRate float64
	minLatency  time.Duration
	maxLatency  time.Duration
}

// FailureInjection delays requests and fails a share of them with 503 so
// clients can rehearse retrying a transfer under the same Idempotency-Key.
// It is a pass-through when cfg disables both latency and failures.
func FailureInjection(cfg *config.AppConfig, logger *slog.Logger) func(http.Handler) http.Handler {
	fi := &faultInjector{
		logger:      logger,
		failureRate: cfg.FailureRate,
		minLatency:  time.Duration(cfg.MinLatencyMS) * time.Millisecond,
		maxLatency:  time.Duration(cfg.MaxLatencyMS) * time.Millisecond,
	}

	return func(next http.Handler) http.Handler {
		if fi.failureRate <= 0 && fi.maxLatency <= 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if chaosExempt(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			if d := fi.latency(); d > 0 {
				select {
				case <-time.After(d):
				case <-r.Context().Done():
					return
				}
			}

			if fi.fail() {
				fi.logger.Debug("injecting failure", "method", r.Method, "path", r.URL.Path)
				w.Header().Set("Retry-After", "1")
				writeError(w, http.StatusServiceUnavailable, "service_unavailable", "temporary failure, retry the request")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func chaosExempt(path string) bool {
	for _, prefix := range chaosExemptPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// latency picks a delay uniformly in [minLatency, maxLatency]
func (fi *faultInjector) latency() time.Duration {
	if fi.maxLatency <= fi.minLatency {
		return fi.minLatency
	}
	return fi.minLatency + rand.N(fi.maxLatency-fi.minLatency+1)
}

func (fi *faultInjector) fail() bool {
	switch {
	case fi.failureRate <= 0:
		return false
	case fi.failureRate >= 1:
		return true
	default:
		return rand.Float64() < fi.failureRate
	}
}
