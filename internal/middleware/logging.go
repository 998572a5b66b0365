package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// RequestIDHeader carries the request id in both directions
const RequestIDHeader = "X-Request-ID"

type requestIDKey struct{}

// RequestIDFrom returns the request id assigned by RequestLogger
func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// RequestLogger assigns a request id, recovers panics and logs one line per request
func RequestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			requestID := r.Header.Get(RequestIDHeader)
			if requestID == "" || len(requestID) > 128 {
				requestID = uuid.NewString()
			}
			w.Header().Set(RequestIDHeader, requestID)

			rec := newStatusRecorder(w)
			ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)

			defer func() {
				if p := recover(); p != nil {
					if p == http.ErrAbortHandler {
						panic(p)
					}
					logger.Error("panic serving request",
						"panic", p,
						"method", r.Method,
						"path", r.URL.Path,
						"request_id", requestID,
					)
					if !rec.written {
						writeError(rec, http.StatusInternalServerError, "internal_error", "internal error")
					}
				}

				level := slog.LevelInfo
				switch {
				case rec.statusCode >= 500:
					level = slog.LevelError
				case rec.statusCode >= 400:
					level = slog.LevelWarn
				}
				logger.Log(ctx, level, "http request",
					"method", r.Method,
					"path", r.URL.Path,
					"status", rec.statusCode,
					"duration_ms", time.Since(start).Milliseconds(),
					"request_id", requestID,
				)
			}()

			next.ServeHTTP(rec, r.WithContext(ctx))
		})
	}
}
