package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/benx421/digital-bank/internal/models"
	"github.com/benx421/digital-bank/internal/repository"
	"github.com/benx421/digital-bank/internal/service"
)

// IdempotencyKeyHeader names the client-chosen retry key
const IdempotencyKeyHeader = "Idempotency-Key"

// maxIdempotentBody bounds the request body hashed for idempotency
const maxIdempotentBody = 1 << 20

// Money-moving POST endpoints whose responses are replayed
var idempotentPaths = []string{
	"/transactions/transfer",
}

// Idempotency replays the cached 2xx response of an earlier request with the
// same Idempotency-Key. Keys are scoped to the authenticated actor, so the
// middleware must run after Authenticate.
func Idempotency(repo repository.IdempotencyRepository, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !requiresIdempotency(r) {
				next.ServeHTTP(w, r)
				return
			}

			idempotencyKey := strings.TrimSpace(r.Header.Get(IdempotencyKeyHeader))
			actor, ok := ActorFrom(r.Context())
			if idempotencyKey == "" || !ok {
				next.ServeHTTP(w, r)
				return
			}

			body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxIdempotentBody))
			if err != nil {
				writeError(w, http.StatusRequestEntityTooLarge, service.ErrCodeValidation, "request body too large")
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))

			scopedKey := actor.UserID.String() + ":" + idempotencyKey
			requestPath := normalizeRequestPath(r.URL.Path)
			requestHash := hashRequest(body)
			ctx := r.Context()

			cached, err := repo.Get(ctx, scopedKey, requestPath)
			if err != nil && !errors.Is(err, models.ErrNotFound) {
				logger.Error("failed to check idempotency cache", "error", err)
				next.ServeHTTP(w, r)
				return
			}

			if cached != nil {
				if cached.RequestHash != "" && cached.RequestHash != requestHash {
					writeError(w, http.StatusConflict, service.ErrCodeIdempotencyKeyReused,
						"idempotency key was already used with a different request body")
					return
				}

				logger.Debug("replaying cached response", "key", idempotencyKey, "status", cached.ResponseStatus)
				replay(w, cached)
				return
			}

			capture := newBodyRecorder(w)
			next.ServeHTTP(capture, r)

			if !shouldCacheResponse(capture.statusCode) {
				return
			}
			err = repo.Store(ctx, &models.IdempotencyKey{
				Key:            scopedKey,
				RequestPath:    requestPath,
				RequestHash:    requestHash,
				ResponseStatus: capture.statusCode,
				ResponseBody:   capture.body.String(),
				CreatedAt:      time.Now().UTC(),
			})
			if err != nil {
				logger.Error("failed to store idempotency key", "error", err, "key", idempotencyKey)
			}
		})
	}
}

func replay(w http.ResponseWriter, cached *models.IdempotencyKey) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Idempotent-Replayed", "true")
	w.WriteHeader(cached.ResponseStatus)
	//nolint:errcheck // Best effort response writing
	w.Write([]byte(cached.ResponseBody))
}

func requiresIdempotency(r *http.Request) bool {
	if r.Method != http.MethodPost {
		return false
	}

	return slices.Contains(idempotentPaths, normalizeRequestPath(r.URL.Path))
}

func normalizeRequestPath(urlPath string) string {
	return strings.TrimSuffix(urlPath, "/")
}

func hashRequest(body []byte) string {
	sum := sha256.Sum256(bytes.TrimSpace(body))
	return hex.EncodeToString(sum[:])
}

func shouldCacheResponse(statusCode int) bool {
	return statusCode >= 200 && statusCode < 300
}
