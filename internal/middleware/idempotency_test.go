package middleware

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/benx421/digital-bank/internal/models"
	"github.com/benx421/digital-bank/internal/repository/memory"
	"github.com/benx421/digital-bank/internal/repository/mocks"
	"github.com/benx421/digital-bank/internal/service"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

const transferPath = "/transactions/transfer"

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testHandler(status int, body string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body)) //nolint:errcheck // test helper
	})
}

var testActor = service.Actor{UserID: uuid.MustParse("6f1c2a1e-9d4b-4c55-8f60-0a3c1f2b7e11"), Role: models.RoleCustomer}

func scoped(key string) string {
	return testActor.UserID.String() + ":" + key
}

func transferRequest(key, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, transferPath, strings.NewReader(body))
	if key != "" {
		req.Header.Set(IdempotencyKeyHeader, key)
	}
	return req.WithContext(WithActor(req.Context(), testActor))
}

func TestIdempotency_GETRequestsBypassed(t *testing.T) {
	repo := mocks.NewMockIdempotencyRepository(t)
	middleware := Idempotency(repo, testLogger())

	handlerCalled := false
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, transferPath, nil)
	req.Header.Set(IdempotencyKeyHeader, "test-key")
	rec := httptest.NewRecorder()

	middleware(handler).ServeHTTP(rec, req)

	assert.True(t, handlerCalled, "handler should be called for GET requests")
	repo.AssertNotCalled(t, "Get")
	repo.AssertNotCalled(t, "Store")
}

func TestIdempotency_NonIdempotentPathBypassed(t *testing.T) {
	repo := mocks.NewMockIdempotencyRepository(t)
	middleware := Idempotency(repo, testLogger())

	handlerCalled := false
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/accounts/request", nil)
	req.Header.Set(IdempotencyKeyHeader, "test-key")
	rec := httptest.NewRecorder()

	middleware(handler).ServeHTTP(rec, req.WithContext(WithActor(req.Context(), testActor)))

	assert.True(t, handlerCalled, "handler should be called for non-idempotent paths")
	repo.AssertNotCalled(t, "Get")
}

func TestIdempotency_MissingKeyPassesThrough(t *testing.T) {
	repo := mocks.NewMockIdempotencyRepository(t)
	middleware := Idempotency(repo, testLogger())

	handlerCalled := false
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
		w.WriteHeader(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	middleware(handler).ServeHTTP(rec, transferRequest("", `{}`))

	assert.True(t, handlerCalled, "handler should be called without idempotency key")
	repo.AssertNotCalled(t, "Get")
	repo.AssertNotCalled(t, "Store")
}

func TestIdempotency_FirstRequestCached(t *testing.T) {
	repo := mocks.NewMockIdempotencyRepository(t)
	repo.On("Get", mock.Anything, scoped("unique-key-123"), transferPath).Return(nil, models.ErrNotFound)
	repo.On("Store", mock.Anything, mock.MatchedBy(func(k *models.IdempotencyKey) bool {
		return k.Key == scoped("unique-key-123") && k.RequestHash == hashRequest([]byte(`{"amount":"10"}`)) &&
			k.ResponseStatus == http.StatusCreated && k.ResponseBody == `{"status":"POSTED"}`
	})).Return(nil)

	middleware := Idempotency(repo, testLogger())
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body) //nolint:errcheck // test helper
		assert.Equal(t, `{"amount":"10"}`, string(body), "the body is restored for the handler")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"status":"POSTED"}`)) //nolint:errcheck // test helper
	})

	rec := httptest.NewRecorder()
	middleware(handler).ServeHTTP(rec, transferRequest("unique-key-123", `{"amount":"10"}`))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, `{"status":"POSTED"}`, rec.Body.String())
	assert.Empty(t, rec.Header().Get("X-Idempotent-Replayed"), "first request should not have replay header")
}

func TestIdempotency_SecondRequestReturnsCached(t *testing.T) {
	repo := mocks.NewMockIdempotencyRepository(t)

	cached := &models.IdempotencyKey{
		Key:            scoped("duplicate-key"),
		RequestPath:    transferPath,
		RequestHash:    hashRequest([]byte(`{"amount":"10"}`)),
		ResponseStatus: http.StatusCreated,
		ResponseBody:   `{"call":1}`,
	}
	repo.On("Get", mock.Anything, scoped("duplicate-key"), transferPath).Return(cached, nil)

	middleware := Idempotency(repo, testLogger())

	callCount := 0
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		callCount++
		w.WriteHeader(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	middleware(handler).ServeHTTP(rec, transferRequest("duplicate-key", `{"amount":"10"}`))

	assert.Equal(t, 0, callCount, "handler should not be called when cached")
	assert.Equal(t, "true", rec.Header().Get("X-Idempotent-Replayed"))
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, `{"call":1}`, rec.Body.String())
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestIdempotency_DifferentBodyRejected(t *testing.T) {
	repo := mocks.NewMockIdempotencyRepository(t)
	repo.On("Get", mock.Anything, scoped("k"), transferPath).Return(&models.IdempotencyKey{
		Key:            scoped("k"),
		RequestPath:    transferPath,
		RequestHash:    hashRequest([]byte(`{"amount":"10"}`)),
		ResponseStatus: http.StatusCreated,
		ResponseBody:   `{}`,
	}, nil)

	middleware := Idempotency(repo, testLogger())
	rec := httptest.NewRecorder()
	middleware(testHandler(http.StatusCreated, `{}`)).ServeHTTP(rec, transferRequest("k", `{"amount":"99"}`))

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), service.ErrCodeIdempotencyKeyReused)
}

func TestIdempotency_KeysAreScopedPerActor(t *testing.T) {
	store := memory.NewStore()
	middleware := Idempotency(store.Repositories().Idempotency, testLogger())

	calls := 0
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{}`)) //nolint:errcheck // test helper
	})

	first := httptest.NewRecorder()
	middleware(handler).ServeHTTP(first, transferRequest("shared", `{}`))

	other := httptest.NewRequest(http.MethodPost, transferPath, strings.NewReader(`{}`))
	other.Header.Set(IdempotencyKeyHeader, "shared")
	other = other.WithContext(WithActor(other.Context(), service.Actor{UserID: uuid.New(), Role: models.RoleCustomer}))
	second := httptest.NewRecorder()
	middleware(handler).ServeHTTP(second, other)

	replay := httptest.NewRecorder()
	middleware(handler).ServeHTTP(replay, transferRequest("shared", `{}`))

	assert.Equal(t, 2, calls)
	assert.Empty(t, second.Header().Get("X-Idempotent-Replayed"))
	assert.Equal(t, "true", replay.Header().Get("X-Idempotent-Replayed"))
}

func TestIdempotency_ErrorResponsesNotCached(t *testing.T) {
	for _, status := range []int{http.StatusBadRequest, http.StatusUnprocessableEntity, http.StatusInternalServerError} {
		t.Run(http.StatusText(status), func(t *testing.T) {
			repo := mocks.NewMockIdempotencyRepository(t)
			repo.On("Get", mock.Anything, scoped("error-key"), transferPath).Return(nil, models.ErrNotFound)

			middleware := Idempotency(repo, testLogger())
			rec := httptest.NewRecorder()
			middleware(testHandler(status, `{"error":"x"}`)).ServeHTTP(rec, transferRequest("error-key", `{}`))

			assert.Equal(t, status, rec.Code)
			repo.AssertNotCalled(t, "Store")
		})
	}
}

func TestIdempotency_RepoGetErrorFailsOpen(t *testing.T) {
	repo := mocks.NewMockIdempotencyRepository(t)
	repo.On("Get", mock.Anything, scoped("test-key"), transferPath).Return(nil, errors.New("database connection failed"))

	middleware := Idempotency(repo, testLogger())

	handlerCalled := false
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
		w.WriteHeader(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	middleware(handler).ServeHTTP(rec, transferRequest("test-key", `{}`))

	assert.True(t, handlerCalled, "handler should be called on repo.Get error (fail open)")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestIdempotency_RepoStoreErrorDoesNotAffectResponse(t *testing.T) {
	repo := mocks.NewMockIdempotencyRepository(t)
	repo.On("Get", mock.Anything, scoped("test-key"), transferPath).Return(nil, models.ErrNotFound)
	repo.On("Store", mock.Anything, mock.AnythingOfType("*models.IdempotencyKey")).Return(errors.New("failed to store"))

	middleware := Idempotency(repo, testLogger())
	handler := testHandler(http.StatusOK, `{"status":"success"}`)

	rec := httptest.NewRecorder()
	middleware(handler).ServeHTTP(rec, transferRequest("test-key", `{}`))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `{"status":"success"}`, rec.Body.String())
}
