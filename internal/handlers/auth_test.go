package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/benx421/digital-bank/internal/middleware"
	"github.com/benx421/digital-bank/internal/models"
	"github.com/benx421/digital-bank/internal/service"
	"github.com/benx421/digital-bank/internal/service/mocks"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func authResult() *service.AuthResult {
	now := time.Now().UTC()
	return &service.AuthResult{
		User:             &models.User{ID: uuid.New(), Email: "ana@bank.test", Role: models.RoleCustomer},
		AccessToken:      "at_123",
		RefreshToken:     "rt_456",
		AccessExpiresAt:  now.Add(15 * time.Minute),
		RefreshExpiresAt: now.Add(7 * 24 * time.Hour),
	}
}

func cookiesByName(rec *httptest.ResponseRecorder) map[string]*http.Cookie {
	out := map[string]*http.Cookie{}
	for _, c := range rec.Result().Cookies() {
		out[c.Name] = c
	}
	return out
}

func TestSignup_Success(t *testing.T) {
	mockAuth := mocks.NewMockAuthManager(t)
	h := NewHandler(mockAuth, nil, nil, nil, nil, nil, true, testLogger())

	mockAuth.On("Signup", mock.Anything, service.SignupInput{
		Email:     "ana@bank.test",
		Password:  "s3cret-pass",
		Firstname: "Ana",
		Role:      models.RoleCustomer,
	}).Return(authResult(), nil)

	rec := httptest.NewRecorder()
	h.Signup(rec, newRequest(http.MethodPost, "/auth/signup",
		`{"email":"ana@bank.test","password":"s3cret-pass","firstname":"Ana","role":"CUSTOMER"}`))

	require.Equal(t, http.StatusCreated, rec.Code)

	cookies := cookiesByName(rec)
	require.Contains(t, cookies, middleware.AccessTokenCookie)
	assert.Equal(t, "at_123", cookies[middleware.AccessTokenCookie].Value)
	assert.True(t, cookies[middleware.AccessTokenCookie].HttpOnly)
	assert.True(t, cookies[middleware.AccessTokenCookie].Secure)
	assert.Equal(t, "rt_456", cookies[middleware.RefreshTokenCookie].Value)

	var body map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "at_123", body["accessToken"])
	assert.NotContains(t, body["user"], "passwordHash")
}

func TestSignup_Errors(t *testing.T) {
	tests := []struct {
		name       string
		serviceErr error
		wantStatus int
		wantCode   string
	}{
		{"cooldown", &service.ServiceError{Code: service.ErrCodeSignupCooldown, Message: "signup is closed"}, http.StatusTooManyRequests, service.ErrCodeSignupCooldown},
		{"email taken", &service.ServiceError{Code: service.ErrCodeEmailTaken, Message: "email already registered"}, http.StatusConflict, service.ErrCodeEmailTaken},
		{"weak password", &service.ServiceError{Code: service.ErrCodeValidation, Message: "password too short"}, http.StatusBadRequest, service.ErrCodeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockAuth := mocks.NewMockAuthManager(t)
			h := NewHandler(mockAuth, nil, nil, nil, nil, nil, false, testLogger())

			mockAuth.On("Signup", mock.Anything, mock.Anything).Return(nil, tt.serviceErr)

			rec := httptest.NewRecorder()
			h.Signup(rec, newRequest(http.MethodPost, "/auth/signup", `{"email":"ana@bank.test","password":"x"}`))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantCode, decodeErrorBody(t, rec).Error)
			assert.Empty(t, rec.Result().Cookies())
		})
	}
}

func TestSignup_InvalidBody(t *testing.T) {
	h := NewHandler(nil, nil, nil, nil, nil, nil, false, testLogger())

	rec := httptest.NewRecorder()
	h.Signup(rec, newRequest(http.MethodPost, "/auth/signup", `not json`))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, service.ErrCodeValidation, decodeErrorBody(t, rec).Error)
}

func TestLogin(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		mockAuth := mocks.NewMockAuthManager(t)
		h := NewHandler(mockAuth, nil, nil, nil, nil, nil, false, testLogger())

		mockAuth.On("Login", mock.Anything, "ana@bank.test", "s3cret-pass").Return(authResult(), nil)

		rec := httptest.NewRecorder()
		h.Login(rec, newRequest(http.MethodPost, "/auth/login", `{"email":"ana@bank.test","password":"s3cret-pass"}`))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, cookiesByName(rec), middleware.RefreshTokenCookie)
	})

	t.Run("bad credentials", func(t *testing.T) {
		mockAuth := mocks.NewMockAuthManager(t)
		h := NewHandler(mockAuth, nil, nil, nil, nil, nil, false, testLogger())

		mockAuth.On("Login", mock.Anything, "ana@bank.test", "wrong").
			Return(nil, &service.ServiceError{Code: service.ErrCodeInvalidCredentials, Message: "invalid email or password"})

		rec := httptest.NewRecorder()
		h.Login(rec, newRequest(http.MethodPost, "/auth/login", `{"email":"ana@bank.test","password":"wrong"}`))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "invalid email or password", decodeErrorBody(t, rec).Message)
	})
}

func TestLogout(t *testing.T) {
	t.Run("bearer token", func(t *testing.T) {
		mockAuth := mocks.NewMockAuthManager(t)
		h := NewHandler(mockAuth, nil, nil, nil, nil, nil, false, testLogger())

		mockAuth.On("Logout", mock.Anything, "at_123").Return(nil)

		req := newRequest(http.MethodPost, "/auth/logout", "")
		req.Header.Set("Authorization", "Bearer at_123")
		rec := httptest.NewRecorder()
		h.Logout(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		cookies := cookiesByName(rec)
		require.Contains(t, cookies, middleware.AccessTokenCookie)
		assert.Empty(t, cookies[middleware.AccessTokenCookie].Value)
		assert.Negative(t, cookies[middleware.AccessTokenCookie].MaxAge)
	})

	t.Run("cookie token", func(t *testing.T) {
		mockAuth := mocks.NewMockAuthManager(t)
		h := NewHandler(mockAuth, nil, nil, nil, nil, nil, false, testLogger())

		mockAuth.On("Logout", mock.Anything, "at_cookie").Return(nil)

		req := newRequest(http.MethodPost, "/auth/logout", "")
		req.AddCookie(&http.Cookie{Name: middleware.AccessTokenCookie, Value: "at_cookie"})
		rec := httptest.NewRecorder()
		h.Logout(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
	})
}

func TestRefresh(t *testing.T) {
	tests := []struct {
		prepare func(r *http.Request)
		name    string
		body    string
	}{
		{name: "bearer", prepare: func(r *http.Request) { r.Header.Set("Authorization", "Bearer rt_456") }},
		{name: "cookie", prepare: func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: middleware.RefreshTokenCookie, Value: "rt_456"})
		}},
		{name: "body", body: `{"refreshToken":"rt_456"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockAuth := mocks.NewMockAuthManager(t)
			h := NewHandler(mockAuth, nil, nil, nil, nil, nil, false, testLogger())

			mockAuth.On("Refresh", mock.Anything, "rt_456").Return(authResult(), nil)

			req := newRequest(http.MethodPost, "/auth/refresh", tt.body)
			if tt.prepare != nil {
				tt.prepare(req)
			}
			rec := httptest.NewRecorder()
			h.Refresh(rec, req)

			assert.Equal(t, http.StatusOK, rec.Code)
		})
	}

	t.Run("missing token", func(t *testing.T) {
		mockAuth := mocks.NewMockAuthManager(t)
		h := NewHandler(mockAuth, nil, nil, nil, nil, nil, false, testLogger())

		mockAuth.On("Refresh", mock.Anything, "").
			Return(nil, &service.ServiceError{Code: service.ErrCodeUnauthenticated, Message: "invalid refresh token"})

		rec := httptest.NewRecorder()
		h.Refresh(rec, newRequest(http.MethodPost, "/auth/refresh", ""))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestGetSignupStatus(t *testing.T) {
	mockAuth := mocks.NewMockAuthManager(t)
	h := NewHandler(mockAuth, nil, nil, nil, nil, nil, false, testLogger())

	last := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)
	mockAuth.On("SignupStatus", mock.Anything).Return(&service.SignupStatus{
		ServerTime:       last.Add(90 * time.Second),
		LastSignupTime:   &last,
		RemainingSeconds: 810,
		CooldownMinutes:  15,
		CanSignup:        false,
	}, nil)

	rec := httptest.NewRecorder()
	h.GetSignupStatus(rec, newRequest(http.MethodGet, "/auth/signup-status", ""))

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, false, body["canSignup"])
	assert.Equal(t, float64(810), body["remainingSeconds"])
	assert.Equal(t, float64(15), body["cooldownMinutes"])
	assert.Equal(t, "2025-03-14T09:30:00Z", body["lastSignupTime"])
}
