//nolint:errcheck // unchecked errors are acceptable in test files
package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/benx421/digital-bank/internal/config"
	"github.com/benx421/digital-bank/internal/events"
	"github.com/benx421/digital-bank/internal/repository/memory"
	"github.com/benx421/digital-bank/internal/service"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	adminEmail    = "admin@bank.test"
	adminPassword = "admin-pass"
)

// testServer runs the full router on an in-memory store
type testServer struct {
	server *httptest.Server
	store  *memory.Store
	t      *testing.T
}

func newTestServer(t *testing.T, cooldown time.Duration) *testServer {
	t.Helper()

	cfg := &config.Config{
		App: config.AppConfig{RateCacheTTL: time.Minute},
		Auth: config.AuthConfig{
			AccessTokenTTL:  15 * time.Minute,
			RefreshTokenTTL: time.Hour,
			SignupCooldown:  cooldown,
		},
	}
	logger := testLogger()
	store := memory.NewStore()

	require.NoError(t, service.NewAuthService(store, cfg.Auth, logger).BootstrapAdmin(context.Background(), adminEmail, adminPassword))

	ts := &testServer{
		server: httptest.NewServer(NewRouter(store, events.NopPublisher{}, cfg, logger)),
		store:  store,
		t:      t,
	}
	t.Cleanup(ts.server.Close)
	return ts
}

// do sends a JSON request and decodes the JSON response into out when non-nil
func (ts *testServer) do(method, path, token string, body any, headers map[string]string, out any) *http.Response {
	ts.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(ts.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, ts.server.URL+path, reader)
	require.NoError(ts.t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(ts.t, err)
	defer resp.Body.Close()

	if out != nil {
		require.NoError(ts.t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

type authBody struct {
	User struct {
		ID    uuid.UUID `json:"id"`
		Email string    `json:"email"`
		Role  string    `json:"role"`
	} `json:"user"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type accountBody struct {
	Balance       decimal.Decimal `json:"balance"`
	AccountNumber string          `json:"accountNumber"`
	Currency      string          `json:"currency"`
	ID            uuid.UUID       `json:"id"`
	IsPending     bool            `json:"isPending"`
	IsActive      bool            `json:"isActive"`
}

func (ts *testServer) signup(email string) authBody {
	ts.t.Helper()

	var out authBody
	resp := ts.do(http.MethodPost, "/auth/signup", "", map[string]string{"email": email, "password": "s3cret-pass"}, nil, &out)
	require.Equal(ts.t, http.StatusCreated, resp.StatusCode)
	return out
}

func (ts *testServer) login(email, password string) authBody {
	ts.t.Helper()

	var out authBody
	resp := ts.do(http.MethodPost, "/auth/login", "", map[string]string{"email": email, "password": password}, nil, &out)
	require.Equal(ts.t, http.StatusOK, resp.StatusCode)
	return out
}

// openAccount requests an account for user and has the admin activate it
func (ts *testServer) openAccount(user authBody, adminToken, currency string, balance int64) accountBody {
	ts.t.Helper()

	var pending accountBody
	resp := ts.do(http.MethodPost, "/accounts/request", user.AccessToken, map[string]string{"currency": currency}, nil, &pending)
	require.Equal(ts.t, http.StatusCreated, resp.StatusCode)
	require.True(ts.t, pending.IsPending)

	var active accountBody
	resp = ts.do(http.MethodPatch, "/accounts/"+pending.ID.String()+"/activate", adminToken, nil, nil, &active)
	require.Equal(ts.t, http.StatusOK, resp.StatusCode)
	require.True(ts.t, active.IsActive)
	require.False(ts.t, active.IsPending)

	if balance > 0 {
		require.NoError(ts.t, ts.store.Repositories().Accounts.AdjustBalance(context.Background(), active.ID, decimal.NewFromInt(balance)))
	}
	return active
}

func (ts *testServer) accountsOf(user authBody) []accountBody {
	ts.t.Helper()

	var out []accountBody
	resp := ts.do(http.MethodGet, "/accounts/user/"+user.User.ID.String(), user.AccessToken, nil, nil, &out)
	require.Equal(ts.t, http.StatusOK, resp.StatusCode)
	return out
}

func TestRouter_TransferFlow(t *testing.T) {
	ts := newTestServer(t, 0)

	admin := ts.login(adminEmail, adminPassword)
	assert.Equal(t, "ADMIN", admin.User.Role)

	ana := ts.signup("ana@bank.test")
	luis := ts.signup("luis@bank.test")

	anaUSD := ts.openAccount(ana, admin.AccessToken, "USD", 100)
	luisUSD := ts.openAccount(luis, admin.AccessToken, "USD", 0)
	luisPEN := ts.openAccount(luis, admin.AccessToken, "PEN", 0)

	transfer := map[string]any{
		"fromAccountId":   anaUSD.ID,
		"toAccountNumber": luisUSD.AccountNumber,
		"amount":          "40",
		"description":     "dinner",
	}
	key := map[string]string{"Idempotency-Key": "dinner-1"}

	var txn map[string]any
	resp := ts.do(http.MethodPost, "/transactions/transfer", ana.AccessToken, transfer, key, &txn)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "POSTED", txn["status"])

	var replay map[string]any
	resp = ts.do(http.MethodPost, "/transactions/transfer", ana.AccessToken, transfer, key, &replay)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "true", resp.Header.Get("X-Idempotent-Replayed"))
	assert.Equal(t, txn["id"], replay["id"])

	transfer["amount"] = "41"
	resp = ts.do(http.MethodPost, "/transactions/transfer", ana.AccessToken, transfer, key, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	fx := map[string]any{
		"fromAccountId":   anaUSD.ID,
		"toAccountNumber": luisPEN.AccountNumber,
		"amount":          "10",
	}
	resp = ts.do(http.MethodPost, "/transactions/transfer", ana.AccessToken, fx, map[string]string{"Idempotency-Key": "fx-1"}, &txn)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "37.5", txn["creditedAmount"])

	balances := map[uuid.UUID]decimal.Decimal{}
	for _, a := range append(ts.accountsOf(ana), ts.accountsOf(luis)...) {
		balances[a.ID] = a.Balance
	}
	assert.True(t, decimal.NewFromInt(50).Equal(balances[anaUSD.ID]), "ana USD: %s", balances[anaUSD.ID])
	assert.True(t, decimal.NewFromInt(40).Equal(balances[luisUSD.ID]), "luis USD: %s", balances[luisUSD.ID])
	assert.True(t, decimal.RequireFromString("37.5").Equal(balances[luisPEN.ID]), "luis PEN: %s", balances[luisPEN.ID])

	var history []map[string]any
	resp = ts.do(http.MethodGet, "/transactions/user/"+luis.User.ID.String(), luis.AccessToken, nil, nil, &history)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, history, 2)

	var search map[string]any
	resp = ts.do(http.MethodGet, "/transactions/search?currency=USD&minAmount=20", admin.AccessToken, nil, nil, &search)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(1), search["total"])
}

func TestRouter_IdempotencyKeyPerUser(t *testing.T) {
	ts := newTestServer(t, 0)

	admin := ts.login(adminEmail, adminPassword)
	ana := ts.signup("ana@bank.test")
	luis := ts.signup("luis@bank.test")
	anaUSD := ts.openAccount(ana, admin.AccessToken, "USD", 20)
	luisUSD := ts.openAccount(luis, admin.AccessToken, "USD", 20)
	key := map[string]string{"Idempotency-Key": "same-key"}

	var fromAna, fromLuis map[string]any
	resp := ts.do(http.MethodPost, "/transactions/transfer", ana.AccessToken, map[string]any{
		"fromAccountId": anaUSD.ID, "toAccountNumber": luisUSD.AccountNumber, "amount": "5",
	}, key, &fromAna)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = ts.do(http.MethodPost, "/transactions/transfer", luis.AccessToken, map[string]any{
		"fromAccountId": luisUSD.ID, "toAccountNumber": anaUSD.AccountNumber, "amount": "3",
	}, key, &fromLuis)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Empty(t, resp.Header.Get("X-Idempotent-Replayed"))
	assert.NotEqual(t, fromAna["id"], fromLuis["id"])
}

func TestRouter_InsufficientFunds(t *testing.T) {
	ts := newTestServer(t, 0)

	admin := ts.login(adminEmail, adminPassword)
	ana := ts.signup("ana@bank.test")
	luis := ts.signup("luis@bank.test")

	anaUSD := ts.openAccount(ana, admin.AccessToken, "USD", 10)
	luisUSD := ts.openAccount(luis, admin.AccessToken, "USD", 0)

	transfer := map[string]any{
		"fromAccountId":   anaUSD.ID,
		"toAccountNumber": luisUSD.AccountNumber,
		"amount":          "10.01",
	}

	var errBody errorResponse
	resp := ts.do(http.MethodPost, "/transactions/transfer", ana.AccessToken, transfer, nil, &errBody)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, service.ErrCodeInsufficientFunds, errBody.Error)

	accounts := ts.accountsOf(ana)
	require.Len(t, accounts, 1)
	assert.True(t, decimal.NewFromInt(10).Equal(accounts[0].Balance))
}

func TestRouter_BlockAndUnlock(t *testing.T) {
	ts := newTestServer(t, 0)

	admin := ts.login(adminEmail, adminPassword)
	ana := ts.signup("ana@bank.test")
	account := ts.openAccount(ana, admin.AccessToken, "USD", 0)

	resp := ts.do(http.MethodPatch, "/accounts/"+account.ID.String()+"/block", ana.AccessToken, nil, nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = ts.do(http.MethodPatch, "/accounts/"+account.ID.String()+"/block", ana.AccessToken, nil, nil, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = ts.do(http.MethodPatch, "/accounts/"+account.ID.String()+"/request-unlock", ana.AccessToken, nil, nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var page map[string]any
	resp = ts.do(http.MethodGet, "/admin/accounts/unlock-requests", admin.AccessToken, nil, nil, &page)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(1), page["total"])

	resp = ts.do(http.MethodPatch, "/admin/accounts/"+account.ID.String()+"/unblock", ana.AccessToken, nil, nil, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	var unblocked accountBody
	resp = ts.do(http.MethodPatch, "/admin/accounts/"+account.ID.String()+"/unblock", admin.AccessToken, nil, nil, &unblocked)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, unblocked.IsActive)
}

func TestRouter_AccessControl(t *testing.T) {
	ts := newTestServer(t, 0)

	ana := ts.signup("ana@bank.test")
	luis := ts.signup("luis@bank.test")

	tests := []struct {
		name       string
		method     string
		path       string
		token      string
		wantStatus int
	}{
		{"no token", http.MethodGet, "/accounts/user/" + ana.User.ID.String(), "", http.StatusUnauthorized},
		{"bad token", http.MethodGet, "/accounts/user/" + ana.User.ID.String(), "at_nope", http.StatusUnauthorized},
		{"other user's accounts", http.MethodGet, "/accounts/user/" + ana.User.ID.String(), luis.AccessToken, http.StatusForbidden},
		{"customer on admin queue", http.MethodGet, "/accounts/pending", ana.AccessToken, http.StatusForbidden},
		{"customer on admin search", http.MethodGet, "/transactions/search", ana.AccessToken, http.StatusForbidden},
		{"public health", http.MethodGet, "/health", "", http.StatusOK},
		{"public rates", http.MethodGet, "/rates", "", http.StatusOK},
		{"public docs", http.MethodGet, "/docs", "", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := ts.do(tt.method, tt.path, tt.token, nil, nil, nil)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
		})
	}
}

func TestRouter_SessionLifecycle(t *testing.T) {
	ts := newTestServer(t, 0)

	ana := ts.signup("ana@bank.test")

	var refreshed authBody
	resp := ts.do(http.MethodPost, "/auth/refresh", "", map[string]string{"refreshToken": ana.RefreshToken}, nil, &refreshed)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEqual(t, ana.AccessToken, refreshed.AccessToken)

	resp = ts.do(http.MethodPost, "/auth/refresh", "", map[string]string{"refreshToken": ana.RefreshToken}, nil, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = ts.do(http.MethodPost, "/auth/logout", refreshed.AccessToken, nil, nil, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = ts.do(http.MethodGet, "/accounts/user/"+ana.User.ID.String(), refreshed.AccessToken, nil, nil, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRouter_SignupCooldown(t *testing.T) {
	ts := newTestServer(t, 15*time.Minute)

	ts.signup("ana@bank.test")

	var errBody errorResponse
	resp := ts.do(http.MethodPost, "/auth/signup", "", map[string]string{"email": "luis@bank.test", "password": "s3cret-pass"}, nil, &errBody)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, service.ErrCodeSignupCooldown, errBody.Error)

	var status service.SignupStatus
	resp = ts.do(http.MethodGet, "/auth/signup-status", "", nil, nil, &status)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.False(t, status.CanSignup)
	assert.Equal(t, 15, status.CooldownMinutes)
	assert.Positive(t, status.RemainingSeconds)
	assert.LessOrEqual(t, status.RemainingSeconds, int64(900))
}
