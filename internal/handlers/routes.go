package handlers

import (
	"log/slog"
	"net/http"

	"github.com/benx421/digital-bank/internal/api"
	"github.com/benx421/digital-bank/internal/config"
	"github.com/benx421/digital-bank/internal/events"
	"github.com/benx421/digital-bank/internal/middleware"
	"github.com/benx421/digital-bank/internal/models"
	"github.com/benx421/digital-bank/internal/repository"
	"github.com/benx421/digital-bank/internal/service"
)

// NewRouter creates and configures the HTTP router with all routes and middleware.
func NewRouter(
	store repository.Store,
	publisher events.Publisher,
	cfg *config.Config,
	logger *slog.Logger,
) http.Handler {
	rateService := service.NewRateService(store.Repositories().Rates, cfg.App.RateCacheTTL)
	accountService := service.NewAccountService(store, publisher, logger)
	adminService := service.NewAdminService(store, accountService, logger)
	transferService := service.NewTransferService(store, rateService, publisher, logger)
	authService := service.NewAuthService(store, cfg.Auth, logger)

	h := NewHandler(authService, accountService, adminService, transferService, rateService, store, cfg.Auth.SecureCookies, logger)

	authenticated := middleware.Authenticate(authService, logger)
	admin := func(next http.HandlerFunc) http.Handler {
		return authenticated(middleware.RequireRole(models.RoleAdmin)(next))
	}
	user := func(next http.HandlerFunc) http.Handler {
		return authenticated(next)
	}
	idempotent := middleware.Idempotency(store.Repositories().Idempotency, logger)

	mux := http.NewServeMux()
	api.RegisterDocsRoutes(mux)

	mux.HandleFunc("GET /health", h.GetHealth)
	mux.HandleFunc("GET /rates", h.ListRates)

	mux.HandleFunc("POST /auth/signup", h.Signup)
	mux.HandleFunc("POST /auth/login", h.Login)
	mux.HandleFunc("POST /auth/logout", h.Logout)
	mux.HandleFunc("POST /auth/refresh", h.Refresh)
	mux.HandleFunc("GET /auth/signup-status", h.GetSignupStatus)

	mux.Handle("GET /accounts/user/{userId}", user(h.ListUserAccounts))
	mux.Handle("POST /accounts/request", user(h.RequestAccount))
	mux.Handle("PATCH /accounts/{id}/block", user(h.BlockAccount))
	mux.Handle("PATCH /accounts/{id}/request-unlock", user(h.RequestUnlock))
	mux.Handle("PATCH /accounts/{id}/activate", admin(h.ActivateAccount))
	mux.Handle("GET /accounts/pending", admin(h.ListPendingAccounts))

	mux.Handle("GET /admin/accounts/blocked", admin(h.ListBlockedAccounts))
	mux.Handle("GET /admin/accounts/unlock-requests", admin(h.ListUnlockRequests))
	mux.Handle("GET /admin/accounts/search", admin(h.SearchAccounts))
	mux.Handle("PATCH /admin/accounts/{id}/unblock", admin(h.UnblockAccount))

	mux.Handle("POST /transactions/transfer", authenticated(idempotent(http.HandlerFunc(h.Transfer))))
	mux.Handle("GET /transactions/user/{userId}", user(h.ListUserTransactions))
	mux.Handle("GET /transactions/search", admin(h.SearchTransactions))

	var finalHandler http.Handler = mux

	finalHandler = middleware.FailureInjection(&cfg.App, logger)(finalHandler)
	finalHandler = middleware.RequestLogger(logger)(finalHandler)

	return finalHandler
}
