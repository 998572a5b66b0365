// Package handlers implements HTTP handlers for the bank API.
package handlers

import (
	"log/slog"

	"github.com/benx421/digital-bank/internal/service"
)

// Handler serves every bank endpoint on top of the service layer
type Handler struct {
	authService     service.AuthManager
	accountService  service.AccountManager
	adminService    service.AdminManager
	transferService service.Transferer
	rateService     service.RateConverter
	healthChecker   service.HealthChecker
	logger          *slog.Logger
	secureCookies   bool
}

// NewHandler creates a new Handler with injected service dependencies.
func NewHandler(
	authService service.AuthManager,
	accountService service.AccountManager,
	adminService service.AdminManager,
	transferService service.Transferer,
	rateService service.RateConverter,
	healthChecker service.HealthChecker,
	secureCookies bool,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		authService:     authService,
		accountService:  accountService,
		adminService:    adminService,
		transferService: transferService,
		rateService:     rateService,
		healthChecker:   healthChecker,
		secureCookies:   secureCookies,
		logger:          logger,
	}
}
