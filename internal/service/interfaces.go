package service

import (
	"context"

	"github.com/benx421/digital-bank/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// HealthChecker validates system health.
type HealthChecker interface {
	PingContext(ctx context.Context) error
}

// Authenticator resolves bearer tokens to actors
type Authenticator interface {
	Authenticate(ctx context.Context, accessToken string) (*Actor, error)
}

// AuthManager handles signup, login and token lifecycle
type AuthManager interface {
	Authenticator
	Signup(ctx context.Context, in SignupInput) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	Logout(ctx context.Context, accessToken string) error
	Refresh(ctx context.Context, refreshToken string) (*AuthResult, error)
	SignupStatus(ctx context.Context) (*SignupStatus, error)
}

// AccountManager handles customer-facing account operations
type AccountManager interface {
	RequestAccount(ctx context.Context, actor Actor, in RequestAccountInput) (*models.Account, error)
	ListUserAccounts(ctx context.Context, actor Actor, userID uuid.UUID) ([]*models.Account, error)
	Block(ctx context.Context, actor Actor, accountID uuid.UUID) (*models.Account, error)
	RequestUnlock(ctx context.Context, actor Actor, accountID uuid.UUID) (*models.Account, error)
}

// AdminManager handles approval queues and back-office searches
type AdminManager interface {
	ListPending(ctx context.Context, actor Actor, page models.PageRequest) (models.Page[*models.Account], error)
	ListBlocked(ctx context.Context, actor Actor, page models.PageRequest) (models.Page[*models.Account], error)
	ListUnlockRequests(ctx context.Context, actor Actor, page models.PageRequest) (models.Page[*models.Account], error)
	SearchAccounts(ctx context.Context, actor Actor, query string, page models.PageRequest) (models.Page[*models.Account], error)
	SearchTransactions(ctx context.Context, actor Actor, search TransactionSearch, page models.PageRequest) (models.Page[*models.Transaction], error)
	Activate(ctx context.Context, actor Actor, accountID uuid.UUID) (*models.Account, error)
	Unblock(ctx context.Context, actor Actor, accountID uuid.UUID) (*models.Account, error)
}

// Transferer handles funds movement and transaction history
type Transferer interface {
	Transfer(ctx context.Context, actor Actor, req TransferRequest) (*models.Transaction, bool, error)
	ListUserTransactions(ctx context.Context, actor Actor, userID uuid.UUID) ([]*models.Transaction, error)
}

// RateConverter converts amounts between currencies
type RateConverter interface {
	Convert(ctx context.Context, amount decimal.Decimal, from, to models.Currency) (decimal.Decimal, *decimal.Decimal, error)
	Rates(ctx context.Context) ([]*models.ExchangeRate, error)
}

// Ensure concrete types implement interfaces
var (
	_ AuthManager    = (*AuthService)(nil)
	_ AccountManager = (*AccountService)(nil)
	_ AdminManager   = (*AdminService)(nil)
	_ Transferer     = (*TransferService)(nil)
	_ RateConverter  = (*RateService)(nil)
)
