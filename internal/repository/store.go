// Package repository provides data access layer implementations for the bank API.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/benx421/digital-bank/internal/db"
	"github.com/benx421/digital-bank/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DBTX is the query surface shared by *sql.DB and *sql.Tx
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// AccountFilter narrows account listings. Zero values match everything.
type AccountFilter struct {
	// State selects a lifecycle state. AccountStateBlocked matches every
	// blocked account, with or without an open unlock request.
	State models.AccountState
	// Query matches account id, owner id, account number prefix or owner email.
	Query string
}

// TransactionFilter narrows transaction searches. Zero values match everything.
type TransactionFilter struct {
	UserID     *uuid.UUID
	MinAmount  *decimal.Decimal
	MaxAmount  *decimal.Decimal
	Currency   models.Currency
	Status     models.TransactionStatus
	AccountRef string // account id or account number on either side
}

// AccountRepository defines the interface for account data access
type AccountRepository interface {
	Create(ctx context.Context, account *models.Account) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Account, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Account, error)
	FindByAccountNumber(ctx context.Context, accountNumber string) (*models.Account, error)
	LockForTransfer(ctx context.Context, ids ...uuid.UUID) (map[uuid.UUID]*models.Account, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*models.Account, error)
	List(ctx context.Context, filter AccountFilter, page models.PageRequest) ([]*models.Account, int, error)
	UpdateStatus(ctx context.Context, account *models.Account) error
	AdjustBalance(ctx context.Context, id uuid.UUID, delta decimal.Decimal) error
}

// TransactionRepository defines the interface for transaction data access
type TransactionRepository interface {
	Create(ctx context.Context, txn *models.Transaction) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Transaction, error)
	FindByIdempotencyKey(ctx context.Context, initiatorID uuid.UUID, key string) (*models.Transaction, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.TransactionStatus, reason string) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Transaction, error)
	Search(ctx context.Context, filter TransactionFilter, page models.PageRequest) ([]*models.Transaction, int, error)
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

// SessionRepository defines the interface for session data access
type SessionRepository interface {
	Create(ctx context.Context, session *models.Session) error
	FindByAccessHash(ctx context.Context, hash string) (*models.Session, error)
	FindByRefreshHash(ctx context.Context, hash string) (*models.Session, error)
	Revoke(ctx context.Context, id uuid.UUID, at time.Time) (bool, error)
}

// RateRepository defines the interface for exchange rate data access
type RateRepository interface {
	Get(ctx context.Context, from, to models.Currency) (*models.ExchangeRate, error)
	List(ctx context.Context) ([]*models.ExchangeRate, error)
}

// SignupThrottleRepository tracks the global signup cooldown window
type SignupThrottleRepository interface {
	LastSignup(ctx context.Context) (*time.Time, error)
	// Claim records a signup at now, or returns models.ErrSignupCooldown
	// when the previous one happened less than cooldown ago.
	Claim(ctx context.Context, now time.Time, cooldown time.Duration) error
}

// IdempotencyRepository defines the interface for idempotency storage
type IdempotencyRepository interface {
	Get(ctx context.Context, key, requestPath string) (*models.IdempotencyKey, error)
	Store(ctx context.Context, idemKey *models.IdempotencyKey) error
}

// Repositories groups every repository bound to the same connection or transaction
type Repositories struct {
	Accounts       AccountRepository
	Transactions   TransactionRepository
	Users          UserRepository
	Sessions       SessionRepository
	Rates          RateRepository
	SignupThrottle SignupThrottleRepository
	Idempotency    IdempotencyRepository
}

// Store opens repositories outside or inside a database transaction
type Store interface {
	Repositories() Repositories
	WithTx(ctx context.Context, opts *sql.TxOptions, fn func(ctx context.Context, repos Repositories) error) error
	PingContext(ctx context.Context) error
}

// PostgresStore implements Store on a PostgreSQL connection pool
type PostgresStore struct {
	db *db.DB
}

// NewPostgresStore creates a Store backed by database
func NewPostgresStore(database *db.DB) *PostgresStore {
	return &PostgresStore{db: database}
}

// NewRepositories binds every repository to q
func NewRepositories(q DBTX) Repositories {
	return Repositories{
		Accounts:       NewAccountRepository(q),
		Transactions:   NewTransactionRepository(q),
		Users:          NewUserRepository(q),
		Sessions:       NewSessionRepository(q),
		Rates:          NewRateRepository(q),
		SignupThrottle: NewSignupThrottleRepository(q),
		Idempotency:    NewIdempotencyRepository(q),
	}
}

// Repositories returns repositories running on the pool, one statement per call
func (s *PostgresStore) Repositories() Repositories {
	return NewRepositories(s.db)
}

// WithTx runs fn inside a transaction and commits when fn returns nil
func (s *PostgresStore) WithTx(ctx context.Context, opts *sql.TxOptions, fn func(ctx context.Context, repos Repositories) error) error {
	tx, err := s.db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback() //nolint:errcheck // rollback error is not critical in defer
	}()

	if err := fn(ctx, NewRepositories(tx)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// PingContext checks database reachability
func (s *PostgresStore) PingContext(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func notFound(err error, what string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s not found: %w", what, models.ErrNotFound)
	}
	return err
}
