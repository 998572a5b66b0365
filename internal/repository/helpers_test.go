package repository

import (
	"context"
	"io"
	"log"
	"log/slog"
	"testing"
	"time"

	"github.com/benx421/digital-bank/internal/config"
	"github.com/benx421/digital-bank/internal/db"
	"github.com/benx421/digital-bank/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// setupTestDB connects to the database described by the environment and
// applies migrations. Tests are skipped when no database is reachable.
func setupTestDB(t *testing.T) *db.DB {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping database test in short mode")
	}

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	cfg.Database.ConnectRetries = 0
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	database, err := db.Connect(context.Background(), &cfg.Database, logger)
	if err != nil {
		t.Skipf("test database not reachable: %v", err)
	}

	if err := database.Migrate(context.Background()); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return database
}

func cleanupTestDB(t *testing.T, database *db.DB) {
	t.Helper()
	if err := database.Close(); err != nil {
		log.Printf("failed to close test database: %v", err)
	}
}

func truncateTables(t *testing.T, database *db.DB) {
	t.Helper()

	_, err := database.ExecContext(context.Background(), `
		TRUNCATE TABLE transactions, sessions, idempotency_keys, accounts, users CASCADE;
		UPDATE signup_throttle SET last_signup_at = NULL WHERE id = 1;
	`)
	if err != nil {
		t.Fatalf("failed to truncate tables: %v", err)
	}
}

func seedUser(t *testing.T, q DBTX, email string) *models.User {
	t.Helper()

	now := time.Now().UTC().Truncate(time.Microsecond)
	user := &models.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: "hash",
		Firstname:    "Test",
		Lastname:     "User",
		Role:         models.RoleCustomer,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, NewUserRepository(q).Create(context.Background(), user))
	return user
}

func seedAccount(t *testing.T, q DBTX, owner *models.User, number string, currency models.Currency, balance string) *models.Account {
	t.Helper()

	now := time.Now().UTC().Truncate(time.Microsecond)
	account := models.NewPendingAccount(owner.ID, number, models.AccountTypeChecking, currency, now)
	require.NoError(t, account.Activate(now))
	account.Balance = decimal.RequireFromString(balance)
	require.NoError(t, NewAccountRepository(q).Create(context.Background(), account))
	return account
}
