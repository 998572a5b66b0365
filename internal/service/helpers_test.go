package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/benx421/digital-bank/internal/models"
	"github.com/benx421/digital-bank/internal/repository/memory"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func fixedClock() func() time.Time {
	return func() time.Time { return testNow }
}

func customer(id uuid.UUID) Actor {
	return Actor{UserID: id, Role: models.RoleCustomer}
}

func admin() Actor {
	return Actor{UserID: uuid.New(), Role: models.RoleAdmin}
}

func seedUser(t *testing.T, store *memory.Store, email string) *models.User {
	t.Helper()
	user := &models.User{
		ID:        uuid.New(),
		Email:     email,
		Firstname: "Test",
		Lastname:  "User",
		Role:      models.RoleCustomer,
		IsActive:  true,
		CreatedAt: testNow,
		UpdatedAt: testNow,
	}
	require.NoError(t, store.Repositories().Users.Create(context.Background(), user))
	return user
}

// seedActiveAccount stores an activated account holding balance
func seedActiveAccount(t *testing.T, store *memory.Store, owner *models.User, number string, currency models.Currency, balance string) *models.Account {
	t.Helper()
	account := models.NewPendingAccount(owner.ID, number, models.AccountTypeChecking, currency, testNow)
	require.NoError(t, account.Activate(testNow))
	account.Balance = decimal.RequireFromString(balance)
	require.NoError(t, store.Repositories().Accounts.Create(context.Background(), account))
	return account
}

func balanceOf(t *testing.T, store *memory.Store, id uuid.UUID) decimal.Decimal {
	t.Helper()
	account, err := store.Repositories().Accounts.FindByID(context.Background(), id)
	require.NoError(t, err)
	return account.Balance
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	var svcErr *ServiceError
	if assert.ErrorAs(t, err, &svcErr) {
		assert.Equal(t, code, svcErr.Code)
	}
}
