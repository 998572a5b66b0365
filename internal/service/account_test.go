package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/benx421/digital-bank/internal/events"
	eventmocks "github.com/benx421/digital-bank/internal/events/mocks"
	"github.com/benx421/digital-bank/internal/models"
	"github.com/benx421/digital-bank/internal/repository/memory"
	"github.com/benx421/digital-bank/internal/repository/mocks"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestAccountService(store *memory.Store) *AccountService {
	s := NewAccountService(store, events.NopPublisher{}, discardLogger())
	s.now = fixedClock()
	return s
}

func TestAccountService_PerformRequestAccount(t *testing.T) {
	t.Run("creates pending account", func(t *testing.T) {
		mockAccountRepo := mocks.NewMockAccountRepository(t)
		service := newTestAccountService(nil)
		service.numbers = func() (string, error) { return "4532015112830366", nil }
		ctx := context.Background()
		actor := customer(uuid.New())

		mockAccountRepo.On("Create", ctx, mock.AnythingOfType("*models.Account")).Return(nil)

		account, err := service.performRequestAccount(ctx, mockAccountRepo, actor, RequestAccountInput{
			Currency: models.CurrencyPEN,
			Type:     models.AccountTypeSavings,
		})

		require.NoError(t, err)
		assert.Equal(t, actor.UserID, account.OwnerID)
		assert.Equal(t, "4532015112830366", account.AccountNumber)
		assert.Equal(t, models.AccountStatePendingApproval, account.State())
		assert.True(t, account.Balance.IsZero())
		assert.Equal(t, testNow, account.CreatedAt)
	})

	t.Run("retries account number collisions", func(t *testing.T) {
		mockAccountRepo := mocks.NewMockAccountRepository(t)
		service := newTestAccountService(nil)
		numbers := []string{"4532015112830366", "4111111111111111"}
		service.numbers = func() (string, error) {
			n := numbers[0]
			numbers = numbers[1:]
			return n, nil
		}
		ctx := context.Background()

		mockAccountRepo.On("Create", ctx, mock.MatchedBy(func(a *models.Account) bool {
			return a.AccountNumber == "4532015112830366"
		})).Return(models.ErrDuplicateAccountNumber).Once()
		mockAccountRepo.On("Create", ctx, mock.MatchedBy(func(a *models.Account) bool {
			return a.AccountNumber == "4111111111111111"
		})).Return(nil).Once()

		account, err := service.performRequestAccount(ctx, mockAccountRepo, customer(uuid.New()), RequestAccountInput{Currency: models.CurrencyUSD})

		require.NoError(t, err)
		assert.Equal(t, "4111111111111111", account.AccountNumber)
	})

	t.Run("gives up after repeated collisions", func(t *testing.T) {
		mockAccountRepo := mocks.NewMockAccountRepository(t)
		service := newTestAccountService(nil)
		service.numbers = func() (string, error) { return "4532015112830366", nil }
		ctx := context.Background()

		mockAccountRepo.On("Create", ctx, mock.Anything).Return(models.ErrDuplicateAccountNumber).Times(maxNumberAttempts)

		account, err := service.performRequestAccount(ctx, mockAccountRepo, customer(uuid.New()), RequestAccountInput{Currency: models.CurrencyUSD})

		assert.Nil(t, account)
		assertCode(t, err, ErrCodeInternalError)
	})

	t.Run("duplicate currency", func(t *testing.T) {
		mockAccountRepo := mocks.NewMockAccountRepository(t)
		service := newTestAccountService(nil)
		service.numbers = func() (string, error) { return "4532015112830366", nil }
		ctx := context.Background()

		mockAccountRepo.On("Create", ctx, mock.Anything).Return(models.ErrDuplicateAccount)

		account, err := service.performRequestAccount(ctx, mockAccountRepo, customer(uuid.New()), RequestAccountInput{Currency: models.CurrencyPEN})

		assert.Nil(t, account)
		assertCode(t, err, ErrCodeDuplicateAccount)
	})

	t.Run("number generator failure", func(t *testing.T) {
		mockAccountRepo := mocks.NewMockAccountRepository(t)
		service := newTestAccountService(nil)
		service.numbers = func() (string, error) { return "", errors.New("entropy exhausted") }

		account, err := service.performRequestAccount(context.Background(), mockAccountRepo, customer(uuid.New()), RequestAccountInput{Currency: models.CurrencyPEN})

		assert.Nil(t, account)
		assertCode(t, err, ErrCodeInternalError)
	})
}

func TestAccountService_RequestAccount_Validation(t *testing.T) {
	service := newTestAccountService(memory.NewStore())
	actor := customer(uuid.New())

	_, err := service.RequestAccount(context.Background(), actor, RequestAccountInput{Currency: "EUR"})
	assertCode(t, err, ErrCodeInvalidCurrency)

	_, err = service.RequestAccount(context.Background(), actor, RequestAccountInput{Currency: models.CurrencyUSD, Type: "BROKERAGE"})
	assertCode(t, err, ErrCodeValidation)
}

func TestAccountService_PerformTransition(t *testing.T) {
	ownerID := uuid.New()
	pending := func() *models.Account {
		return models.NewPendingAccount(ownerID, "4532015112830366", models.AccountTypeChecking, models.CurrencyPEN, testNow.Add(-time.Hour))
	}
	active := func() *models.Account {
		a := pending()
		_ = a.Activate(testNow.Add(-time.Hour))
		return a
	}
	blocked := func() *models.Account {
		a := active()
		_ = a.Block(testNow.Add(-time.Hour))
		return a
	}
	unlockRequested := func() *models.Account {
		a := blocked()
		_, _ = a.RequestUnlock(testNow.Add(-time.Hour))
		return a
	}

	tests := []struct {
		account     func() *models.Account
		name        string
		action      string
		wantCode    string
		wantState   models.AccountState
		actor       Actor
		wantChanged bool
	}{
		{name: "admin activates pending", account: pending, action: models.ActionActivate, actor: admin(), wantState: models.AccountStateActive, wantChanged: true},
		{name: "customer cannot activate", account: pending, action: models.ActionActivate, actor: customer(ownerID), wantCode: ErrCodeForbidden},
		{name: "activate twice", account: active, action: models.ActionActivate, actor: admin(), wantCode: ErrCodeInvalidState},
		{name: "owner blocks active", account: active, action: models.ActionBlock, actor: customer(ownerID), wantState: models.AccountStateBlocked, wantChanged: true},
		{name: "admin blocks active", account: active, action: models.ActionBlock, actor: admin(), wantState: models.AccountStateBlocked, wantChanged: true},
		{name: "stranger cannot block", account: active, action: models.ActionBlock, actor: customer(uuid.New()), wantCode: ErrCodeNotOwner},
		{name: "block pending", account: pending, action: models.ActionBlock, actor: customer(ownerID), wantCode: ErrCodeInvalidState},
		{name: "block blocked", account: blocked, action: models.ActionBlock, actor: customer(ownerID), wantCode: ErrCodeInvalidState},
		{name: "owner requests unlock", account: blocked, action: models.ActionRequestUnlock, actor: customer(ownerID), wantState: models.AccountStateUnlockRequested, wantChanged: true},
		{name: "repeated unlock request is a no-op", account: unlockRequested, action: models.ActionRequestUnlock, actor: customer(ownerID), wantState: models.AccountStateUnlockRequested},
		{name: "admin cannot request unlock for owner", account: blocked, action: models.ActionRequestUnlock, actor: admin(), wantCode: ErrCodeNotOwner},
		{name: "request unlock on active", account: active, action: models.ActionRequestUnlock, actor: customer(ownerID), wantCode: ErrCodeInvalidState},
		{name: "admin unblocks blocked", account: blocked, action: models.ActionUnblock, actor: admin(), wantState: models.AccountStateActive, wantChanged: true},
		{name: "admin unblocks unlock request", account: unlockRequested, action: models.ActionUnblock, actor: admin(), wantState: models.AccountStateActive, wantChanged: true},
		{name: "owner cannot unblock", account: blocked, action: models.ActionUnblock, actor: customer(ownerID), wantCode: ErrCodeForbidden},
		{name: "unblock active", account: active, action: models.ActionUnblock, actor: admin(), wantCode: ErrCodeInvalidState},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockAccountRepo := mocks.NewMockAccountRepository(t)
			service := newTestAccountService(nil)
			ctx := context.Background()
			account := tt.account()

			lookup := mockAccountRepo.On("FindByIDForUpdate", ctx, account.ID).Return(account, nil)
			if tt.wantCode == ErrCodeForbidden {
				lookup.Maybe()
			}
			if tt.wantChanged {
				mockAccountRepo.On("UpdateStatus", ctx, account).Return(nil)
			}

			got, _, changed, err := service.performTransition(ctx, mockAccountRepo, tt.actor, account.ID, tt.action)

			if tt.wantCode != "" {
				assert.Nil(t, got)
				assertCode(t, err, tt.wantCode)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantState, got.State())
			assert.Equal(t, tt.wantChanged, changed)
			assert.NoError(t, got.CheckInvariants())
		})
	}
}

func TestAccountService_PerformTransition_NotFound(t *testing.T) {
	mockAccountRepo := mocks.NewMockAccountRepository(t)
	service := newTestAccountService(nil)
	ctx := context.Background()
	id := uuid.New()

	mockAccountRepo.On("FindByIDForUpdate", ctx, id).Return(nil, models.ErrNotFound)

	_, _, _, err := service.performTransition(ctx, mockAccountRepo, admin(), id, models.ActionActivate)
	assertCode(t, err, ErrCodeAccountNotFound)
}

func TestAccountService_PerformTransition_AdminOnlySkipsLookup(t *testing.T) {
	for _, action := range []string{models.ActionActivate, models.ActionUnblock} {
		t.Run(action, func(t *testing.T) {
			mockAccountRepo := mocks.NewMockAccountRepository(t)
			service := newTestAccountService(nil)

			_, _, _, err := service.performTransition(context.Background(), mockAccountRepo, customer(uuid.New()), uuid.New(), action)

			assertCode(t, err, ErrCodeForbidden)
			mockAccountRepo.AssertNotCalled(t, "FindByIDForUpdate", mock.Anything, mock.Anything)
		})
	}
}

func TestAccountService_Lifecycle(t *testing.T) {
	store := memory.NewStore()
	publisher := eventmocks.NewMockPublisher(t)
	service := NewAccountService(store, publisher, discardLogger())
	ctx := context.Background()

	owner := seedUser(t, store, "ana@bank.test")
	actor := customer(owner.ID)

	account, err := service.RequestAccount(ctx, actor, RequestAccountInput{Currency: models.CurrencyPEN})
	require.NoError(t, err)
	assert.Equal(t, models.AccountTypeChecking, account.Type)

	_, err = service.RequestAccount(ctx, actor, RequestAccountInput{Currency: models.CurrencyPEN})
	assertCode(t, err, ErrCodeDuplicateAccount)

	statusChanged := func(action string, to models.AccountState) any {
		return mock.MatchedBy(func(e events.Event) bool {
			p, ok := e.Payload.(events.AccountStatusChangedPayload)
			return ok && e.Type == events.TypeAccountStatusChanged && e.AggregateID == account.ID &&
				p.Action == action && p.To == to
		})
	}
	publisher.On("Publish", mock.Anything, statusChanged(models.ActionActivate, models.AccountStateActive)).Return(nil).Once()
	publisher.On("Publish", mock.Anything, statusChanged(models.ActionBlock, models.AccountStateBlocked)).Return(nil).Once()
	publisher.On("Publish", mock.Anything, statusChanged(models.ActionRequestUnlock, models.AccountStateUnlockRequested)).Return(nil).Once()
	publisher.On("Publish", mock.Anything, statusChanged(models.ActionUnblock, models.AccountStateActive)).Return(errors.New("broker down")).Once()

	_, err = service.Activate(ctx, admin(), account.ID)
	require.NoError(t, err)

	accounts, err := service.ListUserAccounts(ctx, actor, owner.ID)
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, models.AccountStateActive, accounts[0].State())
	assert.Equal(t, "ana@bank.test", accounts[0].Owner.Email)

	_, err = service.Block(ctx, actor, account.ID)
	require.NoError(t, err)

	requested, err := service.RequestUnlock(ctx, actor, account.ID)
	require.NoError(t, err)
	firstRequest := *requested.UnlockRequestedAt

	again, err := service.RequestUnlock(ctx, actor, account.ID)
	require.NoError(t, err)
	assert.Equal(t, firstRequest, *again.UnlockRequestedAt, "a repeated request keeps the original timestamp")

	unblocked, err := service.Unblock(ctx, admin(), account.ID)
	require.NoError(t, err, "publish failures do not fail committed transitions")
	assert.Equal(t, models.AccountStateActive, unblocked.State())
	assert.Nil(t, unblocked.BlockedAt)
	assert.Nil(t, unblocked.UnlockRequestedAt)
}

func TestAccountService_ListUserAccounts_Forbidden(t *testing.T) {
	service := newTestAccountService(memory.NewStore())

	_, err := service.ListUserAccounts(context.Background(), customer(uuid.New()), uuid.New())
	assertCode(t, err, ErrCodeForbidden)
}
