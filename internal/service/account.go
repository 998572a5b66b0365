package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/benx421/digital-bank/internal/events"
	"github.com/benx421/digital-bank/internal/models"
	"github.com/benx421/digital-bank/internal/repository"
	"github.com/google/uuid"
)

// maxNumberAttempts bounds retries on account number collisions
const maxNumberAttempts = 5

// RequestAccountInput describes a new account petition
type RequestAccountInput struct {
	Currency models.Currency
	Type     models.AccountType
}

// AccountService owns account records and their lifecycle
type AccountService struct {
	store     repository.Store
	publisher events.Publisher
	logger    *slog.Logger
	now       func() time.Time
	numbers   func() (string, error)
}

// NewAccountService creates a new AccountService
func NewAccountService(store repository.Store, publisher events.Publisher, logger *slog.Logger) *AccountService {
	return &AccountService{
		store:     store,
		publisher: publisher,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
		numbers:   GenerateAccountNumber,
	}
}

// RequestAccount opens a pending account for the actor in the given currency
func (s *AccountService) RequestAccount(ctx context.Context, actor Actor, in RequestAccountInput) (*models.Account, error) {
	if err := ValidateCurrency(in.Currency); err != nil {
		return nil, &ServiceError{Code: ErrCodeInvalidCurrency, Message: err.Error()}
	}
	if in.Type == "" {
		in.Type = models.AccountTypeChecking
	}
	if !in.Type.Valid() {
		return nil, newError(ErrCodeValidation, fmt.Sprintf("invalid account type %q: must be CHECKING or SAVINGS", in.Type))
	}

	account, err := s.performRequestAccount(ctx, s.store.Repositories().Accounts, actor, in)
	if err != nil {
		return nil, err
	}

	s.logger.Info("account requested",
		"account_id", account.ID,
		"owner_id", account.OwnerID,
		"currency", account.Currency,
	)
	return account, nil
}

func (s *AccountService) performRequestAccount(
	ctx context.Context,
	accountRepo repository.AccountRepository,
	actor Actor,
	in RequestAccountInput,
) (*models.Account, error) {
	for attempt := 1; attempt <= maxNumberAttempts; attempt++ {
		number, err := s.numbers()
		if err != nil {
			return nil, internalError("failed to generate account number", err)
		}

		account := models.NewPendingAccount(actor.UserID, number, in.Type, in.Currency, s.now())
		err = accountRepo.Create(ctx, account)
		switch {
		case err == nil:
			return account, nil
		case errors.Is(err, models.ErrDuplicateAccount):
			return nil, newError(ErrCodeDuplicateAccount, fmt.Sprintf("you already have a %s account", in.Currency))
		case errors.Is(err, models.ErrDuplicateAccountNumber):
			s.logger.Warn("account number collision, retrying", "attempt", attempt)
			continue
		default:
			return nil, internalError("failed to create account", err)
		}
	}

	return nil, internalError("failed to allocate a unique account number", models.ErrDuplicateAccountNumber)
}

// ListUserAccounts returns every account held by userID
func (s *AccountService) ListUserAccounts(ctx context.Context, actor Actor, userID uuid.UUID) ([]*models.Account, error) {
	if err := requireSelfOrAdmin(actor, userID); err != nil {
		return nil, err
	}

	accounts, err := s.store.Repositories().Accounts.ListByOwner(ctx, userID)
	if err != nil {
		return nil, internalError("failed to list accounts", err)
	}
	return accounts, nil
}

// Activate approves a pending account
func (s *AccountService) Activate(ctx context.Context, actor Actor, accountID uuid.UUID) (*models.Account, error) {
	return s.transition(ctx, actor, accountID, models.ActionActivate)
}

// Block freezes an active account
func (s *AccountService) Block(ctx context.Context, actor Actor, accountID uuid.UUID) (*models.Account, error) {
	return s.transition(ctx, actor, accountID, models.ActionBlock)
}

// RequestUnlock files the owner's petition to unblock an account
func (s *AccountService) RequestUnlock(ctx context.Context, actor Actor, accountID uuid.UUID) (*models.Account, error) {
	return s.transition(ctx, actor, accountID, models.ActionRequestUnlock)
}

// Unblock returns a blocked account to active
func (s *AccountService) Unblock(ctx context.Context, actor Actor, accountID uuid.UUID) (*models.Account, error) {
	return s.transition(ctx, actor, accountID, models.ActionUnblock)
}

// transition applies action on the locked account row and commits before
// the updated account is returned
func (s *AccountService) transition(ctx context.Context, actor Actor, accountID uuid.UUID, action string) (*models.Account, error) {
	var (
		account *models.Account
		from    models.AccountState
		changed bool
	)

	err := s.store.WithTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted}, func(ctx context.Context, repos repository.Repositories) error {
		var err error
		account, from, changed, err = s.performTransition(ctx, repos.Accounts, actor, accountID, action)
		return err
	})
	if err != nil {
		return nil, err
	}

	if changed {
		s.logger.Info("account status changed",
			"account_id", account.ID,
			"action", action,
			"from", from,
			"to", account.State(),
			"actor_id", actor.UserID,
		)
		publish(ctx, s.publisher, s.logger, events.AccountStatusChanged(account, from, action, actor.UserID))
	}

	return account, nil
}

// performTransition contains the core lifecycle logic
func (s *AccountService) performTransition(
	ctx context.Context,
	accountRepo repository.AccountRepository,
	actor Actor,
	accountID uuid.UUID,
	action string,
) (*models.Account, models.AccountState, bool, error) {
	// admin-only actions are refused before the lookup so unknown ids stay hidden
	if adminOnly(action) {
		if err := requireAdmin(actor); err != nil {
			return nil, "", false, err
		}
	}

	account, err := accountRepo.FindByIDForUpdate(ctx, accountID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, "", false, newError(ErrCodeAccountNotFound, "account not found")
		}
		return nil, "", false, internalError("failed to load account", err)
	}

	if err := authorizeTransition(actor, account, action); err != nil {
		return nil, "", false, err
	}

	from := account.State()
	now := s.now()
	changed := true

	switch action {
	case models.ActionActivate:
		err = account.Activate(now)
	case models.ActionBlock:
		err = account.Block(now)
	case models.ActionRequestUnlock:
		changed, err = account.RequestUnlock(now)
	case models.ActionUnblock:
		err = account.Unblock(now)
	default:
		err = fmt.Errorf("unknown action %q", action)
	}
	if err != nil {
		var stateErr *models.StateError
		if errors.As(err, &stateErr) {
			return nil, "", false, &ServiceError{Code: ErrCodeInvalidState, Message: stateErr.Error(), Err: err}
		}
		return nil, "", false, internalError("failed to apply account transition", err)
	}

	if !changed {
		return account, from, false, nil
	}

	if err := accountRepo.UpdateStatus(ctx, account); err != nil {
		return nil, "", false, internalError("failed to update account status", err)
	}

	return account, from, true, nil
}

func adminOnly(action string) bool {
	return action == models.ActionActivate || action == models.ActionUnblock
}

func authorizeTransition(actor Actor, account *models.Account, action string) error {
	switch action {
	case models.ActionBlock:
		if account.OwnerID != actor.UserID && !actor.IsAdmin() {
			return newError(ErrCodeNotOwner, "you do not own this account")
		}
	case models.ActionRequestUnlock:
		if account.OwnerID != actor.UserID {
			return newError(ErrCodeNotOwner, "you do not own this account")
		}
	}
	return nil
}

// publish delivers committed events, logging instead of failing the caller
func publish(ctx context.Context, publisher events.Publisher, logger *slog.Logger, evts ...events.Event) {
	if err := publisher.Publish(context.WithoutCancel(ctx), evts...); err != nil {
		logger.Error("failed to publish events", "error", err, "count", len(evts))
	}
}
