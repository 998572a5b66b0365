package service

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/benx421/digital-bank/internal/models"
	"github.com/benx421/digital-bank/internal/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var snapshotTx = &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}

// TransactionSearch holds the admin transaction search filters
type TransactionSearch struct {
	UserID     *uuid.UUID
	MinAmount  *decimal.Decimal
	MaxAmount  *decimal.Decimal
	Currency   models.Currency
	Status     models.TransactionStatus
	AccountRef string
}

// AdminService serves approval queues and searches to administrators
type AdminService struct {
	store    repository.Store
	accounts *AccountService
	logger   *slog.Logger
}

// NewAdminService creates a new AdminService
func NewAdminService(store repository.Store, accounts *AccountService, logger *slog.Logger) *AdminService {
	return &AdminService{store: store, accounts: accounts, logger: logger}
}

// ListPending returns accounts awaiting approval
func (s *AdminService) ListPending(ctx context.Context, actor Actor, page models.PageRequest) (models.Page[*models.Account], error) {
	return s.listAccounts(ctx, actor, repository.AccountFilter{State: models.AccountStatePendingApproval}, page)
}

// ListBlocked returns blocked accounts, including those with an open unlock request
func (s *AdminService) ListBlocked(ctx context.Context, actor Actor, page models.PageRequest) (models.Page[*models.Account], error) {
	return s.listAccounts(ctx, actor, repository.AccountFilter{State: models.AccountStateBlocked}, page)
}

// ListUnlockRequests returns blocked accounts whose owner asked for an unlock
func (s *AdminService) ListUnlockRequests(ctx context.Context, actor Actor, page models.PageRequest) (models.Page[*models.Account], error) {
	return s.listAccounts(ctx, actor, repository.AccountFilter{State: models.AccountStateUnlockRequested}, page)
}

// SearchAccounts matches accounts by id, owner id, account number prefix or owner email
func (s *AdminService) SearchAccounts(ctx context.Context, actor Actor, query string, page models.PageRequest) (models.Page[*models.Account], error) {
	return s.listAccounts(ctx, actor, repository.AccountFilter{Query: query}, page)
}

// Activate approves a pending account
func (s *AdminService) Activate(ctx context.Context, actor Actor, accountID uuid.UUID) (*models.Account, error) {
	return s.accounts.Activate(ctx, actor, accountID)
}

// Unblock returns a blocked account to active
func (s *AdminService) Unblock(ctx context.Context, actor Actor, accountID uuid.UUID) (*models.Account, error) {
	return s.accounts.Unblock(ctx, actor, accountID)
}

// listAccounts reads the count and the page from one snapshot so that they agree
func (s *AdminService) listAccounts(ctx context.Context, actor Actor, filter repository.AccountFilter, page models.PageRequest) (models.Page[*models.Account], error) {
	if err := requireAdmin(actor); err != nil {
		return models.Page[*models.Account]{}, err
	}
	page = page.Normalize()

	var (
		accounts []*models.Account
		total    int
	)
	err := s.store.WithTx(ctx, snapshotTx, func(ctx context.Context, repos repository.Repositories) error {
		var err error
		accounts, total, err = repos.Accounts.List(ctx, filter, page)
		return err
	})
	if err != nil {
		return models.Page[*models.Account]{}, internalError("failed to list accounts", err)
	}

	return models.NewPage(accounts, total, page), nil
}

// SearchTransactions returns transactions matching every given filter, newest first
func (s *AdminService) SearchTransactions(ctx context.Context, actor Actor, search TransactionSearch, page models.PageRequest) (models.Page[*models.Transaction], error) {
	if err := requireAdmin(actor); err != nil {
		return models.Page[*models.Transaction]{}, err
	}
	if err := validateSearch(search); err != nil {
		return models.Page[*models.Transaction]{}, err
	}
	page = page.Normalize()

	filter := repository.TransactionFilter{
		UserID:     search.UserID,
		MinAmount:  search.MinAmount,
		MaxAmount:  search.MaxAmount,
		Currency:   search.Currency,
		Status:     search.Status,
		AccountRef: search.AccountRef,
	}

	var (
		txns  []*models.Transaction
		total int
	)
	err := s.store.WithTx(ctx, snapshotTx, func(ctx context.Context, repos repository.Repositories) error {
		var err error
		txns, total, err = repos.Transactions.Search(ctx, filter, page)
		return err
	})
	if err != nil {
		return models.Page[*models.Transaction]{}, internalError("failed to search transactions", err)
	}

	return models.NewPage(txns, total, page), nil
}

func validateSearch(search TransactionSearch) error {
	if search.Currency != "" && !search.Currency.Valid() {
		return newError(ErrCodeInvalidCurrency, "invalid currency filter")
	}
	switch search.Status {
	case "", models.TransactionStatusPending, models.TransactionStatusPosted, models.TransactionStatusFailed:
	default:
		return newError(ErrCodeValidation, "invalid status filter")
	}
	if search.MinAmount != nil && search.MaxAmount != nil && search.MinAmount.GreaterThan(*search.MaxAmount) {
		return newError(ErrCodeValidation, "minAmount cannot exceed maxAmount")
	}
	return nil
}
