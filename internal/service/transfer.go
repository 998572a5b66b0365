package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/benx421/digital-bank/internal/events"
	"github.com/benx421/digital-bank/internal/models"
	"github.com/benx421/digital-bank/internal/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	maxDescriptionLength    = 255
	maxIdempotencyKeyLength = 255
)

// TransferRequest moves Amount, in the source currency, out of FromAccountID
type TransferRequest struct {
	Amount          decimal.Decimal
	ToAccountNumber string
	Description     string
	IdempotencyKey  string
	FromAccountID   uuid.UUID
}

// postingError marks a failure after every precondition held
type postingError struct {
	err error
}

func (e *postingError) Error() string { return e.err.Error() }
func (e *postingError) Unwrap() error { return e.err }

// TransferService moves funds between accounts atomically and idempotently
type TransferService struct {
	store     repository.Store
	rates     *RateService
	publisher events.Publisher
	logger    *slog.Logger
	now       func() time.Time
}

// NewTransferService creates a new TransferService
func NewTransferService(store repository.Store, rates *RateService, publisher events.Publisher, logger *slog.Logger) *TransferService {
	return &TransferService{
		store:     store,
		rates:     rates,
		publisher: publisher,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Transfer debits the source account and credits the destination in one
// database transaction. Replaying an idempotency key returns the transaction
// recorded under it without moving funds again and reports replayed.
func (s *TransferService) Transfer(ctx context.Context, actor Actor, req TransferRequest) (*models.Transaction, bool, error) {
	if err := s.validateTransferRequest(&req); err != nil {
		return nil, false, err
	}
	if req.IdempotencyKey == "" {
		req.IdempotencyKey = uuid.NewString()
	}

	var (
		txn      *models.Transaction
		replayed bool
	)
	err := s.store.WithTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted}, func(ctx context.Context, repos repository.Repositories) error {
		var err error
		txn, replayed, err = s.performTransfer(ctx, repos, actor, req)
		return err
	})

	var posting *postingError
	switch {
	case err == nil:
	case errors.Is(err, models.ErrDuplicateTransaction):
		txn, err = s.replay(ctx, actor, req.IdempotencyKey)
		return txn, err == nil, err
	case errors.As(err, &posting):
		return nil, false, s.recordFailure(ctx, actor, req, posting.err)
	default:
		return nil, false, err
	}

	if replayed {
		s.logger.Info("transfer replayed", "transaction_id", txn.ID, "idempotency_key", req.IdempotencyKey)
	} else {
		s.logger.Info("transfer posted",
			"transaction_id", txn.ID,
			"account_id", txn.AccountID,
			"destination_account_id", txn.DestinationAccountID,
			"amount", txn.Amount,
			"currency", txn.Currency,
		)
		publish(ctx, s.publisher, s.logger, events.TransactionPosted(txn))
	}

	return txn, replayed, nil
}

func (s *TransferService) validateTransferRequest(req *TransferRequest) error {
	if err := ValidateAmount(req.Amount); err != nil {
		return &ServiceError{Code: ErrCodeInvalidAmount, Message: err.Error()}
	}

	req.ToAccountNumber = strings.TrimSpace(req.ToAccountNumber)
	if err := ValidateLuhn(req.ToAccountNumber); err != nil {
		return &ServiceError{Code: ErrCodeInvalidAccountNumber, Message: err.Error()}
	}

	if req.FromAccountID == uuid.Nil {
		return newError(ErrCodeValidation, "source account is required")
	}

	req.Description = strings.TrimSpace(req.Description)
	if len([]rune(req.Description)) > maxDescriptionLength {
		return newError(ErrCodeValidation, fmt.Sprintf("description must be at most %d characters", maxDescriptionLength))
	}

	if len(req.IdempotencyKey) > maxIdempotencyKeyLength {
		return newError(ErrCodeValidation, fmt.Sprintf("idempotency key must be at most %d characters", maxIdempotencyKeyLength))
	}

	return nil
}

// performTransfer contains the core transfer business logic. Every check
// runs before the first write.
func (s *TransferService) performTransfer(
	ctx context.Context,
	repos repository.Repositories,
	actor Actor,
	req TransferRequest,
) (*models.Transaction, bool, error) {
	existing, err := repos.Transactions.FindByIdempotencyKey(ctx, actor.UserID, req.IdempotencyKey)
	switch {
	case err == nil:
		return existing, true, nil
	case !errors.Is(err, models.ErrNotFound):
		return nil, false, internalError("failed to check idempotency key", err)
	}

	destination, err := repos.Accounts.FindByAccountNumber(ctx, req.ToAccountNumber)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, false, newError(ErrCodeDestinationNotFound, "destination account not found")
		}
		return nil, false, internalError("failed to resolve destination account", err)
	}

	if destination.ID == req.FromAccountID {
		return nil, false, newError(ErrCodeSelfTransfer, "cannot transfer to the same account")
	}

	locked, err := repos.Accounts.LockForTransfer(ctx, req.FromAccountID, destination.ID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, false, newError(ErrCodeAccountNotFound, "source account not found")
		}
		return nil, false, internalError("failed to lock accounts", err)
	}
	source, destination := locked[req.FromAccountID], locked[destination.ID]

	if source.OwnerID != actor.UserID {
		return nil, false, newError(ErrCodeNotOwner, "you do not own the source account")
	}
	if source.State() != models.AccountStateActive {
		return nil, false, newError(ErrCodeAccountNotActive, "source account is not active")
	}
	if destination.State() != models.AccountStateActive {
		return nil, false, newError(ErrCodeAccountNotActive, "destination account is not active")
	}
	if source.Balance.LessThan(req.Amount) {
		return nil, false, newError(ErrCodeInsufficientFunds, "insufficient funds")
	}

	credited, rate, err := s.rates.ConvertIn(ctx, repos.Rates, req.Amount, source.Currency, destination.Currency)
	if err != nil {
		return nil, false, err
	}
	if !credited.IsPositive() {
		return nil, false, newError(ErrCodeInvalidAmount, "amount is too small to convert")
	}

	now := s.now()
	txn := &models.Transaction{
		ID:                   uuid.New(),
		IdempotencyKey:       req.IdempotencyKey,
		InitiatorID:          actor.UserID,
		AccountID:            source.ID,
		DestinationAccountID: destination.ID,
		Type:                 models.TransactionTypeTransfer,
		Amount:               req.Amount,
		CreditedAmount:       credited,
		Currency:             source.Currency,
		DestinationCurrency:  destination.Currency,
		ExchangeRate:         rate,
		Status:               models.TransactionStatusPending,
		Description:          req.Description,
		CreatedAt:            now,
		UpdatedAt:            now,
		Account:              source.Summary(),
		DestinationAccount:   destination.Summary(),
	}

	if err := repos.Transactions.Create(ctx, txn); err != nil {
		if errors.Is(err, models.ErrDuplicateTransaction) {
			return nil, false, err
		}
		return nil, false, &postingError{err: fmt.Errorf("failed to record transaction: %w", err)}
	}

	if err := repos.Accounts.AdjustBalance(ctx, source.ID, req.Amount.Neg()); err != nil {
		return nil, false, &postingError{err: fmt.Errorf("failed to debit source: %w", err)}
	}
	if err := repos.Accounts.AdjustBalance(ctx, destination.ID, credited); err != nil {
		return nil, false, &postingError{err: fmt.Errorf("failed to credit destination: %w", err)}
	}
	if err := repos.Transactions.UpdateStatus(ctx, txn.ID, models.TransactionStatusPosted, ""); err != nil {
		return nil, false, &postingError{err: fmt.Errorf("failed to post transaction: %w", err)}
	}
	if err := txn.Transition(models.TransactionStatusPosted, now); err != nil {
		return nil, false, &postingError{err: err}
	}

	return txn, false, nil
}

// replay resolves a key that a concurrent request recorded first
func (s *TransferService) replay(ctx context.Context, actor Actor, key string) (*models.Transaction, error) {
	existing, err := s.store.Repositories().Transactions.FindByIdempotencyKey(ctx, actor.UserID, key)
	if err != nil {
		return nil, internalError("failed to load transaction for idempotency key", err)
	}
	return existing, nil
}

// recordFailure stores a FAILED row under the request's key once the posting
// transaction has rolled back, and returns the error for the caller
func (s *TransferService) recordFailure(ctx context.Context, actor Actor, req TransferRequest, cause error) error {
	s.logger.Error("transfer posting failed",
		"account_id", req.FromAccountID,
		"idempotency_key", req.IdempotencyKey,
		"error", cause,
	)

	reason := "transfer could not be posted"
	code := ErrCodeTransferFailed
	if errors.Is(cause, models.ErrInsufficientFunds) {
		reason, code = models.FailureReasonInsufficientFunds, ErrCodeInsufficientFunds
	}

	err := s.store.WithTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted}, func(ctx context.Context, repos repository.Repositories) error {
		destination, err := repos.Accounts.FindByAccountNumber(ctx, req.ToAccountNumber)
		if err != nil {
			return err
		}
		source, err := repos.Accounts.FindByID(ctx, req.FromAccountID)
		if err != nil {
			return err
		}

		credited, rate, err := s.rates.ConvertIn(ctx, repos.Rates, req.Amount, source.Currency, destination.Currency)
		if err != nil {
			return err
		}

		now := s.now()
		return repos.Transactions.Create(ctx, &models.Transaction{
			ID:                   uuid.New(),
			IdempotencyKey:       req.IdempotencyKey,
			InitiatorID:          actor.UserID,
			AccountID:            source.ID,
			DestinationAccountID: destination.ID,
			Type:                 models.TransactionTypeTransfer,
			Amount:               req.Amount,
			CreditedAmount:       credited,
			Currency:             source.Currency,
			DestinationCurrency:  destination.Currency,
			ExchangeRate:         rate,
			Status:               models.TransactionStatusFailed,
			Description:          req.Description,
			FailureReason:        reason,
			CreatedAt:            now,
			UpdatedAt:            now,
		})
	})
	if err != nil && !errors.Is(err, models.ErrDuplicateTransaction) {
		s.logger.Error("failed to record failed transfer", "idempotency_key", req.IdempotencyKey, "error", err, "actor_id", actor.UserID)
	}

	return &ServiceError{Code: code, Message: reason, Err: cause}
}

// ListUserTransactions returns every transaction touching userID's accounts, newest first
func (s *TransferService) ListUserTransactions(ctx context.Context, actor Actor, userID uuid.UUID) ([]*models.Transaction, error) {
	if err := requireSelfOrAdmin(actor, userID); err != nil {
		return nil, err
	}

	txns, err := s.store.Repositories().Transactions.ListByUser(ctx, userID)
	if err != nil {
		return nil, internalError("failed to list transactions", err)
	}
	return txns, nil
}
