package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/benx421/digital-bank/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const transactionColumns = `
	t.id, t.idempotency_key, t.initiator_id, t.account_id, t.destination_account_id, t.type,
	t.amount, t.credited_amount, t.currency, t.destination_currency, t.exchange_rate,
	t.status, t.description, t.failure_reason, t.created_at, t.updated_at,
	sa.account_number, su.id, su.email, su.firstname, su.lastname,
	da.account_number, du.id, du.email, du.firstname, du.lastname`

const transactionFrom = `
	FROM transactions t
	JOIN accounts sa ON sa.id = t.account_id
	JOIN users su ON su.id = sa.owner_id
	JOIN accounts da ON da.id = t.destination_account_id
	JOIN users du ON du.id = da.owner_id`

// transactionRepository implements TransactionRepository
type transactionRepository struct {
	db DBTX
}

// NewTransactionRepository creates a new TransactionRepository
func NewTransactionRepository(q DBTX) TransactionRepository {
	return &transactionRepository{db: q}
}

func scanTransaction(row rowScanner) (*models.Transaction, error) {
	var (
		txn      models.Transaction
		rate     decimal.NullDecimal
		src, dst models.AccountSummary
		srcOwner models.UserSummary
		dstOwner models.UserSummary
	)
	err := row.Scan(
		&txn.ID,
		&txn.IdempotencyKey,
		&txn.InitiatorID,
		&txn.AccountID,
		&txn.DestinationAccountID,
		&txn.Type,
		&txn.Amount,
		&txn.CreditedAmount,
		&txn.Currency,
		&txn.DestinationCurrency,
		&rate,
		&txn.Status,
		&txn.Description,
		&txn.FailureReason,
		&txn.CreatedAt,
		&txn.UpdatedAt,
		&src.AccountNumber,
		&srcOwner.ID,
		&srcOwner.Email,
		&srcOwner.Firstname,
		&srcOwner.Lastname,
		&dst.AccountNumber,
		&dstOwner.ID,
		&dstOwner.Email,
		&dstOwner.Firstname,
		&dstOwner.Lastname,
	)
	if err != nil {
		return nil, err
	}

	if rate.Valid {
		txn.ExchangeRate = &rate.Decimal
	}
	src.ID, src.Currency, src.Owner = txn.AccountID, txn.Currency, &srcOwner
	dst.ID, dst.Currency, dst.Owner = txn.DestinationAccountID, txn.DestinationCurrency, &dstOwner
	txn.Account = &src
	txn.DestinationAccount = &dst
	return &txn, nil
}

// Create inserts a new transaction. A key the initiator already used yields
// models.ErrDuplicateTransaction.
func (r *transactionRepository) Create(ctx context.Context, txn *models.Transaction) error {
	query := `
		INSERT INTO transactions (id, idempotency_key, initiator_id, account_id, destination_account_id, type,
		                          amount, credited_amount, currency, destination_currency, exchange_rate,
		                          status, description, failure_reason, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`

	var rate decimal.NullDecimal
	if txn.ExchangeRate != nil {
		rate = decimal.NewNullDecimal(*txn.ExchangeRate)
	}

	_, err := r.db.ExecContext(ctx, query,
		txn.ID,
		txn.IdempotencyKey,
		txn.InitiatorID,
		txn.AccountID,
		txn.DestinationAccountID,
		txn.Type,
		txn.Amount,
		txn.CreditedAmount,
		txn.Currency,
		txn.DestinationCurrency,
		rate,
		txn.Status,
		txn.Description,
		txn.FailureReason,
		txn.CreatedAt,
		txn.UpdatedAt,
	)
	if constraint, ok := uniqueConstraint(err); ok && constraint == "transactions_initiator_idempotency_key_key" {
		return models.ErrDuplicateTransaction
	}
	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}

	return nil
}

// FindByID retrieves a transaction by its UUID
func (r *transactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Transaction, error) {
	query := `SELECT ` + transactionColumns + transactionFrom + ` WHERE t.id = $1`

	txn, err := scanTransaction(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("failed to find transaction by id: %w", notFound(err, "transaction"))
	}
	return txn, nil
}

// FindByIdempotencyKey retrieves the transaction initiatorID recorded under key
func (r *transactionRepository) FindByIdempotencyKey(ctx context.Context, initiatorID uuid.UUID, key string) (*models.Transaction, error) {
	query := `SELECT ` + transactionColumns + transactionFrom + ` WHERE t.initiator_id = $1 AND t.idempotency_key = $2`

	txn, err := scanTransaction(r.db.QueryRowContext(ctx, query, initiatorID, key))
	if err != nil {
		return nil, fmt.Errorf("failed to find transaction by idempotency key: %w", notFound(err, "transaction"))
	}
	return txn, nil
}

// UpdateStatus moves a pending transaction to status
func (r *transactionRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.TransactionStatus, reason string) error {
	query := `
		UPDATE transactions
		SET status = $2, failure_reason = $3, updated_at = NOW()
		WHERE id = $1 AND status = 'PENDING'
	`

	result, err := r.db.ExecContext(ctx, query, id, status, reason)
	if err != nil {
		return fmt.Errorf("failed to update transaction status: %w", err)
	}

	return expectOneRow(result, "pending transaction")
}

// ListByUser returns every transaction touching an account owned by userID, newest first
func (r *transactionRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Transaction, error) {
	query := `SELECT ` + transactionColumns + transactionFrom + `
		WHERE sa.owner_id = $1 OR da.owner_id = $1
		ORDER BY t.created_at DESC, t.id`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	return collectTransactions(rows)
}

// Search returns one page of transactions matching filter and the total match count
func (r *transactionRepository) Search(ctx context.Context, filter TransactionFilter, page models.PageRequest) ([]*models.Transaction, int, error) {
	var w where

	if filter.UserID != nil {
		p := w.arg(*filter.UserID)
		w.add("(sa.owner_id = " + p + " OR da.owner_id = " + p + ")")
	}
	if filter.Currency != "" {
		w.add("t.currency = " + w.arg(filter.Currency))
	}
	if filter.Status != "" {
		w.add("t.status = " + w.arg(filter.Status))
	}
	if filter.MinAmount != nil {
		w.add("t.amount >= " + w.arg(*filter.MinAmount))
	}
	if filter.MaxAmount != nil {
		w.add("t.amount <= " + w.arg(*filter.MaxAmount))
	}
	if ref := strings.TrimSpace(filter.AccountRef); ref != "" {
		if id, err := uuid.Parse(ref); err == nil {
			p := w.arg(id)
			w.add("(t.account_id = " + p + " OR t.destination_account_id = " + p + ")")
		} else {
			p := w.arg(ref)
			w.add("(sa.account_number = " + p + " OR da.account_number = " + p + ")")
		}
	}

	var total int
	countQuery := `SELECT COUNT(*)` + transactionFrom + w.String()
	if err := r.db.QueryRowContext(ctx, countQuery, w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count transactions: %w", err)
	}

	query := `SELECT ` + transactionColumns + transactionFrom + w.String() +
		` ORDER BY t.created_at DESC, t.id LIMIT ` + w.arg(page.Limit) + ` OFFSET ` + w.arg(page.Offset())

	rows, err := r.db.QueryContext(ctx, query, w.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to search transactions: %w", err)
	}
	defer rows.Close()

	txns, err := collectTransactions(rows)
	if err != nil {
		return nil, 0, err
	}
	return txns, total, nil
}

func collectTransactions(rows *sql.Rows) ([]*models.Transaction, error) {
	txns := []*models.Transaction{}
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txns = append(txns, txn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}
	return txns, nil
}
