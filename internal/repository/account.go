package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/benx421/digital-bank/internal/models"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

const accountColumns = `
	a.id, a.account_number, a.type, a.currency, a.balance, a.owner_id,
	a.is_pending, a.is_active, a.is_unlock_request, a.blocked_at, a.unlock_requested_at,
	a.created_at, a.updated_at,
	u.email, u.firstname, u.lastname`

const accountFrom = `
	FROM accounts a
	JOIN users u ON u.id = a.owner_id`

// accountRepository implements AccountRepository
type accountRepository struct {
	db DBTX
}

// NewAccountRepository creates a new AccountRepository
func NewAccountRepository(q DBTX) AccountRepository {
	return &accountRepository{db: q}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (*models.Account, error) {
	var (
		account models.Account
		owner   models.UserSummary
	)
	err := row.Scan(
		&account.ID,
		&account.AccountNumber,
		&account.Type,
		&account.Currency,
		&account.Balance,
		&account.OwnerID,
		&account.IsPending,
		&account.IsActive,
		&account.IsUnlockRequest,
		&account.BlockedAt,
		&account.UnlockRequestedAt,
		&account.CreatedAt,
		&account.UpdatedAt,
		&owner.Email,
		&owner.Firstname,
		&owner.Lastname,
	)
	if err != nil {
		return nil, err
	}

	owner.ID = account.OwnerID
	account.Owner = &owner
	return &account, nil
}

// Create inserts a new account
func (r *accountRepository) Create(ctx context.Context, account *models.Account) error {
	query := `
		INSERT INTO accounts (id, account_number, type, currency, balance, owner_id,
		                      is_pending, is_active, is_unlock_request, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.db.ExecContext(ctx, query,
		account.ID,
		account.AccountNumber,
		account.Type,
		account.Currency,
		account.Balance,
		account.OwnerID,
		account.IsPending,
		account.IsActive,
		account.IsUnlockRequest,
		account.CreatedAt,
		account.UpdatedAt,
	)
	if constraint, ok := uniqueConstraint(err); ok {
		if constraint == "accounts_owner_currency_key" {
			return models.ErrDuplicateAccount
		}
		return models.ErrDuplicateAccountNumber
	}
	if err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}

	return nil
}

// FindByID retrieves an account by its UUID
func (r *accountRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	query := `SELECT ` + accountColumns + accountFrom + ` WHERE a.id = $1`

	account, err := scanAccount(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("failed to find account by id: %w", notFound(err, "account"))
	}
	return account, nil
}

// FindByIDForUpdate retrieves an account and locks its row until the transaction ends
func (r *accountRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	query := `SELECT ` + accountColumns + accountFrom + ` WHERE a.id = $1 FOR UPDATE OF a`

	account, err := scanAccount(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("failed to lock account: %w", notFound(err, "account"))
	}
	return account, nil
}

// FindByAccountNumber retrieves an account by its account number
func (r *accountRepository) FindByAccountNumber(ctx context.Context, accountNumber string) (*models.Account, error) {
	query := `SELECT ` + accountColumns + accountFrom + ` WHERE a.account_number = $1`

	account, err := scanAccount(r.db.QueryRowContext(ctx, query, accountNumber))
	if err != nil {
		return nil, fmt.Errorf("failed to find account by account number: %w", notFound(err, "account"))
	}
	return account, nil
}

// LockForTransfer locks every requested row in ascending id order so that
// concurrent transfers over the same pair cannot deadlock
func (r *accountRepository) LockForTransfer(ctx context.Context, ids ...uuid.UUID) (map[uuid.UUID]*models.Account, error) {
	query := `SELECT ` + accountColumns + accountFrom + `
		WHERE a.id = ANY($1::uuid[])
		ORDER BY a.id
		FOR UPDATE OF a`

	raw := make([]string, len(ids))
	for i, id := range ids {
		raw[i] = id.String()
	}

	rows, err := r.db.QueryContext(ctx, query, pq.Array(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to lock accounts: %w", err)
	}
	defer rows.Close()

	locked := make(map[uuid.UUID]*models.Account, len(ids))
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		locked[account.ID] = account
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to lock accounts: %w", err)
	}

	for _, id := range ids {
		if _, ok := locked[id]; !ok {
			return nil, fmt.Errorf("account %s not found: %w", id, models.ErrNotFound)
		}
	}
	return locked, nil
}

// ListByOwner returns every account held by ownerID, oldest first
func (r *accountRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*models.Account, error) {
	query := `SELECT ` + accountColumns + accountFrom + ` WHERE a.owner_id = $1 ORDER BY a.created_at, a.id`

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	return collectAccounts(rows)
}

// List returns one page of accounts matching filter and the total match count
func (r *accountRepository) List(ctx context.Context, filter AccountFilter, page models.PageRequest) ([]*models.Account, int, error) {
	var w where

	switch filter.State {
	case "":
	case models.AccountStatePendingApproval:
		w.add("a.is_pending")
	case models.AccountStateActive:
		w.add("a.is_active")
	case models.AccountStateBlocked:
		w.add("NOT a.is_pending AND NOT a.is_active")
	case models.AccountStateUnlockRequested:
		w.add("a.is_unlock_request")
	default:
		return nil, 0, fmt.Errorf("unknown account state %q", filter.State)
	}

	if q := strings.TrimSpace(filter.Query); q != "" {
		conds := []string{
			"a.account_number LIKE " + w.arg(escapeLike(q)+"%"),
			"u.email ILIKE " + w.arg("%"+escapeLike(q)+"%"),
		}
		if id, err := uuid.Parse(q); err == nil {
			p := w.arg(id)
			conds = append(conds, "a.id = "+p, "a.owner_id = "+p)
		}
		w.add("(" + strings.Join(conds, " OR ") + ")")
	}

	var total int
	countQuery := `SELECT COUNT(*)` + accountFrom + w.String()
	if err := r.db.QueryRowContext(ctx, countQuery, w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count accounts: %w", err)
	}

	query := `SELECT ` + accountColumns + accountFrom + w.String() +
		` ORDER BY a.updated_at DESC, a.id LIMIT ` + w.arg(page.Limit) + ` OFFSET ` + w.arg(page.Offset())

	rows, err := r.db.QueryContext(ctx, query, w.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	accounts, err := collectAccounts(rows)
	if err != nil {
		return nil, 0, err
	}
	return accounts, total, nil
}

// UpdateStatus persists the lifecycle flags and timestamps of account
func (r *accountRepository) UpdateStatus(ctx context.Context, account *models.Account) error {
	query := `
		UPDATE accounts
		SET is_pending = $2,
		    is_active = $3,
		    is_unlock_request = $4,
		    blocked_at = $5,
		    unlock_requested_at = $6,
		    updated_at = $7
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query,
		account.ID,
		account.IsPending,
		account.IsActive,
		account.IsUnlockRequest,
		account.BlockedAt,
		account.UnlockRequestedAt,
		account.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update account status: %w", err)
	}

	return expectOneRow(result, "account")
}

// AdjustBalance adds delta to the balance. A debit that would overdraw the
// account leaves it untouched and returns models.ErrInsufficientFunds.
func (r *accountRepository) AdjustBalance(ctx context.Context, id uuid.UUID, delta decimal.Decimal) error {
	query := `
		UPDATE accounts
		SET balance = balance + $2,
		    updated_at = NOW()
		WHERE id = $1 AND balance + $2 >= 0
	`

	result, err := r.db.ExecContext(ctx, query, id, delta)
	if err != nil {
		return fmt.Errorf("failed to adjust account balance: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		var exists bool
		if err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM accounts WHERE id = $1)`, id).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check account: %w", err)
		}
		if !exists {
			return fmt.Errorf("account %s not found: %w", id, models.ErrNotFound)
		}
		return models.ErrInsufficientFunds
	}

	return nil
}

func collectAccounts(rows *sql.Rows) ([]*models.Account, error) {
	accounts := []*models.Account{}
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate accounts: %w", err)
	}
	return accounts, nil
}

func expectOneRow(result sql.Result, what string) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s not found: %w", what, models.ErrNotFound)
	}
	return nil
}
