package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/benx421/digital-bank/internal/models"
	"github.com/benx421/digital-bank/internal/repository"
	"github.com/google/uuid"
)

type transactionRepository struct {
	store *Store
}

func (d *state) transactionView(t *models.Transaction) *models.Transaction {
	out := *t
	if src, ok := d.accounts[t.AccountID]; ok {
		out.Account = d.accountView(src).Summary()
	}
	if dst, ok := d.accounts[t.DestinationAccountID]; ok {
		out.DestinationAccount = d.accountView(dst).Summary()
	}
	return &out
}

func (r *transactionRepository) Create(ctx context.Context, txn *models.Transaction) error {
	return r.store.run(ctx, func(d *state) error {
		for _, existing := range d.transactions {
			if existing.InitiatorID == txn.InitiatorID && existing.IdempotencyKey == txn.IdempotencyKey {
				return models.ErrDuplicateTransaction
			}
		}
		if txn.AccountID == txn.DestinationAccountID {
			return fmt.Errorf("failed to create transaction: source and destination are the same account")
		}
		for _, id := range []uuid.UUID{txn.AccountID, txn.DestinationAccountID} {
			if _, ok := d.accounts[id]; !ok {
				return fmt.Errorf("failed to create transaction: account %s: %w", id, models.ErrNotFound)
			}
		}

		stored := *txn
		stored.Account, stored.DestinationAccount = nil, nil
		d.transactions[txn.ID] = &stored
		return nil
	})
}

func (r *transactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Transaction, error) {
	var out *models.Transaction
	err := r.store.run(ctx, func(d *state) error {
		t, ok := d.transactions[id]
		if !ok {
			return fmt.Errorf("transaction %s not found: %w", id, models.ErrNotFound)
		}
		out = d.transactionView(t)
		return nil
	})
	return out, err
}

func (r *transactionRepository) FindByIdempotencyKey(ctx context.Context, initiatorID uuid.UUID, key string) (*models.Transaction, error) {
	var out *models.Transaction
	err := r.store.run(ctx, func(d *state) error {
		for _, t := range d.transactions {
			if t.InitiatorID == initiatorID && t.IdempotencyKey == key {
				out = d.transactionView(t)
				return nil
			}
		}
		return fmt.Errorf("transaction not found: %w", models.ErrNotFound)
	})
	return out, err
}

func (r *transactionRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.TransactionStatus, reason string) error {
	return r.store.run(ctx, func(d *state) error {
		t, ok := d.transactions[id]
		if !ok || t.Status != models.TransactionStatusPending {
			return fmt.Errorf("pending transaction not found: %w", models.ErrNotFound)
		}
		t.Status = status
		t.FailureReason = reason
		t.UpdatedAt = r.store.timestamp()
		return nil
	})
}

func (r *transactionRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Transaction, error) {
	matches, err := r.collect(ctx, func(t *models.Transaction) bool {
		return t.Account.Owner.ID == userID || t.DestinationAccount.Owner.ID == userID
	})
	if err != nil {
		return nil, err
	}
	return matches, nil
}

func (r *transactionRepository) Search(ctx context.Context, filter repository.TransactionFilter, page models.PageRequest) ([]*models.Transaction, int, error) {
	ref := strings.TrimSpace(filter.AccountRef)
	refID, refErr := uuid.Parse(ref)

	matches, err := r.collect(ctx, func(t *models.Transaction) bool {
		if filter.UserID != nil && t.Account.Owner.ID != *filter.UserID && t.DestinationAccount.Owner.ID != *filter.UserID {
			return false
		}
		if filter.Currency != "" && t.Currency != filter.Currency {
			return false
		}
		if filter.Status != "" && t.Status != filter.Status {
			return false
		}
		if filter.MinAmount != nil && t.Amount.LessThan(*filter.MinAmount) {
			return false
		}
		if filter.MaxAmount != nil && t.Amount.GreaterThan(*filter.MaxAmount) {
			return false
		}
		if ref != "" {
			if refErr == nil {
				return t.AccountID == refID || t.DestinationAccountID == refID
			}
			return t.Account.AccountNumber == ref || t.DestinationAccount.AccountNumber == ref
		}
		return true
	})
	if err != nil {
		return nil, 0, err
	}
	return paginate(matches, page), len(matches), nil
}

// collect returns matching transactions newest first
func (r *transactionRepository) collect(ctx context.Context, match func(t *models.Transaction) bool) ([]*models.Transaction, error) {
	out := []*models.Transaction{}
	err := r.store.run(ctx, func(d *state) error {
		for _, t := range d.transactions {
			view := d.transactionView(t)
			if match(view) {
				out = append(out, view)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID.String() < out[j].ID.String()
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}
