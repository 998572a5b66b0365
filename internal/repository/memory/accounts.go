package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/benx421/digital-bank/internal/models"
	"github.com/benx421/digital-bank/internal/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type accountRepository struct {
	store *Store
}

// accountView returns a detached copy of a with its owner attached
func (d *state) accountView(a *models.Account) *models.Account {
	out := *a
	if owner, ok := d.users[a.OwnerID]; ok {
		out.Owner = owner.Summary()
	}
	return &out
}

func (r *accountRepository) Create(ctx context.Context, account *models.Account) error {
	return r.store.run(ctx, func(d *state) error {
		if _, ok := d.users[account.OwnerID]; !ok {
			return fmt.Errorf("failed to create account: owner %s: %w", account.OwnerID, models.ErrNotFound)
		}
		for _, existing := range d.accounts {
			if existing.OwnerID == account.OwnerID && existing.Currency == account.Currency {
				return models.ErrDuplicateAccount
			}
			if existing.AccountNumber == account.AccountNumber {
				return models.ErrDuplicateAccountNumber
			}
		}

		stored := *account
		stored.Owner = nil
		d.accounts[account.ID] = &stored
		return nil
	})
}

func (r *accountRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	var out *models.Account
	err := r.store.run(ctx, func(d *state) error {
		a, ok := d.accounts[id]
		if !ok {
			return fmt.Errorf("account %s not found: %w", id, models.ErrNotFound)
		}
		out = d.accountView(a)
		return nil
	})
	return out, err
}

// FindByIDForUpdate is FindByID; transactions already hold the store lock
func (r *accountRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	return r.FindByID(ctx, id)
}

func (r *accountRepository) FindByAccountNumber(ctx context.Context, accountNumber string) (*models.Account, error) {
	var out *models.Account
	err := r.store.run(ctx, func(d *state) error {
		for _, a := range d.accounts {
			if a.AccountNumber == accountNumber {
				out = d.accountView(a)
				return nil
			}
		}
		return fmt.Errorf("account not found: %w", models.ErrNotFound)
	})
	return out, err
}

func (r *accountRepository) LockForTransfer(ctx context.Context, ids ...uuid.UUID) (map[uuid.UUID]*models.Account, error) {
	locked := make(map[uuid.UUID]*models.Account, len(ids))
	err := r.store.run(ctx, func(d *state) error {
		for _, id := range ids {
			a, ok := d.accounts[id]
			if !ok {
				return fmt.Errorf("account %s not found: %w", id, models.ErrNotFound)
			}
			locked[id] = d.accountView(a)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return locked, nil
}

func (r *accountRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*models.Account, error) {
	out := []*models.Account{}
	err := r.store.run(ctx, func(d *state) error {
		for _, a := range d.accounts {
			if a.OwnerID == ownerID {
				out = append(out, d.accountView(a))
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID.String() < out[j].ID.String()
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, err
}

func (r *accountRepository) List(ctx context.Context, filter repository.AccountFilter, page models.PageRequest) ([]*models.Account, int, error) {
	matches := []*models.Account{}
	err := r.store.run(ctx, func(d *state) error {
		for _, a := range d.accounts {
			view := d.accountView(a)
			ok, err := matchAccount(view, filter)
			if err != nil {
				return err
			}
			if ok {
				matches = append(matches, view)
			}
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].UpdatedAt.Equal(matches[j].UpdatedAt) {
			return matches[i].ID.String() < matches[j].ID.String()
		}
		return matches[i].UpdatedAt.After(matches[j].UpdatedAt)
	})
	return paginate(matches, page), len(matches), nil
}

func matchAccount(a *models.Account, filter repository.AccountFilter) (bool, error) {
	switch filter.State {
	case "":
	case models.AccountStateBlocked:
		if a.IsPending || a.IsActive {
			return false, nil
		}
	case models.AccountStatePendingApproval, models.AccountStateActive, models.AccountStateUnlockRequested:
		if a.State() != filter.State {
			return false, nil
		}
	default:
		return false, fmt.Errorf("unknown account state %q", filter.State)
	}

	q := strings.TrimSpace(filter.Query)
	if q == "" {
		return true, nil
	}
	if strings.HasPrefix(a.AccountNumber, q) {
		return true, nil
	}
	if a.Owner != nil && strings.Contains(strings.ToLower(a.Owner.Email), strings.ToLower(q)) {
		return true, nil
	}
	if id, err := uuid.Parse(q); err == nil && (a.ID == id || a.OwnerID == id) {
		return true, nil
	}
	return false, nil
}

func (r *accountRepository) UpdateStatus(ctx context.Context, account *models.Account) error {
	return r.store.run(ctx, func(d *state) error {
		a, ok := d.accounts[account.ID]
		if !ok {
			return fmt.Errorf("account not found: %w", models.ErrNotFound)
		}
		next := *a
		next.IsPending = account.IsPending
		next.IsActive = account.IsActive
		next.IsUnlockRequest = account.IsUnlockRequest
		next.BlockedAt = account.BlockedAt
		next.UnlockRequestedAt = account.UnlockRequestedAt
		next.UpdatedAt = account.UpdatedAt
		if err := next.CheckInvariants(); err != nil {
			return fmt.Errorf("failed to update account status: %w", err)
		}
		*a = next
		return nil
	})
}

func (r *accountRepository) AdjustBalance(ctx context.Context, id uuid.UUID, delta decimal.Decimal) error {
	return r.store.run(ctx, func(d *state) error {
		a, ok := d.accounts[id]
		if !ok {
			return fmt.Errorf("account %s not found: %w", id, models.ErrNotFound)
		}
		next := a.Balance.Add(delta)
		if next.IsNegative() {
			return models.ErrInsufficientFunds
		}
		a.Balance = next
		a.UpdatedAt = r.store.timestamp()
		return nil
	})
}

func paginate[T any](items []T, page models.PageRequest) []T {
	start := page.Offset()
	if start < 0 || start >= len(items) {
		return []T{}
	}
	end := start + page.Limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
