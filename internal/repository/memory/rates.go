package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/benx421/digital-bank/internal/models"
)

type rateRepository struct {
	store *Store
}

func (r *rateRepository) Get(ctx context.Context, from, to models.Currency) (*models.ExchangeRate, error) {
	var out *models.ExchangeRate
	err := r.store.run(ctx, func(d *state) error {
		rate, ok := d.rates[ratePair{from, to}]
		if !ok {
			return fmt.Errorf("rate %s/%s not found: %w", from, to, models.ErrNotFound)
		}
		copied := *rate
		out = &copied
		return nil
	})
	return out, err
}

func (r *rateRepository) List(ctx context.Context) ([]*models.ExchangeRate, error) {
	out := []*models.ExchangeRate{}
	err := r.store.run(ctx, func(d *state) error {
		for _, rate := range d.rates {
			copied := *rate
			out = append(out, &copied)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].From == out[j].From {
			return out[i].To < out[j].To
		}
		return out[i].From < out[j].From
	})
	return out, err
}

type idempotencyRepository struct {
	store *Store
}

func (r *idempotencyRepository) Get(ctx context.Context, key, requestPath string) (*models.IdempotencyKey, error) {
	var out *models.IdempotencyKey
	err := r.store.run(ctx, func(d *state) error {
		k, ok := d.idempotency[idempotencyID{key, requestPath}]
		if !ok {
			return fmt.Errorf("idempotency key not found: %w", models.ErrNotFound)
		}
		copied := *k
		out = &copied
		return nil
	})
	return out, err
}

// Store keeps the first response recorded for a key
func (r *idempotencyRepository) Store(ctx context.Context, idemKey *models.IdempotencyKey) error {
	return r.store.run(ctx, func(d *state) error {
		id := idempotencyID{idemKey.Key, idemKey.RequestPath}
		if _, ok := d.idempotency[id]; ok {
			return nil
		}
		stored := *idemKey
		if stored.CreatedAt.IsZero() {
			stored.CreatedAt = r.store.timestamp()
		}
		d.idempotency[id] = &stored
		return nil
	})
}
