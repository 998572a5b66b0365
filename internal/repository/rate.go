package repository

import (
	"context"
	"fmt"

	"github.com/benx421/digital-bank/internal/models"
)

// rateRepository implements RateRepository
type rateRepository struct {
	db DBTX
}

// NewRateRepository creates a new RateRepository
func NewRateRepository(q DBTX) RateRepository {
	return &rateRepository{db: q}
}

// Get retrieves the rate converting one unit of from into to
func (r *rateRepository) Get(ctx context.Context, from, to models.Currency) (*models.ExchangeRate, error) {
	query := `
		SELECT from_currency, to_currency, rate, updated_at
		FROM exchange_rates
		WHERE from_currency = $1 AND to_currency = $2
	`

	var rate models.ExchangeRate
	err := r.db.QueryRowContext(ctx, query, from, to).Scan(&rate.From, &rate.To, &rate.Rate, &rate.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to find rate %s/%s: %w", from, to, notFound(err, "rate"))
	}
	return &rate, nil
}

// List returns every configured rate
func (r *rateRepository) List(ctx context.Context) ([]*models.ExchangeRate, error) {
	query := `SELECT from_currency, to_currency, rate, updated_at FROM exchange_rates ORDER BY from_currency, to_currency`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list rates: %w", err)
	}
	defer rows.Close()

	rates := []*models.ExchangeRate{}
	for rows.Next() {
		var rate models.ExchangeRate
		if err := rows.Scan(&rate.From, &rate.To, &rate.Rate, &rate.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan rate: %w", err)
		}
		rates = append(rates, &rate)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rates: %w", err)
	}
	return rates, nil
}
