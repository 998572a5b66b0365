package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/benx421/digital-bank/internal/models"
)

// signupThrottleRepository implements SignupThrottleRepository on a single row
type signupThrottleRepository struct {
	db DBTX
}

// NewSignupThrottleRepository creates a new SignupThrottleRepository
func NewSignupThrottleRepository(q DBTX) SignupThrottleRepository {
	return &signupThrottleRepository{db: q}
}

// LastSignup returns the time of the most recent signup, nil if none happened
func (r *signupThrottleRepository) LastSignup(ctx context.Context) (*time.Time, error) {
	var last *time.Time
	err := r.db.QueryRowContext(ctx, `SELECT last_signup_at FROM signup_throttle WHERE id = 1`).Scan(&last)
	if err != nil {
		return nil, fmt.Errorf("failed to read signup throttle: %w", notFound(err, "signup throttle"))
	}
	return last, nil
}

// Claim advances the window with a compare-and-set so that concurrent
// signups cannot both pass the cooldown check
func (r *signupThrottleRepository) Claim(ctx context.Context, now time.Time, cooldown time.Duration) error {
	query := `
		UPDATE signup_throttle
		SET last_signup_at = $1
		WHERE id = 1 AND (last_signup_at IS NULL OR last_signup_at <= $2)
	`

	result, err := r.db.ExecContext(ctx, query, now, now.Add(-cooldown))
	if err != nil {
		return fmt.Errorf("failed to claim signup slot: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return models.ErrSignupCooldown
	}
	return nil
}
