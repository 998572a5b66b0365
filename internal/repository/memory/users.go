package memory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/benx421/digital-bank/internal/models"
	"github.com/google/uuid"
)

type userRepository struct {
	store *Store
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	return r.store.run(ctx, func(d *state) error {
		for _, existing := range d.users {
			if strings.EqualFold(existing.Email, user.Email) {
				return models.ErrDuplicateEmail
			}
		}
		stored := *user
		d.users[user.ID] = &stored
		return nil
	})
}

func (r *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var out *models.User
	err := r.store.run(ctx, func(d *state) error {
		u, ok := d.users[id]
		if !ok {
			return fmt.Errorf("user %s not found: %w", id, models.ErrNotFound)
		}
		copied := *u
		out = &copied
		return nil
	})
	return out, err
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var out *models.User
	err := r.store.run(ctx, func(d *state) error {
		for _, u := range d.users {
			if strings.EqualFold(u.Email, email) {
				copied := *u
				out = &copied
				return nil
			}
		}
		return fmt.Errorf("user not found: %w", models.ErrNotFound)
	})
	return out, err
}

type sessionRepository struct {
	store *Store
}

func (r *sessionRepository) Create(ctx context.Context, session *models.Session) error {
	return r.store.run(ctx, func(d *state) error {
		stored := *session
		d.sessions[session.ID] = &stored
		return nil
	})
}

func (r *sessionRepository) FindByAccessHash(ctx context.Context, hash string) (*models.Session, error) {
	return r.find(ctx, func(s *models.Session) bool { return s.AccessTokenHash == hash })
}

func (r *sessionRepository) FindByRefreshHash(ctx context.Context, hash string) (*models.Session, error) {
	return r.find(ctx, func(s *models.Session) bool { return s.RefreshTokenHash == hash })
}

func (r *sessionRepository) find(ctx context.Context, match func(s *models.Session) bool) (*models.Session, error) {
	var out *models.Session
	err := r.store.run(ctx, func(d *state) error {
		for _, s := range d.sessions {
			if match(s) {
				copied := *s
				out = &copied
				return nil
			}
		}
		return fmt.Errorf("session not found: %w", models.ErrNotFound)
	})
	return out, err
}

func (r *sessionRepository) Revoke(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	revoked := false
	err := r.store.run(ctx, func(d *state) error {
		s, ok := d.sessions[id]
		if !ok || s.RevokedAt != nil {
			return nil
		}
		s.RevokedAt = &at
		revoked = true
		return nil
	})
	return revoked, err
}

type signupThrottleRepository struct {
	store *Store
}

func (r *signupThrottleRepository) LastSignup(ctx context.Context) (*time.Time, error) {
	var out *time.Time
	err := r.store.run(ctx, func(d *state) error {
		if d.lastSignup != nil {
			last := *d.lastSignup
			out = &last
		}
		return nil
	})
	return out, err
}

func (r *signupThrottleRepository) Claim(ctx context.Context, now time.Time, cooldown time.Duration) error {
	return r.store.run(ctx, func(d *state) error {
		if d.lastSignup != nil && d.lastSignup.After(now.Add(-cooldown)) {
			return models.ErrSignupCooldown
		}
		d.lastSignup = &now
		return nil
	})
}
