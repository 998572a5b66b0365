package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/benx421/digital-bank/internal/models"
	"github.com/google/uuid"
)

const sessionColumns = `id, user_id, access_token_hash, refresh_token_hash, access_expires_at, refresh_expires_at, revoked_at, created_at`

// sessionRepository implements SessionRepository
type sessionRepository struct {
	db DBTX
}

// NewSessionRepository creates a new SessionRepository
func NewSessionRepository(q DBTX) SessionRepository {
	return &sessionRepository{db: q}
}

func scanSession(row rowScanner) (*models.Session, error) {
	var s models.Session
	err := row.Scan(
		&s.ID,
		&s.UserID,
		&s.AccessTokenHash,
		&s.RefreshTokenHash,
		&s.AccessExpiresAt,
		&s.RefreshExpiresAt,
		&s.RevokedAt,
		&s.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Create stores a new session
func (r *sessionRepository) Create(ctx context.Context, session *models.Session) error {
	query := `INSERT INTO sessions (` + sessionColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.ExecContext(ctx, query,
		session.ID,
		session.UserID,
		session.AccessTokenHash,
		session.RefreshTokenHash,
		session.AccessExpiresAt,
		session.RefreshExpiresAt,
		session.RevokedAt,
		session.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

// FindByAccessHash retrieves the session issued with the given access token hash
func (r *sessionRepository) FindByAccessHash(ctx context.Context, hash string) (*models.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE access_token_hash = $1`

	s, err := scanSession(r.db.QueryRowContext(ctx, query, hash))
	if err != nil {
		return nil, fmt.Errorf("failed to find session: %w", notFound(err, "session"))
	}
	return s, nil
}

// FindByRefreshHash retrieves the session issued with the given refresh token hash
func (r *sessionRepository) FindByRefreshHash(ctx context.Context, hash string) (*models.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE refresh_token_hash = $1`

	s, err := scanSession(r.db.QueryRowContext(ctx, query, hash))
	if err != nil {
		return nil, fmt.Errorf("failed to find session: %w", notFound(err, "session"))
	}
	return s, nil
}

// Revoke marks the session revoked. It reports false when the session was
// already revoked, which lets a refresh token be rotated exactly once.
func (r *sessionRepository) Revoke(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	query := `UPDATE sessions SET revoked_at = $2 WHERE id = $1 AND revoked_at IS NULL`

	result, err := r.db.ExecContext(ctx, query, id, at)
	if err != nil {
		return false, fmt.Errorf("failed to revoke session: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rowsAffected == 1, nil
}
