package models

import (
	"time"

	"github.com/google/uuid"
)

// Role controls what a user may do
type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleOps      Role = "OPS"
	RoleCustomer Role = "CUSTOMER"
)

// Valid reports whether r is a known role
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleOps || r == RoleCustomer
}

// User is a bank customer or staff member
type User struct {
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Firstname    string    `db:"firstname" json:"firstname"`
	Lastname     string    `db:"lastname" json:"lastname"`
	Role         Role      `db:"role" json:"role"`
	ID           uuid.UUID `db:"id" json:"id"`
	IsActive     bool      `db:"is_active" json:"isActive"`
}

// UserSummary is the owner view embedded in account listings
type UserSummary struct {
	Email     string    `json:"email"`
	Firstname string    `json:"firstname"`
	Lastname  string    `json:"lastname"`
	ID        uuid.UUID `json:"id"`
}

// Summary returns the embedded owner view of u
func (u *User) Summary() *UserSummary {
	return &UserSummary{
		ID:        u.ID,
		Email:     u.Email,
		Firstname: u.Firstname,
		Lastname:  u.Lastname,
	}
}

// Session is an issued access/refresh token pair. Only token hashes are kept.
type Session struct {
	CreatedAt        time.Time  `db:"created_at"`
	AccessExpiresAt  time.Time  `db:"access_expires_at"`
	RefreshExpiresAt time.Time  `db:"refresh_expires_at"`
	RevokedAt        *time.Time `db:"revoked_at"`
	AccessTokenHash  string     `db:"access_token_hash"`
	RefreshTokenHash string     `db:"refresh_token_hash"`
	ID               uuid.UUID  `db:"id"`
	UserID           uuid.UUID  `db:"user_id"`
}

// AccessValid reports whether the access token is usable at now
func (s *Session) AccessValid(now time.Time) bool {
	return s.RevokedAt == nil && now.Before(s.AccessExpiresAt)
}

// RefreshValid reports whether the refresh token is usable at now
func (s *Session) RefreshValid(now time.Time) bool {
	return s.RevokedAt == nil && now.Before(s.RefreshExpiresAt)
}
