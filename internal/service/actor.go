package service

import (
	"github.com/benx421/digital-bank/internal/models"
	"github.com/google/uuid"
)

// Actor is the authenticated caller of an operation
type Actor struct {
	Role      models.Role
	UserID    uuid.UUID
	SessionID uuid.UUID
}

// IsAdmin reports whether the actor holds the ADMIN role
func (a Actor) IsAdmin() bool {
	return a.Role == models.RoleAdmin
}

// CanActFor reports whether the actor may read or act on userID's resources
func (a Actor) CanActFor(userID uuid.UUID) bool {
	return a.UserID == userID || a.IsAdmin()
}

func requireAdmin(actor Actor) error {
	if !actor.IsAdmin() {
		return newError(ErrCodeForbidden, "admin role required")
	}
	return nil
}

func requireSelfOrAdmin(actor Actor, userID uuid.UUID) error {
	if !actor.CanActFor(userID) {
		return newError(ErrCodeForbidden, "you can only access your own resources")
	}
	return nil
}
