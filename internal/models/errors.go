package models

import (
	"errors"
	"fmt"
)

// Domain errors that can be returned by repositories
var (
	// ErrDuplicateTransaction indicates a transaction with the same idempotency key already exists
	ErrDuplicateTransaction = errors.New("duplicate transaction")

	// ErrDuplicateAccount indicates the owner already holds an account in that currency
	ErrDuplicateAccount = errors.New("duplicate account")

	// ErrDuplicateAccountNumber indicates a generated account number collided
	ErrDuplicateAccountNumber = errors.New("duplicate account number")

	// ErrDuplicateEmail indicates a user with the same email already exists
	ErrDuplicateEmail = errors.New("duplicate email")

	// ErrSignupCooldown indicates the global signup window is still closed
	ErrSignupCooldown = errors.New("signup cooldown active")

	// ErrInsufficientFunds indicates a debit would make a balance negative
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrNotFound indicates the requested entity was not found
	ErrNotFound = errors.New("not found")

	// ErrInvalidStateTransition is wrapped by every StateError
	ErrInvalidStateTransition = errors.New("invalid state transition")
)

// Account lifecycle actions
const (
	ActionActivate      = "activate"
	ActionBlock         = "block"
	ActionRequestUnlock = "request_unlock"
	ActionUnblock       = "unblock"
)

// StateError reports a lifecycle action attempted from a state that does not allow it
type StateError struct {
	Action string
	State  AccountState
}

func (e *StateError) Error() string {
	switch e.Action {
	case ActionActivate:
		return "account is not pending approval"
	case ActionBlock:
		switch e.State {
		case AccountStatePendingApproval:
			return "account is pending approval"
		case AccountStateBlocked, AccountStateUnlockRequested:
			return "account is already blocked"
		}
	case ActionRequestUnlock, ActionUnblock:
		return "account is not blocked"
	}
	return fmt.Sprintf("cannot %s account in state %s", e.Action, e.State)
}

// Unwrap returns ErrInvalidStateTransition for errors.Is support
func (e *StateError) Unwrap() error {
	return ErrInvalidStateTransition
}
