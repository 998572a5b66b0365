package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountType represents the product type of an account
type AccountType string

const (
	AccountTypeChecking AccountType = "CHECKING"
	AccountTypeSavings  AccountType = "SAVINGS"
)

// Valid reports whether t is a supported account type
func (t AccountType) Valid() bool {
	return t == AccountTypeChecking || t == AccountTypeSavings
}

// Currency is an ISO 4217 code supported by the bank
type Currency string

const (
	CurrencyPEN Currency = "PEN"
	CurrencyUSD Currency = "USD"
)

// Valid reports whether c is a supported currency
func (c Currency) Valid() bool {
	return c == CurrencyPEN || c == CurrencyUSD
}

// AccountState is the lifecycle state derived from the account status flags
type AccountState string

const (
	AccountStatePendingApproval AccountState = "PENDING_APPROVAL"
	AccountStateActive          AccountState = "ACTIVE"
	AccountStateBlocked         AccountState = "BLOCKED"
	AccountStateUnlockRequested AccountState = "UNLOCK_REQUESTED"
)

// Account represents a customer account and its lifecycle flags
type Account struct {
	CreatedAt         time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt         time.Time       `db:"updated_at" json:"updatedAt"`
	BlockedAt         *time.Time      `db:"blocked_at" json:"blockedAt"`
	UnlockRequestedAt *time.Time      `db:"unlock_requested_at" json:"unlockRequestedAt"`
	Owner             *UserSummary    `db:"-" json:"owner,omitempty"`
	Balance           decimal.Decimal `db:"balance" json:"balance"`
	AccountNumber     string          `db:"account_number" json:"accountNumber"`
	Type              AccountType     `db:"type" json:"type"`
	Currency          Currency        `db:"currency" json:"currency"`
	ID                uuid.UUID       `db:"id" json:"id"`
	OwnerID           uuid.UUID       `db:"owner_id" json:"ownerId"`
	IsPending         bool            `db:"is_pending" json:"isPending"`
	IsActive          bool            `db:"is_active" json:"isActive"`
	IsUnlockRequest   bool            `db:"is_unlock_request" json:"isUnlockRequest"`
}

// AccountSummary is the reduced account view embedded in transaction listings
type AccountSummary struct {
	Owner         *UserSummary `json:"owner,omitempty"`
	AccountNumber string       `json:"accountNumber"`
	Currency      Currency     `json:"currency"`
	ID            uuid.UUID    `json:"id"`
}

// NewPendingAccount builds an account awaiting admin approval
func NewPendingAccount(ownerID uuid.UUID, accountNumber string, accountType AccountType, currency Currency, now time.Time) *Account {
	return &Account{
		ID:            uuid.New(),
		OwnerID:       ownerID,
		AccountNumber: accountNumber,
		Type:          accountType,
		Currency:      currency,
		Balance:       decimal.Zero,
		IsPending:     true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// State derives the lifecycle state from the status flags
func (a *Account) State() AccountState {
	switch {
	case a.IsPending:
		return AccountStatePendingApproval
	case a.IsActive:
		return AccountStateActive
	case a.IsUnlockRequest:
		return AccountStateUnlockRequested
	default:
		return AccountStateBlocked
	}
}

// Summary returns the reduced view used inside transaction listings
func (a *Account) Summary() *AccountSummary {
	return &AccountSummary{
		ID:            a.ID,
		AccountNumber: a.AccountNumber,
		Currency:      a.Currency,
		Owner:         a.Owner,
	}
}

// CheckInvariants verifies that the flags describe exactly one state
func (a *Account) CheckInvariants() error {
	set := 0
	for _, f := range []bool{a.IsPending, a.IsActive, a.IsUnlockRequest} {
		if f {
			set++
		}
	}
	if set > 1 {
		return fmt.Errorf("account %s: status flags are not mutually exclusive", a.ID)
	}
	if a.Balance.IsNegative() {
		return fmt.Errorf("account %s: negative balance %s", a.ID, a.Balance)
	}

	switch a.State() {
	case AccountStateBlocked, AccountStateUnlockRequested:
		if a.BlockedAt == nil {
			return fmt.Errorf("account %s: blocked without blockedAt", a.ID)
		}
	}
	if a.IsUnlockRequest && a.UnlockRequestedAt == nil {
		return fmt.Errorf("account %s: unlock requested without unlockRequestedAt", a.ID)
	}

	return nil
}

// Activate moves a pending account to active
func (a *Account) Activate(now time.Time) error {
	if a.State() != AccountStatePendingApproval {
		return &StateError{Action: ActionActivate, State: a.State()}
	}

	a.IsPending = false
	a.IsActive = true
	a.UpdatedAt = now
	return nil
}

// Block moves an active account to blocked
func (a *Account) Block(now time.Time) error {
	if a.State() != AccountStateActive {
		return &StateError{Action: ActionBlock, State: a.State()}
	}

	a.IsActive = false
	a.BlockedAt = &now
	a.UpdatedAt = now
	return nil
}

// RequestUnlock files an unlock petition on a blocked account. It reports
// false without touching the account when a petition is already open.
func (a *Account) RequestUnlock(now time.Time) (bool, error) {
	switch a.State() {
	case AccountStateUnlockRequested:
		return false, nil
	case AccountStateBlocked:
	default:
		return false, &StateError{Action: ActionRequestUnlock, State: a.State()}
	}

	a.IsUnlockRequest = true
	a.UnlockRequestedAt = &now
	a.UpdatedAt = now
	return true, nil
}

// Unblock returns a blocked or unlock-requested account to active
func (a *Account) Unblock(now time.Time) error {
	switch a.State() {
	case AccountStateBlocked, AccountStateUnlockRequested:
	default:
		return &StateError{Action: ActionUnblock, State: a.State()}
	}

	a.IsActive = true
	a.IsUnlockRequest = false
	a.BlockedAt = nil
	a.UnlockRequestedAt = nil
	a.UpdatedAt = now
	return nil
}
