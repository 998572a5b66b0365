package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType represents the type of transaction
type TransactionType string

const (
	TransactionTypeTransfer TransactionType = "TRANSFER"
)

// TransactionStatus represents the status of a transaction
type TransactionStatus string

const (
	TransactionStatusPending TransactionStatus = "PENDING"
	TransactionStatusPosted  TransactionStatus = "POSTED"
	TransactionStatusFailed  TransactionStatus = "FAILED"
)

// FailureReasonInsufficientFunds is stored on FAILED transfers whose source could not cover the debit
const FailureReasonInsufficientFunds = "insufficient funds"

// Transaction is a funds movement between a source and a destination account.
// Amount is debited in Currency; CreditedAmount is credited in DestinationCurrency.
type Transaction struct {
	CreatedAt            time.Time         `db:"created_at" json:"createdAt"`
	UpdatedAt            time.Time         `db:"updated_at" json:"updatedAt"`
	ExchangeRate         *decimal.Decimal  `db:"exchange_rate" json:"exchangeRate,omitempty"`
	Account              *AccountSummary   `db:"-" json:"account,omitempty"`
	DestinationAccount   *AccountSummary   `db:"-" json:"destinationAccount,omitempty"`
	Amount               decimal.Decimal   `db:"amount" json:"amount"`
	CreditedAmount       decimal.Decimal   `db:"credited_amount" json:"creditedAmount"`
	IdempotencyKey       string            `db:"idempotency_key" json:"idempotencyKey"`
	Description          string            `db:"description" json:"description"`
	FailureReason        string            `db:"failure_reason" json:"failureReason,omitempty"`
	Currency             Currency          `db:"currency" json:"currency"`
	DestinationCurrency  Currency          `db:"destination_currency" json:"destinationCurrency"`
	Type                 TransactionType   `db:"type" json:"type"`
	Status               TransactionStatus `db:"status" json:"status"`
	ID                   uuid.UUID         `db:"id" json:"id"`
	InitiatorID          uuid.UUID         `db:"initiator_id" json:"-"`
	AccountID            uuid.UUID         `db:"account_id" json:"accountId"`
	DestinationAccountID uuid.UUID         `db:"destination_account_id" json:"destinationAccountId"`
}

// Transition moves a pending transaction to a terminal status
func (t *Transaction) Transition(to TransactionStatus, now time.Time) error {
	if t.Status != TransactionStatusPending {
		return fmt.Errorf("transaction %s is %s: %w", t.ID, t.Status, ErrInvalidStateTransition)
	}
	if to != TransactionStatusPosted && to != TransactionStatusFailed {
		return fmt.Errorf("transaction %s cannot move to %s: %w", t.ID, to, ErrInvalidStateTransition)
	}

	t.Status = to
	t.UpdatedAt = now
	return nil
}

// IdempotencyKey tracks processed requests to prevent duplicate responses
type IdempotencyKey struct {
	CreatedAt      time.Time `db:"created_at"`
	Key            string    `db:"key"`
	RequestPath    string    `db:"request_path"`
	RequestHash    string    `db:"request_hash"`
	ResponseBody   string    `db:"response_body"`
	ResponseStatus int       `db:"response_status"`
}

// ExchangeRate converts one unit of From into To
type ExchangeRate struct {
	UpdatedAt time.Time       `db:"updated_at" json:"updatedAt"`
	Rate      decimal.Decimal `db:"rate" json:"rate"`
	From      Currency        `db:"from_currency" json:"fromCurrency"`
	To        Currency        `db:"to_currency" json:"toCurrency"`
}
