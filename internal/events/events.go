// Package events publishes domain events to downstream consumers.
package events

import (
	"context"
	"time"

	"github.com/benx421/digital-bank/internal/models"
	"github.com/google/uuid"
)

// Event types
const (
	TypeAccountStatusChanged = "account.status_changed"
	TypeTransactionPosted    = "transaction.posted"
)

// Event is a committed state change keyed by the aggregate it belongs to
type Event struct {
	OccurredAt  time.Time `json:"occurredAt"`
	Payload     any       `json:"payload"`
	Type        string    `json:"type"`
	AggregateID uuid.UUID `json:"aggregateId"`
}

// Publisher delivers events. Implementations must be safe for concurrent use.
type Publisher interface {
	Publish(ctx context.Context, events ...Event) error
	Close() error
}

// AccountStatusChangedPayload describes one lifecycle transition
type AccountStatusChangedPayload struct {
	From      models.AccountState `json:"from"`
	To        models.AccountState `json:"to"`
	Action    string              `json:"action"`
	AccountID uuid.UUID           `json:"accountId"`
	OwnerID   uuid.UUID           `json:"ownerId"`
	ActorID   uuid.UUID           `json:"actorId"`
}

// AccountStatusChanged builds the event emitted after a committed transition
func AccountStatusChanged(account *models.Account, from models.AccountState, action string, actorID uuid.UUID) Event {
	return Event{
		Type:        TypeAccountStatusChanged,
		AggregateID: account.ID,
		OccurredAt:  account.UpdatedAt,
		Payload: AccountStatusChangedPayload{
			AccountID: account.ID,
			OwnerID:   account.OwnerID,
			ActorID:   actorID,
			Action:    action,
			From:      from,
			To:        account.State(),
		},
	}
}

// TransactionPosted builds the event emitted after a transfer commits
func TransactionPosted(txn *models.Transaction) Event {
	return Event{
		Type:        TypeTransactionPosted,
		AggregateID: txn.ID,
		OccurredAt:  txn.UpdatedAt,
		Payload:     txn,
	}
}

// NopPublisher drops every event
type NopPublisher struct{}

// Publish does nothing
func (NopPublisher) Publish(context.Context, ...Event) error { return nil }

// Close does nothing
func (NopPublisher) Close() error { return nil }
