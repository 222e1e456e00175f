package services

import (
	"context"
	"fmt"
	"log/slog"

	"ledger/internal/amqp"
	"ledger/internal/core"
)

// TransactionStore is the ledger write side of the repository.
type TransactionStore interface {
	CreateTransaction(ctx context.Context, userID int64, t core.Transaction) (core.Transaction, error)
	UpdateTransaction(ctx context.Context, userID, txID int64, patch core.TransactionPatch) (before, after core.Transaction, err error)
	DeleteTransaction(ctx context.Context, userID, txID int64) (core.Transaction, error)
}

// EventPublisher sends ledger events to the broker.
type EventPublisher interface {
	PublishLedgerEvent(ctx context.Context, e *amqp.LedgerEvent) error
}

// TransactionService orchestrates transaction writes across SQLite and AMQP.
// The database write is authoritative; events are published only after it
// commits and a publish failure never fails the request.
type TransactionService struct {
	store     TransactionStore
	publisher EventPublisher
}

// NewTransactionService builds the service. publisher may be nil when AMQP
// is not configured.
func NewTransactionService(store TransactionStore, publisher EventPublisher) *TransactionService {
	return &TransactionService{
		store:     store,
		publisher: publisher,
	}
}

func (s *TransactionService) CreateTransaction(ctx context.Context, userID int64, t core.Transaction) (core.Transaction, error) {
	created, err := s.store.CreateTransaction(ctx, userID, t)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("create transaction: %w", err)
	}
	s.publish(ctx, amqp.NewLedgerEvent(amqp.TransactionCreated, created))
	return created, nil
}

// UpdateTransaction publishes an event for the new state and, when the edit
// moved the transaction to another month, one for the month it left so that
// both months get their budgets rechecked.
func (s *TransactionService) UpdateTransaction(ctx context.Context, userID, txID int64, patch core.TransactionPatch) (core.Transaction, error) {
	before, after, err := s.store.UpdateTransaction(ctx, userID, txID, patch)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("update transaction: %w", err)
	}
	s.publish(ctx, amqp.NewLedgerEvent(amqp.TransactionUpdated, after))
	if before.Date.Month() != after.Date.Month() {
		s.publish(ctx, amqp.NewLedgerEvent(amqp.TransactionUpdated, before))
	}
	return after, nil
}

func (s *TransactionService) DeleteTransaction(ctx context.Context, userID, txID int64) error {
	deleted, err := s.store.DeleteTransaction(ctx, userID, txID)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	s.publish(ctx, amqp.NewLedgerEvent(amqp.TransactionDeleted, deleted))
	return nil
}

func (s *TransactionService) publish(ctx context.Context, e *amqp.LedgerEvent) {
	if s.publisher == nil {
		slog.DebugContext(ctx, "AMQP client not available, skipping ledger event", "type", e.Type)
		return
	}
	if err := s.publisher.PublishLedgerEvent(ctx, e); err != nil {
		slog.ErrorContext(ctx, "Failed to publish ledger event",
			"event_id", e.EventID,
			"type", e.Type,
			"transaction_id", e.TransactionID,
			"error", err)
	}
}
