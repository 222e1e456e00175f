package amqp

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"ledger/internal/core"

	"github.com/google/uuid"
)

// EventType names a committed ledger mutation.
type EventType string

const (
	TransactionCreated EventType = "transaction.created"
	TransactionUpdated EventType = "transaction.updated"
	TransactionDeleted EventType = "transaction.deleted"
)

func (t EventType) Valid() bool {
	switch t {
	case TransactionCreated, TransactionUpdated, TransactionDeleted:
		return true
	}
	return false
}

// LedgerEvent is published after a transaction write commits. It carries
// enough for a consumer to recompute the month's budget status; the
// transaction itself is fetched from the database when needed.
type LedgerEvent struct {
	EventID       string     `json:"event_id"`
	Type          EventType  `json:"type"`
	UserID        int64      `json:"user_id"`
	TransactionID int64      `json:"transaction_id"`
	AccountID     int64      `json:"account_id"`
	CategoryID    int64      `json:"category_id"`
	Month         core.Month `json:"month"`
	Amount        core.Money `json:"amount"`
	Timestamp     time.Time  `json:"timestamp"`
}

// NewLedgerEvent builds an event for t with a fresh id.
func NewLedgerEvent(typ EventType, t core.Transaction) *LedgerEvent {
	return &LedgerEvent{
		EventID:       uuid.NewString(),
		Type:          typ,
		UserID:        t.UserID,
		TransactionID: t.ID,
		AccountID:     t.AccountID,
		CategoryID:    t.CategoryID,
		Month:         t.Date.Month(),
		Amount:        t.Amount,
		Timestamp:     time.Now().UTC(),
	}
}

func (e *LedgerEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// LedgerEventFromJSON decodes and checks an event body.
func LedgerEventFromJSON(data []byte) (*LedgerEvent, error) {
	var e LedgerEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	if !e.Type.Valid() {
		return nil, fmt.Errorf("unknown event type %q", e.Type)
	}
	if e.UserID <= 0 {
		return nil, errors.New("event without user_id")
	}
	if e.Month.IsZero() {
		return nil, errors.New("event without month")
	}
	return &e, nil
}
