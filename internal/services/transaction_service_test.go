package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"ledger/internal/amqp"
	"ledger/internal/core"
	"ledger/internal/storage"
)

type recordingPublisher struct {
	events []*amqp.LedgerEvent
	err    error
}

func (p *recordingPublisher) PublishLedgerEvent(_ context.Context, e *amqp.LedgerEvent) error {
	p.events = append(p.events, e)
	return p.err
}

type fixture struct {
	repo    *storage.SQLiteRepository
	userID  int64
	account core.Account
	food    core.Category
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	repo, err := storage.NewSQLiteRepository(":memory:")
	if err != nil {
		t.Fatalf("NewSQLiteRepository() error = %v", err)
	}
	t.Cleanup(func() { repo.Close() })

	ctx := context.Background()
	u, err := repo.CreateUser(ctx, "alice", "alice@example.com", "hash", core.RoleUser)
	if err != nil {
		t.Fatal(err)
	}
	acc, err := repo.CreateAccount(ctx, u.ID, "cash", core.Cents(10000000))
	if err != nil {
		t.Fatal(err)
	}
	food, err := repo.CreateCategory(ctx, u.ID, "food", core.Expense)
	if err != nil {
		t.Fatal(err)
	}
	return fixture{repo: repo, userID: u.ID, account: acc, food: food}
}

func (f fixture) tx(amount int64) core.Transaction {
	return core.Transaction{
		AccountID:  f.account.ID,
		CategoryID: f.food.ID,
		Amount:     core.Cents(amount),
		Date:       core.NewDate(2025, time.September, 10),
	}
}

func TestTransactionService_PublishesAfterCommit(t *testing.T) {
	f := newFixture(t)
	pub := &recordingPublisher{}
	svc := NewTransactionService(f.repo, pub)
	ctx := context.Background()

	created, err := svc.CreateTransaction(ctx, f.userID, f.tx(3000000))
	if err != nil {
		t.Fatalf("CreateTransaction() error = %v", err)
	}

	date := core.NewDate(2025, time.October, 1)
	if _, err := svc.UpdateTransaction(ctx, f.userID, created.ID, core.TransactionPatch{Date: &date}); err != nil {
		t.Fatalf("UpdateTransaction() error = %v", err)
	}
	if err := svc.DeleteTransaction(ctx, f.userID, created.ID); err != nil {
		t.Fatalf("DeleteTransaction() error = %v", err)
	}

	want := []struct {
		typ   amqp.EventType
		month string
	}{
		{amqp.TransactionCreated, "2025-09"},
		{amqp.TransactionUpdated, "2025-10"},
		{amqp.TransactionUpdated, "2025-09"},
		{amqp.TransactionDeleted, "2025-10"},
	}
	if len(pub.events) != len(want) {
		t.Fatalf("published %d events, want %d", len(pub.events), len(want))
	}
	for i, w := range want {
		e := pub.events[i]
		if e.Type != w.typ || e.Month.String() != w.month {
			t.Errorf("event %d = %s %s, want %s %s", i, e.Type, e.Month, w.typ, w.month)
		}
		if e.UserID != f.userID || e.TransactionID != created.ID {
			t.Errorf("event %d = %+v, wrong ids", i, e)
		}
	}
}

func TestTransactionService_FailedWriteDoesNotPublish(t *testing.T) {
	f := newFixture(t)
	pub := &recordingPublisher{}
	svc := NewTransactionService(f.repo, pub)

	_, err := svc.CreateTransaction(context.Background(), f.userID, f.tx(0))
	if !errors.Is(err, core.ErrInvalidAmount) {
		t.Fatalf("CreateTransaction() error = %v, want ErrInvalidAmount", err)
	}
	err = svc.DeleteTransaction(context.Background(), f.userID, 999)
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("DeleteTransaction() error = %v, want ErrNotFound", err)
	}
	if len(pub.events) != 0 {
		t.Errorf("published %d events for failed writes", len(pub.events))
	}
}

func TestTransactionService_PublishFailureKeepsWrite(t *testing.T) {
	f := newFixture(t)
	pub := &recordingPublisher{err: amqp.ErrCircuitOpen}
	svc := NewTransactionService(f.repo, pub)

	if _, err := svc.CreateTransaction(context.Background(), f.userID, f.tx(3000000)); err != nil {
		t.Fatalf("CreateTransaction() error = %v, want nil despite publish failure", err)
	}

	acc, err := f.repo.GetAccount(context.Background(), f.userID, f.account.ID)
	if err != nil {
		t.Fatal(err)
	}
	if acc.Balance.Cents != 7000000 {
		t.Errorf("balance = %s, want 70000.00", acc.Balance)
	}
}

func TestTransactionService_NilPublisher(t *testing.T) {
	f := newFixture(t)
	svc := NewTransactionService(f.repo, nil)

	if _, err := svc.CreateTransaction(context.Background(), f.userID, f.tx(100)); err != nil {
		t.Fatalf("CreateTransaction() error = %v", err)
	}
}
