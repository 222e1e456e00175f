package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"ledger/internal/amqp"
	"ledger/internal/core"
)

type stubStatus struct {
	items []core.BudgetStatusItem
	err   error
	calls int
}

func (s *stubStatus) BudgetStatus(context.Context, int64, core.Month) ([]core.BudgetStatusItem, error) {
	s.calls++
	return s.items, s.err
}

func item(id int64, name string, budget, spent int64, rate float64) core.BudgetStatusItem {
	return core.BudgetStatusItem{
		BudgetSummaryItem: core.BudgetSummaryItem{
			CategoryID:   id,
			CategoryName: name,
			Budget:       core.Cents(budget),
			Spent:        core.Cents(spent),
			Diff:         core.Cents(budget - spent),
		},
		UsageRate: rate,
	}
}

var september = core.Month{Year: 2025, Month: time.September}

func TestBudgetAlertWorker_Check(t *testing.T) {
	src := &stubStatus{items: []core.BudgetStatusItem{
		item(1, "food", 1000, 500, 50),
		item(2, "rent", 1000, 800, 80),
		item(3, "fun", 1000, 1200, 120),
		item(4, "books", 0, 300, 0),
	}}
	w := NewBudgetAlertWorker(src, 80)

	alerts, err := w.Check(context.Background(), 1, september)
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if len(alerts) != 2 {
		t.Fatalf("Check() returned %d alerts, want 2: %+v", len(alerts), alerts)
	}
	if alerts[0].CategoryName != "rent" || alerts[0].OverBudget {
		t.Errorf("alerts[0] = %+v, want rent at threshold, not over budget", alerts[0])
	}
	if alerts[1].CategoryName != "fun" || !alerts[1].OverBudget {
		t.Errorf("alerts[1] = %+v, want fun over budget", alerts[1])
	}
}

func TestBudgetAlertWorker_HandleLedgerEvent(t *testing.T) {
	e := amqp.NewLedgerEvent(amqp.TransactionCreated, core.Transaction{
		ID: 1, UserID: 1, AccountID: 1, CategoryID: 1,
		Amount: core.Cents(100), Date: core.NewDate(2025, time.September, 1),
	})

	t.Run("success", func(t *testing.T) {
		src := &stubStatus{items: []core.BudgetStatusItem{item(1, "food", 100, 100, 100)}}
		if err := NewBudgetAlertWorker(src, 80).HandleLedgerEvent(context.Background(), e); err != nil {
			t.Errorf("HandleLedgerEvent() error = %v", err)
		}
		if src.calls != 1 {
			t.Errorf("BudgetStatus called %d times, want 1", src.calls)
		}
	})

	t.Run("source error is returned for requeue", func(t *testing.T) {
		src := &stubStatus{err: errors.New("database is locked")}
		if err := NewBudgetAlertWorker(src, 80).HandleLedgerEvent(context.Background(), e); err == nil {
			t.Error("HandleLedgerEvent() should fail when status cannot be computed")
		}
	})
}
