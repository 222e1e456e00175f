package worker

import (
	"context"
	"fmt"
	"log/slog"

	"ledger/internal/amqp"
	"ledger/internal/core"
)

// BudgetStatusSource computes the budget usage of one user's month.
type BudgetStatusSource interface {
	BudgetStatus(ctx context.Context, userID int64, month core.Month) ([]core.BudgetStatusItem, error)
}

// Alert reports an expense category whose spend reached the alert threshold.
type Alert struct {
	UserID       int64
	Month        core.Month
	CategoryID   int64
	CategoryName string
	Budget       core.Money
	Spent        core.Money
	UsageRate    float64
	OverBudget   bool
}

// BudgetAlertWorker rechecks budgets whenever a ledger event arrives.
type BudgetAlertWorker struct {
	source    BudgetStatusSource
	threshold float64
}

// NewBudgetAlertWorker alerts when usage reaches threshold percent.
func NewBudgetAlertWorker(source BudgetStatusSource, threshold int) *BudgetAlertWorker {
	return &BudgetAlertWorker{
		source:    source,
		threshold: float64(threshold),
	}
}

// HandleLedgerEvent is the AMQP handler. Errors make the message requeue.
func (w *BudgetAlertWorker) HandleLedgerEvent(ctx context.Context, e *amqp.LedgerEvent) error {
	slog.InfoContext(ctx, "Processing ledger event",
		"event_id", e.EventID,
		"type", e.Type,
		"user_id", e.UserID,
		"month", e.Month.String())

	alerts, err := w.Check(ctx, e.UserID, e.Month)
	if err != nil {
		return err
	}

	for _, a := range alerts {
		slog.WarnContext(ctx, "Budget alert",
			"user_id", a.UserID,
			"month", a.Month.String(),
			"category_id", a.CategoryID,
			"category", a.CategoryName,
			"budget", a.Budget.String(),
			"spent", a.Spent.String(),
			"usage_rate", a.UsageRate,
			"over_budget", a.OverBudget)
	}
	return nil
}

// Check returns the alerts for the user's month. Categories without a
// budget never alert.
func (w *BudgetAlertWorker) Check(ctx context.Context, userID int64, month core.Month) ([]Alert, error) {
	items, err := w.source.BudgetStatus(ctx, userID, month)
	if err != nil {
		return nil, fmt.Errorf("budget status for user %d %s: %w", userID, month, err)
	}

	var alerts []Alert
	for _, it := range items {
		if it.Budget.Cents <= 0 || it.UsageRate < w.threshold {
			continue
		}
		alerts = append(alerts, Alert{
			UserID:       userID,
			Month:        month,
			CategoryID:   it.CategoryID,
			CategoryName: it.CategoryName,
			Budget:       it.Budget,
			Spent:        it.Spent,
			UsageRate:    it.UsageRate,
			OverBudget:   it.UsageRate > 100,
		})
	}
	return alerts, nil
}
