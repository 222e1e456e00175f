// Package reports computes read-only monthly summaries over a user's
// transactions and budgets.
package reports

import (
	"context"
	"fmt"

	"ledger/internal/core"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// Store is the subset of the repository the engine reads from.
type Store interface {
	CategoryTotals(ctx context.Context, userID int64, month core.Month) ([]core.CategoryTotal, error)
	ExpenseTotals(ctx context.Context, userID int64, month core.Month) ([]core.CategoryTotal, error)
	TypeTotal(ctx context.Context, userID int64, month core.Month, typ core.CategoryType) (core.Money, error)
	ListBudgets(ctx context.Context, userID int64, month *core.Month) ([]core.Budget, error)
}

// Engine runs the aggregation queries. It never writes.
type Engine struct {
	store Store
}

func NewEngine(store Store) *Engine {
	return &Engine{store: store}
}

// CategoryTotals returns every category of the user with its total for the
// month. Categories without transactions report zero.
func (e *Engine) CategoryTotals(ctx context.Context, userID int64, month core.Month) ([]core.CategoryTotal, error) {
	totals, err := e.store.CategoryTotals(ctx, userID, month)
	if err != nil {
		return nil, fmt.Errorf("category totals for %s: %w", month, err)
	}
	return totals, nil
}

// Summary returns income, expense and net for the month plus the per
// category breakdown.
func (e *Engine) Summary(ctx context.Context, userID int64, month core.Month) (core.Summary, error) {
	var (
		breakdown       []core.CategoryTotal
		income, expense core.Money
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		breakdown, err = e.store.CategoryTotals(gctx, userID, month)
		return err
	})
	g.Go(func() (err error) {
		income, err = e.store.TypeTotal(gctx, userID, month, core.Income)
		return err
	})
	g.Go(func() (err error) {
		expense, err = e.store.TypeTotal(gctx, userID, month, core.Expense)
		return err
	})
	if err := g.Wait(); err != nil {
		return core.Summary{}, fmt.Errorf("summary for %s: %w", month, err)
	}

	return core.Summary{
		Month:        month,
		TotalIncome:  income,
		TotalExpense: expense,
		Net:          income.Sub(expense),
		Breakdown:    breakdown,
	}, nil
}

// BudgetSummary compares budget and spend for every expense category,
// ordered by category name. Categories without a budget report zero.
func (e *Engine) BudgetSummary(ctx context.Context, userID int64, month core.Month) ([]core.BudgetSummaryItem, error) {
	var (
		spent   []core.CategoryTotal
		budgets []core.Budget
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		spent, err = e.store.ExpenseTotals(gctx, userID, month)
		return err
	})
	g.Go(func() (err error) {
		budgets, err = e.store.ListBudgets(gctx, userID, &month)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("budget summary for %s: %w", month, err)
	}

	caps := make(map[int64]core.Money, len(budgets))
	for _, b := range budgets {
		caps[b.CategoryID] = b.Amount
	}

	items := make([]core.BudgetSummaryItem, 0, len(spent))
	for _, s := range spent {
		budget := caps[s.CategoryID]
		items = append(items, core.BudgetSummaryItem{
			CategoryID:   s.CategoryID,
			CategoryName: s.CategoryName,
			Budget:       budget,
			Spent:        s.Total,
			Diff:         budget.Sub(s.Total),
		})
	}
	return items, nil
}

// BudgetStatus is BudgetSummary with the usage rate of each budget.
func (e *Engine) BudgetStatus(ctx context.Context, userID int64, month core.Month) ([]core.BudgetStatusItem, error) {
	summary, err := e.BudgetSummary(ctx, userID, month)
	if err != nil {
		return nil, err
	}

	items := make([]core.BudgetStatusItem, len(summary))
	for i, s := range summary {
		items[i] = core.BudgetStatusItem{
			BudgetSummaryItem: s,
			UsageRate:         UsageRate(s.Spent, s.Budget),
		}
	}
	return items, nil
}

var hundred = decimal.NewFromInt(100)

// UsageRate returns spent as a percentage of budget rounded half-up to two
// places, or 0 when the budget is not positive.
func UsageRate(spent, budget core.Money) float64 {
	if budget.Cents <= 0 {
		return 0
	}
	rate := spent.Decimal().Mul(hundred).DivRound(budget.Decimal(), 2)
	f, _ := rate.Float64()
	return f
}
