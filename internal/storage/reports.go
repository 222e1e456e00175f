package storage

import (
	"context"
	"fmt"

	"ledger/internal/core"
)

// Aggregation queries. Each one bounds dates with the month's half-open
// range and left-joins so categories without transactions report zero.

const categoryTotalsQuery = `
SELECT c.id, c.name, c.type, COALESCE(SUM(t.amount_cents), 0)
FROM categories c
LEFT JOIN transactions t
       ON t.category_id = c.id AND t.date >= ? AND t.date < ?
WHERE c.user_id = ?`

// CategoryTotals returns every category of the user with its total for the
// month, ordered by type then name.
func (r *SQLiteRepository) CategoryTotals(ctx context.Context, userID int64, month core.Month) ([]core.CategoryTotal, error) {
	start, end := month.Range()
	return r.categoryTotals(ctx,
		categoryTotalsQuery+` GROUP BY c.id, c.name, c.type ORDER BY c.type, c.name`,
		start.String(), end.String(), userID)
}

// ExpenseTotals returns the user's expense categories with their spend for
// the month, ordered by name.
func (r *SQLiteRepository) ExpenseTotals(ctx context.Context, userID int64, month core.Month) ([]core.CategoryTotal, error) {
	start, end := month.Range()
	return r.categoryTotals(ctx,
		categoryTotalsQuery+` AND c.type = ? GROUP BY c.id, c.name, c.type ORDER BY c.name`,
		start.String(), end.String(), userID, core.Expense.String())
}

func (r *SQLiteRepository) categoryTotals(ctx context.Context, query string, args ...any) ([]core.CategoryTotal, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("category totals: %w", err)
	}
	defer rows.Close()

	totals := []core.CategoryTotal{}
	for rows.Next() {
		var (
			ct  core.CategoryTotal
			typ string
		)
		if err := rows.Scan(&ct.CategoryID, &ct.CategoryName, &typ, &ct.Total.Cents); err != nil {
			return nil, fmt.Errorf("scan category total: %w", err)
		}
		if ct.Type, err = core.ParseCategoryType(typ); err != nil {
			return nil, err
		}
		totals = append(totals, ct)
	}
	return totals, rows.Err()
}

// TypeTotal sums the raw amounts of the user's transactions of one category
// type in the month.
func (r *SQLiteRepository) TypeTotal(ctx context.Context, userID int64, month core.Month, typ core.CategoryType) (core.Money, error) {
	start, end := month.Range()
	var total core.Money
	err := r.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(t.amount_cents), 0)
		FROM transactions t
		JOIN categories c ON c.id = t.category_id
		WHERE t.user_id = ? AND c.type = ? AND t.date >= ? AND t.date < ?`,
		userID, typ.String(), start.String(), end.String()).Scan(&total.Cents)
	if err != nil {
		return core.Money{}, fmt.Errorf("%s total: %w", typ, err)
	}
	return total, nil
}
