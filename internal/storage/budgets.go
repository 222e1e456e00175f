package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"ledger/internal/core"
)

// UpsertBudget sets the cap for (user, category, month), creating the row on
// first use and overwriting the amount afterwards.
func (r *SQLiteRepository) UpsertBudget(ctx context.Context, userID, categoryID int64, month core.Month, amount core.Money) (core.Budget, error) {
	if err := amount.NonNegative(); err != nil {
		return core.Budget{}, err
	}

	b := core.Budget{UserID: userID, CategoryID: categoryID, Month: month, Amount: amount}
	err := r.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := ownedCategory(ctx, tx, userID, categoryID); err != nil {
			return err
		}
		row := tx.QueryRowContext(ctx,
			`INSERT INTO budgets (user_id, category_id, month, amount_cents) VALUES (?, ?, ?, ?)
			 ON CONFLICT (user_id, category_id, month) DO UPDATE SET amount_cents = excluded.amount_cents
			 RETURNING id`,
			userID, categoryID, month.String(), amount.Cents)
		if err := row.Scan(&b.ID); err != nil {
			return fmt.Errorf("upsert budget: %w", err)
		}
		return nil
	})
	if err != nil {
		return core.Budget{}, err
	}

	slog.InfoContext(ctx, "Budget saved",
		"user_id", userID, "budget_id", b.ID, "category_id", categoryID,
		"month", month.String(), "amount", amount.String())

	return b, nil
}

// ListBudgets returns the user's budgets, all of them or those of one month.
func (r *SQLiteRepository) ListBudgets(ctx context.Context, userID int64, month *core.Month) ([]core.Budget, error) {
	query := `SELECT id, user_id, category_id, month, amount_cents FROM budgets WHERE user_id = ?`
	args := []any{userID}
	if month != nil {
		query += ` AND month = ?`
		args = append(args, month.String())
	}
	query += ` ORDER BY month, category_id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	defer rows.Close()

	budgets := []core.Budget{}
	for rows.Next() {
		var (
			b core.Budget
			m string
		)
		if err := rows.Scan(&b.ID, &b.UserID, &b.CategoryID, &m, &b.Amount.Cents); err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		if b.Month, err = core.ParseMonth(m); err != nil {
			return nil, fmt.Errorf("budget %d: %w", b.ID, err)
		}
		budgets = append(budgets, b)
	}
	return budgets, rows.Err()
}

func (r *SQLiteRepository) DeleteBudget(ctx context.Context, userID, budgetID int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM budgets WHERE id = ? AND user_id = ?`, budgetID, userID)
	if err != nil {
		return fmt.Errorf("delete budget: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrBudgetNotFound
	}
	return nil
}

