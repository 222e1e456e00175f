package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"ledger/internal/core"
)

func (r *SQLiteRepository) CreateCategory(ctx context.Context, userID int64, name string, typ core.CategoryType) (core.Category, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO categories (user_id, name, type) VALUES (?, ?, ?)`,
		userID, name, typ.String())
	if err != nil {
		if errors.Is(constraintKind(err), ErrConflict) {
			return core.Category{}, ErrDuplicateCategory
		}
		return core.Category{}, fmt.Errorf("create category: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Category{}, fmt.Errorf("create category: %w", err)
	}

	slog.InfoContext(ctx, "Category created", "user_id", userID, "category_id", id, "type", typ.String())

	return core.Category{ID: id, UserID: userID, Name: name, Type: typ}, nil
}

// ListCategories returns the user's categories ordered by id, optionally
// restricted to one type.
func (r *SQLiteRepository) ListCategories(ctx context.Context, userID int64, typ *core.CategoryType) ([]core.Category, error) {
	query := `SELECT id, user_id, name, type FROM categories WHERE user_id = ?`
	args := []any{userID}
	if typ != nil {
		query += ` AND type = ?`
		args = append(args, typ.String())
	}
	query += ` ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	categories := []core.Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *SQLiteRepository) GetCategory(ctx context.Context, userID, categoryID int64) (core.Category, error) {
	return ownedCategory(ctx, r.db, userID, categoryID)
}

// UpdateCategory renames a category and/or changes its type. A type change
// does not touch balances already derived from the category's transactions.
func (r *SQLiteRepository) UpdateCategory(ctx context.Context, userID, categoryID int64, name *string, typ *core.CategoryType) (core.Category, error) {
	var cat core.Category
	err := r.inTx(ctx, func(tx *sql.Tx) error {
		var err error
		if cat, err = ownedCategory(ctx, tx, userID, categoryID); err != nil {
			return err
		}
		if name != nil {
			cat.Name = *name
		}
		if typ != nil {
			if *typ != cat.Type {
				slog.WarnContext(ctx, "Category type changed, existing balances keep the previous sign",
					"user_id", userID, "category_id", categoryID, "from", cat.Type.String(), "to", typ.String())
			}
			cat.Type = *typ
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE categories SET name = ?, type = ? WHERE id = ? AND user_id = ?`,
			cat.Name, cat.Type.String(), categoryID, userID); err != nil {
			if errors.Is(constraintKind(err), ErrConflict) {
				return ErrDuplicateCategory
			}
			return fmt.Errorf("update category: %w", err)
		}
		return nil
	})
	return cat, err
}

// DeleteCategory removes a category and its budgets. It fails with
// ErrCategoryInUse while transactions still reference it.
func (r *SQLiteRepository) DeleteCategory(ctx context.Context, userID, categoryID int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ? AND user_id = ?`, categoryID, userID)
	if err != nil {
		if errors.Is(constraintKind(err), ErrInUse) {
			return ErrCategoryInUse
		}
		return fmt.Errorf("delete category: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrCategoryNotFound
	}

	slog.InfoContext(ctx, "Category deleted", "user_id", userID, "category_id", categoryID)
	return nil
}
