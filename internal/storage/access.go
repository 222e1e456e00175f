package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"ledger/internal/core"
)

// Ownership checks. Accounts, categories and budgets of another user are
// reported as absent. A transaction id that exists under another user is
// reported as forbidden, since the caller addressed it directly.

func ownedAccount(ctx context.Context, q querier, userID, accountID int64) (core.Account, error) {
	row := q.QueryRowContext(ctx,
		`SELECT id, user_id, account_name, balance_cents FROM accounts WHERE id = ? AND user_id = ?`,
		accountID, userID)
	a, err := scanAccount(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Account{}, ErrAccountNotFound
	}
	if err != nil {
		return core.Account{}, fmt.Errorf("get account %d: %w", accountID, err)
	}
	return a, nil
}

func ownedCategory(ctx context.Context, q querier, userID, categoryID int64) (core.Category, error) {
	row := q.QueryRowContext(ctx,
		`SELECT id, user_id, name, type FROM categories WHERE id = ? AND user_id = ?`,
		categoryID, userID)
	c, err := scanCategory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Category{}, ErrCategoryNotFound
	}
	if err != nil {
		return core.Category{}, fmt.Errorf("get category %d: %w", categoryID, err)
	}
	return c, nil
}

func ownedTransaction(ctx context.Context, q querier, userID, txID int64) (core.Transaction, error) {
	row := q.QueryRowContext(ctx, `SELECT `+transactionColumns+` FROM transactions WHERE id = ?`, txID)
	t, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, ErrTransactionNotFound
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction %d: %w", txID, err)
	}
	if t.UserID != userID {
		return core.Transaction{}, ErrTransactionForbidden
	}
	return t, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAccount(s scanner) (core.Account, error) {
	var a core.Account
	err := s.Scan(&a.ID, &a.UserID, &a.Name, &a.Balance.Cents)
	return a, err
}

func scanCategory(s scanner) (core.Category, error) {
	var (
		c   core.Category
		typ string
	)
	if err := s.Scan(&c.ID, &c.UserID, &c.Name, &typ); err != nil {
		return c, err
	}
	t, err := core.ParseCategoryType(typ)
	if err != nil {
		return c, fmt.Errorf("category %d: %w", c.ID, err)
	}
	c.Type = t
	return c, nil
}
