package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"ledger/internal/core"
	"ledger/internal/ledger"
)

const transactionColumns = `id, user_id, account_id, category_id, amount_cents, description, date, created_at`

// CreateTransaction stores t for the user and applies its effect to the
// account balance in the same database transaction.
func (r *SQLiteRepository) CreateTransaction(ctx context.Context, userID int64, t core.Transaction) (core.Transaction, error) {
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}

	err := r.inTx(ctx, func(tx *sql.Tx) error {
		acc, err := ownedAccount(ctx, tx, userID, t.AccountID)
		if err != nil {
			return err
		}
		cat, err := ownedCategory(ctx, tx, userID, t.CategoryID)
		if err != nil {
			return err
		}

		t.UserID = userID
		t.CreatedAt = time.Now().UTC().Truncate(time.Second)
		res, err := tx.ExecContext(ctx,
			`INSERT INTO transactions (user_id, account_id, category_id, amount_cents, description, date, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			userID, acc.ID, cat.ID, t.Amount.Cents, t.Description, t.Date.String(), t.CreatedAt.Unix())
		if err != nil {
			return fmt.Errorf("insert transaction: %w", err)
		}
		if t.ID, err = res.LastInsertId(); err != nil {
			return fmt.Errorf("insert transaction: %w", err)
		}

		return adjustBalance(ctx, tx, userID, ledger.Insert(entry(t, cat.Type)))
	})
	if err != nil {
		return core.Transaction{}, err
	}

	slog.InfoContext(ctx, "Transaction created",
		"user_id", userID,
		"transaction_id", t.ID,
		"account_id", t.AccountID,
		"category_id", t.CategoryID,
		"amount", t.Amount.String(),
		"date", t.Date.String())

	return t, nil
}

func (r *SQLiteRepository) GetTransaction(ctx context.Context, userID, txID int64) (core.Transaction, error) {
	return ownedTransaction(ctx, r.db, userID, txID)
}

// UpdateTransaction applies patch to the transaction. The previous effect is
// reversed and the new one applied, possibly on different accounts, in the
// same database transaction as the row update. The result also carries the
// state before the edit.
func (r *SQLiteRepository) UpdateTransaction(ctx context.Context, userID, txID int64, patch core.TransactionPatch) (before, after core.Transaction, err error) {
	err = r.inTx(ctx, func(tx *sql.Tx) error {
		var err error
		if before, err = ownedTransaction(ctx, tx, userID, txID); err != nil {
			return err
		}
		oldCat, err := ownedCategory(ctx, tx, userID, before.CategoryID)
		if err != nil {
			return err
		}

		after = patch.Apply(before)
		if err := after.Validate(); err != nil {
			return err
		}
		if after.AccountID != before.AccountID {
			if _, err := ownedAccount(ctx, tx, userID, after.AccountID); err != nil {
				return err
			}
		}
		newCat := oldCat
		if after.CategoryID != before.CategoryID {
			if newCat, err = ownedCategory(ctx, tx, userID, after.CategoryID); err != nil {
				return err
			}
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE transactions
			 SET account_id = ?, category_id = ?, amount_cents = ?, description = ?, date = ?
			 WHERE id = ? AND user_id = ?`,
			after.AccountID, after.CategoryID, after.Amount.Cents, after.Description, after.Date.String(),
			txID, userID); err != nil {
			return fmt.Errorf("update transaction: %w", err)
		}

		for _, d := range ledger.Rebalance(entry(before, oldCat.Type), entry(after, newCat.Type)) {
			if err := adjustBalance(ctx, tx, userID, d); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return core.Transaction{}, core.Transaction{}, err
	}

	slog.InfoContext(ctx, "Transaction updated",
		"user_id", userID,
		"transaction_id", txID,
		"old_amount", before.Amount.String(),
		"new_amount", after.Amount.String(),
		"old_account_id", before.AccountID,
		"new_account_id", after.AccountID)

	return before, after, nil
}

// DeleteTransaction removes the transaction and reverses its effect on the
// account balance. It returns the deleted row.
func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, userID, txID int64) (core.Transaction, error) {
	var t core.Transaction
	err := r.inTx(ctx, func(tx *sql.Tx) error {
		var err error
		if t, err = ownedTransaction(ctx, tx, userID, txID); err != nil {
			return err
		}
		cat, err := ownedCategory(ctx, tx, userID, t.CategoryID)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM transactions WHERE id = ? AND user_id = ?`, txID, userID); err != nil {
			return fmt.Errorf("delete transaction: %w", err)
		}
		return adjustBalance(ctx, tx, userID, ledger.Remove(entry(t, cat.Type)))
	})
	if err != nil {
		return core.Transaction{}, err
	}

	slog.InfoContext(ctx, "Transaction deleted",
		"user_id", userID,
		"transaction_id", txID,
		"account_id", t.AccountID,
		"amount", t.Amount.String())

	return t, nil
}

// ListTransactions returns the user's transactions matching f, newest first.
func (r *SQLiteRepository) ListTransactions(ctx context.Context, userID int64, f core.TransactionFilter) ([]core.Transaction, error) {
	if err := f.Normalize(); err != nil {
		return nil, err
	}

	where := []string{"user_id = ?"}
	args := []any{userID}

	if f.AccountID != nil {
		where = append(where, "account_id = ?")
		args = append(args, *f.AccountID)
	}
	if f.CategoryID != nil {
		where = append(where, "category_id = ?")
		args = append(args, *f.CategoryID)
	}
	from, to := f.DateRange()
	if from != nil {
		where = append(where, "date >= ?")
		args = append(args, from.String())
	}
	if to != nil {
		where = append(where, "date < ?")
		args = append(args, to.String())
	}
	if f.AmountMin != nil {
		where = append(where, "amount_cents >= ?")
		args = append(args, f.AmountMin.Cents)
	}
	if f.AmountMax != nil {
		where = append(where, "amount_cents <= ?")
		args = append(args, f.AmountMax.Cents)
	}

	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE ` +
		strings.Join(where, " AND ") +
		` ORDER BY date DESC, id DESC LIMIT ? OFFSET ?`
	args = append(args, f.Limit, f.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	txs := []core.Transaction{}
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		txs = append(txs, t)
	}
	return txs, rows.Err()
}

// adjustBalance is the single writer of account balances after creation.
// A result outside the Money range fails with core.ErrInvalidAmount and the
// caller's transaction rolls back.
func adjustBalance(ctx context.Context, tx *sql.Tx, userID int64, d ledger.Delta) error {
	if d.Amount.IsZero() {
		return nil
	}

	var balance core.Money
	err := tx.QueryRowContext(ctx,
		`SELECT balance_cents FROM accounts WHERE id = ? AND user_id = ?`,
		d.AccountID, userID).Scan(&balance.Cents)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrAccountNotFound
	}
	if err != nil {
		return fmt.Errorf("read balance of account %d: %w", d.AccountID, err)
	}

	next := balance.Add(d.Amount)
	if err := next.InRange(); err != nil {
		return fmt.Errorf("%w: balance of account %d would exceed %s", err, d.AccountID, core.Cents(core.MaxMoneyCents))
	}

	res, err := tx.ExecContext(ctx,
		`UPDATE accounts SET balance_cents = ? WHERE id = ? AND user_id = ?`,
		next.Cents, d.AccountID, userID)
	if err != nil {
		return fmt.Errorf("adjust balance of account %d: %w", d.AccountID, err)
	}
	if n, _ := res.RowsAffected(); n != 1 {
		return ErrAccountNotFound
	}

	slog.DebugContext(ctx, "Account balance adjusted", "account_id", d.AccountID, "delta", d.Amount.String())
	return nil
}

func entry(t core.Transaction, typ core.CategoryType) ledger.Entry {
	return ledger.Entry{AccountID: t.AccountID, Type: typ, Amount: t.Amount}
}

func scanTransaction(s scanner) (core.Transaction, error) {
	var (
		t         core.Transaction
		date      string
		createdAt int64
	)
	if err := s.Scan(&t.ID, &t.UserID, &t.AccountID, &t.CategoryID, &t.Amount.Cents, &t.Description, &date, &createdAt); err != nil {
		return t, err
	}
	d, err := core.ParseDate(date)
	if err != nil {
		return t, fmt.Errorf("transaction %d: %w", t.ID, err)
	}
	t.Date = d
	t.CreatedAt = time.Unix(createdAt, 0).UTC()
	return t, nil
}
