package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"ledger/internal/core"
)

// CreateAccount stores a new account with its opening balance. This insert
// and adjustBalance are the only statements that write balance_cents.
func (r *SQLiteRepository) CreateAccount(ctx context.Context, userID int64, name string, opening core.Money) (core.Account, error) {
	if err := opening.InRange(); err != nil {
		return core.Account{}, err
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO accounts (user_id, account_name, balance_cents) VALUES (?, ?, ?)`,
		userID, name, opening.Cents)
	if err != nil {
		if errors.Is(constraintKind(err), ErrConflict) {
			return core.Account{}, ErrDuplicateAccount
		}
		return core.Account{}, fmt.Errorf("create account: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Account{}, fmt.Errorf("create account: %w", err)
	}

	slog.InfoContext(ctx, "Account created", "user_id", userID, "account_id", id, "balance", opening.String())

	return core.Account{ID: id, UserID: userID, Name: name, Balance: opening}, nil
}

func (r *SQLiteRepository) ListAccounts(ctx context.Context, userID int64) ([]core.Account, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, account_name, balance_cents FROM accounts WHERE user_id = ? ORDER BY id`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	accounts := []core.Account{}
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

func (r *SQLiteRepository) GetAccount(ctx context.Context, userID, accountID int64) (core.Account, error) {
	return ownedAccount(ctx, r.db, userID, accountID)
}

// RenameAccount changes an account's name. The balance is not editable.
func (r *SQLiteRepository) RenameAccount(ctx context.Context, userID, accountID int64, name string) (core.Account, error) {
	var acc core.Account
	err := r.inTx(ctx, func(tx *sql.Tx) error {
		var err error
		if acc, err = ownedAccount(ctx, tx, userID, accountID); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE accounts SET account_name = ? WHERE id = ? AND user_id = ?`,
			name, accountID, userID); err != nil {
			if errors.Is(constraintKind(err), ErrConflict) {
				return ErrDuplicateAccount
			}
			return fmt.Errorf("rename account: %w", err)
		}
		acc.Name = name
		return nil
	})
	return acc, err
}

// DeleteAccount removes an account and, by cascade, its transactions.
func (r *SQLiteRepository) DeleteAccount(ctx context.Context, userID, accountID int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM accounts WHERE id = ? AND user_id = ?`, accountID, userID)
	if err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrAccountNotFound
	}

	slog.InfoContext(ctx, "Account deleted", "user_id", userID, "account_id", accountID)
	return nil
}
