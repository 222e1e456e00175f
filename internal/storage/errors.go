package storage

import (
	"errors"
	"strings"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Error kinds returned by the repository. Match with errors.Is.
var (
	ErrNotFound  = errors.New("not found")
	ErrForbidden = errors.New("forbidden")
	ErrConflict  = errors.New("conflict")
	ErrInUse     = errors.New("in use")
)

// Error is a repository error with a message fit for API clients.
type Error struct {
	Msg  string
	Kind error
}

func (e *Error) Error() string { return e.Msg }
func (e *Error) Unwrap() error { return e.Kind }

var (
	ErrUserNotFound        = &Error{"User not found", ErrNotFound}
	ErrAccountNotFound     = &Error{"Account not found", ErrNotFound}
	ErrCategoryNotFound    = &Error{"Category not found", ErrNotFound}
	ErrTransactionNotFound = &Error{"Transaction not found", ErrNotFound}
	ErrBudgetNotFound      = &Error{"Budget not found", ErrNotFound}

	ErrTransactionForbidden = &Error{"Forbidden", ErrForbidden}

	ErrDuplicateUser     = &Error{"Username or email already registered", ErrConflict}
	ErrDuplicateAccount  = &Error{"Account name already exists", ErrConflict}
	ErrDuplicateCategory = &Error{"Category name already exists", ErrConflict}

	ErrCategoryInUse = &Error{"Category is referenced by transactions", ErrInUse}
)

// constraintKind classifies a SQLite constraint violation as ErrConflict
// (unique) or ErrInUse (foreign key). It returns nil for any other error.
func constraintKind(err error) error {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return nil
	}
	switch se.Code() {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return ErrConflict
	case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
		return ErrInUse
	}
	if se.Code()&0xff == sqlite3.SQLITE_CONSTRAINT {
		msg := se.Error()
		switch {
		case strings.Contains(msg, "UNIQUE constraint failed"):
			return ErrConflict
		case strings.Contains(msg, "FOREIGN KEY constraint failed"):
			return ErrInUse
		}
	}
	return nil
}
