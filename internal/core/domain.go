package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	MaxUsernameLength    = 30
	MinUsernameLength    = 3
	MinPasswordLength    = 6
	MaxNameLength        = 50
	MaxDescriptionLength = 255
	DateLayout           = "2006-01-02"
)

// Roles
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type (
	// Date is a calendar day without time of day, encoded as YYYY-MM-DD.
	Date struct {
		time.Time
	}

	User struct {
		ID           int64  `json:"id"`
		Username     string `json:"username"`
		Email        string `json:"email"`
		PasswordHash string `json:"-"`
		Role         string `json:"role"`
	}

	Account struct {
		ID      int64  `json:"id"`
		UserID  int64  `json:"-"`
		Name    string `json:"account_name"`
		Balance Money  `json:"balance"`
	}

	Category struct {
		ID     int64        `json:"id"`
		UserID int64        `json:"-"`
		Name   string       `json:"name"`
		Type   CategoryType `json:"type"`
	}

	Transaction struct {
		ID          int64     `json:"id"`
		UserID      int64     `json:"-"`
		AccountID   int64     `json:"account_id"`
		CategoryID  int64     `json:"category_id"`
		Amount      Money     `json:"amount"`
		Description string    `json:"description"`
		Date        Date      `json:"date"`
		CreatedAt   time.Time `json:"created_at"`
	}

	Budget struct {
		ID         int64 `json:"id"`
		UserID     int64 `json:"-"`
		CategoryID int64 `json:"category_id"`
		Month      Month `json:"month"`
		Amount     Money `json:"amount"`
	}

	// TransactionPatch carries the optional fields of a transaction edit.
	TransactionPatch struct {
		AccountID   *int64
		CategoryID  *int64
		Amount      *Money
		Description *string
		Date        *Date
	}

	// TransactionFilter narrows a transaction listing. Month wins over From/To.
	TransactionFilter struct {
		Month      *Month
		From       *Date
		To         *Date // exclusive
		AccountID  *int64
		CategoryID *int64
		AmountMin  *Money
		AmountMax  *Money
		Limit      int
		Offset     int
	}
)

const (
	DefaultListLimit = 50
	MaxListLimit     = 200
)

var (
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrInvalidMonth        = errors.New("invalid month, expected YYYY-MM")
	ErrInvalidDate         = errors.New("invalid date, expected YYYY-MM-DD")
	ErrInvalidCategoryType = errors.New("invalid category type, expected income or expense")
	ErrEmptyName           = errors.New("name cannot be empty")
	ErrNameTooLong         = errors.New("name too long")
	ErrDescriptionTooLong  = errors.New("description too long")
	ErrInvalidUsername     = errors.New("username must be between 3 and 30 characters")
	ErrInvalidEmail        = errors.New("invalid email address")
	ErrWeakPassword        = errors.New("password must be at least 6 characters")
	ErrInvalidRole         = errors.New("invalid role")
	ErrInvalidLimit        = errors.New("limit must be between 1 and 200")
	ErrInvalidOffset       = errors.New("offset must be zero or positive")
)

// ValidationError reports whether err is one of the input validation errors
// of this package.
func ValidationError(err error) bool {
	for _, target := range []error{
		ErrInvalidAmount, ErrInvalidMonth, ErrInvalidDate, ErrInvalidCategoryType,
		ErrEmptyName, ErrNameTooLong, ErrDescriptionTooLong, ErrInvalidUsername,
		ErrInvalidEmail, ErrWeakPassword, ErrInvalidRole, ErrInvalidLimit, ErrInvalidOffset,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return Date{Time: t}, nil
}

// NewDate builds a Date in UTC.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func (d Date) String() string {
	return d.Format(DateLayout)
}

// Month returns the calendar month the date falls in.
func (d Date) Month() Month {
	return Month{Year: d.Year(), Month: d.Time.Month()}
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return ErrInvalidDate
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ValidateName checks an account or category name.
func ValidateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrEmptyName
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return "", ErrNameTooLong
	}
	return name, nil
}

func ValidateDescription(desc string) error {
	if utf8.RuneCountInString(desc) > MaxDescriptionLength {
		return ErrDescriptionTooLong
	}
	return nil
}

// ValidateRegistration checks the fields of a new user.
func ValidateRegistration(username, email, password string) error {
	n := utf8.RuneCountInString(username)
	if n < MinUsernameLength || n > MaxUsernameLength {
		return ErrInvalidUsername
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || !strings.Contains(email[strings.LastIndex(email, "@")+1:], ".") {
		return ErrInvalidEmail
	}
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return ErrWeakPassword
	}
	return nil
}

func ValidateRole(role string) error {
	if role != RoleUser && role != RoleAdmin {
		return fmt.Errorf("%w: %q", ErrInvalidRole, role)
	}
	return nil
}

// Validate checks the fields of a transaction about to be written.
func (t Transaction) Validate() error {
	if err := t.Amount.Positive(); err != nil {
		return err
	}
	if err := t.Amount.InRange(); err != nil {
		return err
	}
	if t.Date.IsZero() {
		return ErrInvalidDate
	}
	return ValidateDescription(t.Description)
}

// Apply merges the patch into t and returns the result.
func (p TransactionPatch) Apply(t Transaction) Transaction {
	if p.AccountID != nil {
		t.AccountID = *p.AccountID
	}
	if p.CategoryID != nil {
		t.CategoryID = *p.CategoryID
	}
	if p.Amount != nil {
		t.Amount = *p.Amount
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Date != nil {
		t.Date = *p.Date
	}
	return t
}

// Normalize applies the default page size and checks the paging bounds.
func (f *TransactionFilter) Normalize() error {
	if f.Limit == 0 {
		f.Limit = DefaultListLimit
	}
	if f.Limit < 1 || f.Limit > MaxListLimit {
		return ErrInvalidLimit
	}
	if f.Offset < 0 {
		return ErrInvalidOffset
	}
	if f.AmountMin != nil && f.AmountMin.NonNegative() != nil {
		return ErrInvalidAmount
	}
	if f.AmountMax != nil && f.AmountMax.NonNegative() != nil {
		return ErrInvalidAmount
	}
	return nil
}

// DateRange returns the effective [from, to) bounds of the filter.
func (f TransactionFilter) DateRange() (from, to *Date) {
	if f.Month != nil {
		start, end := f.Month.Range()
		return &start, &end
	}
	return f.From, f.To
}
