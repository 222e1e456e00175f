package core

import (
	"encoding/json"
	"fmt"
)

// CategoryType is the closed set of category kinds. The zero value is not a
// valid type.
type CategoryType uint8

const (
	Income CategoryType = iota + 1
	Expense
)

// ParseCategoryType maps "income" and "expense" to their CategoryType.
func ParseCategoryType(s string) (CategoryType, error) {
	switch s {
	case "income":
		return Income, nil
	case "expense":
		return Expense, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidCategoryType, s)
}

func (t CategoryType) String() string {
	switch t {
	case Income:
		return "income"
	case Expense:
		return "expense"
	}
	return fmt.Sprintf("CategoryType(%d)", uint8(t))
}

func (t CategoryType) Valid() bool {
	return t == Income || t == Expense
}

// Sign is the direction an amount in a category of this type moves a balance.
func (t CategoryType) Sign() int64 {
	if t == Expense {
		return -1
	}
	return 1
}

func (t CategoryType) MarshalJSON() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCategoryType, uint8(t))
	}
	return json.Marshal(t.String())
}

func (t *CategoryType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return ErrInvalidCategoryType
	}
	parsed, err := ParseCategoryType(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
