package http

import (
	"context"
	"strings"

	"ledger/internal/core"
)

type userKey struct{}

func withUser(ctx context.Context, u core.User) context.Context {
	return context.WithValue(ctx, userKey{}, u)
}

// currentUser returns the user set by requireUser.
func currentUser(ctx context.Context) core.User {
	u, _ := ctx.Value(userKey{}).(core.User)
	return u
}

// sanitizeInput removes control characters other than tab, newline and
// carriage return, and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

func sanitizePtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := sanitizeInput(*s)
	return &v
}

// validateNamePtr validates an optional name in place.
func validateNamePtr(name *string) (*string, error) {
	if name == nil {
		return nil, nil
	}
	v, err := core.ValidateName(sanitizeInput(*name))
	if err != nil {
		return nil, err
	}
	return &v, nil
}
