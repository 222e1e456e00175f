package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const secret = "0123456789abcdef0123"

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret!")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if hash == "s3cret!" || !strings.HasPrefix(hash, "$2") {
		t.Fatalf("HashPassword() = %q, want bcrypt hash", hash)
	}
	if err := CheckPassword(hash, "s3cret!"); err != nil {
		t.Errorf("CheckPassword(correct) error = %v", err)
	}
	if err := CheckPassword(hash, "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("CheckPassword(wrong) error = %v, want ErrInvalidCredentials", err)
	}
	if err := CheckPassword("not-a-hash", "s3cret!"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("CheckPassword(bad hash) error = %v, want ErrInvalidCredentials", err)
	}
}

func TestTokens_RoundTrip(t *testing.T) {
	tokens := NewTokens(secret, time.Hour)

	tok, err := tokens.Issue(42)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	id, err := tokens.Parse(tok)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if id != 42 {
		t.Errorf("Parse() = %d, want 42", id)
	}
}

func TestTokens_Rejects(t *testing.T) {
	tokens := NewTokens(secret, time.Hour)

	expired := NewTokens(secret, time.Hour)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expiredTok, _ := expired.Issue(1)

	otherTok, _ := NewTokens("another-secret-0123456", time.Hour).Issue(1)

	noneTok, _ := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub": "1",
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)

	badSub, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "alice",
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(secret))

	noExp, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "1",
	}).SignedString([]byte(secret))

	tests := map[string]string{
		"garbage":        "not.a.token",
		"empty":          "",
		"expired":        expiredTok,
		"wrong secret":   otherTok,
		"alg none":       noneTok,
		"non numeric id": badSub,
		"no expiry":      noExp,
	}
	for name, tok := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := tokens.Parse(tok); !errors.Is(err, ErrInvalidToken) {
				t.Errorf("Parse() error = %v, want ErrInvalidToken", err)
			}
		})
	}
}
