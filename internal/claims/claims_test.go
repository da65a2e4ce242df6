package claims

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func sign(t *testing.T, c jwt.RegisteredClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestInspect(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	tok := sign(t, jwt.RegisteredClaims{
		Subject:   "1",
		Issuer:    "users",
		ExpiresAt: jwt.NewNumericDate(exp),
	})

	info, err := Inspect(tok)
	if err != nil {
		t.Fatalf("Inspect() error = %v", err)
	}
	if info.Subject != "1" || info.Issuer != "users" || info.Algorithm != "HS256" {
		t.Errorf("info = %+v", info)
	}
	if !info.ExpiresAt.Equal(exp) {
		t.Errorf("ExpiresAt = %v, want %v", info.ExpiresAt, exp)
	}
	if info.Expired(time.Now()) {
		t.Error("fresh token reported expired")
	}
	if !info.Expired(exp.Add(time.Minute)) {
		t.Error("token not expired after its exp")
	}
}

func TestInspectExpiredTokenStillDecodes(t *testing.T) {
	tok := sign(t, jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour))})
	info, err := Inspect(tok)
	if err != nil {
		t.Fatalf("Inspect() error = %v", err)
	}
	if !info.Expired(time.Now()) {
		t.Error("expired token not reported expired")
	}
}

func TestInspectOpaque(t *testing.T) {
	for _, tok := range []string{"abc", "a.b", "not.a.jwt"} {
		if _, err := Inspect(tok); !errors.Is(err, ErrOpaque) {
			t.Errorf("Inspect(%q) error = %v, want ErrOpaque", tok, err)
		}
	}
}

func TestExpiredWithoutExpiry(t *testing.T) {
	if (Info{}).Expired(time.Now()) {
		t.Error("token without exp reported expired")
	}
}
