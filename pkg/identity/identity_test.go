package identity

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/angelmondragon/grocerfront/pkg/config"
)

func signToken(t *testing.T, secret, subject, issuer string) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		Issuer:    issuer,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("signing test token: %v", err)
	}
	return token
}

func TestEstablishAnonymous(t *testing.T) {
	t.Parallel()

	provider := NewLocalProvider(config.IdentityConfig{})

	var got Identity
	var calls int
	provider.OnChange(func(id Identity) {
		got = id
		calls++
	})

	if err := provider.Establish(context.Background(), ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected 1 announcement, got %d", calls)
	}
	if got.UID == "" || !got.Anonymous {
		t.Fatalf("expected anonymous identity with a uid, got %+v", got)
	}
}

func TestEstablishWithToken(t *testing.T) {
	t.Parallel()

	provider := NewLocalProvider(config.IdentityConfig{JWTSecret: "sekrit"})
	token := signToken(t, "sekrit", "user-42", "")

	var got Identity
	provider.OnChange(func(id Identity) { got = id })

	if err := provider.Establish(context.Background(), token); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.UID != "user-42" || got.Anonymous {
		t.Fatalf("expected user-42 from the token subject, got %+v", got)
	}
}

func TestEstablishRejectsBadSignature(t *testing.T) {
	t.Parallel()

	provider := NewLocalProvider(config.IdentityConfig{JWTSecret: "sekrit"})
	token := signToken(t, "wrong-secret", "user-42", "")

	var announced bool
	provider.OnChange(func(Identity) { announced = true })

	if err := provider.Establish(context.Background(), token); err == nil {
		t.Fatal("expected an error for a badly signed token")
	}
	if announced {
		t.Fatal("expected no announcement after a failed establish")
	}
}

func TestEstablishRejectsWrongIssuer(t *testing.T) {
	t.Parallel()

	provider := NewLocalProvider(config.IdentityConfig{
		JWTSecret: "sekrit",
		JWTIssuer: "grocerfront",
	})
	token := signToken(t, "sekrit", "user-42", "someone-else")

	if err := provider.Establish(context.Background(), token); err == nil {
		t.Fatal("expected an error for a wrong issuer")
	}
}

func TestEstablishTokenWithoutSecret(t *testing.T) {
	t.Parallel()

	provider := NewLocalProvider(config.IdentityConfig{})
	token := signToken(t, "sekrit", "user-42", "")

	if err := provider.Establish(context.Background(), token); err == nil {
		t.Fatal("expected an error when no secret is configured")
	}
}

func TestLateRegistrationGetsCurrentIdentity(t *testing.T) {
	t.Parallel()

	provider := NewLocalProvider(config.IdentityConfig{})
	if err := provider.Establish(context.Background(), ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var got Identity
	provider.OnChange(func(id Identity) { got = id })
	if got.UID == "" {
		t.Fatal("expected an immediate announcement for a late registration")
	}
}

func TestEstablishIsIdempotent(t *testing.T) {
	t.Parallel()

	provider := NewLocalProvider(config.IdentityConfig{})

	var calls int
	provider.OnChange(func(Identity) { calls++ })

	if err := provider.Establish(context.Background(), ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := provider.Establish(context.Background(), ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected a single announcement, got %d", calls)
	}
}
