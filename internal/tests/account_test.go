package tests

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"dutytrip/internal/auth"
	"dutytrip/internal/domain"
	"dutytrip/internal/service"
)

// ──────────────────────────────────────────────
// ACCOUNTS & AUTH
// ──────────────────────────────────────────────

func TestParseRole_ClosedSet(t *testing.T) {
	t.Parallel()

	if role, err := domain.ParseRole("DRIVER"); err != nil || role != domain.RoleDriver {
		t.Errorf("DRIVER: got (%v, %v)", role, err)
	}
	if role, err := domain.ParseRole("ADMIN"); err != nil || role != domain.RoleAdmin {
		t.Errorf("ADMIN: got (%v, %v)", role, err)
	}

	for _, bad := range []string{"", "driver", "SUPERUSER", "ADMIN "} {
		if _, err := domain.ParseRole(bad); err == nil {
			t.Errorf("expected error for role %q", bad)
		}
	}
}

func TestRegister_HashesSecret(t *testing.T) {
	t.Parallel()

	repo := NewMockAccountRepository()
	svc := service.NewAccountService(repo)

	account, err := svc.Register(context.Background(), service.RegisterRequest{
		Name:   "asha",
		Secret: "wheel-5481",
		Role:   domain.RoleDriver,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if account.SecretHash == "wheel-5481" {
		t.Error("secret stored in plaintext")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.SecretHash), []byte("wheel-5481")); err != nil {
		t.Errorf("stored hash does not match secret: %v", err)
	}
}

func TestRegister_DuplicateNameFails(t *testing.T) {
	t.Parallel()

	repo := NewMockAccountRepository()
	svc := service.NewAccountService(repo)

	req := service.RegisterRequest{Name: "asha", Secret: "s1", Role: domain.RoleDriver}
	if _, err := svc.Register(context.Background(), req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := svc.Register(context.Background(), req); !errors.Is(err, service.ErrNameTaken) {
		t.Errorf("expected ErrNameTaken, got %v", err)
	}
}

func TestAuthenticate_CollapsesFailures(t *testing.T) {
	t.Parallel()

	repo := NewMockAccountRepository()
	svc := service.NewAccountService(repo)

	if _, err := svc.Register(context.Background(), service.RegisterRequest{
		Name:   "asha",
		Secret: "wheel-5481",
		Role:   domain.RoleDriver,
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := svc.Authenticate(context.Background(), "asha", "wrong"); !errors.Is(err, service.ErrBadCredentials) {
		t.Errorf("wrong secret: expected ErrBadCredentials, got %v", err)
	}

	// Unknown name must be indistinguishable from a wrong secret.
	if _, err := svc.Authenticate(context.Background(), "nobody", "wheel-5481"); !errors.Is(err, service.ErrBadCredentials) {
		t.Errorf("unknown name: expected ErrBadCredentials, got %v", err)
	}

	account, err := svc.Authenticate(context.Background(), "asha", "wheel-5481")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if account.Role != domain.RoleDriver {
		t.Errorf("expected DRIVER, got %s", account.Role)
	}
}

func TestToken_RoundTrip(t *testing.T) {
	t.Parallel()

	account := &domain.Account{
		ID:   "acct-1",
		Name: "asha",
		Role: domain.RoleDriver,
	}

	token, err := auth.GenerateToken(account, "test-secret", time.Hour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	claims, err := auth.ParseToken(token, "test-secret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claims.AccountID != "acct-1" || claims.Role != "DRIVER" {
		t.Errorf("claims do not match account: %+v", claims)
	}

	if _, err := auth.ParseToken(token, "other-secret"); !errors.Is(err, auth.ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken with wrong secret, got %v", err)
	}
}

func TestToken_Expired(t *testing.T) {
	t.Parallel()

	account := &domain.Account{ID: "acct-1", Name: "asha", Role: domain.RoleAdmin}

	token, err := auth.GenerateToken(account, "test-secret", -time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := auth.ParseToken(token, "test-secret"); !errors.Is(err, auth.ErrExpiredToken) {
		t.Errorf("expected ErrExpiredToken, got %v", err)
	}
}
