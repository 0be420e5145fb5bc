package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/arif/devnetwork/internal/apperror"
	"github.com/arif/devnetwork/internal/auth"
)

func newTestAuthService(t *testing.T) (*AuthService, *fakeUserRepo) {
	t.Helper()
	users := newFakeUserRepo()
	svc := NewAuthService(
		users,
		testTokenService(t),
		auth.NewPasswordServiceForTest(4),
		testLogger(),
	)
	return svc, users
}

func TestRegister_Success(t *testing.T) {
	svc, users := newTestAuthService(t)

	token, err := svc.Register(context.Background(), "Alice", "alice@example.com", "hunter22")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if token == "" {
		t.Fatal("expected a token")
	}

	if len(users.users) != 1 {
		t.Fatalf("expected 1 stored user, got %d", len(users.users))
	}
	for _, u := range users.users {
		if u.PasswordHash == "hunter22" {
			t.Error("password was stored in the clear")
		}
		if !strings.Contains(u.AvatarURL, "gravatar.com/avatar/") {
			t.Errorf("AvatarURL = %q, want a gravatar URL", u.AvatarURL)
		}
	}
}

func TestRegister_NormalizesEmail(t *testing.T) {
	svc, users := newTestAuthService(t)

	if _, err := svc.Register(context.Background(), "Alice", "  Alice@Example.COM ", "hunter22"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	for _, u := range users.users {
		if u.Email != "alice@example.com" {
			t.Errorf("Email = %q, want normalized %q", u.Email, "alice@example.com")
		}
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "Alice", "alice@example.com", "hunter22"); err != nil {
		t.Fatalf("first Register() error = %v", err)
	}

	_, err := svc.Register(ctx, "Other Alice", "alice@example.com", "different")
	if !errors.Is(err, apperror.ErrConflict) {
		t.Errorf("error = %v, want ErrConflict", err)
	}
}

func TestLogin_Success(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "Alice", "alice@example.com", "hunter22"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	token, err := svc.Login(ctx, "alice@example.com", "hunter22")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if token == "" {
		t.Fatal("expected a token")
	}
}

func TestLogin_UnknownEmail(t *testing.T) {
	svc, _ := newTestAuthService(t)

	_, err := svc.Login(context.Background(), "nobody@example.com", "whatever")
	if !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("error = %v, want ErrValidation", err)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "Alice", "alice@example.com", "hunter22"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	_, err := svc.Login(ctx, "alice@example.com", "not-her-password")
	if !errors.Is(err, apperror.ErrUnauthorized) {
		t.Errorf("error = %v, want ErrUnauthorized", err)
	}
}

func TestLogin_StoreFailure(t *testing.T) {
	svc, users := newTestAuthService(t)
	users.getByEmailErr = errors.New("connection reset")

	_, err := svc.Login(context.Background(), "alice@example.com", "password123")
	if err == nil {
		t.Fatal("Login() should fail when the store fails")
	}
	// A store outage is not the caller's fault; it must not surface as a
	// credentials rejection.
	if errors.Is(err, apperror.ErrValidation) || errors.Is(err, apperror.ErrUnauthorized) {
		t.Errorf("store failure surfaced as a client error: %v", err)
	}
}

func TestCurrentUser(t *testing.T) {
	svc, users := newTestAuthService(t)
	users.addUser("u1", "Alice", "alice@example.com")

	got, err := svc.CurrentUser(context.Background(), "u1")
	if err != nil {
		t.Fatalf("CurrentUser() error = %v", err)
	}
	if got.Name != "Alice" {
		t.Errorf("Name = %q, want %q", got.Name, "Alice")
	}

	if _, err := svc.CurrentUser(context.Background(), "ghost"); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}
