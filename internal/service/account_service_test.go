package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sandeepkv93/dexnote-client/internal/api"
	"github.com/sandeepkv93/dexnote-client/internal/apitest"
	"github.com/sandeepkv93/dexnote-client/internal/domain"
)

func newAccountFixture(t *testing.T) (*apitest.Server, *AccountService, *SessionStore, TokenStore) {
	t.Helper()
	backend := apitest.New(t)
	client := api.NewClient(backend.URL, 2*time.Second)
	tokens := NewInMemoryTokenStore()
	sessions := NewSessionStore(context.Background(), tokens, client, discardLogger())
	return backend, NewAccountService(client, sessions), sessions, tokens
}

func TestAccountServiceSignupThenLogin(t *testing.T) {
	ctx := context.Background()
	_, accounts, sessions, tokens := newAccountFixture(t)

	s, err := accounts.Signup(ctx, "ada", "ada@example.com", "pw-123456")
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	if !s.Authenticated() || s.User.Username != "ada" {
		t.Fatalf("expected authenticated after signup, got %+v", s)
	}
	accounts.Logout(ctx)
	if storedToken(t, tokens) != "" {
		t.Fatal("expected token erased after logout")
	}

	s, err = accounts.Login(ctx, "ada@example.com", "pw-123456")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if !s.Authenticated() || storedToken(t, tokens) != s.Token {
		t.Fatalf("expected persisted token after login, got %+v", s)
	}
	if got := sessions.Snapshot(); got.Token != s.Token {
		t.Fatalf("session store out of sync: %+v", got)
	}
}

func TestAccountServiceFailedLoginKeepsSession(t *testing.T) {
	ctx := context.Background()
	backend, accounts, sessions, _ := newAccountFixture(t)
	backend.RegisterUser(t, "ada", "ada@example.com", "pw-123456")

	_, err := accounts.Login(ctx, "ada@example.com", "nope")
	if api.DetailOr(err, "Login failed") != "Invalid email or password" {
		t.Fatalf("expected backend detail, got %v", err)
	}
	if sessions.Snapshot().Status != domain.StatusAnonymous {
		t.Fatal("failed login must not change the session")
	}

	if _, err := accounts.Login(ctx, " ", "pw"); !errors.Is(err, ErrMissingField) {
		t.Fatalf("expected ErrMissingField, got %v", err)
	}
	if _, err := accounts.Signup(ctx, "ada", "ada@example.com", "pw-123456"); api.DetailOr(err, "") != "Email already registered" {
		t.Fatalf("expected duplicate email detail, got %v", err)
	}
}

func TestAccountServiceUpdateProfile(t *testing.T) {
	ctx := context.Background()
	backend, accounts, sessions, _ := newAccountFixture(t)

	if _, err := accounts.UpdateProfile(ctx, "x", ""); !errors.Is(err, ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}

	token, user := backend.RegisterUser(t, "ada", "ada@example.com", "pw-123456")
	sessions.Login(ctx, token, user)

	if _, err := accounts.UpdateProfile(ctx, "ada", "ada@example.com"); !errors.Is(err, ErrNoChanges) {
		t.Fatalf("expected ErrNoChanges for unchanged fields, got %v", err)
	}
	if _, err := accounts.UpdateProfile(ctx, "", "Ada@Example.com"); err != nil {
		t.Fatalf("a case-only email change must reach the backend: %v", err)
	}

	u, err := accounts.UpdateProfile(ctx, "ada-l", "")
	if err != nil {
		t.Fatalf("update profile: %v", err)
	}
	if u.Username != "ada-l" || u.Email != "ada@example.com" {
		t.Fatalf("unexpected profile %+v", u)
	}
	got := sessions.Snapshot()
	if got.User.Username != "ada-l" || got.Token != token {
		t.Fatalf("expected session refreshed with new profile, got %+v", got)
	}

	backend.RegisterUser(t, "grace", "grace@example.com", "pw-123456")
	if _, err := accounts.UpdateProfile(ctx, "grace", ""); api.DetailOr(err, "") != "Username already taken" {
		t.Fatalf("expected conflict detail, got %v", err)
	}
}
