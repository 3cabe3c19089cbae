package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sandeepkv93/dexnote-client/internal/api"
	"github.com/sandeepkv93/dexnote-client/internal/domain"
)

var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrNoChanges        = errors.New("no changes to save")
	ErrMissingField     = errors.New("missing required field")
)

// AccountService runs the credential flows against the backend and hands the
// outcome to the SessionStore.
type AccountService struct {
	backend  AuthBackend
	sessions *SessionStore
}

func NewAccountService(backend AuthBackend, sessions *SessionStore) *AccountService {
	return &AccountService{backend: backend, sessions: sessions}
}

func (s *AccountService) Login(ctx context.Context, email, password string) (domain.Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return s.sessions.Snapshot(), fmt.Errorf("%w: email and password", ErrMissingField)
	}
	res, err := s.backend.Login(ctx, email, password)
	if err != nil {
		return s.sessions.Snapshot(), err
	}
	return s.sessions.Login(ctx, res.Token, res.User), nil
}

func (s *AccountService) Signup(ctx context.Context, username, email, password string) (domain.Session, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" || email == "" || password == "" {
		return s.sessions.Snapshot(), fmt.Errorf("%w: username, email and password", ErrMissingField)
	}
	res, err := s.backend.Signup(ctx, username, email, password)
	if err != nil {
		return s.sessions.Snapshot(), err
	}
	return s.sessions.Login(ctx, res.Token, res.User), nil
}

func (s *AccountService) Logout(ctx context.Context) domain.Session {
	return s.sessions.Logout(ctx)
}

// UpdateProfile sends only the fields that differ from the current profile
// and re-establishes the session with the refreshed user.
func (s *AccountService) UpdateProfile(ctx context.Context, username, email string) (domain.User, error) {
	cur := s.sessions.Snapshot()
	if !cur.Authenticated() {
		return domain.User{}, ErrNotAuthenticated
	}
	var update api.ProfileUpdate
	if v := strings.TrimSpace(username); v != "" && v != cur.User.Username {
		update.Username = &v
	}
	if v := strings.TrimSpace(email); v != "" && v != cur.User.Email {
		update.Email = &v
	}
	if update.Empty() {
		return *cur.User, ErrNoChanges
	}
	u, err := s.backend.UpdateProfile(ctx, cur.Token, update)
	if err != nil {
		return domain.User{}, err
	}
	s.sessions.Login(ctx, cur.Token, u)
	return u, nil
}
