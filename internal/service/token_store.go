package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/sandeepkv93/dexnote-client/internal/domain"
	"github.com/sandeepkv93/dexnote-client/internal/observability"
	"github.com/sandeepkv93/dexnote-client/internal/repository"
)

var ErrTokenNotFound = errors.New("token not found")

// TokenStore persists the single bearer token under domain.TokenKey.
// Delete of a missing token is not an error.
type TokenStore interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, token string) error
	Delete(ctx context.Context) error
	Backend() string
}

func recordTokenOp(ctx context.Context, backend, op string, err error) {
	outcome := "success"
	switch {
	case errors.Is(err, ErrTokenNotFound):
		outcome = "not_found"
	case err != nil:
		outcome = "error"
	}
	observability.RecordTokenStoreOperation(ctx, backend, op, outcome)
}

type InMemoryTokenStore struct {
	mu    sync.RWMutex
	token string
}

func NewInMemoryTokenStore() *InMemoryTokenStore {
	return &InMemoryTokenStore{}
}

func (s *InMemoryTokenStore) Backend() string { return "memory" }

func (s *InMemoryTokenStore) Load(ctx context.Context) (string, error) {
	s.mu.RLock()
	token := s.token
	s.mu.RUnlock()
	if token == "" {
		recordTokenOp(ctx, s.Backend(), "load", ErrTokenNotFound)
		return "", ErrTokenNotFound
	}
	recordTokenOp(ctx, s.Backend(), "load", nil)
	return token, nil
}

func (s *InMemoryTokenStore) Save(ctx context.Context, token string) error {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
	recordTokenOp(ctx, s.Backend(), "save", nil)
	return nil
}

func (s *InMemoryTokenStore) Delete(ctx context.Context) error {
	s.mu.Lock()
	s.token = ""
	s.mu.Unlock()
	recordTokenOp(ctx, s.Backend(), "delete", nil)
	return nil
}

// FileTokenStore keeps the token in a single owner-only file.
type FileTokenStore struct {
	path string
}

func NewFileTokenStore(path string) *FileTokenStore {
	return &FileTokenStore{path: path}
}

func (s *FileTokenStore) Backend() string { return "file" }

func (s *FileTokenStore) Path() string { return s.path }

func (s *FileTokenStore) Load(ctx context.Context) (string, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		err = ErrTokenNotFound
	}
	if err != nil {
		recordTokenOp(ctx, s.Backend(), "load", err)
		if errors.Is(err, ErrTokenNotFound) {
			return "", err
		}
		return "", fmt.Errorf("read token file: %w", err)
	}
	token := strings.TrimSpace(string(data))
	if token == "" {
		recordTokenOp(ctx, s.Backend(), "load", ErrTokenNotFound)
		return "", ErrTokenNotFound
	}
	recordTokenOp(ctx, s.Backend(), "load", nil)
	return token, nil
}

// Save writes through a temp file and rename so a crash never leaves a
// truncated token behind.
func (s *FileTokenStore) Save(ctx context.Context, token string) error {
	err := s.write(token)
	recordTokenOp(ctx, s.Backend(), "save", err)
	return err
}

func (s *FileTokenStore) write(token string) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create token dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".token-*")
	if err != nil {
		return fmt.Errorf("create temp token file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()
	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("chmod token file: %w", err)
	}
	if _, err := tmp.WriteString(token); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write token file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close token file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("rename token file: %w", err)
	}
	return nil
}

func (s *FileTokenStore) Delete(ctx context.Context) error {
	err := os.Remove(s.path)
	if errors.Is(err, os.ErrNotExist) {
		err = nil
	}
	recordTokenOp(ctx, s.Backend(), "delete", err)
	if err != nil {
		return fmt.Errorf("remove token file: %w", err)
	}
	return nil
}

// SettingTokenStore keeps the token in the client_settings table.
type SettingTokenStore struct {
	repo    repository.SettingRepository
	backend string
}

func NewSettingTokenStore(repo repository.SettingRepository, backend string) *SettingTokenStore {
	if backend == "" {
		backend = "sql"
	}
	return &SettingTokenStore{repo: repo, backend: backend}
}

func (s *SettingTokenStore) Backend() string { return s.backend }

func (s *SettingTokenStore) Load(ctx context.Context) (string, error) {
	token, err := s.repo.Get(ctx, domain.TokenKey)
	if errors.Is(err, repository.ErrSettingNotFound) || (err == nil && token == "") {
		recordTokenOp(ctx, s.backend, "load", ErrTokenNotFound)
		return "", ErrTokenNotFound
	}
	recordTokenOp(ctx, s.backend, "load", err)
	if err != nil {
		return "", fmt.Errorf("load token setting: %w", err)
	}
	return token, nil
}

func (s *SettingTokenStore) Save(ctx context.Context, token string) error {
	err := s.repo.Put(ctx, domain.TokenKey, token)
	recordTokenOp(ctx, s.backend, "save", err)
	if err != nil {
		return fmt.Errorf("save token setting: %w", err)
	}
	return nil
}

func (s *SettingTokenStore) Delete(ctx context.Context) error {
	err := s.repo.Delete(ctx, domain.TokenKey)
	recordTokenOp(ctx, s.backend, "delete", err)
	if err != nil {
		return fmt.Errorf("delete token setting: %w", err)
	}
	return nil
}
