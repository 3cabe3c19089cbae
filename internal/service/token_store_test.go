package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/sandeepkv93/dexnote-client/internal/repository"
)

func exerciseTokenStore(t *testing.T, store TokenStore) {
	t.Helper()
	ctx := context.Background()

	if _, err := store.Load(ctx); !errors.Is(err, ErrTokenNotFound) {
		t.Fatalf("expected ErrTokenNotFound on empty store, got %v", err)
	}
	if err := store.Save(ctx, "tok-1"); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.Save(ctx, "tok-2"); err != nil {
		t.Fatalf("replace: %v", err)
	}
	got, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got != "tok-2" {
		t.Fatalf("expected replaced token, got %q", got)
	}
	if err := store.Delete(ctx); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := store.Delete(ctx); err != nil {
		t.Fatalf("second delete must be a no-op: %v", err)
	}
	if _, err := store.Load(ctx); !errors.Is(err, ErrTokenNotFound) {
		t.Fatalf("expected ErrTokenNotFound after delete, got %v", err)
	}
}

func TestInMemoryTokenStore(t *testing.T) {
	exerciseTokenStore(t, NewInMemoryTokenStore())
}

func TestFileTokenStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "token")
	exerciseTokenStore(t, NewFileTokenStore(path))
}

func TestFileTokenStoreIsOwnerOnlyAndTrimmed(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "token")
	store := NewFileTokenStore(path)
	if err := store.Save(ctx, "tok-1"); err != nil {
		t.Fatalf("save: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Fatalf("expected 0600, got %o", perm)
	}

	if err := os.WriteFile(path, []byte("  tok-3\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if got, err := store.Load(ctx); err != nil || got != "tok-3" {
		t.Fatalf("expected trimmed token, got %q err=%v", got, err)
	}

	if err := os.WriteFile(path, []byte("\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := store.Load(ctx); !errors.Is(err, ErrTokenNotFound) {
		t.Fatalf("blank file must read as missing, got %v", err)
	}
}

func TestSettingTokenStore(t *testing.T) {
	db := newSQLiteForTest(t)
	store := NewSettingTokenStore(repository.NewSettingRepository(db), "sqlite")
	if store.Backend() != "sqlite" {
		t.Fatalf("unexpected backend %q", store.Backend())
	}
	exerciseTokenStore(t, store)
}

func TestRedisTokenStore(t *testing.T) {
	server, client := newRedisClientForTest(t)
	store := NewRedisTokenStore(client, "dexnote_test")
	exerciseTokenStore(t, store)

	if err := store.Save(context.Background(), "tok-9"); err != nil {
		t.Fatalf("save: %v", err)
	}
	if got, err := server.Get("dexnote_test:token"); err != nil || got != "tok-9" {
		t.Fatalf("expected token under prefixed key, got %q err=%v", got, err)
	}
}

func TestRedisTokenStoreSurfacesOutage(t *testing.T) {
	server, client := newRedisClientForTest(t)
	store := NewRedisTokenStore(client, "")
	server.Close()

	_, err := store.Load(context.Background())
	if err == nil || errors.Is(err, ErrTokenNotFound) {
		t.Fatalf("expected backend error, got %v", err)
	}
}
