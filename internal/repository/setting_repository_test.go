package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func TestSettingRepositoryPutGetDelete(t *testing.T) {
	repo := NewSettingRepository(newDBForTest(t))
	ctx := context.Background()

	if _, err := repo.Get(ctx, "token"); !errors.Is(err, ErrSettingNotFound) {
		t.Fatalf("expected ErrSettingNotFound on empty table, got %v", err)
	}
	if err := repo.Put(ctx, "token", "first"); err != nil {
		t.Fatalf("put first: %v", err)
	}
	if err := repo.Put(ctx, "token", "second"); err != nil {
		t.Fatalf("put second: %v", err)
	}
	got, err := repo.Get(ctx, "token")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != "second" {
		t.Fatalf("expected upsert to replace value, got %q", got)
	}

	if err := repo.Delete(ctx, "token"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := repo.Delete(ctx, "token"); err != nil {
		t.Fatalf("second delete must be idempotent: %v", err)
	}
	if _, err := repo.Get(ctx, "token"); !errors.Is(err, ErrSettingNotFound) {
		t.Fatalf("expected ErrSettingNotFound after delete, got %v", err)
	}
}

func TestSettingRepositorySurvivesReopen(t *testing.T) {
	dsn := "file:" + filepath.Join(t.TempDir(), "nested", "dexnote.db")
	db, err := Open(DriverSQLite, dsn)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := NewSettingRepository(db).Put(context.Background(), "token", "persisted"); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := Close(db); err != nil {
		t.Fatalf("close: %v", err)
	}

	db, err = Open(DriverSQLite, dsn)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	t.Cleanup(func() { _ = Close(db) })
	got, err := NewSettingRepository(db).Get(context.Background(), "token")
	if err != nil {
		t.Fatalf("get after reopen: %v", err)
	}
	if got != "persisted" {
		t.Fatalf("expected persisted value, got %q", got)
	}
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	if _, err := Open("mongodb", "mongodb://localhost"); err == nil {
		t.Fatal("expected unsupported driver error")
	}
}
