package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *SQLite {
	t.Helper()
	s, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "atelier.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSetGetRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.Set(ctx, KeyCart, "[1,4]"); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, err := s.Get(ctx, KeyCart)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != "[1,4]" {
		t.Fatalf("expected [1,4], got %q", got)
	}
}

func TestSetOverwrites(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.Set(ctx, KeyTheme, "light"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := s.Set(ctx, KeyTheme, "dark"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, err := s.Get(ctx, KeyTheme)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != "dark" {
		t.Fatalf("expected dark, got %q", got)
	}
}

func TestGetMissingKey(t *testing.T) {
	s := openTestStore(t)
	if _, err := s.Get(context.Background(), "absent"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteIsIdempotent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.Set(ctx, KeyCart, "[0]"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := s.Delete(ctx, KeyCart); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.Get(ctx, KeyCart); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := s.Delete(ctx, KeyCart); err != nil {
		t.Fatalf("second delete: %v", err)
	}
}

func TestPersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "atelier.db")
	ctx := context.Background()

	s1, err := OpenSQLite(ctx, path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s1.Set(ctx, KeyCart, "[1]"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := s1.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	s2, err := OpenSQLite(ctx, path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s2.Close()
	got, err := s2.Get(ctx, KeyCart)
	if err != nil {
		t.Fatalf("get after reopen: %v", err)
	}
	if got != "[1]" {
		t.Fatalf("expected [1] after reopen, got %q", got)
	}
}
