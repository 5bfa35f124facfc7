package db

import (
	"context"
	"path/filepath"
	"testing"
)

func TestGetMissingKey(t *testing.T) {
	store, cleanup := newTestStore(t)
	defer cleanup()

	value, ok, err := store.Get(context.Background(), "tasks")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if ok {
		t.Fatalf("expected missing key, got %q", value)
	}
}

func TestSetOverwritesValue(t *testing.T) {
	store, cleanup := newTestStore(t)
	defer cleanup()

	ctx := context.Background()
	if err := store.Set(ctx, "tasks", `[{"id":"a"}]`); err != nil {
		t.Fatalf("first set: %v", err)
	}
	if err := store.Set(ctx, "tasks", `[]`); err != nil {
		t.Fatalf("second set: %v", err)
	}

	value, ok, err := store.Get(ctx, "tasks")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !ok {
		t.Fatalf("expected key to exist")
	}
	if value != `[]` {
		t.Fatalf("expected overwritten value '[]', got %q", value)
	}

	var rows int
	if err := store.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM kv").Scan(&rows); err != nil {
		t.Fatalf("count rows: %v", err)
	}
	if rows != 1 {
		t.Fatalf("expected 1 row, got %d", rows)
	}
}

func TestKeysAreIndependent(t *testing.T) {
	store, cleanup := newTestStore(t)
	defer cleanup()

	ctx := context.Background()
	if err := store.Set(ctx, "tasks", "one"); err != nil {
		t.Fatalf("set tasks: %v", err)
	}
	if err := store.Set(ctx, "other", "two"); err != nil {
		t.Fatalf("set other: %v", err)
	}

	value, _, err := store.Get(ctx, "tasks")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if value != "one" {
		t.Fatalf("expected 'one', got %q", value)
	}
}

func TestOpenRequiresPath(t *testing.T) {
	if _, err := Open(""); err == nil {
		t.Fatalf("expected error for empty path")
	}
}

func TestReopenKeepsValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kv.db")

	first, err := Open(path)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := NewStore(first).Set(context.Background(), "tasks", "[]"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	second, err := Open(path)
	if err != nil {
		t.Fatalf("reopen db: %v", err)
	}
	defer second.Close()

	value, ok, err := NewStore(second).Get(context.Background(), "tasks")
	if err != nil || !ok || value != "[]" {
		t.Fatalf("expected stored value after reopen, got %q ok=%v err=%v", value, ok, err)
	}
}

func newTestStore(t *testing.T) (*Store, func()) {
	t.Helper()
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	return NewStore(db), func() {
		_ = db.Close()
	}
}
