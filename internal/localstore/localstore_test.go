// ABOUTME: Tests for the SQLite-backed local storage
// ABOUTME: Uses in-memory and temp-dir databases

package localstore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func newMemoryStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenDSN(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSetGetRemove(t *testing.T) {
	ctx := context.Background()
	s := newMemoryStore(t)

	if err := s.SetItem(ctx, "userInfo", `{"id":1}`); err != nil {
		t.Fatalf("SetItem failed: %v", err)
	}

	got, err := s.GetItem(ctx, "userInfo")
	if err != nil {
		t.Fatalf("GetItem failed: %v", err)
	}
	if got != `{"id":1}` {
		t.Errorf("expected stored value, got %q", got)
	}

	if err := s.RemoveItem(ctx, "userInfo"); err != nil {
		t.Fatalf("RemoveItem failed: %v", err)
	}
	if _, err := s.GetItem(ctx, "userInfo"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after remove, got %v", err)
	}
}

func TestSetItem_Overwrites(t *testing.T) {
	ctx := context.Background()
	s := newMemoryStore(t)

	s.SetItem(ctx, "k", "one")
	s.SetItem(ctx, "k", "two")

	got, err := s.GetItem(ctx, "k")
	if err != nil {
		t.Fatalf("GetItem failed: %v", err)
	}
	if got != "two" {
		t.Errorf("expected overwrite, got %q", got)
	}

	var rows int
	if err := s.db.GetContext(ctx, &rows, "SELECT COUNT(*) FROM local_storage"); err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if rows != 1 {
		t.Errorf("expected 1 row, got %d", rows)
	}
}

func TestRemoveItem_MissingKey(t *testing.T) {
	s := newMemoryStore(t)
	if err := s.RemoveItem(context.Background(), "missing"); err != nil {
		t.Errorf("expected no error removing missing key, got %v", err)
	}
}

func TestJSONRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newMemoryStore(t)

	type snapshot struct {
		Username string   `json:"username"`
		Roles    []string `json:"roles"`
	}

	in := snapshot{Username: "sparta", Roles: []string{"ROLE_USER"}}
	if err := s.SetJSON(ctx, "userInfo", in); err != nil {
		t.Fatalf("SetJSON failed: %v", err)
	}

	var out snapshot
	if err := s.GetJSON(ctx, "userInfo", &out); err != nil {
		t.Fatalf("GetJSON failed: %v", err)
	}
	if out.Username != "sparta" || len(out.Roles) != 1 {
		t.Errorf("unexpected snapshot: %+v", out)
	}
}

func TestGetJSON_CorruptValue(t *testing.T) {
	ctx := context.Background()
	s := newMemoryStore(t)

	s.SetItem(ctx, "userInfo", "{not json")

	var out map[string]any
	err := s.GetJSON(ctx, "userInfo", &out)
	if err == nil || errors.Is(err, ErrNotFound) {
		t.Errorf("expected decode error, got %v", err)
	}
}

func TestOpen_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "data")

	s, err := Open(ctx, dir)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	s.SetItem(ctx, "k", "v")
	s.Close()

	if _, err := os.Stat(filepath.Join(dir, FileName)); err != nil {
		t.Fatalf("expected database file: %v", err)
	}

	s2, err := Open(ctx, dir)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer s2.Close()

	got, err := s2.GetItem(ctx, "k")
	if err != nil || got != "v" {
		t.Errorf("expected persisted value v, got %q (err %v)", got, err)
	}
}

func TestOpen_EmptyDir(t *testing.T) {
	if _, err := Open(context.Background(), ""); err == nil {
		t.Error("expected error for empty data dir")
	}
}
