package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/formworks/formgate/internal/core/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(filepath.Join(t.TempDir(), "formgate.db"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestPutAndGet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	rec := &domain.StoredRecord{
		ID:        "rec-1",
		Payload:   `{"name":"Al","email":"al@example.com"}`,
		CreatedAt: 1700000000,
	}
	if err := store.Put(ctx, "form_submissions", rec); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	got, err := store.Get(ctx, "form_submissions", "rec-1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Payload != rec.Payload {
		t.Errorf("payload = %q, want %q", got.Payload, rec.Payload)
	}
	if got.CreatedAt != rec.CreatedAt {
		t.Errorf("created_at = %d, want %d", got.CreatedAt, rec.CreatedAt)
	}
}

func TestPutDuplicateIDRejected(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	rec := &domain.StoredRecord{ID: "dup", Payload: "{}", CreatedAt: 1}
	if err := store.Put(ctx, "form_submissions", rec); err != nil {
		t.Fatalf("first Put() error = %v", err)
	}
	if err := store.Put(ctx, "form_submissions", rec); err == nil {
		t.Fatal("expected error for duplicate id, records are write-once")
	}
}

func TestInvalidTableName(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	rec := &domain.StoredRecord{ID: "r", Payload: "{}", CreatedAt: 1}
	if err := store.Put(ctx, "bad; DROP TABLE x", rec); err == nil {
		t.Fatal("expected table name to be rejected")
	}
}

func TestSeparateTables(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.Put(ctx, "table_a", &domain.StoredRecord{ID: "r", Payload: "a", CreatedAt: 1}); err != nil {
		t.Fatal(err)
	}
	if err := store.Put(ctx, "table_b", &domain.StoredRecord{ID: "r", Payload: "b", CreatedAt: 2}); err != nil {
		t.Fatal(err)
	}

	got, err := store.Get(ctx, "table_b", "r")
	if err != nil {
		t.Fatal(err)
	}
	if got.Payload != "b" {
		t.Errorf("payload = %q, want b", got.Payload)
	}
}
