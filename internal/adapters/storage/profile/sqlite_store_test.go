package profile_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	_ "modernc.org/sqlite"

	"swingadmin/internal/adapters/storage"
	"swingadmin/internal/adapters/storage/profile"
	"swingadmin/internal/domain/record"
)

func newStore(t *testing.T) *profile.SQLiteStore {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := storage.MigrateDB(db); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return profile.NewSQLiteStore(db)
}

func seedProfile(t *testing.T, store *profile.SQLiteStore, id, email, name string) {
	t.Helper()
	rec := record.New()
	rec.Set("id", id)
	rec.Set("email", email)
	rec.Set("full_name", name)
	rec.Set("marketing_consent", false)
	if err := store.Insert(context.Background(), rec); err != nil {
		t.Fatalf("failed to seed profile: %v", err)
	}
}

// TestSQLiteStore_GetByID tests dynamic record retrieval.
func TestSQLiteStore_GetByID(t *testing.T) {
	store := newStore(t)
	seedProfile(t, store, "p1", "ana@example.com", "Ana")

	rec, err := store.GetByID(context.Background(), "p1")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}

	if email, _ := rec.Get("email"); email != "ana@example.com" {
		t.Errorf("email = %v, want ana@example.com", email)
	}
	// BOOLEAN-declared column surfaces as a Go bool.
	if consent, _ := rec.Get("marketing_consent"); consent != false {
		t.Errorf("marketing_consent = %#v, want false", consent)
	}
	// handicap was never set; NULL surfaces as nil.
	if handicap, _ := rec.Get("handicap"); handicap != nil {
		t.Errorf("handicap = %#v, want nil", handicap)
	}
	// Column order follows the table definition, id first.
	if keys := rec.Keys(); keys[0] != "id" {
		t.Errorf("first key = %q, want id", keys[0])
	}
}

// TestSQLiteStore_GetByID_NotFound tests the missing-row error.
func TestSQLiteStore_GetByID_NotFound(t *testing.T) {
	store := newStore(t)
	_, err := store.GetByID(context.Background(), "missing")
	if !errors.Is(err, profile.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

// TestSQLiteStore_UpdatePartial tests sanitized partial updates.
func TestSQLiteStore_UpdatePartial(t *testing.T) {
	store := newStore(t)
	seedProfile(t, store, "p1", "ana@example.com", "Ana")

	updates := map[string]any{
		"full_name":         "Ana B",
		"handicap":          12.5,
		"marketing_consent": true,
		"not_a_column":      "dropped",
	}
	rec, err := store.UpdatePartial(context.Background(), "p1", record.SanitizeUpdate(updates))
	if err != nil {
		t.Fatalf("UpdatePartial failed: %v", err)
	}

	if name, _ := rec.Get("full_name"); name != "Ana B" {
		t.Errorf("full_name = %v, want Ana B", name)
	}
	if handicap, _ := rec.Get("handicap"); handicap != 12.5 {
		t.Errorf("handicap = %#v, want 12.5", handicap)
	}
	if consent, _ := rec.Get("marketing_consent"); consent != true {
		t.Errorf("marketing_consent = %#v, want true", consent)
	}
	if _, ok := rec.Get("not_a_column"); ok {
		t.Error("unknown column leaked into the record")
	}
}

// TestSQLiteStore_UpdatePartial_SystemFieldsIgnored tests that id and
// timestamps cannot be overwritten through the update path.
func TestSQLiteStore_UpdatePartial_SystemFieldsIgnored(t *testing.T) {
	store := newStore(t)
	seedProfile(t, store, "p1", "ana@example.com", "Ana")

	before, err := store.GetByID(context.Background(), "p1")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	createdAt, _ := before.Get("created_at")

	// Even unsanitized input must not reach system columns.
	rec, err := store.UpdatePartial(context.Background(), "p1", map[string]any{
		"id":         "p2",
		"created_at": "1970-01-01T00:00:00Z",
		"full_name":  "Ana B",
	})
	if err != nil {
		t.Fatalf("UpdatePartial failed: %v", err)
	}
	if rec.ID() != "p1" {
		t.Errorf("id = %q, want p1", rec.ID())
	}
	if got, _ := rec.Get("created_at"); got != createdAt {
		t.Errorf("created_at changed: %v -> %v", createdAt, got)
	}
}

// TestSQLiteStore_UpdatePartial_NullsField tests writing a null value.
func TestSQLiteStore_UpdatePartial_NullsField(t *testing.T) {
	store := newStore(t)
	seedProfile(t, store, "p1", "ana@example.com", "Ana")

	rec, err := store.UpdatePartial(context.Background(), "p1", map[string]any{"full_name": nil})
	if err != nil {
		t.Fatalf("UpdatePartial failed: %v", err)
	}
	if name, _ := rec.Get("full_name"); name != nil {
		t.Errorf("full_name = %#v, want nil", name)
	}
}

// TestSQLiteStore_UpdatePartial_NotFound tests updating a missing row.
func TestSQLiteStore_UpdatePartial_NotFound(t *testing.T) {
	store := newStore(t)
	_, err := store.UpdatePartial(context.Background(), "missing", map[string]any{"full_name": "X"})
	if !errors.Is(err, profile.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

// TestSQLiteStore_UpdatePartial_EmptyPayload tests that a payload with no
// applicable columns returns the current row unchanged.
func TestSQLiteStore_UpdatePartial_EmptyPayload(t *testing.T) {
	store := newStore(t)
	seedProfile(t, store, "p1", "ana@example.com", "Ana")

	rec, err := store.UpdatePartial(context.Background(), "p1", map[string]any{"ghost": 1})
	if err != nil {
		t.Fatalf("UpdatePartial failed: %v", err)
	}
	if name, _ := rec.Get("full_name"); name != "Ana" {
		t.Errorf("full_name = %v, want Ana", name)
	}
}

// TestSQLiteStore_List tests search and limit.
func TestSQLiteStore_List(t *testing.T) {
	store := newStore(t)
	seedProfile(t, store, "p1", "ana@example.com", "Ana")
	seedProfile(t, store, "p2", "ben@example.com", "Ben")

	all, err := store.List(context.Background(), "", 10)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("got %d profiles, want 2", len(all))
	}

	anas, err := store.List(context.Background(), "ana", 10)
	if err != nil {
		t.Fatalf("List with search failed: %v", err)
	}
	if len(anas) != 1 || anas[0].ID() != "p1" {
		t.Errorf("search result = %v, want just p1", anas)
	}
}

// TestSQLiteStore_Delete tests row removal.
func TestSQLiteStore_Delete(t *testing.T) {
	store := newStore(t)
	seedProfile(t, store, "p1", "ana@example.com", "Ana")

	if err := store.Delete(context.Background(), "p1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := store.GetByID(context.Background(), "p1"); !errors.Is(err, profile.ErrNotFound) {
		t.Errorf("err after delete = %v, want ErrNotFound", err)
	}
}
