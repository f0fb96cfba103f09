package store

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"workboard-service/models"
)

type testItem struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// failingStore rejects every write, to exercise the StoreWrite path.
type failingStore struct {
	*MemoryStore
}

func (s *failingStore) Set(_ context.Context, key, _ string) error {
	return fmt.Errorf("disk full writing %s", key)
}

func TestLoadCollection_MissingKeyIsEmpty(t *testing.T) {
	s := NewMemoryStore()

	items, rev, err := LoadCollection[testItem](context.Background(), s, "things")
	if err != nil {
		t.Fatalf("load should tolerate a missing key: %v", err)
	}
	if len(items) != 0 || rev != 0 {
		t.Errorf("expected empty collection at revision 0, got %d items at revision %d", len(items), rev)
	}
}

func TestLoadCollection_CorruptPayloadIsEmpty(t *testing.T) {
	s := NewMemoryStore()
	s.Set(context.Background(), "things", "{not json at all")

	items, _, err := LoadCollection[testItem](context.Background(), s, "things")
	if err != nil {
		t.Fatalf("load should swallow corruption: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("expected empty collection, got %d items", len(items))
	}
}

func TestLoadCollection_UnknownSchemaVersionIsEmpty(t *testing.T) {
	s := NewMemoryStore()
	s.Set(context.Background(), "things", `{"schemaVersion":99,"revision":5,"items":[{"id":"x","name":"future"}]}`)

	items, rev, err := LoadCollection[testItem](context.Background(), s, "things")
	if err != nil {
		t.Fatalf("load should tolerate an unknown version: %v", err)
	}
	// A future schema may not share the current item shape, so its payload
	// must not be parsed as if it did.
	if len(items) != 0 || rev != 0 {
		t.Errorf("expected empty collection at revision 0, got %d items at revision %d", len(items), rev)
	}
}

func TestLoadCollection_LegacyBareArray(t *testing.T) {
	s := NewMemoryStore()
	s.Set(context.Background(), "things", `[{"id":"1","name":"one"}]`)

	items, rev, err := LoadCollection[testItem](context.Background(), s, "things")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(items) != 1 || items[0].Name != "one" {
		t.Errorf("expected the legacy array to parse, got %+v", items)
	}
	if rev != 0 {
		t.Errorf("legacy payloads start at revision 0, got %d", rev)
	}
}

func TestSaveCollection_RoundTripBumpsRevision(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	if err := SaveCollection(ctx, s, "things", []testItem{{ID: "1", Name: "one"}}, 0); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	items, rev, err := LoadCollection[testItem](ctx, s, "things")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(items) != 1 || items[0].ID != "1" {
		t.Errorf("round trip lost data: %+v", items)
	}
	if rev != 1 {
		t.Errorf("expected revision 1 after first save, got %d", rev)
	}

	if err := SaveCollection(ctx, s, "things", append(items, testItem{ID: "2", Name: "two"}), rev); err != nil {
		t.Fatalf("second save failed: %v", err)
	}
	_, rev, _ = LoadCollection[testItem](ctx, s, "things")
	if rev != 2 {
		t.Errorf("expected revision 2 after second save, got %d", rev)
	}
}

func TestSaveCollection_StaleRevisionConflicts(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	// Two logical callers load at revision 0; the first save wins.
	itemsA, revA, _ := LoadCollection[testItem](ctx, s, "things")
	itemsB, revB, _ := LoadCollection[testItem](ctx, s, "things")

	if err := SaveCollection(ctx, s, "things", append(itemsA, testItem{ID: "a"}), revA); err != nil {
		t.Fatalf("first save failed: %v", err)
	}
	err := SaveCollection(ctx, s, "things", append(itemsB, testItem{ID: "b"}), revB)
	if !errors.Is(err, models.ErrConflict) {
		t.Errorf("expected ErrConflict for the lost-update save, got: %v", err)
	}

	// The first writer's data must be intact.
	items, _, _ := LoadCollection[testItem](ctx, s, "things")
	if len(items) != 1 || items[0].ID != "a" {
		t.Errorf("conflicting save must not be applied, got %+v", items)
	}
}

func TestSaveCollection_WriteFailure(t *testing.T) {
	s := &failingStore{MemoryStore: NewMemoryStore()}

	err := SaveCollection(context.Background(), s, "things", []testItem{{ID: "1"}}, 0)
	if !errors.Is(err, models.ErrStoreWrite) {
		t.Errorf("expected ErrStoreWrite, got: %v", err)
	}
}

func TestObjectRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	if err := SaveObject(ctx, s, "currentUser", testItem{ID: "1", Name: "alice"}); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	var loaded testItem
	if err := LoadObject(ctx, s, "currentUser", &loaded); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Name != "alice" {
		t.Errorf("round trip lost data: %+v", loaded)
	}

	if err := DeleteObject(ctx, s, "currentUser"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if err := LoadObject(ctx, s, "currentUser", &loaded); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got: %v", err)
	}
	// Deleting again stays a no-op.
	if err := DeleteObject(ctx, s, "currentUser"); err != nil {
		t.Errorf("deleting an absent key should succeed: %v", err)
	}
}

func TestFileStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("file store init failed: %v", err)
	}

	if _, err := s.Get(ctx, "tasks"); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("expected ErrNotFound for a missing key, got: %v", err)
	}
	if err := s.Set(ctx, "tasks", `{"schemaVersion":1}`); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	value, err := s.Get(ctx, "tasks")
	if err != nil || value != `{"schemaVersion":1}` {
		t.Errorf("get returned (%q, %v)", value, err)
	}
	if err := s.Delete(ctx, "tasks"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := s.Get(ctx, "tasks"); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got: %v", err)
	}
}
