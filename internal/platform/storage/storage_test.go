package storage_test

import (
	"context"
	"errors"
	"testing"

	"github.com/geoespana/geoquiz/internal/platform/storage"
)

// roundtrip exercises the shared Store contract against any backend.
func roundtrip(t *testing.T, store storage.Store) {
	t.Helper()
	ctx := context.Background()

	if _, err := store.Get(ctx, "missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Get(missing) error = %v, want ErrNotFound", err)
	}

	if err := store.Set(ctx, "progress", []byte(`{"totalQuizzes":1}`)); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	got, err := store.Get(ctx, "progress")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(got) != `{"totalQuizzes":1}` {
		t.Errorf("Get() = %s, want stored value", got)
	}

	if err := store.Set(ctx, "progress", []byte(`{"totalQuizzes":2}`)); err != nil {
		t.Fatalf("Set() overwrite error = %v", err)
	}
	got, _ = store.Get(ctx, "progress")
	if string(got) != `{"totalQuizzes":2}` {
		t.Errorf("Get() after overwrite = %s", got)
	}

	if err := store.Delete(ctx, "progress"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := store.Get(ctx, "progress"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Get() after delete error = %v, want ErrNotFound", err)
	}

	// Deleting an absent key is not an error.
	if err := store.Delete(ctx, "progress"); err != nil {
		t.Errorf("Delete() of absent key error = %v", err)
	}
}

func TestMemoryStore(t *testing.T) {
	roundtrip(t, storage.NewMemoryStore())
}

func TestFileStore(t *testing.T) {
	store, err := storage.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	roundtrip(t, store)
}

func TestFileStore_EmptyDir(t *testing.T) {
	if _, err := storage.NewFileStore(""); err == nil {
		t.Error("NewFileStore(\"\") should return an error")
	}
}

func TestFileStore_KeySanitization(t *testing.T) {
	store, err := storage.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	ctx := context.Background()

	// The progress key carries a leading @ in the persisted layout.
	key := "@spain_geography_progress"
	if err := store.Set(ctx, key, []byte(`{}`)); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	got, err := store.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(got) != `{}` {
		t.Errorf("Get() = %s, want {}", got)
	}
}
