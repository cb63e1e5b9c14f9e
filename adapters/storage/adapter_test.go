package storage

import (
	"context"
	"path/filepath"
	"testing"
)

func backends(t *testing.T) map[string]Store {
	t.Helper()
	dir := t.TempDir()

	file, err := NewFileStore(filepath.Join(dir, "files"))
	if err != nil {
		t.Fatalf("file store: %v", err)
	}
	bolt, err := NewBoltStore(filepath.Join(dir, "bolt", "sessions.db"))
	if err != nil {
		t.Fatalf("bolt store: %v", err)
	}
	t.Cleanup(func() { bolt.Close() })

	return map[string]Store{
		"memory": NewMemoryStore(),
		"file":   file,
		"bolt":   bolt,
	}
}

func TestStoreGetPut(t *testing.T) {
	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			got, err := store.Get(ctx, "cloudbasket/sessions")
			if err != nil || got != nil {
				t.Fatalf("expected nil for unwritten key, got %q / %v", got, err)
			}

			if err := store.Put(ctx, "cloudbasket/sessions", []byte(`[1]`)); err != nil {
				t.Fatalf("put failed: %v", err)
			}
			if err := store.Put(ctx, "cloudbasket/sessions", []byte(`[1,2]`)); err != nil {
				t.Fatalf("put failed: %v", err)
			}

			got, err = store.Get(ctx, "cloudbasket/sessions")
			if err != nil {
				t.Fatalf("get failed: %v", err)
			}
			if string(got) != `[1,2]` {
				t.Errorf("expected replaced value, got %q", got)
			}

			other, _ := store.Get(ctx, "cloudbasket/other")
			if other != nil {
				t.Errorf("keys are not isolated: %q", other)
			}
		})
	}
}

func TestStorePutCancelledLeavesValue(t *testing.T) {
	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			if err := store.Put(context.Background(), "k", []byte("old")); err != nil {
				t.Fatal(err)
			}

			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			if err := store.Put(ctx, "k", []byte("new")); err == nil {
				t.Error("expected error from cancelled put")
			}

			got, _ := store.Get(context.Background(), "k")
			if string(got) != "old" {
				t.Errorf("cancelled put changed the value to %q", got)
			}
		})
	}
}

func TestBoltStoreReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sessions.db")

	store, err := NewBoltStore(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Put(context.Background(), "k", []byte("v")); err != nil {
		t.Fatal(err)
	}
	store.Close()

	reopened, err := NewBoltStore(path)
	if err != nil {
		t.Fatal(err)
	}
	defer reopened.Close()

	got, err := reopened.Get(context.Background(), "k")
	if err != nil || string(got) != "v" {
		t.Errorf("expected persisted value, got %q / %v", got, err)
	}
}

func TestStoreFactory(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		backend Backend
		config  map[string]string
		wantErr bool
	}{
		{BackendMemory, nil, false},
		{BackendFile, map[string]string{"path": filepath.Join(dir, "f")}, false},
		{BackendBolt, map[string]string{"path": filepath.Join(dir, "b.db")}, false},
		{Backend("s3"), nil, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.backend), func(t *testing.T) {
			store, err := StoreFactory(tt.backend, tt.config)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			store.Close()
		})
	}
}
