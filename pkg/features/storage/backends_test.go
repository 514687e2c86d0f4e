package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestMemoryBackendRoundTrip(t *testing.T) {
	backend := NewMemoryBackend()
	ctx := context.Background()

	data, err := backend.GetValue(ctx, "missing")
	if err != nil || data != nil {
		t.Errorf("expected (nil, nil) for absent key, got (%v, %v)", data, err)
	}

	if err := backend.SetValue(ctx, "k", []byte(`"v"`)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, err = backend.GetValue(ctx, "k")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != `"v"` {
		t.Errorf("expected stored bytes, got %s", data)
	}

	if err := backend.SetValue(ctx, "k", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, _ = backend.GetValue(ctx, "k")
	if data != nil {
		t.Errorf("expected key removed, got %s", data)
	}
	if backend.Len() != 0 {
		t.Errorf("expected empty backend, got %d keys", backend.Len())
	}
}

func TestMemoryBackendCopiesData(t *testing.T) {
	backend := NewMemoryBackend()
	ctx := context.Background()

	original := []byte(`"v"`)
	backend.SetValue(ctx, "k", original)
	original[1] = 'x'

	data, _ := backend.GetValue(ctx, "k")
	if string(data) != `"v"` {
		t.Errorf("expected stored bytes isolated from caller mutation, got %s", data)
	}
}

func TestFileBackendRoundTrip(t *testing.T) {
	backend, err := NewFileBackend(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ctx := context.Background()

	data, err := backend.GetValue(ctx, "missing")
	if err != nil || data != nil {
		t.Errorf("expected (nil, nil) for absent key, got (%v, %v)", data, err)
	}

	if err := backend.SetValue(ctx, "theme", []byte(`"dark"`)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, err = backend.GetValue(ctx, "theme")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != `"dark"` {
		t.Errorf("expected stored bytes, got %s", data)
	}

	if err := backend.SetValue(ctx, "theme", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, _ = backend.GetValue(ctx, "theme")
	if data != nil {
		t.Errorf("expected key removed, got %s", data)
	}

	// Removing an absent key is not an error
	if err := backend.SetValue(ctx, "theme", nil); err != nil {
		t.Errorf("unexpected error removing absent key: %v", err)
	}
}

func TestFileBackendEscapesKeys(t *testing.T) {
	dir := t.TempDir()
	backend, err := NewFileBackend(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ctx := context.Background()

	if err := backend.SetValue(ctx, "users/42/prefs", []byte(`{}`)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := backend.GetValue(ctx, "users/42/prefs")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != `{}` {
		t.Errorf("expected round trip for key with separators, got %s", data)
	}

	// The file stays inside the directory
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 file in storage dir, got %d", len(entries))
	}
	if filepath.Dir(filepath.Join(dir, entries[0].Name())) != dir {
		t.Errorf("expected file directly under %s", dir)
	}
}

func TestFileBackendCreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "storage")
	if _, err := NewFileBackend(dir); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("expected directory created, got %v", err)
	}
}
