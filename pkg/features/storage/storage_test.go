package storage

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/reago-dev/reago/pkg/reago"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// countingBackend counts writes on top of another backend.
type countingBackend struct {
	Backend
	mu     sync.Mutex
	writes int
}

func (c *countingBackend) SetValue(ctx context.Context, key string, data []byte) error {
	c.mu.Lock()
	c.writes++
	c.mu.Unlock()
	return c.Backend.SetValue(ctx, key, data)
}

func (c *countingBackend) writeCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.writes
}

// failingBackend errors on every operation.
type failingBackend struct {
	err error
}

func (f *failingBackend) GetValue(context.Context, string) ([]byte, error) { return nil, f.err }
func (f *failingBackend) SetValue(context.Context, string, []byte) error { return f.err }

func TestValueDefaultWhenAbsent(t *testing.T) {
	v := New(NewMemoryBackend(), "theme", "light")
	defer v.Stop()

	if v.Get() != "light" {
		t.Errorf("expected default %q, got %q", "light", v.Get())
	}
}

func TestValueLoadsStored(t *testing.T) {
	backend := NewMemoryBackend()
	backend.SetValue(context.Background(), "theme", []byte(`"dark"`))

	v := New(backend, "theme", "light")
	defer v.Stop()

	if v.Get() != "dark" {
		t.Errorf("expected stored value %q, got %q", "dark", v.Get())
	}
}

func TestValueCorruptFallsBack(t *testing.T) {
	backend := NewMemoryBackend()
	backend.SetValue(context.Background(), "theme", []byte(`{not json`))

	v := New(backend, "theme", "light", WithLogger(quietLogger()))
	defer v.Stop()

	if v.Get() != "light" {
		t.Errorf("expected default after decode failure, got %q", v.Get())
	}
}

func TestValueBackendErrorFallsBack(t *testing.T) {
	backend := &failingBackend{err: context.DeadlineExceeded}

	v := New(backend, "count", 42, WithLogger(quietLogger()))
	defer v.Stop()

	if v.Get() != 42 {
		t.Errorf("expected default after read failure, got %d", v.Get())
	}

	// Writes fail too; the error is logged, not surfaced
	v.Set(7)
	v.Flush()
	if v.Get() != 7 {
		t.Errorf("expected in-memory value 7 despite write failure, got %d", v.Get())
	}
}

func TestValueBurstCollapsesToOneWrite(t *testing.T) {
	backend := &countingBackend{Backend: NewMemoryBackend()}
	v := New(backend, "counter", 0,
		WithWriteInterval(reago.Value(50*time.Millisecond)))
	defer v.Stop()

	v.Set(1)
	v.Set(2)
	v.Set(3)

	if v.Get() != 3 {
		t.Errorf("expected in-memory value 3 immediately, got %d", v.Get())
	}
	if backend.writeCount() != 0 {
		t.Errorf("expected no backend writes before the window closed, got %d", backend.writeCount())
	}

	time.Sleep(150 * time.Millisecond)

	if backend.writeCount() != 1 {
		t.Errorf("expected exactly 1 backend write, got %d", backend.writeCount())
	}
	data, err := backend.GetValue(context.Background(), "counter")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != "3" {
		t.Errorf("expected backend to hold newest value 3, got %s", data)
	}
}

func TestValueUpdate(t *testing.T) {
	v := New(NewMemoryBackend(), "counter", 10)
	defer v.Stop()

	v.Update(func(n int) int { return n + 5 })
	if v.Get() != 15 {
		t.Errorf("expected 15, got %d", v.Get())
	}
}

func TestValueSubscribe(t *testing.T) {
	v := New(NewMemoryBackend(), "counter", 0)
	defer v.Stop()

	var mu sync.Mutex
	var seen []int
	unsubscribe := v.Subscribe(func(n int) {
		mu.Lock()
		seen = append(seen, n)
		mu.Unlock()
	})
	defer unsubscribe()

	v.Set(1)
	v.Set(2)

	mu.Lock()
	defer mu.Unlock()
	if len(seen) != 2 || seen[0] != 1 || seen[1] != 2 {
		t.Errorf("expected notifications [1 2], got %v", seen)
	}
}

func TestValueFlush(t *testing.T) {
	backend := NewMemoryBackend()
	v := New(backend, "counter", 0, WithWriteInterval(reago.Value(time.Hour)))
	defer v.Stop()

	v.Set(9)
	v.Flush()

	data, err := backend.GetValue(context.Background(), "counter")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != "9" {
		t.Errorf("expected flushed value 9, got %s", data)
	}
}

func TestValueRemove(t *testing.T) {
	backend := &countingBackend{Backend: NewMemoryBackend()}
	v := New(backend, "theme", "light",
		WithWriteInterval(reago.Value(50*time.Millisecond)))
	defer v.Stop()

	v.Set("dark")
	v.Remove()

	if v.Get() != "light" {
		t.Errorf("expected reset to default, got %q", v.Get())
	}

	// The pending "dark" write was cancelled; only the delete reached
	// the backend
	time.Sleep(150 * time.Millisecond)
	data, err := backend.GetValue(context.Background(), "theme")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if data != nil {
		t.Errorf("expected key absent after Remove, got %s", data)
	}
}

func TestValueStructRoundTrip(t *testing.T) {
	type prefs struct {
		Theme    string `json:"theme"`
		FontSize int    `json:"font_size"`
	}

	backend := NewMemoryBackend()

	v := New(backend, "prefs", prefs{Theme: "light", FontSize: 12})
	v.Set(prefs{Theme: "dark", FontSize: 14})
	v.Flush()
	v.Stop()

	// A second handle sees what the first persisted
	restored := New(backend, "prefs", prefs{Theme: "light", FontSize: 12})
	defer restored.Stop()

	got := restored.Get()
	if got.Theme != "dark" || got.FontSize != 14 {
		t.Errorf("expected persisted prefs {dark 14}, got %+v", got)
	}
}

func TestValueKey(t *testing.T) {
	v := New(NewMemoryBackend(), "some-key", 0)
	defer v.Stop()

	if v.Key() != "some-key" {
		t.Errorf("expected key %q, got %q", "some-key", v.Key())
	}
}
