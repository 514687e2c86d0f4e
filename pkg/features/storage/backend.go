// Package storage provides reactive values persisted through a pluggable
// backend.
//
// A storage value behaves like a regular signal, with persistence layered
// on top:
//   - The initial value is loaded from the backend at construction
//   - Writes update subscribers immediately and reach the backend through
//     a trailing throttle, so rapid updates collapse into one write per
//     window carrying the newest value
//   - Backend failures are logged and never surface to callers
//
// Example:
//
//	backend := storage.NewMemoryBackend()
//	theme := storage.New(backend, "theme", "light")
//
//	theme.Set("dark")     // subscribers notified now, write lands later
//	current := theme.Get() // "dark"
//
// Backends ship for process memory, the filesystem, bbolt databases, and
// S3-compatible object stores. Anything implementing Backend plugs in.
package storage

import "context"

// Backend persists raw values by key. Values cross the boundary as JSON.
//
// Implementations must be safe for concurrent use.
type Backend interface {
	// GetValue returns the stored bytes for key, or (nil, nil) when the
	// key is absent.
	GetValue(ctx context.Context, key string) ([]byte, error)

	// SetValue stores data under key. A nil data removes the key.
	SetValue(ctx context.Context, key string, data []byte) error
}
