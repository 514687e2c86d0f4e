// Package features provides higher-level reactive utilities built on the
// reago core primitives.
//
// This package contains the productive APIs that applications interact with
// daily, built on top of the signals, memos, and ownership scopes provided
// by the reago package.
//
// # Subsystems
//
// The features package is organized into several subsystems:
//
//   - watch: Change watchers with equality gating and ignorable windows
//   - limiter: Debounced and throttled function wrappers
//   - storage: Persistent values backed by pluggable stores
//   - history: Undo/redo tracking for signals
//   - query: Async query and mutation caching with prefix invalidation
//   - state: Global and reference-counted shared scopes
//
// # Usage
//
// Each subsystem is in its own sub-package and can be imported independently:
//
//	import "github.com/reago-dev/reago/pkg/features/watch"
//	import "github.com/reago-dev/reago/pkg/features/query"
//	import "github.com/reago-dev/reago/pkg/features/storage"
//
// See the individual package documentation for detailed usage examples.
package features
