// Package state provides process-wide scoping for stateful factories.
//
// A factory builds some piece of reactive state (signals, watchers,
// storage values) inside an ownership scope. The wrappers here control
// how many times the factory runs and when its scope is torn down:
//
//   - Global runs the factory once per process and never tears it down
//   - Shared reference-counts: the first Acquire runs the factory, the
//     last release disposes its scope, and a later Acquire starts fresh
//
// Usage:
//
//	var Settings = state.NewGlobal(func(owner *reago.Owner) *reago.Signal[Config] {
//	    return reago.NewSignal(loadConfig())
//	})
//
//	var Feed = state.NewShared(func(owner *reago.Owner) *FeedState {
//	    f := newFeedState()
//	    owner.OnCleanup(f.close)
//	    return f
//	})
//
//	func handle() {
//	    feed, release := Feed.Acquire()
//	    defer release()
//	    ...
//	}
package state
