package reago

// Listener is anything that can be notified when a reactive source changes.
// This interface is implemented by memos, watchers, and the adapters created
// by Subscribe.
type Listener interface {
	// MarkDirty notifies the listener that one of its sources has changed.
	// For memos, this invalidates the cached value.
	// For watchers, this triggers a re-read and comparison.
	MarkDirty()

	// ID returns a unique identifier for this listener.
	// Used for deduplication during batch processing.
	ID() uint64
}

// Cleanup is a function that releases resources held by a reactive helper.
// It is safe to call more than once.
type Cleanup func()

// funcListener adapts a plain function to the Listener interface.
// It backs the public Subscribe methods on Signal and Memo.
type funcListener struct {
	id     uint64
	notify func()
}

func newFuncListener(notify func()) *funcListener {
	return &funcListener{id: nextID(), notify: notify}
}

func (l *funcListener) MarkDirty() { l.notify() }

func (l *funcListener) ID() uint64 { return l.id }
