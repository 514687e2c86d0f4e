package reago

// sourceKind identifies the variant held by a Source.
type sourceKind uint8

const (
	sourceLiteral sourceKind = iota
	sourceAccessor
	sourceRef
)

// Source abstracts over the three ways a value can be handed to the
// utilities in this module: as a literal, as a zero-argument accessor, or
// as a Ref cell. The variant is decided by the constructor, never by
// probing the value at read time, so a func-typed literal stays a literal.
//
// The zero Source is a literal holding T's zero value.
type Source[T any] struct {
	kind     sourceKind
	literal  T
	accessor func() T
	ref      *Ref[T]
}

// Value wraps a literal. Get always returns v.
func Value[T any](v T) Source[T] {
	return Source[T]{kind: sourceLiteral, literal: v}
}

// Accessor wraps a zero-argument function. Get calls fn on every read, so
// the value may differ between reads. fn must be non-nil.
func Accessor[T any](fn func() T) Source[T] {
	return Source[T]{kind: sourceAccessor, accessor: fn}
}

// FromRef wraps a Ref cell. Get reads the cell's current value. r must be
// non-nil.
func FromRef[T any](r *Ref[T]) Source[T] {
	return Source[T]{kind: sourceRef, ref: r}
}

// FromSignal wraps a signal's read path as an accessor source.
func FromSignal[T any](s *Signal[T]) Source[T] {
	return Accessor(s.Get)
}

// FromMemo wraps a memo's read path as an accessor source.
func FromMemo[T any](m *Memo[T]) Source[T] {
	return Accessor(m.Get)
}

// Get resolves the source's current value.
func (s Source[T]) Get() T {
	switch s.kind {
	case sourceAccessor:
		return s.accessor()
	case sourceRef:
		return s.ref.Current()
	default:
		return s.literal
	}
}
