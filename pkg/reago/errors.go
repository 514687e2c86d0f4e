package reago

import "errors"

// ErrNoProvider is the panic value raised by Context.MustUse when no
// provider is found in the owner hierarchy. The panic wraps this sentinel
// together with the context's name, so recover-and-inspect code can use
// errors.Is.
var ErrNoProvider = errors.New("reago: context has no provider in scope")

// ErrUnclonable is returned by Clone when a value cannot survive the JSON
// round-trip used for deep copying (functions, channels, cycles, or values
// that fail to marshal).
var ErrUnclonable = errors.New("reago: value cannot be deep-cloned")
