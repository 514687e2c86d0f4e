package reago

import "fmt"

// Context provides dependency injection through the owner hierarchy.
// Create a context with CreateContext, provide values with Provide on an
// owner, and consume values with Use or MustUse from any descendant scope.
//
// Example:
//
//	var ThemeContext = reago.CreateContext("theme", "light")
//
//	root := reago.NewOwner(nil)
//	ThemeContext.Provide(root, "dark")
//
//	child := reago.NewOwner(root)
//	theme := ThemeContext.Use(child) // "dark"
type Context[T any] struct {
	// name identifies the context in diagnostics.
	name string

	// key uniquely identifies this context in the owner value map.
	key any

	// defaultValue is returned by Use when no provider is found.
	defaultValue T
}

// contextKey wraps Context to create a unique key type.
type contextKey[T any] struct {
	ctx *Context[T]
}

// CreateContext creates a new context with the given name and default
// value. The name appears in the panic raised by MustUse when no provider
// is in scope; the default is returned by Use in the same situation.
//
// Example:
//
//	var ThemeContext = reago.CreateContext("theme", "light")
//	var UserContext = reago.CreateContext[*User]("user", nil)
func CreateContext[T any](name string, defaultValue T) *Context[T] {
	ctx := &Context[T]{
		name:         name,
		defaultValue: defaultValue,
	}
	// Use the context pointer itself as the key to ensure uniqueness
	ctx.key = contextKey[T]{ctx: ctx}
	return ctx
}

// Provide stores the value on the owner, making it visible to the owner's
// whole subtree.
func (c *Context[T]) Provide(owner *Owner, value T) {
	if owner == nil {
		return
	}
	owner.SetValue(c.key, value)
}

// Use retrieves the context value from the nearest provider at or above
// owner. If no provider is found (or owner is nil), the default value is
// returned.
func (c *Context[T]) Use(owner *Owner) T {
	if owner != nil {
		if value := owner.GetValue(c.key); value != nil {
			if typed, ok := value.(T); ok {
				return typed
			}
		}
	}

	return c.defaultValue
}

// MustUse retrieves the context value from the nearest provider at or above
// owner, panicking if none is found. The panic value is an error wrapping
// ErrNoProvider and naming the context, since a missing required context is
// a wiring bug rather than a runtime condition to handle.
func (c *Context[T]) MustUse(owner *Owner) T {
	if owner != nil {
		if value := owner.GetValue(c.key); value != nil {
			if typed, ok := value.(T); ok {
				return typed
			}
		}
	}

	panic(fmt.Errorf("%w: %q", ErrNoProvider, c.name))
}

// Default returns the default value for this context.
func (c *Context[T]) Default() T {
	return c.defaultValue
}

// Name returns the diagnostic name for this context.
func (c *Context[T]) Name() string {
	return c.name
}

// SetValue sets a context value on this Owner.
func (o *Owner) SetValue(key, value any) {
	o.valuesMu.Lock()
	defer o.valuesMu.Unlock()

	if o.values == nil {
		o.values = make(map[any]any)
	}
	o.values[key] = value
}

// GetValue retrieves a context value from this Owner or its parents.
// Returns nil if no value is found.
func (o *Owner) GetValue(key any) any {
	// Check self
	o.valuesMu.RLock()
	if o.values != nil {
		if val, ok := o.values[key]; ok {
			o.valuesMu.RUnlock()
			return val
		}
	}
	o.valuesMu.RUnlock()

	// Check parent
	if o.parent != nil {
		return o.parent.GetValue(key)
	}

	return nil
}
