package query

import (
	"fmt"
	"strings"
)

// delimiter joins key parts in canonical form.
const delimiter = " → "

// Key identifies a query: an ordered sequence of primitive parts.
//
// Keys canonicalize to a string by joining their parts with " → ". Two
// keys with the same canonical string are the same cache entry, so a raw
// string part containing the delimiter collides with the multi-part key
// it spells out.
type Key []any

// K builds a key from its parts.
//
//	query.K("posts")        // "posts"
//	query.K("posts", 42)    // "posts → 42"
func K(parts ...any) Key {
	return Key(parts)
}

// Canonical returns the canonical string form.
func (k Key) Canonical() string {
	if len(k) == 1 {
		return formatPart(k[0])
	}
	parts := make([]string, len(k))
	for i, p := range k {
		parts[i] = formatPart(p)
	}
	return strings.Join(parts, delimiter)
}

func (k Key) String() string {
	return k.Canonical()
}

func formatPart(p any) string {
	if p == nil {
		return "null"
	}
	if s, ok := p.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", p)
}

// invalidates reports whether an invalidation target hits canonical.
// Matching is by string prefix: invalidating "posts" also hits
// "posts → 1".
func invalidates(target, canonical string) bool {
	return strings.HasPrefix(canonical, target)
}
