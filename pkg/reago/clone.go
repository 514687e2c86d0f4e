package reago

import (
	"encoding/json"
	"fmt"
)

// Clone returns a deep copy of v produced by a JSON round-trip. The copy
// shares no mutable state with the original, so later mutation of one is
// not visible through the other.
//
// Values must survive encoding/json: unexported fields are dropped, and
// functions, channels, and cyclic structures return ErrUnclonable.
func Clone[T any](v T) (T, error) {
	var out T

	data, err := json.Marshal(v)
	if err != nil {
		return out, fmt.Errorf("%w: %v", ErrUnclonable, err)
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return out, fmt.Errorf("%w: %v", ErrUnclonable, err)
	}

	return out, nil
}
