package reago

import "reflect"

// Equal reports whether two values are equal using type-appropriate
// comparison: == for primitive types and reflect.DeepEqual for everything
// else. It is the default change check for signals and watchers.
func Equal[T any](a, b T) bool {
	switch av := any(a).(type) {
	case int:
		return av == any(b).(int)
	case int8:
		return av == any(b).(int8)
	case int16:
		return av == any(b).(int16)
	case int32:
		return av == any(b).(int32)
	case int64:
		return av == any(b).(int64)
	case uint:
		return av == any(b).(uint)
	case uint8:
		return av == any(b).(uint8)
	case uint16:
		return av == any(b).(uint16)
	case uint32:
		return av == any(b).(uint32)
	case uint64:
		return av == any(b).(uint64)
	case float32:
		return av == any(b).(float32)
	case float64:
		return av == any(b).(float64)
	case string:
		return av == any(b).(string)
	case bool:
		return av == any(b).(bool)
	default:
		// Fall back to reflect.DeepEqual for slices, maps, structs, etc.
		return reflect.DeepEqual(a, b)
	}
}

// DeepEqual reports whether two values are structurally equal. Unlike Equal
// it always performs a structural comparison, which matters for pointer and
// interface values where identity is not the question being asked.
//
// Cyclic values are not supported.
func DeepEqual[T any](a, b T) bool {
	return reflect.DeepEqual(a, b)
}

// ShallowEqual reports whether two values are identical in the reference
// sense: comparable values (including pointers, which compare by identity)
// use ==, and non-comparable values such as slices, maps, and functions are
// never equal. It is the default change check for watchers, where a freshly
// built collection counts as a change even when its contents match.
func ShallowEqual[T any](a, b T) bool {
	av, bv := any(a), any(b)
	if av == nil || bv == nil {
		return av == bv
	}
	if reflect.TypeOf(av).Comparable() && reflect.TypeOf(bv).Comparable() {
		return av == bv
	}
	return false
}
