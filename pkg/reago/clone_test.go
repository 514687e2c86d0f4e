package reago

import (
	"errors"
	"testing"
)

func TestCloneMap(t *testing.T) {
	original := map[string]int{"a": 1, "b": 2}

	copied, err := Clone(original)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(copied) != 2 || copied["a"] != 1 || copied["b"] != 2 {
		t.Errorf("expected equal copy, got %v", copied)
	}

	// Mutating the copy must not touch the original
	copied["a"] = 99
	if original["a"] != 1 {
		t.Errorf("clone aliases original: %v", original)
	}
}

func TestCloneNestedStruct(t *testing.T) {
	type inner struct {
		Items []int
	}
	type outer struct {
		Name  string
		Inner inner
	}

	original := outer{Name: "x", Inner: inner{Items: []int{1, 2, 3}}}

	copied, err := Clone(original)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	copied.Inner.Items[0] = 99
	if original.Inner.Items[0] != 1 {
		t.Errorf("clone aliases nested slice: %v", original.Inner.Items)
	}
}

func TestCloneScalar(t *testing.T) {
	copied, err := Clone(42)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if copied != 42 {
		t.Errorf("expected 42, got %d", copied)
	}
}

func TestCloneUnsupported(t *testing.T) {
	_, err := Clone(func() {})
	if err == nil {
		t.Fatal("expected error cloning a function")
	}
	if !errors.Is(err, ErrUnclonable) {
		t.Errorf("expected ErrUnclonable, got %v", err)
	}
}

func TestEqualPrimitives(t *testing.T) {
	if !Equal(1, 1) || Equal(1, 2) {
		t.Error("int equality broken")
	}
	if !Equal("a", "a") || Equal("a", "b") {
		t.Error("string equality broken")
	}
	if !Equal(true, true) || Equal(true, false) {
		t.Error("bool equality broken")
	}
}

func TestEqualStructural(t *testing.T) {
	if !Equal([]int{1, 2}, []int{1, 2}) {
		t.Error("expected equal slices")
	}
	if Equal([]int{1}, []int{2}) {
		t.Error("expected unequal slices")
	}
	if !DeepEqual(map[string]int{"a": 1}, map[string]int{"a": 1}) {
		t.Error("expected equal maps")
	}
}

func TestShallowEqual(t *testing.T) {
	// Primitives compare by value
	if !ShallowEqual(1, 1) || ShallowEqual(1, 2) {
		t.Error("int shallow equality broken")
	}

	// Pointers compare by identity
	a, b := 5, 5
	if ShallowEqual(&a, &b) {
		t.Error("distinct pointers must not be shallow-equal")
	}
	if !ShallowEqual(&a, &a) {
		t.Error("same pointer must be shallow-equal")
	}

	// Non-comparable values are never equal, even to themselves
	s := []int{1, 2}
	if ShallowEqual(s, s) {
		t.Error("slices must not be shallow-equal")
	}

	// Nil interface values are equal
	var p, q *int
	if !ShallowEqual(p, q) {
		t.Error("nil pointers must be shallow-equal")
	}
}
