package state

import "fmt"

// Key represents a typed state key that associates a name with type T.
// Keys provide compile-time type safety for state access.
//
// Define keys as package-level variables for reuse:
//
//	var (
//	    KeyAnalysis   = state.NewKey[Analysis]("analysis")
//	    KeyCycleCount = state.NewKey[int]("cycle_count")
//	)
type Key[T any] struct {
	name string
}

// NewKey creates a typed key with the given name.
func NewKey[T any](name string) Key[T] {
	return Key[T]{name: name}
}

// Name returns the string name of the key.
func (k Key[T]) Name() string {
	return k.name
}

// String implements fmt.Stringer for debugging.
func (k Key[T]) String() string {
	return k.name
}

// Get retrieves a value using a typed key.
// Returns the zero value and false if the key is missing or the type mismatches.
func Get[T any](s *State, key Key[T]) (T, bool) {
	var zero T
	v, ok := s.Get(key.name)
	if !ok {
		return zero, false
	}
	typed, ok := v.(T)
	if !ok {
		return zero, false
	}
	return typed, true
}

// Lookup retrieves a value using a typed key, returning the zero value
// when the key is absent. Absent counters read as 0 and absent flags as false.
func Lookup[T any](s *State, key Key[T]) T {
	v, _ := Get(s, key)
	return v
}

// MustGet retrieves a value using a typed key.
// Panics if the key is missing or the value cannot be asserted to type T.
func MustGet[T any](s *State, key Key[T]) T {
	v, ok := s.Get(key.name)
	if !ok {
		panic(fmt.Sprintf("state: key %q not found", key.name))
	}
	typed, ok := v.(T)
	if !ok {
		panic(fmt.Sprintf("state: key %q has type %T, not %T", key.name, v, *new(T)))
	}
	return typed
}

// Has returns true if the typed key exists in state.
func Has[T any](s *State, key Key[T]) bool {
	return s.Has(key.name)
}

// Put stores a value in an update using a typed key and returns the update
// for chaining. A nil update is allocated.
//
//	upd := state.Put(nil, KeyCycleCount, n+1)
//	state.Put(upd, KeyFeedback, fb)
func Put[T any](u Update, key Key[T], value T) Update {
	if u == nil {
		u = Update{}
	}
	u[key.name] = value
	return u
}
