package state

import (
	"maps"
	"reflect"
	"slices"
)

// State is an immutable snapshot of workflow progress. Values are
// heterogeneous; use typed keys (Key[T]) to read them.
//
// A State is never modified after construction. Merge produces a new State,
// so a value handed to a stage can be read freely while the engine moves on.
type State struct {
	data map[string]any
}

// Update is a partial state produced by a stage. Keys present in an Update
// overwrite the same keys in the current state; absent keys are untouched.
type Update map[string]any

// New creates an empty state.
func New() *State {
	return &State{data: map[string]any{}}
}

// NewFrom creates a state holding a copy of data.
func NewFrom(data map[string]any) *State {
	s := &State{data: make(map[string]any, len(data))}
	maps.Copy(s.data, data)
	return s
}

// Get retrieves a raw value.
func (s *State) Get(key string) (any, bool) {
	if s == nil {
		return nil, false
	}
	v, ok := s.data[key]
	return v, ok
}

// GetString retrieves a string value. Returns empty string if not found or not a string.
func (s *State) GetString(key string) string {
	v, _ := s.Get(key)
	str, _ := v.(string)
	return str
}

// GetInt retrieves an int value. Returns 0 if not found or wrong type.
// Handles float64 from JSON unmarshaling.
func (s *State) GetInt(key string) int {
	v, ok := s.Get(key)
	if !ok {
		return 0
	}
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case int32:
		return int(n)
	case float64:
		return int(n)
	}
	return 0
}

// GetBool retrieves a bool value. Returns false if not found or not a bool.
func (s *State) GetBool(key string) bool {
	v, _ := s.Get(key)
	b, _ := v.(bool)
	return b
}

// Has returns true if the key exists.
func (s *State) Has(key string) bool {
	_, ok := s.Get(key)
	return ok
}

// Keys returns all keys in sorted order.
func (s *State) Keys() []string {
	if s == nil {
		return nil
	}
	return slices.Sorted(maps.Keys(s.data))
}

// Len returns the number of keys.
func (s *State) Len() int {
	if s == nil {
		return 0
	}
	return len(s.data)
}

// Snapshot returns a shallow copy of the state as a plain map, suitable for
// JSON encoding or streaming to observers.
func (s *State) Snapshot() map[string]any {
	out := make(map[string]any, s.Len())
	if s != nil {
		maps.Copy(out, s.data)
	}
	return out
}

// Equal reports whether both states hold deeply equal values under the
// same keys.
func (s *State) Equal(other *State) bool {
	return reflect.DeepEqual(s.Snapshot(), other.Snapshot())
}

// Merge returns a new state with every key in upd applied over current.
// The merge is shallow: nested records are replaced as a unit. current is
// not modified. When schema is non-nil the update is validated first and
// rejected as a whole on any violation.
func Merge(current *State, upd Update, schema *Schema) (*State, error) {
	if schema != nil {
		if err := schema.Validate(current, upd); err != nil {
			return nil, err
		}
	}
	next := &State{data: make(map[string]any, current.Len()+len(upd))}
	if current != nil {
		maps.Copy(next.data, current.data)
	}
	maps.Copy(next.data, upd)
	return next, nil
}

// Keys returns the update's keys in sorted order.
func (u Update) Keys() []string {
	return slices.Sorted(maps.Keys(u))
}
