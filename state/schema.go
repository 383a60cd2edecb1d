package state

import (
	"errors"
	"fmt"
	"maps"
	"reflect"
	"slices"
)

var (
	// ErrUnknownField indicates an update wrote a field the schema does not declare.
	ErrUnknownField = errors.New("state: unknown field")

	// ErrTypeMismatch indicates an update wrote a value of the wrong type.
	ErrTypeMismatch = errors.New("state: type mismatch")

	// ErrDecreased indicates a non-decreasing field was written a smaller value.
	ErrDecreased = errors.New("state: value decreased")
)

// ValidationError represents a rejected field in an update.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("state: field %q: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Validator checks a single field write. prev is the current value and
// hadPrev reports whether the field was present before the update.
type Validator[T any] func(prev T, hadPrev bool, next T) error

// Schema declares the fields a state may hold and the Go type of each.
// A Schema is built once and must not be modified after it is handed to a
// graph; concurrent runs read it without synchronization.
type Schema struct {
	fields map[string]field
}

type field struct {
	typ   reflect.Type
	check func(prev any, hadPrev bool, next any) error
}

// NewSchema creates an empty schema.
func NewSchema() *Schema {
	return &Schema{fields: map[string]field{}}
}

// Field declares key in the schema with optional validators and returns the
// schema for chaining. Declaring the same key twice replaces the earlier
// declaration.
func Field[T any](s *Schema, key Key[T], validators ...Validator[T]) *Schema {
	f := field{typ: reflect.TypeFor[T]()}
	if len(validators) > 0 {
		f.check = func(prev any, hadPrev bool, next any) error {
			p, _ := prev.(T)
			n := next.(T)
			for _, v := range validators {
				if err := v(p, hadPrev, n); err != nil {
					return err
				}
			}
			return nil
		}
	}
	s.fields[key.Name()] = f
	return s
}

// NonDecreasing rejects writes that lower an integer field.
func NonDecreasing() Validator[int] {
	return func(prev int, hadPrev bool, next int) error {
		if hadPrev && next < prev {
			return fmt.Errorf("%w: %d -> %d", ErrDecreased, prev, next)
		}
		if !hadPrev && next < 0 {
			return fmt.Errorf("%w: 0 -> %d", ErrDecreased, next)
		}
		return nil
	}
}

// Fields returns the declared field names in sorted order.
func (s *Schema) Fields() []string {
	return slices.Sorted(maps.Keys(s.fields))
}

// Validate checks every field of upd against the schema. Fields are
// checked in sorted order so the reported error is stable.
func (s *Schema) Validate(current *State, upd Update) error {
	for _, name := range upd.Keys() {
		next := upd[name]
		f, ok := s.fields[name]
		if !ok {
			return &ValidationError{Field: name, Message: "not declared", Err: ErrUnknownField}
		}
		if !assignable(next, f.typ) {
			return &ValidationError{
				Field:   name,
				Message: fmt.Sprintf("got %T, want %s", next, f.typ),
				Err:     ErrTypeMismatch,
			}
		}
		if f.check == nil || next == nil {
			continue
		}
		prev, hadPrev := current.Get(name)
		if err := f.check(prev, hadPrev, next); err != nil {
			return &ValidationError{Field: name, Message: err.Error(), Err: err}
		}
	}
	return nil
}

func assignable(v any, typ reflect.Type) bool {
	if v == nil {
		switch typ.Kind() {
		case reflect.Pointer, reflect.Slice, reflect.Map, reflect.Interface:
			return true
		default:
			return false
		}
	}
	if typ.Kind() == reflect.Interface {
		return reflect.TypeOf(v).Implements(typ)
	}
	return reflect.TypeOf(v) == typ
}
