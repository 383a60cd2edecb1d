package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
)

// Builder is implemented by all schema builders.
type Builder interface {
	// Build serializes the schema to json.RawMessage.
	// Returns an error if the schema definition is inconsistent.
	Build() (json.RawMessage, error)

	// MustBuild is like Build but panics on error.
	MustBuild() json.RawMessage

	// schema returns the internal representation for composition.
	schema() *schemaNode
}

// typeSet is a JSON Schema "type": a single name or a union.
type typeSet []string

func (t typeSet) MarshalJSON() ([]byte, error) {
	if len(t) == 1 {
		return json.Marshal(t[0])
	}
	return json.Marshal([]string(t))
}

func (t typeSet) has(name string) bool {
	return slices.Contains(t, name)
}

// schemaNode is the internal representation of a JSON Schema.
type schemaNode struct {
	Type        typeSet `json:"type,omitempty"`
	Description string `json:"description,omitempty"`
	Enum        []any  `json:"enum,omitempty"`
	Default     any    `json:"default,omitempty"`

	// String constraints
	MinLength *int   `json:"minLength,omitempty"`
	MaxLength *int   `json:"maxLength,omitempty"`
	Pattern   string `json:"pattern,omitempty"`

	// Integer constraints
	Minimum *float64 `json:"minimum,omitempty"`
	Maximum *float64 `json:"maximum,omitempty"`

	// Object constraints
	Properties           map[string]*schemaNode `json:"properties,omitempty"`
	Required             []string               `json:"required,omitempty"`
	AdditionalProperties *bool                  `json:"additionalProperties,omitempty"`
}

var (
	// ErrInvalidRange is returned when a lower bound exceeds its upper bound.
	ErrInvalidRange = errors.New("schema: minimum exceeds maximum")

	// ErrInvalidValue is returned when a document does not conform.
	ErrInvalidValue = errors.New("schema: invalid value")
)

// ValidationError reports a schema definition problem or a document that
// does not conform. Field is a dotted path for nested objects.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("schema: field %q: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("schema: %s", e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// validate checks the schema definition for internal consistency.
func (s *schemaNode) validate() error {
	switch {
	case s.Type.has("string"):
		if s.MinLength != nil && s.MaxLength != nil && *s.MinLength > *s.MaxLength {
			return &ValidationError{Message: "minLength exceeds maxLength", Err: ErrInvalidRange}
		}
	case s.Type.has("integer"):
		if s.Minimum != nil && s.Maximum != nil && *s.Minimum > *s.Maximum {
			return &ValidationError{Message: "minimum exceeds maximum", Err: ErrInvalidRange}
		}
	case s.Type.has("object"):
		for name, prop := range s.Properties {
			if err := prop.validate(); err != nil {
				return &ValidationError{Field: name, Message: err.Error(), Err: err}
			}
		}
	}
	return nil
}

func build(n *schemaNode) (json.RawMessage, error) {
	if err := n.validate(); err != nil {
		return nil, err
	}
	return json.Marshal(n)
}

func mustBuild(n *schemaNode) json.RawMessage {
	data, err := build(n)
	if err != nil {
		panic(err)
	}
	return data
}

// ptr returns a pointer to the value.
func ptr[T any](v T) *T {
	return &v
}
