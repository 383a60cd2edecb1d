package schema

import "encoding/json"

// scalar holds the methods shared by the leaf builders. B is the concrete
// builder returned for chaining and V the Go type of its default value.
type scalar[B any, V any] struct {
	node *schemaNode
	self B
}

// Desc sets the description.
func (s *scalar[B, V]) Desc(description string) B {
	s.node.Description = description
	return s.self
}

// Default sets the default value.
func (s *scalar[B, V]) Default(value V) B {
	s.node.Default = value
	return s.self
}

// Required marks this field as required when used in an object.
func (s *scalar[B, V]) Required() *RequiredField {
	return &RequiredField{builder: s}
}

// Build serializes the schema to json.RawMessage.
func (s *scalar[B, V]) Build() (json.RawMessage, error) {
	return build(s.node)
}

// MustBuild is like Build but panics on error.
func (s *scalar[B, V]) MustBuild() json.RawMessage {
	return mustBuild(s.node)
}

func (s *scalar[B, V]) schema() *schemaNode {
	return s.node
}

// StringBuilder constructs string schemas.
type StringBuilder struct {
	scalar[*StringBuilder, string]
}

// String creates a new string schema builder.
func String() *StringBuilder {
	b := &StringBuilder{}
	b.scalar = scalar[*StringBuilder, string]{node: &schemaNode{Type: typeSet{"string"}}, self: b}
	return b
}

// Enum restricts the value to one of the provided options.
func (b *StringBuilder) Enum(values ...string) *StringBuilder {
	b.node.Enum = make([]any, len(values))
	for i, v := range values {
		b.node.Enum[i] = v
	}
	return b
}

// MinLength sets the minimum string length.
func (b *StringBuilder) MinLength(n int) *StringBuilder {
	b.node.MinLength = ptr(n)
	return b
}

// MaxLength sets the maximum string length.
func (b *StringBuilder) MaxLength(n int) *StringBuilder {
	b.node.MaxLength = ptr(n)
	return b
}

// IntBuilder constructs integer schemas.
type IntBuilder struct {
	scalar[*IntBuilder, int]
}

// Int creates a new integer schema builder.
func Int() *IntBuilder {
	b := &IntBuilder{}
	b.scalar = scalar[*IntBuilder, int]{node: &schemaNode{Type: typeSet{"integer"}}, self: b}
	return b
}

// Min sets the inclusive minimum.
func (b *IntBuilder) Min(n int) *IntBuilder {
	b.node.Minimum = ptr(float64(n))
	return b
}

// Max sets the inclusive maximum.
func (b *IntBuilder) Max(n int) *IntBuilder {
	b.node.Maximum = ptr(float64(n))
	return b
}

// Decimal also accepts the integer written as a decimal string. JSON
// numbers lose precision beyond 2^53 in most decoders; a string does not.
func (b *IntBuilder) Decimal() *IntBuilder {
	if !b.node.Type.has("string") {
		b.node.Type = append(b.node.Type, "string")
	}
	b.node.Pattern = `^-?[0-9]+$`
	return b
}

// BoolBuilder constructs boolean schemas.
type BoolBuilder struct {
	scalar[*BoolBuilder, bool]
}

// Bool creates a new boolean schema builder.
func Bool() *BoolBuilder {
	b := &BoolBuilder{}
	b.scalar = scalar[*BoolBuilder, bool]{node: &schemaNode{Type: typeSet{"boolean"}}, self: b}
	return b
}
