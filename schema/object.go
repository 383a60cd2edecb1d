package schema

import (
	"encoding/json"
	"fmt"
	"slices"
)

// Object creates a new object schema builder.
func Object() *ObjectBuilder {
	return &ObjectBuilder{
		node: &schemaNode{
			Type:       typeSet{"object"},
			Properties: make(map[string]*schemaNode),
		},
	}
}

// ObjectBuilder constructs object type schemas.
type ObjectBuilder struct {
	node *schemaNode
}

// Desc sets the description for the object itself.
func (b *ObjectBuilder) Desc(description string) *ObjectBuilder {
	b.node.Description = description
	return b
}

// Field adds a field with its schema.
// The field argument can be a Builder or a *RequiredField.
func (b *ObjectBuilder) Field(name string, field any) *ObjectBuilder {
	switch f := field.(type) {
	case *RequiredField:
		b.node.Properties[name] = f.builder.schema()
		if !slices.Contains(b.node.Required, name) {
			b.node.Required = append(b.node.Required, name)
		}
	case Builder:
		b.node.Properties[name] = f.schema()
	default:
		panic(fmt.Sprintf("schema: Field %q requires a Builder or *RequiredField, got %T", name, field))
	}
	return b
}

// Closed rejects properties that are not declared.
func (b *ObjectBuilder) Closed() *ObjectBuilder {
	b.node.AdditionalProperties = ptr(false)
	return b
}

// Required marks this object as required when nested in another object.
func (b *ObjectBuilder) Required() *RequiredField {
	return &RequiredField{builder: b}
}

// Build serializes the schema to json.RawMessage.
func (b *ObjectBuilder) Build() (json.RawMessage, error) {
	return build(b.node)
}

// MustBuild is like Build but panics on error.
func (b *ObjectBuilder) MustBuild() json.RawMessage {
	return mustBuild(b.node)
}

// Validate checks a JSON document against the schema. An empty document
// is treated as an empty object. Use Compile to validate many documents.
func (b *ObjectBuilder) Validate(data json.RawMessage) error {
	v, err := b.Compile()
	if err != nil {
		return err
	}
	return v.Validate(data)
}

func (b *ObjectBuilder) schema() *schemaNode {
	return b.node
}

// RequiredField wraps a Builder to mark it as required in an object.
type RequiredField struct {
	builder Builder
}
