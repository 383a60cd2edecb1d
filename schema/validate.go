package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/santhosh-tekuri/jsonschema/v6/kind"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// resourceURL names the compiled schema inside its private compiler.
const resourceURL = "schema.json"

var printer = message.NewPrinter(language.English)

// Validator checks JSON documents against a compiled schema. It is safe
// for concurrent use.
type Validator struct {
	schema *jsonschema.Schema
}

// Compile builds the schema and compiles it for validation.
func (b *ObjectBuilder) Compile() (*Validator, error) {
	data, err := b.Build()
	if err != nil {
		return nil, err
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("schema: decode: %w", err)
	}

	c := jsonschema.NewCompiler()
	if err := c.AddResource(resourceURL, doc); err != nil {
		return nil, fmt.Errorf("schema: add resource: %w", err)
	}
	sch, err := c.Compile(resourceURL)
	if err != nil {
		return nil, fmt.Errorf("schema: compile: %w", err)
	}
	return &Validator{schema: sch}, nil
}

// Validate checks data. An empty document is treated as an empty object.
// Failures are *ValidationError values wrapping ErrInvalidValue, with Field
// set to the dotted path of the first offending value.
func (v *Validator) Validate(data json.RawMessage) error {
	if len(data) == 0 {
		data = json.RawMessage("{}")
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return &ValidationError{Message: fmt.Sprintf("malformed document: %v", err), Err: ErrInvalidValue}
	}

	err = v.schema.Validate(inst)
	if err == nil {
		return nil
	}
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return &ValidationError{Message: err.Error(), Err: ErrInvalidValue}
	}
	return convert(ve)
}

// convert reports the first leaf cause, which names the offending value.
func convert(ve *jsonschema.ValidationError) *ValidationError {
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}

	path := append([]string(nil), ve.InstanceLocation...)
	switch k := ve.ErrorKind.(type) {
	case *kind.Required:
		if len(k.Missing) > 0 {
			path = append(path, k.Missing[0])
		}
	case *kind.AdditionalProperties:
		if len(k.Properties) > 0 {
			path = append(path, k.Properties[0])
		}
	}

	return &ValidationError{
		Field:   strings.Join(path, "."),
		Message: ve.ErrorKind.LocalizedString(printer),
		Err:     ErrInvalidValue,
	}
}
