// Package schema provides a fluent API for building JSON Schema objects
// that describe run inputs to external callers, and for checking incoming
// JSON documents against them.
//
// Schemas are built programmatically and validated when built:
//
//	params := schema.Object().
//		Field("model_name", schema.String().Enum("anthropic", "openai")).
//		Field("auto_approve", schema.Bool().Default(false)).
//		Field("max_cycles", schema.Int().Min(1).Default(1)).
//		Closed().
//		MustBuild()
//
// The same builder compiles into a Validator that checks documents before
// they are decoded:
//
//	v, err := obj.Compile()
//	...
//	if err := v.Validate(body); err != nil {
//		return err // schema: field "max_cycles": minimum: got 0, want 1
//	}
//
// Builders cover the subset needed for flat configuration objects:
// objects, strings, integers and booleans. Validation is done by
// github.com/santhosh-tekuri/jsonschema against the built document.
package schema
