package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, data json.RawMessage) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))
	return m
}

func TestBuild(t *testing.T) {
	t.Run("object with fields", func(t *testing.T) {
		data := Object().
			Desc("run options").
			Field("name", String().Desc("graph").MinLength(1).Required()).
			Field("enabled", Bool().Default(true)).
			Field("count", Int().Min(1).Max(10).Default(3)).
			Closed().
			MustBuild()

		m := decode(t, data)
		assert.Equal(t, "object", m["type"])
		assert.Equal(t, "run options", m["description"])
		assert.Equal(t, []any{"name"}, m["required"])
		assert.Equal(t, false, m["additionalProperties"])

		props := m["properties"].(map[string]any)
		count := props["count"].(map[string]any)
		assert.Equal(t, "integer", count["type"])
		assert.Equal(t, 1.0, count["minimum"])
		assert.Equal(t, 10.0, count["maximum"])
		assert.Equal(t, 3.0, count["default"])

		enabled := props["enabled"].(map[string]any)
		assert.Equal(t, "boolean", enabled["type"])
		assert.Equal(t, true, enabled["default"])
	})

	t.Run("string enum", func(t *testing.T) {
		m := decode(t, String().Enum("a", "b").Default("a").MustBuild())
		assert.Equal(t, []any{"a", "b"}, m["enum"])
		assert.Equal(t, "a", m["default"])
	})

	t.Run("required is not duplicated", func(t *testing.T) {
		m := decode(t, Object().
			Field("x", String().Required()).
			Field("x", String().Required()).
			MustBuild())
		assert.Equal(t, []any{"x"}, m["required"])
	})

	t.Run("invalid integer range", func(t *testing.T) {
		_, err := Int().Min(10).Max(5).Build()
		assert.ErrorIs(t, err, ErrInvalidRange)
	})

	t.Run("invalid string range in nested field", func(t *testing.T) {
		_, err := Object().Field("s", String().MinLength(5).MaxLength(1)).Build()
		require.ErrorIs(t, err, ErrInvalidRange)

		var ve *ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "s", ve.Field)
	})

	t.Run("must build panics", func(t *testing.T) {
		assert.Panics(t, func() { Int().Min(2).Max(1).MustBuild() })
	})

	t.Run("field rejects non builder", func(t *testing.T) {
		assert.Panics(t, func() { Object().Field("x", 42) })
	})
}

func TestValidate(t *testing.T) {
	obj := Object().
		Field("model", String().Enum("anthropic", "openai")).
		Field("auto", Bool()).
		Field("cycles", Int().Min(1).Required()).
		Field("nested", Object().Field("id", String().MinLength(2).Required())).
		Closed()

	tests := []struct {
		name    string
		doc     string
		wantErr bool
		field   string
	}{
		{"valid", `{"model":"openai","auto":true,"cycles":2}`, false, ""},
		{"valid nested", `{"cycles":1,"nested":{"id":"ab"}}`, false, ""},
		{"missing required", `{"auto":true}`, true, "cycles"},
		{"below minimum", `{"cycles":0}`, true, "cycles"},
		{"not an integer", `{"cycles":1.5}`, true, "cycles"},
		{"wrong type", `{"cycles":1,"auto":"yes"}`, true, "auto"},
		{"not in enum", `{"cycles":1,"model":"gemini"}`, true, "model"},
		{"unknown field", `{"cycles":1,"extra":1}`, true, "extra"},
		{"nested failure", `{"cycles":1,"nested":{"id":"a"}}`, true, "nested.id"},
		{"nested missing", `{"cycles":1,"nested":{}}`, true, "nested.id"},
		{"not an object", `[1,2]`, true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := obj.Validate(json.RawMessage(tt.doc))
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, ErrInvalidValue)
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
		})
	}

	t.Run("malformed json", func(t *testing.T) {
		assert.ErrorIs(t, obj.Validate(json.RawMessage(`{`)), ErrInvalidValue)
	})

	t.Run("empty document is an empty object", func(t *testing.T) {
		assert.NoError(t, Object().Field("x", Int()).Validate(nil))
	})

	t.Run("integer enum", func(t *testing.T) {
		o := Object().Field("n", Int())
		o.node.Properties["n"].Enum = []any{1, 2}
		assert.NoError(t, o.Validate(json.RawMessage(`{"n":2}`)))
		assert.Error(t, o.Validate(json.RawMessage(`{"n":3}`)))
	})
}

func TestDecimal(t *testing.T) {
	t.Run("build emits a type union", func(t *testing.T) {
		m := decode(t, Int().Decimal().Decimal().MustBuild())
		assert.Equal(t, []any{"integer", "string"}, m["type"])
		assert.Equal(t, `^-?[0-9]+$`, m["pattern"])
	})

	obj := Object().Field("seed", Int().Decimal()).Closed()
	tests := []struct {
		name    string
		doc     string
		wantErr bool
	}{
		{"integer", `{"seed":42}`, false},
		{"large integer", `{"seed":1760000000123456789}`, false},
		{"decimal string", `{"seed":"1760000000123456789"}`, false},
		{"negative string", `{"seed":"-7"}`, false},
		{"non digit string", `{"seed":"12a"}`, true},
		{"fraction", `{"seed":1.5}`, true},
		{"boolean", `{"seed":true}`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := obj.Validate(json.RawMessage(tt.doc))
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, "seed", ve.Field)
		})
	}
}

func TestCompile(t *testing.T) {
	v, err := Object().Field("n", Int().Min(1).Required()).Compile()
	require.NoError(t, err)

	assert.NoError(t, v.Validate(json.RawMessage(`{"n":1}`)))
	assert.NoError(t, v.Validate(json.RawMessage(`{"n":5}`)))

	err = v.Validate(json.RawMessage(`{"n":0}`))
	require.ErrorIs(t, err, ErrInvalidValue)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.NotEmpty(t, ve.Message)

	_, err = Object().Field("n", Int().Min(3).Max(1)).Compile()
	assert.ErrorIs(t, err, ErrInvalidRange)
}
