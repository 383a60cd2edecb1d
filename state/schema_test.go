package state

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSchema() *Schema {
	s := NewSchema()
	Field(s, keyCount, NonDecreasing())
	Field(s, keyFlag)
	Field(s, keyRecord)
	Field(s, keyItems)
	return s
}

func TestSchemaValidate(t *testing.T) {
	schema := testSchema()

	t.Run("accepts declared fields", func(t *testing.T) {
		upd := Put(nil, keyCount, 1)
		Put(upd, keyFlag, true)
		Put(upd, keyItems, []string{"a"})

		s, err := Merge(New(), upd, schema)
		require.NoError(t, err)
		assert.Equal(t, 1, Lookup(s, keyCount))
	})

	t.Run("rejects unknown field", func(t *testing.T) {
		_, err := Merge(New(), Update{"approval": true}, schema)

		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "approval", verr.Field)
		assert.ErrorIs(t, err, ErrUnknownField)
	})

	t.Run("rejects wrong type", func(t *testing.T) {
		_, err := Merge(New(), Update{"count": "1"}, schema)
		assert.ErrorIs(t, err, ErrTypeMismatch)
	})

	t.Run("accepts nil for nillable types only", func(t *testing.T) {
		_, err := Merge(New(), Update{"items": nil}, schema)
		assert.NoError(t, err)

		_, err = Merge(New(), Update{"flag": nil}, schema)
		assert.ErrorIs(t, err, ErrTypeMismatch)
	})

	t.Run("interface fields accept implementing values", func(t *testing.T) {
		s := NewSchema()
		Field(s, NewKey[any]("payload"))
		Field(s, NewKey[fmt.Stringer]("label"))

		merged, err := Merge(New(), Update{"payload": 42}, s)
		require.NoError(t, err)
		assert.Equal(t, 42, Lookup(merged, NewKey[any]("payload")))

		_, err = Merge(New(), Update{"payload": "x", "label": time.Second}, s)
		assert.NoError(t, err)

		_, err = Merge(New(), Update{"label": 42}, s)
		assert.ErrorIs(t, err, ErrTypeMismatch)
	})

	t.Run("rejects decreasing counter", func(t *testing.T) {
		s := NewFrom(map[string]any{"count": 3})

		_, err := Merge(s, Put(nil, keyCount, 2), schema)
		assert.ErrorIs(t, err, ErrDecreased)

		_, err = Merge(s, Put(nil, keyCount, 3), schema)
		assert.NoError(t, err)
	})

	t.Run("rejects negative initial counter", func(t *testing.T) {
		_, err := Merge(New(), Put(nil, keyCount, -1), schema)
		assert.ErrorIs(t, err, ErrDecreased)
	})

	t.Run("failed merge leaves state untouched", func(t *testing.T) {
		s := NewFrom(map[string]any{"count": 1})
		upd := Update{"count": 2, "bogus": 1}

		merged, err := Merge(s, upd, schema)
		assert.Error(t, err)
		assert.Nil(t, merged)
		assert.Equal(t, 1, s.GetInt("count"))
	})

	t.Run("fields are listed sorted", func(t *testing.T) {
		assert.Equal(t, []string{"count", "flag", "items", "record"}, schema.Fields())
	})
}
