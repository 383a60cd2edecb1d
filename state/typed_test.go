package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testRecord struct {
	Name  string
	Score int
}

var (
	keyCount  = NewKey[int]("count")
	keyFlag   = NewKey[bool]("flag")
	keyRecord = NewKey[testRecord]("record")
	keyItems  = NewKey[[]string]("items")
)

func TestTypedKeys(t *testing.T) {
	t.Run("put and get", func(t *testing.T) {
		upd := Put(nil, keyCount, 3)
		Put(upd, keyRecord, testRecord{Name: "r", Score: 9})

		s, err := Merge(New(), upd, nil)
		require.NoError(t, err)

		count, ok := Get(s, keyCount)
		assert.True(t, ok)
		assert.Equal(t, 3, count)

		rec := MustGet(s, keyRecord)
		assert.Equal(t, "r", rec.Name)
	})

	t.Run("type mismatch reads as missing", func(t *testing.T) {
		s := NewFrom(map[string]any{"count": "three"})

		_, ok := Get(s, keyCount)
		assert.False(t, ok)
		assert.Equal(t, 0, Lookup(s, keyCount))
	})

	t.Run("absent values read as zero", func(t *testing.T) {
		s := New()

		assert.Equal(t, 0, Lookup(s, keyCount))
		assert.False(t, Lookup(s, keyFlag))
		assert.Nil(t, Lookup(s, keyItems))
		assert.False(t, Has(s, keyFlag))
	})

	t.Run("MustGet panics on missing key", func(t *testing.T) {
		assert.Panics(t, func() { MustGet(New(), keyCount) })
	})

	t.Run("MustGet panics on wrong type", func(t *testing.T) {
		s := NewFrom(map[string]any{"count": "x"})
		assert.Panics(t, func() { MustGet(s, keyCount) })
	})

	t.Run("key name", func(t *testing.T) {
		assert.Equal(t, "count", keyCount.Name())
		assert.Equal(t, "count", keyCount.String())
	})
}
