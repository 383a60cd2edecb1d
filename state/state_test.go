package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMerge(t *testing.T) {
	t.Run("empty update returns equal state", func(t *testing.T) {
		s := NewFrom(map[string]any{
			"cycle_count": 2,
			"items":       []string{"a", "b"},
			"nested":      map[string]any{"x": 1},
		})

		merged, err := Merge(s, Update{}, nil)
		require.NoError(t, err)
		assert.True(t, merged.Equal(s))

		merged, err = Merge(s, nil, nil)
		require.NoError(t, err)
		assert.True(t, merged.Equal(s))
	})

	t.Run("overwrites key and leaves others unchanged", func(t *testing.T) {
		s := NewFrom(map[string]any{"a": 1, "b": "two", "c": true})

		merged, err := Merge(s, Update{"b": "three"}, nil)
		require.NoError(t, err)

		assert.Equal(t, "three", merged.GetString("b"))
		assert.Equal(t, 1, merged.GetInt("a"))
		assert.True(t, merged.GetBool("c"))
		assert.Equal(t, 3, merged.Len())
	})

	t.Run("adds new keys", func(t *testing.T) {
		merged, err := Merge(New(), Update{"x": 1}, nil)
		require.NoError(t, err)
		assert.True(t, merged.Has("x"))
	})

	t.Run("does not modify current", func(t *testing.T) {
		s := NewFrom(map[string]any{"a": 1})

		_, err := Merge(s, Update{"a": 2, "b": 3}, nil)
		require.NoError(t, err)

		assert.Equal(t, 1, s.GetInt("a"))
		assert.False(t, s.Has("b"))
	})

	t.Run("nested records are replaced, not merged", func(t *testing.T) {
		s := NewFrom(map[string]any{"nested": map[string]any{"x": 1, "y": 2}})

		merged, err := Merge(s, Update{"nested": map[string]any{"x": 5}}, nil)
		require.NoError(t, err)

		v, _ := merged.Get("nested")
		assert.Equal(t, map[string]any{"x": 5}, v)
	})

	t.Run("nil current behaves as empty", func(t *testing.T) {
		merged, err := Merge(nil, Update{"a": 1}, nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"a"}, merged.Keys())
	})
}

func TestStateAccessors(t *testing.T) {
	s := NewFrom(map[string]any{
		"str":   "hello",
		"int":   42,
		"float": 7.0,
		"bool":  true,
	})

	assert.Equal(t, "hello", s.GetString("str"))
	assert.Equal(t, "", s.GetString("int"))
	assert.Equal(t, 42, s.GetInt("int"))
	assert.Equal(t, 7, s.GetInt("float"), "JSON numbers decode as float64")
	assert.Equal(t, 0, s.GetInt("missing"))
	assert.True(t, s.GetBool("bool"))
	assert.False(t, s.GetBool("missing"))
	assert.Equal(t, []string{"bool", "float", "int", "str"}, s.Keys())
}

func TestSnapshotIsCopy(t *testing.T) {
	s := NewFrom(map[string]any{"a": 1})

	snap := s.Snapshot()
	snap["a"] = 99
	snap["b"] = 2

	assert.Equal(t, 1, s.GetInt("a"))
	assert.False(t, s.Has("b"))
}

func TestNilState(t *testing.T) {
	var s *State

	assert.Equal(t, 0, s.Len())
	assert.Nil(t, s.Keys())
	assert.Empty(t, s.Snapshot())
	assert.False(t, s.Has("a"))
}
