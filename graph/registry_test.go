package graph

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spetersoncode/cyclegraph/event"
	"github.com/spetersoncode/cyclegraph/state"
)

func mustGraph(t *testing.T, name string) *Graph {
	t.Helper()
	g, err := NewBuilder(name).AddStage("a", noop).SetEntry("a").Compile()
	require.NoError(t, err)
	return g
}

func TestRegistry(t *testing.T) {
	r := NewRegistry(mustGraph(t, "beta"), mustGraph(t, "alpha"))
	assert.Equal(t, 2, r.Len())
	assert.Equal(t, []string{"alpha", "beta"}, r.Names())

	t.Run("get", func(t *testing.T) {
		g, ok := r.Get("alpha")
		require.True(t, ok)
		assert.Equal(t, "alpha", g.Name())

		_, ok = r.Get("missing")
		assert.False(t, ok)
	})

	t.Run("register replaces", func(t *testing.T) {
		replacement := mustGraph(t, "alpha")
		r.Register(replacement)
		g, _ := r.Get("alpha")
		assert.Same(t, replacement, g)
		assert.Equal(t, 2, r.Len())
	})

	t.Run("run", func(t *testing.T) {
		res, err := r.Run(context.Background(), "beta", testConfig())
		require.NoError(t, err)
		assert.Equal(t, "beta", res.GraphName)

		_, err = r.Run(context.Background(), "missing", testConfig())
		assert.ErrorIs(t, err, ErrGraphNotFound)
	})

	t.Run("stream unknown graph", func(t *testing.T) {
		var events []event.Event
		for e := range r.RunStream(context.Background(), "missing", testConfig()) {
			events = append(events, e)
		}
		require.Len(t, events, 1)
		assert.Equal(t, event.RunError, events[0].Type)
		assert.ErrorIs(t, events[0].Error, ErrGraphNotFound)
	})
}

func TestRunConfig(t *testing.T) {
	t.Run("default is valid", func(t *testing.T) {
		cfg := DefaultRunConfig()
		assert.NoError(t, cfg.Validate())
		assert.Equal(t, ModelAnthropic, cfg.ModelName)
		assert.Equal(t, 1, cfg.MaxCycles)
	})

	t.Run("invalid values", func(t *testing.T) {
		tests := []struct {
			name string
			cfg  RunConfig
		}{
			{"zero cycles", RunConfig{MaxCycles: 0}},
			{"unknown model", RunConfig{MaxCycles: 1, ModelName: "gemini"}},
			{"negative latency", RunConfig{MaxCycles: 1, Latency: -1}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				assert.ErrorIs(t, tt.cfg.Validate(), ErrInvalidRunConfig)
			})
		}
	})

	t.Run("parse model name", func(t *testing.T) {
		m, err := ParseModelName("openai")
		require.NoError(t, err)
		assert.Equal(t, ModelOpenAI, m)

		_, err = ParseModelName("")
		assert.ErrorIs(t, err, ErrInvalidRunConfig)
	})

	t.Run("seeded keeps explicit seed", func(t *testing.T) {
		cfg := RunConfig{MaxCycles: 1, Seed: 7}.seeded()
		assert.Equal(t, int64(7), cfg.Seed)
		require.NotNil(t, cfg.Rand)
	})

	t.Run("seeded picks a seed when zero", func(t *testing.T) {
		cfg := RunConfig{MaxCycles: 1}.seeded()
		assert.NotZero(t, cfg.Seed)
		assert.Positive(t, cfg.Seed)
		assert.LessOrEqual(t, cfg.Seed, int64(1<<53-1))
		assert.Equal(t, cfg.Seed, int64(float64(cfg.Seed)))
		assert.NotNil(t, cfg.Rand)
	})
}

func TestRouterLabels(t *testing.T) {
	r := RouteOnState(nil)
	assert.False(t, r.valid())

	r = RouteOnStateAndConfig(nil)
	assert.False(t, r.valid())

	r = RouteOnState(func(s *state.State) string { return "" }, "a", "b")
	assert.Equal(t, []string{"a", "b"}, r.Labels())
}
