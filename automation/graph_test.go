package automation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spetersoncode/cyclegraph/event"
	"github.com/spetersoncode/cyclegraph/graph"
	"github.com/spetersoncode/cyclegraph/state"
)

func testGraph(t *testing.T, opts ...Option) *graph.Graph {
	t.Helper()
	opts = append([]Option{WithClock(func() time.Time { return fixedTime })}, opts...)
	g, err := New(opts...)
	require.NoError(t, err)
	return g
}

func TestNew(t *testing.T) {
	g := testGraph(t)
	assert.Equal(t, GraphName, g.Name())
	assert.Equal(t, StageIngestion, g.Entry())
	assert.Equal(t, []string{
		StageIngestion, StageAnalysis, StageRecommendation, StagePresentation,
		StageReview, StageDeploy, StageFeedback,
	}, g.Stages())
	assert.NotNil(t, g.Schema())
}

func TestRunAutoApproveSingleCycle(t *testing.T) {
	g := testGraph(t)
	cfg := graph.RunConfig{ModelName: graph.ModelAnthropic, AutoApprove: true, MaxCycles: 1, Seed: 42}

	res, err := g.Run(context.Background(), cfg)
	require.NoError(t, err)

	assert.Equal(t, graph.TerminationComplete, res.Termination)
	assert.Equal(t, []string{
		StageIngestion, StageAnalysis, StageRecommendation, StagePresentation,
		StageReview, StageDeploy, StageFeedback,
	}, res.Path())
	assert.Equal(t, 1, res.Visits(StageReview))
	assert.Equal(t, 1, res.Visits(StageFeedback))
	assert.Equal(t, LabelApproved, res.History[4].Label)
	assert.Equal(t, LabelEnd, res.History[6].Label)

	s := res.State
	assert.Equal(t, 1, state.Lookup(s, KeyCycleCount))
	assert.True(t, state.Lookup(s, KeyApprovalStatus))
	assert.Equal(t, 0, state.Lookup(s, KeyReviewCycles))
	assert.True(t, state.Lookup(s, KeyUIDisplayed))
	assert.True(t, state.Has(s, KeyDeployedWorkflows))
	assert.True(t, state.Has(s, KeyUserFeedback))
	assert.Equal(t, fixedTime, state.Lookup(s, KeyDeployedAt))
}

func TestRunMultipleCycles(t *testing.T) {
	g := testGraph(t)
	cfg := graph.RunConfig{AutoApprove: true, MaxCycles: 3, Seed: 7}

	res, err := g.Run(context.Background(), cfg)
	require.NoError(t, err)

	assert.Equal(t, 3, res.Visits(StageIngestion))
	assert.Equal(t, 3, res.Visits(StageFeedback))
	assert.Equal(t, 3, state.Lookup(res.State, KeyCycleCount))

	raw := state.MustGet(res.State, KeyRawData)
	require.NotNil(t, raw.Feedback, "later cycles see the previous feedback")
}

func TestRunRepeatedRejection(t *testing.T) {
	g := testGraph(t, WithApprovalProbability(0))
	cfg := graph.RunConfig{MaxCycles: 5, Seed: 1}

	res, err := g.Run(context.Background(), cfg)
	require.NoError(t, err)

	assert.Equal(t, graph.TerminationComplete, res.Termination)
	assert.Equal(t, MaxReviewCycles, res.Visits(StageReview))
	assert.Equal(t, MaxReviewCycles, res.Visits(StageAnalysis))
	assert.Zero(t, res.Visits(StageDeploy))
	assert.Equal(t, StageReview, res.LastStage)
	assert.Equal(t, LabelMaxRejected, res.History[len(res.History)-1].Label)
	assert.Equal(t, MaxReviewCycles, state.Lookup(res.State, KeyReviewCycles))
	assert.False(t, state.Has(res.State, KeyCycleCount))
}

func TestRunSeedIsReproducible(t *testing.T) {
	g := testGraph(t)
	cfg := graph.RunConfig{MaxCycles: 3, Seed: 1234}

	a, err := g.Run(context.Background(), cfg)
	require.NoError(t, err)
	b, err := g.Run(context.Background(), cfg)
	require.NoError(t, err)

	assert.Equal(t, a.Path(), b.Path())
	assert.True(t, a.State.Equal(b.State))
	assert.Equal(t, int64(1234), a.Seed)
}

func TestRunSourceOutage(t *testing.T) {
	g := testGraph(t, WithSourceFailureRate(1), WithSourceRetry(2, 0))

	res, err := g.Run(context.Background(), graph.RunConfig{AutoApprove: true, MaxCycles: 1, Seed: 1})

	var se *graph.StageError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, StageIngestion, se.StageName)
	assert.ErrorIs(t, err, ErrSourceUnavailable)
	assert.Equal(t, graph.TerminationError, res.Termination)
}

func TestRunStreamSnapshots(t *testing.T) {
	g := testGraph(t)
	cfg := graph.RunConfig{AutoApprove: true, MaxCycles: 1, Seed: 42}

	var snapshots []map[string]any
	var last event.Event
	for e := range g.RunStream(context.Background(), cfg) {
		if e.Type == event.StateSnapshot {
			snapshots = append(snapshots, e.State)
		}
		last = e
	}

	require.Len(t, snapshots, 7)
	assert.Contains(t, snapshots[0], "raw_data")
	assert.NotContains(t, snapshots[0], "analysis")
	assert.Equal(t, 1, snapshots[6]["cycle_count"])
	assert.Equal(t, event.RunEnd, last.Type)
}

func TestSchemaRejectsDecreasingCounters(t *testing.T) {
	s := state.NewFrom(map[string]any{"cycle_count": 2, "review_cycles": 1})

	_, err := state.Merge(s, state.Update{"cycle_count": 1}, Schema())
	assert.ErrorIs(t, err, state.ErrDecreased)

	_, err = state.Merge(s, state.Update{"review_cycles": 0}, Schema())
	assert.ErrorIs(t, err, state.ErrDecreased)

	_, err = state.Merge(s, state.Update{"ui_displayed": "yes"}, Schema())
	assert.ErrorIs(t, err, state.ErrTypeMismatch)

	_, err = state.Merge(s, state.Update{"approval": true}, Schema())
	assert.ErrorIs(t, err, state.ErrUnknownField)
}
