package automation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spetersoncode/cyclegraph/graph"
	"github.com/spetersoncode/cyclegraph/internal/ctxlog"
	"github.com/spetersoncode/cyclegraph/state"
)

// ErrMissingInput is returned when a stage runs before the stage that
// produces its input.
var ErrMissingInput = errors.New("automation: missing input")

// Detected patterns.
const (
	PatternDailyReport     = "Daily report generation"
	PatternHighOrderVolume = "High order volume processing"
)

// HighOrderThreshold is the order count above which order processing is
// flagged for automation.
const HighOrderThreshold = 15

type patternRule struct {
	pattern string
	match   func(RawData) bool
	rec     Recommendation
}

var rules = []patternRule{
	{
		pattern: PatternDailyReport,
		match:   func(d RawData) bool { return d.Desktop.ActiveApp == AppReportGeneration },
		rec:     Recommendation{Name: "Auto-report Generator", Impact: "Saves 2h daily", Complexity: "Low"},
	},
	{
		pattern: PatternHighOrderVolume,
		match:   func(d RawData) bool { return d.CRM.Orders > HighOrderThreshold },
		rec:     Recommendation{Name: "Order Processing Bot", Impact: "Reduces errors by 40%", Complexity: "Medium"},
	},
}

// Stages holds the reference stage implementations. The zero value is not
// usable; create one with NewStages.
type Stages struct {
	opts *Options
}

// NewStages creates the reference stages.
func NewStages(opts ...Option) *Stages {
	return &Stages{opts: ApplyOptions(opts...)}
}

// Ingest collects a fresh reading from every mock source and carries the
// previous cycle's feedback along.
func (st *Stages) Ingest(ctx context.Context, s *state.State, cfg graph.RunConfig) (state.Update, error) {
	if err := simulate(ctx, cfg.Latency); err != nil {
		return nil, err
	}

	rng := cfg.Random()
	crm, err := fetch(ctx, st.opts, rng, "crm", mockCRM)
	if err != nil {
		return nil, err
	}
	desktop, err := fetch(ctx, st.opts, rng, "desktop", mockDesktop)
	if err != nil {
		return nil, err
	}
	support, err := fetch(ctx, st.opts, rng, "customer_service", mockCustomerService)
	if err != nil {
		return nil, err
	}

	raw := RawData{
		Timestamp:       st.opts.Clock(),
		CRM:             crm,
		Desktop:         desktop,
		CustomerService: support,
	}
	if fb, ok := state.Get(s, KeyUserFeedback); ok {
		raw.Feedback = &fb
	}

	ctxlog.FromContext(ctx).Debug("data ingested", "orders", crm.Orders, "active_app", desktop.ActiveApp)
	return state.Put(nil, KeyRawData, raw), nil
}

// Analyze detects automation candidates in the latest raw data.
func (st *Stages) Analyze(ctx context.Context, s *state.State, cfg graph.RunConfig) (state.Update, error) {
	raw, ok := state.Get(s, KeyRawData)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingInput, KeyRawData)
	}
	if err := simulate(ctx, cfg.Latency); err != nil {
		return nil, err
	}

	patterns := make([]string, 0, len(rules))
	for _, r := range rules {
		if r.match(raw) {
			patterns = append(patterns, r.pattern)
		}
	}

	ctxlog.FromContext(ctx).Debug("analysis complete", "patterns", len(patterns))
	return state.Put(nil, KeyAnalysis, Analysis{Patterns: patterns, Timestamp: raw.Timestamp}), nil
}

// Recommend maps each detected pattern to a recommendation.
func (st *Stages) Recommend(ctx context.Context, s *state.State, cfg graph.RunConfig) (state.Update, error) {
	analysis, ok := state.Get(s, KeyAnalysis)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingInput, KeyAnalysis)
	}
	if err := simulate(ctx, cfg.Latency); err != nil {
		return nil, err
	}

	recs := make([]Recommendation, 0, len(analysis.Patterns))
	for _, p := range analysis.Patterns {
		for _, r := range rules {
			if r.pattern == p {
				recs = append(recs, r.rec)
			}
		}
	}
	return state.Put(nil, KeyRecommendations, recs), nil
}

// Present marks the recommendations as shown to the user.
func (st *Stages) Present(ctx context.Context, s *state.State, cfg graph.RunConfig) (state.Update, error) {
	if err := simulate(ctx, cfg.Latency); err != nil {
		return nil, err
	}
	return state.Put(nil, KeyUIDisplayed, true), nil
}

// Review records the approval decision. Auto-approval always approves and
// does not count as a review cycle; a manual review approves with the
// configured probability and increments review_cycles.
func (st *Stages) Review(ctx context.Context, s *state.State, cfg graph.RunConfig) (state.Update, error) {
	if err := simulate(ctx, cfg.Latency); err != nil {
		return nil, err
	}

	cycles := state.Lookup(s, KeyReviewCycles)
	approved := true
	if !cfg.AutoApprove {
		cycles++
		approved = cfg.Random().Float64() < st.opts.ApprovalProbability
	}

	ctxlog.FromContext(ctx).Info("review decided", "approved", approved, "auto_approve", cfg.AutoApprove, "review_cycles", cycles)
	upd := state.Put(nil, KeyApprovalStatus, approved)
	return state.Put(upd, KeyReviewCycles, cycles), nil
}

// Deploy activates every recommended workflow.
func (st *Stages) Deploy(ctx context.Context, s *state.State, cfg graph.RunConfig) (state.Update, error) {
	if err := simulate(ctx, cfg.Latency); err != nil {
		return nil, err
	}

	recs := state.Lookup(s, KeyRecommendations)
	names := make([]string, 0, len(recs))
	for _, r := range recs {
		names = append(names, r.Name)
	}

	ctxlog.FromContext(ctx).Info("workflows deployed", "count", len(names))
	upd := state.Put(nil, KeyDeployedWorkflows, names)
	return state.Put(upd, KeyDeployedAt, st.opts.Clock()), nil
}

// CollectFeedback gathers user feedback and closes the cycle.
func (st *Stages) CollectFeedback(ctx context.Context, s *state.State, cfg graph.RunConfig) (state.Update, error) {
	if err := simulate(ctx, cfg.Latency); err != nil {
		return nil, err
	}

	rng := cfg.Random()
	fb := Feedback{
		Satisfaction:   between(rng, 3, 5),
		IssuesReported: between(rng, 0, 2),
	}
	upd := state.Put(nil, KeyUserFeedback, fb)
	return state.Put(upd, KeyCycleCount, state.Lookup(s, KeyCycleCount)+1), nil
}

// simulate blocks for d or until ctx is done.
func simulate(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
