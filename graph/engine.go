package graph

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/spetersoncode/cyclegraph/event"
	"github.com/spetersoncode/cyclegraph/internal/ctxlog"
	"github.com/spetersoncode/cyclegraph/state"
)

// Run executes the graph synchronously. On failure the returned Result is
// still populated with the last merged state and the active stage.
func (g *Graph) Run(ctx context.Context, cfg RunConfig, opts ...Option) (*Result, error) {
	res := g.execute(ctx, cfg, ApplyOptions(opts...), func(event.Event) {})
	return res, res.Error
}

// RunStream executes the graph and returns an event channel. A
// StateSnapshot event follows every stage, and the stream ends with exactly
// one RunEnd, RunError or RunCancelled event before the channel closes.
// The caller must drain the channel.
func (g *Graph) RunStream(ctx context.Context, cfg RunConfig, opts ...Option) <-chan event.Event {
	ch := event.NewChannel()
	o := ApplyOptions(opts...)

	go func() {
		defer close(ch)
		g.execute(ctx, cfg, o, func(e event.Event) {
			if e.IsTerminal() {
				e.Timestamp = time.Now()
				ch <- e
				return
			}
			event.Send(ctx, ch, e)
		})
	}()

	return ch
}

// execute is the step loop shared by Run and RunStream.
func (g *Graph) execute(ctx context.Context, cfg RunConfig, o *Options, emit func(event.Event)) *Result {
	started := time.Now()
	runID := o.RunID
	if runID == "" {
		runID = uuid.NewString()
	}

	res := &Result{
		RunID:     runID,
		GraphName: g.name,
		State:     o.InitialState,
		LastStage: g.entry,
	}
	if res.State == nil {
		res.State = state.New()
	}

	log := o.Logger.With(ctxlog.RunID(runID), slog.String("graph", g.name))

	finish := func(reason TerminationReason, err error) *Result {
		res.Termination = reason
		res.Error = err
		e := event.Event{
			RunID:    runID,
			StepName: res.LastStage,
			Step:     res.Steps,
			State:    res.State.Snapshot(),
			Error:    err,
			Message:  string(reason),
		}
		switch reason {
		case TerminationComplete:
			e.Type = event.RunEnd
			log.Info("run completed", "steps", res.Steps, "duration_ms", time.Since(started).Milliseconds())
		case TerminationCancelled, TerminationTimeout:
			e.Type = event.RunCancelled
			log.Warn("run cancelled", ctxlog.Stage(res.LastStage), "reason", reason, "steps", res.Steps)
		default:
			e.Type = event.RunError
			log.Error("run failed", ctxlog.Stage(res.LastStage), "reason", reason, ctxlog.Error(err))
		}
		emit(e)
		o.Observer.RunFinished(g.name, res, time.Since(started))
		return res
	}

	if err := cfg.Validate(); err != nil {
		return finish(TerminationError, err)
	}
	cfg = cfg.seeded()
	res.Seed = cfg.Seed

	if o.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.Timeout)
		defer cancel()
	}
	ctx = ctxlog.WithLogger(ctx, log)

	log.Info("run started", "entry", g.entry, "max_cycles", cfg.MaxCycles, "auto_approve", cfg.AutoApprove, "seed", cfg.Seed)
	emit(event.Event{Type: event.RunStart, RunID: runID, StepName: g.entry})

	stage := g.entry
	for {
		res.LastStage = stage

		if err := ctx.Err(); err != nil {
			return finish(cancelReason(err), fmt.Errorf("%w: %w", ErrCancelled, err))
		}
		if res.Steps >= o.MaxSteps {
			return finish(TerminationRunaway, &RunawayError{
				MaxSteps:  o.MaxSteps,
				StageName: stage,
				State:     res.State.Snapshot(),
			})
		}

		res.Steps++
		step := res.Steps
		emit(event.Event{Type: event.StepStart, RunID: runID, StepName: stage, Step: step})

		stageStart := time.Now()
		upd, err := g.stages[stage](ctxlog.WithLogger(ctx, log.With(ctxlog.Stage(stage))), res.State, cfg)
		elapsed := time.Since(stageStart)
		if err != nil {
			o.Observer.StageCompleted(g.name, stage, elapsed, err)
			if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
				return finish(cancelReason(ctxErr), fmt.Errorf("%w: %w", ErrCancelled, err))
			}
			return finish(TerminationError, &StageError{
				StageName: stage,
				Step:      step,
				State:     res.State.Snapshot(),
				Err:       err,
			})
		}

		merged, err := state.Merge(res.State, upd, g.schema)
		if err != nil {
			o.Observer.StageCompleted(g.name, stage, elapsed, err)
			return finish(TerminationError, &StageError{
				StageName: stage,
				Step:      step,
				State:     res.State.Snapshot(),
				Err:       err,
			})
		}
		res.State = merged
		o.Observer.StageCompleted(g.name, stage, elapsed, nil)
		log.Debug("stage completed", ctxlog.Stage(stage), "step", step, "keys", upd.Keys(), "duration_ms", elapsed.Milliseconds())

		emit(event.Event{Type: event.StepEnd, RunID: runID, StepName: stage, Step: step, Keys: upd.Keys()})
		emit(event.Event{Type: event.StateSnapshot, RunID: runID, StepName: stage, Step: step, State: merged.Snapshot()})

		target, label, err := g.next(stage, merged, cfg)
		if err != nil {
			return finish(TerminationError, err)
		}
		res.History = append(res.History, StepRecord{
			Step:     step,
			Stage:    stage,
			Label:    label,
			Next:     target,
			Duration: elapsed,
		})
		if label != "" {
			o.Observer.RouteSelected(g.name, stage, label)
			log.Debug("route selected", ctxlog.Stage(stage), "label", label, "next", target)
			emit(event.Event{Type: event.RouteSelected, RunID: runID, StepName: stage, Step: step, RouteName: label, Next: target})
		}

		if target == End {
			return finish(TerminationComplete, nil)
		}
		stage = target
	}
}

func cancelReason(err error) TerminationReason {
	if errors.Is(err, context.DeadlineExceeded) {
		return TerminationTimeout
	}
	return TerminationCancelled
}
