package graph

import (
	"time"

	"github.com/spetersoncode/cyclegraph/state"
)

// TerminationReason indicates why a run stopped.
type TerminationReason string

const (
	// TerminationComplete indicates the run reached End.
	TerminationComplete TerminationReason = "complete"

	// TerminationTimeout indicates the deadline was exceeded.
	TerminationTimeout TerminationReason = "timeout"

	// TerminationCancelled indicates context cancellation.
	TerminationCancelled TerminationReason = "cancelled"

	// TerminationRunaway indicates the step ceiling was reached.
	TerminationRunaway TerminationReason = "runaway"

	// TerminationError indicates a stage or routing error.
	TerminationError TerminationReason = "error"
)

// StepRecord describes one stage invocation.
type StepRecord struct {
	Step     int           `json:"step"`
	Stage    string        `json:"stage"`
	Label    string        `json:"label,omitempty"`
	Next     string        `json:"next"`
	Duration time.Duration `json:"duration"`
}

// Result represents the outcome of a run. It is populated on failure as
// well, so State always holds the last merged state.
type Result struct {
	// RunID identifies the run.
	RunID string

	// GraphName identifies the graph that ran.
	GraphName string

	// State is the final (or last known) merged state.
	State *state.State

	// Termination indicates why execution stopped.
	Termination TerminationReason

	// Steps is the number of stage invocations.
	Steps int

	// LastStage is the stage active when the run stopped.
	LastStage string

	// History lists every stage invocation in order.
	History []StepRecord

	// Seed is the random seed the run used.
	Seed int64

	// Error contains the error that caused termination, if any.
	Error error
}

// Visits counts how many times stage was invoked.
func (r *Result) Visits(stage string) int {
	n := 0
	for _, rec := range r.History {
		if rec.Stage == stage {
			n++
		}
	}
	return n
}

// Path returns the visited stage names in order.
func (r *Result) Path() []string {
	path := make([]string, len(r.History))
	for i, rec := range r.History {
		path[i] = rec.Stage
	}
	return path
}
