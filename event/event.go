// Package event provides the event type streamed while a graph runs. The
// event types map 1:1 onto the AG-UI protocol where an equivalent exists.
package event

import (
	"context"
	"time"
)

// Type identifies the kind of event.
type Type string

// Run lifecycle events
const (
	// RunStart fires once, before the entry stage runs.
	RunStart Type = "run_start"

	// RunEnd fires when the run reaches a terminal marker.
	RunEnd Type = "run_end"

	// RunError fires when the run aborts with an error.
	RunError Type = "run_error"

	// RunCancelled fires when the run is stopped by its context.
	RunCancelled Type = "run_cancelled"
)

// Stage lifecycle events
const (
	// StepStart fires before a stage is invoked.
	StepStart Type = "step_start"

	// StepEnd fires after a stage's update has been merged.
	StepEnd Type = "step_end"
)

// Graph-specific events
const (
	// RouteSelected fires when a conditional edge resolves a label.
	RouteSelected Type = "route_selected"

	// StateSnapshot carries the merged state after each stage.
	StateSnapshot Type = "state_snapshot"
)

// Event represents an observable occurrence during a run.
type Event struct {
	// Type identifies the kind of event.
	Type Type

	// RunID identifies the run that produced the event.
	RunID string

	// StepName is the stage the event refers to.
	StepName string

	// Step is the 1-indexed stage invocation count.
	Step int

	// RouteName is the label a router returned, for RouteSelected.
	RouteName string

	// Next is the stage selected after StepName, or the terminal marker.
	Next string

	// State is the merged state for StateSnapshot, RunEnd, RunError and
	// RunCancelled events.
	State map[string]any

	// Keys lists the fields a stage wrote, for StepEnd.
	Keys []string

	// Error contains the error for RunError and RunCancelled events.
	Error error

	// Message contains additional context such as the termination reason.
	Message string

	// Timestamp is when the event occurred.
	Timestamp time.Time
}

// Emit sends an event with timestamp to the channel (non-blocking).
// Use it for best-effort notifications where dropping is acceptable.
func Emit(ch chan<- Event, e Event) {
	e.Timestamp = time.Now()
	select {
	case ch <- e:
	default:
		// Channel full - don't block
	}
}

// Send delivers an event with timestamp, blocking until the receiver takes
// it or ctx is done. It reports whether the event was delivered.
func Send(ctx context.Context, ch chan<- Event, e Event) bool {
	e.Timestamp = time.Now()
	select {
	case ch <- e:
		return true
	case <-ctx.Done():
		return false
	}
}

// NewChannel creates a buffered event channel with standard capacity.
func NewChannel() chan Event {
	return make(chan Event, 100)
}

// IsTerminal reports whether the event closes a run's stream.
func (e Event) IsTerminal() bool {
	switch e.Type {
	case RunEnd, RunError, RunCancelled:
		return true
	default:
		return false
	}
}
