package graph

import (
	"errors"
	"fmt"
)

var (
	// ErrGraphConfig indicates a malformed graph: a compile-time defect or
	// a router returning a label its edge does not map.
	ErrGraphConfig = errors.New("graph: invalid graph configuration")

	// ErrInvalidRunConfig indicates a RunConfig failed validation.
	ErrInvalidRunConfig = errors.New("graph: invalid run config")

	// ErrRunaway indicates the step ceiling was reached.
	ErrRunaway = errors.New("graph: step limit exceeded")

	// ErrCancelled indicates the run was stopped by its context.
	ErrCancelled = errors.New("graph: run cancelled")

	// ErrGraphNotFound indicates a registry lookup failed.
	ErrGraphNotFound = errors.New("graph: graph not found")
)

// ConfigError reports a graph configuration defect. Compile returns these
// for structural problems; a run returns one when a router yields an
// unmapped label, with the state that produced it.
type ConfigError struct {
	Stage  string
	Label  string
	Reason string
	State  map[string]any
}

func (e *ConfigError) Error() string {
	switch {
	case e.Stage != "" && e.Label != "":
		return fmt.Sprintf("graph: stage %q label %q: %s", e.Stage, e.Label, e.Reason)
	case e.Stage != "":
		return fmt.Sprintf("graph: stage %q: %s", e.Stage, e.Reason)
	default:
		return fmt.Sprintf("graph: %s", e.Reason)
	}
}

func (e *ConfigError) Unwrap() error {
	return ErrGraphConfig
}

// StageError wraps a failure returned by a stage, or a schema violation in
// the update it produced. State is the last merged state before the stage ran.
type StageError struct {
	StageName string
	Step      int
	State     map[string]any
	Err       error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("graph: stage %q failed at step %d: %v", e.StageName, e.Step, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// RunawayError reports that a run hit the step ceiling, which usually means
// a conditional edge never resolves to End.
type RunawayError struct {
	MaxSteps  int
	StageName string
	State     map[string]any
}

func (e *RunawayError) Error() string {
	return fmt.Sprintf("graph: step limit of %d exceeded before stage %q", e.MaxSteps, e.StageName)
}

func (e *RunawayError) Unwrap() error {
	return ErrRunaway
}
