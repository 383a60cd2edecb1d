package graph

import (
	"log/slog"
	"time"

	"github.com/spetersoncode/cyclegraph/state"
)

// DefaultMaxSteps is the stage invocation ceiling applied when no
// WithMaxSteps option is given.
const DefaultMaxSteps = 10_000

// Options contains configuration for a single run.
type Options struct {
	// MaxSteps caps stage invocations. Values <= 0 use DefaultMaxSteps.
	MaxSteps int

	// Timeout sets a deadline for the entire run.
	Timeout time.Duration

	// Logger receives engine logs. Stages reach it through ctxlog.
	Logger *slog.Logger

	// Observer is notified of stage and run outcomes.
	Observer Observer

	// InitialState seeds the run instead of an empty state.
	InitialState *state.State

	// RunID overrides the generated run identifier.
	RunID string
}

// Option is a functional option for run configuration.
type Option func(*Options)

// WithMaxSteps sets the stage invocation ceiling.
func WithMaxSteps(n int) Option {
	return func(o *Options) {
		o.MaxSteps = n
	}
}

// WithTimeout sets the overall run timeout.
func WithTimeout(d time.Duration) Option {
	return func(o *Options) {
		o.Timeout = d
	}
}

// WithLogger sets the logger for the run.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		o.Logger = l
	}
}

// WithObserver sets an observer for the run.
func WithObserver(obs Observer) Option {
	return func(o *Options) {
		o.Observer = obs
	}
}

// WithInitialState starts the run from s instead of an empty state.
func WithInitialState(s *state.State) Option {
	return func(o *Options) {
		o.InitialState = s
	}
}

// WithRunID sets the run identifier.
func WithRunID(id string) Option {
	return func(o *Options) {
		o.RunID = id
	}
}

// ApplyOptions applies functional options with defaults.
func ApplyOptions(opts ...Option) *Options {
	o := &Options{
		MaxSteps: DefaultMaxSteps,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.MaxSteps <= 0 {
		o.MaxSteps = DefaultMaxSteps
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.Observer == nil {
		o.Observer = nopObserver{}
	}
	return o
}
