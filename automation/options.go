package automation

import (
	"time"

	"github.com/spetersoncode/cyclegraph/internal/retry"
)

// Options configures the reference stages.
type Options struct {
	// SourceFailureRate is the probability in [0, 1] that a single source
	// read fails transiently. Zero disables simulated failures.
	SourceFailureRate float64

	// SourceRetry controls retries of failed source reads.
	SourceRetry retry.Config

	// ApprovalProbability is the chance a manual review approves.
	ApprovalProbability float64

	// Clock supplies timestamps for ingestion and deployment.
	Clock func() time.Time
}

// Option is a functional option for the reference stages.
type Option func(*Options)

// DefaultApprovalProbability is the chance a manual review approves.
const DefaultApprovalProbability = 0.8

// WithSourceFailureRate makes each source read fail with probability p.
func WithSourceFailureRate(p float64) Option {
	return func(o *Options) {
		o.SourceFailureRate = min(max(p, 0), 1)
	}
}

// WithSourceRetry sets how often a failed source read is attempted and the
// backoff before the first retry. attempts <= 1 disables retries.
func WithSourceRetry(attempts int, initialDelay time.Duration) Option {
	return func(o *Options) {
		o.SourceRetry.MaxAttempts = attempts
		o.SourceRetry.InitialDelay = initialDelay
		if o.SourceRetry.MaxDelay < initialDelay {
			o.SourceRetry.MaxDelay = initialDelay
		}
	}
}

// WithApprovalProbability overrides the manual review approval chance.
func WithApprovalProbability(p float64) Option {
	return func(o *Options) {
		o.ApprovalProbability = min(max(p, 0), 1)
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(o *Options) {
		o.Clock = now
	}
}

// ApplyOptions applies option functions to a default Options.
func ApplyOptions(opts ...Option) *Options {
	o := &Options{
		SourceRetry:         retry.DefaultConfig(),
		ApprovalProbability: DefaultApprovalProbability,
		Clock:               time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
