package graph

import (
	"fmt"
	"math/rand"
	"time"
)

// ModelName selects the strategy a stage set may use. The engine never
// interprets it.
type ModelName string

const (
	ModelAnthropic ModelName = "anthropic"
	ModelOpenAI    ModelName = "openai"
)

// RunConfig is the read-only configuration passed to every stage and
// config-aware router during one run.
type RunConfig struct {
	// ModelName is an opaque selector for stage implementations.
	ModelName ModelName

	// AutoApprove is read by review stages only.
	AutoApprove bool

	// MaxCycles bounds full passes through a cyclic graph. Must be >= 1.
	MaxCycles int

	// Seed seeds the per-run random source. Zero picks a time-based seed
	// below 2^53, so it survives JSON round trips; the seed actually used
	// is reported in Result.Seed.
	Seed int64

	// Latency is simulated work time for stages that honour it.
	Latency time.Duration

	// Rand is the random source stages must use, read through Random. The
	// engine fills it from Seed when nil. It belongs to a single run and is
	// not safe to share.
	Rand *rand.Rand
}

// DefaultRunConfig returns a configuration with a single cycle and manual
// review.
func DefaultRunConfig() RunConfig {
	return RunConfig{
		ModelName: ModelAnthropic,
		MaxCycles: 1,
	}
}

// Validate checks the configuration surface.
func (c RunConfig) Validate() error {
	if c.MaxCycles < 1 {
		return fmt.Errorf("%w: max_cycles must be >= 1, got %d", ErrInvalidRunConfig, c.MaxCycles)
	}
	switch c.ModelName {
	case "", ModelAnthropic, ModelOpenAI:
	default:
		return fmt.Errorf("%w: unknown model_name %q", ErrInvalidRunConfig, c.ModelName)
	}
	if c.Latency < 0 {
		return fmt.Errorf("%w: latency must not be negative", ErrInvalidRunConfig)
	}
	return nil
}

// ParseModelName validates a model selector string.
func ParseModelName(s string) (ModelName, error) {
	m := ModelName(s)
	switch m {
	case ModelAnthropic, ModelOpenAI:
		return m, nil
	default:
		return "", fmt.Errorf("%w: unknown model_name %q", ErrInvalidRunConfig, s)
	}
}

// maxPickedSeed keeps picked seeds exactly representable as float64.
const maxPickedSeed = 1<<53 - 1

// seeded returns a copy of the config with Seed and Rand populated.
func (c RunConfig) seeded() RunConfig {
	if c.Rand != nil {
		return c
	}
	if c.Seed == 0 {
		c.Seed = max(time.Now().UnixNano()&maxPickedSeed, 1)
	}
	c.Rand = rand.New(rand.NewSource(c.Seed))
	return c
}

// Random returns Rand, or a source seeded from Seed when Rand is nil, so a
// stage called outside the engine still has a usable source.
func (c RunConfig) Random() *rand.Rand {
	return c.seeded().Rand
}
