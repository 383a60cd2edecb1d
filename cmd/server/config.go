package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spetersoncode/cyclegraph/automation"
	"github.com/spetersoncode/cyclegraph/graph"
	"github.com/spetersoncode/cyclegraph/internal/env"
	"github.com/spetersoncode/cyclegraph/runstore"
)

// Config holds the server configuration loaded from environment variables.
type Config struct {
	// Server
	Port     string
	LogLevel slog.Level

	// Runs
	DefaultGraph string
	MaxSteps     int
	Timeout      time.Duration

	// Reference stages
	SourceFailureRate float64

	// Run history
	RunHistory int
	RedisAddr  string
	RedisDB    int
}

// LoadConfig loads configuration from environment variables.
// It loads a .env file if present (silent fail if not found).
func LoadConfig() (*Config, error) {
	env.Load()

	level, err := env.ParseLevel(env.StringOrDefault("CYCLEGRAPH_LOG_LEVEL", "info"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Port:              env.StringOrDefault("CYCLEGRAPH_PORT", "8000"),
		LogLevel:          level,
		DefaultGraph:      env.StringOrDefault("CYCLEGRAPH_DEFAULT_GRAPH", automation.GraphName),
		MaxSteps:          env.IntOrDefault("CYCLEGRAPH_MAX_STEPS", graph.DefaultMaxSteps),
		Timeout:           env.DurationOrDefault("CYCLEGRAPH_TIMEOUT", 2*time.Minute),
		SourceFailureRate: env.FloatOrDefault("CYCLEGRAPH_SOURCE_FAILURE_RATE", 0),
		RunHistory:        env.IntOrDefault("CYCLEGRAPH_RUN_HISTORY", runstore.DefaultLimit),
		RedisAddr:         env.StringOrDefault("CYCLEGRAPH_REDIS_ADDR", ""),
		RedisDB:           env.IntOrDefault("CYCLEGRAPH_REDIS_DB", 0),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration values.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("CYCLEGRAPH_PORT must not be empty")
	}
	if c.MaxSteps < 1 {
		return fmt.Errorf("CYCLEGRAPH_MAX_STEPS must be >= 1, got %d", c.MaxSteps)
	}
	if c.SourceFailureRate < 0 || c.SourceFailureRate > 1 {
		return fmt.Errorf("CYCLEGRAPH_SOURCE_FAILURE_RATE must be in [0, 1], got %v", c.SourceFailureRate)
	}
	if c.RunHistory < 0 {
		return fmt.Errorf("CYCLEGRAPH_RUN_HISTORY must be >= 0, got %d", c.RunHistory)
	}
	return nil
}
