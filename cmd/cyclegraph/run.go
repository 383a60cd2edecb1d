package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spetersoncode/cyclegraph/automation"
	"github.com/spetersoncode/cyclegraph/event"
	"github.com/spetersoncode/cyclegraph/graph"
	"github.com/spetersoncode/cyclegraph/internal/env"
	"github.com/spetersoncode/cyclegraph/mcp"
)

// Exit codes.
const (
	exitOK        = 0
	exitFailure   = 1
	exitUsage     = 2
	exitCancelled = 130
)

type options struct {
	autoApprove       bool
	maxCycles         int
	model             string
	seed              int64
	latency           time.Duration
	timeout           time.Duration
	maxSteps          int
	sourceFailureRate float64
	logLevel          string
	stream            bool
	diagram           bool
	remote            string
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	env.Load()

	o := &options{}
	fs := flag.NewFlagSet("cyclegraph", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.BoolVar(&o.autoApprove, "auto-approve", env.BoolOrDefault("CYCLEGRAPH_AUTO_APPROVE", false), "approve every review")
	fs.IntVar(&o.maxCycles, "max-cycles", env.IntOrDefault("CYCLEGRAPH_MAX_CYCLES", 1), "full passes before the run ends")
	fs.StringVar(&o.model, "model", env.StringOrDefault("CYCLEGRAPH_MODEL", string(graph.ModelAnthropic)), "model selector: anthropic or openai")
	fs.Int64Var(&o.seed, "seed", env.Int64OrDefault("CYCLEGRAPH_SEED", 0), "random seed (0 picks one)")
	fs.DurationVar(&o.latency, "latency", env.DurationOrDefault("CYCLEGRAPH_LATENCY", 0), "simulated work time per stage")
	fs.DurationVar(&o.timeout, "timeout", env.DurationOrDefault("CYCLEGRAPH_TIMEOUT", 0), "run timeout (0 disables)")
	fs.IntVar(&o.maxSteps, "max-steps", env.IntOrDefault("CYCLEGRAPH_MAX_STEPS", graph.DefaultMaxSteps), "stage invocation ceiling")
	fs.Float64Var(&o.sourceFailureRate, "source-failure-rate", env.FloatOrDefault("CYCLEGRAPH_SOURCE_FAILURE_RATE", 0), "probability a source read fails")
	fs.StringVar(&o.logLevel, "log-level", env.StringOrDefault("CYCLEGRAPH_LOG_LEVEL", "warn"), "debug, info, warn or error")
	fs.BoolVar(&o.stream, "stream", false, "print one JSON line per run event")
	fs.BoolVar(&o.diagram, "diagram", false, "print the graph as a Mermaid flowchart and exit")
	fs.StringVar(&o.remote, "remote", "", "run through this MCP server command instead of in-process")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	return o, nil
}

func (o *options) runConfig() (graph.RunConfig, error) {
	model, err := graph.ParseModelName(o.model)
	if err != nil {
		return graph.RunConfig{}, err
	}
	cfg := graph.RunConfig{
		ModelName:   model,
		AutoApprove: o.autoApprove,
		MaxCycles:   o.maxCycles,
		Seed:        o.seed,
		Latency:     o.latency,
	}
	return cfg, cfg.Validate()
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	o, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		fmt.Fprintln(stderr, err)
		return exitUsage
	}

	level, err := env.ParseLevel(o.logLevel)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitUsage
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	cfg, err := o.runConfig()
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitUsage
	}

	g, err := automation.New(automation.WithSourceFailureRate(o.sourceFailureRate))
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitFailure
	}

	if o.diagram {
		fmt.Fprint(stdout, g.Mermaid())
		return exitOK
	}

	if o.remote != "" {
		return runRemote(ctx, o, cfg, stdout, stderr)
	}

	opts := []graph.Option{
		graph.WithLogger(logger),
		graph.WithMaxSteps(o.maxSteps),
		graph.WithTimeout(o.timeout),
	}

	if o.stream {
		return runStream(ctx, g, cfg, opts, stdout, stderr)
	}

	res, err := g.Run(ctx, cfg, opts...)
	if encErr := writeJSON(stdout, mcp.Summarize(res)); encErr != nil {
		fmt.Fprintln(stderr, encErr)
		return exitFailure
	}
	return exitCode(err, stderr)
}

// streamLine is the JSON shape of one event in -stream mode.
type streamLine struct {
	Type  event.Type     `json:"type"`
	RunID string         `json:"run_id"`
	Step  int            `json:"step,omitempty"`
	Stage string         `json:"stage,omitempty"`
	Label string         `json:"label,omitempty"`
	Next  string         `json:"next,omitempty"`
	State map[string]any `json:"state,omitempty"`
	Error string         `json:"error,omitempty"`
}

func runStream(ctx context.Context, g *graph.Graph, cfg graph.RunConfig, opts []graph.Option, stdout, stderr io.Writer) int {
	enc := json.NewEncoder(stdout)
	var runErr error
	for e := range g.RunStream(ctx, cfg, opts...) {
		// StepEnd carries no state; the following snapshot does.
		if e.Type == event.StepEnd {
			continue
		}
		line := streamLine{
			Type:  e.Type,
			RunID: e.RunID,
			Step:  e.Step,
			Stage: e.StepName,
			Label: e.RouteName,
			Next:  e.Next,
		}
		if e.Type == event.StateSnapshot || e.IsTerminal() {
			line.State = e.State
		}
		if e.Error != nil {
			line.Error = e.Error.Error()
			runErr = e.Error
		}
		if err := enc.Encode(line); err != nil {
			fmt.Fprintln(stderr, err)
			return exitFailure
		}
	}
	return exitCode(runErr, stderr)
}

func runRemote(ctx context.Context, o *options, cfg graph.RunConfig, stdout, stderr io.Writer) int {
	runner, err := mcp.NewRemoteRunner(ctx, o.remote, nil)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitFailure
	}
	defer runner.Close()

	summary, err := runner.Run(ctx, automation.GraphName, cfg)
	if summary != nil {
		if encErr := writeJSON(stdout, summary); encErr != nil {
			fmt.Fprintln(stderr, encErr)
			return exitFailure
		}
	}
	return exitCode(err, stderr)
}

func exitCode(err error, stderr io.Writer) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, graph.ErrCancelled), errors.Is(err, context.Canceled):
		fmt.Fprintln(stderr, err)
		return exitCancelled
	default:
		fmt.Fprintln(stderr, err)
		return exitFailure
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
