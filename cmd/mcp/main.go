// Command mcp is an MCP server that exposes cyclegraph graphs over stdio.
//
// Each registered graph becomes a run_<name> tool whose arguments are the
// run configuration (model_name, auto_approve, max_cycles, seed,
// latency_ms). A describe_graph tool returns a Mermaid diagram.
//
// Usage:
//
//	go run ./cmd/mcp
//
// Configuration for an MCP client:
//
//	{
//	    "mcpServers": {
//	        "cyclegraph": {
//	            "command": "go",
//	            "args": ["run", "./cmd/mcp"],
//	            "cwd": "/path/to/cyclegraph"
//	        }
//	    }
//	}
//
// Environment: CYCLEGRAPH_LOG_LEVEL, CYCLEGRAPH_MAX_STEPS and
// CYCLEGRAPH_SOURCE_FAILURE_RATE. Logs go to stderr; stdout carries the
// protocol.
package main

import (
	"log/slog"
	"os"

	"github.com/spetersoncode/cyclegraph/automation"
	"github.com/spetersoncode/cyclegraph/graph"
	"github.com/spetersoncode/cyclegraph/internal/env"
	"github.com/spetersoncode/cyclegraph/mcp"
)

func main() {
	env.Load()

	level, err := env.ParseLevel(env.StringOrDefault("CYCLEGRAPH_LOG_LEVEL", "warn"))
	if err != nil {
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	g, err := automation.New(
		automation.WithSourceFailureRate(env.FloatOrDefault("CYCLEGRAPH_SOURCE_FAILURE_RATE", 0)),
	)
	if err != nil {
		slog.Error("failed to build graph", "error", err)
		os.Exit(1)
	}

	if err := mcp.ServeStdio(graph.NewRegistry(g),
		mcp.WithName("cyclegraph"),
		mcp.WithVersion("1.0.0"),
		mcp.WithRunOptions(
			graph.WithLogger(logger),
			graph.WithMaxSteps(env.IntOrDefault("CYCLEGRAPH_MAX_STEPS", graph.DefaultMaxSteps)),
		),
	); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}
