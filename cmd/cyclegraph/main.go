// Command cyclegraph runs the automation recommender graph from the
// command line and prints the final state, or every state snapshot with
// -stream.
//
// Usage:
//
//	cyclegraph [flags]
//
// Flags default to CYCLEGRAPH_* environment variables (a .env file is
// loaded if present):
//
//	-auto-approve         CYCLEGRAPH_AUTO_APPROVE         approve every review
//	-max-cycles           CYCLEGRAPH_MAX_CYCLES           full passes before ending (default 1)
//	-model                CYCLEGRAPH_MODEL                anthropic or openai (default anthropic)
//	-seed                 CYCLEGRAPH_SEED                 random seed, 0 picks one
//	-latency              CYCLEGRAPH_LATENCY              simulated work per stage
//	-timeout              CYCLEGRAPH_TIMEOUT              run timeout, 0 disables
//	-max-steps            CYCLEGRAPH_MAX_STEPS            stage invocation ceiling
//	-source-failure-rate  CYCLEGRAPH_SOURCE_FAILURE_RATE  simulated source flakiness
//	-log-level            CYCLEGRAPH_LOG_LEVEL            debug, info, warn, error
//	-stream                                               print one JSON line per event
//	-diagram                                              print the Mermaid diagram and exit
//	-remote                                               run through an MCP server command
//
// Exit status is 0 on completion, 1 on failure, 2 on usage errors and 130
// when interrupted.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
