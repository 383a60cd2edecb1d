package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/spetersoncode/cyclegraph/graph"
	"github.com/spetersoncode/cyclegraph/internal/ctxlog"
)

// ServerOption configures a Server.
type ServerOption func(*serverConfig)

type serverConfig struct {
	name    string
	version string
	runOpts []graph.Option
}

// WithName sets the server name reported to MCP clients.
func WithName(name string) ServerOption {
	return func(c *serverConfig) {
		c.name = name
	}
}

// WithVersion sets the server version reported to MCP clients.
func WithVersion(version string) ServerOption {
	return func(c *serverConfig) {
		c.version = version
	}
}

// WithRunOptions passes options to every run started through the server.
func WithRunOptions(opts ...graph.Option) ServerOption {
	return func(c *serverConfig) {
		c.runOpts = append(c.runOpts, opts...)
	}
}

// NewServer creates an MCP server that exposes every graph in registry as
// a run_<name> tool, plus describe_graph.
//
// Example:
//
//	g, _ := automation.New()
//	s := mcp.NewServer(graph.NewRegistry(g), mcp.WithName("cyclegraph"))
//	server.ServeStdio(s)
func NewServer(registry *graph.Registry, opts ...ServerOption) *server.MCPServer {
	cfg := &serverConfig{
		name:    "cyclegraph",
		version: "1.0.0",
	}
	for _, opt := range opts {
		opt(cfg)
	}

	s := server.NewMCPServer(
		cfg.name,
		cfg.version,
		server.WithToolCapabilities(true),
	)

	for _, name := range registry.Names() {
		g, ok := registry.Get(name)
		if !ok {
			continue
		}
		s.AddTool(RunTool(g), runHandler(g, cfg.runOpts))
	}
	s.AddTool(DescribeTool(), describeHandler(registry))

	return s
}

// runHandler runs g with the configuration in the tool arguments.
func runHandler(g *graph.Graph, runOpts []graph.Option) func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, err := arguments(req)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		cfg, err := graph.DecodeRunConfig(args)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		res, runErr := g.Run(ctx, cfg, runOpts...)
		data, err := json.Marshal(Summarize(res))
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to marshal result: %v", err)), nil
		}
		if runErr != nil {
			ctxlog.FromContext(ctx).Warn("tool run failed", "graph", g.Name(), ctxlog.Error(runErr))
			result := mcp.NewToolResultText(string(data))
			result.IsError = true
			return result, nil
		}
		return mcp.NewToolResultText(string(data)), nil
	}
}

func describeHandler(registry *graph.Registry) func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, err := arguments(req)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		var in struct {
			Graph string `json:"graph"`
		}
		if err := json.Unmarshal(args, &in); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}

		g, ok := registry.Get(in.Graph)
		if !ok {
			return mcp.NewToolResultError(fmt.Sprintf("%v: %s", graph.ErrGraphNotFound, in.Graph)), nil
		}
		return mcp.NewToolResultText(g.Mermaid()), nil
	}
}

// arguments returns the tool arguments as JSON.
func arguments(req mcp.CallToolRequest) (json.RawMessage, error) {
	if req.Params.Arguments == nil {
		return json.RawMessage("{}"), nil
	}
	data, err := json.Marshal(req.Params.Arguments)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal arguments: %w", err)
	}
	return data, nil
}

// ServeStdio starts an MCP server that communicates over stdin/stdout.
// This is the standard transport for MCP servers invoked as subprocesses.
func ServeStdio(registry *graph.Registry, opts ...ServerOption) error {
	return server.ServeStdio(NewServer(registry, opts...))
}
