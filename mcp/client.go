package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/spetersoncode/cyclegraph/graph"
)

// ErrRemoteRun is returned when a remote run tool reports a failure.
var ErrRemoteRun = errors.New("mcp: remote run failed")

// RemoteRunner runs graphs exposed by another cyclegraph MCP server.
//
// RemoteRunner is safe for concurrent use. The graph list is cached
// locally and can be refreshed with [RemoteRunner.Refresh].
type RemoteRunner struct {
	client *client.Client
	mu     sync.RWMutex
	graphs map[string]mcp.Tool
}

// NewRemoteRunner starts an MCP server subprocess and connects to it over
// stdio. The command is the path to the server executable.
//
// Example:
//
//	runner, err := mcp.NewRemoteRunner(ctx, "./cyclegraph-mcp", nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer runner.Close()
//
//	summary, err := runner.Run(ctx, "automation", graph.DefaultRunConfig())
func NewRemoteRunner(ctx context.Context, command string, env []string, args ...string) (*RemoteRunner, error) {
	c, err := client.NewStdioMCPClient(command, env, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to create MCP client: %w", err)
	}
	return NewRemoteRunnerFromClient(ctx, c)
}

// NewRemoteRunnerFromClient creates a RemoteRunner from an existing MCP
// client. It starts and initializes the client and fetches the tool list.
func NewRemoteRunnerFromClient(ctx context.Context, c *client.Client) (*RemoteRunner, error) {
	if err := c.Start(ctx); err != nil {
		return nil, fmt.Errorf("failed to start MCP client: %w", err)
	}

	_, err := c.Initialize(ctx, mcp.InitializeRequest{
		Params: mcp.InitializeParams{
			ProtocolVersion: mcp.LATEST_PROTOCOL_VERSION,
			Capabilities:    mcp.ClientCapabilities{},
			ClientInfo: mcp.Implementation{
				Name:    "cyclegraph-client",
				Version: "1.0.0",
			},
		},
	})
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to initialize MCP session: %w", err)
	}

	r := &RemoteRunner{
		client: c,
		graphs: make(map[string]mcp.Tool),
	}
	if err := r.Refresh(ctx); err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to list tools: %w", err)
	}
	return r, nil
}

// Close closes the connection to the MCP server.
func (r *RemoteRunner) Close() error {
	return r.client.Close()
}

// Refresh fetches the current list of run tools from the MCP server.
func (r *RemoteRunner) Refresh(ctx context.Context) error {
	result, err := r.client.ListTools(ctx, mcp.ListToolsRequest{})
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.graphs = make(map[string]mcp.Tool, len(result.Tools))
	for _, t := range result.Tools {
		if name, ok := GraphName(t.Name); ok {
			r.graphs[name] = t
		}
	}
	return nil
}

// Graphs returns the names of the remote graphs in sorted order.
func (r *RemoteRunner) Graphs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.graphs))
}

// Has reports whether the remote server exposes the named graph.
func (r *RemoteRunner) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.graphs[name]
	return ok
}

// Run executes the named graph remotely. Only the JSON surface of cfg is
// sent (see graph.EncodeRunConfig). A failed remote run returns the summary
// together with an error wrapping ErrRemoteRun.
func (r *RemoteRunner) Run(ctx context.Context, name string, cfg graph.RunConfig) (*RunSummary, error) {
	if !r.Has(name) {
		return nil, fmt.Errorf("%w: %s", graph.ErrGraphNotFound, name)
	}

	result, err := r.client.CallTool(ctx, mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      ToolName(name),
			Arguments: graph.EncodeRunConfig(cfg),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", ToolName(name), err)
	}

	text := resultText(result)
	var summary RunSummary
	if err := json.Unmarshal([]byte(text), &summary); err != nil {
		if result.IsError {
			return nil, fmt.Errorf("%w: %s", ErrRemoteRun, text)
		}
		return nil, fmt.Errorf("invalid run summary: %w", err)
	}
	if result.IsError {
		return &summary, fmt.Errorf("%w: %s", ErrRemoteRun, summary.Error)
	}
	return &summary, nil
}
