package mcp

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/spetersoncode/cyclegraph/graph"
)

// runToolPrefix prefixes the tool name of every exposed graph.
const runToolPrefix = "run_"

// DescribeToolName is the tool that renders a graph as a Mermaid diagram.
const DescribeToolName = "describe_graph"

// ToolName returns the MCP tool name that runs the named graph.
func ToolName(graphName string) string {
	return runToolPrefix + graphName
}

// GraphName extracts the graph name from a run tool name.
func GraphName(toolName string) (string, bool) {
	return strings.CutPrefix(toolName, runToolPrefix)
}

// RunTool returns the MCP tool definition for running g. Its input schema
// is the JSON form of graph.RunConfig.
func RunTool(g *graph.Graph) mcp.Tool {
	desc := fmt.Sprintf("Run the %q graph (stages: %s) and return the final state",
		g.Name(), strings.Join(g.Stages(), ", "))
	return mcp.NewToolWithRawSchema(ToolName(g.Name()), desc, graph.RunConfigSchema().MustBuild())
}

// DescribeTool returns the MCP tool definition of describe_graph.
func DescribeTool() mcp.Tool {
	return mcp.NewTool(DescribeToolName,
		mcp.WithDescription("Render a registered graph as a Mermaid flowchart"),
		mcp.WithString("graph", mcp.Required(), mcp.Description("Graph name")),
	)
}

// RunSummary is the JSON payload returned by a run tool.
type RunSummary struct {
	RunID       string         `json:"run_id"`
	Graph       string         `json:"graph"`
	Termination string         `json:"termination"`
	Steps       int            `json:"steps"`
	Path        []string       `json:"path"`
	LastStage   string         `json:"last_stage"`
	Seed        int64          `json:"seed"`
	State       map[string]any `json:"state"`
	Error       string         `json:"error,omitempty"`
}

// Summarize converts a run result into a RunSummary.
func Summarize(res *graph.Result) RunSummary {
	s := RunSummary{
		RunID:       res.RunID,
		Graph:       res.GraphName,
		Termination: string(res.Termination),
		Steps:       res.Steps,
		Path:        res.Path(),
		LastStage:   res.LastStage,
		Seed:        res.Seed,
		State:       res.State.Snapshot(),
	}
	if res.Error != nil {
		s.Error = res.Error.Error()
	}
	return s
}

// resultText concatenates the text content of a tool result.
func resultText(result *mcp.CallToolResult) string {
	if result == nil {
		return ""
	}
	var parts []string
	for _, c := range result.Content {
		switch content := c.(type) {
		case mcp.TextContent:
			parts = append(parts, content.Text)
		case *mcp.TextContent:
			parts = append(parts, content.Text)
		default:
			if data, err := json.Marshal(content); err == nil {
				parts = append(parts, string(data))
			}
		}
	}
	return strings.Join(parts, "\n")
}
