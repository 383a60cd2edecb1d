package agui

import (
	"encoding/json"
	"errors"

	"github.com/spetersoncode/cyclegraph/graph"
)

// RunInput is the request body for running a graph over AG-UI. ThreadID and
// RunID follow the AG-UI RunAgentInput naming; Graph and Config select what
// to run.
type RunInput struct {
	ThreadID       string          `json:"thread_id"`
	RunID          string          `json:"run_id"`
	Graph          string          `json:"graph"`
	Config         json.RawMessage `json:"config,omitempty"`
	ForwardedProps any             `json:"forwarded_props,omitempty"`
}

// PreparedInput contains validated input ready for execution.
type PreparedInput struct {
	ThreadID string
	RunID    string
	Graph    string
	Config   graph.RunConfig
}

// ErrNoGraph is returned when the input names no graph and no default is
// given.
var ErrNoGraph = errors.New("no graph provided")

// Prepare validates the input and decodes its run configuration.
// defaultGraph is used when Graph is empty.
func (r *RunInput) Prepare(defaultGraph string) (*PreparedInput, error) {
	name := r.Graph
	if name == "" {
		name = defaultGraph
	}
	if name == "" {
		return nil, ErrNoGraph
	}

	cfg, err := graph.DecodeRunConfig(r.Config)
	if err != nil {
		return nil, err
	}

	return &PreparedInput{
		ThreadID: r.ThreadID,
		RunID:    r.RunID,
		Graph:    name,
		Config:   cfg,
	}, nil
}
