package agui

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/spetersoncode/cyclegraph/graph"
)

func TestRunInput_Prepare(t *testing.T) {
	t.Run("decodes config", func(t *testing.T) {
		var in RunInput
		body := `{"thread_id":"t1","run_id":"r1","graph":"automation","config":{"auto_approve":true,"max_cycles":2}}`
		if err := json.Unmarshal([]byte(body), &in); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}

		p, err := in.Prepare("")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p.Graph != "automation" || p.ThreadID != "t1" || p.RunID != "r1" {
			t.Errorf("unexpected prepared input: %+v", p)
		}
		if !p.Config.AutoApprove || p.Config.MaxCycles != 2 {
			t.Errorf("unexpected config: %+v", p.Config)
		}
	})

	t.Run("uses default graph", func(t *testing.T) {
		in := RunInput{}
		p, err := in.Prepare("automation")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p.Graph != "automation" {
			t.Errorf("expected default graph, got %q", p.Graph)
		}
		if p.Config != graph.DefaultRunConfig() {
			t.Errorf("expected default config, got %+v", p.Config)
		}
	})

	t.Run("no graph", func(t *testing.T) {
		in := RunInput{}
		if _, err := in.Prepare(""); !errors.Is(err, ErrNoGraph) {
			t.Errorf("expected ErrNoGraph, got %v", err)
		}
	})

	t.Run("invalid config", func(t *testing.T) {
		in := RunInput{Graph: "automation", Config: json.RawMessage(`{"max_cycles":0}`)}
		if _, err := in.Prepare(""); !errors.Is(err, graph.ErrInvalidRunConfig) {
			t.Errorf("expected ErrInvalidRunConfig, got %v", err)
		}
	})
}
