package graph

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/spetersoncode/cyclegraph/state"
)

// Graph is a compiled, immutable graph. It holds no run state, so one
// Graph may serve any number of concurrent runs.
type Graph struct {
	name        string
	entry       string
	stages      map[string]StageFunc
	order       []string
	edges       map[string]string
	conditional map[string]conditionalEdge
	schema      *state.Schema
}

// Name returns the graph name.
func (g *Graph) Name() string { return g.name }

// Entry returns the entry stage.
func (g *Graph) Entry() string { return g.entry }

// Stages returns stage names in registration order.
func (g *Graph) Stages() []string { return slices.Clone(g.order) }

// Schema returns the state schema, or nil.
func (g *Graph) Schema() *state.Schema { return g.schema }

// next resolves the stage after from. label is empty for static edges and
// for stages without an outgoing edge, which are implicitly terminal.
func (g *Graph) next(from string, s *state.State, cfg RunConfig) (target, label string, err error) {
	if to, ok := g.edges[from]; ok {
		return to, "", nil
	}
	edge, ok := g.conditional[from]
	if !ok {
		return End, "", nil
	}
	label = edge.router.route(s, cfg)
	to, ok := edge.labels[label]
	if !ok {
		return "", label, &ConfigError{
			Stage:  from,
			Label:  label,
			Reason: fmt.Sprintf("router returned unmapped label (known: %s)", strings.Join(slices.Sorted(maps.Keys(edge.labels)), ", ")),
			State:  s.Snapshot(),
		}
	}
	return to, label, nil
}

// Mermaid renders the graph as a Mermaid flowchart.
func (g *Graph) Mermaid() string {
	var sb strings.Builder
	sb.WriteString("flowchart TD\n")
	fmt.Fprintf(&sb, "  __start__([start]) --> %s\n", g.entry)
	ended := false
	node := func(name string) string {
		if name == End {
			ended = true
			return "__end__([end])"
		}
		return name
	}
	for _, from := range g.order {
		if to, ok := g.edges[from]; ok {
			fmt.Fprintf(&sb, "  %s --> %s\n", from, node(to))
			continue
		}
		edge, ok := g.conditional[from]
		if !ok {
			fmt.Fprintf(&sb, "  %s --> %s\n", from, node(End))
			continue
		}
		for _, label := range slices.Sorted(maps.Keys(edge.labels)) {
			fmt.Fprintf(&sb, "  %s -. %s .-> %s\n", from, label, node(edge.labels[label]))
		}
	}
	if !ended {
		sb.WriteString("  %% no terminal edge\n")
	}
	return sb.String()
}
