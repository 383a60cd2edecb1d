package graph

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/spetersoncode/cyclegraph/state"
)

// StageFunc is the body of a stage. It reads s (never mutating it) and
// returns only the fields it adds or overwrites. A nil or empty Update is a
// no-op. Stages may be invoked many times per run and must not rely on the
// engine to cache or deduplicate calls.
type StageFunc func(ctx context.Context, s *state.State, cfg RunConfig) (state.Update, error)

type stageDef struct {
	name string
	fn   StageFunc
}

type conditionalEdge struct {
	router Router
	labels map[string]string
}

// Builder assembles a graph. Builder methods record problems instead of
// failing immediately; Compile reports all of them at once.
//
// A Builder is not safe for concurrent use. Compile copies everything it
// needs, so the Builder may be discarded or reused afterwards.
type Builder struct {
	name        string
	stages      map[string]*stageDef
	order       []string
	entry       string
	edges       map[string]string
	conditional map[string]conditionalEdge
	schema      *state.Schema
	errs        []error
}

// NewBuilder creates a builder for a graph with the given name.
func NewBuilder(name string) *Builder {
	return &Builder{
		name:        name,
		stages:      map[string]*stageDef{},
		edges:       map[string]string{},
		conditional: map[string]conditionalEdge{},
	}
}

// AddStage registers a stage under a unique name.
func (b *Builder) AddStage(name string, fn StageFunc) *Builder {
	switch {
	case name == "":
		b.fail("", "stage name must not be empty")
	case name == End:
		b.fail(name, "stage name is reserved for the terminal marker")
	case fn == nil:
		b.fail(name, "stage function must not be nil")
	case b.stages[name] != nil:
		b.fail(name, "stage defined twice")
	default:
		b.stages[name] = &stageDef{name: name, fn: fn}
		b.order = append(b.order, name)
	}
	return b
}

// SetEntry designates the stage a run starts at.
func (b *Builder) SetEntry(name string) *Builder {
	b.entry = name
	return b
}

// AddEdge adds a static edge from one stage to another (or to End).
func (b *Builder) AddEdge(from, to string) *Builder {
	if b.hasOutgoing(from) {
		b.fail(from, "stage already has an outgoing edge")
		return b
	}
	b.edges[from] = to
	return b
}

// AddConditionalEdge routes from a stage through router. labels maps each
// label the router can return to a stage name or End.
func (b *Builder) AddConditionalEdge(from string, router Router, labels map[string]string) *Builder {
	switch {
	case b.hasOutgoing(from):
		b.fail(from, "stage already has an outgoing edge")
	case !router.valid():
		b.fail(from, "conditional edge has no routing function")
	case len(labels) == 0:
		b.fail(from, "conditional edge has an empty label map")
	default:
		b.conditional[from] = conditionalEdge{router: router, labels: maps.Clone(labels)}
	}
	return b
}

// WithSchema validates every merge in the compiled graph against schema.
func (b *Builder) WithSchema(schema *state.Schema) *Builder {
	b.schema = schema
	return b
}

// Compile validates the builder and returns an immutable graph.
// All detected problems are returned joined; each is a *ConfigError.
func (b *Builder) Compile() (*Graph, error) {
	errs := slices.Clone(b.errs)
	addErr := func(stage, label, format string, args ...any) {
		errs = append(errs, &ConfigError{Stage: stage, Label: label, Reason: fmt.Sprintf(format, args...)})
	}

	if b.entry == "" {
		addErr("", "", "entry stage not set")
	} else if b.stages[b.entry] == nil {
		addErr(b.entry, "", "entry stage does not exist")
	}

	for _, from := range slices.Sorted(maps.Keys(b.edges)) {
		to := b.edges[from]
		if b.stages[from] == nil {
			addErr(from, "", "edge source does not exist")
		}
		if to != End && b.stages[to] == nil {
			addErr(from, "", "edge target %q does not exist", to)
		}
	}

	for _, from := range slices.Sorted(maps.Keys(b.conditional)) {
		edge := b.conditional[from]
		if b.stages[from] == nil {
			addErr(from, "", "conditional edge source does not exist")
		}
		for _, label := range slices.Sorted(maps.Keys(edge.labels)) {
			to := edge.labels[label]
			if to != End && b.stages[to] == nil {
				addErr(from, label, "target %q does not exist", to)
			}
		}
		if declared := edge.router.labels; len(declared) > 0 {
			for _, label := range slices.Sorted(maps.Keys(edge.labels)) {
				if !slices.Contains(declared, label) {
					addErr(from, label, "label is never returned by the router")
				}
			}
			for _, label := range declared {
				if _, ok := edge.labels[label]; !ok {
					addErr(from, label, "router label has no mapped target")
				}
			}
		}
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	g := &Graph{
		name:        b.name,
		entry:       b.entry,
		stages:      make(map[string]StageFunc, len(b.stages)),
		order:       slices.Clone(b.order),
		edges:       maps.Clone(b.edges),
		conditional: make(map[string]conditionalEdge, len(b.conditional)),
		schema:      b.schema,
	}
	for name, def := range b.stages {
		g.stages[name] = def.fn
	}
	for from, edge := range b.conditional {
		g.conditional[from] = conditionalEdge{router: edge.router, labels: maps.Clone(edge.labels)}
	}
	return g, nil
}

func (b *Builder) hasOutgoing(from string) bool {
	_, static := b.edges[from]
	_, cond := b.conditional[from]
	return static || cond
}

func (b *Builder) fail(stage, reason string) {
	b.errs = append(b.errs, &ConfigError{Stage: stage, Reason: reason})
}
