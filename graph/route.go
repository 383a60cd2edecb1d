package graph

import (
	"slices"

	"github.com/spetersoncode/cyclegraph/state"
)

// End is the terminal marker. Mapping a label to End halts the run.
const End = "__end__"

// RouteFunc picks a label from the merged state.
type RouteFunc func(s *state.State) string

// ConfigRouteFunc picks a label from the merged state and the run config.
type ConfigRouteFunc func(s *state.State, cfg RunConfig) string

type routerKind int

const (
	routeOnState routerKind = iota + 1
	routeOnStateAndConfig
)

// Router is the routing function of a conditional edge. It is a tagged
// variant: the calling convention is fixed when the router is built, so the
// engine never inspects function signatures.
type Router struct {
	kind     routerKind
	onState  RouteFunc
	onConfig ConfigRouteFunc
	labels   []string
}

// RouteOnState builds a router that reads only the state.
// labels optionally declares every label fn can return; when given,
// Compile checks the declaration against the edge's label map.
func RouteOnState(fn RouteFunc, labels ...string) Router {
	if fn == nil {
		return Router{}
	}
	return Router{kind: routeOnState, onState: fn, labels: slices.Clone(labels)}
}

// RouteOnStateAndConfig builds a router that reads the state and the run
// config. labels behaves as in RouteOnState.
func RouteOnStateAndConfig(fn ConfigRouteFunc, labels ...string) Router {
	if fn == nil {
		return Router{}
	}
	return Router{kind: routeOnStateAndConfig, onConfig: fn, labels: slices.Clone(labels)}
}

// NeedsConfig reports whether the router uses the state+config convention.
func (r Router) NeedsConfig() bool {
	return r.kind == routeOnStateAndConfig
}

// Labels returns the declared labels, or nil when none were declared.
func (r Router) Labels() []string {
	return slices.Clone(r.labels)
}

func (r Router) valid() bool {
	return r.kind != 0
}

func (r Router) route(s *state.State, cfg RunConfig) string {
	switch r.kind {
	case routeOnState:
		return r.onState(s)
	case routeOnStateAndConfig:
		return r.onConfig(s, cfg)
	default:
		return ""
	}
}
