// Package graph provides the graph execution engine: a directed graph of
// stages run sequentially over a shared, incrementally merged state.
//
// # Building
//
// Stages are functions from (state, config) to a partial update. Edges are
// static or conditional; a conditional edge pairs a Router with a map from
// the router's labels to the next stage or End:
//
//	g, err := graph.NewBuilder("review-loop").
//	    AddStage("draft", draft).
//	    AddStage("review", review).
//	    SetEntry("draft").
//	    AddEdge("draft", "review").
//	    AddConditionalEdge("review",
//	        graph.RouteOnState(func(s *state.State) string {
//	            if s.GetBool("approved") {
//	                return "done"
//	            }
//	            return "again"
//	        }, "done", "again"),
//	        map[string]string{"done": graph.End, "again": "draft"},
//	    ).
//	    Compile()
//
// Routers come in two calling conventions, RouteOnState and
// RouteOnStateAndConfig. The convention is chosen when the router is built.
// Compile reports every structural problem at once as *ConfigError values
// joined together.
//
// # Running
//
// A compiled Graph is immutable and may be shared by concurrent runs:
//
//	res, err := g.Run(ctx, graph.RunConfig{MaxCycles: 3, Seed: 42})
//	fmt.Println(res.State.Snapshot())
//
// Each step invokes the current stage, merges its update and follows the
// stage's edge using the merged state. A stage without an outgoing edge is
// terminal. Runs stop with one of:
//
//   - TerminationComplete: End reached
//   - TerminationError: *StageError, or *ConfigError for an unmapped label
//   - TerminationRunaway: *RunawayError after MaxSteps invocations
//   - TerminationCancelled / TerminationTimeout: ErrCancelled, checked
//     between stages
//
// # Streaming
//
// RunStream runs the same loop and reports progress as events, with a
// StateSnapshot after every stage:
//
//	for e := range g.RunStream(ctx, cfg) {
//	    switch e.Type {
//	    case event.StateSnapshot:
//	        fmt.Println(e.StepName, e.State)
//	    case event.RunError:
//	        fmt.Println("failed:", e.Error)
//	    }
//	}
package graph
