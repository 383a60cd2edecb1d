// Package agui streams graph runs to AG-UI compatible frontends.
//
// AG-UI (Agent-User Interface) is an event-based protocol for connecting
// agents to user-facing applications. This package maps run events to
// AG-UI events so a frontend can render stage progress and the merged
// state after every stage.
//
// # Usage
//
// Create a Mapper for each run and feed it the run's event stream:
//
//	mapper := agui.NewMapper(threadID, runID)
//	runEvents := g.RunStream(ctx, cfg, graph.WithRunID(mapper.RunID()))
//	for ev := range mapper.MapStream(runEvents) {
//		writeEvent(ev)
//	}
//
// # Event Mapping
//
//   - RunStart → RUN_STARTED
//   - RunEnd → RUN_FINISHED
//   - RunError, RunCancelled → RUN_ERROR
//   - StepStart → STEP_STARTED, StepEnd → STEP_FINISHED
//   - StateSnapshot → STATE_SNAPSHOT
//   - RouteSelected → CUSTOM "route_selected" with a RouteValue payload
//
// The package does not provide HTTP handlers. See cmd/server for an SSE
// transport.
//
// # Thread Safety
//
// The Mapper is NOT safe for concurrent use. Each run should have its own
// Mapper instance.
package agui
