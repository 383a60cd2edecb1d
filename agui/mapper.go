package agui

import (
	"errors"

	"github.com/ag-ui-protocol/ag-ui/sdks/community/go/pkg/core/events"

	"github.com/spetersoncode/cyclegraph/event"
)

// CustomRouteSelected is the CUSTOM event name used for routing decisions.
const CustomRouteSelected = "route_selected"

// RouteValue is the payload of a route_selected CUSTOM event.
type RouteValue struct {
	Stage string `json:"stage"`
	Label string `json:"label"`
	Next  string `json:"next"`
}

// Mapper converts graph run events to AG-UI events. Each run event maps to
// at most one AG-UI event.
//
// Create a new Mapper for each run using NewMapper. The Mapper is not
// safe for concurrent use.
type Mapper struct {
	threadID string
	runID    string
}

// NewMapper creates a new Mapper for a single run.
// The threadID and runID are used in lifecycle events (RUN_STARTED, RUN_FINISHED).
func NewMapper(threadID, runID string) *Mapper {
	if threadID == "" {
		threadID = events.GenerateThreadID()
	}
	if runID == "" {
		runID = events.GenerateRunID()
	}
	return &Mapper{
		threadID: threadID,
		runID:    runID,
	}
}

// ThreadID returns the thread ID for this mapper.
func (m *Mapper) ThreadID() string {
	return m.threadID
}

// RunID returns the run ID for this mapper.
func (m *Mapper) RunID() string {
	return m.runID
}

// RunStarted returns a RUN_STARTED event.
func (m *Mapper) RunStarted() events.Event {
	return events.NewRunStartedEvent(m.threadID, m.runID)
}

// RunFinished returns a RUN_FINISHED event.
func (m *Mapper) RunFinished() events.Event {
	return events.NewRunFinishedEvent(m.threadID, m.runID)
}

// RunError returns a RUN_ERROR event.
func (m *Mapper) RunError(err error) events.Event {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	return events.NewRunErrorEvent(msg)
}

// StateSnapshot returns a STATE_SNAPSHOT event carrying the full state.
func (m *Mapper) StateSnapshot(state map[string]any) events.Event {
	if state == nil {
		state = map[string]any{}
	}
	return events.NewStateSnapshotEvent(state)
}

// MapEvent converts a run event to an AG-UI event.
// Returns nil for events that have no AG-UI equivalent.
func (m *Mapper) MapEvent(e event.Event) events.Event {
	switch e.Type {
	case event.RunStart:
		return m.RunStarted()
	case event.RunEnd:
		return m.RunFinished()
	case event.RunError:
		return m.RunError(e.Error)
	case event.RunCancelled:
		// AG-UI has no cancellation event; the run still has to be closed.
		err := e.Error
		if err == nil {
			err = errors.New("run cancelled")
		}
		return m.RunError(err)

	case event.StepStart:
		return events.NewStepStartedEvent(e.StepName)
	case event.StepEnd:
		return events.NewStepFinishedEvent(e.StepName)

	case event.StateSnapshot:
		return m.StateSnapshot(e.State)
	case event.RouteSelected:
		return events.NewCustomEvent(CustomRouteSelected, events.WithValue(RouteValue{
			Stage: e.StepName,
			Label: e.RouteName,
			Next:  e.Next,
		}))

	default:
		return nil
	}
}

// MapStream converts a run event stream, dropping events without an AG-UI
// equivalent. The returned channel closes when in closes.
func (m *Mapper) MapStream(in <-chan event.Event) <-chan events.Event {
	out := make(chan events.Event, cap(in))
	go func() {
		defer close(out)
		for e := range in {
			if ev := m.MapEvent(e); ev != nil {
				out <- ev
			}
		}
	}()
	return out
}
