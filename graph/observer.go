package graph

import "time"

// Observer receives run telemetry. Implementations must be safe for
// concurrent use when shared between runs.
type Observer interface {
	// StageCompleted fires after each stage invocation; err is the stage
	// failure, if any.
	StageCompleted(graph, stage string, d time.Duration, err error)

	// RouteSelected fires when a conditional edge resolves a label.
	RouteSelected(graph, stage, label string)

	// RunFinished fires once per run with its result.
	RunFinished(graph string, res *Result, d time.Duration)
}

type nopObserver struct{}

func (nopObserver) StageCompleted(string, string, time.Duration, error) {}
func (nopObserver) RouteSelected(string, string, string)                {}
func (nopObserver) RunFinished(string, *Result, time.Duration)          {}

// Observers returns an Observer that forwards every callback to each of
// obs in order. Nil entries are skipped.
func Observers(obs ...Observer) Observer {
	var fan multiObserver
	for _, o := range obs {
		if o != nil {
			fan = append(fan, o)
		}
	}
	if len(fan) == 0 {
		return nopObserver{}
	}
	if len(fan) == 1 {
		return fan[0]
	}
	return fan
}

type multiObserver []Observer

func (m multiObserver) StageCompleted(graph, stage string, d time.Duration, err error) {
	for _, o := range m {
		o.StageCompleted(graph, stage, d, err)
	}
}

func (m multiObserver) RouteSelected(graph, stage, label string) {
	for _, o := range m {
		o.RouteSelected(graph, stage, label)
	}
}

func (m multiObserver) RunFinished(graph string, res *Result, d time.Duration) {
	for _, o := range m {
		o.RunFinished(graph, res, d)
	}
}
