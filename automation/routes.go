package automation

import (
	"github.com/spetersoncode/cyclegraph/graph"
	"github.com/spetersoncode/cyclegraph/state"
)

// Routing labels.
const (
	LabelApproved    = "approved"
	LabelRejected    = "rejected"
	LabelMaxRejected = "max_rejected"
	LabelContinue    = "continue"
	LabelEnd         = "end"
)

// MaxReviewCycles is the number of rejected reviews after which a run
// gives up instead of re-analysing again.
const MaxReviewCycles = 3

// ReviewDecision routes after the review stage: approval wins regardless of
// the cycle count, and repeated rejection ends the run.
func ReviewDecision(s *state.State) string {
	switch {
	case state.Lookup(s, KeyApprovalStatus):
		return LabelApproved
	case state.Lookup(s, KeyReviewCycles) >= MaxReviewCycles:
		return LabelMaxRejected
	default:
		return LabelRejected
	}
}

// ContinueDecision routes after the feedback stage: another full pass while
// fewer than cfg.MaxCycles cycles have completed.
func ContinueDecision(s *state.State, cfg graph.RunConfig) string {
	if state.Lookup(s, KeyCycleCount) < cfg.MaxCycles {
		return LabelContinue
	}
	return LabelEnd
}

// RouteReview is the state-only router of the review stage.
func RouteReview() graph.Router {
	return graph.RouteOnState(ReviewDecision, LabelApproved, LabelMaxRejected, LabelRejected)
}

// RouteContinue is the state+config router of the feedback stage.
func RouteContinue() graph.Router {
	return graph.RouteOnStateAndConfig(ContinueDecision, LabelContinue, LabelEnd)
}
