package automation

import (
	"time"

	"github.com/spetersoncode/cyclegraph/state"
)

// State keys of the automation recommender.
var (
	KeyRawData           = state.NewKey[RawData]("raw_data")
	KeyAnalysis          = state.NewKey[Analysis]("analysis")
	KeyRecommendations   = state.NewKey[[]Recommendation]("recommendations")
	KeyUIDisplayed       = state.NewKey[bool]("ui_displayed")
	KeyApprovalStatus    = state.NewKey[bool]("approval_status")
	KeyReviewCycles      = state.NewKey[int]("review_cycles")
	KeyDeployedWorkflows = state.NewKey[[]string]("deployed_workflows")
	KeyDeployedAt        = state.NewKey[time.Time]("deployed_at")
	KeyUserFeedback      = state.NewKey[Feedback]("user_feedback")
	KeyCycleCount        = state.NewKey[int]("cycle_count")
)

// Schema declares every field the pipeline writes. Both counters are
// rejected if a stage tries to move them backwards.
func Schema() *state.Schema {
	s := state.NewSchema()
	state.Field(s, KeyRawData)
	state.Field(s, KeyAnalysis)
	state.Field(s, KeyRecommendations)
	state.Field(s, KeyUIDisplayed)
	state.Field(s, KeyApprovalStatus)
	state.Field(s, KeyReviewCycles, state.NonDecreasing())
	state.Field(s, KeyDeployedWorkflows)
	state.Field(s, KeyDeployedAt)
	state.Field(s, KeyUserFeedback)
	state.Field(s, KeyCycleCount, state.NonDecreasing())
	return s
}
