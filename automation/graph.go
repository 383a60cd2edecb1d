package automation

import "github.com/spetersoncode/cyclegraph/graph"

// GraphName is the registry name of the automation recommender.
const GraphName = "automation"

// Stage names.
const (
	StageIngestion      = "ingestion"
	StageAnalysis       = "analysis"
	StageRecommendation = "recommendation"
	StagePresentation   = "presentation"
	StageReview         = "review"
	StageDeploy         = "deploy"
	StageFeedback       = "feedback"
)

// New builds the automation recommender graph:
//
//	ingestion -> analysis -> recommendation -> presentation -> review
//	review   -approved->     deploy
//	review   -rejected->     analysis
//	review   -max_rejected-> end
//	deploy -> feedback
//	feedback -continue->     ingestion
//	feedback -end->          end
func New(opts ...Option) (*graph.Graph, error) {
	st := NewStages(opts...)

	return graph.NewBuilder(GraphName).
		AddStage(StageIngestion, st.Ingest).
		AddStage(StageAnalysis, st.Analyze).
		AddStage(StageRecommendation, st.Recommend).
		AddStage(StagePresentation, st.Present).
		AddStage(StageReview, st.Review).
		AddStage(StageDeploy, st.Deploy).
		AddStage(StageFeedback, st.CollectFeedback).
		SetEntry(StageIngestion).
		AddEdge(StageIngestion, StageAnalysis).
		AddEdge(StageAnalysis, StageRecommendation).
		AddEdge(StageRecommendation, StagePresentation).
		AddEdge(StagePresentation, StageReview).
		AddConditionalEdge(StageReview, RouteReview(), map[string]string{
			LabelApproved:    StageDeploy,
			LabelRejected:    StageAnalysis,
			LabelMaxRejected: graph.End,
		}).
		AddEdge(StageDeploy, StageFeedback).
		AddConditionalEdge(StageFeedback, RouteContinue(), map[string]string{
			LabelContinue: StageIngestion,
			LabelEnd:      graph.End,
		}).
		WithSchema(Schema()).
		Compile()
}
