// Package automation is the reference stage set: an automation recommender
// that ingests mock business data, detects repetitive work, recommends
// automations, asks for review, deploys approved workflows and collects
// feedback before starting another cycle.
//
// Stages draw all randomness from RunConfig.Random, so a run with a fixed
// seed is reproducible:
//
//	g, err := automation.New()
//	if err != nil {
//		return err
//	}
//	res, err := g.Run(ctx, graph.RunConfig{AutoApprove: true, MaxCycles: 2, Seed: 42})
//
// Review routing sends a rejected review back to analysis and gives up
// after MaxReviewCycles rejections. Continuation routing starts a new cycle
// until RunConfig.MaxCycles cycles have completed.
package automation
