// Package metrics records graph runs as Prometheus metrics.
//
//	rec := metrics.NewRecorder(prometheus.DefaultRegisterer)
//	res, err := g.Run(ctx, cfg, graph.WithObserver(rec))
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/spetersoncode/cyclegraph/graph"
)

const namespace = "cyclegraph"

// Recorder implements graph.Observer on top of Prometheus collectors.
// It is safe for concurrent runs.
type Recorder struct {
	runsTotal     *prometheus.CounterVec
	runDuration   *prometheus.HistogramVec
	runSteps      *prometheus.HistogramVec
	stagesTotal   *prometheus.CounterVec
	stageDuration *prometheus.HistogramVec
	routesTotal   *prometheus.CounterVec
}

var _ graph.Observer = (*Recorder)(nil)

// NewRecorder creates a Recorder and registers its collectors with reg.
// A nil reg uses prometheus.DefaultRegisterer. Registering twice with the
// same registerer panics.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	r := &Recorder{
		runsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "runs_total",
				Help:      "Total number of graph runs by termination reason",
			},
			[]string{"graph", "termination"},
		),
		runDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "run_duration_seconds",
				Help:      "Duration of graph runs",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"graph"},
		),
		runSteps: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "run_steps",
				Help:      "Stage invocations per graph run",
				Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
			},
			[]string{"graph"},
		),
		stagesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "stages_total",
				Help:      "Total number of stage invocations by status",
			},
			[]string{"graph", "stage", "status"},
		),
		stageDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "stage_duration_seconds",
				Help:      "Duration of stage invocations",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"graph", "stage"},
		),
		routesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "routes_total",
				Help:      "Total number of conditional routing decisions by label",
			},
			[]string{"graph", "stage", "label"},
		),
	}

	reg.MustRegister(r.runsTotal, r.runDuration, r.runSteps, r.stagesTotal, r.stageDuration, r.routesTotal)
	return r
}

// StageCompleted implements graph.Observer.
func (r *Recorder) StageCompleted(graphName, stage string, d time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	r.stagesTotal.WithLabelValues(graphName, stage, status).Inc()
	r.stageDuration.WithLabelValues(graphName, stage).Observe(d.Seconds())
}

// RouteSelected implements graph.Observer.
func (r *Recorder) RouteSelected(graphName, stage, label string) {
	r.routesTotal.WithLabelValues(graphName, stage, label).Inc()
}

// RunFinished implements graph.Observer.
func (r *Recorder) RunFinished(graphName string, res *graph.Result, d time.Duration) {
	r.runsTotal.WithLabelValues(graphName, string(res.Termination)).Inc()
	r.runDuration.WithLabelValues(graphName).Observe(d.Seconds())
	r.runSteps.WithLabelValues(graphName).Observe(float64(res.Steps))
}
