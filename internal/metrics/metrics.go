// Package metrics defines the Prometheus collectors exported by mdpipe.
// Collectors are package-level and registered against the default
// registry; the serve command exposes them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// PipelineRuns counts completed pipeline executions by outcome
	// (ok, error, terminated).
	PipelineRuns = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "mdpipe_pipeline_runs_total",
		Help: "Total number of pipeline executions by outcome",
	}, []string{"pipeline", "outcome"})

	// ItemsProcessed counts items present at the end of successful
	// pipeline executions.
	ItemsProcessed = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "mdpipe_items_processed_total",
		Help: "Total number of items emitted by successful pipeline executions",
	}, []string{"pipeline"})

	// StageDuration observes wall-clock time spent in each stage.
	StageDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "mdpipe_stage_duration_seconds",
		Help:    "Wall-clock duration of individual stage executions",
		Buckets: prometheus.DefBuckets,
	}, []string{"pipeline", "stage"})

	// RefreshFailures counts background refreshes of the query service
	// that failed and left the previous snapshot in place.
	RefreshFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "mdpipe_refresh_failures_total",
		Help: "Total number of failed background pipeline refreshes",
	}, []string{"pipeline"})
)

func init() {
	prometheus.MustRegister(
		PipelineRuns,
		ItemsProcessed,
		StageDuration,
		RefreshFailures,
	)
}
