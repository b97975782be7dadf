package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// PipelineRuns counts finished pipeline runs by outcome. Status is one of
	// completed, all_clear, no_launch, insufficient_data, model_error.
	PipelineRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentinel_pipeline_runs_total",
			Help: "Pipeline runs by terminal status",
		},
		[]string{"pipeline", "status"},
	)

	// PhaseDuration tracks wall time per agent phase.
	PhaseDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sentinel_phase_duration_seconds",
			Help:    "Agent phase duration in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"pipeline", "agent"},
	)

	// ModelCalls counts upstream model invocations by provider and outcome.
	ModelCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentinel_model_calls_total",
			Help: "Model API calls by provider and status",
		},
		[]string{"provider", "status"},
	)
)

func init() {
	prometheus.MustRegister(PipelineRuns, PhaseDuration, ModelCalls)
}

// ObservePhase records the elapsed time of one agent phase.
func ObservePhase(pipeline, agent string, start time.Time) {
	PhaseDuration.WithLabelValues(pipeline, agent).Observe(time.Since(start).Seconds())
}

// RecordModelCall records one upstream call outcome.
func RecordModelCall(provider string, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	ModelCalls.WithLabelValues(provider, status).Inc()
}

// Handler exposes the Prometheus scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
