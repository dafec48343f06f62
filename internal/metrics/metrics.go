package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Pipeline metrics
	PipelineRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "medi_skimap",
		Subsystem: "pipeline",
		Name:      "runs_total",
		Help:      "Total extraction runs by outcome",
	}, []string{"outcome"})

	PipelineRunDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "medi_skimap",
		Subsystem: "pipeline",
		Name:      "run_duration_seconds",
		Help:      "Duration of a single extraction run",
		Buckets:   []float64{1, 5, 10, 30, 60, 120, 300},
	})

	FeaturesAssembled = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "medi_skimap",
		Subsystem: "features",
		Name:      "assembled_total",
		Help:      "Total features assembled from the raw graph",
	}, []string{"kind"})

	FeaturesDropped = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "medi_skimap",
		Subsystem: "features",
		Name:      "dropped_total",
		Help:      "Total non-fatal feature problems by stage",
	}, []string{"stage"})

	// Upstream metrics
	UpstreamRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "medi_skimap",
		Subsystem: "upstream",
		Name:      "requests_total",
		Help:      "Total requests to external geodata services",
	}, []string{"service", "outcome"})

	ElevationFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "medi_skimap",
		Subsystem: "elevation",
		Name:      "fallbacks_total",
		Help:      "Total runs that fell back to a flat elevation grid",
	})
)

// Run outcomes.
const (
	OutcomeSuccess  = "success"
	OutcomeNotFound = "not_found"
	OutcomeUpstream = "upstream_error"
	OutcomeNoData   = "no_data"
	OutcomeError    = "error"
	OutcomeCanceled = "canceled"
)

// ObserveUpstream counts one request to an external service.
func ObserveUpstream(service string, err error) {
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeError
	}
	UpstreamRequests.WithLabelValues(service, outcome).Inc()
}

// Handler returns the prometheus exposition handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
