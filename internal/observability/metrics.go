package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce          sync.Once
	httpRequestsTotal     *prometheus.CounterVec
	httpLatencySeconds    *prometheus.HistogramVec
	httpErrorsTotal       *prometheus.CounterVec
	submissionsTotal      *prometheus.CounterVec
	unknownRationaleTotal prometheus.Counter
	regradeRunsTotal      prometheus.Counter
	regradeGradesChanged  prometheus.Counter
)

// RegisterMetrics initialises the Prometheus collectors.
func RegisterMetrics() {
	registerOnce.Do(func() {
		httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		httpLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		httpErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_errors_total",
			Help: "Total number of error responses returned by the API.",
		}, []string{"method", "route", "status"})

		submissionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "grading_submissions_total",
			Help: "Graded submissions partitioned by track and credit outcome.",
		}, []string{"track_reason", "credit_reason"})

		unknownRationaleTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "grading_unknown_rationale_total",
			Help: "Submissions whose rationale hit an unreachable branch; every increment warrants investigation.",
		})

		regradeRunsTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "grading_regrade_runs_total",
			Help: "Completed regrade replays.",
		})

		regradeGradesChanged = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "grading_regrade_grades_changed_total",
			Help: "Grade aggregates whose fields moved during a regrade replay.",
		})

		prometheus.MustRegister(
			httpRequestsTotal,
			httpLatencySeconds,
			httpErrorsTotal,
			submissionsTotal,
			unknownRationaleTotal,
			regradeRunsTotal,
			regradeGradesChanged,
		)
	})
}

// HTTPRequests exposes the counter for API requests.
func HTTPRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return httpRequestsTotal
}

// HTTPLatency exposes the latency histogram for API requests.
func HTTPLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return httpLatencySeconds
}

// HTTPErrors exposes the counter for API error responses.
func HTTPErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return httpErrorsTotal
}

// Submissions exposes the per-outcome submission counter.
func Submissions() *prometheus.CounterVec {
	RegisterMetrics()
	return submissionsTotal
}

// UnknownRationale exposes the internal-consistency alert counter.
func UnknownRationale() prometheus.Counter {
	RegisterMetrics()
	return unknownRationaleTotal
}

// RegradeRuns exposes the regrade completion counter.
func RegradeRuns() prometheus.Counter {
	RegisterMetrics()
	return regradeRunsTotal
}

// RegradeGradesChanged exposes the counter of grades moved by regrades.
func RegradeGradesChanged() prometheus.Counter {
	RegisterMetrics()
	return regradeGradesChanged
}
