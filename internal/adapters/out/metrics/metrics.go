// Package metrics exports assignment and HTTP metrics to Prometheus.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"dispatch/internal/core/domain/model/assignment"
	"dispatch/internal/core/ports"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	OutcomeAssigned     = "assigned"
	OutcomeNoCandidates = "no_candidates"
	OutcomeAtCapacity   = "at_capacity"
	OutcomeError        = "error"
)

// Metrics owns a dedicated registry with the dispatch collectors.
type Metrics struct {
	Registry *prometheus.Registry

	assignments   *prometheus.CounterVec
	duration      *prometheus.HistogramVec
	candidates    prometheus.Histogram
	finalScore    prometheus.Histogram
	httpRequests  *prometheus.CounterVec
	httpDurations *prometheus.HistogramVec
}

var _ ports.AssignmentObserver = (*Metrics)(nil)

// New registers the collectors, plus the Go and process collectors, on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		assignments: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "dispatch",
				Name:      "assignments_total",
				Help:      "Assignment attempts by algorithm and outcome.",
			},
			[]string{"algorithm", "outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "dispatch",
				Name:      "assignment_duration_seconds",
				Help:      "Time spent per assignment attempt.",
				Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
			},
			[]string{"algorithm"},
		),
		candidates: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "dispatch",
			Name:      "assignment_candidates",
			Help:      "Candidates considered per assignment attempt.",
			Buckets:   []float64{0, 1, 2, 5, 10, 20, 50, 100},
		}),
		finalScore: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "dispatch",
			Name:      "assignment_final_score",
			Help:      "Final score of the winning driver.",
			Buckets:   prometheus.LinearBuckets(0.1, 0.1, 10),
		}),
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "http_requests_total", Help: "Total HTTP requests."},
			[]string{"method", "path", "status"},
		),
		httpDurations: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
	}

	m.Registry.MustRegister(
		m.assignments,
		m.duration,
		m.candidates,
		m.finalScore,
		m.httpRequests,
		m.httpDurations,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) ObserveAssignment(result assignment.Result, elapsed time.Duration) {
	algorithm := string(result.Algorithm)
	m.assignments.WithLabelValues(algorithm, Outcome(result)).Inc()
	m.duration.WithLabelValues(algorithm).Observe(elapsed.Seconds())
	m.candidates.Observe(float64(result.CandidateCount))
	if result.Success && result.Score != nil {
		m.finalScore.Observe(result.Score.FinalScore)
	}
}

// ObserveHTTP records one served request. path should be the route pattern,
// not the raw URL, to keep label cardinality bounded.
func (m *Metrics) ObserveHTTP(method, path string, status int, elapsed time.Duration) {
	code := strconv.Itoa(status)
	m.httpRequests.WithLabelValues(method, path, code).Inc()
	m.httpDurations.WithLabelValues(method, path, code).Observe(elapsed.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}

// Outcome classifies a result into a low-cardinality label value.
func Outcome(result assignment.Result) string {
	switch {
	case result.Success:
		return OutcomeAssigned
	case result.Reason == assignment.ReasonNoDriversInRange:
		return OutcomeNoCandidates
	case result.Reason == assignment.ReasonAllDriversAtLimit:
		return OutcomeAtCapacity
	default:
		return OutcomeError
	}
}
