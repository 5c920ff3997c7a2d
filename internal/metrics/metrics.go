package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for profile evaluation and the HTTP surface.
type Metrics struct {
	// Classification outcomes by membership and experience level
	Evaluations *prometheus.CounterVec

	// Signal loading plus classification latency
	EvaluateLatency prometheus.Histogram

	// Profile cache lookups by result: hit, miss, error
	CacheLookups *prometheus.CounterVec

	// HTTP requests by method, route and status class
	Requests *prometheus.CounterVec
}

// New registers every metric on reg. Tests pass a fresh registry.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Evaluations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "listinghub_profile_evaluations_total",
			Help: "Profile classifications by membership and experience level",
		}, []string{"membership", "experience"}),

		EvaluateLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "listinghub_profile_evaluate_duration_seconds",
			Help:    "Duration of signal loading and classification",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),

		CacheLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "listinghub_profile_cache_lookups_total",
			Help: "Profile cache lookups by result",
		}, []string{"result"}),

		Requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "listinghub_http_requests_total",
			Help: "HTTP requests by method, route and status class",
		}, []string{"method", "route", "status"}),
	}
}

// IncrementEvaluation records a classification outcome.
func (m *Metrics) IncrementEvaluation(membership, experience string) {
	if m != nil {
		m.Evaluations.WithLabelValues(membership, experience).Inc()
	}
}

// ObserveEvaluateLatency records the total evaluation duration.
func (m *Metrics) ObserveEvaluateLatency(d time.Duration) {
	if m != nil {
		m.EvaluateLatency.Observe(d.Seconds())
	}
}

// IncrementCacheLookup records a cache hit, miss or error.
func (m *Metrics) IncrementCacheLookup(result string) {
	if m != nil {
		m.CacheLookups.WithLabelValues(result).Inc()
	}
}

// IncrementRequest records one served HTTP request.
func (m *Metrics) IncrementRequest(method, route string, status int) {
	if m != nil {
		m.Requests.WithLabelValues(method, route, statusClass(status)).Inc()
	}
}

func statusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
