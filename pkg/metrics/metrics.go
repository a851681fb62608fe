package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "weatherwise"

// Metrics holds the Prometheus collectors exported by the service.
type Metrics struct {
	Analyses          *prometheus.CounterVec // labels: profile
	AdvisoriesEmitted *prometheus.CounterVec // labels: category, priority
	Elaborations      *prometheus.CounterVec // labels: topic
	SessionRecomputes prometheus.Counter
	Reports           *prometheus.CounterVec // labels: format
	HTTPDuration      *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Analyses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analyses_total",
			Help:      "Weather metric syntheses by profile.",
		}, []string{"profile"}),
		AdvisoriesEmitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "advisories_emitted_total",
			Help:      "Advisory items returned to callers.",
		}, []string{"category", "priority"}),
		Elaborations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "elaborations_total",
			Help:      "Elaboration lookups by matched topic.",
		}, []string{"topic"}),
		SessionRecomputes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "session_recomputes_total",
			Help:      "Deferred session metric loads that fired.",
		}),
		Reports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reports_total",
			Help:      "Exported reports by format.",
		}, []string{"format"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}

	if reg != nil {
		reg.MustRegister(
			m.Analyses,
			m.AdvisoriesEmitted,
			m.Elaborations,
			m.SessionRecomputes,
			m.Reports,
			m.HTTPDuration,
		)
	}
	return m
}

// NewForTesting returns unregistered collectors.
func NewForTesting() *Metrics {
	return New(nil)
}
