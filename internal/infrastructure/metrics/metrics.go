package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles the gateway's Prometheus collectors.
type Metrics struct {
	registry *prometheus.Registry

	// QuestionDuration observes the end-to-end question path, labelled by
	// outcome (ok, upstream_error, transport_error).
	QuestionDuration *prometheus.HistogramVec

	// UpstreamFailures counts failed calls per upstream service.
	UpstreamFailures *prometheus.CounterVec

	// AuditLogFailures counts swallowed audit-log write errors. This is
	// the only consumer of the audit service's error channel.
	AuditLogFailures prometheus.Counter
}

// New creates the collectors on a dedicated registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		QuestionDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "shopsight",
			Name:      "question_duration_seconds",
			Help:      "Duration of the question-answering path.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"outcome"}),
		UpstreamFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "shopsight",
			Name:      "upstream_failures_total",
			Help:      "Failed calls to upstream services.",
		}, []string{"service"}),
		AuditLogFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "shopsight",
			Name:      "audit_log_failures_total",
			Help:      "Audit log writes that failed and were swallowed.",
		}),
	}
}

// Handler exposes the registry for the /metrics route.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
