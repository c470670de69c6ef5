// Package metrics provides Prometheus metrics for web actions and engine calls.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels for action counters.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomePanic   = "panic"
)

// Metrics holds the web service collectors. A nil or disabled Metrics is a
// no-op.
type Metrics struct {
	enabled  bool
	registry *prometheus.Registry

	actionsTotal          *prometheus.CounterVec
	engineRequestDuration *prometheus.HistogramVec
	queryDegradedTotal    *prometheus.CounterVec
}

// New creates collectors on a dedicated registry.
// If enabled is false, returns a no-op Metrics instance.
func New(enabled bool) *Metrics {
	m := &Metrics{enabled: enabled}
	if !enabled {
		return m
	}
	m.registry = prometheus.NewRegistry()
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(m.registry)

	m.actionsTotal = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "spawnbot_web_actions_total",
		Help: "Total dispatcher actions by outcome",
	}, []string{"action", "outcome"})

	m.engineRequestDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "spawnbot_web_engine_request_duration_seconds",
		Help:    "Auth engine request duration in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "status"})

	m.queryDegradedTotal = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "spawnbot_web_query_degraded_total",
		Help: "Total read queries that degraded to a safe default",
	}, []string{"query"})

	return m
}

// Enabled reports whether collectors are registered.
func (m *Metrics) Enabled() bool {
	return m != nil && m.enabled
}

// RecordAction records one dispatcher action outcome.
func (m *Metrics) RecordAction(action, outcome string) {
	if !m.Enabled() {
		return
	}
	m.actionsTotal.WithLabelValues(action, outcome).Inc()
}

// ObserveEngineRequest records one engine round trip. A zero status means the
// request never produced a response.
func (m *Metrics) ObserveEngineRequest(operation string, status int, elapsed time.Duration) {
	if !m.Enabled() {
		return
	}
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	m.engineRequestDuration.WithLabelValues(operation, label).Observe(elapsed.Seconds())
}

// RecordQueryDegraded records a read query falling back to its default.
func (m *Metrics) RecordQueryDegraded(query string) {
	if !m.Enabled() {
		return
	}
	m.queryDegradedTotal.WithLabelValues(query).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if !m.Enabled() {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
