// Package metrics exposes Prometheus counters for the event logger.
// Each Metrics owns its registry so independent loggers never clash.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics is the set of counters updated by the logger.
type Metrics struct {
	registry *prometheus.Registry

	// EventsTotal counts stored events.
	// labels: level
	EventsTotal *prometheus.CounterVec

	// CollisionsTotal counts (group, id) collisions.
	CollisionsTotal prometheus.Counter

	// ConsoleSuppressed counts events kept from the console by the threshold.
	// labels: level
	ConsoleSuppressed *prometheus.CounterVec

	// ListenerDispatches counts listener invocations that were scheduled.
	ListenerDispatches prometheus.Counter

	// ListenerPanics counts listener callbacks that panicked.
	ListenerPanics prometheus.Counter
}

// New creates the counters on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		EventsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "eventlog",
			Name:      "events_total",
			Help:      "Total number of events stored",
		}, []string{"level"}),
		CollisionsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "eventlog",
			Name:      "collisions_total",
			Help:      "Total number of duplicate (group, id) appends",
		}),
		ConsoleSuppressed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "eventlog",
			Name:      "console_suppressed_total",
			Help:      "Events not written to the console because of the level threshold",
		}, []string{"level"}),
		ListenerDispatches: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "eventlog",
			Name:      "listener_dispatches_total",
			Help:      "Total number of scheduled listener invocations",
		}),
		ListenerPanics: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "eventlog",
			Name:      "listener_panics_total",
			Help:      "Total number of listener callbacks that panicked",
		}),
	}
}

// RecordEvent counts a stored event
func (m *Metrics) RecordEvent(level string) {
	if m == nil {
		return
	}
	m.EventsTotal.WithLabelValues(level).Inc()
}

// RecordCollision counts a duplicate append
func (m *Metrics) RecordCollision() {
	if m == nil {
		return
	}
	m.CollisionsTotal.Inc()
}

// RecordSuppressed counts a console write skipped by the threshold
func (m *Metrics) RecordSuppressed(level string) {
	if m == nil {
		return
	}
	m.ConsoleSuppressed.WithLabelValues(level).Inc()
}

// RecordDispatch counts a scheduled listener call
func (m *Metrics) RecordDispatch() {
	if m == nil {
		return
	}
	m.ListenerDispatches.Inc()
}

// RecordPanic counts a listener panic
func (m *Metrics) RecordPanic() {
	if m == nil {
		return
	}
	m.ListenerPanics.Inc()
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
