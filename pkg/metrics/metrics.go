package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Connection results.
const (
	ResultMatched = "matched"
	ResultMissed  = "missed"
)

// Handler error kinds.
const (
	KindMalformed     = "malformed"
	KindConfiguration = "configuration"
)

// Metrics holds the mockevent collectors.
type Metrics struct {
	// HandlersRegistered counts successful registrations.
	HandlersRegistered prometheus.Counter

	// Connections counts finished scans.
	// Labels: result (matched, missed)
	Connections *prometheus.CounterVec

	// EventsDispatched counts responses delivered to an open connection.
	EventsDispatched prometheus.Counter

	// EventsDropped counts responses dequeued while the connection was not open.
	EventsDropped prometheus.Counter

	// HandlerErrors counts raised handler error events.
	// Labels: kind (malformed, configuration)
	HandlerErrors *prometheus.CounterVec

	gatherer prometheus.Gatherer
}

// New creates the collectors and registers them with reg.
// A nil reg gets a fresh private registry.
func New(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	m := &Metrics{
		HandlersRegistered: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "mockevent_handlers_registered_total",
			Help: "Total number of mock handlers registered",
		}),
		Connections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mockevent_connections_total",
			Help: "Total number of connections by match result",
		}, []string{"result"}),
		EventsDispatched: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "mockevent_events_dispatched_total",
			Help: "Total number of events dispatched to open connections",
		}),
		EventsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "mockevent_events_dropped_total",
			Help: "Total number of responses dropped because the connection was not open",
		}),
		HandlerErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mockevent_handler_errors_total",
			Help: "Total number of handler error events by kind",
		}, []string{"kind"}),
	}

	for _, c := range []prometheus.Collector{
		m.HandlersRegistered, m.Connections, m.EventsDispatched, m.EventsDropped, m.HandlerErrors,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	if g, ok := reg.(prometheus.Gatherer); ok {
		m.gatherer = g
	}
	return m, nil
}

// Gatherer returns the registry the collectors were registered with, if it can gather.
func (m *Metrics) Gatherer() prometheus.Gatherer {
	if m == nil {
		return nil
	}
	return m.gatherer
}

// HandlerRegistered records a registration.
func (m *Metrics) HandlerRegistered() {
	if m == nil {
		return
	}
	m.HandlersRegistered.Inc()
}

// ConnectionMatched records a connection bound to a handler.
func (m *Metrics) ConnectionMatched() {
	if m == nil {
		return
	}
	m.Connections.WithLabelValues(ResultMatched).Inc()
}

// ConnectionMissed records a connection no handler matched.
func (m *Metrics) ConnectionMissed() {
	if m == nil {
		return
	}
	m.Connections.WithLabelValues(ResultMissed).Inc()
}

// EventDispatched records a delivered response.
func (m *Metrics) EventDispatched() {
	if m == nil {
		return
	}
	m.EventsDispatched.Inc()
}

// EventDropped records a response lost to a closed connection.
func (m *Metrics) EventDropped() {
	if m == nil {
		return
	}
	m.EventsDropped.Inc()
}

// HandlerError records a handler error event of the given kind.
func (m *Metrics) HandlerError(kind string) {
	if m == nil {
		return
	}
	m.HandlerErrors.WithLabelValues(kind).Inc()
}

var (
	defaultMetrics *Metrics
	initOnce       sync.Once
)

// Default returns the process-wide Metrics, creating it on first call.
func Default() *Metrics {
	initOnce.Do(func() {
		// A private registry cannot collide, so the error is always nil.
		defaultMetrics, _ = New(prometheus.NewRegistry())
	})
	return defaultMetrics
}
