package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"harvestcycle/internal/domain/replacement"
	"harvestcycle/internal/domain/shared/events"
)

const namespace = "harvestcycle"

// Metrics exposes Prometheus collectors for fresh-swap activity and the HTTP surface.
// It subscribes to domain events, so counters only move after a write committed.
type Metrics struct {
	registry        *prometheus.Registry
	requestsCreated prometheus.Counter
	transitions     *prometheus.CounterVec
	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
}

// New builds the collectors on a private registry together with the Go and
// process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requestsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "replacement",
			Name:      "requests_created_total",
			Help:      "Fresh-swap requests accepted.",
		}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "replacement",
			Name:      "status_transitions_total",
			Help:      "Administrative status changes by source and target status.",
		}, []string{"from", "to"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route, method and status code.",
		}, []string{"route", "method", "code"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
	}

	m.registry.MustRegister(
		m.requestsCreated,
		m.transitions,
		m.httpRequests,
		m.httpDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveHTTP records one served request.
func (m *Metrics) ObserveHTTP(route, method string, code int, elapsed time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.httpRequests.WithLabelValues(route, method, strconv.Itoa(code)).Inc()
	m.httpDuration.WithLabelValues(route, method).Observe(elapsed.Seconds())
}

func (m *Metrics) CanHandle(eventType string) bool {
	return eventType == replacement.EventTypeCreated || eventType == replacement.EventTypeStatusChanged
}

func (m *Metrics) Handle(event events.DomainEvent) error {
	switch e := event.(type) {
	case *replacement.RequestCreatedEvent:
		m.requestsCreated.Inc()
	case *replacement.RequestStatusChangedEvent:
		m.transitions.WithLabelValues(string(e.From), string(e.To)).Inc()
	}
	return nil
}
