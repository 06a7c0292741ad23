// Package metrics exposes the admin's Prometheus collectors on a private
// registry.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "parkadmin"

// Mutation results.
const (
	ResultSuccess  = "success"
	ResultFailure  = "failure"
	ResultRejected = "rejected"
)

// Metrics holds the application collectors. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	registry        *prometheus.Registry
	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	mutations       *prometheus.CounterVec
	inFlightRejects *prometheus.CounterVec
	panics          *prometheus.CounterVec
}

// New creates and registers all collectors, including Go runtime and process
// collectors.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	m := &Metrics{
		registry: registry,
		requestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		}, []string{"method", "route"}),
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mutations_total",
			Help:      "Create, update, delete and toggle operations by outcome",
		}, []string{"resource", "operation", "result"}),
		inFlightRejects: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mutations_in_flight_rejected_total",
			Help:      "Mutations ignored because the same row was still processing",
		}, []string{"resource", "operation"}),
		panics: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_panics_total",
			Help:      "Handler panics recovered by the recovery middleware",
		}, []string{"method", "route"}),
	}

	registry.MustRegister(
		m.requestTotal,
		m.requestDuration,
		m.mutations,
		m.inFlightRejects,
		m.panics,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// ObserveRequest records one finished HTTP request. route is the gin route
// template, not the raw path, to keep label cardinality bounded.
func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.requestTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// Mutation records the result of a page or API mutation.
func (m *Metrics) Mutation(resource, operation string, err error) {
	if m == nil {
		return
	}
	result := ResultSuccess
	if err != nil {
		result = ResultFailure
	}
	m.mutations.WithLabelValues(resource, operation, result).Inc()
}

// Rejected records a mutation that was ignored because the row was busy.
func (m *Metrics) Rejected(resource, operation string) {
	if m == nil {
		return
	}
	m.mutations.WithLabelValues(resource, operation, ResultRejected).Inc()
	m.inFlightRejects.WithLabelValues(resource, operation).Inc()
}

// ObservePanic records one recovered handler panic.
func (m *Metrics) ObservePanic(method, route string) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.panics.WithLabelValues(method, route).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}
