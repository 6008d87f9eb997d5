// Package metrics exposes the dashboard's Prometheus collectors.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns a private registry so several servers can live in one process
// (as they do in tests).
type Metrics struct {
	registry        *prometheus.Registry
	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
	backendDuration *prometheus.HistogramVec
	cacheLookups    *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "edulife_admin",
			Name:      "http_requests_total",
			Help:      "Dashboard requests by route pattern and status.",
		}, []string{"route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "edulife_admin",
			Name:      "http_request_duration_seconds",
			Help:      "Dashboard request latency by route pattern.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		backendDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "edulife_admin",
			Name:      "backend_request_duration_seconds",
			Help:      "School API call latency by endpoint and status; status 0 is a transport error.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"endpoint", "status"}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "edulife_admin",
			Name:      "cache_lookups_total",
			Help:      "Query cache lookups by query name and result.",
		}, []string{"query", "result"}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequests,
		m.httpDuration,
		m.backendDuration,
		m.cacheLookups,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveRequest records one served dashboard request. route is the
// ServeMux pattern, or "unmatched".
func (m *Metrics) ObserveRequest(route string, status int, elapsed time.Duration) {
	m.httpRequests.WithLabelValues(route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(route).Observe(elapsed.Seconds())
}

// ObserveBackend matches backend.Observer.
func (m *Metrics) ObserveBackend(endpoint string, status int, elapsed time.Duration) {
	m.backendDuration.WithLabelValues(endpoint, strconv.Itoa(status)).Observe(elapsed.Seconds())
}

// Hit and Miss implement cache.Stats.
func (m *Metrics) Hit(name string) {
	m.cacheLookups.WithLabelValues(name, "hit").Inc()
}

func (m *Metrics) Miss(name string) {
	m.cacheLookups.WithLabelValues(name, "miss").Inc()
}
