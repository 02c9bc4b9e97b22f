// Package metrics holds the Prometheus instruments for the engine and its
// HTTP surface.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds all Prometheus metrics for the application. Each Collector
// owns its registry, so several can coexist in one process.
type Collector struct {
	registry *prometheus.Registry

	// Engine metrics
	Operations        *prometheus.CounterVec
	OperationDuration *prometheus.HistogramVec

	// Index metrics
	IndexRebuilds    prometheus.Counter
	IndexedDocuments prometheus.Gauge

	// Memory metrics
	InsightsRemembered prometheus.Counter

	// HTTP metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
}

// NewCollector creates a collector whose metric names are prefixed with namespace.
func NewCollector(namespace string) *Collector {
	registry := prometheus.NewRegistry()

	c := &Collector{
		registry: registry,
		Operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "operations_total",
				Help:      "Total number of engine operations by outcome",
			},
			[]string{"operation", "outcome"},
		),
		OperationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "operation_duration_seconds",
				Help:      "Engine operation duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		IndexRebuilds: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "index_rebuilds_total",
			Help:      "Total number of corpus index rebuilds",
		}),
		IndexedDocuments: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "indexed_documents",
			Help:      "Number of documents in the current corpus index",
		}),
		InsightsRemembered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "insights_remembered_total",
			Help:      "Total number of insights stored",
		}),
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
	}

	registry.MustRegister(
		c.Operations,
		c.OperationDuration,
		c.IndexRebuilds,
		c.IndexedDocuments,
		c.InsightsRemembered,
		c.HTTPRequests,
		c.HTTPDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return c
}

// Registry returns the collector's registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// ObserveOperation records one engine operation.
func (c *Collector) ObserveOperation(operation, outcome string, d time.Duration) {
	c.Operations.WithLabelValues(operation, outcome).Inc()
	c.OperationDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// ObserveHTTP records one HTTP request.
func (c *Collector) ObserveHTTP(method, route, status string, d time.Duration) {
	c.HTTPRequests.WithLabelValues(method, route, status).Inc()
	c.HTTPDuration.WithLabelValues(method, route).Observe(d.Seconds())
}
