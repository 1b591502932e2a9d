// Package observability holds the Prometheus collector and the OpenTelemetry
// tracer setup shared by the server, the record sources and the enrich
// pipeline.
package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const Namespace = "mactutor"

// Collector owns its registry, so every instance (and every test) gets a
// fresh set of metrics.
type Collector struct {
	registry *prometheus.Registry

	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	SourceFetches  *prometheus.CounterVec
	SourceDuration *prometheus.HistogramVec
	SourceRecords  *prometheus.CounterVec
	BreakerState   *prometheus.GaugeVec

	GraphBuilds prometheus.Counter
	GraphNodes  prometheus.Gauge
	GraphLinks  prometheus.Gauge

	EnrichRecords *prometheus.CounterVec
}

func NewCollector(namespace string) *Collector {
	registry := prometheus.NewRegistry()

	c := &Collector{
		registry: registry,
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		SourceFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "source_fetches_total",
			Help:      "Record source calls by source, operation and outcome",
		}, []string{"source", "operation", "status"}),
		SourceDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "source_fetch_duration_seconds",
			Help:      "Record source call duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"source", "operation"}),
		SourceRecords: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "source_records_total",
			Help:      "Records returned by the record source",
		}, []string{"source"}),
		BreakerState: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "circuit_breaker_state",
			Help:      "Circuit breaker state (0 closed, 1 half-open, 2 open)",
		}, []string{"name"}),
		GraphBuilds: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "graph_builds_total",
			Help:      "Number of graph models derived from committed filters",
		}),
		GraphNodes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "graph_nodes",
			Help:      "Nodes in the current graph model",
		}),
		GraphLinks: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "graph_links",
			Help:      "Links in the current graph model",
		}),
		EnrichRecords: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "enrich_records_total",
			Help:      "Biographies processed by the enrich pipeline by outcome",
		}, []string{"status"}),
	}

	registry.MustRegister(
		c.HTTPRequests,
		c.HTTPDuration,
		c.SourceFetches,
		c.SourceDuration,
		c.SourceRecords,
		c.BreakerState,
		c.GraphBuilds,
		c.GraphNodes,
		c.GraphLinks,
		c.EnrichRecords,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return c
}

func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

func (c *Collector) ObserveHTTP(method, route string, status int, d time.Duration) {
	c.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.HTTPDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func (c *Collector) ObserveFetch(source, operation string, err error, records int, d time.Duration) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	c.SourceFetches.WithLabelValues(source, operation, status).Inc()
	c.SourceDuration.WithLabelValues(source, operation).Observe(d.Seconds())
	if records > 0 {
		c.SourceRecords.WithLabelValues(source).Add(float64(records))
	}
}

func (c *Collector) ObserveGraph(nodes, links int) {
	c.GraphBuilds.Inc()
	c.GraphNodes.Set(float64(nodes))
	c.GraphLinks.Set(float64(links))
}
