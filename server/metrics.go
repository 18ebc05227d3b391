// Prometheus metrics: per-route request counts and latencies, live feed clients,
// server uptime and DB stats.

package main

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	versioncollector "github.com/prometheus/client_golang/prometheus/collectors/version"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/common/version"

	"github.com/yatube/yatube/server/logs"
	"github.com/yatube/yatube/server/store"
)

const metricsNamespace = "yatube"

type serverMetrics struct {
	requests    *prometheus.CounterVec
	latency     *prometheus.HistogramVec
	feedClients prometheus.Gauge
	posts       *prometheus.CounterVec
}

// Creates metrics and exposes them at the given path. Metrics are collected
// even when the path is disabled.
func newServerMetrics(mux *http.ServeMux, path string) *serverMetrics {
	m := &serverMetrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "http_requests_total",
			Help:      "Number of HTTP requests by route, method and status code.",
		}, []string{"route", "method", "code"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "http_request_duration_seconds",
			Help:      "Latency of HTTP requests by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		feedClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "feed_clients_live_count",
			Help:      "Number of connected live feed clients.",
		}),
		posts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "posts_total",
			Help:      "Number of created and edited posts.",
		}, []string{"op"}),
	}

	if path == "" || path == "-" {
		return m
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		versioncollector.NewCollector(metricsNamespace),
		newStatsCollector(metricsNamespace, time.Now()),
		m.requests, m.latency, m.feedClients, m.posts,
	)
	mux.Handle(path, promhttp.HandlerFor(registry, promhttp.HandlerOpts{ErrorLog: logs.Err}))

	logs.Info.Printf("metrics: exposed at '%s', %s", path, version.Info())

	return m
}

// Wraps a route handler with request counter and latency histogram.
func (m *serverMetrics) instrument(route string, handler http.Handler) http.Handler {
	if m == nil {
		return handler
	}
	labels := prometheus.Labels{"route": route}
	return promhttp.InstrumentHandlerCounter(m.requests.MustCurryWith(labels),
		promhttp.InstrumentHandlerDuration(m.latency.MustCurryWith(labels), handler))
}

func (m *serverMetrics) postCreated() {
	if m != nil {
		m.posts.WithLabelValues("create").Inc()
	}
}

func (m *serverMetrics) postEdited() {
	if m != nil {
		m.posts.WithLabelValues("edit").Inc()
	}
}

func (m *serverMetrics) feedClientsChanged(delta int) {
	if m != nil {
		m.feedClients.Add(float64(delta))
	}
}

// statsCollector reports values which are computed at scrape time.
type statsCollector struct {
	startedAt time.Time

	up      *prometheus.Desc
	uptime  *prometheus.Desc
	dbStats *prometheus.Desc
}

func newStatsCollector(namespace string, startedAt time.Time) *statsCollector {
	return &statsCollector{
		startedAt: startedAt,
		up: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "db_up"),
			"If the database connection is open.",
			nil,
			nil,
		),
		uptime: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "uptime_seconds"),
			"Server uptime in seconds.",
			nil,
			nil,
		),
		dbStats: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "db_stat"),
			"Numeric DB connection stats reported by the adapter.",
			[]string{"adapter", "name"},
			nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *statsCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.up
	ch <- c.uptime
	ch <- c.dbStats
}

// Collect implements prometheus.Collector.
func (c *statsCollector) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(c.uptime, prometheus.CounterValue, time.Since(c.startedAt).Seconds())

	up := float64(0)
	if store.Store.IsOpen() {
		up = 1
	}
	ch <- prometheus.MustNewConstMetric(c.up, prometheus.GaugeValue, up)

	statsFn := store.Store.DbStats()
	if statsFn == nil {
		return
	}
	adapter := store.Store.GetAdapterName()
	for name, val := range numericStats(statsFn()) {
		ch <- prometheus.MustNewConstMetric(c.dbStats, prometheus.GaugeValue, val, adapter, name)
	}
}
