// Package metrics exposes Prometheus instrumentation for the HTTP API,
// dataset downloads and warehouse loads.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors, registered on a private registry so tests
// can run in parallel without collisions.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	downloads    *prometheus.CounterVec
	loadRows     *prometheus.GaugeVec
	loadDuration *prometheus.HistogramVec

	queryDuration *prometheus.HistogramVec
}

// New creates and registers the collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gridstats_http_requests_total",
			Help: "HTTP requests by method, route pattern and status code.",
		}, []string{"method", "path", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "gridstats_http_request_duration_seconds",
			Help:    "HTTP request latency by route pattern.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
		downloads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gridstats_dataset_downloads_total",
			Help: "Dataset downloads by dataset and outcome.",
		}, []string{"dataset", "outcome"}),
		loadRows: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "gridstats_load_rows",
			Help: "Rows held per dataset season after the most recent load.",
		}, []string{"dataset", "season"}),
		loadDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "gridstats_load_duration_seconds",
			Help:    "Wall time of a season load, download included.",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600},
		}, []string{"dataset"}),
		queryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "gridstats_query_duration_seconds",
			Help:    "Warehouse query latency by query name.",
			Buckets: prometheus.DefBuckets,
		}, []string{"query"}),
	}

	m.registry.MustRegister(
		m.httpRequests, m.httpDuration,
		m.downloads, m.loadRows, m.loadDuration,
		m.queryDuration,
	)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware records request counts and latency. Nil-safe so handlers can
// be tested without metrics.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		// The route pattern is only known once the router has dispatched,
		// so it is read after the handler runs.
		path := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				path = pattern
			}
		}

		m.httpRequests.WithLabelValues(r.Method, path, strconv.Itoa(ww.Status())).Inc()
		m.httpDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
	})
}

// RecordDownload counts one dataset download attempt.
func (m *Metrics) RecordDownload(dataset string, err error) {
	if m == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.downloads.WithLabelValues(dataset, outcome).Inc()
}

// RecordLoad tracks the duration and resulting row count of a season load.
func (m *Metrics) RecordLoad(dataset string, season int, rows int64, duration time.Duration) {
	if m == nil {
		return
	}
	m.loadRows.WithLabelValues(dataset, strconv.Itoa(season)).Set(float64(rows))
	m.loadDuration.WithLabelValues(dataset).Observe(duration.Seconds())
}

// ObserveQuery tracks the latency of one named warehouse query.
func (m *Metrics) ObserveQuery(query string, duration time.Duration) {
	if m == nil {
		return
	}
	m.queryDuration.WithLabelValues(query).Observe(duration.Seconds())
}
