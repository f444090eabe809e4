// Package telemetry exposes Prometheus metrics for the dashboard service.
package telemetry

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsNamespace prefixes every metric name.
const MetricsNamespace = "flixlens"

// Metrics holds all Prometheus metrics. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	registry *prometheus.Registry

	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Dataset metrics
	DatasetTitles       prometheus.Gauge
	DatasetSkippedRows  prometheus.Gauge
	DatasetLoadsTotal   *prometheus.CounterVec
	DatasetLoadDuration prometheus.Histogram

	// View metrics
	ViewDuration *prometheus.HistogramVec
	ExportsTotal *prometheus.CounterVec
	ExportRows   prometheus.Histogram
}

// NewMetrics creates a registry with Go runtime collectors and registers
// every metric on it.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	factory := promauto.With(reg)
	m := &Metrics{registry: reg}

	m.initHTTPMetrics(factory)
	m.initDatasetMetrics(factory)
	m.initViewMetrics(factory)

	return m
}

func (m *Metrics) initHTTPMetrics(factory promauto.Factory) {
	m.RequestsTotal = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by method, route and status",
	}, []string{"method", "route", "status"})

	m.RequestDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: MetricsNamespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})
}

func (m *Metrics) initDatasetMetrics(factory promauto.Factory) {
	m.DatasetTitles = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: MetricsNamespace,
		Subsystem: "dataset",
		Name:      "titles",
		Help:      "Titles in the loaded catalog",
	})

	m.DatasetSkippedRows = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: MetricsNamespace,
		Subsystem: "dataset",
		Name:      "skipped_rows",
		Help:      "Rows skipped by the last successful load",
	})

	m.DatasetLoadsTotal = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Subsystem: "dataset",
		Name:      "loads_total",
		Help:      "Catalog loads by result",
	}, []string{"result"})

	m.DatasetLoadDuration = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: MetricsNamespace,
		Subsystem: "dataset",
		Name:      "load_duration_seconds",
		Help:      "Time to parse, store and index the catalog",
		Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	})
}

func (m *Metrics) initViewMetrics(factory promauto.Factory) {
	m.ViewDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: MetricsNamespace,
		Subsystem: "dashboard",
		Name:      "view_duration_seconds",
		Help:      "Time to compute a dashboard view",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
	}, []string{"view"})

	m.ExportsTotal = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Subsystem: "export",
		Name:      "downloads_total",
		Help:      "Filtered downloads by format",
	}, []string{"format"})

	m.ExportRows = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: MetricsNamespace,
		Subsystem: "export",
		Name:      "rows",
		Help:      "Rows per filtered download",
		Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
	})
}

// Registry returns the registry holding every metric.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveLoad records a catalog load.
func (m *Metrics) ObserveLoad(err error, d time.Duration, titles, skipped int) {
	if m == nil {
		return
	}
	m.DatasetLoadDuration.Observe(d.Seconds())
	if err != nil {
		m.DatasetLoadsTotal.WithLabelValues("error").Inc()
		return
	}
	m.DatasetLoadsTotal.WithLabelValues("ok").Inc()
	m.DatasetTitles.Set(float64(titles))
	m.DatasetSkippedRows.Set(float64(skipped))
}

// ObserveView records the time spent computing a dashboard view.
func (m *Metrics) ObserveView(view string, d time.Duration) {
	if m == nil {
		return
	}
	m.ViewDuration.WithLabelValues(view).Observe(d.Seconds())
}

// ObserveExport records a filtered download.
func (m *Metrics) ObserveExport(format string, rows int) {
	if m == nil {
		return
	}
	m.ExportsTotal.WithLabelValues(format).Inc()
	m.ExportRows.Observe(float64(rows))
}

// Middleware records request counts and latency per chi route pattern.
// Unmatched requests are grouped under "unmatched" to bound cardinality.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		m.RequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		m.RequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}
