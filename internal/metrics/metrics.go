// Package metrics owns the Prometheus collectors of the service. All record methods are safe to
// call on a nil *Metrics, which disables collection.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "quotegen"

type Metrics struct {
	registry *prometheus.Registry

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestInFlight prometheus.Gauge

	ratesFetchTotal    *prometheus.CounterVec
	recognitionTotal   *prometheus.CounterVec
	recognitionSeconds *prometheus.HistogramVec
	quotesTotal        *prometheus.CounterVec
	renderTotal        *prometheus.CounterVec
	activeSessions     prometheus.Gauge
}

func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		requestTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total HTTP requests processed.",
			},
			[]string{"method", "path", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "HTTP request duration in seconds.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		requestInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "in_flight_requests",
				Help:      "Number of in-flight HTTP requests.",
			},
		),
		ratesFetchTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rates_fetch_total",
				Help:      "Exchange rate lookups by the source that served them.",
			},
			[]string{"source"},
		),
		recognitionTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "ocr",
				Name:      "recognitions_total",
				Help:      "Screenshot recognitions by slot and outcome.",
			},
			[]string{"slot", "status"},
		),
		recognitionSeconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "ocr",
				Name:      "recognition_duration_seconds",
				Help:      "Screenshot recognition duration in seconds.",
				Buckets:   []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32},
			},
			[]string{"slot"},
		),
		quotesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "quotes_total",
				Help:      "Analyze attempts by outcome.",
			},
			[]string{"outcome"},
		),
		renderTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "documents_total",
				Help:      "Generated quote documents by format and outcome.",
			},
			[]string{"format", "status"},
		),
		activeSessions: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "active_sessions",
				Help:      "Wizard sessions currently held in memory.",
			},
		),
	}

	registry.MustRegister(
		m.requestTotal,
		m.requestDuration,
		m.requestInFlight,
		m.ratesFetchTotal,
		m.recognitionTotal,
		m.recognitionSeconds,
		m.quotesTotal,
		m.renderTotal,
		m.activeSessions,
	)
	return m
}

func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.HandlerFor(prometheus.NewRegistry(), promhttp.HandlerOpts{})
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) RequestStarted() {
	if m == nil {
		return
	}
	m.requestInFlight.Inc()
}

// RequestFinished records a completed request. path must be the route template, not the raw URL.
func (m *Metrics) RequestFinished(method, path string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requestInFlight.Dec()
	if path == "" {
		path = "unmatched"
	}
	m.requestTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(method, path).Observe(elapsed.Seconds())
}

func (m *Metrics) RecordRatesFetch(source string) {
	if m == nil {
		return
	}
	m.ratesFetchTotal.WithLabelValues(source).Inc()
}

func (m *Metrics) RecordRecognition(slot, status string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.recognitionTotal.WithLabelValues(slot, status).Inc()
	m.recognitionSeconds.WithLabelValues(slot).Observe(elapsed.Seconds())
}

func (m *Metrics) RecordQuote(outcome string) {
	if m == nil {
		return
	}
	m.quotesTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) RecordDocument(format, status string) {
	if m == nil {
		return
	}
	m.renderTotal.WithLabelValues(format, status).Inc()
}

func (m *Metrics) SetActiveSessions(n int) {
	if m == nil {
		return
	}
	m.activeSessions.Set(float64(n))
}
