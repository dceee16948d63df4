package metrics

import (
	"matchos/internal/privacy"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry *prometheus.Registry

	// Subjects projected, by owner/admin override or effective privacy level
	projections *prometheus.CounterVec

	// Time spent decoding, projecting and re-encoding response bodies
	filterDuration prometheus.Histogram

	filterFailures prometheus.Counter

	requests *prometheus.CounterVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		projections: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "matchos_privacy_projections_total",
				Help: "Total number of subject records projected by the privacy filter",
			},
			[]string{"decision"},
		),
		filterDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "matchos_privacy_filter_duration_seconds",
				Help:    "Time spent filtering response bodies",
				Buckets: prometheus.DefBuckets,
			},
		),
		filterFailures: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "matchos_privacy_filter_failures_total",
				Help: "Total number of JSON response bodies the privacy filter could not decode",
			},
		),
		requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "matchos_http_requests_total",
				Help: "Total number of HTTP requests served",
			},
			[]string{"method", "status"},
		),
	}
}

func (m *Metrics) ObserveProjection(report privacy.Report, elapsed time.Duration) {
	for decision, n := range report {
		m.projections.WithLabelValues(string(decision)).Add(float64(n))
	}
	m.filterDuration.Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveFilterFailure() {
	m.filterFailures.Inc()
}

func (m *Metrics) ObserveRequest(method string, status int) {
	m.requests.WithLabelValues(method, strconv.Itoa(status)).Inc()
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
