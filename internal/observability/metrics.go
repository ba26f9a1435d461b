package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// MetricsRegistry records service metrics. Components take the interface so
// tests can pass NoOpRegistry.
type MetricsRegistry interface {
	IncrementRequests(route, method string, status int)
	RecordRequestLatency(route, method string, d time.Duration)
	IncrementUpstreamCalls(endpoint string, status int)
	RecordUpstreamLatency(endpoint string, d time.Duration)
	IncrementEnrichmentDegraded(source string)
}

type PrometheusRegistry struct {
	requests        *prometheus.CounterVec
	requestLatency  *prometheus.HistogramVec
	upstreamCalls   *prometheus.CounterVec
	upstreamLatency *prometheus.HistogramVec
	degraded        *prometheus.CounterVec
}

// NewPrometheusRegistry creates the service collectors and registers them
// with reg.
func NewPrometheusRegistry(reg prometheus.Registerer) *PrometheusRegistry {
	r := &PrometheusRegistry{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wbads_requests_total",
				Help: "Total API requests received",
			},
			[]string{"route", "method", "status"},
		),
		requestLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "wbads_request_duration_seconds",
				Help:    "Histogram of request latencies",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route", "method"},
		),
		upstreamCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wbads_upstream_requests_total",
				Help: "Total calls made to the Wildberries APIs",
			},
			[]string{"endpoint", "status"},
		),
		upstreamLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "wbads_upstream_request_duration_seconds",
				Help:    "Duration of calls made to the Wildberries APIs",
				Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
			[]string{"endpoint"},
		),
		degraded: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wbads_enrichment_degraded_total",
				Help: "Optional upstream lookups that failed and were replaced by empty data",
			},
			[]string{"source"},
		),
	}
	reg.MustRegister(r.requests, r.requestLatency, r.upstreamCalls, r.upstreamLatency, r.degraded)
	return r
}

func (r *PrometheusRegistry) IncrementRequests(route, method string, status int) {
	r.requests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
}

func (r *PrometheusRegistry) RecordRequestLatency(route, method string, d time.Duration) {
	r.requestLatency.WithLabelValues(route, method).Observe(d.Seconds())
}

// IncrementUpstreamCalls counts one upstream call. status 0 means no HTTP
// response was received.
func (r *PrometheusRegistry) IncrementUpstreamCalls(endpoint string, status int) {
	r.upstreamCalls.WithLabelValues(endpoint, strconv.Itoa(status)).Inc()
}

func (r *PrometheusRegistry) RecordUpstreamLatency(endpoint string, d time.Duration) {
	r.upstreamLatency.WithLabelValues(endpoint).Observe(d.Seconds())
}

func (r *PrometheusRegistry) IncrementEnrichmentDegraded(source string) {
	r.degraded.WithLabelValues(source).Inc()
}

type NoOpRegistry struct{}

func NewNoOpRegistry() NoOpRegistry { return NoOpRegistry{} }

func (NoOpRegistry) IncrementRequests(string, string, int)              {}
func (NoOpRegistry) RecordRequestLatency(string, string, time.Duration) {}
func (NoOpRegistry) IncrementUpstreamCalls(string, int)                 {}
func (NoOpRegistry) RecordUpstreamLatency(string, time.Duration)        {}
func (NoOpRegistry) IncrementEnrichmentDegraded(string)                 {}
