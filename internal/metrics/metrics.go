// Package metrics records service counters and latencies in Prometheus.
// A nil *Recorder is valid and records nothing.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "roster_values"

// Recorder owns the service's collectors and the registry they live in.
type Recorder struct {
	registry *prometheus.Registry

	upstreamRequests *prometheus.CounterVec
	upstreamLatency  *prometheus.HistogramVec
	directoryLoads   *prometheus.CounterVec
	directorySize    prometheus.Gauge
	reconcileMatches *prometheus.CounterVec
	httpRequests     *prometheus.CounterVec
	httpLatency      *prometheus.HistogramVec
}

// NewRecorder registers all collectors on a fresh registry.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		upstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_requests_total",
			Help:      "Upstream API calls by provider and outcome.",
		}, []string{"provider", "outcome"}),
		upstreamLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upstream_request_duration_seconds",
			Help:      "Upstream API call latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"provider"}),
		directoryLoads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "directory_loads_total",
			Help:      "Player directory load attempts by source and outcome.",
		}, []string{"source", "outcome"}),
		directorySize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "directory_players",
			Help:      "Players in the active directory index.",
		}),
		reconcileMatches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reconcile_matches_total",
			Help:      "Roster slots by platform and how identity was resolved.",
		}, []string{"platform", "kind"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		httpLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
	}
	r.registry.MustRegister(
		r.upstreamRequests, r.upstreamLatency,
		r.directoryLoads, r.directorySize,
		r.reconcileMatches,
		r.httpRequests, r.httpLatency,
	)
	return r
}

// Handler exposes the registry in the Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Registry is exposed for tests.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

func (r *Recorder) UpstreamRequest(provider, outcome string, d time.Duration) {
	if r == nil {
		return
	}
	r.upstreamRequests.WithLabelValues(provider, outcome).Inc()
	r.upstreamLatency.WithLabelValues(provider).Observe(d.Seconds())
}

func (r *Recorder) DirectoryLoad(source string, ok bool, players int) {
	if r == nil {
		return
	}
	outcome := "ok"
	if !ok {
		outcome = "error"
	}
	r.directoryLoads.WithLabelValues(source, outcome).Inc()
	if ok {
		r.directorySize.Set(float64(players))
	}
}

func (r *Recorder) ReconcileMatches(platform string, counts map[string]int) {
	if r == nil {
		return
	}
	for kind, n := range counts {
		r.reconcileMatches.WithLabelValues(platform, kind).Add(float64(n))
	}
}

func (r *Recorder) HTTPRequest(method, route string, status int, d time.Duration) {
	if r == nil {
		return
	}
	r.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	r.httpLatency.WithLabelValues(route).Observe(d.Seconds())
}
