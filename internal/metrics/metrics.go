// Package metrics exposes Prometheus instruments for probes and timeline I/O.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	Probes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "uptime_probes_total",
		Help: "Probes executed, by result (available|unavailable).",
	}, []string{"result"})

	ProbeLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "uptime_probe_duration_seconds",
		Help:    "Wall time of a single probe.",
		Buckets: prometheus.DefBuckets,
	})

	TimelineErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "uptime_timeline_errors_total",
		Help: "Swallowed timeline store failures, by op (read|decode|encode|write|skip).",
	}, []string{"op"})

	TimelineRecords = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "uptime_timeline_records",
		Help:    "Records kept in a timeline after retention pruning.",
		Buckets: prometheus.ExponentialBuckets(1, 4, 10),
	})

	HistoryQueries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "uptime_history_queries_total",
		Help: "History queries served, by mode.",
	}, []string{"mode"})

	RateLimited = promauto.NewCounter(prometheus.CounterOpts{
		Name: "uptime_http_rate_limited_total",
		Help: "Requests rejected by the per-client rate limiter.",
	})

	Transitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "uptime_transitions_total",
		Help: "Status changes observed while recording, by new status.",
	}, []string{"to"})
)

// Handler serves the default registry.
func Handler() http.Handler { return promhttp.Handler() }
