package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cinescout",
		Name:      "http_requests_total",
		Help:      "Total HTTP requests by method, path and status code.",
	}, []string{"method", "path", "status"})

	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "cinescout",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request duration in seconds.",
		Buckets:   []float64{0.01, 0.05, 0.1, 0.3, 0.5, 1, 2, 5, 10},
	}, []string{"method", "path"})

	SearchRunsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cinescout",
		Name:      "search_runs_total",
		Help:      "Completed pipeline runs by strategy and outcome.",
	}, []string{"strategy", "outcome"})

	SearchRunDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "cinescout",
		Name:      "search_run_duration_seconds",
		Help:      "Pipeline run duration in seconds by strategy.",
		Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 20, 30},
	}, []string{"strategy"})

	SearchRunsSuperseded = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "cinescout",
		Name:      "search_runs_superseded_total",
		Help:      "Pipeline runs whose outcome was discarded because a newer run took over.",
	})

	CatalogRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cinescout",
		Name:      "catalog_requests_total",
		Help:      "Requests to the remote catalog by operation and result status.",
	}, []string{"operation", "status"})

	CatalogRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "cinescout",
		Name:      "catalog_request_duration_seconds",
		Help:      "Remote catalog request duration in seconds.",
		Buckets:   []float64{0.05, 0.1, 0.3, 0.5, 1, 2, 5, 10},
	}, []string{"operation"})

	DetailCacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "cinescout",
		Name:      "detail_cache_hits_total",
		Help:      "Detail lookups served from the in-process cache.",
	})

	DetailCacheMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "cinescout",
		Name:      "detail_cache_misses_total",
		Help:      "Detail lookups that had to hit the remote catalog.",
	})

	ActiveSessions = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "cinescout",
		Name:      "active_sessions",
		Help:      "Number of live search sessions.",
	})
)

// Register registers all collectors with the given registerer
func Register(reg prometheus.Registerer) {
	reg.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDuration,
		SearchRunsTotal,
		SearchRunDuration,
		SearchRunsSuperseded,
		CatalogRequestsTotal,
		CatalogRequestDuration,
		DetailCacheHitsTotal,
		DetailCacheMissesTotal,
		ActiveSessions,
	)
}
