package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "moviechat",
		Name:      "http_requests_total",
		Help:      "Total HTTP requests by method, path and status code.",
	}, []string{"method", "path", "status"})

	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "moviechat",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request duration in seconds.",
		Buckets:   []float64{0.05, 0.1, 0.3, 0.5, 1, 2, 5, 10, 20, 60},
	}, []string{"method", "path"})

	UpstreamRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "moviechat",
		Name:      "upstream_requests_total",
		Help:      "Total requests to external providers by provider, endpoint and result status.",
	}, []string{"provider", "endpoint", "status"})

	UpstreamRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "moviechat",
		Name:      "upstream_request_duration_seconds",
		Help:      "External provider request duration in seconds.",
		Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
	}, []string{"provider"})

	RouteSelectedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "moviechat",
		Name:      "route_selected_total",
		Help:      "Retrieval strategy that produced the candidate list, per request.",
	}, []string{"route"})

	CacheHitsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "moviechat",
		Name:      "cache_hits_total",
		Help:      "Enrichment memo cache hits by cache name.",
	}, []string{"cache"})

	CacheMissesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "moviechat",
		Name:      "cache_misses_total",
		Help:      "Enrichment memo cache misses by cache name.",
	}, []string{"cache"})

	SemanticHintsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "moviechat",
		Name:      "semantic_hints_total",
		Help:      "Semantic intent extractor outcomes (hint, absent).",
	}, []string{"outcome"})
)

func Register(reg prometheus.Registerer) {
	reg.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDuration,
		UpstreamRequestsTotal,
		UpstreamRequestDuration,
		RouteSelectedTotal,
		CacheHitsTotal,
		CacheMissesTotal,
		SemanticHintsTotal,
	)
}
