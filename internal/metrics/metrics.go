package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequests counts handled HTTP requests by route pattern and status
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gowatcharr_http_requests_total",
		Help: "HTTP requests handled, by method, route and status code.",
	}, []string{"method", "route", "status"})

	// HTTPDuration observes request latency by route pattern
	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "gowatcharr_http_request_duration_seconds",
		Help:    "HTTP request latency, by method and route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	// RemoteRequests counts OMDb calls by operation and outcome
	RemoteRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gowatcharr_remote_requests_total",
		Help: "OMDb API calls, by operation and outcome (ok, not_found, api_error, transport_error).",
	}, []string{"operation", "outcome"})

	// EnrichedEpisodes counts per-episode enrichment attempts by outcome
	EnrichedEpisodes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gowatcharr_enriched_episodes_total",
		Help: "Episode enrichment attempts, by outcome (success, failure).",
	}, []string{"outcome"})
)
