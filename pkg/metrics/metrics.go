// Package metrics provides Prometheus metrics for the maiscore service.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "maiscore"

// Custom registry to avoid the default Go collectors.
var registry = prometheus.NewRegistry()

var (
	aggregations = promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "aggregations_total",
		Help:      "Total number of best-subset aggregations, by source and outcome",
	}, []string{"source", "outcome"})

	aggregationDuration = promauto.With(registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "aggregation_duration_seconds",
		Help:      "Latency of full aggregation requests",
		Buckets:   prometheus.DefBuckets,
	}, []string{"source"})

	upstreamRequests = promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "upstream_requests_total",
		Help:      "Upstream score-service HTTP calls, by source and status class",
	}, []string{"source", "status"})

	cacheEvents = promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_events_total",
		Help:      "Catalog and asset cache hits, misses and refreshes",
	}, []string{"cache", "event"})

	httpRequests = promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "API requests, by path template, method and status",
	}, []string{"path", "method", "status"})
)

// RecordAggregation counts one aggregation attempt.
func RecordAggregation(source, outcome string, seconds float64) {
	aggregations.WithLabelValues(source, outcome).Inc()
	aggregationDuration.WithLabelValues(source).Observe(seconds)
}

// RecordUpstreamRequest counts one upstream HTTP call.
func RecordUpstreamRequest(source, status string) {
	upstreamRequests.WithLabelValues(source, status).Inc()
}

// RecordCacheEvent counts a cache hit, miss or refresh.
func RecordCacheEvent(cache, event string) {
	cacheEvents.WithLabelValues(cache, event).Inc()
}

// RecordHTTPRequest counts one API request.
func RecordHTTPRequest(path, method, status string) {
	httpRequests.WithLabelValues(path, method, status).Inc()
}

// Handler exposes the registry for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
