// Package metrics exposes Prometheus collectors for source fetches,
// aggregation passes and HTTP requests.
package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Fetch outcome labels.
const (
	StatusSuccess = "success"
	StatusError   = "error"
	StatusTimeout = "timeout"
)

var (
	sourceFetchTotal           *prometheus.CounterVec
	sourceFetchDurationSeconds *prometheus.HistogramVec
	sourceItemsTotal           *prometheus.CounterVec
	aggregationDurationSeconds *prometheus.HistogramVec
	aggregationItems           *prometheus.GaugeVec
	httpRequestsTotal          *prometheus.CounterVec
	httpRequestDurationSeconds *prometheus.HistogramVec

	once sync.Once
)

// Init registers the collectors. It is safe to call more than once.
func Init() {
	once.Do(func() {
		sourceFetchTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "regwatch_source_fetch_total",
				Help: "Total number of source fetches, labeled by source and status.",
			},
			[]string{"source", "status"},
		)

		sourceFetchDurationSeconds = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "regwatch_source_fetch_duration_seconds",
				Help:    "Histogram of source fetch latencies, labeled by source.",
				Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 15},
			},
			[]string{"source"},
		)

		sourceItemsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "regwatch_source_items_total",
				Help: "Total number of items produced by successful fetches, labeled by source.",
			},
			[]string{"source"},
		)

		aggregationDurationSeconds = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "regwatch_aggregation_duration_seconds",
				Help:    "Histogram of aggregation pass latencies, labeled by profile.",
				Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 15, 20},
			},
			[]string{"profile"},
		)

		aggregationItems = promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "regwatch_aggregation_items",
				Help: "Number of items returned by the last aggregation pass, labeled by profile.",
			},
			[]string{"profile"},
		)

		httpRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "regwatch_http_requests_total",
				Help: "Total number of HTTP requests, labeled by method, route and code.",
			},
			[]string{"method", "route", "code"},
		)

		httpRequestDurationSeconds = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "regwatch_http_request_duration_seconds",
				Help:    "Histogram of HTTP request latencies, labeled by method and route.",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 20},
			},
			[]string{"method", "route"},
		)
	})
}

// Handler returns an http.Handler for exposing Prometheus metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveSourceFetch records one adapter fetch. Items are only counted for
// successful fetches.
func ObserveSourceFetch(source, status string, items int, duration time.Duration) {
	sourceFetchTotal.WithLabelValues(source, status).Inc()
	sourceFetchDurationSeconds.WithLabelValues(source).Observe(duration.Seconds())
	if status == StatusSuccess && items > 0 {
		sourceItemsTotal.WithLabelValues(source).Add(float64(items))
	}
}

// ObserveAggregation records one aggregation pass.
func ObserveAggregation(profile string, items int, duration time.Duration) {
	aggregationDurationSeconds.WithLabelValues(profile).Observe(duration.Seconds())
	aggregationItems.WithLabelValues(profile).Set(float64(items))
}

// ObserveHTTPRequest increments the HTTP request metrics.
func ObserveHTTPRequest(method, route string, code int, duration time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	httpRequestDurationSeconds.WithLabelValues(method, route).Observe(duration.Seconds())
}
