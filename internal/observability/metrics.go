// Package observability holds the Prometheus metrics of the map service.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "quakemap"

// Metrics holds the Prometheus counters and histograms for feeds, tiles and HTTP.
type Metrics struct {
	FeedRequests *prometheus.CounterVec   // labels: feed={earthquakes,plates}, outcome={success,error}
	FeedDuration *prometheus.HistogramVec // labels: feed
	FeedFeatures *prometheus.GaugeVec     // labels: feed

	TileRequests *prometheus.CounterVec // labels: layer, result={hit,miss,error}

	HTTPRequests *prometheus.CounterVec // labels: method, code
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()

	prometheus.MustRegister(
		m.FeedRequests,
		m.FeedDuration,
		m.FeedFeatures,
		m.TileRequests,
		m.HTTPRequests,
	)

	return m
}

// NewMetricsForTesting creates Metrics without registering them to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		FeedRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "feed_requests_total",
			Help:      "Upstream GeoJSON feed requests by feed and outcome.",
		}, []string{"feed", "outcome"}),
		FeedDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "feed_duration_seconds",
			Help:      "Duration of upstream feed fetch and decode.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"feed"}),
		FeedFeatures: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "feed_features",
			Help:      "Number of features in the last successful fetch.",
		}, []string{"feed"}),
		TileRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tile_requests_total",
			Help:      "Proxied tile requests by layer and cache result.",
		}, []string{"layer", "result"}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests served by method and status code.",
		}, []string{"method", "code"}),
	}
}
