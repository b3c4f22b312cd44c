// internal/monitoring/metrics.go

// Package monitoring exposes Prometheus metrics for the extraction pipeline.
package monitoring

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics collects counters and histograms for extractions and product-page
// fetches. Each instance owns its registry so tests can create them freely.
type Metrics struct {
	registry *prometheus.Registry

	itemsBuilt    *prometheus.CounterVec
	fetchesTotal  *prometheus.CounterVec
	scanDuration  prometheus.Histogram
	imagesSkipped prometheus.Counter
}

// NewMetrics creates a Metrics instance with the "itemscout" namespace.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		itemsBuilt: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "itemscout",
			Name:      "items_built_total",
			Help:      "Items produced by the builder, by whether a product name was found.",
		}, []string{"named"}),
		fetchesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "itemscout",
			Name:      "product_page_fetches_total",
			Help:      "Product page fetch attempts by result.",
		}, []string{"result"}),
		scanDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "itemscout",
			Name:      "scan_duration_seconds",
			Help:      "Duration of whole-page scans.",
			Buckets:   prometheus.DefBuckets,
		}),
		imagesSkipped: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "itemscout",
			Name:      "images_skipped_total",
			Help:      "Images rejected by eligibility checks or source resolution.",
		}),
	}
}

// ItemBuilt records a produced item and whether it carries a product name.
func (m *Metrics) ItemBuilt(named bool) {
	label := "false"
	if named {
		label = "true"
	}
	m.itemsBuilt.WithLabelValues(label).Inc()
}

// FetchSucceeded records a successful product page fetch.
func (m *Metrics) FetchSucceeded() {
	m.fetchesTotal.WithLabelValues("success").Inc()
}

// FetchFailed records a failed product page fetch with its error code.
func (m *Metrics) FetchFailed(code string) {
	m.fetchesTotal.WithLabelValues(code).Inc()
}

// ObserveScanDuration records how long a whole-page scan took, in seconds.
func (m *Metrics) ObserveScanDuration(seconds float64) {
	m.scanDuration.Observe(seconds)
}

// ImageSkipped records one rejected image.
func (m *Metrics) ImageSkipped() {
	m.imagesSkipped.Inc()
}

// Handler returns an HTTP handler serving this instance's metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
