package scraper

import (
	"time"

	"github.com/aluiziolira/go-scrape-catalog/models"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles Prometheus collectors for the scraper.
type Metrics struct {
	Registry        *prometheus.Registry
	RequestsTotal   *prometheus.CounterVec
	RequestDuration prometheus.Histogram
	PagesTotal      *prometheus.CounterVec
	ProductsTotal   *prometheus.CounterVec
	LoadMoreClicks  prometheus.Counter
	ErrorsTotal     *prometheus.CounterVec
}

// NewMetrics constructs and registers all metrics on a dedicated registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	requests := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scraper_requests_total",
			Help: "Total HTTP requests issued by the scraper.",
		},
		[]string{"phase"},
	)
	requestDuration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "scraper_request_duration_seconds",
			Help:    "HTTP request latency for scraper requests.",
			Buckets: prometheus.DefBuckets,
		},
	)
	pages := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scraper_pages_total",
			Help: "Catalog pages extracted, by extraction mode.",
		},
		[]string{"mode"},
	)
	products := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scraper_products_total",
			Help: "Products written, by extraction mode.",
		},
		[]string{"mode"},
	)
	clicks := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "scraper_load_more_clicks_total",
			Help: "Total clicks on the load-more control.",
		},
	)
	errorsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scraper_errors_total",
			Help: "Total number of scraper errors by type.",
		},
		[]string{"error_type"},
	)

	registry.MustRegister(requests, requestDuration, pages, products, clicks, errorsTotal)

	return &Metrics{
		Registry:        registry,
		RequestsTotal:   requests,
		RequestDuration: requestDuration,
		PagesTotal:      pages,
		ProductsTotal:   products,
		LoadMoreClicks:  clicks,
		ErrorsTotal:     errorsTotal,
	}
}

// IncRequest increments the requests total counter.
func (m *Metrics) IncRequest(phase string) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(phase).Inc()
}

// ObserveDuration records an HTTP request duration.
func (m *Metrics) ObserveDuration(d time.Duration) {
	if m == nil {
		return
	}
	m.RequestDuration.Observe(d.Seconds())
}

// AddPage records one extracted page and its product count.
func (m *Metrics) AddPage(mode models.Mode, products int) {
	if m == nil {
		return
	}
	m.PagesTotal.WithLabelValues(string(mode)).Inc()
	m.ProductsTotal.WithLabelValues(string(mode)).Add(float64(products))
}

// IncClicks increments the load-more click counter.
func (m *Metrics) IncClicks() {
	if m == nil {
		return
	}
	m.LoadMoreClicks.Inc()
}

// IncError increments the errors counter for a type label.
func (m *Metrics) IncError(errorType string) {
	if m == nil {
		return
	}
	m.ErrorsTotal.WithLabelValues(errorType).Inc()
}
