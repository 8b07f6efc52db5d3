package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// HTTPMetrics records request throughput and catalog query latency.
type HTTPMetrics struct {
	requests      *prometheus.CounterVec
	duration      *prometheus.HistogramVec
	catalogQuery  prometheus.Histogram
	catalogHits   prometheus.Counter
	catalogMisses prometheus.Counter
}

// NewHTTPMetrics registers the HTTP metrics on the provided registerer.
func NewHTTPMetrics(reg prometheus.Registerer) *HTTPMetrics {
	if reg == nil {
		return &HTTPMetrics{}
	}
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "HTTP requests by method, route, and status.",
	}, []string{"method", "route", "status"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})
	catalogQuery := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "categories_query_duration_seconds",
		Help:    "Duration of category list queries on cache miss.",
		Buckets: prometheus.DefBuckets,
	})
	catalogHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "categories_cache_hits_total",
		Help: "Category list requests served from cache.",
	})
	catalogMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "categories_cache_misses_total",
		Help: "Category list requests that queried the database.",
	})
	reg.MustRegister(requests, duration, catalogQuery, catalogHits, catalogMisses)
	return &HTTPMetrics{
		requests:      requests,
		duration:      duration,
		catalogQuery:  catalogQuery,
		catalogHits:   catalogHits,
		catalogMisses: catalogMisses,
	}
}

// ObserveRequest records one completed request.
func (m *HTTPMetrics) ObserveRequest(method, route string, status string, elapsed time.Duration) {
	if m == nil || m.requests == nil {
		return
	}
	m.requests.WithLabelValues(method, route, status).Inc()
	m.duration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// ObserveCatalogQuery records the database round-trip for a cache miss.
func (m *HTTPMetrics) ObserveCatalogQuery(elapsed time.Duration) {
	if m == nil || m.catalogQuery == nil {
		return
	}
	m.catalogQuery.Observe(elapsed.Seconds())
}

// IncCatalogHit counts a category list served from cache.
func (m *HTTPMetrics) IncCatalogHit() {
	if m == nil || m.catalogHits == nil {
		return
	}
	m.catalogHits.Inc()
}

// IncCatalogMiss counts a category list that hit the database.
func (m *HTTPMetrics) IncCatalogMiss() {
	if m == nil || m.catalogMisses == nil {
		return
	}
	m.catalogMisses.Inc()
}
