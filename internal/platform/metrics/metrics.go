// Package metrics holds the prometheus collectors for the ingestion pipeline
// and the HTTP surface.
package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Fetch outcomes
const (
	OutcomeOK       = "ok"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
)

// Analysis outcomes
const (
	AnalysisOK      = "ok"
	AnalysisEmpty   = "empty"
	AnalysisNoData  = "no_data"
	AnalysisInvalid = "invalid"
	AnalysisFailed  = "failed"
)

// Cache results
const (
	CacheHit  = "hit"
	CacheMiss = "miss"
)

// Pipeline captures fetch, decode, analysis and HTTP signals
type Pipeline struct {
	gatherer prometheus.Gatherer

	fetches      *prometheus.CounterVec
	fetchSeconds *prometheus.HistogramVec
	rowsDecoded  *prometheus.CounterVec
	analyses     *prometheus.CounterVec
	cache        *prometheus.CounterVec
	httpRequests *prometheus.CounterVec
	httpSeconds  *prometheus.HistogramVec
}

var (
	defaultOnce sync.Once
	defaultPipe *Pipeline
)

// Default returns the process-wide Pipeline on the default registry
func Default() *Pipeline {
	defaultOnce.Do(func() {
		defaultPipe = New(prometheus.DefaultRegisterer, prometheus.DefaultGatherer)
	})
	return defaultPipe
}

// NewIsolated returns a Pipeline on a private registry; used by tests and CLIs
func NewIsolated() *Pipeline {
	reg := prometheus.NewRegistry()
	return New(reg, reg)
}

// New registers the collectors on registerer; nil falls back to the defaults
func New(registerer prometheus.Registerer, gatherer prometheus.Gatherer) *Pipeline {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	p := &Pipeline{
		gatherer: gatherer,
		fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "liverkpi_month_fetch_total",
			Help: "Monthly export fetches by feed and outcome.",
		}, []string{"feed", "outcome"}),
		fetchSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "liverkpi_month_fetch_seconds",
			Help:    "Monthly export fetch latency including body download.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"feed"}),
		rowsDecoded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "liverkpi_rows_decoded_total",
			Help: "Broadcast rows produced by the normalizer.",
		}, []string{"feed"}),
		analyses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "liverkpi_analyses_total",
			Help: "Analysis runs by broadcaster mode and outcome.",
		}, []string{"mode", "outcome"}),
		cache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "liverkpi_event_cache_total",
			Help: "Event table cache lookups.",
		}, []string{"result"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "liverkpi_http_requests_total",
			Help: "HTTP requests by route pattern and status.",
		}, []string{"method", "route", "status"}),
		httpSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "liverkpi_http_request_seconds",
			Help:    "HTTP request latency by route pattern.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	registerer.MustRegister(
		p.fetches,
		p.fetchSeconds,
		p.rowsDecoded,
		p.analyses,
		p.cache,
		p.httpRequests,
		p.httpSeconds,
	)
	return p
}

// ObserveFetch records one month fetch; nil-safe
func (p *Pipeline) ObserveFetch(feed, outcome string, elapsed time.Duration) {
	if p == nil {
		return
	}
	p.fetches.WithLabelValues(feed, outcome).Inc()
	p.fetchSeconds.WithLabelValues(feed).Observe(elapsed.Seconds())
}

// AddRows counts decoded rows; nil-safe
func (p *Pipeline) AddRows(feed string, n int) {
	if p == nil || n <= 0 {
		return
	}
	p.rowsDecoded.WithLabelValues(feed).Add(float64(n))
}

// ObserveAnalysis counts one analysis run; nil-safe
func (p *Pipeline) ObserveAnalysis(mode, outcome string) {
	if p == nil {
		return
	}
	p.analyses.WithLabelValues(mode, outcome).Inc()
}

// ObserveCache counts one cache lookup; nil-safe
func (p *Pipeline) ObserveCache(hit bool) {
	if p == nil {
		return
	}
	r := CacheMiss
	if hit {
		r = CacheHit
	}
	p.cache.WithLabelValues(r).Inc()
}

// ObserveHTTP matches the access log observer signature; nil-safe
func (p *Pipeline) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if p == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	p.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	p.httpSeconds.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// Handler exposes the gatherer in the prometheus text format
func (p *Pipeline) Handler() http.Handler {
	if p == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(p.gatherer, promhttp.HandlerOpts{})
}
