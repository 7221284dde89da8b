// Package prometheus registers the application's metrics and serves the
// scrape endpoint.
package prometheus

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "claimlens"

// Histogram buckets tuned per concern: HTTP requests are fast, OCR runs
// are not.
var (
	httpDurationBuckets     = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}
	pipelineDurationBuckets = []float64{.1, .25, .5, 1, 2.5, 5, 10, 30, 60, 120}
)

// AppMetrics holds every counter, histogram and gauge the process exports.
type AppMetrics struct {
	registry *prometheus.Registry

	// HTTP layer
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Document pipeline
	DocumentsProcessedTotal *prometheus.CounterVec
	ExtractionDuration      *prometheus.HistogramVec
	ExtractionConfidence    prometheus.Histogram
	ValidationIssuesTotal   *prometheus.CounterVec
	PipelineActiveDocuments prometheus.Gauge

	// Eligibility analysis
	AnalysisRequestsTotal    *prometheus.CounterVec
	AnalysisDuration         prometheus.Histogram
	RecommendedSchemesPerRun prometheus.Histogram

	// Infrastructure
	CacheHitsTotal       prometheus.Counter
	CacheMissesTotal     prometheus.Counter
	EventsPublishedTotal *prometheus.CounterVec
}

// NewAppMetrics registers all metrics on a fresh registry.
func NewAppMetrics() *AppMetrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &AppMetrics{
		registry: reg,

		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   httpDurationBuckets,
		}, []string{"method", "route"}),

		DocumentsProcessedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "documents_processed_total",
			Help:      "Pipeline outcomes by document type and resulting status.",
		}, []string{"type_tag", "status"}),
		ExtractionDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "extraction_duration_seconds",
			Help:      "Text extraction latency by file kind.",
			Buckets:   pipelineDurationBuckets,
		}, []string{"kind"}),
		ExtractionConfidence: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "extraction_confidence",
			Help:      "Recognition confidence distribution.",
			Buckets:   prometheus.LinearBuckets(0, 0.1, 11),
		}),
		ValidationIssuesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "validation_issues_total",
			Help:      "Validation findings by document type and severity.",
		}, []string{"type_tag", "severity"}),
		PipelineActiveDocuments: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pipeline_active_documents",
			Help:      "Documents currently inside the processing pipeline.",
		}),

		AnalysisRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analysis_requests_total",
			Help:      "Eligibility analysis runs by outcome.",
		}, []string{"outcome"}),
		AnalysisDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "analysis_duration_seconds",
			Help:      "End-to-end eligibility analysis latency.",
			Buckets:   httpDurationBuckets,
		}),
		RecommendedSchemesPerRun: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "recommended_schemes_per_run",
			Help:      "Number of schemes recommended per analysis.",
			Buckets:   prometheus.LinearBuckets(0, 1, 11),
		}),

		CacheHitsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "report_cache_hits_total",
			Help:      "Analysis report cache hits.",
		}),
		CacheMissesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "report_cache_misses_total",
			Help:      "Analysis report cache misses.",
		}),
		EventsPublishedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_published_total",
			Help:      "Broker events published by topic.",
		}, []string{"topic"}),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal, m.HTTPRequestDuration,
		m.DocumentsProcessedTotal, m.ExtractionDuration, m.ExtractionConfidence,
		m.ValidationIssuesTotal, m.PipelineActiveDocuments,
		m.AnalysisRequestsTotal, m.AnalysisDuration, m.RecommendedSchemesPerRun,
		m.CacheHitsTotal, m.CacheMissesTotal, m.EventsPublishedTotal,
	)
	return m
}

// Handler serves the scrape endpoint for this metrics set.
func (m *AppMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
