package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the analysis service.
type Metrics struct {
	Uploads          *prometheus.CounterVec // labels: mode, outcome={ok,user_error,error}
	RowsRead         prometheus.Counter
	RowsDropped      prometheus.Counter
	BeachesAnalyzed  *prometheus.CounterVec // labels: classification
	BeachesSkipped   prometheus.Counter
	EarlyWarnings    prometheus.Counter
	AnalysisDuration prometheus.Histogram

	// Summary publishing metrics.
	SummariesPublished prometheus.Counter
	PublishErrors      prometheus.Counter
	PublisherEnabled   prometheus.Gauge

	// Presentation config reloads.
	RenderConfigReloads *prometheus.CounterVec // labels: outcome={ok,error}
}

// NewMetrics creates and registers all service metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		Uploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "shoreline",
			Name:      "uploads_total",
			Help:      "Uploaded survey sheets by analysis mode and outcome.",
		}, []string{"mode", "outcome"}),
		RowsRead: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "shoreline",
			Name:      "rows_read_total",
			Help:      "Total non-blank data rows read from uploaded sheets.",
		}),
		RowsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "shoreline",
			Name:      "rows_dropped_total",
			Help:      "Rows discarded because a required cell was missing or invalid.",
		}),
		BeachesAnalyzed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "shoreline",
			Name:      "beaches_analyzed_total",
			Help:      "Analyzed beaches by classification label.",
		}, []string{"classification"}),
		BeachesSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "shoreline",
			Name:      "beaches_skipped_total",
			Help:      "Beaches skipped for too few surveys or same-day surveys.",
		}),
		EarlyWarnings: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "shoreline",
			Name:      "early_warnings_total",
			Help:      "Analyzed beaches that raised the early-warning flag.",
		}),
		AnalysisDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "shoreline",
			Name:      "analysis_duration_seconds",
			Help:      "Duration of a complete parse-and-analyze pass over one upload.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5},
		}),
		SummariesPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "shoreline",
			Name:      "summaries_published_total",
			Help:      "Summary rows written to the summary topic.",
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "shoreline",
			Name:      "publish_errors_total",
			Help:      "Failed summary publish attempts.",
		}),
		PublisherEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "shoreline",
			Name:      "publisher_enabled",
			Help:      "1 when summary publishing is enabled, 0 otherwise.",
		}),
		RenderConfigReloads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "shoreline",
			Name:      "render_config_reloads_total",
			Help:      "Render config file reloads by outcome.",
		}, []string{"outcome"}),
	}

	prometheus.MustRegister(
		m.Uploads,
		m.RowsRead,
		m.RowsDropped,
		m.BeachesAnalyzed,
		m.BeachesSkipped,
		m.EarlyWarnings,
		m.AnalysisDuration,
		m.SummariesPublished,
		m.PublishErrors,
		m.PublisherEnabled,
		m.RenderConfigReloads,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		Uploads:             prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "shoreline", Name: "uploads_total"}, []string{"mode", "outcome"}),
		RowsRead:            prometheus.NewCounter(prometheus.CounterOpts{Namespace: "shoreline", Name: "rows_read_total"}),
		RowsDropped:         prometheus.NewCounter(prometheus.CounterOpts{Namespace: "shoreline", Name: "rows_dropped_total"}),
		BeachesAnalyzed:     prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "shoreline", Name: "beaches_analyzed_total"}, []string{"classification"}),
		BeachesSkipped:      prometheus.NewCounter(prometheus.CounterOpts{Namespace: "shoreline", Name: "beaches_skipped_total"}),
		EarlyWarnings:       prometheus.NewCounter(prometheus.CounterOpts{Namespace: "shoreline", Name: "early_warnings_total"}),
		AnalysisDuration:    prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "shoreline", Name: "analysis_duration_seconds"}),
		SummariesPublished:  prometheus.NewCounter(prometheus.CounterOpts{Namespace: "shoreline", Name: "summaries_published_total"}),
		PublishErrors:       prometheus.NewCounter(prometheus.CounterOpts{Namespace: "shoreline", Name: "publish_errors_total"}),
		PublisherEnabled:    prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "shoreline", Name: "publisher_enabled"}),
		RenderConfigReloads: prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "shoreline", Name: "render_config_reloads_total"}, []string{"outcome"}),
	}
}
