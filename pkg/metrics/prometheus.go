package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	analyzed      prometheus.Counter
	skipped       *prometheus.CounterVec
	qualified     prometheus.Counter
	signals       prometheus.Counter
	batchDuration prometheus.Histogram
	stageLatency  *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		analyzed: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "stockradar_instruments_analyzed_total",
				Help: "Total number of instruments analyzed",
			},
		),
		skipped: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockradar_instruments_skipped_total",
				Help: "Total number of instruments skipped, by reason",
			},
			[]string{"reason"},
		),
		qualified: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "stockradar_instruments_qualified_total",
				Help: "Total number of instruments that passed screening",
			},
		),
		signals: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "stockradar_signals_generated_total",
				Help: "Total number of trading signals generated",
			},
		),
		batchDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "stockradar_batch_duration_seconds",
				Help:    "Duration of a full screening run in seconds",
				Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
			},
		),
		stageLatency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "stockradar_stage_duration_seconds",
				Help:    "Duration of per-instrument pipeline stages in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"stage"},
		),
	}
}

// RecordAnalyzed records a fully analyzed instrument.
func (r *Recorder) RecordAnalyzed(string) {
	r.analyzed.Inc()
}

// RecordSkipped records an instrument skipped with a machine-readable reason.
func (r *Recorder) RecordSkipped(reason string) {
	r.skipped.WithLabelValues(reason).Inc()
}

// RecordQualified records an instrument that passed all screening filters.
func (r *Recorder) RecordQualified(string) {
	r.qualified.Inc()
}

// RecordSignal records a generated trading signal.
func (r *Recorder) RecordSignal(string) {
	r.signals.Inc()
}

// RecordBatchDuration records how long a screening run took.
func (r *Recorder) RecordBatchDuration(seconds float64) {
	r.batchDuration.Observe(seconds)
}

// RecordStageLatency records a pipeline stage duration.
func (r *Recorder) RecordStageLatency(stage string, seconds float64) {
	r.stageLatency.WithLabelValues(stage).Observe(seconds)
}
