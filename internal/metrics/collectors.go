package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "wbads"

// Collectors holds the service's Prometheus instruments.
type Collectors struct {
	IngestRuns       *prometheus.CounterVec
	IngestDuration   prometheus.Histogram
	DatasetRows      prometheus.Gauge
	DroppedRows      prometheus.Counter
	Analyses         *prometheus.CounterVec
	AnalysisDuration *prometheus.HistogramVec
	CacheErrors      *prometheus.CounterVec
}

// NewCollectors creates the instruments and registers them with reg.
func NewCollectors(reg prometheus.Registerer) *Collectors {
	f := promauto.With(reg)
	return &Collectors{
		IngestRuns: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "ingest_runs_total",
				Help:      "Sheet ingest runs by result",
			},
			[]string{"result"},
		),
		IngestDuration: f.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "ingest_duration_seconds",
				Help:      "Time spent fetching and parsing the sheet",
				Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
		),
		DatasetRows: f.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "dataset_rows",
				Help:      "Rows in the currently loaded dataset",
			},
		),
		DroppedRows: f.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "ingest_dropped_rows_total",
				Help:      "Sheet rows skipped for lacking a product id",
			},
		),
		Analyses: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "analyses_total",
				Help:      "Analysis requests by cache outcome",
			},
			[]string{"cache"},
		),
		AnalysisDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "analysis_duration_seconds",
				Help:      "Analysis latency by cache outcome",
				Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
			},
			[]string{"cache"},
		),
		CacheErrors: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_errors_total",
				Help:      "Result cache failures by operation",
			},
			[]string{"op"},
		),
	}
}

// RecordIngest implements ingest.Recorder.
func (c *Collectors) RecordIngest(result string, rows, dropped int, took time.Duration) {
	c.IngestRuns.WithLabelValues(result).Inc()
	c.IngestDuration.Observe(took.Seconds())
	c.DroppedRows.Add(float64(dropped))
	switch result {
	case "ok":
		c.DatasetRows.Set(float64(rows))
	case "skipped":
		c.DatasetRows.Set(0)
	}
}

func (c *Collectors) observeAnalysis(outcome string, took time.Duration) {
	c.Analyses.WithLabelValues(outcome).Inc()
	c.AnalysisDuration.WithLabelValues(outcome).Observe(took.Seconds())
}
