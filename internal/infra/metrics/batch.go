package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(batchJobsTotal, batchSourcesTotal, batchDurationSeconds) }

var batchJobsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "batch_jobs_total",
		Help: "Total number of ingestion batches, labeled by terminal status.",
	},
	[]string{"status"}, // 'complete', 'failed'
)

var batchSourcesTotal = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "batch_sources_processed_total",
		Help: "Total number of sources acquired and transcribed.",
	},
)

var batchDurationSeconds = prometheus.NewHistogram(
	prometheus.HistogramOpts{
		Name:    "batch_duration_seconds",
		Help:    "Wall-clock duration of completed ingestion batches.",
		Buckets: []float64{5, 15, 30, 60, 120, 300, 600, 1200, 2400},
	},
)

func IncBatchJob(status string) {
	batchJobsTotal.WithLabelValues(norm(status)).Inc()
}

func IncBatchSource() { batchSourcesTotal.Inc() }

func ObserveBatchDuration(seconds float64) { batchDurationSeconds.Observe(seconds) }
