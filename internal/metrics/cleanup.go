package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Cleanup run metrics
var (
	// FilesDeletedTotal tracks total files deleted
	FilesDeletedTotal prometheus.Counter

	// FilesFailedTotal tracks files that could not be deleted
	FilesFailedTotal prometheus.Counter

	// DirsDeletedTotal tracks empty directories removed
	DirsDeletedTotal prometheus.Counter

	// DirsFailedTotal tracks empty directories that could not be removed
	DirsFailedTotal prometheus.Counter

	// BytesFreedTotal tracks total bytes freed across all runs
	BytesFreedTotal prometheus.Counter

	// RunDuration tracks how long cleanup runs take
	RunDuration prometheus.Histogram

	// RunsTotal tracks completed runs by terminal status
	RunsTotal *prometheus.CounterVec
)

// initCleanupMetrics initializes all cleanup metrics
func initCleanupMetrics() {
	FilesDeletedTotal = NewCounter(
		"shareclean_files_deleted_total",
		"Total number of files deleted.",
	)

	FilesFailedTotal = NewCounter(
		"shareclean_files_failed_total",
		"Total number of files that could not be deleted.",
	)

	DirsDeletedTotal = NewCounter(
		"shareclean_dirs_deleted_total",
		"Total number of empty directories removed.",
	)

	DirsFailedTotal = NewCounter(
		"shareclean_dirs_failed_total",
		"Total number of empty directories that could not be removed.",
	)

	BytesFreedTotal = NewBytesCounter(
		"shareclean_bytes_freed_total",
		"Total bytes freed by shareclean.",
	)

	RunDuration = NewDurationHistogram(
		"shareclean_run_duration_seconds",
		"Duration of cleanup runs in seconds.",
	)

	RunsTotal = NewCounterVec(
		"shareclean_runs_total",
		"Completed cleanup runs by terminal status.",
		[]string{"status"},
	)
}

// registerCleanupMetrics registers all cleanup metrics with Prometheus
func registerCleanupMetrics() {
	prometheus.MustRegister(FilesDeletedTotal)
	prometheus.MustRegister(FilesFailedTotal)
	prometheus.MustRegister(DirsDeletedTotal)
	prometheus.MustRegister(DirsFailedTotal)
	prometheus.MustRegister(BytesFreedTotal)
	prometheus.MustRegister(RunDuration)
	prometheus.MustRegister(RunsTotal)
}

// RecordRun increments the run counter for a terminal status and observes
// the run duration.
func RecordRun(status string, seconds float64) {
	RunsTotal.WithLabelValues(status).Inc()
	RunDuration.Observe(seconds)
}
