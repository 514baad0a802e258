// internal/common/metrics/metrics.go
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "worker_job_duration_seconds",
			Help:    "Duration of job processing in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"task_type"},
	)

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "worker_jobs_active",
			Help: "Number of active jobs per worker",
		},
		[]string{"task_type"},
	)

	FitConfidence = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fit_confidence_ratio",
			Help:    "Confidence of produced fit recommendations (0-1)",
			Buckets: prometheus.LinearBuckets(0.1, 0.1, 10),
		},
		[]string{"task_type"},
	)

	FitStemSnapped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fit_stem_snapped_total",
			Help: "Recommended stems by snapped length",
		},
		[]string{"snapped_mm"},
	)

	CatalogCacheRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_cache_requests_total",
			Help: "Frame geometry cache lookups by result",
		},
		[]string{"result"},
	)
)

// ObserveJob records the outcome of one job. An empty errorCode means success.
func ObserveJob(taskType string, started time.Time, errorCode string) {
	WorkerJobDuration.WithLabelValues(taskType).Observe(time.Since(started).Seconds())
	if errorCode == "" {
		WorkerJobsCompleted.WithLabelValues(taskType).Inc()
		return
	}
	WorkerJobsFailed.WithLabelValues(taskType, errorCode).Inc()
}

// ObserveRecommendation records the confidence (0-1) and snapped stem of a result.
func ObserveRecommendation(taskType string, confidence float64, snappedStemMm int) {
	FitConfidence.WithLabelValues(taskType).Observe(confidence)
	FitStemSnapped.WithLabelValues(strconv.Itoa(snappedStemMm)).Inc()
}

func CacheHit()  { CatalogCacheRequests.WithLabelValues("hit").Inc() }
func CacheMiss() { CatalogCacheRequests.WithLabelValues("miss").Inc() }
