// internal/common/metrics/metrics.go
package metrics

import (
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
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
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

	ProductsScored = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "products_scored_total",
			Help: "Products analysed, by source and potential tier",
		},
		[]string{"source", "potential"},
	)

	ProductWinners = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "product_winners_total",
			Help: "Products that cleared the winner threshold",
		},
		[]string{"source"},
	)

	ProductScore = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "product_score",
			Help:    "Distribution of rounded product scores",
			Buckets: prometheus.LinearBuckets(10, 10, 10),
		},
	)

	AnalysisCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "analysis_cache_lookups_total",
			Help: "Analysis cache lookups by result",
		},
		[]string{"result"},
	)

	NotificationsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "winner_notifications_total",
			Help: "Winner notifications by channel and outcome",
		},
		[]string{"channel", "status"},
	)
)

// ObserveAnalysis records one scored product.
func ObserveAnalysis(source, potential string, score int, winner bool) {
	ProductsScored.WithLabelValues(source, potential).Inc()
	ProductScore.Observe(float64(score))
	if winner {
		ProductWinners.WithLabelValues(source).Inc()
	}
}

// TrackJob marks a job active and returns a func that records its outcome.
// Pass an empty errorCode for success.
func TrackJob(taskType string) func(errorCode string) {
	start := time.Now()
	WorkerJobsActive.WithLabelValues(taskType).Inc()

	return func(errorCode string) {
		WorkerJobsActive.WithLabelValues(taskType).Dec()
		WorkerJobDuration.WithLabelValues(taskType).Observe(time.Since(start).Seconds())
		if errorCode == "" {
			WorkerJobsCompleted.WithLabelValues(taskType).Inc()
			return
		}
		WorkerJobsFailed.WithLabelValues(taskType, errorCode).Inc()
	}
}
