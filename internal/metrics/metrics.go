package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	EvaluationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "grader_evaluations_total",
			Help: "Total number of evaluation passes",
		},
		[]string{"mode", "status"}, // mode: "full", "lazy"
	)

	CompilationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "grader_compilations_total",
			Help: "Total number of compile attempts",
		},
		[]string{"status"},
	)

	ExecutionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "grader_sandbox_executions_total",
			Help: "Total number of sandbox instances run",
		},
	)

	ExecutionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "grader_sandbox_execution_duration_ms",
			Help:    "Wall-clock duration of one test execution in milliseconds",
			Buckets: []float64{50, 100, 250, 500, 1000, 2500, 5000},
		},
	)

	ImageBuildDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "grader_image_build_duration_ms",
			Help:    "Time to build the sandbox image in milliseconds",
			Buckets: []float64{250, 500, 1000, 2500, 5000, 10000, 30000},
		},
	)

	CacheHitsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "grader_result_cache_hits_total",
			Help: "Lazy reads answered from the result cache",
		},
	)

	CacheMissesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "grader_result_cache_misses_total",
			Help: "Lazy reads that required a sandbox execution",
		},
	)

	CacheInvalidationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "grader_result_cache_invalidations_total",
			Help: "Cached results purged by cascade invalidation",
		},
		[]string{"trigger"}, // "testcase_edit", "source_replace", "delete", "regrade"
	)
)
