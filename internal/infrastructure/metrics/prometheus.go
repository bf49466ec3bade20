// Package metrics provides Prometheus metrics for observability.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "mediamind"

var (
	// CacheOperationsTotal tracks text cache operations.
	// Labels:
	//   - operation: get, set
	//   - status: hit, miss, success, error
	//   - cache_type: redis, object, disk
	CacheOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_operations_total",
			Help:      "Total number of cache operations",
		},
		[]string{"operation", "status", "cache_type"},
	)

	// DBQueriesTotal tracks database queries.
	// Labels:
	//   - query_type: select, insert, update, delete
	//   - table: goals, goal_types, profiles, video_entries
	DBQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "db_queries_total",
			Help:      "Total number of database queries",
		},
		[]string{"query_type", "table"},
	)

	// PipelineResultsTotal counts processing outcomes by result source.
	PipelineResultsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pipeline_results_total",
			Help:      "Total number of processing requests by result source",
		},
		[]string{"source"},
	)

	// PipelineStageDuration observes how long each pipeline stage takes.
	PipelineStageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "pipeline_stage_duration_seconds",
			Help:      "Duration of processing pipeline stages",
			Buckets:   []float64{0.01, 0.1, 0.5, 1, 5, 15, 30, 60, 120, 300, 600},
		},
		[]string{"stage"},
	)

	// StructuringFallbacksTotal counts responses that fell back to the raw transcript.
	StructuringFallbacksTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "structuring_fallbacks_total",
			Help:      "Total number of times the raw transcript was returned because structuring failed",
		},
	)

	// HTTPRequestsTotal counts HTTP requests by route pattern and status code.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPRequestDuration observes HTTP request latency by route pattern.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// PrewarmTasksTotal tracks prewarm tasks handled by the worker.
	// Labels:
	//   - result: cached, processed, retried, dropped
	PrewarmTasksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "prewarm_tasks_total",
			Help:      "Total number of prewarm tasks by outcome",
		},
		[]string{"result"},
	)
)

// Cache operation status constants.
const (
	CacheStatusHit     = "hit"
	CacheStatusMiss    = "miss"
	CacheStatusSuccess = "success"
	CacheStatusError   = "error"
)

// Cache operation type constants.
const (
	CacheOpGet = "get"
	CacheOpSet = "set"
)

// Cache type constants.
const (
	CacheTypeRedis  = "redis"
	CacheTypeObject = "object"
	CacheTypeDisk   = "disk"
)

// DB query type constants.
const (
	DBQuerySelect = "select"
	DBQueryInsert = "insert"
	DBQueryUpdate = "update"
	DBQueryDelete = "delete"
)

// Table name constants.
const (
	TableGoals        = "goals"
	TableGoalTypes    = "goal_types"
	TableProfiles     = "profiles"
	TableVideoEntries = "video_entries"
)

// Prewarm result constants.
const (
	PrewarmCached    = "cached"
	PrewarmProcessed = "processed"
	PrewarmRetried   = "retried"
	PrewarmDropped   = "dropped"
)
