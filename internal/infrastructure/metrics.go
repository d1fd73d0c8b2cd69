package infrastructure

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Pipeline metrics. Every row removal or nulling operation increments a
// counter here so data loss is auditable from the metrics endpoint as well
// as the logs.
var (
	// RowsProcessed counts rows entering each stage.
	RowsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sgjobs",
		Subsystem: "pipeline",
		Name:      "rows_processed_total",
		Help:      "Rows read at the start of each pipeline stage.",
	}, []string{"stage"})

	// RowsDropped counts rows removed by a stage, labeled by reason.
	RowsDropped = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sgjobs",
		Subsystem: "pipeline",
		Name:      "rows_dropped_total",
		Help:      "Rows removed during cleaning, by reason.",
	}, []string{"stage", "reason"})

	// ValuesNulled counts individual readings invalidated in place.
	ValuesNulled = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sgjobs",
		Subsystem: "pipeline",
		Name:      "values_nulled_total",
		Help:      "Individual field values nulled during cleaning, by reason.",
	}, []string{"stage", "reason"})

	// RowsFlagged counts rows marked by a quality check without removal.
	RowsFlagged = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sgjobs",
		Subsystem: "pipeline",
		Name:      "rows_flagged_total",
		Help:      "Rows flagged by a data quality check, by flag.",
	}, []string{"stage", "flag"})

	// StageDuration observes wall-clock seconds per stage run.
	StageDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "sgjobs",
		Subsystem: "pipeline",
		Name:      "stage_duration_seconds",
		Help:      "Duration of each pipeline stage run.",
		Buckets:   prometheus.ExponentialBuckets(0.1, 2, 12),
	}, []string{"stage"})
)

// HTTP metrics used by the request logging middleware.
var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sgjobs",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests served, by method, route and status.",
	}, []string{"method", "route", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "sgjobs",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})
)
