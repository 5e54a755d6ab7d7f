package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RetryAttemptsTotal tracks retry-engine attempts per operation and classification
	RetryAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tempmon_retry_attempts_total",
			Help: "Total number of retry-engine attempts",
		},
		[]string{"op", "class"},
	)

	// RetryExhaustedTotal tracks operations that used their whole retry budget
	RetryExhaustedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tempmon_retry_exhausted_total",
			Help: "Total number of operations that exhausted their retry budget",
		},
		[]string{"op"},
	)

	// ReadingsStoredTotal tracks readings persisted per device
	ReadingsStoredTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tempmon_readings_stored_total",
			Help: "Total number of readings persisted",
		},
		[]string{"device"},
	)

	// ReadingsDuplicateTotal tracks idempotent re-deliveries absorbed by the store
	ReadingsDuplicateTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tempmon_readings_duplicate_total",
			Help: "Total number of duplicate-key writes treated as success",
		},
		[]string{"device"},
	)

	// RotationsTotal tracks log rotations by result (ok, failed)
	RotationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tempmon_log_rotations_total",
			Help: "Total number of log rotation attempts",
		},
		[]string{"sink", "result"},
	)

	// BackupsEvictedTotal tracks backups removed to honor the disk-usage cap
	BackupsEvictedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tempmon_log_backups_evicted_total",
			Help: "Total number of log backups evicted by the total-bytes cap",
		},
		[]string{"sink"},
	)

	// HealthCheckStatus exposes the latest status per validator (0=pass, 1=warn, 2=fail)
	HealthCheckStatus = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "tempmon_health_check_status",
			Help: "Latest health check status per component (0=pass, 1=warn, 2=fail)",
		},
		[]string{"component"},
	)

	// HealthCheckDuration tracks aggregate health run duration
	HealthCheckDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "tempmon_health_check_duration_seconds",
			Help:    "Duration of aggregate health check runs in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)
)
