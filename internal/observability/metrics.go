package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestDuration tracks request duration
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "ente_request_duration_seconds",
			Help: "Duration of HTTP requests in seconds",
		},
		[]string{"path", "method", "status"},
	)

	// CacheHits tracks cache hits/misses
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ente_cache_hits_total",
			Help: "Number of cache lookups by tier and outcome",
		},
		[]string{"operation"},
	)

	// DatabaseOperations tracks database operations
	DatabaseOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ente_database_operations_total",
			Help: "Number of database operations",
		},
		[]string{"operation", "status"},
	)

	// ProfileWrites tracks profile creates and updates
	ProfileWrites = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ente_profile_writes_total",
			Help: "Number of profile writes",
		},
		[]string{"operation", "status"},
	)

	// EligibilityEvaluations counts scheme verdicts produced by the evaluator
	EligibilityEvaluations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ente_eligibility_evaluations_total",
			Help: "Number of profile-scheme evaluations",
		},
		[]string{"result"},
	)

	// EligibilityDuration tracks how long a full match run takes
	EligibilityDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ente_eligibility_duration_seconds",
			Help:    "Duration of eligibility runs for a single user",
			Buckets: prometheus.DefBuckets,
		},
	)

	// OTPEvents counts OTP sends and verifications
	OTPEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ente_otp_events_total",
			Help: "Number of OTP events",
		},
		[]string{"event", "status"},
	)

	// AuditDropped counts audit records discarded because the buffer was full
	AuditDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ente_audit_dropped_total",
			Help: "Number of audit records dropped",
		},
	)

	// ActiveConnections tracks active connections
	ActiveConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ente_active_connections",
			Help: "Number of active connections",
		},
	)
)
