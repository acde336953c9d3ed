package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsRegistry holds all Prometheus metrics for tripdesk
type MetricsRegistry struct {
	// HTTP Metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge
	HTTPRateLimited      prometheus.Counter

	// Store Metrics
	StoreOpsTotal   *prometheus.CounterVec
	StoreOpDuration *prometheus.HistogramVec

	// Cache Metrics
	CacheHitsTotal   *prometheus.CounterVec
	CacheMissesTotal *prometheus.CounterVec

	// Business Metrics
	PreferencesConfirmedTotal prometheus.Counter
	SearchesCompletedTotal    prometheus.Counter
	CandidatesGeneratedTotal  prometheus.Counter
	BookingsCreatedTotal      prometheus.Counter
	BookingsRejectedTotal     *prometheus.CounterVec

	// Planning Metrics
	PlanningTasksTotal   *prometheus.CounterVec
	PlanningQueueDepth   prometheus.Gauge
	PlanningQueuePending prometheus.Gauge
}

// NewMetricsRegistry registers every metric on reg. The server passes
// prometheus.DefaultRegisterer; tests pass a fresh prometheus.NewRegistry().
func NewMetricsRegistry(reg prometheus.Registerer) *MetricsRegistry {
	factory := promauto.With(reg)

	return &MetricsRegistry{
		// HTTP Metrics
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tripdesk_http_requests_total",
				Help: "Total HTTP requests processed by endpoint, method, and status code",
			},
			[]string{"endpoint", "method", "status_code"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tripdesk_http_request_duration_seconds",
				Help:    "HTTP request latency distribution in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"endpoint", "method"},
		),
		HTTPRequestsInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "tripdesk_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
		),
		HTTPRateLimited: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "tripdesk_http_rate_limited_total",
				Help: "Requests rejected by the per-IP rate limiter",
			},
		),

		// Store Metrics
		StoreOpsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tripdesk_store_operations_total",
				Help: "Total key-value store operations by backend, operation and result",
			},
			[]string{"backend", "op", "result"},
		),
		StoreOpDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tripdesk_store_operation_duration_seconds",
				Help:    "Key-value store operation time in seconds",
				Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
			},
			[]string{"backend", "op"},
		),

		// Cache Metrics
		CacheHitsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tripdesk_cache_hits_total",
				Help: "Total cache hits by cache name",
			},
			[]string{"cache"},
		),
		CacheMissesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tripdesk_cache_misses_total",
				Help: "Total cache misses by cache name",
			},
			[]string{"cache"},
		),

		// Business Metrics
		PreferencesConfirmedTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "tripdesk_preferences_confirmed_total",
				Help: "Preference records confirmed by users",
			},
		),
		SearchesCompletedTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "tripdesk_flight_searches_completed_total",
				Help: "Flight searches that returned candidates",
			},
		),
		CandidatesGeneratedTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "tripdesk_flight_candidates_generated_total",
				Help: "Flight candidates generated across all searches",
			},
		),
		BookingsCreatedTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "tripdesk_bookings_created_total",
				Help: "Bookings confirmed",
			},
		),
		BookingsRejectedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tripdesk_bookings_rejected_total",
				Help: "Booking requests rejected by reason",
			},
			[]string{"reason"},
		),

		// Planning Metrics
		PlanningTasksTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tripdesk_planning_tasks_total",
				Help: "Planning tasks processed by result",
			},
			[]string{"result"},
		),
		PlanningQueueDepth: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "tripdesk_planning_queue_depth",
				Help: "Planning tasks waiting in the queue",
			},
		),
		PlanningQueuePending: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "tripdesk_planning_queue_pending",
				Help: "Planning tasks delivered to a worker but not yet acknowledged",
			},
		),
	}
}
