// Package metrics provides Prometheus metrics for the quiz engine service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the service.
type Manager struct {
	namespace string
	registry  *prometheus.Registry

	// Session lifecycle
	sessionsStarted   prometheus.Counter
	sessionsCompleted prometheus.Counter
	sessionsUndefined prometheus.Counter
	activeSessions    prometheus.Gauge

	// Answer handling
	answersRecorded   prometheus.Counter
	answersRejected   *prometheus.CounterVec
	staleAnswers      prometheus.Counter
	autoAdvanceArmed  prometheus.Counter
	autoAdvanceFired  prometheus.Counter
	autoAdvanceCut    prometheus.Counter

	// Persistence and analytics
	storageErrors    *prometheus.CounterVec
	analyticsEmitted prometheus.Counter
	analyticsDropped prometheus.Counter
	analyticsDepth   prometheus.Gauge

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// Option applies a configuration option to the Manager.
type Option func(*Manager)

// WithNamespace overrides the metric namespace.
func WithNamespace(ns string) Option {
	return func(m *Manager) {
		if ns != "" {
			m.namespace = ns
		}
	}
}

// NewManager creates a manager and registers all metrics on a fresh registry.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace: "quiz",
		registry:  prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	factory := promauto.With(m.registry)

	m.sessionsStarted = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "sessions_started_total",
		Help:      "Sessions that submitted a name and entered the quiz.",
	})
	m.sessionsCompleted = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "sessions_completed_total",
		Help:      "Sessions that reached the result phase.",
	})
	m.sessionsUndefined = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "sessions_undefined_style_total",
		Help:      "Completed sessions with no scorable answers.",
	})
	m.activeSessions = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Name:      "active_sessions",
		Help:      "Sessions currently held in the registry.",
	})

	m.answersRecorded = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "answers_recorded_total",
		Help:      "Accepted selection toggles.",
	})
	m.answersRejected = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "answers_rejected_total",
		Help:      "Rejected selection toggles by reason.",
	}, []string{"reason"})
	m.staleAnswers = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "stale_answers_total",
		Help:      "Answers submitted for a question no longer active.",
	})
	m.autoAdvanceArmed = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "auto_advance_armed_total",
		Help:      "Auto-advance timers scheduled.",
	})
	m.autoAdvanceFired = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "auto_advance_fired_total",
		Help:      "Auto-advance timers that progressed a question.",
	})
	m.autoAdvanceCut = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "auto_advance_cancelled_total",
		Help:      "Auto-advance timers cancelled before firing.",
	})

	m.storageErrors = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "storage_errors_total",
		Help:      "Best-effort persistence failures by operation.",
	}, []string{"op"})
	m.analyticsEmitted = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "analytics_events_emitted_total",
		Help:      "Analytics events accepted by the dispatcher.",
	})
	m.analyticsDropped = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "analytics_events_dropped_total",
		Help:      "Analytics events dropped on backpressure.",
	})
	m.analyticsDepth = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Name:      "analytics_queue_depth",
		Help:      "Events waiting in the analytics queue.",
	})

	m.httpRequests = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests by endpoint, method and status.",
	}, []string{"endpoint", "method", "status"})
	m.httpRequestDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Name:      "http_request_duration_ms",
		Help:      "HTTP request latency in milliseconds.",
		Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
	}, []string{"endpoint", "method", "status"})
}

var defaultManager = NewManager()

// Package-level helpers delegating to the default manager.

func RecordSessionStarted()   { defaultManager.sessionsStarted.Inc() }
func RecordSessionCompleted() { defaultManager.sessionsCompleted.Inc() }
func RecordUndefinedStyle()   { defaultManager.sessionsUndefined.Inc() }

// UpdateActiveSessions sets the current registry size.
func UpdateActiveSessions(n int) { defaultManager.activeSessions.Set(float64(n)) }

func RecordAnswerRecorded() { defaultManager.answersRecorded.Inc() }

// RecordAnswerRejected counts a rejected toggle by reason label.
func RecordAnswerRejected(reason string) {
	defaultManager.answersRejected.WithLabelValues(reason).Inc()
}

func RecordStaleAnswer()          { defaultManager.staleAnswers.Inc() }
func RecordAutoAdvanceArmed()     { defaultManager.autoAdvanceArmed.Inc() }
func RecordAutoAdvanceFired()     { defaultManager.autoAdvanceFired.Inc() }
func RecordAutoAdvanceCancelled() { defaultManager.autoAdvanceCut.Inc() }

// RecordStorageError counts a persistence failure by operation label.
func RecordStorageError(op string) {
	defaultManager.storageErrors.WithLabelValues(op).Inc()
}

func RecordAnalyticsEmitted() { defaultManager.analyticsEmitted.Inc() }
func RecordAnalyticsDropped() { defaultManager.analyticsDropped.Inc() }

// UpdateAnalyticsQueueDepth sets the dispatcher backlog size.
func UpdateAnalyticsQueueDepth(n int) { defaultManager.analyticsDepth.Set(float64(n)) }

// RecordHTTPRequest counts one request.
func RecordHTTPRequest(endpoint, method, status string) {
	defaultManager.httpRequests.WithLabelValues(endpoint, method, status).Inc()
}

// RecordHTTPRequestDuration records request latency in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, status string, durationMs float64) {
	defaultManager.httpRequestDuration.WithLabelValues(endpoint, method, status).Observe(durationMs)
}

// GetRegistry exposes the default registry for the metrics endpoint.
func GetRegistry() *prometheus.Registry {
	return defaultManager.registry
}
