// Package metrics provides Prometheus metrics for the ROMP motion
// challenge service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager holds all Prometheus collectors for the service.
type Manager struct {
	namespace string
	subsystem string
	buckets   []float64
	registry  prometheus.Registerer

	// Verification metrics.
	verificationTicks   prometheus.Counter
	stepsDetected       prometheus.Counter
	tiltTransitions     prometheus.Counter
	directionMatches    prometheus.Counter
	challengesStarted   *prometheus.CounterVec
	challengesCompleted *prometheus.CounterVec
	challengesFailed    *prometheus.CounterVec
	challengesSkipped   *prometheus.CounterVec
	challengeDuration   prometheus.Histogram
	activeChallenge     prometheus.Gauge

	// Ingest metrics.
	samplesIngested prometheus.Counter
	ingestErrors    *prometheus.CounterVec
	streamClients   prometheus.Gauge

	// Persistence metrics.
	sessionsPersisted prometheus.Counter
	sessionScore      prometheus.Histogram
	persistLatency    prometheus.Histogram
	storeErrors       prometheus.Counter

	// HTTP metrics.
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// Option applies a configuration option to the Manager.
type Option func(*Manager)

// WithRegistry sets the Prometheus registry collectors register on.
func WithRegistry(r prometheus.Registerer) Option {
	return func(m *Manager) {
		if r != nil {
			m.registry = r
		}
	}
}

// WithHistogramBuckets overrides the default latency buckets.
func WithHistogramBuckets(buckets []float64) Option {
	return func(m *Manager) {
		if len(buckets) > 0 {
			m.buckets = buckets
		}
	}
}

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// customRegistry avoids the default Go runtime collectors.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // singleton registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers all collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace: "romp",
		subsystem: "engine",
		buckets:   prometheus.DefBuckets,
		registry:  prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initialize()
	return m
}

func (m *Manager) initialize() {
	auto := promauto.With(m.registry)

	m.verificationTicks = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "verification_ticks_total",
		Help:      "Total verification ticks processed by the engine",
	})
	m.stepsDetected = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "steps_detected_total",
		Help:      "Total rising-edge steps detected by the run detector",
	})
	m.tiltTransitions = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "tilt_transitions_total",
		Help:      "Total debounced tilt transitions recorded",
	})
	m.directionMatches = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "direction_matches_total",
		Help:      "Total times a compass heading first entered tolerance",
	})
	m.challengesStarted = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "challenges_started_total",
		Help:      "Challenges started, by kind",
	}, []string{"kind"})
	m.challengesCompleted = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "challenges_completed_total",
		Help:      "Challenges completed, by kind",
	}, []string{"kind"})
	m.challengesFailed = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "challenges_failed_total",
		Help:      "Challenges that timed out, by kind",
	}, []string{"kind"})
	m.challengesSkipped = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "challenges_skipped_total",
		Help:      "Challenges skipped by the player, by kind",
	}, []string{"kind"})
	m.challengeDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "challenge_duration_seconds",
		Help:      "Wall-clock duration of finished challenges",
		Buckets:   []float64{1, 2, 5, 10, 15, 20, 30, 45, 60},
	})
	m.activeChallenge = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "active_challenge",
		Help:      "1 while a challenge is being verified, 0 otherwise",
	})

	m.samplesIngested = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "samples_ingested_total",
		Help:      "Sensor samples pushed into the latest-value feed",
	})
	m.ingestErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "ingest_errors_total",
		Help:      "Malformed or undeliverable sample payloads, by transport",
	}, []string{"transport"})
	m.streamClients = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "stream_clients",
		Help:      "Currently connected WebSocket stream clients",
	})

	m.sessionsPersisted = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "sessions_persisted_total",
		Help:      "Session records handed to the store",
	})
	m.sessionScore = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "session_score",
		Help:      "Final score distribution of persisted sessions",
		Buckets:   []float64{0, 50, 100, 200, 300, 500, 750, 1000, 1500},
	})
	m.persistLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "persist_latency_milliseconds",
		Help:      "Session store write latency in milliseconds",
		Buckets:   m.buckets,
	})
	m.storeErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "store_errors_total",
		Help:      "Session store operation failures",
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_requests_total",
		Help:      "HTTP requests by endpoint, method and status code",
	}, []string{"endpoint", "method", "status_code"})
	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_request_duration_milliseconds",
		Help:      "HTTP request duration in milliseconds",
		Buckets:   m.buckets,
	}, []string{"endpoint", "method", "status_code"})
}

// RecordVerificationTick increments the tick counter.
func RecordVerificationTick() { globalManager.verificationTicks.Inc() }

// RecordStepDetected increments the step counter.
func RecordStepDetected() { globalManager.stepsDetected.Inc() }

// RecordTiltTransition increments the tilt transition counter.
func RecordTiltTransition() { globalManager.tiltTransitions.Inc() }

// RecordDirectionMatch increments the heading match counter.
func RecordDirectionMatch() { globalManager.directionMatches.Inc() }

// RecordChallengeStarted counts a started challenge by kind.
func RecordChallengeStarted(kind string) {
	globalManager.challengesStarted.WithLabelValues(kind).Inc()
	globalManager.activeChallenge.Set(1)
}

// RecordChallengeCompleted counts a completed challenge by kind.
func RecordChallengeCompleted(kind string, durationSeconds float64) {
	globalManager.challengesCompleted.WithLabelValues(kind).Inc()
	globalManager.challengeDuration.Observe(durationSeconds)
	globalManager.activeChallenge.Set(0)
}

// RecordChallengeFailed counts a timed-out challenge by kind.
func RecordChallengeFailed(kind string) {
	globalManager.challengesFailed.WithLabelValues(kind).Inc()
	globalManager.activeChallenge.Set(0)
}

// RecordChallengeSkipped counts a skipped challenge by kind.
func RecordChallengeSkipped(kind string) {
	globalManager.challengesSkipped.WithLabelValues(kind).Inc()
	globalManager.activeChallenge.Set(0)
}

// RecordSampleIngested counts one pushed sensor sample.
func RecordSampleIngested() { globalManager.samplesIngested.Inc() }

// RecordIngestError counts a malformed payload for the given transport.
func RecordIngestError(transport string) {
	globalManager.ingestErrors.WithLabelValues(transport).Inc()
}

// StreamClientConnected adjusts the connected stream client gauge.
func StreamClientConnected(delta int) {
	globalManager.streamClients.Add(float64(delta))
}

// RecordSessionPersisted counts a stored session and observes its score.
func RecordSessionPersisted(score int) {
	globalManager.sessionsPersisted.Inc()
	globalManager.sessionScore.Observe(float64(score))
}

// RecordPersistLatency observes a store write latency in milliseconds.
func RecordPersistLatency(latencyMs float64) {
	globalManager.persistLatency.Observe(latencyMs)
}

// RecordStoreError counts a session store failure.
func RecordStoreError() { globalManager.storeErrors.Inc() }

// RecordHTTPRequest counts an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration observes an HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// GetRegistry returns the custom registry metrics are served from.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
