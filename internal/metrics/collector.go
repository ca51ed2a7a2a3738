// Package metrics provides internal metrics collection.
// This package is internal and should not be imported by external projects.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"github.com/sanjibani/cardiology-ai-agent/types"
)

// Collector aggregates prometheus metrics for the service.
type Collector struct {
	// HTTP
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Routing sessions
	sessionsTotal      *prometheus.CounterVec
	sessionDuration    *prometheus.HistogramVec
	routingTransitions *prometheus.CounterVec
	escalationsTotal   *prometheus.CounterVec

	// Oracle
	oracleRequestsTotal   *prometheus.CounterVec
	oracleRequestDuration *prometheus.HistogramVec

	// Stores
	storeOperations *prometheus.CounterVec

	logger *zap.Logger
}

// NewCollector registers the service metrics under the given namespace.
func NewCollector(namespace string, logger *zap.Logger) *Collector {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Collector{
		logger: logger.With(zap.String("component", "metrics")),
	}

	c.httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	c.httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	c.sessionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_total",
			Help:      "Total number of routing sessions",
		},
		[]string{"terminal", "urgency"},
	)

	c.sessionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "session_duration_seconds",
			Help:      "Routing session duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"terminal"},
	)

	c.routingTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "routing_transitions_total",
			Help:      "Total number of routing graph transitions",
		},
		[]string{"from_node", "to_node"},
	)

	c.escalationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "escalations_total",
			Help:      "Total number of emergency escalations",
		},
		[]string{"urgency"},
	)

	c.oracleRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "oracle_requests_total",
			Help:      "Total number of oracle completion requests",
		},
		[]string{"provider", "status"},
	)

	c.oracleRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "oracle_request_duration_seconds",
			Help:      "Oracle completion duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"provider"},
	)

	c.storeOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_operations_total",
			Help:      "Total number of store operations",
		},
		[]string{"store", "operation", "status"},
	)

	logger.Info("metrics collector initialized", zap.String("namespace", namespace))
	return c
}

// RecordHTTPRequest records one HTTP request.
func (c *Collector) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	c.httpRequestsTotal.WithLabelValues(method, path, statusCode(status)).Inc()
	c.httpRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordSession records one completed routing session.
func (c *Collector) RecordSession(state *types.SessionState, duration time.Duration) {
	terminal := string(state.CurrentHandler)
	c.sessionsTotal.WithLabelValues(terminal, string(state.Urgency)).Inc()
	c.sessionDuration.WithLabelValues(terminal).Observe(duration.Seconds())
	if state.EscalationNeeded {
		c.escalationsTotal.WithLabelValues(string(state.Urgency)).Inc()
	}
}

// ObserveTransition implements workflow.TransitionObserver.
func (c *Collector) ObserveTransition(from, to types.HandlerName) {
	c.routingTransitions.WithLabelValues(string(from), string(to)).Inc()
}

// RecordOracleRequest records one oracle completion attempt.
func (c *Collector) RecordOracleRequest(provider, status string, duration time.Duration) {
	c.oracleRequestsTotal.WithLabelValues(provider, status).Inc()
	c.oracleRequestDuration.WithLabelValues(provider).Observe(duration.Seconds())
}

// RecordStoreOperation records one lookup-store operation.
func (c *Collector) RecordStoreOperation(store, operation, status string) {
	c.storeOperations.WithLabelValues(store, operation, status).Inc()
}

func statusCode(code int) string {
	switch {
	case code >= 200 && code < 300:
		return "2xx"
	case code >= 300 && code < 400:
		return "3xx"
	case code >= 400 && code < 500:
		return "4xx"
	case code >= 500:
		return "5xx"
	default:
		return "unknown"
	}
}
