package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Conversation-API Metrics
var (
	// Request counters
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "chat",
			Subsystem: "conversation_api",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	// Request duration histogram
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "chat",
			Subsystem: "conversation_api",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"method", "endpoint"},
	)

	// Interaction counters
	InteractionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "chat",
			Subsystem: "conversation_api",
			Name:      "interactions_total",
			Help:      "Total messages logged into conversations",
		},
		[]string{"kind"},
	)

	// Conversation lifecycle counters
	ConversationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "chat",
			Subsystem: "conversation_api",
			Name:      "conversations_total",
			Help:      "Conversation lifecycle events",
		},
		[]string{"event"},
	)

	// DB query duration
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "chat",
			Subsystem: "conversation_api",
			Name:      "db_query_duration_seconds",
			Help:      "Database query duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
		[]string{"operation"},
	)
)

// Interaction kinds recorded by InteractionsTotal.
const (
	InteractionKindMessage     = "message"
	InteractionKindActivity    = "activity"
	InteractionKindSubactivity = "subactivity"
)

// Conversation lifecycle events recorded by ConversationsTotal.
const (
	ConversationEventCreated = "created"
	ConversationEventForked  = "forked"
	ConversationEventDeleted = "deleted"
	ConversationEventRenamed = "renamed"
)

// RecordInteraction increments the interaction counter for one message.
func RecordInteraction(kind string) {
	InteractionsTotal.WithLabelValues(kind).Inc()
}

// RecordConversationEvent increments the lifecycle counter.
func RecordConversationEvent(event string) {
	ConversationsTotal.WithLabelValues(event).Inc()
}
