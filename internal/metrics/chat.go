package metrics

import "github.com/prometheus/client_golang/prometheus"

// Chat pipeline Prometheus metrics.
var (
	ChatRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "twin",
			Name:      "chat_requests_total",
			Help:      "Total number of chat turns by outcome",
		},
		[]string{"outcome"}, // "ok" / "intercepted" / "completion_error" / "not_configured"
	)

	RetrievalConfidence = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "twin",
			Name:      "retrieval_confidence",
			Help:      "Confidence score produced per retrieval pass",
			Buckets:   []float64{0.1, 0.3, 0.5, 0.7, 0.9, 0.95, 1},
		},
	)

	CompletionRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "twin",
			Name:      "completion_request_duration_seconds",
			Help:      "Completion request duration in seconds",
			Buckets:   []float64{0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"provider", "model"},
	)
)

var chatMetricsRegistered bool

// RegisterChatMetrics registers Prometheus chat metrics. Must be called once from main.
func RegisterChatMetrics() {
	if chatMetricsRegistered {
		return
	}
	prometheus.MustRegister(ChatRequestsTotal)
	prometheus.MustRegister(RetrievalConfidence)
	prometheus.MustRegister(CompletionRequestDuration)
	chatMetricsRegistered = true
}
