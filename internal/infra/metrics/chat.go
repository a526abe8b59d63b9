package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(chatTurnsTotal, chatTurnLatencyMs) }

var chatTurnsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "chat_turns_total",
		Help: "Chat turns by routed intent and outcome.",
	},
	[]string{"intent", "outcome"}, // outcome: 'ok', 'error'
)

var chatTurnLatencyMs = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "chat_turn_latency_ms",
		Help:    "Chat turn latency distribution in milliseconds.",
		Buckets: []float64{50, 100, 250, 500, 1000, 2500, 5000, 10000, 30000},
	},
	[]string{"intent"},
)

func IncChatTurn(intent, outcome string) {
	chatTurnsTotal.WithLabelValues(norm(intent), norm(outcome)).Inc()
}

func ObserveChatTurn(intent string, latencyMs float64) {
	chatTurnLatencyMs.WithLabelValues(norm(intent)).Observe(latencyMs)
}
