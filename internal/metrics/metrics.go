package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// Fetch side
	FetchPages = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "twitch_fetch_pages_total", Help: "Helix unban-request pages fetched."},
		[]string{"status"},
	)
	RecordsFetched = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "twitch_records_fetched_total", Help: "Unban requests fetched."},
		[]string{"status"},
	)

	// Dispatch side
	WebhookSendTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "webhook_send_total", Help: "Webhook send outcomes."},
		[]string{"outcome"}, // sent | skipped | error
	)
	WebhookSendDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "webhook_send_duration_seconds",
			Help:    "Webhook send latency.",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12), // 10ms..~40s
		},
	)
	DispatchChunks = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "dispatch_chunks_total", Help: "Chunks walked by the dispatcher."},
	)

	// Orchestrator
	ChannelRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "channel_runs_total", Help: "Per-broadcaster run results."},
		[]string{"result"}, // ok | error
	)
)

// MustRegister installs the relay collectors on the default registry.
// The Go and process collectors are already there via client_golang's
// package init; adding them again would panic.
func MustRegister() {
	prometheus.MustRegister(
		FetchPages, RecordsFetched,
		WebhookSendTotal, WebhookSendDuration, DispatchChunks,
		ChannelRuns,
	)
}
