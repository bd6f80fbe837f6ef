package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// SyncOperations counts sync engine operations by kind and outcome.
var SyncOperations = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "stock_tracker",
		Subsystem: "sync",
		Name:      "operations_total",
		Help:      "Sync engine operations by operation and outcome.",
	},
	[]string{"operation", "outcome"},
)

// WebhookEvents counts inbound webhook deliveries by topic and outcome.
var WebhookEvents = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "stock_tracker",
		Subsystem: "webhook",
		Name:      "events_total",
		Help:      "Inbound Shopify webhook deliveries by topic and outcome.",
	},
	[]string{"topic", "outcome"},
)

// Outcome labels.
const (
	OutcomeSuccess  = "success"
	OutcomeFailure  = "failure"
	OutcomeSkipped  = "skipped"
	OutcomeRejected = "rejected"
	OutcomeReplayed = "replayed"
)

// ObserveSync records a sync operation outcome.
func ObserveSync(operation string, err error) {
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeFailure
	}
	SyncOperations.WithLabelValues(operation, outcome).Inc()
}
