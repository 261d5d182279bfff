// Package metrics defines and registers all custom Prometheus metrics for
// the mini-app API. It is the single source of truth for metric names,
// labels, and help strings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "miniapp"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// AuthAttemptsTotal counts Mini-App login attempts.
// Label:
//   - result: "success", "invalid" (bad initData), or "error" (storage)
var AuthAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Total number of initData login attempts, by result.",
	},
	[]string{"result"},
)

// TokenRefreshTotal counts silent token rotations performed by the
// session middleware on behalf of requests with an expired access token.
var TokenRefreshTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_refresh_total",
		Help:      "Total number of token pairs minted via the refresh path.",
	},
)

// ── Order metrics ─────────────────────────────────────────────────────────────

// OrdersCreatedTotal counts successfully created orders.
var OrdersCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "orders_created_total",
		Help:      "Total number of orders created.",
	},
)

// OrderErrorsTotal counts rejected order submissions.
// Label:
//   - reason: machine-readable code ("invalid_type", "invalid_quantity",
//     "unknown_reference", "empty_order")
var OrderErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "order_errors_total",
		Help:      "Total number of order submissions rejected by validation.",
	},
	[]string{"reason"},
)

// ── Notification metrics ──────────────────────────────────────────────────────

// NotifyQueueDepth tracks the number of notifications pending in each
// dispatcher worker channel.
// Label:
//   - worker_id: numeric worker index ("0", "1", …)
var NotifyQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "notify_queue_depth",
		Help:      "Current number of notifications pending per dispatcher worker.",
	},
	[]string{"worker_id"},
)

// NotifyErrorsTotal counts notification deliveries that failed.
var NotifyErrorsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notify_errors_total",
		Help:      "Total number of failed notification deliveries.",
	},
)
