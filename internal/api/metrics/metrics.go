// Package metrics defines and registers all custom Prometheus metrics
// for the coaching platform API. It is the single source of truth for
// metric names, labels, and help strings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "coaching"

// AccessDeniedTotal counts gateway denials by reason.
// Labels:
//   - reason: "invalid_context", "not_protected", "unauthorized",
//     "not_found", "integrity"
var AccessDeniedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "access_denied_total",
		Help:      "Total number of denied data access operations, by reason.",
	},
	[]string{"reason"},
)

// IntegrityRejectionsTotal counts writes rejected by the data
// integrity validator, by collection.
var IntegrityRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "integrity_rejections_total",
		Help:      "Total number of writes rejected for missing required ownership fields.",
	},
	[]string{"collection"},
)

// RoleCacheTotal counts role cache lookups, by result (hit/miss/error).
var RoleCacheTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "role_cache_total",
		Help:      "Total number of role cache lookups, by result.",
	},
	[]string{"result"},
)

// NotificationsTotal counts processed trainer notifications.
// Label:
//   - status: "delivered" or "error"
var NotificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_total",
		Help:      "Total number of trainer notifications processed, by status.",
	},
	[]string{"status"},
)

// NotificationQueueDepth tracks the number of notifications waiting in
// each worker channel.
var NotificationQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "notification_queue_depth",
		Help:      "Current number of notifications pending in each worker channel.",
	},
	[]string{"worker_id"},
)
