// Package metrics defines and registers all custom Prometheus metrics for the
// blog API. It is the single source of truth for metric names, labels, and
// help strings.
//
// Metrics are registered with the default Prometheus registry on package
// initialisation; /metrics exposes them together with the HTTP metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "blog"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// AuthRejectionsTotal counts requests stopped by the authentication or
// authorization stages.
// Label:
//   - reason: "missing_credential", "invalid_credential", "principal_not_found",
//     "stale_credential", "account_suspended", "forbidden" or "internal"
var AuthRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_rejections_total",
		Help:      "Total number of requests rejected by the auth pipeline.",
	},
	[]string{"reason"},
)

// LoginsTotal counts login attempts.
// Label:
//   - result: "success", "invalid_credentials", "suspended" or "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// LogoutsTotal counts token version bumps triggered by logout.
var LogoutsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logouts_total",
		Help:      "Total number of logouts (token version increments).",
	},
)

// PasswordHashDuration measures bcrypt work on the hash pool.
// Label:
//   - op: "hash" or "verify"
var PasswordHashDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "password_hash_duration_seconds",
		Help:      "Duration of password hash and verify operations.",
		Buckets:   []float64{.01, .025, .05, .1, .25, .5, 1, 2.5},
	},
	[]string{"op"},
)

// HashQueueDepth tracks pending jobs per hash pool worker.
// Label:
//   - worker_id: numeric worker index
var HashQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "hash_queue_depth",
		Help:      "Current number of jobs pending in each hash pool worker channel.",
	},
	[]string{"worker_id"},
)

// ── Blog metrics ──────────────────────────────────────────────────────────────

// BlogsCreatedTotal counts published blogs.
var BlogsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "blogs_created_total",
		Help:      "Total number of blogs created.",
	},
)

// LikesToggledTotal counts like toggles.
// Label:
//   - action: "like" or "unlike"
var LikesToggledTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "likes_toggled_total",
		Help:      "Total number of like toggles, by resulting action.",
	},
	[]string{"action"},
)

// CategoryCacheTotal counts category cache lookups.
// Label:
//   - result: "hit", "miss" or "error"
var CategoryCacheTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "category_cache_total",
		Help:      "Total number of category cache lookups, by result.",
	},
	[]string{"result"},
)
