// Package metrics defines and registers the custom Prometheus metrics for the
// student management API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default Prometheus registry on import.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "students"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// AuthRegistrationsTotal counts registration attempts.
// Label:
//   - result: "created", "duplicate_username", "duplicate_email", "invalid" or "error"
var AuthRegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_registrations_total",
		Help:      "Total number of registration attempts, by result.",
	},
	[]string{"result"},
)

// AuthLoginsTotal counts login attempts.
// Label:
//   - result: "success", "unknown_user", "bad_password", "invalid" or "error"
var AuthLoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// TokenValidationsTotal counts bearer token checks made by the auth middleware.
// Label:
//   - result: "valid", "invalid", "expired" or "missing"
var TokenValidationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_validations_total",
		Help:      "Total number of bearer token validations, by result.",
	},
	[]string{"result"},
)

// AuthOperationDuration measures register and login latency, dominated by
// password hashing.
// Label:
//   - operation: "register" or "login"
var AuthOperationDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "auth_operation_duration_seconds",
		Help:      "Duration of register and login operations.",
		Buckets:   []float64{.01, .025, .05, .1, .25, .5, 1, 2.5},
	},
	[]string{"operation"},
)

// ── Student metrics ───────────────────────────────────────────────────────────

// StudentOperationsTotal counts student record operations.
// Labels:
//   - operation: "list", "get", "create", "update" or "delete"
//   - result: "ok", "not_found", "conflict", "invalid" or "error"
var StudentOperationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "student_operations_total",
		Help:      "Total number of student operations, by operation and result.",
	},
	[]string{"operation", "result"},
)
