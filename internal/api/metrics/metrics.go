// Package metrics defines and registers all custom Prometheus metrics for the
// authgate API. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics are registered with the default registry via promauto at package
// load; the router exposes them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "authgate"

// AuthDecisionsTotal counts request-filter outcomes.
// Label:
//   - decision: "excluded" (path bypassed auth), "unauthorized" (401),
//     "forbidden" (403), or "allowed" (principal resolved)
var AuthDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_decisions_total",
		Help:      "Total number of authentication filter decisions, by outcome.",
	},
	[]string{"decision"},
)

// LoginsTotal counts login attempts.
// Label:
//   - result: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// RegistrationsTotal counts registration attempts.
// Label:
//   - result: "created", "conflict", or "error"
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of user registration attempts, by result.",
	},
	[]string{"result"},
)

// RegisterSessionsGauge exposes the live-session count of the in-memory
// registry as a gauge. Call at most once, and only when the deployment uses
// the in-memory store; the other backends track liveness server-side.
func RegisterSessionsGauge(count func() int) {
	promauto.NewGaugeFunc(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sessions_active",
			Help:      "Current number of live sessions in the in-memory registry.",
		},
		func() float64 { return float64(count()) },
	)
}

// PasswordResetsTotal counts password-reset flows.
// Label:
//   - stage: "token_issued" or "password_updated"
var PasswordResetsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "password_resets_total",
		Help:      "Total number of password reset operations, by stage.",
	},
	[]string{"stage"},
)
