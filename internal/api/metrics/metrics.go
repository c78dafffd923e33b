// Package metrics defines and registers all custom Prometheus metrics for
// the R3alm session gateway. It is the single source of truth for metric
// names, labels, and help strings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "r3alm_session"

// SignInsTotal counts explicit sign-in attempts.
// Label:
//   - result: "success", "invalid_credentials", "rate_limited",
//     "profile_missing" or "error"
var SignInsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "signins_total",
		Help:      "Total number of sign-in attempts, by result.",
	},
	[]string{"result"},
)

// SignUpsTotal counts registration attempts.
// Label:
//   - result: "success", "already_registered", "rate_limited" or "error"
var SignUpsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "signups_total",
		Help:      "Total number of sign-up attempts, by result.",
	},
	[]string{"result"},
)

// DemoLoginsTotal counts demo persona logins.
// Label:
//   - persona: "collector", "creator", "investor" or "admin"
var DemoLoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "demo_logins_total",
		Help:      "Total number of demo persona logins, by persona.",
	},
	[]string{"persona"},
)

// SignOutsTotal counts explicit sign-outs.
var SignOutsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "signouts_total",
		Help:      "Total number of explicit sign-outs.",
	},
)

// GateDecisionsTotal counts route-guard verdicts.
// Labels:
//   - guard: "auth" or "role"
//   - verdict: "admitted", "pending", "unauthenticated" or "forbidden"
var GateDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "gate_decisions_total",
		Help:      "Total number of authorization gate decisions, by guard and verdict.",
	},
	[]string{"guard", "verdict"},
)
