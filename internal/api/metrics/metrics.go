// Package metrics defines and registers all custom Prometheus metrics for
// the feedbackbox API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics register with the default Prometheus registry via promauto at
// package load; the echoprometheus handler exposes them.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "feedbackbox"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// LoginsTotal counts password login attempts.
// Label:
//   - outcome: "success", "invalid_credentials", "deactivated", "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of password login attempts, by outcome.",
	},
	[]string{"outcome"},
)

// RegistrationsTotal counts created identities.
// Label:
//   - origin: "local", "google", "github"
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of identities created, by origin.",
	},
	[]string{"origin"},
)

// OAuthLoginsTotal counts federated login callbacks.
// Labels:
//   - provider: "google" or "github"
//   - outcome: "success", "bad_state", "exchange_failed", "link_failed"
var OAuthLoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "oauth_logins_total",
		Help:      "Total number of federated login callbacks, by provider and outcome.",
	},
	[]string{"provider", "outcome"},
)

// TokenVerificationsTotal counts bearer token checks in the session
// resolution middleware.
// Label:
//   - result: "ok", "expired", "invalid", "user_gone"
var TokenVerificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_verifications_total",
		Help:      "Total number of bearer token verifications, by result.",
	},
	[]string{"result"},
)

// ── Feedback metrics ──────────────────────────────────────────────────────────

// FeedbackCreatedTotal counts submitted feedback messages.
// Label:
//   - anonymous: "true" or "false"
var FeedbackCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "feedback_created_total",
		Help:      "Total number of feedback messages submitted, by anonymity.",
	},
	[]string{"anonymous"},
)

// FeedbackDeletedTotal counts feedback messages removed by their recipient.
var FeedbackDeletedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "feedback_deleted_total",
		Help:      "Total number of feedback messages deleted by recipients.",
	},
)
