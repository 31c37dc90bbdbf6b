// Package metrics defines and registers all custom Prometheus metrics for the
// CineAI client. It is the single source of truth for metric names, labels,
// and help strings. Registration happens with the default registry at import
// time via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "cineai_client"

// RequestsTotal counts outbound API requests.
// Labels:
//   - endpoint: the logical route template (e.g. "/api/auth/login")
//   - outcome: "ok", "rejected" (server error envelope) or "error" (transport)
var RequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "requests_total",
		Help:      "Total number of API requests issued by the client.",
	},
	[]string{"endpoint", "outcome"},
)

// UnauthorizedTotal counts responses carrying the authorization failure
// signal, regardless of which operation issued the request.
var UnauthorizedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "unauthorized_responses_total",
		Help:      "Total number of responses with an unauthorized status.",
	},
)

// SessionTransitionsTotal counts session state machine transitions.
// Label:
//   - to: the status entered ("authenticated" or "unauthenticated")
var SessionTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_transitions_total",
		Help:      "Total number of session state transitions, by target state.",
	},
	[]string{"to"},
)

// ForcedLogoutsTotal counts logouts triggered by an observed authorization
// failure rather than explicit user action.
var ForcedLogoutsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "forced_logouts_total",
		Help:      "Total number of logouts forced by authorization expiry.",
	},
)
