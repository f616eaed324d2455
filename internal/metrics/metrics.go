// Package metrics defines the Prometheus metrics exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "commflock"

// RequestsTotal counts handled HTTP requests by method, route and status class.
var RequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests handled.",
	},
	[]string{"method", "route", "status"},
)

// JoinsTotal counts join requests by outcome (approved, pending, rejected_policy,
// rejected_requirement, duplicate).
var JoinsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "community_joins_total",
		Help:      "Total number of community join requests by outcome.",
	},
	[]string{"outcome"},
)

// RegistrationsTotal counts event registration attempts by outcome
// (ok, full, duplicate, not_open, not_member).
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "event_registrations_total",
		Help:      "Total number of event registration attempts by outcome.",
	},
	[]string{"outcome"},
)

// VotesTotal counts poll vote attempts by outcome (ok, closed, duplicate, invalid_option, not_member).
var VotesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "poll_votes_total",
		Help:      "Total number of poll vote attempts by outcome.",
	},
	[]string{"outcome"},
)

// OutboxRelayedTotal counts outbox rows relayed to Kafka by result (sent, failed).
var OutboxRelayedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "outbox_relayed_total",
		Help:      "Total number of activity outbox rows relayed, by result.",
	},
	[]string{"result"},
)
