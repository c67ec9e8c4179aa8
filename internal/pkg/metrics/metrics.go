// Package metrics defines and registers all custom Prometheus metrics for the
// onboarding API. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics are registered with the default Prometheus registry at init time via
// promauto; the router exposes them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "onboarding"

// ── Saga metrics ──────────────────────────────────────────────────────────────

// RegistrationsTotal counts finished registration sagas.
// Labels:
//   - kind: profile kind ("client", "artist", "studio")
//   - outcome: "success", "validation_rejected", "duplicate", "identity_error",
//     "persistence_error"
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of registration sagas, by kind and outcome.",
	},
	[]string{"kind", "outcome"},
)

// RegistrationDuration measures how long one saga takes end-to-end, including
// compensations on failure.
var RegistrationDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "registration_duration_seconds",
		Help:      "Duration of a registration saga from validation to terminal outcome.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"kind"},
)

// CompensationsTotal counts executed compensation actions.
// Labels:
//   - step: the compensated step ("identity", "user_row", "profile_row")
//   - result: "ok" or "failed" (a failed compensation is logged, never retried here)
var CompensationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "compensations_total",
		Help:      "Total number of compensation actions run, by step and result.",
	},
	[]string{"step", "result"},
)

// ── Best-effort step metrics ──────────────────────────────────────────────────

// EnrichmentLookupsTotal counts postal-code enrichment attempts.
// Label:
//   - result: "resolved" or "unavailable"
var EnrichmentLookupsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "enrichment_lookups_total",
		Help:      "Total number of postal-code enrichment lookups, by result.",
	},
	[]string{"result"},
)

// BillingRequestsTotal counts billing-service calls.
// Labels:
//   - operation: "create_customer", "create_subscription", "attach"
//   - result: "ok" or "failed"
var BillingRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "billing_requests_total",
		Help:      "Total number of billing provisioning calls, by operation and result.",
	},
	[]string{"operation", "result"},
)
