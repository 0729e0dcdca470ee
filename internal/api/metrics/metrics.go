// Package metrics defines the custom Prometheus metrics of the dispatch
// coordinator. It is the single source of truth for metric names, labels,
// and help strings. Metrics register with the default registry on import.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "dispatch"

// ── Offer metrics ─────────────────────────────────────────────────────────────

// OffersCreatedTotal counts offers stored.
var OffersCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "offers_created_total",
		Help:      "Total number of driver offers stored.",
	},
)

// OffersAcceptedTotal counts successful accept calls.
// Label:
//   - result: "accepted" (first accept) or "replayed" (idempotent repeat)
var OffersAcceptedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "offers_accepted_total",
		Help:      "Total number of successful accept calls, by result.",
	},
	[]string{"result"},
)

// OfferPrice observes the price of stored offers.
var OfferPrice = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "offer_price",
		Help:      "Distribution of offered prices.",
		Buckets:   prometheus.ExponentialBuckets(50, 2, 10), // 50 … 25600
	},
)

// ── Dispatch metrics ──────────────────────────────────────────────────────────

// DispatchesSubmittedTotal counts stored dispatch records.
var DispatchesSubmittedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "dispatches_submitted_total",
		Help:      "Total number of dispatch records stored.",
	},
)

// ── Error metrics ─────────────────────────────────────────────────────────────

// ErrorsTotal counts failed API calls.
// Labels:
//   - kind: "validation", "not_found", "conflict", "unavailable", "internal" or "http"
//   - route: the matched route path
var ErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "errors_total",
		Help:      "Total number of failed API calls, by error kind and route.",
	},
	[]string{"kind", "route"},
)
