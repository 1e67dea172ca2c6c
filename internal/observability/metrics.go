// Package observability wires the Prometheus metric bundles each module
// receives at construction time.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// TipMetrics records verification activity for the tip module.
type TipMetrics struct {
	VerificationsTotal   *prometheus.CounterVec
	VerificationFailures *prometheus.CounterVec
	OperationDuration    *prometheus.HistogramVec
}

// NewTipMetrics registers the tip module metrics on the given registry.
func NewTipMetrics(reg prometheus.Registerer) *TipMetrics {
	factory := promauto.With(reg)
	return &TipMetrics{
		VerificationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tipboard",
			Subsystem: "tip",
			Name:      "verifications_total",
			Help:      "Number of successful tip verifications by resulting status.",
		}, []string{"status"}),
		VerificationFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tipboard",
			Subsystem: "tip",
			Name:      "verification_failures_total",
			Help:      "Number of failed tip verifications by failure kind.",
		}, []string{"kind"}),
		OperationDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "tipboard",
			Subsystem: "tip",
			Name:      "operation_duration_seconds",
			Help:      "Duration of tip service operations.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
	}
}

// RecordVerification counts a successful verification outcome.
func (m *TipMetrics) RecordVerification(status string) {
	if m == nil {
		return
	}
	m.VerificationsTotal.WithLabelValues(status).Inc()
}

// RecordVerificationFailure counts a failed verification by kind.
func (m *TipMetrics) RecordVerificationFailure(kind string) {
	if m == nil {
		return
	}
	m.VerificationFailures.WithLabelValues(kind).Inc()
}

// RecordOperationDuration observes a service operation duration.
func (m *TipMetrics) RecordOperationDuration(operation string, d time.Duration) {
	if m == nil {
		return
	}
	m.OperationDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// LeaderboardMetrics records recompute activity for the leaderboard module.
type LeaderboardMetrics struct {
	RecomputesTotal    prometheus.Counter
	RecomputesSkipped  prometheus.Counter
	CoalescedEvents    prometheus.Counter
	SnapshotsPublished prometheus.Counter
	RecomputeDuration  prometheus.Histogram
	RankedUsers        prometheus.Gauge
}

// NewLeaderboardMetrics registers the leaderboard module metrics on the
// given registry.
func NewLeaderboardMetrics(reg prometheus.Registerer) *LeaderboardMetrics {
	factory := promauto.With(reg)
	return &LeaderboardMetrics{
		RecomputesTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "tipboard",
			Subsystem: "leaderboard",
			Name:      "recomputes_total",
			Help:      "Number of leaderboard recomputes executed.",
		}),
		RecomputesSkipped: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "tipboard",
			Subsystem: "leaderboard",
			Name:      "recomputes_superseded_total",
			Help:      "Number of recompute results discarded because a newer recompute finished first.",
		}),
		CoalescedEvents: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "tipboard",
			Subsystem: "leaderboard",
			Name:      "coalesced_events_total",
			Help:      "Number of change notifications absorbed into an already-pending recompute.",
		}),
		SnapshotsPublished: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "tipboard",
			Subsystem: "leaderboard",
			Name:      "snapshots_published_total",
			Help:      "Number of leaderboard snapshots delivered to subscribers.",
		}),
		RecomputeDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "tipboard",
			Subsystem: "leaderboard",
			Name:      "recompute_duration_seconds",
			Help:      "Duration of a full leaderboard recompute.",
			Buckets:   prometheus.DefBuckets,
		}),
		RankedUsers: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "tipboard",
			Subsystem: "leaderboard",
			Name:      "ranked_users",
			Help:      "Number of tipsters in the latest published leaderboard.",
		}),
	}
}
