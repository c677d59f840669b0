// Package metrics provides Prometheus metrics for Sparfuchs — counters
// and gauges for XP awards, persistence health, and the financial ledger.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ─── XP Engine ──────────────────────────────────────────────────────────────

// XPAwards tracks persisted awards by event key.
var XPAwards = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "sparfuchs",
	Name:      "xp_awards_total",
	Help:      "Total persisted XP awards.",
}, []string{"event"})

// XPAwardSkips tracks policy skips by reason (cap, cooldown, zero_delta).
var XPAwardSkips = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "sparfuchs",
	Name:      "xp_award_skips_total",
	Help:      "Total awards skipped by policy.",
}, []string{"reason"})

// XPDelta tracks total XP granted.
var XPDelta = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "sparfuchs",
	Name:      "xp_granted_total",
	Help:      "Total XP points granted.",
})

// StreakCurrent tracks the current login streak.
var StreakCurrent = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "sparfuchs",
	Name:      "streak_current_days",
	Help:      "Current consecutive-day login streak.",
})

// ─── Persistence ────────────────────────────────────────────────────────────

// PersistFailures tracks swallowed persistence errors by component.
var PersistFailures = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "sparfuchs",
	Name:      "persist_failures_total",
	Help:      "Total persistence errors caught at an orchestration boundary.",
}, []string{"component"})

// StoreFallbacks counts primary-store failures that escalated to the
// in-memory fallback. At most one per session.
var StoreFallbacks = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "sparfuchs",
	Name:      "store_fallbacks_total",
	Help:      "Primary store failures escalated to the in-memory fallback.",
})

// ─── Ledger ─────────────────────────────────────────────────────────────────

// LedgerWrites tracks persisted ledger operations by kind.
var LedgerWrites = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "sparfuchs",
	Name:      "ledger_writes_total",
	Help:      "Total transaction writes flushed to the store.",
}, []string{"kind"})
