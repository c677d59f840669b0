// Package xp implements the Sparfuchs XP engine: leveling, multiplier
// rules, award orchestration with cooldown/cap enforcement, and daily
// login streaks.
package xp

import (
	"sort"

	"github.com/sparfuchs-app/sparfuchs/internal/domain"
)

// ResolveLevelByXP returns the highest catalog level whose threshold is
// reached by xpTotal. The catalog may arrive unsorted. With a non-empty
// catalog there is always a result: below every threshold the lowest
// level acts as the floor. An empty catalog returns nil — configuration
// was never loaded, a degraded state rather than an error.
func ResolveLevelByXP(levels []domain.Level, xpTotal int64) *domain.Level {
	if len(levels) == 0 {
		return nil
	}

	sorted := make([]domain.Level, len(levels))
	copy(sorted, levels)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].XPRequired < sorted[j].XPRequired
	})

	best := sorted[0]
	for _, l := range sorted[1:] {
		if l.XPRequired <= xpTotal {
			best = l
		}
	}
	return &best
}

// NextLevel returns the cheapest level strictly above xpTotal, or nil at
// the top of the ladder. Used for progress display.
func NextLevel(levels []domain.Level, xpTotal int64) *domain.Level {
	var next *domain.Level
	for i := range levels {
		l := levels[i]
		if l.XPRequired > xpTotal && (next == nil || l.XPRequired < next.XPRequired) {
			next = &levels[i]
		}
	}
	return next
}

// ProgressPct returns progress toward the next level (0.0–100.0).
// At the top of the ladder it reports 100.
func ProgressPct(levels []domain.Level, xpTotal int64) float64 {
	current := ResolveLevelByXP(levels, xpTotal)
	if current == nil {
		return 0
	}
	next := NextLevel(levels, xpTotal)
	if next == nil {
		return 100.0
	}
	span := next.XPRequired - current.XPRequired
	if span <= 0 {
		return 100.0
	}
	pct := float64(xpTotal-current.XPRequired) / float64(span) * 100.0
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	return pct
}
