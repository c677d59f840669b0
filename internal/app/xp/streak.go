package xp

import (
	"time"

	"github.com/sparfuchs-app/sparfuchs/internal/domain"
	"github.com/sparfuchs-app/sparfuchs/internal/infra/metrics"
)

// Daily login and streak orchestration. Invoked once per app-foreground
// transition and once at session start — never per render.
//
// The streak is keyed by local calendar day: logging in on consecutive
// days extends it, a gap of two or more days resets it to 1 (today still
// counts), and a repeat login on the same day is a no-op.

// HandleDailyLogin runs the daily-login orchestration at the current instant.
func (e *Engine) HandleDailyLogin() *domain.UserProgress {
	return e.HandleDailyLoginAt(time.Now())
}

// HandleDailyLoginAt runs the daily-login orchestration as of now.
// The daily_login award carries the streak fields in its progress patch,
// so streak state and XP land in the same persisted write. Every 7th
// consecutive day a streak_7_bonus award follows, built on the
// just-persisted progress rather than stale state.
func (e *Engine) HandleDailyLoginAt(now time.Time) *domain.UserProgress {
	e.mu.Lock()
	userID := e.user
	cfg := e.cfg
	e.mu.Unlock()

	if userID == "" || cfg == nil {
		return nil
	}

	// The day-key check and the award sit under the same user lock;
	// otherwise two concurrent foreground edges both read yesterday's key
	// and count the day twice.
	lock := e.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	e.mu.Lock()
	base := e.cache[userID]
	e.mu.Unlock()
	if base == nil {
		return nil
	}

	todayKey := domain.DayKey(now)
	if base.LastStreakDate == todayKey {
		return base // already counted today
	}

	yesterdayKey := domain.DayKey(now.AddDate(0, 0, -1))
	nextStreak := 1
	if base.LastStreakDate == yesterdayKey {
		nextStreak = base.CurrentStreak + 1
	}
	nextLongest := base.LongestStreak
	if nextStreak > nextLongest {
		nextLongest = nextStreak
	}

	patch := &domain.ProgressPatch{
		LastLoginAt:    &now,
		LastStreakDate: &todayKey,
		CurrentStreak:  &nextStreak,
		LongestStreak:  &nextLongest,
	}

	// Gated by the day key above, not by the generic cooldown.
	updated := e.awardLocked(userID, cfg, AwardInput{
		EventKey:          domain.EventDailyLogin,
		SkipCooldownCheck: true,
		ProgressPatch:     patch,
	}, now)
	if updated == nil {
		return base
	}

	if nextStreak > 0 && nextStreak%7 == 0 {
		if bonus := e.awardLocked(userID, cfg, AwardInput{
			EventKey:          domain.EventStreak7Bonus,
			SkipCooldownCheck: true,
			ProgressOverride:  updated,
		}, now); bonus != nil {
			updated = bonus
		}
	}

	metrics.StreakCurrent.Set(float64(updated.CurrentStreak))
	return updated
}

// OnForeground is the explicit lifecycle entry point the host delivers on
// a background→active edge. It keeps the engine free of platform
// lifecycle APIs.
func (e *Engine) OnForeground() *domain.UserProgress {
	return e.OnForegroundAt(time.Now())
}

// OnForegroundAt runs the foreground orchestration as of now.
func (e *Engine) OnForegroundAt(now time.Time) *domain.UserProgress {
	return e.HandleDailyLoginAt(now)
}
