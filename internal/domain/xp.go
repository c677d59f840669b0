// Package domain holds the Sparfuchs core types.
// Domain types are pure — no infrastructure dependency.
package domain

import "time"

// ─── Level Catalog ──────────────────────────────────────────────────────────

// Level is an immutable catalog entry of the leveling ladder.
// Levels are totally ordered by XPRequired; exactly one level carries the
// minimum threshold and acts as the floor.
type Level struct {
	ID          string `json:"id"`
	LevelNumber int    `json:"level_number"`
	Name        string `json:"name"`
	Emoji       string `json:"emoji"`
	XPRequired  int64  `json:"xp_required"`
}

// ─── Event Types & Rules ────────────────────────────────────────────────────

// EventType describes one XP-awarding action.
// MaxPerUser and CooldownHours are nil when the event type is uncapped
// or has no cooldown.
type EventType struct {
	ID            string `json:"id"`
	Key           string `json:"key"`
	Name          string `json:"name"`
	BaseXP        int64  `json:"base_xp"`
	Active        bool   `json:"active"`
	MaxPerUser    *int   `json:"max_per_user,omitempty"`
	CooldownHours *int   `json:"cooldown_hours,omitempty"`
}

// RuleCondition is the tagged condition attached to an event rule.
// An empty Kind means unconditional. Unknown kinds never match.
const ConditionDayOfMonth = "day_of_month"

type RuleCondition struct {
	Kind string `json:"kind,omitempty"`
	Day  int    `json:"day,omitempty"`
}

// EventRule is a time/condition-scoped multiplier for one event type.
// Multiplier is kept as the raw source string (configs deliver it as
// number or string) and parsed defensively at resolution time.
// StartsAt/EndsAt are RFC 3339 bounds; empty means unbounded, malformed
// means the rule is treated as not-in-range.
type EventRule struct {
	ID          string        `json:"id"`
	EventTypeID string        `json:"event_type_id"`
	Multiplier  string        `json:"multiplier"`
	Conditions  RuleCondition `json:"conditions"`
	Active      bool          `json:"active"`
	StartsAt    string        `json:"starts_at,omitempty"`
	EndsAt      string        `json:"ends_at,omitempty"`
}

// XPConfig is the full rule configuration, loaded once per session.
type XPConfig struct {
	Levels     []Level     `json:"levels"`
	EventTypes []EventType `json:"event_types"`
	EventRules []EventRule `json:"event_rules"`
}

// EventTypeByKey returns the event type with the given key, or nil.
func (c XPConfig) EventTypeByKey(key string) *EventType {
	for i := range c.EventTypes {
		if c.EventTypes[i].Key == key {
			return &c.EventTypes[i]
		}
	}
	return nil
}

// ─── User Progress ──────────────────────────────────────────────────────────

// UserProgress is the single mutable per-user aggregate.
// XPTotal is monotonically non-decreasing; CurrentLevelID always equals
// the level resolved from XPTotal against the catalog.
// Invariant: LongestStreak >= CurrentStreak.
type UserProgress struct {
	UserID         string    `json:"user_id"`
	XPTotal        int64     `json:"xp_total"`
	CurrentLevelID string    `json:"current_level_id"`
	CurrentStreak  int       `json:"current_streak"`
	LongestStreak  int       `json:"longest_streak"`
	LastLoginAt    time.Time `json:"last_login_at"`
	LastStreakDate string    `json:"last_streak_date"` // local calendar-day key, "2006-01-02"
}

// ProgressPatch carries the writable UserProgress fields for a partial
// update. Nil fields are left untouched by the store.
type ProgressPatch struct {
	XPTotal        *int64
	CurrentLevelID *string
	CurrentStreak  *int
	LongestStreak  *int
	LastLoginAt    *time.Time
	LastStreakDate *string
}

// ─── XP Events ──────────────────────────────────────────────────────────────

// XPEvent is one append-only award record. The engine never holds a full
// event log in memory; events are a write target and a query source for
// cap/cooldown checks.
type XPEvent struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	EventTypeID string    `json:"event_type_id"`
	EventKey    string    `json:"event_key"`
	BaseXP      int64     `json:"base_xp"`
	Multiplier  float64   `json:"multiplier"`
	Delta       int64     `json:"delta"`
	SourceType  string    `json:"source_type,omitempty"`
	SourceID    string    `json:"source_id,omitempty"`
	Meta        string    `json:"meta,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Well-known event keys used by the orchestration layer.
const (
	EventDailyLogin    = "daily_login"
	EventStreak7Bonus  = "streak_7_bonus"
	EventSnapCreated   = "snap_created"
	EventGoalCreated   = "goal_created"
	EventGoalCompleted = "goal_completed"
	EventBudgetCreated = "budget_created"
)

// DayKey returns the calendar-day key for t in its own location.
func DayKey(t time.Time) string {
	return t.Format("2006-01-02")
}
