package xp

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/sparfuchs-app/sparfuchs/internal/domain"
)

// HighestMultiplier resolves the multiplier to apply to an award of the
// given event type at instant now. Policy: the highest applicable bonus
// wins — overlapping promotions never stack. The result is always >= 1.
func HighestMultiplier(rules []domain.EventRule, eventTypeID string, now time.Time) float64 {
	highest := 1.0
	for _, r := range rules {
		if !r.Active || r.EventTypeID != eventTypeID {
			continue
		}
		if !withinWindow(r.StartsAt, r.EndsAt, now) {
			continue
		}
		if !conditionMatches(r.Conditions, now) {
			continue
		}
		if m := ParseMultiplier(r.Multiplier); m > highest {
			highest = m
		}
	}
	return highest
}

// ParseMultiplier parses a multiplier from its raw source form. Configs
// deliver it as a number or a string; anything unparseable, non-finite,
// or below the default is coerced to 1 so a bad rule can never lower an
// award.
func ParseMultiplier(raw string) float64 {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 1
	}
	m, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(m) || math.IsInf(m, 0) || m < 1 {
		return 1
	}
	return m
}

// withinWindow checks the inclusive [startsAt, endsAt] validity window.
// An empty bound is unbounded on that side. A malformed bound fails
// closed: the rule is treated as not-in-range.
func withinWindow(startsAt, endsAt string, now time.Time) bool {
	if startsAt != "" {
		t, err := time.Parse(time.RFC3339, startsAt)
		if err != nil || now.Before(t) {
			return false
		}
	}
	if endsAt != "" {
		t, err := time.Parse(time.RFC3339, endsAt)
		if err != nil || now.After(t) {
			return false
		}
	}
	return true
}

// conditionMatches evaluates the rule's tagged condition against now.
// No condition matches everything; unknown condition kinds never match.
func conditionMatches(c domain.RuleCondition, now time.Time) bool {
	switch c.Kind {
	case "":
		return true
	case domain.ConditionDayOfMonth:
		return now.Day() == c.Day
	default:
		return false
	}
}
