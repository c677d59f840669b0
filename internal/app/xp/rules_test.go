package xp_test

import (
	"testing"
	"time"

	"github.com/sparfuchs-app/sparfuchs/internal/app/xp"
	"github.com/sparfuchs-app/sparfuchs/internal/domain"
)

func TestParseMultiplier(t *testing.T) {
	cases := []struct {
		raw  string
		want float64
	}{
		{"2", 2},
		{"1.5", 1.5},
		{" 3 ", 3},
		{"", 1},
		{"abc", 1},
		{"NaN", 1},
		{"+Inf", 1},
		{"0.5", 1}, // below default never lowers an award
		{"-2", 1},
	}
	for _, c := range cases {
		if got := xp.ParseMultiplier(c.raw); got != c.want {
			t.Errorf("ParseMultiplier(%q) = %v, want %v", c.raw, got, c.want)
		}
	}
}

func TestHighestMultiplier_PicksHighest(t *testing.T) {
	now := time.Date(2025, 7, 15, 12, 0, 0, 0, time.UTC)
	rules := []domain.EventRule{
		{ID: "r1", EventTypeID: "evt-snap", Multiplier: "2", Active: true},
		{ID: "r2", EventTypeID: "evt-snap", Multiplier: "3", Active: true},
		{ID: "r3", EventTypeID: "evt-snap", Multiplier: "5", Active: false},
		{ID: "r4", EventTypeID: "evt-other", Multiplier: "10", Active: true},
	}
	if got := xp.HighestMultiplier(rules, "evt-snap", now); got != 3 {
		t.Errorf("expected highest active matching rule (3), got %v", got)
	}
}

func TestHighestMultiplier_NoRules(t *testing.T) {
	now := time.Date(2025, 7, 15, 12, 0, 0, 0, time.UTC)
	if got := xp.HighestMultiplier(nil, "evt-snap", now); got != 1 {
		t.Errorf("expected default 1, got %v", got)
	}
}

func TestHighestMultiplier_Window(t *testing.T) {
	rules := []domain.EventRule{{
		ID:          "r1",
		EventTypeID: "evt-snap",
		Multiplier:  "2",
		Active:      true,
		StartsAt:    "2025-07-01T00:00:00Z",
		EndsAt:      "2025-07-31T23:59:59Z",
	}}

	inside := time.Date(2025, 7, 15, 12, 0, 0, 0, time.UTC)
	if got := xp.HighestMultiplier(rules, "evt-snap", inside); got != 2 {
		t.Errorf("expected 2 inside window, got %v", got)
	}

	before := time.Date(2025, 6, 30, 12, 0, 0, 0, time.UTC)
	if got := xp.HighestMultiplier(rules, "evt-snap", before); got != 1 {
		t.Errorf("expected 1 before window, got %v", got)
	}

	after := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)
	if got := xp.HighestMultiplier(rules, "evt-snap", after); got != 1 {
		t.Errorf("expected 1 after window, got %v", got)
	}
}

func TestHighestMultiplier_MalformedWindowFailsClosed(t *testing.T) {
	rules := []domain.EventRule{{
		ID:          "r1",
		EventTypeID: "evt-snap",
		Multiplier:  "2",
		Active:      true,
		StartsAt:    "not-a-date",
	}}
	now := time.Date(2025, 7, 15, 12, 0, 0, 0, time.UTC)
	if got := xp.HighestMultiplier(rules, "evt-snap", now); got != 1 {
		t.Errorf("malformed window must not apply, got %v", got)
	}
}

func TestHighestMultiplier_DayOfMonth(t *testing.T) {
	rules := []domain.EventRule{{
		ID:          "rule-payday",
		EventTypeID: "evt-snap",
		Multiplier:  "2",
		Active:      true,
		Conditions:  domain.RuleCondition{Kind: domain.ConditionDayOfMonth, Day: 1},
	}}

	payday := time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC)
	if got := xp.HighestMultiplier(rules, "evt-snap", payday); got != 2 {
		t.Errorf("expected 2 on day 1, got %v", got)
	}

	midMonth := time.Date(2025, 7, 15, 9, 0, 0, 0, time.UTC)
	if got := xp.HighestMultiplier(rules, "evt-snap", midMonth); got != 1 {
		t.Errorf("expected 1 off day 1, got %v", got)
	}
}

func TestHighestMultiplier_UnknownConditionNeverMatches(t *testing.T) {
	rules := []domain.EventRule{{
		ID:          "r1",
		EventTypeID: "evt-snap",
		Multiplier:  "4",
		Active:      true,
		Conditions:  domain.RuleCondition{Kind: "moon_phase"},
	}}
	now := time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC)
	if got := xp.HighestMultiplier(rules, "evt-snap", now); got != 1 {
		t.Errorf("unknown condition kind must not match, got %v", got)
	}
}
