package xp_test

import (
	"testing"

	"github.com/sparfuchs-app/sparfuchs/internal/app/xp"
	"github.com/sparfuchs-app/sparfuchs/internal/domain"
)

func ladder() []domain.Level {
	return []domain.Level{
		{ID: "lvl-1", LevelNumber: 1, Name: "Sparanfänger", XPRequired: 0},
		{ID: "lvl-2", LevelNumber: 2, Name: "Groschenzähler", XPRequired: 100},
		{ID: "lvl-3", LevelNumber: 3, Name: "Budgetplaner", XPRequired: 300},
	}
}

func TestResolveLevel_Floor(t *testing.T) {
	l := xp.ResolveLevelByXP(ladder(), 0)
	if l == nil || l.ID != "lvl-1" {
		t.Fatalf("expected lvl-1 at 0 XP, got %+v", l)
	}

	// Below every positive threshold the floor still applies.
	l = xp.ResolveLevelByXP(ladder(), 99)
	if l == nil || l.ID != "lvl-1" {
		t.Errorf("expected lvl-1 at 99 XP, got %+v", l)
	}
}

func TestResolveLevel_ExactThreshold(t *testing.T) {
	l := xp.ResolveLevelByXP(ladder(), 100)
	if l == nil || l.ID != "lvl-2" {
		t.Errorf("expected lvl-2 at exactly 100 XP, got %+v", l)
	}
}

func TestResolveLevel_AboveTop(t *testing.T) {
	l := xp.ResolveLevelByXP(ladder(), 100000)
	if l == nil || l.ID != "lvl-3" {
		t.Errorf("expected top level, got %+v", l)
	}
}

func TestResolveLevel_UnsortedCatalog(t *testing.T) {
	levels := []domain.Level{ladder()[2], ladder()[0], ladder()[1]}
	l := xp.ResolveLevelByXP(levels, 150)
	if l == nil || l.ID != "lvl-2" {
		t.Errorf("expected lvl-2 from unsorted catalog, got %+v", l)
	}
}

func TestResolveLevel_EmptyCatalog(t *testing.T) {
	if l := xp.ResolveLevelByXP(nil, 500); l != nil {
		t.Errorf("expected nil for empty catalog, got %+v", l)
	}
}

func TestResolveLevel_Monotonic(t *testing.T) {
	prev := 0
	for total := int64(0); total <= 400; total += 10 {
		l := xp.ResolveLevelByXP(ladder(), total)
		if l == nil {
			t.Fatalf("nil level at %d XP", total)
		}
		if l.LevelNumber < prev {
			t.Fatalf("level dropped from %d to %d at %d XP", prev, l.LevelNumber, total)
		}
		prev = l.LevelNumber
	}
}

func TestNextLevel(t *testing.T) {
	next := xp.NextLevel(ladder(), 50)
	if next == nil || next.ID != "lvl-2" {
		t.Errorf("expected lvl-2 next at 50 XP, got %+v", next)
	}
	if next := xp.NextLevel(ladder(), 300); next != nil {
		t.Errorf("expected no next level at the top, got %+v", next)
	}
}

func TestProgressPct(t *testing.T) {
	// Halfway between 100 and 300.
	if pct := xp.ProgressPct(ladder(), 200); pct != 50 {
		t.Errorf("expected 50%%, got %v", pct)
	}
	if pct := xp.ProgressPct(ladder(), 400); pct != 100 {
		t.Errorf("expected 100%% at the top, got %v", pct)
	}
	if pct := xp.ProgressPct(nil, 10); pct != 0 {
		t.Errorf("expected 0%% for empty catalog, got %v", pct)
	}
}
