package sqlite_test

import (
	"errors"
	"testing"
	"time"

	"github.com/sparfuchs-app/sparfuchs/internal/domain"
	"github.com/sparfuchs-app/sparfuchs/internal/infra/sqlite"
)

// testDB creates a temporary SQLite database for testing.
func testDB(t *testing.T) *sqlite.DB {
	t.Helper()
	dir := t.TempDir()
	db, err := sqlite.Open(dir)
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// ═══════════════════════════════════════════════════════════════════════════
// Catalog & Progress Tests
// ═══════════════════════════════════════════════════════════════════════════

func TestXPConfig_SeededCatalog(t *testing.T) {
	db := testDB(t)

	cfg, err := db.XPConfig()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	want := domain.DefaultXPConfig()
	if len(cfg.Levels) != len(want.Levels) {
		t.Errorf("expected %d levels, got %d", len(want.Levels), len(cfg.Levels))
	}
	if len(cfg.EventTypes) != len(want.EventTypes) {
		t.Errorf("expected %d event types, got %d", len(want.EventTypes), len(cfg.EventTypes))
	}

	login := cfg.EventTypeByKey(domain.EventDailyLogin)
	if login == nil {
		t.Fatal("daily_login missing from seeded catalog")
	}
	if login.CooldownHours == nil || *login.CooldownHours != 20 {
		t.Errorf("expected 20h cooldown on daily_login, got %v", login.CooldownHours)
	}
}

func TestGetOrCreateProgress_Idempotent(t *testing.T) {
	db := testDB(t)

	first, err := db.GetOrCreateProgress("user-1", "lvl-1")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if first.XPTotal != 0 || first.CurrentLevelID != "lvl-1" {
		t.Errorf("unexpected fresh progress: %+v", first)
	}

	again, err := db.GetOrCreateProgress("user-1", "lvl-3")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if again.CurrentLevelID != "lvl-1" {
		t.Errorf("second call must not overwrite, got level %s", again.CurrentLevelID)
	}
}

func TestUpdateProgress_PartialPatch(t *testing.T) {
	db := testDB(t)
	if _, err := db.GetOrCreateProgress("user-1", "lvl-1"); err != nil {
		t.Fatalf("create: %v", err)
	}

	total := int64(150)
	streak := 3
	p, err := db.UpdateProgress("user-1", domain.ProgressPatch{
		XPTotal:       &total,
		CurrentStreak: &streak,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if p.XPTotal != 150 || p.CurrentStreak != 3 {
		t.Errorf("patch not applied: %+v", p)
	}
	// Untouched fields survive.
	if p.CurrentLevelID != "lvl-1" {
		t.Errorf("level must be untouched by a nil field, got %s", p.CurrentLevelID)
	}
}

func TestUpdateProgress_MissingUser(t *testing.T) {
	db := testDB(t)
	total := int64(10)
	_, err := db.UpdateProgress("nobody", domain.ProgressPatch{XPTotal: &total})
	if !errors.Is(err, domain.ErrProgressMissing) {
		t.Errorf("expected ErrProgressMissing, got %v", err)
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Event & Award Tests
// ═══════════════════════════════════════════════════════════════════════════

func testEvent(id string, at time.Time) domain.XPEvent {
	return domain.XPEvent{
		ID:          id,
		UserID:      "user-1",
		EventTypeID: "evt-snap",
		EventKey:    domain.EventSnapCreated,
		BaseXP:      20,
		Multiplier:  1,
		Delta:       20,
		CreatedAt:   at,
	}
}

func TestXPEvents_CountAndLatest(t *testing.T) {
	db := testDB(t)
	base := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)

	if _, ok, err := db.LatestXPEventAt("user-1", "evt-snap"); err != nil || ok {
		t.Fatalf("expected no latest event yet, got ok=%v err=%v", ok, err)
	}

	for i, id := range []string{"e1", "e2", "e3"} {
		if err := db.AppendXPEvent(testEvent(id, base.Add(time.Duration(i)*time.Hour))); err != nil {
			t.Fatalf("append %s: %v", id, err)
		}
	}

	count, err := db.XPEventCount("user-1", "evt-snap")
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 3 {
		t.Errorf("expected 3 events, got %d", count)
	}

	latest, ok, err := db.LatestXPEventAt("user-1", "evt-snap")
	if err != nil || !ok {
		t.Fatalf("latest: ok=%v err=%v", ok, err)
	}
	if !latest.Equal(base.Add(2 * time.Hour)) {
		t.Errorf("expected latest at +2h, got %v", latest)
	}
}

func TestAwardTx_WritesEventAndProgressTogether(t *testing.T) {
	db := testDB(t)
	if _, err := db.GetOrCreateProgress("user-1", "lvl-1"); err != nil {
		t.Fatalf("create: %v", err)
	}

	total := int64(20)
	now := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)
	p, err := db.AwardTx(testEvent("e1", now), "user-1", domain.ProgressPatch{XPTotal: &total})
	if err != nil {
		t.Fatalf("award: %v", err)
	}
	if p.XPTotal != 20 {
		t.Errorf("expected 20 XP, got %d", p.XPTotal)
	}
	count, _ := db.XPEventCount("user-1", "evt-snap")
	if count != 1 {
		t.Errorf("expected 1 event, got %d", count)
	}
}

func TestAwardTx_RollsBackOnConflict(t *testing.T) {
	db := testDB(t)
	if _, err := db.GetOrCreateProgress("user-1", "lvl-1"); err != nil {
		t.Fatalf("create: %v", err)
	}

	now := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)
	total := int64(20)
	if _, err := db.AwardTx(testEvent("e1", now), "user-1", domain.ProgressPatch{XPTotal: &total}); err != nil {
		t.Fatalf("first award: %v", err)
	}

	// Same event id: the insert fails and the progress write must not land.
	bigger := int64(999)
	if _, err := db.AwardTx(testEvent("e1", now.Add(time.Hour)), "user-1", domain.ProgressPatch{XPTotal: &bigger}); err == nil {
		t.Fatal("expected a conflict error")
	}

	p, err := db.GetOrCreateProgress("user-1", "lvl-1")
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if p.XPTotal != 20 {
		t.Errorf("expected progress untouched at 20 after rollback, got %d", p.XPTotal)
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Finance CRUD Tests
// ═══════════════════════════════════════════════════════════════════════════

func TestBudgets_RoundTrip(t *testing.T) {
	db := testDB(t)
	spent := time.Date(2025, 7, 10, 18, 0, 0, 0, time.UTC)

	if err := db.UpsertBudget(domain.Budget{ID: "b1", Name: "Lebensmittel", Icon: "🛒", Limit: 300, Current: 0}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := db.AddBudgetExpense(domain.BudgetExpense{
		ID: "x1", BudgetID: "b1", Name: "Supermarkt", DateLabel: "10.07.2025", Amount: 42.30, OccurredAt: spent,
	}); err != nil {
		t.Fatalf("add expense: %v", err)
	}
	if err := db.UpdateBudgetCurrent("b1", 42.30); err != nil {
		t.Fatalf("update current: %v", err)
	}

	budgets, err := db.ListBudgets()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(budgets) != 1 {
		t.Fatalf("expected 1 budget, got %d", len(budgets))
	}
	b := budgets[0]
	if b.Current != 42.30 {
		t.Errorf("current = %v, want 42.30", b.Current)
	}
	if len(b.Expenses) != 1 || b.Expenses[0].Name != "Supermarkt" {
		t.Errorf("expense lines not loaded: %+v", b.Expenses)
	}
	if !b.Expenses[0].OccurredAt.Equal(spent) {
		t.Errorf("occurred_at = %v, want %v", b.Expenses[0].OccurredAt, spent)
	}
}

func TestUpdateBudgetCurrent_Missing(t *testing.T) {
	db := testDB(t)
	if err := db.UpdateBudgetCurrent("nope", 10); !errors.Is(err, domain.ErrBudgetNotFound) {
		t.Errorf("expected ErrBudgetNotFound, got %v", err)
	}
}

func TestTransactions_CRUD(t *testing.T) {
	db := testDB(t)
	at := time.Date(2025, 7, 16, 14, 0, 0, 0, time.UTC)

	tx := domain.Transaction{ID: "t1", Name: "Rewe", Category: "Lebensmittel", Amount: -23.80, Icon: "🛒", OccurredAt: at}
	if err := db.InsertTransaction(tx); err != nil {
		t.Fatalf("insert: %v", err)
	}

	tx.Amount = -25
	if err := db.UpdateTransaction(tx); err != nil {
		t.Fatalf("update: %v", err)
	}

	txs, err := db.ListTransactions()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(txs) != 1 || txs[0].Amount != -25 {
		t.Errorf("unexpected rows: %+v", txs)
	}
	if !txs[0].OccurredAt.Equal(at) {
		t.Errorf("occurred_at = %v, want %v", txs[0].OccurredAt, at)
	}

	if err := db.DeleteTransaction("t1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := db.DeleteTransaction("t1"); !errors.Is(err, domain.ErrTransactionNotFound) {
		t.Errorf("expected ErrTransactionNotFound, got %v", err)
	}
}

func TestGoals_RoundTrip(t *testing.T) {
	db := testDB(t)

	g := domain.Goal{ID: "g1", Name: "Urlaub", Icon: "🏖️", Target: 1000, Current: 250, Deposits: 3}
	if err := db.UpsertGoal(g); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	g.Current = 400
	g.Deposits = 4
	if err := db.UpsertGoal(g); err != nil {
		t.Fatalf("re-upsert: %v", err)
	}

	goals, err := db.ListGoals()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(goals) != 1 || goals[0].Current != 400 || goals[0].Deposits != 4 {
		t.Errorf("unexpected goals: %+v", goals)
	}
}

func TestMeta_RoundTrip(t *testing.T) {
	db := testDB(t)

	if v, err := db.GetMeta("budget_reset_month"); err != nil || v != "" {
		t.Fatalf("expected empty value for missing key, got %q err=%v", v, err)
	}
	if err := db.SetMeta("budget_reset_month", "2025-07"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := db.SetMeta("budget_reset_month", "2025-08"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	if v, _ := db.GetMeta("budget_reset_month"); v != "2025-08" {
		t.Errorf("expected 2025-08, got %q", v)
	}
}
