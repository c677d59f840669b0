package finance_test

import (
	"testing"
	"time"

	"github.com/sparfuchs-app/sparfuchs/internal/app/finance"
	"github.com/sparfuchs-app/sparfuchs/internal/domain"
	"github.com/sparfuchs-app/sparfuchs/internal/infra/memstore"
)

func seedBudget(t *testing.T, store *memstore.Store, expenses ...domain.BudgetExpense) {
	t.Helper()
	if err := store.UpsertBudget(domain.Budget{
		ID:      "b1",
		Name:    "Lebensmittel",
		Limit:   300,
		Current: 250,
	}); err != nil {
		t.Fatalf("seed budget: %v", err)
	}
	for _, e := range expenses {
		e.BudgetID = "b1"
		if err := store.AddBudgetExpense(e); err != nil {
			t.Fatalf("seed expense: %v", err)
		}
	}
}

func budgetCurrent(t *testing.T, store *memstore.Store) float64 {
	t.Helper()
	budgets, err := store.ListBudgets()
	if err != nil {
		t.Fatalf("list budgets: %v", err)
	}
	if len(budgets) != 1 {
		t.Fatalf("expected 1 budget, got %d", len(budgets))
	}
	return budgets[0].Current
}

func TestReset_NewMonthDropsStaleSpend(t *testing.T) {
	store := memstore.New()
	june := time.Date(2025, 6, 20, 10, 0, 0, 0, time.UTC)
	july := time.Date(2025, 7, 1, 8, 0, 0, 0, time.UTC)

	seedBudget(t, store,
		domain.BudgetExpense{ID: "x1", Name: "Supermarkt", Amount: 250, OccurredAt: june},
	)
	svc := finance.NewResetService(store)

	applied, err := svc.ApplyMonthlyReset(july)
	if err != nil {
		t.Fatalf("reset: %v", err)
	}
	if !applied {
		t.Fatal("expected a reset on the month boundary")
	}
	if got := budgetCurrent(t, store); got != 0 {
		t.Errorf("expected spend cleared to 0, got %v", got)
	}
}

func TestReset_MidMonthKeepsCurrentSpend(t *testing.T) {
	store := memstore.New()
	early := time.Date(2025, 7, 2, 10, 0, 0, 0, time.UTC)
	later := time.Date(2025, 7, 20, 10, 0, 0, 0, time.UTC)

	seedBudget(t, store,
		domain.BudgetExpense{ID: "x1", Name: "Supermarkt", Amount: 80, OccurredAt: early},
	)
	svc := finance.NewResetService(store)

	// First run this month recomputes from the month's own expense lines.
	if _, err := svc.ApplyMonthlyReset(later); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if got := budgetCurrent(t, store); got != 80 {
		t.Errorf("expected same-month spend preserved at 80, got %v", got)
	}
}

func TestReset_Idempotent(t *testing.T) {
	store := memstore.New()
	now := time.Date(2025, 7, 20, 10, 0, 0, 0, time.UTC)

	seedBudget(t, store)
	svc := finance.NewResetService(store)

	if _, err := svc.ApplyMonthlyReset(now); err != nil {
		t.Fatalf("first reset: %v", err)
	}
	applied, err := svc.ApplyMonthlyReset(now.Add(time.Hour))
	if err != nil {
		t.Fatalf("second reset: %v", err)
	}
	if applied {
		t.Error("expected a re-run within the month to be a no-op")
	}
}

func TestReset_ExcludesUnresolvedDates(t *testing.T) {
	store := memstore.New()
	now := time.Date(2025, 7, 20, 10, 0, 0, 0, time.UTC)

	seedBudget(t, store,
		domain.BudgetExpense{ID: "x1", Name: "Supermarkt", Amount: 40, OccurredAt: now.AddDate(0, 0, -1)},
		domain.BudgetExpense{ID: "x2", Name: "Unbekannt", Amount: 99}, // no date
	)
	svc := finance.NewResetService(store)

	if _, err := svc.ApplyMonthlyReset(now); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if got := budgetCurrent(t, store); got != 40 {
		t.Errorf("expected dateless lines excluded, got %v", got)
	}
}
