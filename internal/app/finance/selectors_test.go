package finance_test

import (
	"math"
	"testing"
	"time"

	"github.com/sparfuchs-app/sparfuchs/internal/app/finance"
	"github.com/sparfuchs-app/sparfuchs/internal/domain"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

// ═══════════════════════════════════════════════════════════════════════════
// Summary Tests
// ═══════════════════════════════════════════════════════════════════════════

func TestSummarize_Figures(t *testing.T) {
	s := domain.Snapshot{
		Income: []domain.IncomeEntry{
			{ID: "i1", Label: "Gehalt", Amount: 1000},
			{ID: "i2", Label: "Nebenjob", Amount: 218.40},
		},
		Expenses: []domain.ExpenseEntry{
			{ID: "e1", Label: "Miete", Amount: 400},
			{ID: "e2", Label: "Netflix", Amount: 100},
		},
	}

	sum := finance.Summarize(s)
	if !almostEqual(sum.TotalIncome, 1218.40) {
		t.Errorf("income = %v, want 1218.40", sum.TotalIncome)
	}
	if !almostEqual(sum.TotalFixedExpenses, 500) {
		t.Errorf("fixed = %v, want 500", sum.TotalFixedExpenses)
	}
	if !almostEqual(sum.MonthlyBudget, 718.40) {
		t.Errorf("monthly budget = %v, want 718.40", sum.MonthlyBudget)
	}
	if !almostEqual(sum.Balance, 718.40) {
		t.Errorf("balance = %v, want 718.40", sum.Balance)
	}
	want := (1218.40 - 500) / 1218.40 * 100
	if !almostEqual(sum.SavingsRate, want) {
		t.Errorf("savings rate = %v, want %v", sum.SavingsRate, want)
	}
}

func TestSummarize_VariableSpendLowersBalance(t *testing.T) {
	s := domain.Snapshot{
		Income: []domain.IncomeEntry{{ID: "i1", Amount: 1000}},
		Budgets: []domain.Budget{
			{ID: "b1", Name: "Lebensmittel", Limit: 300, Current: 120},
			{ID: "b2", Name: "Freizeit", Limit: 100, Current: 30},
		},
	}

	sum := finance.Summarize(s)
	if !almostEqual(sum.TotalVariableExpenses, 150) {
		t.Errorf("variable = %v, want 150", sum.TotalVariableExpenses)
	}
	if !almostEqual(sum.Balance, 850) {
		t.Errorf("balance = %v, want 850", sum.Balance)
	}
}

func TestSavingsRate_Guard(t *testing.T) {
	if got := finance.SavingsRate(0, 500); got != 0 {
		t.Errorf("zero income: got %v, want exactly 0", got)
	}
	if got := finance.SavingsRate(-100, 500); got != 0 {
		t.Errorf("negative income: got %v, want exactly 0", got)
	}
}

func TestSummarize_Empty(t *testing.T) {
	sum := finance.Summarize(domain.Snapshot{})
	if sum.TotalIncome != 0 || sum.Balance != 0 || sum.SavingsRate != 0 {
		t.Errorf("empty snapshot must be all-zero, got %+v", sum)
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Insight Tests
// ═══════════════════════════════════════════════════════════════════════════

func TestInsightCategories_Classification(t *testing.T) {
	budgets := []domain.Budget{
		{ID: "b1", Name: "Lebensmittel", Current: 200},
	}
	expenses := []domain.ExpenseEntry{
		{ID: "e1", Label: "Miete Innenstadt", Amount: 800},
		{ID: "e2", Label: "Netflix Premium", Amount: 18},
		{ID: "e3", Label: "Kegelclub", Amount: 25},
	}

	cats := finance.InsightCategories(budgets, expenses)
	if len(cats) != 4 {
		t.Fatalf("expected 4 categories, got %d: %+v", len(cats), cats)
	}
	// Sorted descending by amount.
	if cats[0].Name != "Wohnen" || !almostEqual(cats[0].Amount, 800) {
		t.Errorf("expected Wohnen 800 first, got %+v", cats[0])
	}
	if cats[1].Name != "Lebensmittel" {
		t.Errorf("expected budget bucket second, got %+v", cats[1])
	}

	names := map[string]float64{}
	for _, c := range cats {
		names[c.Name] = c.Amount
	}
	if !almostEqual(names["Abonnements"], 18) {
		t.Errorf("expected Netflix under Abonnements, got %v", names["Abonnements"])
	}
	if !almostEqual(names["Sonstiges"], 25) {
		t.Errorf("expected unmatched label in Sonstiges, got %v", names["Sonstiges"])
	}
}

func TestInsightCategories_DropsNonPositive(t *testing.T) {
	budgets := []domain.Budget{
		{ID: "b1", Name: "Lebensmittel", Current: 0},
		{ID: "b2", Name: "Freizeit", Current: 50},
	}
	cats := finance.InsightCategories(budgets, nil)
	if len(cats) != 1 || cats[0].Name != "Freizeit" {
		t.Errorf("expected only the positive bucket, got %+v", cats)
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Trend Tests
// ═══════════════════════════════════════════════════════════════════════════

func TestMonthlyTrend_Window(t *testing.T) {
	now := time.Date(2025, 7, 15, 12, 0, 0, 0, time.UTC)
	points := finance.MonthlyTrend(500, 200, now)

	if len(points) != 6 {
		t.Fatalf("expected 6 points, got %d", len(points))
	}
	if points[0].Month != "2025-02" {
		t.Errorf("expected window start 2025-02, got %s", points[0].Month)
	}
	if points[5].Month != "2025-07" {
		t.Errorf("expected window end 2025-07, got %s", points[5].Month)
	}
	// The current month is exact, never synthesized.
	if !almostEqual(points[5].Amount, 700) {
		t.Errorf("current month = %v, want 700", points[5].Amount)
	}
	for _, p := range points {
		if p.Amount != math.Round(p.Amount*100)/100 {
			t.Errorf("amount %v not rounded to 2 decimals", p.Amount)
		}
	}
}

func TestMonthlyTrend_PriorMonthsKeepFixedShare(t *testing.T) {
	now := time.Date(2025, 7, 15, 12, 0, 0, 0, time.UTC)
	points := finance.MonthlyTrend(500, 0, now)
	// With no variable spend every synthesized month equals the fixed total.
	for _, p := range points {
		if !almostEqual(p.Amount, 500) {
			t.Errorf("month %s = %v, want 500", p.Month, p.Amount)
		}
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Weekly Spending Tests
// ═══════════════════════════════════════════════════════════════════════════

// wednesday is a fixed mid-week anchor; 2025-07-16 is a Wednesday.
var wednesday = time.Date(2025, 7, 16, 14, 0, 0, 0, time.UTC)

func TestWeeklySpending_ExpenseOnly(t *testing.T) {
	txs := []domain.Transaction{
		{ID: "t1", Amount: -12.50, OccurredAt: wednesday},
		{ID: "t2", Amount: 1000, OccurredAt: wednesday}, // income, excluded
	}

	w := finance.WeeklySpendingFor(txs, 0, wednesday)
	if !almostEqual(w.Buckets[2], 12.50) { // Monday-first: Wednesday = index 2
		t.Errorf("Wednesday bucket = %v, want 12.50", w.Buckets[2])
	}
	if !almostEqual(w.MaxAmount, 12.50) {
		t.Errorf("max = %v, want 12.50", w.MaxAmount)
	}
}

func TestWeeklySpending_AllZeroWeekFloorsMax(t *testing.T) {
	w := finance.WeeklySpendingFor(nil, 0, wednesday)
	if w.MaxAmount != 1 {
		t.Errorf("empty week max = %v, want floor of 1", w.MaxAmount)
	}
}

func TestWeeklySpending_BucketConservation(t *testing.T) {
	monday := time.Date(2025, 7, 14, 9, 0, 0, 0, time.UTC)
	txs := []domain.Transaction{
		{ID: "t1", Amount: -10, OccurredAt: monday},
		{ID: "t2", Amount: -20, OccurredAt: monday.AddDate(0, 0, 3)},
		{ID: "t3", Amount: -5.50, OccurredAt: monday.AddDate(0, 0, 6)},   // Sunday, in range
		{ID: "t4", Amount: -99, OccurredAt: monday.AddDate(0, 0, 7)},     // next Monday, out
		{ID: "t5", Amount: -42, OccurredAt: monday.AddDate(0, 0, -1)},    // prior Sunday, out
		{ID: "t6", Amount: -7, OccurredAt: time.Time{}},                  // unresolved date, out
	}

	w := finance.WeeklySpendingFor(txs, 0, wednesday)
	var sum float64
	for _, v := range w.Buckets {
		sum += v
	}
	if !almostEqual(sum, 35.50) {
		t.Errorf("bucket sum = %v, want 35.50", sum)
	}
}

func TestWeeklySpending_OffsetIntoPast(t *testing.T) {
	lastWeek := wednesday.AddDate(0, 0, -7)
	txs := []domain.Transaction{
		{ID: "t1", Amount: -30, OccurredAt: lastWeek},
	}

	w := finance.WeeklySpendingFor(txs, -1, wednesday)
	if !almostEqual(w.Buckets[2], 30) {
		t.Errorf("last week Wednesday bucket = %v, want 30", w.Buckets[2])
	}
	// The same transactions are invisible from the current week.
	if cur := finance.WeeklySpendingFor(txs, 0, wednesday); cur.Buckets[2] != 0 {
		t.Errorf("current week must not see last week's spend, got %v", cur.Buckets[2])
	}
}

func TestWeeklySpending_FutureOffsetClamped(t *testing.T) {
	txs := []domain.Transaction{
		{ID: "t1", Amount: -12.50, OccurredAt: wednesday},
	}
	w := finance.WeeklySpendingFor(txs, 3, wednesday)
	if !almostEqual(w.Buckets[2], 12.50) {
		t.Errorf("future offset must clamp to the current week, got %+v", w.Buckets)
	}
}
