// Package finance implements the derived financial state pipeline and
// the ledger actions feeding it: totals, balance, savings rate, category
// insights, trend and weekly spending, plus the monthly budget reset.
package finance

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/sparfuchs-app/sparfuchs/internal/domain"
)

// All selectors are pure and total: defined for empty inputs, returning
// zero/empty results, and order-independent over their input collections.

// TotalIncome sums the recurring income entries.
func TotalIncome(entries []domain.IncomeEntry) float64 {
	var sum float64
	for _, e := range entries {
		sum += e.Amount
	}
	return sum
}

// TotalFixedExpenses sums the recurring fixed expense entries.
func TotalFixedExpenses(entries []domain.ExpenseEntry) float64 {
	var sum float64
	for _, e := range entries {
		sum += e.Amount
	}
	return sum
}

// TotalVariableExpenses sums cycle-to-date spend across budgets.
func TotalVariableExpenses(budgets []domain.Budget) float64 {
	var sum float64
	for _, b := range budgets {
		sum += b.Current
	}
	return sum
}

// SavingsRate returns the savings rate in percent. Non-positive income
// yields exactly 0 — never a negative rate, an infinity, or a NaN.
func SavingsRate(totalIncome, totalExpenses float64) float64 {
	if totalIncome <= 0 {
		return 0
	}
	return (totalIncome - totalExpenses) / totalIncome * 100
}

// Summary is the aggregate figure set derived from one snapshot.
type Summary struct {
	TotalIncome           float64 `json:"total_income"`
	TotalFixedExpenses    float64 `json:"total_fixed_expenses"`
	TotalVariableExpenses float64 `json:"total_variable_expenses"`
	TotalExpenses         float64 `json:"total_expenses"`
	MonthlyBudget         float64 `json:"monthly_budget"`
	Balance               float64 `json:"balance"`
	SavingsRate           float64 `json:"savings_rate"`
}

// Summarize computes the full aggregate set in dependency order.
func Summarize(s domain.Snapshot) Summary {
	income := TotalIncome(s.Income)
	fixed := TotalFixedExpenses(s.Expenses)
	variable := TotalVariableExpenses(s.Budgets)
	expenses := fixed + variable
	monthlyBudget := income - fixed

	return Summary{
		TotalIncome:           income,
		TotalFixedExpenses:    fixed,
		TotalVariableExpenses: variable,
		TotalExpenses:         expenses,
		MonthlyBudget:         monthlyBudget,
		Balance:               monthlyBudget - variable,
		SavingsRate:           SavingsRate(income, expenses),
	}
}

// ─── Category Insights ──────────────────────────────────────────────────────

// InsightCategory is one spend bucket of the insights view.
type InsightCategory struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

// categoryKeywords maps fixed-expense labels onto insight buckets.
// First match wins; anything unmatched lands in "Sonstiges". The table is
// a deliberate simplification carried over from the product design — do
// not generalize it.
var categoryKeywords = []struct {
	category string
	keywords []string
}{
	{"Wohnen", []string{"miete", "rent", "mortgage", "hypothek", "wohnung", "nebenkosten"}},
	{"Abonnements", []string{"netflix", "spotify", "abo", "abonnement", "subscription", "prime", "disney"}},
	{"Versicherungen", []string{"versicherung", "insurance", "haftpflicht"}},
	{"Mobilität", []string{"auto", "benzin", "tank", "bahn", "ticket", "leasing"}},
}

const fallbackCategory = "Sonstiges"

// classifyExpense returns the insight bucket for a fixed-expense label.
func classifyExpense(label string) string {
	lower := strings.ToLower(label)
	for _, entry := range categoryKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(lower, kw) {
				return entry.category
			}
		}
	}
	return fallbackCategory
}

// InsightCategories aggregates spend per category: budgets contribute
// their cycle-to-date spend keyed by budget name, standalone fixed
// expenses are classified by keyword. Non-positive buckets are dropped;
// the result is sorted descending by amount.
func InsightCategories(budgets []domain.Budget, expenses []domain.ExpenseEntry) []InsightCategory {
	amounts := make(map[string]float64)
	var order []string

	add := func(name string, amount float64) {
		if _, ok := amounts[name]; !ok {
			order = append(order, name)
		}
		amounts[name] += amount
	}

	for _, b := range budgets {
		add(b.Name, b.Current)
	}
	for _, e := range expenses {
		add(classifyExpense(e.Label), e.Amount)
	}

	categories := make([]InsightCategory, 0, len(order))
	for _, name := range order {
		if amounts[name] <= 0 {
			continue
		}
		categories = append(categories, InsightCategory{Name: name, Amount: amounts[name]})
	}

	sort.SliceStable(categories, func(i, j int) bool {
		return categories[i].Amount > categories[j].Amount
	})
	return categories
}

// ─── Monthly Trend ──────────────────────────────────────────────────────────

// TrendPoint is one month of the six-month trend line.
type TrendPoint struct {
	Month  string  `json:"month"` // "2006-01"
	Amount float64 `json:"amount"`
}

// variationFactors shapes the synthesized prior months of the trend.
// No historical ledger is retained, so past months are an approximation
// around the current variable spend — a documented limitation, not a bug.
var variationFactors = [6]float64{0.85, 1.10, 0.95, 1.05, 0.90, 1.00}

// MonthlyTrend returns a six-month trailing window ending at the current
// month. The current month equals fixed+variable exactly; each prior
// month is synthesized as fixed + variable×factor. Amounts are rounded
// to two decimals.
func MonthlyTrend(totalFixed, totalVariable float64, now time.Time) []TrendPoint {
	points := make([]TrendPoint, 0, 6)
	for i := 5; i >= 0; i-- {
		month := now.AddDate(0, -i, 0)
		amount := totalFixed + totalVariable
		if i > 0 {
			amount = totalFixed + totalVariable*variationFactors[i%len(variationFactors)]
		}
		points = append(points, TrendPoint{
			Month:  month.Format("2006-01"),
			Amount: round2(amount),
		})
	}
	return points
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// ─── Weekly Spending ────────────────────────────────────────────────────────

// WeeklySpending partitions one week of expense transactions into
// Monday-first day buckets.
type WeeklySpending struct {
	WeekStart time.Time  `json:"week_start"`
	Buckets   [7]float64 `json:"buckets"` // Monday..Sunday, absolute values
	MaxAmount float64    `json:"max_amount"`
}

// WeeklySpendingFor buckets expense transactions (amount < 0) of the week
// offset by weekOffset weeks from the current one. Offsets reach only
// into the past: a positive offset is clamped to 0, so forward navigation
// stops at the current week. MaxAmount is floored at 1 to keep relative
// bar heights well-defined for an all-zero week.
func WeeklySpendingFor(txs []domain.Transaction, weekOffset int, now time.Time) WeeklySpending {
	if weekOffset > 0 {
		weekOffset = 0
	}

	start := startOfWeek(now).AddDate(0, 0, 7*weekOffset)
	end := start.AddDate(0, 0, 7)

	var w WeeklySpending
	w.WeekStart = start

	for _, t := range txs {
		if !t.IsExpense() || t.OccurredAt.IsZero() {
			continue
		}
		if t.OccurredAt.Before(start) || !t.OccurredAt.Before(end) {
			continue
		}
		day := (int(t.OccurredAt.Weekday()) + 6) % 7 // Monday-first
		w.Buckets[day] += -t.Amount
	}

	w.MaxAmount = 1
	for _, v := range w.Buckets {
		if v > w.MaxAmount {
			w.MaxAmount = v
		}
	}
	return w
}

// startOfWeek returns Monday 00:00 of t's week in t's location.
func startOfWeek(t time.Time) time.Time {
	midnight := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	back := (int(t.Weekday()) + 6) % 7
	return midnight.AddDate(0, 0, -back)
}
