package finance

import (
	"fmt"
	"time"

	"github.com/sparfuchs-app/sparfuchs/internal/domain"
)

// metaResetMonth is the app-meta key holding the last applied budget
// cycle month ("2006-01").
const metaResetMonth = "budget_reset_month"

// ResetService rolls budget cycles over at real month boundaries.
//
// Two states: stale (stored month key differs from the real current
// month) and current. On a stale app-active transition every budget's
// cycle-to-date spend is recomputed from the expense lines falling in
// the real current month, then the key advances. Re-running while
// current is a no-op, and running mid-month never drops expenses
// recorded earlier in the same month — the filter is "same month and
// year", not "after the reset".
type ResetService struct {
	store domain.Store
}

// NewResetService creates a reset service.
func NewResetService(store domain.Store) *ResetService {
	return &ResetService{store: store}
}

// ApplyMonthlyReset transitions the budget cycle if stale. It reports
// whether a reset was applied.
func (r *ResetService) ApplyMonthlyReset(now time.Time) (bool, error) {
	monthKey := now.Format("2006-01")

	last, err := r.store.GetMeta(metaResetMonth)
	if err != nil {
		return false, fmt.Errorf("read reset month: %w", err)
	}
	if last == monthKey {
		return false, nil
	}

	budgets, err := r.store.ListBudgets()
	if err != nil {
		return false, fmt.Errorf("list budgets: %w", err)
	}

	for _, b := range budgets {
		current := monthSpend(b.Expenses, now)
		if err := r.store.UpdateBudgetCurrent(b.ID, current); err != nil {
			return false, fmt.Errorf("reset budget %s: %w", b.ID, err)
		}
	}

	if err := r.store.SetMeta(metaResetMonth, monthKey); err != nil {
		return false, fmt.Errorf("advance reset month: %w", err)
	}
	return true, nil
}

// monthSpend sums the expense lines whose resolved date falls in now's
// month and year. Lines with an unresolved date are excluded.
func monthSpend(expenses []domain.BudgetExpense, now time.Time) float64 {
	var sum float64
	for _, e := range expenses {
		if e.OccurredAt.IsZero() {
			continue
		}
		if e.OccurredAt.Year() == now.Year() && e.OccurredAt.Month() == now.Month() {
			sum += e.Amount
		}
	}
	return sum
}
