package domain

import "time"

// ─── Financial Entities ─────────────────────────────────────────────────────
// Amount sign encodes transaction direction: negative = expense,
// non-negative = income. All derivations must honor the sign regardless
// of category label.

// IncomeEntry is a recurring monthly income line.
type IncomeEntry struct {
	ID     string  `json:"id"`
	Label  string  `json:"label"`
	Amount float64 `json:"amount"` // positive
}

// ExpenseEntry is a recurring fixed monthly expense line.
type ExpenseEntry struct {
	ID     string  `json:"id"`
	Label  string  `json:"label"`
	Amount float64 `json:"amount"` // positive
}

// BudgetExpense is one spend line inside a budget cycle.
// OccurredAt is the resolved date; zero means the date label could not
// be resolved, and such lines are excluded from date-scoped computations.
type BudgetExpense struct {
	ID         string    `json:"id"`
	BudgetID   string    `json:"budget_id"`
	Name       string    `json:"name"`
	DateLabel  string    `json:"date_label"`
	Amount     float64   `json:"amount"`
	OccurredAt time.Time `json:"occurred_at,omitempty"`
}

// Budget is a category budget with a monthly cycle.
// Current is the cycle-to-date spend accumulated from Expenses.
type Budget struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Icon     string          `json:"icon"`
	Limit    float64         `json:"limit"`
	Current  float64         `json:"current"`
	Expenses []BudgetExpense `json:"expenses,omitempty"`
}

// Transaction is a single signed ledger entry.
type Transaction struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Category   string    `json:"category"`
	DateLabel  string    `json:"date_label"`
	Amount     float64   `json:"amount"` // negative = expense
	Icon       string    `json:"icon"`
	OccurredAt time.Time `json:"occurred_at,omitempty"`
}

// IsExpense reports whether the transaction is an outflow.
func (t Transaction) IsExpense() bool { return t.Amount < 0 }

// Goal is a savings goal.
type Goal struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Icon     string  `json:"icon"`
	Target   float64 `json:"target"`
	Current  float64 `json:"current"`
	Deposits int     `json:"deposits"`
}

// Completed reports whether the goal target has been reached.
func (g Goal) Completed() bool { return g.Target > 0 && g.Current >= g.Target }

// Snapshot is an in-memory view of all financial entities, fed to the
// pure selector pipeline.
type Snapshot struct {
	Income       []IncomeEntry  `json:"income"`
	Expenses     []ExpenseEntry `json:"expenses"`
	Budgets      []Budget       `json:"budgets"`
	Transactions []Transaction  `json:"transactions"`
	Goals        []Goal         `json:"goals"`
}
