package domain

import "time"

// Store is the persistence collaborator consumed by the XP engine and the
// financial ledger. The primary implementation is SQLite; an in-memory
// fallback is adopted when the primary store cannot be opened.
//
// XP rows are keyed by user ID. Financial rows are opaque per-profile row
// sources (the daemon serves a single local profile).
type Store interface {
	// XP configuration, loaded once per session.
	XPConfig() (XPConfig, error)

	// Progress lifecycle. GetOrCreateProgress creates the row at the
	// initial level on first use.
	GetOrCreateProgress(userID, initialLevelID string) (*UserProgress, error)
	UpdateProgress(userID string, patch ProgressPatch) (*UserProgress, error)

	// Append-only XP event log plus the cap/cooldown query surface.
	AppendXPEvent(ev XPEvent) error
	XPEventCount(userID, eventTypeID string) (int, error)
	LatestXPEventAt(userID, eventTypeID string) (time.Time, bool, error)

	// AwardTx persists the event record and the progress patch as one
	// atomic write. Neither half may become visible without the other.
	AwardTx(ev XPEvent, userID string, patch ProgressPatch) (*UserProgress, error)

	// Income / fixed expense entries.
	ListIncome() ([]IncomeEntry, error)
	ListExpenses() ([]ExpenseEntry, error)
	UpsertIncome(e IncomeEntry) error
	UpsertExpense(e ExpenseEntry) error
	DeleteIncome(id string) error
	DeleteExpense(id string) error

	// Budgets with their expense lines.
	ListBudgets() ([]Budget, error)
	UpsertBudget(b Budget) error
	UpdateBudgetCurrent(id string, current float64) error
	AddBudgetExpense(e BudgetExpense) error

	// Transactions.
	ListTransactions() ([]Transaction, error)
	InsertTransaction(t Transaction) error
	UpdateTransaction(t Transaction) error
	DeleteTransaction(id string) error

	// Goals.
	ListGoals() ([]Goal, error)
	UpsertGoal(g Goal) error
	DeleteGoal(id string) error

	// App metadata key-value (monthly-reset month key and friends).
	GetMeta(key string) (string, error)
	SetMeta(key, value string) error

	Close() error
}
