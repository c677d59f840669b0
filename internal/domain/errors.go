package domain

import "errors"

// ─── Sentinel Errors ────────────────────────────────────────────────────────
// Domain errors are pure — no infrastructure dependency.

var (
	// XP engine errors
	ErrNoSession         = errors.New("no active user session")
	ErrConfigUnready     = errors.New("xp configuration not loaded")
	ErrEventTypeUnknown  = errors.New("unknown xp event type")
	ErrEventTypeInactive = errors.New("xp event type is inactive")
	ErrProgressMissing   = errors.New("user progress not available")

	// Financial entity errors
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrBudgetNotFound      = errors.New("budget not found")
	ErrGoalNotFound        = errors.New("goal not found")
	ErrEntryNotFound       = errors.New("entry not found")
)
