// Package memstore is the in-memory fallback behind domain.Store.
// It is adopted for the rest of the session when the primary SQLite
// store cannot be opened: data lives only as long as the process, which
// keeps the app usable instead of failing hard. The escalation is
// one-directional — there is no retry-then-fallback cycling.
package memstore

import (
	"sync"
	"time"

	"github.com/sparfuchs-app/sparfuchs/internal/domain"
)

// Store keeps every row in process memory behind one mutex.
type Store struct {
	mu sync.Mutex

	cfg      domain.XPConfig
	progress map[string]*domain.UserProgress
	events   []domain.XPEvent

	income   map[string]domain.IncomeEntry
	expenses map[string]domain.ExpenseEntry
	budgets  map[string]*domain.Budget
	txs      map[string]domain.Transaction
	goals    map[string]domain.Goal
	meta     map[string]string
}

// New creates an empty store seeded with the default XP catalog.
func New() *Store {
	return &Store{
		cfg:      domain.DefaultXPConfig(),
		progress: make(map[string]*domain.UserProgress),
		income:   make(map[string]domain.IncomeEntry),
		expenses: make(map[string]domain.ExpenseEntry),
		budgets:  make(map[string]*domain.Budget),
		txs:      make(map[string]domain.Transaction),
		goals:    make(map[string]domain.Goal),
		meta:     make(map[string]string),
	}
}

// NewWithConfig creates an empty store with a caller-supplied catalog.
// Test hook.
func NewWithConfig(cfg domain.XPConfig) *Store {
	s := New()
	s.cfg = cfg
	return s
}

// Close is a no-op for the in-memory store.
func (s *Store) Close() error { return nil }

// ─── XP ─────────────────────────────────────────────────────────────────────

func (s *Store) XPConfig() (domain.XPConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg, nil
}

func (s *Store) GetOrCreateProgress(userID, initialLevelID string) (*domain.UserProgress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.progress[userID]; ok {
		cp := *p
		return &cp, nil
	}
	p := &domain.UserProgress{UserID: userID, CurrentLevelID: initialLevelID}
	s.progress[userID] = p
	cp := *p
	return &cp, nil
}

func (s *Store) UpdateProgress(userID string, patch domain.ProgressPatch) (*domain.UserProgress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.applyPatch(userID, patch)
}

func (s *Store) applyPatch(userID string, patch domain.ProgressPatch) (*domain.UserProgress, error) {
	p, ok := s.progress[userID]
	if !ok {
		return nil, domain.ErrProgressMissing
	}
	if patch.XPTotal != nil {
		p.XPTotal = *patch.XPTotal
	}
	if patch.CurrentLevelID != nil {
		p.CurrentLevelID = *patch.CurrentLevelID
	}
	if patch.CurrentStreak != nil {
		p.CurrentStreak = *patch.CurrentStreak
	}
	if patch.LongestStreak != nil {
		p.LongestStreak = *patch.LongestStreak
	}
	if patch.LastLoginAt != nil {
		p.LastLoginAt = *patch.LastLoginAt
	}
	if patch.LastStreakDate != nil {
		p.LastStreakDate = *patch.LastStreakDate
	}
	cp := *p
	return &cp, nil
}

func (s *Store) AppendXPEvent(ev domain.XPEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
	return nil
}

func (s *Store) XPEventCount(userID, eventTypeID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, ev := range s.events {
		if ev.UserID == userID && ev.EventTypeID == eventTypeID {
			count++
		}
	}
	return count, nil
}

func (s *Store) LatestXPEventAt(userID, eventTypeID string) (time.Time, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var latest time.Time
	found := false
	for _, ev := range s.events {
		if ev.UserID == userID && ev.EventTypeID == eventTypeID && ev.CreatedAt.After(latest) {
			latest = ev.CreatedAt
			found = true
		}
	}
	return latest, found, nil
}

func (s *Store) AwardTx(ev domain.XPEvent, userID string, patch domain.ProgressPatch) (*domain.UserProgress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	// One lock hold makes the pair atomic.
	updated, err := s.applyPatch(userID, patch)
	if err != nil {
		return nil, err
	}
	s.events = append(s.events, ev)
	return updated, nil
}

// ─── Income / Fixed Expenses ────────────────────────────────────────────────

func (s *Store) ListIncome() ([]domain.IncomeEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.IncomeEntry, 0, len(s.income))
	for _, e := range s.income {
		out = append(out, e)
	}
	return out, nil
}

func (s *Store) ListExpenses() ([]domain.ExpenseEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.ExpenseEntry, 0, len(s.expenses))
	for _, e := range s.expenses {
		out = append(out, e)
	}
	return out, nil
}

func (s *Store) UpsertIncome(e domain.IncomeEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.income[e.ID] = e
	return nil
}

func (s *Store) UpsertExpense(e domain.ExpenseEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expenses[e.ID] = e
	return nil
}

func (s *Store) DeleteIncome(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.income[id]; !ok {
		return domain.ErrEntryNotFound
	}
	delete(s.income, id)
	return nil
}

func (s *Store) DeleteExpense(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.expenses[id]; !ok {
		return domain.ErrEntryNotFound
	}
	delete(s.expenses, id)
	return nil
}

// ─── Budgets ────────────────────────────────────────────────────────────────

func (s *Store) ListBudgets() ([]domain.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Budget, 0, len(s.budgets))
	for _, b := range s.budgets {
		cp := *b
		cp.Expenses = append([]domain.BudgetExpense(nil), b.Expenses...)
		out = append(out, cp)
	}
	return out, nil
}

func (s *Store) UpsertBudget(b domain.Budget) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.budgets[b.ID]; ok && b.Expenses == nil {
		b.Expenses = existing.Expenses
	}
	s.budgets[b.ID] = &b
	return nil
}

func (s *Store) UpdateBudgetCurrent(id string, current float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.budgets[id]
	if !ok {
		return domain.ErrBudgetNotFound
	}
	b.Current = current
	return nil
}

func (s *Store) AddBudgetExpense(e domain.BudgetExpense) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.budgets[e.BudgetID]
	if !ok {
		return domain.ErrBudgetNotFound
	}
	b.Expenses = append(b.Expenses, e)
	return nil
}

// ─── Transactions ───────────────────────────────────────────────────────────

func (s *Store) ListTransactions() ([]domain.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Transaction, 0, len(s.txs))
	for _, t := range s.txs {
		out = append(out, t)
	}
	return out, nil
}

func (s *Store) InsertTransaction(t domain.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.txs[t.ID] = t
	return nil
}

func (s *Store) UpdateTransaction(t domain.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.txs[t.ID]; !ok {
		return domain.ErrTransactionNotFound
	}
	s.txs[t.ID] = t
	return nil
}

func (s *Store) DeleteTransaction(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.txs[id]; !ok {
		return domain.ErrTransactionNotFound
	}
	delete(s.txs, id)
	return nil
}

// ─── Goals ──────────────────────────────────────────────────────────────────

func (s *Store) ListGoals() ([]domain.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Goal, 0, len(s.goals))
	for _, g := range s.goals {
		out = append(out, g)
	}
	return out, nil
}

func (s *Store) UpsertGoal(g domain.Goal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.goals[g.ID] = g
	return nil
}

func (s *Store) DeleteGoal(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.goals[id]; !ok {
		return domain.ErrGoalNotFound
	}
	delete(s.goals, id)
	return nil
}

// ─── App Metadata ───────────────────────────────────────────────────────────

func (s *Store) GetMeta(key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.meta[key], nil
}

func (s *Store) SetMeta(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.meta[key] = value
	return nil
}
