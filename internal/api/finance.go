package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/sparfuchs-app/sparfuchs/internal/app/finance"
	"github.com/sparfuchs-app/sparfuchs/internal/app/xp"
	"github.com/sparfuchs-app/sparfuchs/internal/domain"
)

// ─── Derived Financial State ────────────────────────────────────────────────

// handleSummary returns the full aggregate figure set.
// GET /api/summary
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	snap, err := s.snapshot()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, finance.Summarize(snap))
}

// handleInsights returns spend per category, sorted descending.
// GET /api/insights
func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	snap, err := s.snapshot()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"categories": finance.InsightCategories(snap.Budgets, snap.Expenses),
	})
}

// handleTrend returns the six-month expense trend.
// GET /api/trend
func (s *Server) handleTrend(w http.ResponseWriter, r *http.Request) {
	snap, err := s.snapshot()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	summary := finance.Summarize(snap)
	points := finance.MonthlyTrend(summary.TotalFixedExpenses, summary.TotalVariableExpenses, time.Now())
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"points": points,
	})
}

// handleWeeklySpending returns the day buckets for one week.
// GET /api/week?offset=-1 (offset <= 0; future weeks are clamped)
func (s *Server) handleWeeklySpending(w http.ResponseWriter, r *http.Request) {
	offset := 0
	if raw := r.URL.Query().Get("offset"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "offset must be an integer")
			return
		}
		offset = v
	}
	week := finance.WeeklySpendingFor(s.ledger.Transactions(), offset, time.Now())
	writeJSON(w, http.StatusOK, week)
}

// ─── Income & Fixed Expense Entries ─────────────────────────────────────────

type entryRequest struct {
	Label  string  `json:"label"`
	Amount float64 `json:"amount"`
}

func (req entryRequest) validate() string {
	if req.Label == "" {
		return "label is required"
	}
	if req.Amount <= 0 {
		return "amount must be positive"
	}
	return ""
}

// handleListIncome returns the recurring income lines.
// GET /api/income
func (s *Server) handleListIncome(w http.ResponseWriter, r *http.Request) {
	rows, err := s.store.ListIncome()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"income": rows})
}

// handleCreateIncome records a recurring income line.
// POST /api/income
func (s *Server) handleCreateIncome(w http.ResponseWriter, r *http.Request) {
	var req entryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	entry := domain.IncomeEntry{ID: uuid.NewString(), Label: req.Label, Amount: req.Amount}
	if err := s.store.UpsertIncome(entry); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{"entry": entry})
}

// handleUpdateIncome replaces a recurring income line.
// PUT /api/income/{id}
func (s *Server) handleUpdateIncome(w http.ResponseWriter, r *http.Request) {
	var req entryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	entry := domain.IncomeEntry{ID: chi.URLParam(r, "id"), Label: req.Label, Amount: req.Amount}
	if err := s.store.UpsertIncome(entry); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"entry": entry})
}

// handleDeleteIncome removes a recurring income line.
// DELETE /api/income/{id}
func (s *Server) handleDeleteIncome(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.store.DeleteIncome(id); err != nil {
		if errors.Is(err, domain.ErrEntryNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"deleted": id})
}

// handleListExpenses returns the fixed monthly expense lines.
// GET /api/expenses
func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	rows, err := s.store.ListExpenses()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"expenses": rows})
}

// handleCreateExpense records a fixed monthly expense line.
// POST /api/expenses
func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	var req entryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	entry := domain.ExpenseEntry{ID: uuid.NewString(), Label: req.Label, Amount: req.Amount}
	if err := s.store.UpsertExpense(entry); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{"entry": entry})
}

// handleUpdateExpense replaces a fixed monthly expense line.
// PUT /api/expenses/{id}
func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	var req entryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	entry := domain.ExpenseEntry{ID: chi.URLParam(r, "id"), Label: req.Label, Amount: req.Amount}
	if err := s.store.UpsertExpense(entry); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"entry": entry})
}

// handleDeleteExpense removes a fixed monthly expense line.
// DELETE /api/expenses/{id}
func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.store.DeleteExpense(id); err != nil {
		if errors.Is(err, domain.ErrEntryNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"deleted": id})
}

// ─── Budgets ────────────────────────────────────────────────────────────────

// handleListBudgets returns all category budgets with their spend lines.
// GET /api/budgets
func (s *Server) handleListBudgets(w http.ResponseWriter, r *http.Request) {
	budgets, err := s.store.ListBudgets()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"budgets": budgets})
}

// handleCreateBudget creates a category budget and awards budget XP.
// POST /api/budgets
func (s *Server) handleCreateBudget(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name  string  `json:"name"`
		Icon  string  `json:"icon"`
		Limit float64 `json:"limit"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Name == "" || req.Limit <= 0 {
		writeError(w, http.StatusBadRequest, "name and positive limit are required")
		return
	}

	budget := domain.Budget{
		ID:    uuid.NewString(),
		Name:  req.Name,
		Icon:  req.Icon,
		Limit: req.Limit,
	}
	if err := s.store.UpsertBudget(budget); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	progress := s.engine.Award(xp.AwardInput{
		EventKey:   domain.EventBudgetCreated,
		SourceType: "budget",
		SourceID:   budget.ID,
	})
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"budget":   budget,
		"progress": progress,
	})
}

// handleAddBudgetExpense appends a spend line to a budget's cycle and
// bumps the cycle-to-date total in the same request.
// POST /api/budgets/{id}/expenses
func (s *Server) handleAddBudgetExpense(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name       string  `json:"name"`
		DateLabel  string  `json:"date_label"`
		Amount     float64 `json:"amount"`
		OccurredAt string  `json:"occurred_at,omitempty"` // RFC 3339
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Name == "" || req.Amount <= 0 {
		writeError(w, http.StatusBadRequest, "name and positive amount are required")
		return
	}

	occurred := time.Now()
	if req.OccurredAt != "" {
		parsed, err := time.Parse(time.RFC3339, req.OccurredAt)
		if err != nil {
			writeError(w, http.StatusBadRequest, "occurred_at must be RFC 3339")
			return
		}
		occurred = parsed
	}

	id := chi.URLParam(r, "id")
	budgets, err := s.store.ListBudgets()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	var budget *domain.Budget
	for i := range budgets {
		if budgets[i].ID == id {
			budget = &budgets[i]
			break
		}
	}
	if budget == nil {
		writeError(w, http.StatusNotFound, domain.ErrBudgetNotFound.Error())
		return
	}

	expense := domain.BudgetExpense{
		ID:         uuid.NewString(),
		BudgetID:   id,
		Name:       req.Name,
		DateLabel:  req.DateLabel,
		Amount:     req.Amount,
		OccurredAt: occurred,
	}
	if err := s.store.AddBudgetExpense(expense); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	current := budget.Current + req.Amount
	if err := s.store.UpdateBudgetCurrent(id, current); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"expense": expense,
		"current": current,
	})
}

// ─── Transactions ───────────────────────────────────────────────────────────

type transactionRequest struct {
	Name       string  `json:"name"`
	Category   string  `json:"category"`
	DateLabel  string  `json:"date_label"`
	Amount     float64 `json:"amount"`
	Icon       string  `json:"icon"`
	OccurredAt string  `json:"occurred_at,omitempty"` // RFC 3339
}

func (req transactionRequest) toDomain() (domain.Transaction, error) {
	t := domain.Transaction{
		Name:      req.Name,
		Category:  req.Category,
		DateLabel: req.DateLabel,
		Amount:    req.Amount,
		Icon:      req.Icon,
	}
	if req.OccurredAt != "" {
		occurred, err := time.Parse(time.RFC3339, req.OccurredAt)
		if err != nil {
			return t, err
		}
		t.OccurredAt = occurred
	} else {
		t.OccurredAt = time.Now()
	}
	return t, nil
}

// handleListTransactions returns the in-memory snapshot.
// GET /api/transactions
func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"transactions": s.ledger.Transactions(),
	})
}

// handleCreateTransaction records a transaction optimistically and awards
// snap XP as a side effect. The response carries the temporary identifier.
// POST /api/transactions
func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	t, err := req.toDomain()
	if err != nil {
		writeError(w, http.StatusBadRequest, "occurred_at must be RFC 3339")
		return
	}

	created := s.ledger.Add(t)
	progress := s.engine.Award(xp.AwardInput{
		EventKey:   domain.EventSnapCreated,
		SourceType: "transaction",
		SourceID:   created.ID,
	})

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"transaction": created,
		"progress":    progress,
	})
}

// handleUpdateTransaction replaces a transaction, last write wins.
// PUT /api/transactions/{id}
func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	t, err := req.toDomain()
	if err != nil {
		writeError(w, http.StatusBadRequest, "occurred_at must be RFC 3339")
		return
	}
	t.ID = chi.URLParam(r, "id")

	if err := s.ledger.Update(t); err != nil {
		if errors.Is(err, domain.ErrTransactionNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"transaction": t})
}

// handleDeleteTransaction removes a transaction.
// DELETE /api/transactions/{id}
func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.ledger.Delete(id); err != nil {
		if errors.Is(err, domain.ErrTransactionNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"deleted": id})
}

// ─── Goals ──────────────────────────────────────────────────────────────────

// handleListGoals returns all savings goals.
// GET /api/goals
func (s *Server) handleListGoals(w http.ResponseWriter, r *http.Request) {
	goals, err := s.store.ListGoals()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"goals": goals})
}

// handleCreateGoal creates a goal and awards goal XP.
// POST /api/goals
func (s *Server) handleCreateGoal(w http.ResponseWriter, r *http.Request) {
	var goal domain.Goal
	if err := json.NewDecoder(r.Body).Decode(&goal); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if goal.Name == "" || goal.Target <= 0 {
		writeError(w, http.StatusBadRequest, "name and positive target are required")
		return
	}
	goal.ID = uuid.NewString()
	goal.Current = 0
	goal.Deposits = 0

	if err := s.store.UpsertGoal(goal); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	progress := s.engine.Award(xp.AwardInput{
		EventKey:   domain.EventGoalCreated,
		SourceType: "goal",
		SourceID:   goal.ID,
	})
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"goal":     goal,
		"progress": progress,
	})
}

// handleGoalDeposit adds to a goal and awards completion XP when the
// target is reached for the first time.
// POST /api/goals/{id}/deposit
func (s *Server) handleGoalDeposit(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Amount float64 `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Amount <= 0 {
		writeError(w, http.StatusBadRequest, "positive amount is required")
		return
	}

	id := chi.URLParam(r, "id")
	goals, err := s.store.ListGoals()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	var goal *domain.Goal
	for i := range goals {
		if goals[i].ID == id {
			goal = &goals[i]
			break
		}
	}
	if goal == nil {
		writeError(w, http.StatusNotFound, domain.ErrGoalNotFound.Error())
		return
	}

	wasCompleted := goal.Completed()
	goal.Current += req.Amount
	goal.Deposits++

	if err := s.store.UpsertGoal(*goal); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	var progress *domain.UserProgress
	if !wasCompleted && goal.Completed() {
		progress = s.engine.Award(xp.AwardInput{
			EventKey:   domain.EventGoalCompleted,
			SourceType: "goal",
			SourceID:   goal.ID,
		})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"goal":     goal,
		"progress": progress,
	})
}
