// Package api provides the HTTP server for Sparfuchs. It exposes the
// derived financial state, transaction CRUD, goals, and the XP system to
// the UI layer.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sparfuchs-app/sparfuchs/internal/app/finance"
	"github.com/sparfuchs-app/sparfuchs/internal/app/xp"
	"github.com/sparfuchs-app/sparfuchs/internal/domain"
	"github.com/sparfuchs-app/sparfuchs/internal/health"
)

// Server is the Sparfuchs HTTP API server.
type Server struct {
	store          domain.Store
	engine         *xp.Engine
	ledger         *finance.Ledger
	reset          *finance.ResetService
	checker        *health.Checker
	metricsEnabled bool
}

// NewServer creates a new API server.
func NewServer(store domain.Store, engine *xp.Engine, ledger *finance.Ledger, reset *finance.ResetService) *Server {
	return &Server{store: store, engine: engine, ledger: ledger, reset: reset}
}

// EnableMetrics enables the /metrics Prometheus endpoint.
func (s *Server) EnableMetrics() { s.metricsEnabled = true }

// SetHealthChecker attaches the self-check results to /health.
func (s *Server) SetHealthChecker(c *health.Checker) { s.checker = c }

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(corsMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]interface{}{"status": "ok"}
		if s.checker != nil {
			if !s.checker.IsHealthy() {
				resp["status"] = "degraded"
			}
			resp["checks"] = s.checker.Statuses()
		}
		writeJSON(w, http.StatusOK, resp)
	})

	r.Route("/api", func(r chi.Router) {
		// Derived financial state
		r.Get("/summary", s.handleSummary)
		r.Get("/insights", s.handleInsights)
		r.Get("/trend", s.handleTrend)
		r.Get("/week", s.handleWeeklySpending)

		// Income & fixed expense entries
		r.Get("/income", s.handleListIncome)
		r.Post("/income", s.handleCreateIncome)
		r.Put("/income/{id}", s.handleUpdateIncome)
		r.Delete("/income/{id}", s.handleDeleteIncome)
		r.Get("/expenses", s.handleListExpenses)
		r.Post("/expenses", s.handleCreateExpense)
		r.Put("/expenses/{id}", s.handleUpdateExpense)
		r.Delete("/expenses/{id}", s.handleDeleteExpense)

		// Budgets
		r.Get("/budgets", s.handleListBudgets)
		r.Post("/budgets", s.handleCreateBudget)
		r.Post("/budgets/{id}/expenses", s.handleAddBudgetExpense)

		// Transactions (optimistic ledger)
		r.Get("/transactions", s.handleListTransactions)
		r.Post("/transactions", s.handleCreateTransaction)
		r.Put("/transactions/{id}", s.handleUpdateTransaction)
		r.Delete("/transactions/{id}", s.handleDeleteTransaction)

		// Goals
		r.Get("/goals", s.handleListGoals)
		r.Post("/goals", s.handleCreateGoal)
		r.Post("/goals/{id}/deposit", s.handleGoalDeposit)

		// XP system
		r.Get("/xp/progress", s.handleXPProgress)
		r.Get("/xp/levels", s.handleXPLevels)
		r.Post("/xp/award", s.handleXPAward)

		// Host lifecycle hook (background→active edge)
		r.Post("/lifecycle/foreground", s.handleForeground)
	})

	// Prometheus metrics endpoint
	if s.metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	return r
}

// snapshot assembles the in-memory entity view fed to the selectors.
func (s *Server) snapshot() (domain.Snapshot, error) {
	var snap domain.Snapshot
	var err error

	if snap.Income, err = s.store.ListIncome(); err != nil {
		return snap, err
	}
	if snap.Expenses, err = s.store.ListExpenses(); err != nil {
		return snap, err
	}
	if snap.Budgets, err = s.store.ListBudgets(); err != nil {
		return snap, err
	}
	if snap.Goals, err = s.store.ListGoals(); err != nil {
		return snap, err
	}
	snap.Transactions = s.ledger.Transactions()
	return snap, nil
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]interface{}{
		"error": map[string]interface{}{
			"message": msg,
			"type":    "error",
		},
	})
}

// corsMiddleware adds CORS headers for the local UI.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
