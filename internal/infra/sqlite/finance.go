package sqlite

import (
	"database/sql"
	"time"

	"github.com/sparfuchs-app/sparfuchs/internal/domain"
)

// ─── Income / Fixed Expenses ────────────────────────────────────────────────

// ListIncome returns all recurring income entries.
func (d *DB) ListIncome() ([]domain.IncomeEntry, error) {
	rows, err := d.db.Query(`SELECT id, label, amount FROM income_entries ORDER BY label`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.IncomeEntry
	for rows.Next() {
		var e domain.IncomeEntry
		if err := rows.Scan(&e.ID, &e.Label, &e.Amount); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// ListExpenses returns all recurring fixed expense entries.
func (d *DB) ListExpenses() ([]domain.ExpenseEntry, error) {
	rows, err := d.db.Query(`SELECT id, label, amount FROM expense_entries ORDER BY label`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.ExpenseEntry
	for rows.Next() {
		var e domain.ExpenseEntry
		if err := rows.Scan(&e.ID, &e.Label, &e.Amount); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// UpsertIncome inserts or updates an income entry.
func (d *DB) UpsertIncome(e domain.IncomeEntry) error {
	_, err := d.db.Exec(
		`INSERT INTO income_entries (id, label, amount) VALUES (?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET label=excluded.label, amount=excluded.amount`,
		e.ID, e.Label, e.Amount,
	)
	return err
}

// UpsertExpense inserts or updates a fixed expense entry.
func (d *DB) UpsertExpense(e domain.ExpenseEntry) error {
	_, err := d.db.Exec(
		`INSERT INTO expense_entries (id, label, amount) VALUES (?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET label=excluded.label, amount=excluded.amount`,
		e.ID, e.Label, e.Amount,
	)
	return err
}

// DeleteIncome removes an income entry.
func (d *DB) DeleteIncome(id string) error {
	return d.deleteRow(`DELETE FROM income_entries WHERE id = ?`, id, domain.ErrEntryNotFound)
}

// DeleteExpense removes a fixed expense entry.
func (d *DB) DeleteExpense(id string) error {
	return d.deleteRow(`DELETE FROM expense_entries WHERE id = ?`, id, domain.ErrEntryNotFound)
}

// ─── Budgets ────────────────────────────────────────────────────────────────

// ListBudgets returns all budgets with their expense lines attached.
func (d *DB) ListBudgets() ([]domain.Budget, error) {
	rows, err := d.db.Query(
		`SELECT id, name, icon, limit_amount, current FROM budgets ORDER BY name`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var budgets []domain.Budget
	for rows.Next() {
		var b domain.Budget
		if err := rows.Scan(&b.ID, &b.Name, &b.Icon, &b.Limit, &b.Current); err != nil {
			return nil, err
		}
		budgets = append(budgets, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range budgets {
		expenses, err := d.budgetExpenses(budgets[i].ID)
		if err != nil {
			return nil, err
		}
		budgets[i].Expenses = expenses
	}
	return budgets, nil
}

func (d *DB) budgetExpenses(budgetID string) ([]domain.BudgetExpense, error) {
	rows, err := d.db.Query(
		`SELECT id, budget_id, name, date_label, amount, occurred_at
		 FROM budget_expenses WHERE budget_id = ? ORDER BY occurred_at DESC`, budgetID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var expenses []domain.BudgetExpense
	for rows.Next() {
		var e domain.BudgetExpense
		var occurred sql.NullInt64
		if err := rows.Scan(&e.ID, &e.BudgetID, &e.Name, &e.DateLabel, &e.Amount, &occurred); err != nil {
			return nil, err
		}
		if occurred.Valid {
			e.OccurredAt = time.Unix(occurred.Int64, 0)
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}

// UpsertBudget inserts or updates a budget head row. Expense lines are
// written through AddBudgetExpense.
func (d *DB) UpsertBudget(b domain.Budget) error {
	_, err := d.db.Exec(
		`INSERT INTO budgets (id, name, icon, limit_amount, current) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			name=excluded.name, icon=excluded.icon,
			limit_amount=excluded.limit_amount, current=excluded.current`,
		b.ID, b.Name, b.Icon, b.Limit, b.Current,
	)
	return err
}

// UpdateBudgetCurrent replaces a budget's cycle-to-date spend.
func (d *DB) UpdateBudgetCurrent(id string, current float64) error {
	result, err := d.db.Exec(`UPDATE budgets SET current = ? WHERE id = ?`, current, id)
	if err != nil {
		return err
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return domain.ErrBudgetNotFound
	}
	return nil
}

// AddBudgetExpense appends a spend line to a budget.
func (d *DB) AddBudgetExpense(e domain.BudgetExpense) error {
	_, err := d.db.Exec(
		`INSERT INTO budget_expenses (id, budget_id, name, date_label, amount, occurred_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		e.ID, e.BudgetID, e.Name, e.DateLabel, e.Amount, nullableUnix(e.OccurredAt),
	)
	return err
}

// ─── Transactions ───────────────────────────────────────────────────────────

// ListTransactions returns all transactions, newest first.
func (d *DB) ListTransactions() ([]domain.Transaction, error) {
	rows, err := d.db.Query(
		`SELECT id, name, category, date_label, amount, icon, occurred_at
		 FROM transactions ORDER BY occurred_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txs []domain.Transaction
	for rows.Next() {
		var t domain.Transaction
		var occurred sql.NullInt64
		if err := rows.Scan(&t.ID, &t.Name, &t.Category, &t.DateLabel, &t.Amount, &t.Icon, &occurred); err != nil {
			return nil, err
		}
		if occurred.Valid {
			t.OccurredAt = time.Unix(occurred.Int64, 0)
		}
		txs = append(txs, t)
	}
	return txs, rows.Err()
}

// InsertTransaction creates a transaction row.
func (d *DB) InsertTransaction(t domain.Transaction) error {
	_, err := d.db.Exec(
		`INSERT INTO transactions (id, name, category, date_label, amount, icon, occurred_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Name, t.Category, t.DateLabel, t.Amount, t.Icon, nullableUnix(t.OccurredAt),
	)
	return err
}

// UpdateTransaction replaces a transaction row.
func (d *DB) UpdateTransaction(t domain.Transaction) error {
	result, err := d.db.Exec(
		`UPDATE transactions SET name = ?, category = ?, date_label = ?, amount = ?, icon = ?, occurred_at = ?
		 WHERE id = ?`,
		t.Name, t.Category, t.DateLabel, t.Amount, t.Icon, nullableUnix(t.OccurredAt), t.ID,
	)
	if err != nil {
		return err
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return domain.ErrTransactionNotFound
	}
	return nil
}

// DeleteTransaction removes a transaction row.
func (d *DB) DeleteTransaction(id string) error {
	return d.deleteRow(`DELETE FROM transactions WHERE id = ?`, id, domain.ErrTransactionNotFound)
}

// ─── Goals ──────────────────────────────────────────────────────────────────

// ListGoals returns all savings goals.
func (d *DB) ListGoals() ([]domain.Goal, error) {
	rows, err := d.db.Query(
		`SELECT id, name, icon, target, current, deposits FROM goals ORDER BY name`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var goals []domain.Goal
	for rows.Next() {
		var g domain.Goal
		if err := rows.Scan(&g.ID, &g.Name, &g.Icon, &g.Target, &g.Current, &g.Deposits); err != nil {
			return nil, err
		}
		goals = append(goals, g)
	}
	return goals, rows.Err()
}

// UpsertGoal inserts or updates a savings goal.
func (d *DB) UpsertGoal(g domain.Goal) error {
	_, err := d.db.Exec(
		`INSERT INTO goals (id, name, icon, target, current, deposits) VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			name=excluded.name, icon=excluded.icon, target=excluded.target,
			current=excluded.current, deposits=excluded.deposits`,
		g.ID, g.Name, g.Icon, g.Target, g.Current, g.Deposits,
	)
	return err
}

// DeleteGoal removes a savings goal.
func (d *DB) DeleteGoal(id string) error {
	return d.deleteRow(`DELETE FROM goals WHERE id = ?`, id, domain.ErrGoalNotFound)
}

// ─── App Metadata ───────────────────────────────────────────────────────────

// SetMeta stores an app metadata key-value pair.
func (d *DB) SetMeta(key, value string) error {
	_, err := d.db.Exec(
		`INSERT INTO app_meta (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value=excluded.value`,
		key, value,
	)
	return err
}

// GetMeta retrieves an app metadata value. Returns "" if missing.
func (d *DB) GetMeta(key string) (string, error) {
	var value string
	err := d.db.QueryRow(`SELECT value FROM app_meta WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return value, err
}

func (d *DB) deleteRow(query, id string, notFound error) error {
	result, err := d.db.Exec(query, id)
	if err != nil {
		return err
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return notFound
	}
	return nil
}
