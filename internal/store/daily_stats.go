package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/drasla/my-own-accountbook/internal/models"
)

// DailyStats manages the per-user per-day cash rollup rows.
type DailyStats struct {
	q Querier
}

// NewDailyStats creates a DailyStats repository.
func NewDailyStats(q Querier) *DailyStats {
	return &DailyStats{q: q}
}

// Get retrieves the rollup row for (user, date).
func (r *DailyStats) Get(userID, date string) (*models.DailyStat, error) {
	var s models.DailyStat
	err := r.q.QueryRow(
		`SELECT id, user_id, date, daily_income, daily_expense, closing_balance
		 FROM daily_stats WHERE user_id = ? AND date = ?`,
		userID, date,
	).Scan(&s.ID, &s.UserID, &s.Date, &s.DailyIncome, &s.DailyExpense, &s.ClosingBalance)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get daily stat: %w", err)
	}
	return &s, nil
}

// Create inserts a rollup row seeded directly from one event: the matching
// accumulator is set to the amount, the other to zero, and closing_balance
// starts at zero ahead of the forward propagation that corrects it.
func (r *DailyStats) Create(userID, date string, dailyIncome, dailyExpense int64) error {
	_, err := r.q.Exec(
		`INSERT INTO daily_stats (id, user_id, date, daily_income, daily_expense, closing_balance)
		 VALUES (?, ?, ?, ?, ?, 0)`,
		uuid.NewString(), userID, date, dailyIncome, dailyExpense)
	if err != nil {
		return fmt.Errorf("failed to create daily stat: %w", err)
	}
	return nil
}

// AddToAccumulators applies deltas to the day's income/expense counters.
// Negative deltas are valid: rollback calls negate the original amount.
func (r *DailyStats) AddToAccumulators(userID, date string, incomeDelta, expenseDelta int64) error {
	res, err := r.q.Exec(
		`UPDATE daily_stats SET
		   daily_income = daily_income + ?,
		   daily_expense = daily_expense + ?
		 WHERE user_id = ? AND date = ?`,
		incomeDelta, expenseDelta, userID, date)
	if err != nil {
		return fmt.Errorf("failed to update daily stat: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// PropagateFrom adds the signed delta to closing_balance of every row with
// date >= from, so each day's row keeps meaning "cash as of end of day"
// even when entries arrive out of chronological order.
func (r *DailyStats) PropagateFrom(userID, from string, delta int64) error {
	_, err := r.q.Exec(
		`UPDATE daily_stats SET closing_balance = closing_balance + ?
		 WHERE user_id = ? AND date >= ?`,
		delta, userID, from)
	if err != nil {
		return fmt.Errorf("failed to propagate closing balances: %w", err)
	}
	return nil
}

// SetClosingBalance overwrites one row's closing balance. Used by
// reconciliation.
func (r *DailyStats) SetClosingBalance(userID, date string, balance int64) error {
	if _, err := r.q.Exec(
		`UPDATE daily_stats SET closing_balance = ? WHERE user_id = ? AND date = ?`,
		balance, userID, date); err != nil {
		return fmt.Errorf("failed to set closing balance: %w", err)
	}
	return nil
}

// ListRange returns a user's rollup rows in the inclusive range, oldest
// first. Empty bounds are unconstrained.
func (r *DailyStats) ListRange(userID, fromDate, toDate string) ([]models.DailyStat, error) {
	query := `SELECT id, user_id, date, daily_income, daily_expense, closing_balance
	          FROM daily_stats WHERE user_id = ?`
	args := []interface{}{userID}
	if fromDate != "" {
		query += ` AND date >= ?`
		args = append(args, fromDate)
	}
	if toDate != "" {
		query += ` AND date <= ?`
		args = append(args, toDate)
	}
	query += ` ORDER BY date ASC`

	rows, err := r.q.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list daily stats: %w", err)
	}
	defer rows.Close()

	var stats []models.DailyStat
	for rows.Next() {
		var s models.DailyStat
		if err := rows.Scan(&s.ID, &s.UserID, &s.Date, &s.DailyIncome, &s.DailyExpense, &s.ClosingBalance); err != nil {
			return nil, fmt.Errorf("failed to scan daily stat: %w", err)
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

// DeleteByUser removes all of a user's rollup rows. Rollup rows are never
// deleted otherwise.
func (r *DailyStats) DeleteByUser(userID string) error {
	if _, err := r.q.Exec(`DELETE FROM daily_stats WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("failed to delete user daily stats: %w", err)
	}
	return nil
}
