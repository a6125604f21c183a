package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/drasla/my-own-accountbook/internal/models"
)

// Snapshots manages per-day investment valuation records.
type Snapshots struct {
	q Querier
}

// NewSnapshots creates a Snapshots repository.
func NewSnapshots(q Querier) *Snapshots {
	return &Snapshots{q: q}
}

// Upsert writes the snapshot for (account, date). A snapshot that already
// exists for the date is overwritten; the latest call wins.
func (r *Snapshots) Upsert(accountID, date string, totalValue, investedAmount int64) error {
	_, err := r.q.Exec(
		`INSERT INTO investment_snapshots (id, investment_account_id, date, total_value, invested_amount)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(investment_account_id, date) DO UPDATE SET
		   total_value = excluded.total_value,
		   invested_amount = excluded.invested_amount`,
		uuid.NewString(), accountID, date, totalValue, investedAmount)
	if err != nil {
		return fmt.Errorf("failed to upsert snapshot: %w", err)
	}
	return nil
}

// Get retrieves the snapshot for (account, date).
func (r *Snapshots) Get(accountID, date string) (*models.InvestmentSnapshot, error) {
	var s models.InvestmentSnapshot
	err := r.q.QueryRow(
		`SELECT id, investment_account_id, date, total_value, invested_amount
		 FROM investment_snapshots WHERE investment_account_id = ? AND date = ?`,
		accountID, date,
	).Scan(&s.ID, &s.InvestmentAccountID, &s.Date, &s.TotalValue, &s.InvestedAmount)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot: %w", err)
	}
	return &s, nil
}

// PropagateFrom adds the signed delta to total_value and invested_amount of
// every snapshot with date >= from. Money entering on a past date must be
// reflected in every later day's frozen record.
func (r *Snapshots) PropagateFrom(accountID, from string, delta int64) error {
	_, err := r.q.Exec(
		`UPDATE investment_snapshots SET
		   total_value = total_value + ?,
		   invested_amount = invested_amount + ?
		 WHERE investment_account_id = ? AND date >= ?`,
		delta, delta, accountID, from)
	if err != nil {
		return fmt.Errorf("failed to propagate snapshots: %w", err)
	}
	return nil
}

// ListByAccount returns an account's snapshots, oldest first, within the
// optional inclusive date range.
func (r *Snapshots) ListByAccount(accountID, fromDate, toDate string, limit int) ([]models.InvestmentSnapshot, error) {
	query := `SELECT id, investment_account_id, date, total_value, invested_amount
	          FROM investment_snapshots WHERE investment_account_id = ?`
	args := []interface{}{accountID}
	if fromDate != "" {
		query += ` AND date >= ?`
		args = append(args, fromDate)
	}
	if toDate != "" {
		query += ` AND date <= ?`
		args = append(args, toDate)
	}
	query += ` ORDER BY date ASC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.q.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	defer rows.Close()

	return scanSnapshots(rows)
}

// ListByUser returns all snapshots of a user's accounts from a date on,
// oldest first. Used for chart series spanning every account.
func (r *Snapshots) ListByUser(userID, fromDate, toDate string) ([]models.InvestmentSnapshot, error) {
	query := `SELECT s.id, s.investment_account_id, s.date, s.total_value, s.invested_amount
	          FROM investment_snapshots s
	          JOIN investment_accounts a ON a.id = s.investment_account_id
	          WHERE a.user_id = ?`
	args := []interface{}{userID}
	if fromDate != "" {
		query += ` AND s.date >= ?`
		args = append(args, fromDate)
	}
	if toDate != "" {
		query += ` AND s.date <= ?`
		args = append(args, toDate)
	}
	query += ` ORDER BY s.date ASC`

	rows, err := r.q.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list user snapshots: %w", err)
	}
	defer rows.Close()

	return scanSnapshots(rows)
}

// DeleteByAccount removes all of an account's snapshots.
func (r *Snapshots) DeleteByAccount(accountID string) error {
	if _, err := r.q.Exec(
		`DELETE FROM investment_snapshots WHERE investment_account_id = ?`, accountID); err != nil {
		return fmt.Errorf("failed to delete account snapshots: %w", err)
	}
	return nil
}

func scanSnapshots(rows *sql.Rows) ([]models.InvestmentSnapshot, error) {
	var snapshots []models.InvestmentSnapshot
	for rows.Next() {
		var s models.InvestmentSnapshot
		if err := rows.Scan(&s.ID, &s.InvestmentAccountID, &s.Date, &s.TotalValue, &s.InvestedAmount); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		snapshots = append(snapshots, s)
	}
	return snapshots, rows.Err()
}
