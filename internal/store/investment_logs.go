package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/drasla/my-own-accountbook/internal/models"
)

// InvestmentLogs manages cost-basis ledger rows.
type InvestmentLogs struct {
	q Querier
}

// NewInvestmentLogs creates an InvestmentLogs repository.
func NewInvestmentLogs(q Querier) *InvestmentLogs {
	return &InvestmentLogs{q: q}
}

// Create inserts a log and returns its generated ID.
func (r *InvestmentLogs) Create(accountID string, typ models.InvestLogType, amount int64, date, note string) (string, error) {
	id := uuid.NewString()
	_, err := r.q.Exec(
		`INSERT INTO investment_logs (id, investment_account_id, type, amount, date, note)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		id, accountID, string(typ), amount, date, note)
	if err != nil {
		return "", fmt.Errorf("failed to create investment log: %w", err)
	}
	return id, nil
}

// Get retrieves a log by ID.
func (r *InvestmentLogs) Get(id string) (*models.InvestmentLog, error) {
	var l models.InvestmentLog
	var typ string
	err := r.q.QueryRow(
		`SELECT id, investment_account_id, type, amount, date, note, created_at
		 FROM investment_logs WHERE id = ?`, id,
	).Scan(&l.ID, &l.InvestmentAccountID, &typ, &l.Amount, &l.Date, &l.Note, &l.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get investment log: %w", err)
	}
	l.Type = models.InvestLogType(typ)
	return &l, nil
}

// UpdateFields writes the editable fields of a log.
func (r *InvestmentLogs) UpdateFields(id string, typ models.InvestLogType, amount int64, date, note string) error {
	res, err := r.q.Exec(
		`UPDATE investment_logs SET type = ?, amount = ?, date = ?, note = ? WHERE id = ?`,
		string(typ), amount, date, note, id)
	if err != nil {
		return fmt.Errorf("failed to update investment log: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a log row.
func (r *InvestmentLogs) Delete(id string) error {
	res, err := r.q.Exec(`DELETE FROM investment_logs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete investment log: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// ListByAccount returns an account's logs, newest first, within the
// optional inclusive date range.
func (r *InvestmentLogs) ListByAccount(accountID, fromDate, toDate string, limit int) ([]models.InvestmentLog, error) {
	query := `SELECT id, investment_account_id, type, amount, date, note, created_at
	          FROM investment_logs WHERE investment_account_id = ?`
	args := []interface{}{accountID}
	if fromDate != "" {
		query += ` AND date >= ?`
		args = append(args, fromDate)
	}
	if toDate != "" {
		query += ` AND date <= ?`
		args = append(args, toDate)
	}
	query += ` ORDER BY date DESC, created_at DESC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.q.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list investment logs: %w", err)
	}
	defer rows.Close()

	var logs []models.InvestmentLog
	for rows.Next() {
		var l models.InvestmentLog
		var typ string
		if err := rows.Scan(&l.ID, &l.InvestmentAccountID, &typ, &l.Amount, &l.Date, &l.Note, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan investment log: %w", err)
		}
		l.Type = models.InvestLogType(typ)
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

// FindDepositByDateAmount is the legacy heuristic lookup for the DEPOSIT
// log created by a transfer-to-investment when the entry predates the
// explicit link. Logs already claimed by a linked entry are excluded. It
// returns ErrAmbiguousMatch when several logs of the user share the date
// and amount.
func (r *InvestmentLogs) FindDepositByDateAmount(userID, date string, amount int64) (*models.InvestmentLog, error) {
	rows, err := r.q.Query(
		`SELECT l.id, l.investment_account_id, l.type, l.amount, l.date, l.note, l.created_at
		 FROM investment_logs l
		 JOIN investment_accounts a ON a.id = l.investment_account_id
		 WHERE a.user_id = ? AND l.type = 'DEPOSIT' AND l.date = ? AND l.amount = ?
		   AND NOT EXISTS (SELECT 1 FROM transactions t WHERE t.investment_log_id = l.id)`,
		userID, date, amount)
	if err != nil {
		return nil, fmt.Errorf("failed to find deposit log: %w", err)
	}
	defer rows.Close()

	var matches []models.InvestmentLog
	for rows.Next() {
		var l models.InvestmentLog
		var typ string
		if err := rows.Scan(&l.ID, &l.InvestmentAccountID, &typ, &l.Amount, &l.Date, &l.Note, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan deposit log: %w", err)
		}
		l.Type = models.InvestLogType(typ)
		matches = append(matches, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	switch len(matches) {
	case 0:
		return nil, ErrNotFound
	case 1:
		return &matches[0], nil
	default:
		return nil, ErrAmbiguousMatch
	}
}

// SignedBasisSum returns the net DEPOSIT minus WITHDRAW sum of an account's logs,
// the reconciliation oracle for invested_amount.
func (r *InvestmentLogs) SignedBasisSum(accountID string) (int64, error) {
	var sum sql.NullInt64
	err := r.q.QueryRow(
		`SELECT SUM(CASE type WHEN 'DEPOSIT' THEN amount WHEN 'WITHDRAW' THEN -amount ELSE 0 END)
		 FROM investment_logs WHERE investment_account_id = ?`,
		accountID).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("failed to sum investment basis: %w", err)
	}
	return sum.Int64, nil
}

// DeleteByAccount removes all of an account's logs.
func (r *InvestmentLogs) DeleteByAccount(accountID string) error {
	if _, err := r.q.Exec(`DELETE FROM investment_logs WHERE investment_account_id = ?`, accountID); err != nil {
		return fmt.Errorf("failed to delete account logs: %w", err)
	}
	return nil
}
