package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/drasla/my-own-accountbook/internal/models"
)

// InvestmentAccounts manages investment account rows.
type InvestmentAccounts struct {
	q Querier
}

// NewInvestmentAccounts creates an InvestmentAccounts repository.
func NewInvestmentAccounts(q Querier) *InvestmentAccounts {
	return &InvestmentAccounts{q: q}
}

// Create inserts an investment account. The opening valuation doubles as
// the initial cost basis; the engine records the matching DEPOSIT log.
func (r *InvestmentAccounts) Create(userID string, req models.CreateInvestmentAccountRequest, openDate string) (*models.InvestmentAccount, error) {
	id := uuid.NewString()
	_, err := r.q.Exec(
		`INSERT INTO investment_accounts
		   (id, user_id, name, detail_type, invested_amount, current_valuation, cumulative_dividend, account_open_date)
		 VALUES (?, ?, ?, ?, ?, ?, 0, ?)`,
		id, userID, req.Name, req.DetailType, req.CurrentValuation, req.CurrentValuation, openDate,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create investment account: %w", err)
	}
	return r.Get(id)
}

// Get retrieves an investment account by ID.
func (r *InvestmentAccounts) Get(id string) (*models.InvestmentAccount, error) {
	return r.scanOne(r.q.QueryRow(selectInvestmentAccount+` WHERE id = ?`, id))
}

// GetForUser retrieves an investment account by ID, scoped to its owner.
func (r *InvestmentAccounts) GetForUser(id, userID string) (*models.InvestmentAccount, error) {
	return r.scanOne(r.q.QueryRow(selectInvestmentAccount+` WHERE id = ? AND user_id = ?`, id, userID))
}

// ListByUser returns all of a user's investment accounts, largest valuation
// first.
func (r *InvestmentAccounts) ListByUser(userID string) ([]models.InvestmentAccount, error) {
	rows, err := r.q.Query(selectInvestmentAccount+
		` WHERE user_id = ? ORDER BY current_valuation DESC, created_at ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list investment accounts: %w", err)
	}
	defer rows.Close()

	var accounts []models.InvestmentAccount
	for rows.Next() {
		var a models.InvestmentAccount
		if err := rows.Scan(&a.ID, &a.UserID, &a.Name, &a.DetailType,
			&a.InvestedAmount, &a.CurrentValuation, &a.CumulativeDividend,
			&a.AccountOpenDate, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan investment account: %w", err)
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

// AdjustAmounts applies signed deltas to the cost basis, valuation and
// cumulative dividend in one statement. Any delta may be zero.
func (r *InvestmentAccounts) AdjustAmounts(id string, investedDelta, valuationDelta, dividendDelta int64) error {
	res, err := r.q.Exec(
		`UPDATE investment_accounts SET
		   invested_amount = invested_amount + ?,
		   current_valuation = current_valuation + ?,
		   cumulative_dividend = cumulative_dividend + ?
		 WHERE id = ?`,
		investedDelta, valuationDelta, dividendDelta, id)
	if err != nil {
		return fmt.Errorf("failed to adjust investment amounts: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// SetValuation overwrites the current market valuation (absolute set).
func (r *InvestmentAccounts) SetValuation(id string, valuation int64) error {
	res, err := r.q.Exec(
		`UPDATE investment_accounts SET current_valuation = ? WHERE id = ?`, valuation, id)
	if err != nil {
		return fmt.Errorf("failed to set valuation: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes an investment account row.
func (r *InvestmentAccounts) Delete(id string) error {
	if _, err := r.q.Exec(`DELETE FROM investment_accounts WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete investment account: %w", err)
	}
	return nil
}

const selectInvestmentAccount = `
	SELECT id, user_id, name, detail_type, invested_amount, current_valuation,
	       cumulative_dividend, account_open_date, created_at
	FROM investment_accounts`

func (r *InvestmentAccounts) scanOne(row *sql.Row) (*models.InvestmentAccount, error) {
	var a models.InvestmentAccount
	err := row.Scan(&a.ID, &a.UserID, &a.Name, &a.DetailType,
		&a.InvestedAmount, &a.CurrentValuation, &a.CumulativeDividend,
		&a.AccountOpenDate, &a.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get investment account: %w", err)
	}
	return &a, nil
}

// DeleteByUser removes every investment account of a user. Logs and
// snapshots of the accounts must be removed first.
func (r *InvestmentAccounts) DeleteByUser(userID string) error {
	if _, err := r.q.Exec(`DELETE FROM investment_accounts WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("failed to delete investment accounts: %w", err)
	}
	return nil
}
