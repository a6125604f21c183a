package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/drasla/my-own-accountbook/internal/models"
)

// BankAccounts manages cash account rows.
type BankAccounts struct {
	q Querier
}

// NewBankAccounts creates a BankAccounts repository.
func NewBankAccounts(q Querier) *BankAccounts {
	return &BankAccounts{q: q}
}

// Create inserts a bank account with its opening balance.
func (r *BankAccounts) Create(userID string, req models.CreateBankAccountRequest) (*models.BankAccount, error) {
	id := uuid.NewString()
	_, err := r.q.Exec(
		`INSERT INTO bank_accounts (id, user_id, name, type, current_balance)
		 VALUES (?, ?, ?, ?, ?)`,
		id, userID, req.Name, req.Type, req.CurrentBalance,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create bank account: %w", err)
	}
	return r.Get(id)
}

// Get retrieves a bank account by ID.
func (r *BankAccounts) Get(id string) (*models.BankAccount, error) {
	return r.scanOne(r.q.QueryRow(
		`SELECT id, user_id, name, type, current_balance, created_at
		 FROM bank_accounts WHERE id = ?`, id))
}

// GetForUser retrieves a bank account by ID, scoped to its owner.
func (r *BankAccounts) GetForUser(id, userID string) (*models.BankAccount, error) {
	return r.scanOne(r.q.QueryRow(
		`SELECT id, user_id, name, type, current_balance, created_at
		 FROM bank_accounts WHERE id = ? AND user_id = ?`, id, userID))
}

// ListByUser returns all of a user's bank accounts, largest balance first.
func (r *BankAccounts) ListByUser(userID string) ([]models.BankAccount, error) {
	rows, err := r.q.Query(
		`SELECT id, user_id, name, type, current_balance, created_at
		 FROM bank_accounts WHERE user_id = ?
		 ORDER BY current_balance DESC, created_at ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bank accounts: %w", err)
	}
	defer rows.Close()

	var accounts []models.BankAccount
	for rows.Next() {
		var a models.BankAccount
		if err := rows.Scan(&a.ID, &a.UserID, &a.Name, &a.Type, &a.CurrentBalance, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan bank account: %w", err)
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

// AdjustBalance applies a signed delta to an account's balance.
func (r *BankAccounts) AdjustBalance(id string, delta int64) error {
	res, err := r.q.Exec(
		`UPDATE bank_accounts SET current_balance = current_balance + ? WHERE id = ?`,
		delta, id)
	if err != nil {
		return fmt.Errorf("failed to adjust bank balance: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a bank account row.
func (r *BankAccounts) Delete(id string) error {
	if _, err := r.q.Exec(`DELETE FROM bank_accounts WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete bank account: %w", err)
	}
	return nil
}

func (r *BankAccounts) scanOne(row *sql.Row) (*models.BankAccount, error) {
	var a models.BankAccount
	err := row.Scan(&a.ID, &a.UserID, &a.Name, &a.Type, &a.CurrentBalance, &a.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bank account: %w", err)
	}
	return &a, nil
}

// DeleteByUser removes every bank account of a user.
func (r *BankAccounts) DeleteByUser(userID string) error {
	if _, err := r.q.Exec(`DELETE FROM bank_accounts WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("failed to delete bank accounts: %w", err)
	}
	return nil
}
