package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/drasla/my-own-accountbook/internal/models"
)

// Transactions manages ledger entry rows.
type Transactions struct {
	q Querier
}

// NewTransactions creates a Transactions repository.
func NewTransactions(q Querier) *Transactions {
	return &Transactions{q: q}
}

// NewTransaction is the insert payload for one ledger entry.
type NewTransaction struct {
	UserID          string
	Type            models.TxType
	Amount          int64
	Date            string
	Description     string
	CategoryID      *string
	BankAccountID   *string
	CardID          *string
	IsTransfer      bool
	InvestmentLogID *string
}

// Create inserts a ledger entry and returns its generated ID.
func (r *Transactions) Create(tx NewTransaction) (string, error) {
	id := uuid.NewString()
	_, err := r.q.Exec(
		`INSERT INTO transactions
		   (id, user_id, type, amount, date, description, category_id,
		    bank_account_id, card_id, is_transfer, investment_log_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, tx.UserID, string(tx.Type), tx.Amount, tx.Date, tx.Description,
		nullStr(tx.CategoryID), nullStr(tx.BankAccountID), nullStr(tx.CardID),
		boolToInt(tx.IsTransfer), nullStr(tx.InvestmentLogID),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create transaction: %w", err)
	}
	return id, nil
}

// Get retrieves a ledger entry by ID.
func (r *Transactions) Get(id string) (*models.Transaction, error) {
	t, err := scanTransaction(r.q.QueryRow(selectTransaction+` WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return t, err
}

// GetForUser retrieves a ledger entry by ID, scoped to its owner.
func (r *Transactions) GetForUser(id, userID string) (*models.Transaction, error) {
	t, err := scanTransaction(r.q.QueryRow(selectTransaction+` WHERE id = ? AND user_id = ?`, id, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return t, err
}

// UpdateFields writes the editable fields of an entry. Type and account
// links are immutable across an edit.
func (r *Transactions) UpdateFields(id string, amount int64, date, description string, categoryID *string) error {
	res, err := r.q.Exec(
		`UPDATE transactions SET amount = ?, date = ?, description = ?, category_id = ?
		 WHERE id = ?`,
		amount, date, description, nullStr(categoryID), id)
	if err != nil {
		return fmt.Errorf("failed to update transaction: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a ledger entry row.
func (r *Transactions) Delete(id string) error {
	res, err := r.q.Exec(`DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// ListFilter narrows list queries; zero values mean no constraint.
type ListFilter struct {
	BankAccountID string
	CardID        string
	FromDate      string // inclusive YYYY-MM-DD
	ToDate        string // inclusive YYYY-MM-DD
	Limit         int
}

// List returns a user's entries matching the filter, newest business date
// first, then newest insert first.
func (r *Transactions) List(userID string, f ListFilter) ([]models.Transaction, error) {
	query := selectTransaction + ` WHERE user_id = ?`
	args := []interface{}{userID}

	if f.BankAccountID != "" {
		query += ` AND bank_account_id = ?`
		args = append(args, f.BankAccountID)
	}
	if f.CardID != "" {
		query += ` AND card_id = ?`
		args = append(args, f.CardID)
	}
	if f.FromDate != "" {
		query += ` AND date >= ?`
		args = append(args, f.FromDate)
	}
	if f.ToDate != "" {
		query += ` AND date <= ?`
		args = append(args, f.ToDate)
	}
	query += ` ORDER BY date DESC, created_at DESC`
	if f.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, f.Limit)
	}

	rows, err := r.q.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var entries []models.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *t)
	}
	return entries, rows.Err()
}

// DeleteByBankAccount removes all entries linked to a bank account.
// Used by the explicit account-deletion cascade.
func (r *Transactions) DeleteByBankAccount(bankAccountID string) error {
	if _, err := r.q.Exec(`DELETE FROM transactions WHERE bank_account_id = ?`, bankAccountID); err != nil {
		return fmt.Errorf("failed to delete account transactions: %w", err)
	}
	return nil
}

// DeleteByCard removes all entries linked to a card.
func (r *Transactions) DeleteByCard(cardID string) error {
	if _, err := r.q.Exec(`DELETE FROM transactions WHERE card_id = ?`, cardID); err != nil {
		return fmt.Errorf("failed to delete card transactions: %w", err)
	}
	return nil
}

// DeleteByUser removes all of a user's entries.
func (r *Transactions) DeleteByUser(userID string) error {
	if _, err := r.q.Exec(`DELETE FROM transactions WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("failed to delete user transactions: %w", err)
	}
	return nil
}

// HasInvestmentLogLink reports whether any entry references the log.
func (r *Transactions) HasInvestmentLogLink(logID string) (bool, error) {
	var n int
	err := r.q.QueryRow(
		`SELECT COUNT(*) FROM transactions WHERE investment_log_id = ?`, logID).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to check investment log link: %w", err)
	}
	return n > 0, nil
}

// NeutralizeInvestmentLegs converts the transfer legs of an account that is
// about to be deleted into plain expense entries. The cash really left the
// bank and the rollup counted it, so the entry survives as an ordinary
// expense instead of a dangling transfer leg.
func (r *Transactions) NeutralizeInvestmentLegs(investmentAccountID string) error {
	_, err := r.q.Exec(
		`UPDATE transactions SET is_transfer = 0, investment_log_id = NULL
		 WHERE investment_log_id IN
		   (SELECT id FROM investment_logs WHERE investment_account_id = ?)`,
		investmentAccountID)
	if err != nil {
		return fmt.Errorf("failed to neutralize investment legs: %w", err)
	}
	return nil
}

// ListUnlinkedTransferLegs returns a user's transfer-flagged expense legs
// that carry neither a card nor an investment log link: bank-to-bank legs
// and rows written before explicit log links existed.
func (r *Transactions) ListUnlinkedTransferLegs(userID string) ([]models.Transaction, error) {
	rows, err := r.q.Query(selectTransaction+`
		 WHERE user_id = ? AND is_transfer = 1 AND type = 'EXPENSE'
		   AND bank_account_id IS NOT NULL AND card_id IS NULL
		   AND investment_log_id IS NULL
		 ORDER BY date ASC, created_at ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list unlinked transfer legs: %w", err)
	}
	defer rows.Close()

	var legs []models.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		legs = append(legs, *t)
	}
	return legs, rows.Err()
}

// HasTransferCounterpart reports whether a transfer-flagged income leg of
// the same date and amount exists, which marks an expense leg as one half
// of a bank-to-bank pair.
func (r *Transactions) HasTransferCounterpart(userID, date string, amount int64) (bool, error) {
	var n int
	err := r.q.QueryRow(
		`SELECT COUNT(*) FROM transactions
		 WHERE user_id = ? AND is_transfer = 1 AND type = 'INCOME'
		   AND bank_account_id IS NOT NULL AND date = ? AND amount = ?`,
		userID, date, amount).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to check transfer counterpart: %w", err)
	}
	return n > 0, nil
}

// SetInvestmentLogLink binds an entry to its investment log.
func (r *Transactions) SetInvestmentLogLink(id, logID string) error {
	if _, err := r.q.Exec(
		`UPDATE transactions SET investment_log_id = ? WHERE id = ?`, logID, id); err != nil {
		return fmt.Errorf("failed to set investment log link: %w", err)
	}
	return nil
}

// CategoryTotal is one category's share of a period's entries.
type CategoryTotal struct {
	CategoryID   string
	CategoryName string
	Amount       int64
	Count        int
}

// SumByCategory groups one month's non-transfer categorized entries of a
// type by category, largest amount first.
func (r *Transactions) SumByCategory(userID string, typ models.TxType, fromDate, toDate string) ([]CategoryTotal, error) {
	rows, err := r.q.Query(
		`SELECT t.category_id, c.name, SUM(t.amount), COUNT(*)
		 FROM transactions t
		 JOIN categories c ON c.id = t.category_id
		 WHERE t.user_id = ? AND t.type = ? AND t.is_transfer = 0
		   AND t.category_id IS NOT NULL
		   AND t.date >= ? AND t.date <= ?
		 GROUP BY t.category_id, c.name
		 ORDER BY SUM(t.amount) DESC`,
		userID, string(typ), fromDate, toDate)
	if err != nil {
		return nil, fmt.Errorf("failed to sum by category: %w", err)
	}
	defer rows.Close()

	var totals []CategoryTotal
	for rows.Next() {
		var ct CategoryTotal
		if err := rows.Scan(&ct.CategoryID, &ct.CategoryName, &ct.Amount, &ct.Count); err != nil {
			return nil, fmt.Errorf("failed to scan category total: %w", err)
		}
		totals = append(totals, ct)
	}
	return totals, rows.Err()
}

// SignedCashSum returns the signed sum (income positive, expense negative)
// of a user's non-transfer bank entries up to and including a date.
// This is the as-of oracle reconciliation checks the rollup series against.
func (r *Transactions) SignedCashSum(userID, throughDate string) (int64, error) {
	var sum sql.NullInt64
	err := r.q.QueryRow(
		`SELECT SUM(CASE WHEN type = 'INCOME' THEN amount ELSE -amount END)
		 FROM transactions
		 WHERE user_id = ? AND bank_account_id IS NOT NULL
		   AND (is_transfer = 0 OR card_id IS NOT NULL OR investment_log_id IS NOT NULL)
		   AND date <= ?`,
		userID, throughDate).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("failed to sum cash entries: %w", err)
	}
	return sum.Int64, nil
}

const selectTransaction = `
	SELECT id, user_id, type, amount, date, description, category_id,
	       bank_account_id, card_id, is_transfer, investment_log_id, created_at
	FROM transactions`

func scanTransaction(s rowScanner) (*models.Transaction, error) {
	var t models.Transaction
	var typ string
	var categoryID, bankAccountID, cardID, investmentLogID sql.NullString
	var isTransfer int
	err := s.Scan(&t.ID, &t.UserID, &typ, &t.Amount, &t.Date, &t.Description,
		&categoryID, &bankAccountID, &cardID, &isTransfer, &investmentLogID, &t.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, sql.ErrNoRows
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan transaction: %w", err)
	}
	t.Type = models.TxType(typ)
	t.CategoryID = strPtr(categoryID)
	t.BankAccountID = strPtr(bankAccountID)
	t.CardID = strPtr(cardID)
	t.InvestmentLogID = strPtr(investmentLogID)
	t.IsTransfer = isTransfer != 0
	return &t, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
