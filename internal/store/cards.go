package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/drasla/my-own-accountbook/internal/models"
)

// Cards manages credit card rows.
type Cards struct {
	q Querier
}

// NewCards creates a Cards repository.
func NewCards(q Querier) *Cards {
	return &Cards{q: q}
}

// Create inserts a card. Cards always start with zero owed.
func (r *Cards) Create(userID string, req models.CreateCardRequest) (*models.Card, error) {
	id := uuid.NewString()
	_, err := r.q.Exec(
		`INSERT INTO cards (id, user_id, name, type, payment_day, current_balance, linked_bank_account_id)
		 VALUES (?, ?, ?, ?, ?, 0, ?)`,
		id, userID, req.Name, req.Type, nullInt(req.PaymentDay), nullStr(req.LinkedBankAccountID),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create card: %w", err)
	}
	return r.Get(id)
}

// Get retrieves a card by ID.
func (r *Cards) Get(id string) (*models.Card, error) {
	return r.scanOne(r.q.QueryRow(
		`SELECT id, user_id, name, type, payment_day, current_balance, linked_bank_account_id, created_at
		 FROM cards WHERE id = ?`, id))
}

// GetForUser retrieves a card by ID, scoped to its owner.
func (r *Cards) GetForUser(id, userID string) (*models.Card, error) {
	return r.scanOne(r.q.QueryRow(
		`SELECT id, user_id, name, type, payment_day, current_balance, linked_bank_account_id, created_at
		 FROM cards WHERE id = ? AND user_id = ?`, id, userID))
}

// ListByUser returns all of a user's cards, newest first.
func (r *Cards) ListByUser(userID string) ([]models.Card, error) {
	rows, err := r.q.Query(
		`SELECT id, user_id, name, type, payment_day, current_balance, linked_bank_account_id, created_at
		 FROM cards WHERE user_id = ? ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list cards: %w", err)
	}
	defer rows.Close()

	var cards []models.Card
	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			return nil, err
		}
		cards = append(cards, *c)
	}
	return cards, rows.Err()
}

// AdjustBalance applies a signed delta to the amount owed.
func (r *Cards) AdjustBalance(id string, delta int64) error {
	res, err := r.q.Exec(
		`UPDATE cards SET current_balance = current_balance + ? WHERE id = ?`, delta, id)
	if err != nil {
		return fmt.Errorf("failed to adjust card balance: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a card row.
func (r *Cards) Delete(id string) error {
	if _, err := r.q.Exec(`DELETE FROM cards WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete card: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanCard(s rowScanner) (*models.Card, error) {
	var c models.Card
	var paymentDay sql.NullInt64
	var linked sql.NullString
	if err := s.Scan(&c.ID, &c.UserID, &c.Name, &c.Type, &paymentDay, &c.CurrentBalance, &linked, &c.CreatedAt); err != nil {
		return nil, fmt.Errorf("failed to scan card: %w", err)
	}
	c.PaymentDay = intPtr(paymentDay)
	c.LinkedBankAccountID = strPtr(linked)
	return &c, nil
}

func (r *Cards) scanOne(row *sql.Row) (*models.Card, error) {
	c, err := scanCard(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// ClearBankLinks detaches every card linked to a bank account, so the
// account row can be deleted.
func (r *Cards) ClearBankLinks(bankAccountID string) error {
	if _, err := r.q.Exec(
		`UPDATE cards SET linked_bank_account_id = NULL WHERE linked_bank_account_id = ?`,
		bankAccountID,
	); err != nil {
		return fmt.Errorf("failed to clear card bank links: %w", err)
	}
	return nil
}

// DeleteByUser removes every card of a user.
func (r *Cards) DeleteByUser(userID string) error {
	if _, err := r.q.Exec(`DELETE FROM cards WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("failed to delete cards: %w", err)
	}
	return nil
}
