package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/drasla/my-own-accountbook/internal/models"
)

// Categories manages the user-scoped label taxonomy for income/expense
// entries. Transfers never carry a category.
type Categories struct {
	q Querier
}

// NewCategories creates a Categories repository.
func NewCategories(q Querier) *Categories {
	return &Categories{q: q}
}

// ListByType returns a user's categories of one type, name ascending.
func (r *Categories) ListByType(userID string, typ models.TxType) ([]models.Category, error) {
	rows, err := r.q.Query(
		`SELECT id, user_id, name, type FROM categories
		 WHERE user_id = ? AND type = ? ORDER BY name ASC`, userID, string(typ))
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.Type); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// ListOrSeed returns a user's categories of one type, creating the default
// set first when the user has none. Seeding is idempotent: the unique
// (user, type, name) constraint makes a concurrent double-seed collapse to
// one set.
func (r *Categories) ListOrSeed(userID string, typ models.TxType, defaults []string) ([]models.Category, error) {
	categories, err := r.ListByType(userID, typ)
	if err != nil {
		return nil, err
	}
	if len(categories) > 0 || len(defaults) == 0 {
		return categories, nil
	}

	for _, name := range defaults {
		_, err := r.q.Exec(
			`INSERT INTO categories (id, user_id, name, type) VALUES (?, ?, ?, ?)
			 ON CONFLICT(user_id, type, name) DO NOTHING`,
			uuid.NewString(), userID, name, string(typ))
		if err != nil {
			return nil, fmt.Errorf("failed to seed category %q: %w", name, err)
		}
	}

	return r.ListByType(userID, typ)
}

// Get retrieves a category by ID.
func (r *Categories) Get(id string) (*models.Category, error) {
	var c models.Category
	err := r.q.QueryRow(
		`SELECT id, user_id, name, type FROM categories WHERE id = ?`, id,
	).Scan(&c.ID, &c.UserID, &c.Name, &c.Type)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return &c, nil
}

// Delete removes a category. It fails with ErrCategoryInUse while any
// transaction still references it.
func (r *Categories) Delete(id, userID string) error {
	var refs int
	if err := r.q.QueryRow(
		`SELECT COUNT(*) FROM transactions WHERE category_id = ?`, id,
	).Scan(&refs); err != nil {
		return fmt.Errorf("failed to count category references: %w", err)
	}
	if refs > 0 {
		return ErrCategoryInUse
	}

	res, err := r.q.Exec(`DELETE FROM categories WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteByUser removes every category of a user. Intended for full user
// deletion, after the user's transactions are gone.
func (r *Categories) DeleteByUser(userID string) error {
	if _, err := r.q.Exec(`DELETE FROM categories WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("failed to delete categories: %w", err)
	}
	return nil
}
