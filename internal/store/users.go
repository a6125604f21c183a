package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/drasla/my-own-accountbook/internal/models"
)

// Users manages the stand-in identity table.
type Users struct {
	q Querier
}

// NewUsers creates a Users repository.
func NewUsers(q Querier) *Users {
	return &Users{q: q}
}

// Create inserts a user and returns it.
func (r *Users) Create(name, email string) (*models.User, error) {
	user := &models.User{
		ID:    uuid.NewString(),
		Name:  name,
		Email: email,
	}

	_, err := r.q.Exec(
		`INSERT INTO users (id, name, email) VALUES (?, ?, ?)`,
		user.ID, user.Name, user.Email,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return r.Get(user.ID)
}

// Get retrieves a user by ID.
func (r *Users) Get(id string) (*models.User, error) {
	var user models.User
	err := r.q.QueryRow(
		`SELECT id, name, email, created_at FROM users WHERE id = ?`, id,
	).Scan(&user.ID, &user.Name, &user.Email, &user.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

// Delete removes a user row. Dependent rows are removed explicitly by the
// ledger engine before this is called.
func (r *Users) Delete(id string) error {
	if _, err := r.q.Exec(`DELETE FROM users WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}
