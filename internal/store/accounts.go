package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/forgeaistudio/frontera/internal/model"
)

// CreateAccount creates a new authentication identity.
func CreateAccount(ctx context.Context, db *sql.DB, email, passwordHash string) (*model.Account, error) {
	id := uuid.NewString()
	_, err := db.ExecContext(ctx,
		`INSERT INTO accounts (id, email, password_hash) VALUES (?, ?, ?)`,
		id, email, passwordHash,
	)
	if isUniqueViolation(err) {
		return nil, ErrUniqueViolation
	}
	if err != nil {
		return nil, fmt.Errorf("creating account: %w", err)
	}

	return GetAccount(ctx, db, id)
}

// GetAccount returns an account by ID.
func GetAccount(ctx context.Context, db *sql.DB, id string) (*model.Account, error) {
	a := &model.Account{}
	err := db.QueryRowContext(ctx,
		`SELECT id, email, password_hash, created_at FROM accounts WHERE id = ?`, id,
	).Scan(&a.ID, &a.Email, &a.PasswordHash, &a.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting account: %w", err)
	}
	return a, nil
}

// GetAccountByEmail returns an account by email.
func GetAccountByEmail(ctx context.Context, db *sql.DB, email string) (*model.Account, error) {
	a := &model.Account{}
	err := db.QueryRowContext(ctx,
		`SELECT id, email, password_hash, created_at FROM accounts WHERE email = ?`, email,
	).Scan(&a.ID, &a.Email, &a.PasswordHash, &a.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting account by email: %w", err)
	}
	return a, nil
}

// UpdateAccountPassword updates an account's password hash.
func UpdateAccountPassword(ctx context.Context, db *sql.DB, id, passwordHash string) error {
	result, err := db.ExecContext(ctx,
		`UPDATE accounts SET password_hash = ? WHERE id = ?`,
		passwordHash, id,
	)
	if err != nil {
		return fmt.Errorf("updating account password: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteAccount removes an authentication identity. Used by sign-up
// compensation and destructive account cleanup only.
func DeleteAccount(ctx context.Context, db *sql.DB, id string) error {
	result, err := db.ExecContext(ctx, `DELETE FROM accounts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting account: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
