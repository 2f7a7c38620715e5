package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/wastewise/internal/common"
	"github.com/Veraticus/wastewise/internal/model"
)

// CreateUser inserts a user, returning the existing row if the email is taken.
func (s *SQLiteStorage) CreateUser(ctx context.Context, email, name string) (*model.User, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validateString(name, "name"); err != nil {
		return nil, err
	}

	var user *model.User
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO users (email, name) VALUES (?, ?)
			ON CONFLICT(email) DO NOTHING
		`, email, strings.TrimSpace(name))
		if err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}

		user, err = s.getUserTx(ctx, tx, "email = ?", email)
		return err
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// GetUserByEmail retrieves a user by email address.
func (s *SQLiteStorage) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(email, "email"); err != nil {
		return nil, err
	}
	return s.getUserTx(ctx, s.db, "email = ?", strings.ToLower(strings.TrimSpace(email)))
}

// GetUserByID retrieves a user by ID.
func (s *SQLiteStorage) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateID(id, "id"); err != nil {
		return nil, err
	}
	return s.getUserTx(ctx, s.db, "id = ?", id)
}

func (s *SQLiteStorage) getUserTx(ctx context.Context, q queryable, where string, arg any) (*model.User, error) {
	var user model.User
	err := q.QueryRowContext(ctx, `
		SELECT id, email, name, created_at
		FROM users
		WHERE `+where, arg).Scan(&user.ID, &user.Email, &user.Name, &user.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user: %w", common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}
