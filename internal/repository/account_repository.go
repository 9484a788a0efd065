package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"pos-be/internal/domain"
	"pos-be/pkg/database"
)

// accountRepository handles linked account operations with PostgreSQL
type accountRepository struct {
	db *database.PostgresDB
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db *database.PostgresDB) AccountRepository {
	return &accountRepository{
		db: db,
	}
}

// GetByTelegramID retrieves the linked account for a Telegram user id
func (r *accountRepository) GetByTelegramID(ctx context.Context, telegramID int64) (*domain.LinkedAccount, error) {
	query := `
		SELECT id, user_id, telegram_id, first_name, last_name, username, photo_url, created_at
		FROM linked_accounts
		WHERE telegram_id = $1
	`

	account := &domain.LinkedAccount{}
	err := r.db.Pool.QueryRow(ctx, query, telegramID).Scan(
		&account.ID,
		&account.UserID,
		&account.TelegramID,
		&account.FirstName,
		&account.LastName,
		&account.Username,
		&account.PhotoURL,
		&account.CreatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			// No link exists yet
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get linked account: %w", err)
	}

	return account, nil
}

// GetByUserID retrieves the linked account for an application user id
func (r *accountRepository) GetByUserID(ctx context.Context, userID string) (*domain.LinkedAccount, error) {
	query := `
		SELECT id, user_id, telegram_id, first_name, last_name, username, photo_url, created_at
		FROM linked_accounts
		WHERE user_id = $1
	`

	account := &domain.LinkedAccount{}
	err := r.db.Pool.QueryRow(ctx, query, userID).Scan(
		&account.ID,
		&account.UserID,
		&account.TelegramID,
		&account.FirstName,
		&account.LastName,
		&account.Username,
		&account.PhotoURL,
		&account.CreatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get linked account by user id: %w", err)
	}

	return account, nil
}

// Create inserts a new linked account. Insert conflict on telegram_id is not
// an error: it means a concurrent login won the race, and the caller should
// re-read the winning row.
func (r *accountRepository) Create(ctx context.Context, account *domain.LinkedAccount) (bool, error) {
	query := `
		INSERT INTO linked_accounts (user_id, telegram_id, first_name, last_name, username, photo_url)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (telegram_id) DO NOTHING
		RETURNING id, created_at
	`

	err := r.db.Pool.QueryRow(ctx, query,
		account.UserID,
		account.TelegramID,
		account.FirstName,
		account.LastName,
		account.Username,
		account.PhotoURL,
	).Scan(&account.ID, &account.CreatedAt)

	if err != nil {
		if err == pgx.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("failed to create linked account: %w", err)
	}

	return true, nil
}
