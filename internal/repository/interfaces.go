package repository

import (
	"context"

	"pos-be/internal/domain"
)

// AccountRepository defines the interface for linked account operations
type AccountRepository interface {
	// GetByTelegramID retrieves the linked account for a Telegram user id,
	// returning nil without error when no link exists
	GetByTelegramID(ctx context.Context, telegramID int64) (*domain.LinkedAccount, error)

	// GetByUserID retrieves the linked account for an application user id,
	// returning nil without error when no link exists
	GetByUserID(ctx context.Context, userID string) (*domain.LinkedAccount, error)

	// Create inserts a new linked account. The telegram_id column carries a
	// unique constraint; on conflict nothing is inserted and false is
	// returned so the caller can fetch the winning row.
	Create(ctx context.Context, account *domain.LinkedAccount) (bool, error)
}
