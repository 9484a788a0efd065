package auth

import (
	"context"
	"fmt"
	"time"

	"pos-be/internal/domain"
	"pos-be/internal/repository"
	"pos-be/internal/service"
	"pos-be/pkg/logger"
	"pos-be/pkg/utils"
)

// SessionTTL is the fixed validity period of minted sessions
const SessionTTL = 7 * 24 * time.Hour

// placeholderSecretBytes sizes the random credential on provisioned users.
// The credential is never handed out; accounts are only reachable through
// this exchange flow.
const placeholderSecretBytes = 32

// Service implements the SessionExchanger interface
type Service struct {
	accounts repository.AccountRepository
	admin    service.SupabaseAdmin
	logger   *logger.Logger
}

// NewService creates a new session exchange service
func NewService(accounts repository.AccountRepository, admin service.SupabaseAdmin, logger *logger.Logger) service.SessionExchanger {
	return &Service{
		accounts: accounts,
		admin:    admin,
		logger:   logger,
	}
}

// Exchange resolves (or provisions) the linked account for a verified
// Telegram identity and mints a new session for it. The three backend calls
// run strictly in sequence: each step's input depends on the prior output.
func (s *Service) Exchange(ctx context.Context, identity *domain.VerifiedIdentity) (*domain.Session, error) {
	account, err := s.accounts.GetByTelegramID(ctx, identity.TelegramID)
	if err != nil {
		return nil, fmt.Errorf("account lookup failed: %w", err)
	}

	if account == nil {
		account, err = s.provision(ctx, identity)
		if err != nil {
			return nil, err
		}
	}

	session, err := s.admin.CreateSession(ctx, account.UserID, SessionTTL)
	if err != nil {
		return nil, fmt.Errorf("session issuance failed: %w", err)
	}

	s.logger.WithFields(map[string]interface{}{
		"telegram_id": identity.TelegramID,
		"user_id":     account.UserID,
	}).Info("Exchanged Telegram identity for session")

	return session, nil
}

// provision creates the auth user and its linked account row. The two writes
// are not transactional; the unique constraint on telegram_id makes the row
// insert conflict-safe, and a conflict means a concurrent login won, so the
// winner's row is used. The loser's freshly provisioned auth user is left
// behind and logged.
func (s *Service) provision(ctx context.Context, identity *domain.VerifiedIdentity) (*domain.LinkedAccount, error) {
	password, err := utils.RandomSecret(placeholderSecretBytes)
	if err != nil {
		return nil, fmt.Errorf("provisioning failed: %w", err)
	}

	userID, err := s.admin.CreateUser(ctx, syntheticEmail(identity.TelegramID), password, map[string]interface{}{
		"telegram_id": identity.TelegramID,
		"first_name":  identity.FirstName,
		"last_name":   identity.LastName,
		"username":    identity.Username,
		"photo_url":   identity.PhotoURL,
	})
	if err != nil {
		return nil, fmt.Errorf("user provisioning failed: %w", err)
	}

	account := &domain.LinkedAccount{
		UserID:     userID,
		TelegramID: identity.TelegramID,
		FirstName:  identity.FirstName,
		LastName:   identity.LastName,
		Username:   identity.Username,
		PhotoURL:   identity.PhotoURL,
	}

	created, err := s.accounts.Create(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("account linking failed: %w", err)
	}

	if !created {
		s.logger.WithFields(map[string]interface{}{
			"telegram_id":      identity.TelegramID,
			"orphaned_user_id": userID,
		}).Warn("Concurrent provisioning detected, reusing existing linked account")

		winner, err := s.accounts.GetByTelegramID(ctx, identity.TelegramID)
		if err != nil {
			return nil, fmt.Errorf("account lookup after conflict failed: %w", err)
		}
		if winner == nil {
			return nil, fmt.Errorf("linked account vanished after insert conflict for telegram id %d", identity.TelegramID)
		}
		return winner, nil
	}

	s.logger.WithFields(map[string]interface{}{
		"telegram_id": identity.TelegramID,
		"user_id":     userID,
	}).Info("Provisioned new linked account")

	return account, nil
}

// syntheticEmail fabricates a stable email for a Telegram identity. Supabase
// requires every auth user to carry an email; Telegram does not supply one.
// This is a workaround for that constraint, not a business rule, and the
// address is never used for delivery.
func syntheticEmail(telegramID int64) string {
	return fmt.Sprintf("telegram-%d@telegram.local", telegramID)
}
