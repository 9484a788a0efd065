package service

import (
	"context"
	"time"

	"pos-be/internal/domain"
)

// TelegramVerifier defines the interface for identity assertion verification
type TelegramVerifier interface {
	// Verify checks freshness and signature of a Telegram login payload and
	// returns the verified identity. The time is injected for testability.
	Verify(ctx context.Context, user *domain.TelegramUser, now time.Time) (*domain.VerifiedIdentity, error)
}

// SessionExchanger defines the interface for exchanging a verified identity
// for an application session
type SessionExchanger interface {
	// Exchange resolves (or provisions) the linked account for the identity
	// and mints a new session for it.
	Exchange(ctx context.Context, identity *domain.VerifiedIdentity) (*domain.Session, error)
}

// SupabaseAdmin defines the subset of the Supabase admin API this service
// consumes
type SupabaseAdmin interface {
	// CreateUser provisions a new auth user and returns its id
	CreateUser(ctx context.Context, email, password string, metadata map[string]interface{}) (string, error)

	// CreateSession mints a new session for the given user id
	CreateSession(ctx context.Context, userID string, expiresIn time.Duration) (*domain.Session, error)
}

// Services aggregates the services that live in the container
type Services struct {
	Verifier TelegramVerifier
}
