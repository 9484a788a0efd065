package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"pos-be/pkg/logger"
	"pos-be/pkg/redis"
)

// ReplayGuard rejects login payloads whose signature was already accepted
// within the freshness window. The freshness check alone leaves an
// intercepted, unexpired payload usable for a full day; recording each
// accepted signature closes that gap.
type ReplayGuard struct {
	redisClient *redis.Client
	logger      *logger.Logger
}

// NewReplayGuard creates a new replay guard. A nil redis client disables it:
// every payload is then treated as first-seen, matching a deployment without
// Redis configured.
func NewReplayGuard(redisClient *redis.Client, logger *logger.Logger) *ReplayGuard {
	return &ReplayGuard{
		redisClient: redisClient,
		logger:      logger,
	}
}

// FirstSeen records the signature and reports whether it had been seen
// before. Redis failures do not block logins; the guard fails open with a
// warning since the signature itself has already been verified.
func (g *ReplayGuard) FirstSeen(ctx context.Context, signature string) bool {
	if g.redisClient == nil {
		return true
	}

	// Key on a digest of the signature, not the signature itself
	sum := sha256.Sum256([]byte(signature))
	key := fmt.Sprintf(redis.KeyReplaySeen, hex.EncodeToString(sum[:]))

	ok, err := g.redisClient.SetNX(ctx, key, 1, redis.TTLReplaySeen)
	if err != nil {
		g.logger.WithError(err).Warn("Replay guard unavailable, allowing login")
		return true
	}

	if !ok {
		g.logger.WithField("signature_digest", hex.EncodeToString(sum[:8])).Warn("Rejected replayed login payload")
	}
	return ok
}
