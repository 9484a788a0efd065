package telegram

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"sort"
	"strconv"
	"strings"
	"time"

	"pos-be/internal/domain"
	"pos-be/internal/service"
	apperrors "pos-be/pkg/errors"
	"pos-be/pkg/logger"
)

// MaxAuthAge is the freshness window for login payloads, in seconds.
// An assertion exactly at the boundary is still accepted.
const MaxAuthAge int64 = 86400

var (
	// ErrStaleAssertion indicates the payload's auth_date is outside the
	// freshness window
	ErrStaleAssertion = errors.New("authentication data is too old")

	// ErrSignatureMismatch indicates the recomputed digest does not match
	// the supplied hash
	ErrSignatureMismatch = errors.New("data verification failed")
)

// Verifier validates Telegram login widget payloads
type Verifier struct {
	botToken string
	logger   *logger.Logger
}

// NewVerifier creates a new Telegram login verifier
func NewVerifier(botToken string, logger *logger.Logger) service.TelegramVerifier {
	return &Verifier{
		botToken: botToken,
		logger:   logger,
	}
}

// Verify checks freshness and signature of a Telegram login payload.
// The signature scheme is fixed by Telegram: the signing key is
// SHA-256(bot token) and the signed message is the data-check string.
func (v *Verifier) Verify(ctx context.Context, user *domain.TelegramUser, now time.Time) (*domain.VerifiedIdentity, error) {
	// The secret must be present before any digest work is attempted
	if v.botToken == "" {
		v.logger.Error("Telegram bot token is not configured")
		return nil, apperrors.NewConfigurationError("Telegram bot token is not configured")
	}

	if now.Unix()-user.AuthDate > MaxAuthAge {
		v.logger.WithFields(map[string]interface{}{
			"telegram_id": user.ID,
			"auth_date":   user.AuthDate,
			"age_seconds": now.Unix() - user.AuthDate,
		}).Warn("Rejected stale Telegram login payload")
		return nil, ErrStaleAssertion
	}

	expected := v.computeHash(user)

	// Constant-time comparison; the supplied hash is attacker-controlled
	if !hmac.Equal([]byte(expected), []byte(user.Hash)) {
		v.logger.WithField("telegram_id", user.ID).Warn("Telegram login payload failed signature check")
		return nil, ErrSignatureMismatch
	}

	v.logger.WithField("telegram_id", user.ID).Debug("Telegram login payload verified")

	return &domain.VerifiedIdentity{
		TelegramID: user.ID,
		FirstName:  user.FirstName,
		LastName:   user.LastName,
		Username:   user.Username,
		PhotoURL:   user.PhotoURL,
	}, nil
}

// computeHash recomputes the expected signature as lowercase hex
func (v *Verifier) computeHash(user *domain.TelegramUser) string {
	key := sha256.Sum256([]byte(v.botToken))
	mac := hmac.New(sha256.New, key[:])
	mac.Write([]byte(dataCheckString(user)))
	return hex.EncodeToString(mac.Sum(nil))
}

// dataCheckString builds the canonical signed message: every field except
// hash, rendered as key=value lines sorted by key. Optional fields absent
// from the payload are omitted, matching what the widget signs.
func dataCheckString(user *domain.TelegramUser) string {
	fields := map[string]string{
		"id":         strconv.FormatInt(user.ID, 10),
		"first_name": user.FirstName,
		"auth_date":  strconv.FormatInt(user.AuthDate, 10),
	}
	if user.LastName != "" {
		fields["last_name"] = user.LastName
	}
	if user.Username != "" {
		fields["username"] = user.Username
	}
	if user.PhotoURL != "" {
		fields["photo_url"] = user.PhotoURL
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+fields[k])
	}
	return strings.Join(pairs, "\n")
}
