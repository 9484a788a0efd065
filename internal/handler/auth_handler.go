package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"pos-be/internal/container"
	"pos-be/internal/domain"
	"pos-be/internal/middleware"
	"pos-be/internal/repository"
	"pos-be/internal/service"
	apperrors "pos-be/pkg/errors"
)

// AuthHandler handles the Telegram login exchange and profile requests
type AuthHandler struct {
	container *container.Container
	exchanger service.SessionExchanger
	accounts  repository.AccountRepository
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(container *container.Container, exchanger service.SessionExchanger, accounts repository.AccountRepository) *AuthHandler {
	return &AuthHandler{
		container: container,
		exchanger: exchanger,
		accounts:  accounts,
	}
}

// loginRequest represents the body posted by the front-end login callback
type loginRequest struct {
	TelegramUser *domain.TelegramUser `json:"telegramUser"`
}

// Login handles POST /auth/telegram. Every verification failure maps to the
// same generic 401 body; stale vs. mismatched is logged server-side only so
// the response cannot be used as an oracle.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	logger := h.container.GetLogger()

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.TelegramUser == nil || req.TelegramUser.ID == 0 {
		h.writeError(w, http.StatusBadRequest, "No Telegram user data provided")
		return
	}

	ctx := r.Context()
	identity, err := h.container.GetVerifier().Verify(ctx, req.TelegramUser, time.Now())
	if err != nil {
		if appErr, ok := err.(*apperrors.AppError); ok && appErr.Type == apperrors.ErrorTypeConfiguration {
			h.writeError(w, http.StatusInternalServerError, appErr.Message)
			return
		}
		logger.WithError(err).WithField("telegram_id", req.TelegramUser.ID).Warn("Telegram login verification failed")
		h.writeError(w, http.StatusUnauthorized, "Authentication failed")
		return
	}

	if !h.container.GetReplayGuard().FirstSeen(ctx, req.TelegramUser.Hash) {
		h.writeError(w, http.StatusUnauthorized, "Authentication failed")
		return
	}

	session, err := h.exchanger.Exchange(ctx, identity)
	if err != nil {
		logger.WithError(err).WithField("telegram_id", identity.TelegramID).Error("Session exchange failed")
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"session": session,
	})
}

// profileResponse represents the profile payload for an authenticated session
type profileResponse struct {
	UserID  string                `json:"user_id"`
	Email   string                `json:"email,omitempty"`
	Account *domain.LinkedAccount `json:"account,omitempty"`
}

// GetProfile handles GET /api/user/profile
func (h *AuthHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	logger := h.container.GetLogger()

	user, ok := r.Context().Value(middleware.UserContextKey).(*domain.AuthenticatedUser)
	if !ok {
		logger.Error("User not found in context")
		h.writeError(w, http.StatusUnauthorized, "Authentication failed")
		return
	}

	account, err := h.accounts.GetByUserID(r.Context(), user.UserID)
	if err != nil {
		logger.WithError(err).WithField("user_id", user.UserID).Error("Failed to load linked account")
		h.writeError(w, http.StatusInternalServerError, "Failed to load profile")
		return
	}

	h.writeJSON(w, http.StatusOK, profileResponse{
		UserID:  user.UserID,
		Email:   user.Email,
		Account: account,
	})
}

// writeJSON writes a JSON response
func (h *AuthHandler) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.container.GetLogger().WithError(err).Error("Failed to encode response")
	}
}

// writeError writes the flat error body the front-end contract expects
func (h *AuthHandler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
