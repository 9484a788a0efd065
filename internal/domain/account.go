package domain

import "time"

// LinkedAccount maps a Telegram identity to a Supabase auth user.
// Created exactly once per telegram_id on first successful login; profile
// fields are a snapshot from that first login and are not re-synced.
type LinkedAccount struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	TelegramID int64     `json:"telegram_id"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name,omitempty"`
	Username   string    `json:"username,omitempty"`
	PhotoURL   string    `json:"photo_url,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
