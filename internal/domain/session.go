package domain

// Session is the bearer credential minted by the Supabase admin session API.
// This service passes it through to the front-end verbatim; it never
// constructs or modifies one.
type Session struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
	ExpiresAt    int64  `json:"expires_at,omitempty"`
	UserID       string `json:"user_id,omitempty"`
}

// AuthenticatedUser represents the identity carried by a validated session
// token on subsequent requests
type AuthenticatedUser struct {
	UserID string `json:"user_id"`
	Email  string `json:"email,omitempty"`
}
