package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"pos-be/internal/domain"
	"pos-be/pkg/logger"
)

// createUserResponse represents the response from the admin users endpoint
type createUserResponse struct {
	ID string `json:"id"`
}

// Client calls the Supabase auth admin API with the service-role key.
// It is a pass-through consumer: sessions are minted by Supabase, never
// constructed here.
type Client struct {
	baseURL        string
	serviceRoleKey string
	httpClient     *http.Client
	logger         *logger.Logger
}

// NewClient creates a new Supabase admin client
func NewClient(baseURL, serviceRoleKey string, logger *logger.Logger) *Client {
	return &Client{
		baseURL:        baseURL,
		serviceRoleKey: serviceRoleKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// CreateUser provisions a new auth user and returns its id
func (c *Client) CreateUser(ctx context.Context, email, password string, metadata map[string]interface{}) (string, error) {
	body := map[string]interface{}{
		"email":         email,
		"password":      password,
		"email_confirm": true,
	}
	if metadata != nil {
		body["user_metadata"] = metadata
	}

	respBody, err := c.post(ctx, "/auth/v1/admin/users", body)
	if err != nil {
		return "", err
	}

	var created createUserResponse
	if err := json.Unmarshal(respBody, &created); err != nil {
		c.logger.WithFields(map[string]interface{}{
			"response_body": string(respBody),
		}).Error("Failed to parse Supabase create-user response")
		return "", fmt.Errorf("failed to parse Supabase create-user response: %w", err)
	}

	if created.ID == "" {
		return "", fmt.Errorf("Supabase create-user response contained no user id")
	}

	c.logger.WithField("user_id", created.ID).Debug("Provisioned Supabase user")
	return created.ID, nil
}

// CreateSession mints a new session for the given user id
func (c *Client) CreateSession(ctx context.Context, userID string, expiresIn time.Duration) (*domain.Session, error) {
	body := map[string]interface{}{
		"user_id":    userID,
		"expires_in": int64(expiresIn.Seconds()),
	}

	respBody, err := c.post(ctx, "/auth/v1/admin/sessions", body)
	if err != nil {
		return nil, err
	}

	var session domain.Session
	if err := json.Unmarshal(respBody, &session); err != nil {
		c.logger.WithFields(map[string]interface{}{
			"response_body": string(respBody),
		}).Error("Failed to parse Supabase session response")
		return nil, fmt.Errorf("failed to parse Supabase session response: %w", err)
	}

	if session.AccessToken == "" {
		return nil, fmt.Errorf("Supabase session response contained no access token")
	}
	if session.UserID == "" {
		session.UserID = userID
	}

	c.logger.WithField("user_id", userID).Debug("Minted Supabase session")
	return &session, nil
}

// post sends an authenticated request to the admin API and returns the
// response body for 2xx statuses
func (c *Client) post(ctx context.Context, path string, requestBody map[string]interface{}) ([]byte, error) {
	jsonBody, err := json.Marshal(requestBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	url := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.serviceRoleKey))
	req.Header.Set("apikey", c.serviceRoleKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call Supabase admin API: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("Supabase admin API returned status %d: %s", resp.StatusCode, string(body))
	}

	return body, nil
}
