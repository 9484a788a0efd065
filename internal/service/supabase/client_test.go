package supabase

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pos-be/pkg/logger"
)

func TestCreateUser(t *testing.T) {
	var gotPath, gotAuth, gotAPIKey string
	var gotBody map[string]interface{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotAPIKey = r.Header.Get("apikey")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"id":"4f1d2f0a-0000-0000-0000-000000000000","email":"telegram-42@telegram.local"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "service-role-key", logger.NewNop())

	userID, err := client.CreateUser(context.Background(), "telegram-42@telegram.local", "placeholder", map[string]interface{}{
		"telegram_id": int64(42),
	})

	require.NoError(t, err)
	assert.Equal(t, "4f1d2f0a-0000-0000-0000-000000000000", userID)
	assert.Equal(t, "/auth/v1/admin/users", gotPath)
	assert.Equal(t, "Bearer service-role-key", gotAuth)
	assert.Equal(t, "service-role-key", gotAPIKey)
	assert.Equal(t, "telegram-42@telegram.local", gotBody["email"])
	assert.Equal(t, true, gotBody["email_confirm"])
}

func TestCreateSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/admin/sessions", r.URL.Path)

		var body map[string]interface{}
		_ = json.NewDecoder(r.Body).Decode(&body)
		assert.Equal(t, "user-1", body["user_id"])
		assert.Equal(t, float64(604800), body["expires_in"])

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"access_token":"at","refresh_token":"rt","token_type":"bearer","expires_in":604800}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "service-role-key", logger.NewNop())

	session, err := client.CreateSession(context.Background(), "user-1", 7*24*time.Hour)

	require.NoError(t, err)
	assert.Equal(t, "at", session.AccessToken)
	assert.Equal(t, "rt", session.RefreshToken)
	assert.Equal(t, int64(604800), session.ExpiresIn)
	// The client fills in the user id when the backend omits it
	assert.Equal(t, "user-1", session.UserID)
}

func TestAdminAPIErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"msg":"email already registered"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "service-role-key", logger.NewNop())

	_, err := client.CreateUser(context.Background(), "telegram-42@telegram.local", "placeholder", nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 422")
	assert.Contains(t, err.Error(), "email already registered")
}

func TestCreateSessionMissingToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "service-role-key", logger.NewNop())

	_, err := client.CreateSession(context.Background(), "user-1", time.Hour)
	require.Error(t, err)
}
