package main

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"strings"
	"time"
)

// Manual smoke test for the login exchange: signs a sample widget payload
// with the real bot token and posts it to a running server.
func main() {
	token := os.Getenv("TELEGRAM_BOT_TOKEN")
	if token == "" {
		fmt.Println("Please set TELEGRAM_BOT_TOKEN environment variable with the bot token the server uses")
		return
	}

	baseURL := os.Getenv("BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	authDate := time.Now().Unix()
	fields := map[string]string{
		"id":         "123456789",
		"first_name": "Test",
		"last_name":  "User",
		"username":   "testuser",
		"auth_date":  fmt.Sprintf("%d", authDate),
	}

	payload := map[string]interface{}{
		"telegramUser": map[string]interface{}{
			"id":         123456789,
			"first_name": fields["first_name"],
			"last_name":  fields["last_name"],
			"username":   fields["username"],
			"auth_date":  authDate,
			"hash":       signFields(token, fields),
		},
	}

	jsonData, _ := json.Marshal(payload)

	req, err := http.NewRequest("POST", baseURL+"/auth/telegram", bytes.NewBuffer(jsonData))
	if err != nil {
		fmt.Printf("Failed to create request: %v\n", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		fmt.Printf("Request failed: %v\n", err)
		return
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	fmt.Printf("Status: %d\n", resp.StatusCode)
	fmt.Printf("Body: %s\n", string(body))
}

// signFields reproduces the widget's signature over the data-check string
func signFields(botToken string, fields map[string]string) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+fields[k])
	}

	key := sha256.Sum256([]byte(botToken))
	mac := hmac.New(sha256.New, key[:])
	mac.Write([]byte(strings.Join(pairs, "\n")))
	return hex.EncodeToString(mac.Sum(nil))
}
