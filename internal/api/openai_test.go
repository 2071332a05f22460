package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lamim/horrorforge/internal/config"
	"github.com/lamim/horrorforge/pkg/models"
)

func TestOpenAISendMessage_Success(t *testing.T) {
	var got struct {
		Model       string  `json:"model"`
		Temperature float64 `json:"temperature"`
		MaxTokens   int     `json:"max_tokens"`
		Messages    []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("Expected path '/chat/completions', got '%s'", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("Expected Authorization header 'Bearer test-key', got '%s'", r.Header.Get("Authorization"))
		}
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &got); err != nil {
			t.Errorf("Failed to decode request: %v", err)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "test-123",
			"object": "chat.completion",
			"created": 1234567890,
			"model": "test-model",
			"choices": [{
				"index": 0,
				"message": {"role": "assistant", "content": "Test response"},
				"finish_reason": "stop"
			}],
			"usage": {"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15}
		}`))
	}))
	defer server.Close()

	cfg := testModelConfig(server.URL)
	cfg.Provider = config.ProviderOpenAI
	client := NewOpenAIClient(cfg, "test-key", testLogger())

	chat := client.StartChat([]models.Turn{{Role: models.RoleUser, Text: "prompt"}})
	resp, err := chat.SendMessage(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if resp.Text != "Test response" {
		t.Errorf("Expected content 'Test response', got '%s'", resp.Text)
	}
	if resp.Usage.TotalTokens != 15 {
		t.Errorf("Expected 15 total tokens, got %d", resp.Usage.TotalTokens)
	}
	if got.Model != "test-model" {
		t.Errorf("Expected model 'test-model', got '%s'", got.Model)
	}
	if got.MaxTokens != 8192 {
		t.Errorf("Expected max_tokens 8192, got %d", got.MaxTokens)
	}
	if len(got.Messages) != 2 {
		t.Fatalf("Expected 2 messages, got %d", len(got.Messages))
	}
	for i, m := range got.Messages {
		if m.Role != "user" || m.Content != "prompt" {
			t.Errorf("Message %d: expected user/prompt, got %s/%s", i, m.Role, m.Content)
		}
	}
}

func TestOpenAISendMessage_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error": {"message": "Incorrect API key provided", "type": "invalid_request_error", "code": "invalid_api_key"}}`))
	}))
	defer server.Close()

	cfg := testModelConfig(server.URL)
	cfg.Provider = config.ProviderOpenAI
	client := NewOpenAIClient(cfg, "bad-key", testLogger())

	_, err := client.StartChat(nil).SendMessage(context.Background(), "prompt")

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Expected *APIError, got %T (%v)", err, err)
	}
	if apiErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", apiErr.StatusCode)
	}
	if apiErr.Message != "Incorrect API key provided" {
		t.Errorf("Expected provider message, got '%s'", apiErr.Message)
	}
}

func TestOpenAISendMessage_NoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": "x", "object": "chat.completion", "choices": []}`))
	}))
	defer server.Close()

	cfg := testModelConfig(server.URL)
	cfg.Provider = config.ProviderOpenAI
	client := NewOpenAIClient(cfg, "test-key", testLogger())

	_, err := client.StartChat(nil).SendMessage(context.Background(), "prompt")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Expected *APIError, got %T (%v)", err, err)
	}
}
