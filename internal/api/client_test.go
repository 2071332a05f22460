package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/lamim/horrorforge/internal/config"
	"github.com/lamim/horrorforge/pkg/models"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testModelConfig(baseURL string) config.ModelConfig {
	return config.ModelConfig{
		Provider:           config.ProviderGemini,
		BaseURL:            baseURL,
		ModelName:          "test-model",
		Temperature:        0.75,
		TopP:               0.95,
		TopK:               64,
		MaxOutputTokens:    8192,
		ResponseMIMEType:   "text/plain",
		HTTPTimeoutSeconds: 5,
	}
}

const okBody = `{
	"candidates": [{
		"content": {"role": "model", "parts": [{"text": "Test response"}]},
		"finishReason": "STOP",
		"index": 0
	}],
	"usageMetadata": {"promptTokenCount": 10, "candidatesTokenCount": 5, "totalTokenCount": 15}
}`

func TestSendMessage_Success(t *testing.T) {
	var got GenerateContentRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/models/test-model:generateContent" {
			t.Errorf("Expected path '/models/test-model:generateContent', got '%s'", r.URL.Path)
		}
		if r.Header.Get("x-goog-api-key") != "test-key" {
			t.Errorf("Expected x-goog-api-key 'test-key', got '%s'", r.Header.Get("x-goog-api-key"))
		}
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("Expected Content-Type 'application/json', got '%s'", r.Header.Get("Content-Type"))
		}
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &got); err != nil {
			t.Errorf("Failed to decode request: %v", err)
		}

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(okBody))
	}))
	defer server.Close()

	client := NewClient(testModelConfig(server.URL), "test-key", testLogger())
	prompt := "Write me a story"
	chat := client.StartChat([]models.Turn{{Role: models.RoleUser, Text: prompt}})

	resp, err := chat.SendMessage(context.Background(), prompt)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if resp.Text != "Test response" {
		t.Errorf("Expected text 'Test response', got '%s'", resp.Text)
	}
	if resp.FinishReason != "STOP" {
		t.Errorf("Expected finish reason 'STOP', got '%s'", resp.FinishReason)
	}
	if resp.Usage.TotalTokens != 15 {
		t.Errorf("Expected 15 total tokens, got %d", resp.Usage.TotalTokens)
	}

	// history seed plus the sent message
	if len(got.Contents) != 2 {
		t.Fatalf("Expected 2 content turns, got %d", len(got.Contents))
	}
	for i, c := range got.Contents {
		if c.Role != "user" || len(c.Parts) != 1 || c.Parts[0].Text != prompt {
			t.Errorf("Turn %d: expected user turn with prompt, got %+v", i, c)
		}
	}

	gc := got.GenerationConfig
	if gc == nil {
		t.Fatal("Expected generationConfig in request")
	}
	if gc.Temperature != 0.75 || gc.TopP != 0.95 || gc.TopK != 64 || gc.MaxOutputTokens != 8192 || gc.ResponseMIMEType != "text/plain" {
		t.Errorf("Unexpected generation config: %+v", gc)
	}
}

func TestSendMessage_TextReturnedUnchanged(t *testing.T) {
	text := "  The lift stopped.\n\nEmily was not alone.  \n"
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := GenerateContentResponse{
			Candidates: []Candidate{{Content: Content{Role: "model", Parts: []Part{{Text: text}}}, FinishReason: "STOP"}},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewClient(testModelConfig(server.URL), "test-key", testLogger())
	resp, err := client.StartChat(nil).SendMessage(context.Background(), "p")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if resp.Text != text {
		t.Errorf("Expected text %q unchanged, got %q", text, resp.Text)
	}
}

func TestSendMessage_MultiplePartsConcatenated(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"first "},{"text":"second"}]},"finishReason":"STOP"}]}`))
	}))
	defer server.Close()

	client := NewClient(testModelConfig(server.URL), "test-key", testLogger())
	resp, err := client.StartChat(nil).SendMessage(context.Background(), "p")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if resp.Text != "first second" {
		t.Errorf("Expected 'first second', got '%s'", resp.Text)
	}
}

func TestSendMessage_ErrorStatus(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantStatus string
	}{
		{
			name:       "invalid key",
			status:     http.StatusBadRequest,
			body:       `{"error": {"code": 400, "message": "API key not valid", "status": "INVALID_ARGUMENT"}}`,
			wantStatus: "INVALID_ARGUMENT",
		},
		{
			name:       "quota exceeded",
			status:     http.StatusTooManyRequests,
			body:       `{"error": {"code": 429, "message": "Quota exceeded", "status": "RESOURCE_EXHAUSTED"}}`,
			wantStatus: "RESOURCE_EXHAUSTED",
		},
		{
			name:   "plain text body",
			status: http.StatusBadGateway,
			body:   `upstream down`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			attempts := 0
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				attempts++
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := NewClient(testModelConfig(server.URL), "test-key", testLogger())
			_, err := client.StartChat(nil).SendMessage(context.Background(), "p")

			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("Expected *APIError, got %T (%v)", err, err)
			}
			if apiErr.StatusCode != tt.status {
				t.Errorf("Expected status %d, got %d", tt.status, apiErr.StatusCode)
			}
			if apiErr.Status != tt.wantStatus {
				t.Errorf("Expected provider status '%s', got '%s'", tt.wantStatus, apiErr.Status)
			}
			if attempts != 1 {
				t.Errorf("Expected exactly 1 attempt (no retries), got %d", attempts)
			}
		})
	}
}

func TestSendMessage_Blocked(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"prompt blocked", `{"promptFeedback": {"blockReason": "SAFETY"}}`},
		{"no candidates", `{"candidates": []}`},
		{"empty candidate", `{"candidates": [{"content": {"role": "model"}, "finishReason": "SAFETY"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := NewClient(testModelConfig(server.URL), "test-key", testLogger())
			chat := client.StartChat(nil)
			_, err := chat.SendMessage(context.Background(), "p")

			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("Expected *APIError, got %T (%v)", err, err)
			}
		})
	}
}

func TestSendMessage_ConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	baseURL := server.URL
	server.Close()

	client := NewClient(testModelConfig(baseURL), "test-key", testLogger())
	_, err := client.StartChat(nil).SendMessage(context.Background(), "p")

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Expected *APIError, got %T (%v)", err, err)
	}
	if apiErr.StatusCode != 0 {
		t.Errorf("Expected status 0 for transport failure, got %d", apiErr.StatusCode)
	}
}

func TestSendMessage_ContextTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	client := NewClient(testModelConfig(server.URL), "test-key", testLogger())
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.StartChat(nil).SendMessage(ctx, "p")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Expected deadline exceeded, got %v", err)
	}
}

func TestEndpoint(t *testing.T) {
	cfg := testModelConfig("https://generativelanguage.googleapis.com/v1beta/")
	cfg.ModelName = "models/gemini-2.0-flash"
	client := NewClient(cfg, "k", testLogger())

	want := "https://generativelanguage.googleapis.com/v1beta/models/gemini-2.0-flash:generateContent"
	if got := client.endpoint(); got != want {
		t.Errorf("Expected endpoint '%s', got '%s'", want, got)
	}
}

func TestNewProvider(t *testing.T) {
	cfg := testModelConfig("https://example.com")

	p, err := NewProvider(cfg, "k", testLogger())
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if _, ok := p.(*Client); !ok {
		t.Errorf("Expected *Client for gemini, got %T", p)
	}

	cfg.Provider = config.ProviderOpenAI
	p, err = NewProvider(cfg, "k", testLogger())
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if _, ok := p.(*OpenAIClient); !ok {
		t.Errorf("Expected *OpenAIClient for openai, got %T", p)
	}

	cfg.Provider = "bogus"
	if _, err := NewProvider(cfg, "k", testLogger()); err == nil {
		t.Error("Expected error for unknown provider, got nil")
	}
}
