package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/lamim/horrorforge/internal/config"
	"github.com/lamim/horrorforge/pkg/models"
)

// Client handles requests to the Gemini generateContent endpoint
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger
	modelCfg   config.ModelConfig
	apiKey     string
}

// NewClient creates a new Gemini API client
func NewClient(modelCfg config.ModelConfig, apiKey string, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: modelCfg.HTTPTimeout(),
		},
		logger:   logger,
		modelCfg: modelCfg,
		apiKey:   apiKey,
	}
}

// NewProvider returns the provider selected by model.provider
func NewProvider(modelCfg config.ModelConfig, apiKey string, logger *slog.Logger) (Provider, error) {
	switch modelCfg.Provider {
	case config.ProviderGemini, "":
		return NewClient(modelCfg, apiKey, logger), nil
	case config.ProviderOpenAI:
		return NewOpenAIClient(modelCfg, apiKey, logger), nil
	default:
		return nil, fmt.Errorf("unknown provider %q", modelCfg.Provider)
	}
}

// ModelName returns the configured model identifier
func (c *Client) ModelName() string {
	return c.modelCfg.ModelName
}

// StartChat opens a Gemini conversation seeded with history
func (c *Client) StartChat(history []models.Turn) ChatSession {
	return &geminiChat{client: c, history: copyTurns(history)}
}

// GenerateContent sends one generateContent request. No retries are attempted.
func (c *Client) GenerateContent(ctx context.Context, contents []Content) (*GenerateContentResponse, error) {
	req := GenerateContentRequest{
		Contents: contents,
		GenerationConfig: &GenerationConfig{
			Temperature:      c.modelCfg.Temperature,
			TopP:             c.modelCfg.TopP,
			TopK:             c.modelCfg.TopK,
			MaxOutputTokens:  c.modelCfg.MaxOutputTokens,
			ResponseMIMEType: c.modelCfg.ResponseMIMEType,
		},
	}
	return c.doRequest(ctx, req)
}

func (c *Client) endpoint() string {
	base := strings.TrimRight(c.modelCfg.BaseURL, "/")
	model := strings.TrimPrefix(c.modelCfg.ModelName, "models/")
	return base + "/models/" + url.PathEscape(model) + ":generateContent"
}

func (c *Client) doRequest(ctx context.Context, req GenerateContentRequest) (*GenerateContentResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	endpoint := c.endpoint()
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("x-goog-api-key", c.apiKey)
		c.logger.Debug("API request", "endpoint", endpoint, "has_key", true, "key_length", len(c.apiKey), "turns", len(req.Contents))
	} else {
		c.logger.Warn("API request without key", "endpoint", endpoint)
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &APIError{
			Message: fmt.Sprintf("request failed: %v", err),
			Err:     err,
		}
	}
	defer func() {
		if err := httpResp.Body.Close(); err != nil {
			c.logger.Warn("Failed to close response body", "error", err)
		}
	}()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, &APIError{
			Message:    fmt.Sprintf("failed to read response: %v", err),
			StatusCode: httpResp.StatusCode,
			Err:        err,
		}
	}

	if httpResp.StatusCode != http.StatusOK {
		var errResp ErrorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Error.Message != "" {
			return nil, &APIError{
				Message:    errResp.Error.Message,
				StatusCode: httpResp.StatusCode,
				Status:     errResp.Error.Status,
			}
		}

		return nil, &APIError{
			Message:    fmt.Sprintf("API request failed with status %d: %s", httpResp.StatusCode, string(respBody)),
			StatusCode: httpResp.StatusCode,
		}
	}

	var resp GenerateContentResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, &APIError{
			Message:    fmt.Sprintf("failed to parse response: %v", err),
			StatusCode: httpResp.StatusCode,
			Err:        err,
		}
	}

	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return nil, &APIError{
			Message:    fmt.Sprintf("prompt blocked by the service: %s", resp.PromptFeedback.BlockReason),
			StatusCode: httpResp.StatusCode,
			Status:     resp.PromptFeedback.BlockReason,
		}
	}

	if len(resp.Candidates) == 0 {
		return nil, &APIError{
			Message:    "no candidates returned in response",
			StatusCode: httpResp.StatusCode,
		}
	}

	first := resp.Candidates[0]
	if len(first.Content.Parts) == 0 {
		return nil, &APIError{
			Message:    fmt.Sprintf("candidate has no content (finish reason %s)", first.FinishReason),
			StatusCode: httpResp.StatusCode,
			Status:     first.FinishReason,
		}
	}

	return &resp, nil
}

// geminiChat is a single exchange on top of a fixed history
type geminiChat struct {
	client  *Client
	history []models.Turn
}

func (s *geminiChat) SendMessage(ctx context.Context, text string) (*Completion, error) {
	contents := make([]Content, 0, len(s.history)+1)
	for _, turn := range s.history {
		contents = append(contents, Content{Role: string(turn.Role), Parts: []Part{{Text: turn.Text}}})
	}
	contents = append(contents, Content{Role: string(models.RoleUser), Parts: []Part{{Text: text}}})

	resp, err := s.client.GenerateContent(ctx, contents)
	if err != nil {
		return nil, err
	}

	first := resp.Candidates[0]
	return &Completion{
		Text:         first.Text(),
		FinishReason: first.FinishReason,
		Usage: models.Usage{
			PromptTokens:     resp.UsageMetadata.PromptTokenCount,
			CompletionTokens: resp.UsageMetadata.CandidatesTokenCount,
			TotalTokens:      resp.UsageMetadata.TotalTokenCount,
		},
	}, nil
}
