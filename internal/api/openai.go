package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	openai "github.com/sashabaranov/go-openai"

	"github.com/lamim/horrorforge/internal/config"
	"github.com/lamim/horrorforge/pkg/models"
)

// OpenAIClient talks to any OpenAI-compatible chat completions endpoint
type OpenAIClient struct {
	client   *openai.Client
	logger   *slog.Logger
	modelCfg config.ModelConfig
}

// NewOpenAIClient creates a client for an OpenAI-compatible endpoint
func NewOpenAIClient(modelCfg config.ModelConfig, apiKey string, logger *slog.Logger) *OpenAIClient {
	clientCfg := openai.DefaultConfig(apiKey)
	clientCfg.BaseURL = modelCfg.BaseURL
	clientCfg.HTTPClient = &http.Client{Timeout: modelCfg.HTTPTimeout()}

	if modelCfg.TopK > 0 {
		logger.Debug("top_k is not supported by OpenAI-compatible endpoints, ignoring", "top_k", modelCfg.TopK)
	}

	return &OpenAIClient{
		client:   openai.NewClientWithConfig(clientCfg),
		logger:   logger,
		modelCfg: modelCfg,
	}
}

// ModelName returns the configured model identifier
func (c *OpenAIClient) ModelName() string {
	return c.modelCfg.ModelName
}

// StartChat opens a conversation seeded with history
func (c *OpenAIClient) StartChat(history []models.Turn) ChatSession {
	return &openAIChat{client: c, history: copyTurns(history)}
}

func (c *OpenAIClient) chatCompletion(ctx context.Context, messages []openai.ChatCompletionMessage) (*Completion, error) {
	req := openai.ChatCompletionRequest{
		Model:       c.modelCfg.ModelName,
		Messages:    messages,
		Temperature: float32(c.modelCfg.Temperature),
		TopP:        float32(c.modelCfg.TopP),
		MaxTokens:   c.modelCfg.MaxOutputTokens,
		N:           1,
	}
	if c.modelCfg.ResponseMIMEType == "application/json" {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	c.logger.Debug("API request", "base_url", c.modelCfg.BaseURL, "model", req.Model, "turns", len(messages))

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, toAPIError(err)
	}

	if len(resp.Choices) == 0 {
		return nil, &APIError{Message: "no choices returned in response", StatusCode: http.StatusOK}
	}

	choice := resp.Choices[0]
	if choice.FinishReason == openai.FinishReasonContentFilter && choice.Message.Content == "" {
		return nil, &APIError{
			Message:    "response blocked by content filter",
			StatusCode: http.StatusOK,
			Status:     string(choice.FinishReason),
		}
	}

	return &Completion{
		Text:         choice.Message.Content,
		FinishReason: string(choice.FinishReason),
		Usage: models.Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}, nil
}

// toAPIError maps go-openai failures onto APIError
func toAPIError(err error) error {
	var oaErr *openai.APIError
	if errors.As(err, &oaErr) {
		return &APIError{
			Message:    oaErr.Message,
			StatusCode: oaErr.HTTPStatusCode,
			Status:     oaErr.Type,
			Err:        err,
		}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return &APIError{
			Message:    fmt.Sprintf("request failed: %v", reqErr.Err),
			StatusCode: reqErr.HTTPStatusCode,
			Err:        err,
		}
	}
	return &APIError{
		Message: fmt.Sprintf("request failed: %v", err),
		Err:     err,
	}
}

type openAIChat struct {
	client  *OpenAIClient
	history []models.Turn
}

func (s *openAIChat) SendMessage(ctx context.Context, text string) (*Completion, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(s.history)+1)
	for _, turn := range s.history {
		role := openai.ChatMessageRoleUser
		if turn.Role == models.RoleModel {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{Role: role, Content: turn.Text})
	}
	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: text})

	return s.client.chatCompletion(ctx, messages)
}
