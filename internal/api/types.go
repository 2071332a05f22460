package api

import (
	"context"
	"fmt"
	"strings"

	"github.com/lamim/horrorforge/pkg/models"
)

// Provider starts chat sessions against a remote text-generation model
type Provider interface {
	// StartChat opens a conversation seeded with the given history.
	// No network call is made until SendMessage.
	StartChat(history []models.Turn) ChatSession
	// ModelName returns the model identifier requests are sent to
	ModelName() string
}

// ChatSession is one conversation with the remote model
type ChatSession interface {
	// SendMessage sends the seeded history plus one user turn and blocks
	// until the model replies
	SendMessage(ctx context.Context, text string) (*Completion, error)
}

// Completion is the model's reply to a single message
type Completion struct {
	Text         string
	FinishReason string
	Usage        models.Usage
}

// GenerateContentRequest represents a Gemini generateContent request
type GenerateContentRequest struct {
	Contents         []Content         `json:"contents"`
	GenerationConfig *GenerationConfig `json:"generationConfig,omitempty"`
}

// Content is one turn in a Gemini conversation
type Content struct {
	Role  string `json:"role,omitempty"` // "user" or "model"
	Parts []Part `json:"parts"`
}

// Part is a piece of a content turn; only text parts are used
type Part struct {
	Text string `json:"text"`
}

// GenerationConfig carries the sampling parameters
type GenerationConfig struct {
	Temperature      float64 `json:"temperature,omitempty"`
	TopP             float64 `json:"topP,omitempty"`
	TopK             int     `json:"topK,omitempty"`
	MaxOutputTokens  int     `json:"maxOutputTokens,omitempty"`
	ResponseMIMEType string  `json:"responseMimeType,omitempty"`
}

// GenerateContentResponse represents a Gemini generateContent response
type GenerateContentResponse struct {
	Candidates     []Candidate     `json:"candidates"`
	PromptFeedback *PromptFeedback `json:"promptFeedback,omitempty"`
	UsageMetadata  UsageMetadata   `json:"usageMetadata"`
	ModelVersion   string          `json:"modelVersion,omitempty"`
}

// Candidate is a single generated reply
type Candidate struct {
	Content      Content `json:"content"`
	FinishReason string  `json:"finishReason,omitempty"`
	Index        int     `json:"index"`
}

// Text concatenates the candidate's text parts without altering them
func (c Candidate) Text() string {
	if len(c.Content.Parts) == 1 {
		return c.Content.Parts[0].Text
	}
	var sb strings.Builder
	for _, p := range c.Content.Parts {
		sb.WriteString(p.Text)
	}
	return sb.String()
}

// PromptFeedback is set when the prompt itself was blocked
type PromptFeedback struct {
	BlockReason string `json:"blockReason,omitempty"`
}

// UsageMetadata represents token usage information
type UsageMetadata struct {
	PromptTokenCount     int `json:"promptTokenCount"`
	CandidatesTokenCount int `json:"candidatesTokenCount"`
	TotalTokenCount      int `json:"totalTokenCount"`
}

// ErrorResponse represents a Gemini API error body
type ErrorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// APIError represents an error returned by, or on the way to, the remote service
type APIError struct {
	Message    string
	StatusCode int    // 0 when no HTTP response was received
	Status     string // provider status, e.g. RESOURCE_EXHAUSTED or invalid_api_key
	Err        error
}

func (e *APIError) Error() string {
	if e.StatusCode > 0 {
		if e.Status != "" {
			return fmt.Sprintf("API error (status %d %s): %s", e.StatusCode, e.Status, e.Message)
		}
		return fmt.Sprintf("API error (status %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("API error: %s", e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

func copyTurns(turns []models.Turn) []models.Turn {
	out := make([]models.Turn, len(turns))
	copy(out, turns)
	return out
}
