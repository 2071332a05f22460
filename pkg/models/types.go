package models

import "time"

// Role identifies the author of a conversation turn
type Role string

const (
	// RoleUser marks a turn written by the person asking for the story
	RoleUser Role = "user"
	// RoleModel marks a turn produced by the remote model
	RoleModel Role = "model"
)

// Turn is a single entry in a conversation history
type Turn struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

// StoryRequest holds the three inputs collected from the user for one submission
type StoryRequest struct {
	CharacterName string `json:"character_name"`
	Situation     string `json:"situation"`
	LineCount     int    `json:"lines"`
}

// StoryResponse is the result of a successful generation.
// Text is the completion exactly as the remote service returned it.
type StoryResponse struct {
	Text         string        `json:"story"`
	Model        string        `json:"model"`
	Prompt       string        `json:"prompt"`
	FinishReason string        `json:"finish_reason,omitempty"`
	Usage        Usage         `json:"usage"`
	Duration     time.Duration `json:"duration"`
}

// Usage represents token usage information reported by the provider
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}
