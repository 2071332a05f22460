package story

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/lamim/horrorforge/internal/api"
	"github.com/lamim/horrorforge/internal/config"
	"github.com/lamim/horrorforge/internal/logging"
	"github.com/lamim/horrorforge/internal/metrics"
	"github.com/lamim/horrorforge/internal/util"
	"github.com/lamim/horrorforge/pkg/models"
)

// Submitter is the surface front ends call to turn a request into a story
type Submitter interface {
	Submit(ctx context.Context, req models.StoryRequest) (*models.StoryResponse, error)
}

// Service validates requests, builds prompts and sends them to the provider.
// It keeps no state between submissions.
type Service struct {
	provider api.Provider
	limits   config.StoryConfig
	metrics  *metrics.Collector
	logger   *slog.Logger
}

var _ Submitter = (*Service)(nil)

// NewService creates a story service
func NewService(provider api.Provider, limits config.StoryConfig, collector *metrics.Collector, logger *slog.Logger) *Service {
	return &Service{
		provider: provider,
		limits:   limits,
		metrics:  collector,
		logger:   logger,
	}
}

// Validate checks a request against the configured limits. Whitespace-only
// names and situations count as empty; a zero limit is not enforced.
func Validate(req models.StoryRequest, limits config.StoryConfig) error {
	if strings.TrimSpace(req.CharacterName) == "" {
		return &ValidationError{Field: "character_name", Message: "must not be empty"}
	}
	if strings.TrimSpace(req.Situation) == "" {
		return &ValidationError{Field: "situation", Message: "must not be empty"}
	}
	if req.LineCount < 1 {
		return &ValidationError{Field: "lines", Message: "must be at least 1"}
	}
	if limits.MaxLines > 0 && req.LineCount > limits.MaxLines {
		return &ValidationError{Field: "lines", Message: "must not exceed " + strconv.Itoa(limits.MaxLines)}
	}
	if limits.MaxCharacterNameLength > 0 && utf8.RuneCountInString(req.CharacterName) > limits.MaxCharacterNameLength {
		return &ValidationError{Field: "character_name", Message: "exceeds maximum length of " + strconv.Itoa(limits.MaxCharacterNameLength)}
	}
	if limits.MaxSituationLength > 0 && utf8.RuneCountInString(req.Situation) > limits.MaxSituationLength {
		return &ValidationError{Field: "situation", Message: "exceeds maximum length of " + strconv.Itoa(limits.MaxSituationLength)}
	}
	return nil
}

// Submit generates one story. Invalid requests never reach the provider;
// provider failures are returned as *RemoteServiceError.
func (s *Service) Submit(ctx context.Context, req models.StoryRequest) (*models.StoryResponse, error) {
	logger := logging.FromContext(ctx, s.logger)
	model := s.provider.ModelName()

	if err := Validate(req, s.limits); err != nil {
		s.metrics.IncrementStory(metrics.StatusValidationError)
		logger.Warn("Rejected story request", "error", err)
		return nil, err
	}

	prompt := BuildPrompt(req.CharacterName, req.Situation, req.LineCount)

	var history []models.Turn
	if s.limits.SeedHistory {
		history = []models.Turn{{Role: models.RoleUser, Text: prompt}}
	}

	logger.Debug("Sending story prompt",
		"model", model,
		"lines", req.LineCount,
		"seed_history", s.limits.SeedHistory,
		"prompt", util.TruncateString(prompt, 120))

	chat := s.provider.StartChat(history)
	start := time.Now()
	completion, err := chat.SendMessage(ctx, prompt)
	duration := time.Since(start)
	s.metrics.RecordAPIRequest(model, duration, err == nil)

	if err != nil {
		s.metrics.IncrementStory(metrics.StatusRemoteError)
		logger.Error("Story generation failed", "model", model, "duration", duration, "error", err)
		return nil, &RemoteServiceError{Model: model, Err: err}
	}

	s.metrics.IncrementStory(metrics.StatusSuccess)
	s.metrics.RecordCompletionTokens(model, completion.Usage.CompletionTokens)
	logger.Info("Story generated",
		"model", model,
		"duration", duration,
		"finish_reason", completion.FinishReason,
		"completion_tokens", completion.Usage.CompletionTokens)
	logger.Debug("Story preview", "text", util.Preview(completion.Text, 200))

	return &models.StoryResponse{
		Text:         completion.Text,
		Model:        model,
		Prompt:       prompt,
		FinishReason: completion.FinishReason,
		Usage:        completion.Usage,
		Duration:     duration,
	}, nil
}
