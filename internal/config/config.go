package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Provider names accepted in model.provider
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// Config represents the complete application configuration
type Config struct {
	Model   ModelConfig   `toml:"model"`
	Story   StoryConfig   `toml:"story"`
	Server  ServerConfig  `toml:"server"`
	Metrics MetricsConfig `toml:"metrics"`
	Logging LoggingConfig `toml:"logging"`
}

// ModelConfig describes the remote text-generation endpoint and its sampling parameters
type ModelConfig struct {
	Provider           string  `toml:"provider"` // gemini (native REST) or openai (OpenAI-compatible)
	BaseURL            string  `toml:"base_url"`
	ModelName          string  `toml:"model_name"`
	Temperature        float64 `toml:"temperature"`
	TopP               float64 `toml:"top_p"`
	TopK               int     `toml:"top_k"`
	MaxOutputTokens    int     `toml:"max_output_tokens"`
	ResponseMIMEType   string  `toml:"response_mime_type"`
	HTTPTimeoutSeconds int     `toml:"http_timeout_seconds"` // 0 = no timeout
}

// HTTPTimeout returns the configured request timeout
func (m ModelConfig) HTTPTimeout() time.Duration {
	return time.Duration(m.HTTPTimeoutSeconds) * time.Second
}

// StoryConfig holds limits applied to user input
type StoryConfig struct {
	DefaultLines           int  `toml:"default_lines"`
	MaxLines               int  `toml:"max_lines"`                 // 0 = unlimited
	MaxCharacterNameLength int  `toml:"max_character_name_length"` // runes, 0 = unlimited
	MaxSituationLength     int  `toml:"max_situation_length"`      // runes, 0 = unlimited
	SeedHistory            bool `toml:"seed_history"` // send the prompt as a history turn and again as the message
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Addr               string   `toml:"addr"`
	Mode               string   `toml:"mode"` // gin mode: debug, release, test
	CORSAllowedOrigins []string `toml:"cors_allowed_origins"`
	ShutdownTimeout    int      `toml:"shutdown_timeout_seconds"`
}

// MetricsConfig controls the Prometheus endpoint
type MetricsConfig struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// LoggingConfig controls log level and the optional JSON log file
type LoggingConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// Secrets holds sensitive credentials loaded from environment variables
type Secrets struct {
	APIKeys map[string]string
}

const (
	// MaxOutputTokensLimit is the largest max_output_tokens accepted
	MaxOutputTokensLimit = 65536
	// MaxLinesLimit is the largest max_lines accepted
	MaxLinesLimit = 10000
)

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if err := validateModelConfig(c.Model); err != nil {
		return err
	}

	if c.Story.DefaultLines < 1 {
		return fmt.Errorf("story.default_lines must be at least 1")
	}
	if c.Story.MaxLines < 0 || c.Story.MaxLines > MaxLinesLimit {
		return fmt.Errorf("story.max_lines must be between 0 and %d (got %d)", MaxLinesLimit, c.Story.MaxLines)
	}
	if c.Story.MaxLines > 0 && c.Story.DefaultLines > c.Story.MaxLines {
		return fmt.Errorf("story.default_lines (%d) must not exceed story.max_lines (%d)", c.Story.DefaultLines, c.Story.MaxLines)
	}
	if c.Story.MaxCharacterNameLength < 0 {
		return fmt.Errorf("story.max_character_name_length must not be negative")
	}
	if c.Story.MaxSituationLength < 0 {
		return fmt.Errorf("story.max_situation_length must not be negative")
	}

	switch strings.ToLower(c.Server.Mode) {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("server.mode must be one of: debug, release, test (got %s)", c.Server.Mode)
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}

	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		return fmt.Errorf("metrics.path must start with / (got %q)", c.Metrics.Path)
	}

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error (got %s)", c.Logging.Level)
	}

	return nil
}

func validateModelConfig(mc ModelConfig) error {
	if mc.Provider != ProviderGemini && mc.Provider != ProviderOpenAI {
		return fmt.Errorf("model.provider must be one of: %s, %s (got %s)", ProviderGemini, ProviderOpenAI, mc.Provider)
	}
	if mc.BaseURL == "" {
		return fmt.Errorf("model.base_url is required")
	}
	if mc.ModelName == "" {
		return fmt.Errorf("model.model_name is required")
	}
	if mc.Temperature < 0 || mc.Temperature > 2 {
		return fmt.Errorf("model.temperature must be between 0 and 2")
	}
	if mc.TopP < 0 || mc.TopP > 1 {
		return fmt.Errorf("model.top_p must be between 0 and 1")
	}
	if mc.TopK < 0 {
		return fmt.Errorf("model.top_k must not be negative")
	}
	if mc.MaxOutputTokens < 1 || mc.MaxOutputTokens > MaxOutputTokensLimit {
		return fmt.Errorf("model.max_output_tokens must be between 1 and %d (got %d)", MaxOutputTokensLimit, mc.MaxOutputTokens)
	}
	if mc.HTTPTimeoutSeconds < 0 {
		return fmt.Errorf("model.http_timeout_seconds must not be negative")
	}
	return nil
}

// ConfigurationError reports a missing or unusable setting discovered at startup
type ConfigurationError struct {
	Key     string
	Message string
	Err     error
}

func (e *ConfigurationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("configuration error (%s): %s: %v", e.Key, e.Message, e.Err)
	}
	return fmt.Sprintf("configuration error (%s): %s", e.Key, e.Message)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// LoadSecrets loads sensitive credentials from environment variables
func LoadSecrets() (*Secrets, error) {
	secrets := &Secrets{
		APIKeys: make(map[string]string),
	}

	// Generic key first, provider-specific keys override it
	if key := os.Getenv("API_KEY"); key != "" {
		secrets.APIKeys["generic"] = key
	}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		secrets.APIKeys[ProviderGemini] = key
	} else if key := os.Getenv("GOOGLE_API_KEY"); key != "" {
		secrets.APIKeys[ProviderGemini] = key
	}
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		secrets.APIKeys[ProviderOpenAI] = key
	}

	return secrets, nil
}

// GetAPIKey returns the credential for a provider, falling back to API_KEY
func (s *Secrets) GetAPIKey(provider string) string {
	if key := s.APIKeys[provider]; key != "" {
		return key
	}
	return s.APIKeys["generic"]
}

// RequireAPIKey returns the provider credential or a ConfigurationError when none is set
func (s *Secrets) RequireAPIKey(provider string) (string, error) {
	key := s.GetAPIKey(provider)
	if key == "" {
		return "", &ConfigurationError{
			Key:     "API_KEY",
			Message: fmt.Sprintf("no API key found for provider %s; set API_KEY in the environment or .env file", provider),
		}
	}
	return key, nil
}
