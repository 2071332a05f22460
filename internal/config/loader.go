package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Load reads and parses the configuration file and environment variables.
// A missing file is only an error when required is true; otherwise defaults apply.
func Load(configPath string, required bool) (*Config, *Secrets, error) {
	var cfg Config
	cfg.Story.SeedHistory = true
	cfg.Metrics.Enabled = true

	data, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, nil, &ConfigurationError{Key: configPath, Message: "failed to parse config file", Err: err}
		}
	case errors.Is(err, fs.ErrNotExist) && !required:
		// defaults only
	default:
		return nil, nil, &ConfigurationError{Key: configPath, Message: "failed to read config file", Err: err}
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, nil, &ConfigurationError{Key: configPath, Message: "invalid configuration", Err: err}
	}

	if err := cfg.ValidateInputs(); err != nil {
		return nil, nil, &ConfigurationError{Key: configPath, Message: "input validation failed", Err: err}
	}

	secrets, err := LoadSecrets()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load secrets: %w", err)
	}

	return &cfg, secrets, nil
}

// applyDefaults sets default values for optional configuration fields
func applyDefaults(cfg *Config) {
	m := &cfg.Model
	if m.Provider == "" {
		m.Provider = ProviderGemini
	}
	if m.BaseURL == "" {
		m.BaseURL = DefaultBaseURL(m.Provider)
	}
	if m.ModelName == "" {
		m.ModelName = DefaultModelName
	}
	if m.Temperature == 0 {
		m.Temperature = DefaultTemperature
	}
	if m.TopP == 0 {
		m.TopP = DefaultTopP
	}
	if m.TopK == 0 {
		m.TopK = DefaultTopK
	}
	if m.MaxOutputTokens == 0 {
		m.MaxOutputTokens = DefaultMaxOutputTokens
	}
	if m.ResponseMIMEType == "" {
		m.ResponseMIMEType = DefaultResponseMIMEType
	}
	if m.HTTPTimeoutSeconds == 0 {
		m.HTTPTimeoutSeconds = DefaultHTTPTimeoutSeconds
	}

	s := &cfg.Story
	if s.DefaultLines == 0 {
		s.DefaultLines = DefaultLines
	}
	// max_lines and the length limits stay 0 (unlimited) unless configured

	if cfg.Server.Addr == "" {
		cfg.Server.Addr = DefaultAddr
	}
	if cfg.Server.Mode == "" {
		cfg.Server.Mode = "release"
	}
	if len(cfg.Server.CORSAllowedOrigins) == 0 {
		cfg.Server.CORSAllowedOrigins = []string{"*"}
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10
	}

	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
}
