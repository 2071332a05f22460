package config

// Generation defaults mirror the settings the story generator has always shipped with.
const (
	DefaultGeminiBaseURL      = "https://generativelanguage.googleapis.com/v1beta"
	DefaultOpenAIBaseURL      = "https://api.openai.com/v1"
	DefaultModelName          = "gemini-2.0-flash"
	DefaultTemperature        = 0.75
	DefaultTopP               = 0.95
	DefaultTopK               = 64
	DefaultMaxOutputTokens    = 8192
	DefaultResponseMIMEType   = "text/plain"
	DefaultHTTPTimeoutSeconds = 120

	DefaultLines = 10

	DefaultAddr = ":8080"
)

// DefaultBaseURL returns the endpoint used when model.base_url is not set
func DefaultBaseURL(provider string) string {
	if provider == ProviderOpenAI {
		return DefaultOpenAIBaseURL
	}
	return DefaultGeminiBaseURL
}
