package llm

import (
	"fmt"
	"os"
	"time"
)

// Provider names accepted in Config.Provider.
const (
	ProviderAnthropic  = "anthropic"
	ProviderOpenAI     = "openai"
	ProviderGemini     = "gemini"
	ProviderOpenRouter = "openrouter"
	ProviderMock       = "mock"
)

const defaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"

// Config holds all LLM provider configuration.
type Config struct {
	// Provider selects which LLM provider to use. Empty means none is
	// configured and explanations are disabled.
	Provider string

	Anthropic AnthropicConfig
	OpenAI    OpenAIConfig
	Gemini    GeminiConfig
	Retry     RetryConfig

	// Timeout bounds one explanation request including retries.
	Timeout time.Duration
}

// AnthropicConfig holds Anthropic-specific configuration.
type AnthropicConfig struct {
	APIKey string
	Model  string
}

// OpenAIConfig holds configuration for OpenAI and OpenAI-compatible APIs.
// OpenRouter is served through this config with its own BaseURL.
type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// GeminiConfig holds Gemini-specific configuration.
type GeminiConfig struct {
	APIKey string
	Model  string
}

// RetryConfig configures retry behavior for transient failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultConfig returns a Config with no provider selected.
func DefaultConfig() Config {
	return Config{
		Anthropic: AnthropicConfig{Model: "claude-haiku"},
		OpenAI:    OpenAIConfig{Model: "gpt-4o-mini"},
		Gemini:    GeminiConfig{Model: "gemini-flash"},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: 500 * time.Millisecond,
			MaxWait:     5 * time.Second,
			Multiplier:  2.0,
		},
		Timeout: 20 * time.Second,
	}
}

// ConfigFromEnv builds a Config from QUIZREPLAY_* variables. If no provider
// is named there, the standard vendor key variables are checked.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()

	overrides := []struct {
		env string
		dst *string
	}{
		{"QUIZREPLAY_LLM_PROVIDER", &cfg.Provider},
		{"QUIZREPLAY_ANTHROPIC_API_KEY", &cfg.Anthropic.APIKey},
		{"QUIZREPLAY_ANTHROPIC_MODEL", &cfg.Anthropic.Model},
		{"QUIZREPLAY_OPENAI_API_KEY", &cfg.OpenAI.APIKey},
		{"QUIZREPLAY_OPENAI_MODEL", &cfg.OpenAI.Model},
		{"QUIZREPLAY_OPENAI_BASE_URL", &cfg.OpenAI.BaseURL},
		{"QUIZREPLAY_GEMINI_API_KEY", &cfg.Gemini.APIKey},
		{"QUIZREPLAY_GEMINI_MODEL", &cfg.Gemini.Model},
	}
	for _, o := range overrides {
		if v := os.Getenv(o.env); v != "" {
			*o.dst = v
		}
	}

	if cfg.Provider == ProviderOpenRouter {
		cfg.useOpenRouter(os.Getenv("QUIZREPLAY_OPENROUTER_API_KEY"))
		if m := os.Getenv("QUIZREPLAY_OPENROUTER_MODEL"); m != "" {
			cfg.OpenAI.Model = m
		}
	}

	if cfg.Provider == "" {
		discoverProvider(&cfg)
	}
	return cfg
}

// discoverProvider checks standard API key variables in priority order
// (Gemini, OpenAI, Anthropic, OpenRouter) and selects the first one found.
func discoverProvider(cfg *Config) {
	switch {
	case os.Getenv("GEMINI_API_KEY") != "":
		cfg.Provider = ProviderGemini
		cfg.Gemini.APIKey = os.Getenv("GEMINI_API_KEY")
	case os.Getenv("OPENAI_API_KEY") != "":
		cfg.Provider = ProviderOpenAI
		cfg.OpenAI.APIKey = os.Getenv("OPENAI_API_KEY")
	case os.Getenv("ANTHROPIC_API_KEY") != "":
		cfg.Provider = ProviderAnthropic
		cfg.Anthropic.APIKey = os.Getenv("ANTHROPIC_API_KEY")
	case os.Getenv("OPENROUTER_API_KEY") != "":
		cfg.Provider = ProviderOpenRouter
		cfg.useOpenRouter(os.Getenv("OPENROUTER_API_KEY"))
	}
}

func (c *Config) useOpenRouter(key string) {
	c.OpenAI.APIKey = key
	c.OpenAI.Model = "google/gemini-2.0-flash-001"
	if c.OpenAI.BaseURL == "" {
		c.OpenAI.BaseURL = defaultOpenRouterBaseURL
	}
}

// Enabled reports whether a provider has been selected.
func (c Config) Enabled() bool {
	return c.Provider != ""
}

// Validate checks that the selected provider has its required API key set.
func (c Config) Validate() error {
	switch c.Provider {
	case ProviderAnthropic:
		if c.Anthropic.APIKey == "" {
			return fmt.Errorf("QUIZREPLAY_ANTHROPIC_API_KEY is required for the anthropic provider")
		}
	case ProviderOpenAI, ProviderOpenRouter:
		if c.OpenAI.APIKey == "" {
			return fmt.Errorf("an API key is required for the %s provider", c.Provider)
		}
	case ProviderGemini:
		if c.Gemini.APIKey == "" {
			return fmt.Errorf("QUIZREPLAY_GEMINI_API_KEY is required for the gemini provider")
		}
	case ProviderMock:
	case "":
		return fmt.Errorf("no LLM provider configured")
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	return nil
}
