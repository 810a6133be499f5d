package llm

import (
	"context"
	"fmt"

	"github.com/abhisek/quizreplay/internal/store"
)

// NewProvider builds the provider selected by cfg. Calls go through retry,
// then event logging when events is non-nil, then the vendor adapter.
func NewProvider(ctx context.Context, cfg Config, events store.EventRepo) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var (
		p   Provider
		err error
	)
	switch cfg.Provider {
	case ProviderMock:
		return NewMockProvider(), nil
	case ProviderAnthropic:
		p, err = NewAnthropicProvider(cfg.Anthropic)
	case ProviderOpenAI, ProviderOpenRouter:
		p, err = NewOpenAIProvider(cfg.OpenAI)
	case ProviderGemini:
		p, err = NewGeminiProvider(ctx, cfg.Gemini)
	}
	if err != nil {
		return nil, fmt.Errorf("init %s provider: %w", cfg.Provider, err)
	}

	if events != nil {
		p = WithLogging(p, cfg.Provider, events)
	}
	return WithRetry(p, cfg.Retry), nil
}
