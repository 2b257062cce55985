package llm

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/abhisek/careerpath/internal/store"
)

// NewProvider builds the configured backend and wraps it as
// retry → timeout → logging → backend. Logging is skipped when events is
// nil, and the mock provider is returned bare.
func NewProvider(ctx context.Context, cfg Config, events store.EventRepo, logger *zap.Logger) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var (
		base Provider
		err  error
	)
	switch cfg.Provider {
	case "mock":
		return NewMockProvider(), nil
	case "anthropic":
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case "gemini":
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	default:
		h, _ := lookupHost(cfg.Provider)
		base, err = NewCompatProvider(h.name, *h.endpoint(&cfg))
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	if events != nil {
		base = WithLogging(base, cfg.Provider, events, logger)
	}
	return WithRetry(WithTimeout(base, cfg.Timeout), cfg.Retry), nil
}
