package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"sprint-planner/internal/config"
	"sprint-planner/internal/planning"
)

// NewGenerator builds the generator selected by the configured provider.
// Configuration problems are reported before any request is made.
func NewGenerator(ctx context.Context, cfg *config.Config, logger *zap.Logger) (planning.Generator, error) {
	if err := cfg.ValidateGenerator(); err != nil {
		return nil, err
	}

	switch cfg.Generator.Provider {
	case config.ProviderAnthropic:
		generator, err := NewAnthropicGenerator(&cfg.Generator, logger)
		if err != nil {
			return nil, err
		}
		return generator, nil
	case config.ProviderGemini:
		generator, err := NewGeminiGenerator(ctx, &cfg.Generator, logger)
		if err != nil {
			return nil, err
		}
		return generator, nil
	default:
		return nil, fmt.Errorf("%w: unknown provider %q", planning.ErrConfiguration, cfg.Generator.Provider)
	}
}
