package container

import (
	"fmt"

	"catalogdedup/internal/domain/grouping"
	"catalogdedup/internal/infrastructure/ai"
)

// initDecider собирает устойчивый decider из основного и резервного провайдеров
func (c *Container) initDecider(override grouping.Decider) error {
	if override != nil {
		c.Decider = override
		return nil
	}

	cfg := c.Config.AI
	primary, err := ai.NewCompleter(ai.ProviderSettings{
		Provider: cfg.Provider,
		APIKey:   cfg.APIKey,
		BaseURL:  cfg.BaseURL,
		Model:    cfg.Model,
	})
	if err != nil {
		return fmt.Errorf("primary provider: %w", err)
	}
	providers := []ai.Completer{primary}

	if cfg.FallbackProvider != "" {
		fallback, err := ai.NewCompleter(ai.ProviderSettings{
			Provider: cfg.FallbackProvider,
			APIKey:   cfg.FallbackAPIKey,
			Model:    cfg.FallbackModel,
		})
		if err != nil {
			return fmt.Errorf("fallback provider: %w", err)
		}
		providers = append(providers, fallback)
	}

	deciderCfg := ai.DefaultDeciderConfig()
	deciderCfg.Timeout = cfg.Timeout
	deciderCfg.Retry.MaxRetries = cfg.MaxRetries
	deciderCfg.RateLimitPerSec = cfg.RateLimitPerSec

	c.AIMetrics = ai.NewMetricsCollector()
	c.Decider = ai.NewResilientDecider(deciderCfg, c.AIMetrics, c.Logger.With("component", "decider"), providers...)
	return nil
}
