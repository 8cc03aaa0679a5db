package ai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/time/rate"
)

// DeciderConfig параметры устойчивого вызова модели
type DeciderConfig struct {
	Retry           RetryConfig
	Timeout         time.Duration
	RateLimitPerSec float64
}

// DefaultDeciderConfig возвращает конфигурацию по умолчанию
func DefaultDeciderConfig() DeciderConfig {
	return DeciderConfig{
		Retry:           DefaultRetryConfig(),
		Timeout:         30 * time.Second,
		RateLimitPerSec: 5,
	}
}

// ResilientDecider реализует способность рассуждения поверх одного или нескольких провайдеров:
// ограничение частоты, таймаут попытки, повторы с экспоненциальной задержкой
// и переход к следующему провайдеру при неповторяемой ошибке
type ResilientDecider struct {
	providers []Completer
	cfg       DeciderConfig
	limiter   *rate.Limiter
	metrics   *MetricsCollector
	logger    *slog.Logger
}

// NewResilientDecider создает decider; провайдеры перечисляются в порядке приоритета
func NewResilientDecider(cfg DeciderConfig, metrics *MetricsCollector, logger *slog.Logger, providers ...Completer) *ResilientDecider {
	limit := rate.Inf
	if cfg.RateLimitPerSec > 0 {
		limit = rate.Limit(cfg.RateLimitPerSec)
	}
	if metrics == nil {
		metrics = NewMetricsCollector()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ResilientDecider{
		providers: providers,
		cfg:       cfg,
		limiter:   rate.NewLimiter(limit, 1),
		metrics:   metrics,
		logger:    logger,
	}
}

// Metrics возвращает сборщик метрик
func (d *ResilientDecider) Metrics() *MetricsCollector {
	return d.metrics
}

// Decide реализует grouping.Decider
func (d *ResilientDecider) Decide(ctx context.Context, prompt string) (string, error) {
	if len(d.providers) == 0 {
		return "", errors.New("no AI providers configured")
	}

	var lastErr error
	for _, provider := range d.providers {
		response, err := d.decideWith(ctx, provider, prompt)
		if err == nil {
			d.metrics.RecordDecision(false)
			return response, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}
		d.logger.Warn("Provider failed, trying next", "provider", provider.ProviderName(), "error", err)
	}

	d.metrics.RecordDecision(true)
	return "", lastErr
}

func (d *ResilientDecider) decideWith(ctx context.Context, provider Completer, prompt string) (string, error) {
	name := provider.ProviderName()
	delay := d.cfg.Retry.InitialDelay

	var lastErr error
	for attempt := 0; attempt <= d.cfg.Retry.MaxRetries; attempt++ {
		if attempt > 0 {
			d.logger.Debug("Retrying AI request", "provider", name, "attempt", attempt, "max_retries", d.cfg.Retry.MaxRetries, "delay", delay)
			select {
			case <-ctx.Done():
				return "", fmt.Errorf("context cancelled: %w", ctx.Err())
			case <-time.After(delay):
			}
			delay = d.cfg.Retry.next(delay)
		}

		if err := d.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("rate limiter: %w", err)
		}

		response, err := d.attempt(ctx, provider, prompt)
		if err == nil {
			return response, nil
		}
		lastErr = err
		if ctx.Err() != nil || !isRetryable(err) {
			break
		}
	}

	return "", fmt.Errorf("%s: all retry attempts failed: %w", name, lastErr)
}

func (d *ResilientDecider) attempt(ctx context.Context, provider Completer, prompt string) (string, error) {
	attemptCtx := ctx
	if d.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		attemptCtx, cancel = context.WithTimeout(ctx, d.cfg.Timeout)
		defer cancel()
	}

	start := time.Now()
	response, err := provider.Complete(attemptCtx, prompt)
	d.metrics.RecordAttempt(provider.ProviderName(), time.Since(start), err)
	return response, err
}
