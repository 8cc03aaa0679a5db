package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Поддерживаемые провайдеры
const (
	ProviderOpenAI     = "openai"
	ProviderOpenRouter = "openrouter"
	ProviderArliai     = "arliai"
	ProviderAnthropic  = "anthropic"
)

// RetryConfig конфигурация повторных попыток
type RetryConfig struct {
	MaxRetries        int
	InitialDelay      time.Duration
	MaxDelay          time.Duration
	BackoffMultiplier float64
}

// DefaultRetryConfig возвращает конфигурацию повторных попыток по умолчанию
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:        3,
		InitialDelay:      500 * time.Millisecond,
		MaxDelay:          10 * time.Second,
		BackoffMultiplier: 2.0,
	}
}

func (rc RetryConfig) next(delay time.Duration) time.Duration {
	delay = time.Duration(float64(delay) * rc.BackoffMultiplier)
	if delay > rc.MaxDelay {
		delay = rc.MaxDelay
	}
	return delay
}

// Completer одна попытка запроса к модели: текст запроса -> текст ответа
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
	ProviderName() string
}

// StatusError ответ провайдера с неуспешным HTTP статусом
type StatusError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: unexpected status %d", e.Provider, e.StatusCode)
	}
	return fmt.Sprintf("%s: unexpected status %d: %s", e.Provider, e.StatusCode, e.Body)
}

// Retryable серверные ошибки и rate limit стоит повторять, остальные клиентские - нет
func (e *StatusError) Retryable() bool {
	return e.StatusCode >= 500 || e.StatusCode == http.StatusTooManyRequests
}

// isRetryable классифицирует ошибку попытки
func isRetryable(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Retryable()
	}
	return true
}

func errorType(err error) string {
	var statusErr *StatusError
	switch {
	case errors.As(err, &statusErr):
		return fmt.Sprintf("status_%d", statusErr.StatusCode)
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	default:
		return "transport"
	}
}
