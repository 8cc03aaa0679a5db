package ai

import (
	"fmt"
	"strings"
)

// Адреса OpenAI-совместимых провайдеров
const (
	OpenRouterBaseURL = "https://openrouter.ai/api/v1"
	ArliaiBaseURL     = "https://api.arliai.com/v1"
)

// ProviderSettings параметры подключения к одному провайдеру
type ProviderSettings struct {
	Provider string
	APIKey   string
	BaseURL  string
	Model    string
}

// NewCompleter создает клиент провайдера по имени. Пустой BaseURL - адрес провайдера по умолчанию.
func NewCompleter(s ProviderSettings) (Completer, error) {
	provider := strings.ToLower(strings.TrimSpace(s.Provider))
	if s.APIKey == "" && s.BaseURL == "" {
		return nil, fmt.Errorf("api key is required for provider %q", provider)
	}

	switch provider {
	case ProviderAnthropic:
		return NewAnthropicClient(s.APIKey, s.BaseURL, s.Model), nil
	case ProviderOpenAI:
		return NewChatCompletionClient(s.BaseURL, s.APIKey, s.Model), nil
	case ProviderOpenRouter:
		return NewChatCompletionClient(orDefault(s.BaseURL, OpenRouterBaseURL), s.APIKey, s.Model).
			WithProviderName(ProviderOpenRouter), nil
	case ProviderArliai:
		return NewChatCompletionClient(orDefault(s.BaseURL, ArliaiBaseURL), s.APIKey, s.Model).
			WithProviderName(ProviderArliai), nil
	default:
		return nil, fmt.Errorf("unsupported AI provider: %q", s.Provider)
	}
}

func orDefault(value, def string) string {
	if value == "" {
		return def
	}
	return value
}
