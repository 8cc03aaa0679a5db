package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCompleter(t *testing.T) {
	tests := []struct {
		provider string
		wantName string
		wantURL  string
	}{
		{"openai", ProviderOpenAI, DefaultChatCompletionBaseURL},
		{"OpenRouter", ProviderOpenRouter, OpenRouterBaseURL},
		{"arliai", ProviderArliai, ArliaiBaseURL},
		{"anthropic", ProviderAnthropic, ""},
	}

	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			c, err := NewCompleter(ProviderSettings{Provider: tt.provider, APIKey: "key", Model: "m"})
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, c.ProviderName())
			if chat, ok := c.(*ChatCompletionClient); ok {
				assert.Equal(t, tt.wantURL, chat.baseURL)
			}
		})
	}
}

func TestNewCompleter_Errors(t *testing.T) {
	_, err := NewCompleter(ProviderSettings{Provider: "openai"})
	assert.ErrorContains(t, err, "api key is required")

	_, err = NewCompleter(ProviderSettings{Provider: "edenai", APIKey: "key"})
	assert.ErrorContains(t, err, "unsupported AI provider")

	// локальный сервер без ключа
	c, err := NewCompleter(ProviderSettings{Provider: "openai", BaseURL: "http://localhost:8080/v1"})
	require.NoError(t, err)
	assert.Equal(t, ProviderOpenAI, c.ProviderName())
}
