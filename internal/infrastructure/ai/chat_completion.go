package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultChatCompletionBaseURL адрес OpenAI-совместимого API по умолчанию
const DefaultChatCompletionBaseURL = "https://api.openai.com/v1"

// ChatCompletionClient клиент OpenAI-совместимого API /chat/completions
// (OpenAI, OpenRouter, локальные серверы)
type ChatCompletionClient struct {
	name       string
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// NewChatCompletionClient создает клиент. Пустой baseURL - OpenAI.
func NewChatCompletionClient(baseURL, apiKey, model string) *ChatCompletionClient {
	if baseURL == "" {
		baseURL = DefaultChatCompletionBaseURL
	}

	transport := &http.Transport{
		MaxIdleConns:        10,
		MaxConnsPerHost:     5,
		MaxIdleConnsPerHost: 5,
		IdleConnTimeout:     90 * time.Second,
	}

	return &ChatCompletionClient{
		name:    ProviderOpenAI,
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		// таймаут попытки задается контекстом вызывающего
		httpClient: &http.Client{Transport: transport},
	}
}

// WithProviderName задает имя провайдера для логов и метрик
func (c *ChatCompletionClient) WithProviderName(name string) *ChatCompletionClient {
	c.name = name
	return c
}

// ProviderName реализует Completer
func (c *ChatCompletionClient) ProviderName() string {
	return c.name
}

// Complete выполняет один запрос к модели
func (c *ChatCompletionClient) Complete(ctx context.Context, prompt string) (string, error) {
	payload, err := json.Marshal(chatCompletionRequest{
		Model:    c.model,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", &StatusError{Provider: c.name, StatusCode: resp.StatusCode, Body: truncate(string(body), 200)}
	}

	var parsed chatCompletionResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}
	return parsed.Choices[0].Message.Content, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
