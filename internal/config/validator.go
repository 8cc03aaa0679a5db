package config

import (
	"fmt"
	"math"
	"runtime"
	"slices"
	"strconv"
	"strings"
	"time"
)

var (
	validLogLevels  = []string{"DEBUG", "INFO", "WARN", "ERROR"}
	validLogFormats = []string{"text", "json"}
	validProviders  = []string{"openai", "openrouter", "arliai", "anthropic"}
)

// Validate проверяет корректность конфигурации и возвращает все найденные проблемы сразу
func (c *Config) Validate() error {
	var errors []string

	if c.Port == "" {
		errors = append(errors, "port is required")
	} else {
		port, err := strconv.Atoi(c.Port)
		if err != nil {
			errors = append(errors, fmt.Sprintf("invalid port: %s", c.Port))
		} else if port < 1 || port > 65535 {
			errors = append(errors, fmt.Sprintf("port must be between 1 and 65535, got %d", port))
		}
	}
	if c.MaxUploadSizeMB < 1 {
		errors = append(errors, "max upload size must be at least 1 MB")
	}

	if c.LogLevel != "" && !slices.Contains(validLogLevels, strings.ToUpper(c.LogLevel)) {
		errors = append(errors, fmt.Sprintf("invalid log level: %s (valid: %s)",
			c.LogLevel, strings.Join(validLogLevels, ", ")))
	}
	if c.LogFormat != "" && !slices.Contains(validLogFormats, strings.ToLower(c.LogFormat)) {
		errors = append(errors, fmt.Sprintf("invalid log format: %s (valid: %s)",
			c.LogFormat, strings.Join(validLogFormats, ", ")))
	}

	errors = append(errors, c.Grouping.validate()...)
	errors = append(errors, c.AI.validate()...)

	if c.DumpPath == "" {
		errors = append(errors, "dump path is required")
	}

	if len(errors) > 0 {
		return fmt.Errorf("validation errors: %s", strings.Join(errors, "; "))
	}
	return nil
}

func (g GroupingConfig) validate() []string {
	var errors []string

	if g.SimilarityThreshold <= 0 || g.SimilarityThreshold > 1 {
		errors = append(errors, "similarity threshold must be in (0, 1]")
	}
	if g.JaccardWeight < 0 || g.LevenshteinWeight < 0 {
		errors = append(errors, "distance weights must be non-negative")
	} else if math.Abs(g.JaccardWeight+g.LevenshteinWeight-2) > 1e-9 {
		// сумма весов 2 удерживает расстояние в [0, 1]
		errors = append(errors, fmt.Sprintf("distance weights must sum to 2, got %.3f", g.JaccardWeight+g.LevenshteinWeight))
	}
	if g.SampleSize < 1 {
		errors = append(errors, "group sample size must be at least 1")
	}
	if g.MaxCandidates < 1 {
		errors = append(errors, "max llm candidates must be at least 1")
	}
	if g.KeywordMatchRatio <= 0 || g.KeywordMatchRatio > 1 {
		errors = append(errors, "keyword match ratio must be in (0, 1]")
	}
	if g.ScoringWorkers < 1 {
		errors = append(errors, "scoring workers must be at least 1")
	}
	if g.StemmerLanguage == "" {
		errors = append(errors, "stemmer language is required")
	}
	return errors
}

func (a AIConfig) validate() []string {
	var errors []string

	if !slices.Contains(validProviders, strings.ToLower(a.Provider)) {
		errors = append(errors, fmt.Sprintf("invalid ai provider: %q (valid: %s)",
			a.Provider, strings.Join(validProviders, ", ")))
	}
	if a.FallbackProvider != "" && !slices.Contains(validProviders, strings.ToLower(a.FallbackProvider)) {
		errors = append(errors, fmt.Sprintf("invalid ai fallback provider: %q (valid: %s)",
			a.FallbackProvider, strings.Join(validProviders, ", ")))
	}
	if a.Timeout < time.Second {
		errors = append(errors, "AI timeout must be at least 1 second")
	}
	if a.MaxRetries < 0 {
		errors = append(errors, "AI max retries must not be negative")
	}
	if a.RateLimitPerSec < 0 {
		errors = append(errors, "AI rate limit must not be negative")
	}
	return errors
}

// GetDefaults возвращает конфигурацию со значениями по умолчанию
func GetDefaults() *Config {
	return &Config{
		Port:            "8000",
		MaxUploadSizeMB: 32,
		LogLevel:        "INFO",
		LogFormat:       "text",
		Grouping: GroupingConfig{
			SimilarityThreshold: 0.35,
			JaccardWeight:       1.3,
			LevenshteinWeight:   0.7,
			SampleSize:          5,
			MaxCandidates:       4,
			KeywordMatchRatio:   0.8,
			ScoringWorkers:      runtime.GOMAXPROCS(0),
			StemmerLanguage:     "portuguese",
		},
		AI: AIConfig{
			Provider:        "openai",
			Model:           "gpt-4o-mini",
			Timeout:         30 * time.Second,
			MaxRetries:      3,
			RateLimitPerSec: 5,
		},
		UploadDir: "ingested_files",
		DumpPath:  "grouped_items.json",
	}
}
