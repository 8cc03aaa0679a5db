package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config конфигурация сервера
type Config struct {
	// Сервер
	Port            string `yaml:"port" json:"port"`
	MaxUploadSizeMB int    `yaml:"max_upload_size_mb" json:"max_upload_size_mb"`

	// Логирование
	LogLevel  string `yaml:"log_level" json:"log_level"`
	LogFormat string `yaml:"log_format" json:"log_format"`

	// Группировка
	Grouping GroupingConfig `yaml:"grouping" json:"grouping"`

	// Внешняя модель для выбора колонок и групп
	AI AIConfig `yaml:"ai" json:"ai"`

	// Файлы
	UploadDir            string `yaml:"upload_dir" json:"upload_dir"`
	InboxDir             string `yaml:"inbox_dir" json:"inbox_dir"`
	DumpPath             string `yaml:"dump_path" json:"dump_path"`
	SnapshotDatabasePath string `yaml:"snapshot_database_path" json:"snapshot_database_path"`
}

// GroupingConfig параметры алгоритма группировки
type GroupingConfig struct {
	SimilarityThreshold float64 `yaml:"similarity_threshold" json:"similarity_threshold"`
	JaccardWeight       float64 `yaml:"jaccard_weight" json:"jaccard_weight"`
	LevenshteinWeight   float64 `yaml:"levenshtein_weight" json:"levenshtein_weight"`
	SampleSize          int     `yaml:"group_sample_size" json:"group_sample_size"`
	MaxCandidates       int     `yaml:"max_llm_candidates" json:"max_llm_candidates"`
	KeywordMatchRatio   float64 `yaml:"keyword_match_ratio" json:"keyword_match_ratio"`
	ScoringWorkers      int     `yaml:"scoring_workers" json:"scoring_workers"`
	RandomSeed          uint64  `yaml:"random_seed" json:"random_seed"`
	StemmerLanguage     string  `yaml:"stemmer_language" json:"stemmer_language"`
}

// AIConfig провайдер модели и параметры устойчивых вызовов
type AIConfig struct {
	Provider        string        `yaml:"provider" json:"provider"`
	APIKey          string        `yaml:"api_key" json:"-"`
	BaseURL         string        `yaml:"base_url" json:"base_url"`
	Model           string        `yaml:"model" json:"model"`
	Timeout         time.Duration `yaml:"timeout" json:"timeout"`
	MaxRetries      int           `yaml:"max_retries" json:"max_retries"`
	RateLimitPerSec float64       `yaml:"rate_limit_per_sec" json:"rate_limit_per_sec"`

	// Резервный провайдер, используется при неповторяемой ошибке основного
	FallbackProvider string `yaml:"fallback_provider" json:"fallback_provider"`
	FallbackAPIKey   string `yaml:"fallback_api_key" json:"-"`
	FallbackModel    string `yaml:"fallback_model" json:"fallback_model"`
}

// LoadConfig загружает конфигурацию: значения по умолчанию, затем YAML файл (если path не пуст
// и файл существует), затем переменные окружения. Результат проверяется Validate.
func LoadConfig(path string) (*Config, error) {
	cfg := GetDefaults()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			slog.Warn("Config file not found, using defaults and environment", "path", path)
		case err != nil:
			return nil, fmt.Errorf("failed to read config file: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
			}
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv переопределяет значения из переменных окружения
func (c *Config) applyEnv() {
	c.Port = getEnv("SERVER_PORT", c.Port)
	c.MaxUploadSizeMB = getEnvInt("MAX_UPLOAD_SIZE_MB", c.MaxUploadSizeMB)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.LogFormat = getEnv("LOG_FORMAT", c.LogFormat)

	g := &c.Grouping
	g.SimilarityThreshold = getEnvFloat("SIMILARITY_THRESHOLD", g.SimilarityThreshold)
	g.JaccardWeight = getEnvFloat("JACCARD_WEIGHT", g.JaccardWeight)
	g.LevenshteinWeight = getEnvFloat("LEVENSHTEIN_WEIGHT", g.LevenshteinWeight)
	g.SampleSize = getEnvInt("GROUP_SAMPLE_SIZE", g.SampleSize)
	g.MaxCandidates = getEnvInt("MAX_LLM_CANDIDATES", g.MaxCandidates)
	g.KeywordMatchRatio = getEnvFloat("KEYWORD_MATCH_RATIO", g.KeywordMatchRatio)
	g.ScoringWorkers = getEnvInt("SCORING_WORKERS", g.ScoringWorkers)
	g.RandomSeed = getEnvUint("RANDOM_SEED", g.RandomSeed)
	g.StemmerLanguage = getEnv("STEMMER_LANGUAGE", g.StemmerLanguage)

	a := &c.AI
	a.Provider = getEnv("AI_PROVIDER", a.Provider)
	a.APIKey = getEnv("AI_API_KEY", a.APIKey)
	a.BaseURL = getEnv("AI_BASE_URL", a.BaseURL)
	a.Model = getEnv("AI_MODEL", a.Model)
	a.Timeout = getEnvDuration("AI_TIMEOUT", a.Timeout)
	a.MaxRetries = getEnvInt("AI_MAX_RETRIES", a.MaxRetries)
	a.RateLimitPerSec = getEnvFloat("AI_RATE_LIMIT_PER_SEC", a.RateLimitPerSec)
	a.FallbackProvider = getEnv("AI_FALLBACK_PROVIDER", a.FallbackProvider)
	a.FallbackAPIKey = getEnv("AI_FALLBACK_API_KEY", a.FallbackAPIKey)
	a.FallbackModel = getEnv("AI_FALLBACK_MODEL", a.FallbackModel)

	c.UploadDir = getEnv("UPLOAD_DIR", c.UploadDir)
	c.InboxDir = getEnv("INBOX_DIR", c.InboxDir)
	c.DumpPath = getEnv("DUMP_PATH", c.DumpPath)
	c.SnapshotDatabasePath = getEnv("SNAPSHOT_DATABASE_PATH", c.SnapshotDatabasePath)
}

// MaxUploadBytes ограничение размера загружаемого файла в байтах
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.MaxUploadSizeMB) << 20
}

// getEnv получает переменную окружения или возвращает значение по умолчанию
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt получает переменную окружения как int или возвращает значение по умолчанию
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
		slog.Warn("Ignoring invalid integer in environment", "key", key, "value", value)
	}
	return defaultValue
}

func getEnvUint(key string, defaultValue uint64) uint64 {
	if value := os.Getenv(key); value != "" {
		if v, err := strconv.ParseUint(value, 10, 64); err == nil {
			return v
		}
		slog.Warn("Ignoring invalid unsigned integer in environment", "key", key, "value", value)
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if v, err := strconv.ParseFloat(value, 64); err == nil {
			return v
		}
		slog.Warn("Ignoring invalid number in environment", "key", key, "value", value)
	}
	return defaultValue
}

// getEnvDuration получает переменную окружения как Duration или возвращает значение по умолчанию
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		slog.Warn("Ignoring invalid duration in environment", "key", key, "value", value)
	}
	return defaultValue
}
