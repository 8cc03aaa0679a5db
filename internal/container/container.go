package container

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/gin-gonic/gin"

	"catalogdedup/database"
	groupingapp "catalogdedup/internal/application/grouping"
	"catalogdedup/internal/config"
	"catalogdedup/internal/domain/grouping"
	"catalogdedup/internal/domain/ingestion"
	"catalogdedup/internal/infrastructure/ai"
	"catalogdedup/internal/infrastructure/persistence"
	"catalogdedup/internal/infrastructure/workers"
	"catalogdedup/normalization/algorithms"
	"catalogdedup/server/middleware"
)

// Container контейнер зависимостей
// Управляет жизненным циклом всех компонентов приложения
type Container struct {
	mu sync.Mutex

	// Конфигурация
	Config *config.Config
	Logger *slog.Logger

	// Домен группировки
	Stemmer    algorithms.Stemmer
	Repository *grouping.Repository
	Scorer     *grouping.Scorer
	Engine     *grouping.Engine
	Decider    grouping.Decider
	AIMetrics  *ai.MetricsCollector

	// Загрузка файлов
	Extractors ingestion.ExtractorRegistry
	Ingestion  ingestion.Service

	// Хранение снимков
	SnapshotDB *database.SnapshotDB
	Snapshots  persistence.MultiWriter

	// Application / HTTP
	UseCase      *groupingapp.UseCase
	ErrorHandler *middleware.ErrorHandler
	Router       *gin.Engine

	// Наблюдатель каталога, nil если INBOX_DIR не задан
	Inbox *workers.InboxWatcher

	closed bool
}

// Option изменяет сборку контейнера
type Option func(*options)

type options struct {
	decider grouping.Decider
	version string
}

// WithDecider подменяет внешнюю модель (тесты, офлайн запуск)
func WithDecider(d grouping.Decider) Option {
	return func(o *options) { o.decider = d }
}

// WithVersion задает версию для /api/health
func WithVersion(v string) Option {
	return func(o *options) { o.version = v }
}

// NewContainer создает и инициализирует контейнер
func NewContainer(cfg *config.Config, logger *slog.Logger, opts ...Option) (*Container, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	o := options{version: "dev"}
	for _, opt := range opts {
		opt(&o)
	}

	c := &Container{Config: cfg, Logger: logger}

	steps := []struct {
		name string
		init func() error
	}{
		{"decider", func() error { return c.initDecider(o.decider) }},
		{"grouping", c.initGrouping},
		{"storage", c.initStorage},
		{"ingestion", c.initIngestion},
		{"http", func() error { return c.initHTTP(o.version) }},
	}
	for _, step := range steps {
		if err := step.init(); err != nil {
			_ = c.Close()
			return nil, fmt.Errorf("failed to initialize %s: %w", step.name, err)
		}
	}

	logger.Info("Container initialized",
		"ai_provider", cfg.AI.Provider,
		"stemmer", cfg.Grouping.StemmerLanguage,
		"snapshot_db", cfg.SnapshotDatabasePath != "",
		"inbox", cfg.InboxDir,
	)
	return c, nil
}

// Close освобождает ресурсы контейнера
func (c *Container) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true

	if c.SnapshotDB != nil {
		if err := c.SnapshotDB.Close(); err != nil {
			return fmt.Errorf("failed to close snapshot database: %w", err)
		}
	}
	return nil
}
