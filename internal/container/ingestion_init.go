package container

import (
	groupingapp "catalogdedup/internal/application/grouping"
	"catalogdedup/internal/domain/grouping"
	"catalogdedup/internal/domain/ingestion"
	"catalogdedup/internal/infrastructure/extractors"
	"catalogdedup/internal/infrastructure/persistence"
	"catalogdedup/internal/infrastructure/workers"
)

// initIngestion инициализирует загрузку файлов, use case и наблюдатель каталога
func (c *Container) initIngestion() error {
	logger := c.Logger.With("component", "ingestion")

	c.Extractors = extractors.Registry()
	c.Ingestion = ingestion.NewService(
		c.Extractors,
		ingestion.NewColumnSelectionCache(c.Decider, logger),
		ingestion.NewContentRegistry(),
		grouping.NewItemFactory(c.Stemmer),
		c.Engine,
		logger,
	)

	c.UseCase = groupingapp.NewUseCase(
		c.Repository,
		c.Ingestion,
		grouping.NewReclassificationService(c.Repository, c.Logger.With("component", "reclassification")),
		grouping.NewAuditor(c.Repository, c.Scorer, c.Config.Grouping.SimilarityThreshold),
		c.Snapshots,
		c.Logger,
	)
	if c.Config.UploadDir != "" {
		c.UseCase.WithArchive(persistence.NewUploadArchive(c.Config.UploadDir))
	}
	if c.AIMetrics != nil {
		metrics := c.AIMetrics
		c.UseCase.WithDecisionStats(func() any { return metrics.Snapshot() })
	}

	if c.Config.InboxDir != "" {
		c.Inbox = workers.NewInboxWatcher(c.Config.InboxDir, c.Ingestion, c.Extractors, c.Logger.With("component", "inbox"))
	}
	return nil
}
