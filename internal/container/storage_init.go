package container

import (
	"fmt"

	"catalogdedup/database"
	"catalogdedup/internal/infrastructure/persistence"
)

// initStorage инициализирует JSON дамп и, если задан путь, SQLite снимки
func (c *Container) initStorage() error {
	c.Snapshots = persistence.MultiWriter{
		persistence.NewJSONDumpWriter(c.Config.DumpPath, c.Logger.With("component", "dump")),
	}

	if c.Config.SnapshotDatabasePath == "" {
		return nil
	}
	db, err := database.NewSnapshotDB(c.Config.SnapshotDatabasePath)
	if err != nil {
		return fmt.Errorf("snapshot database: %w", err)
	}
	c.SnapshotDB = db
	c.Snapshots = append(c.Snapshots, persistence.NewSQLiteSnapshotWriter(db))
	return nil
}
