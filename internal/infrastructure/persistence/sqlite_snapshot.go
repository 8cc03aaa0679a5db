package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"catalogdedup/database"
	"catalogdedup/internal/domain/grouping"
)

// SQLiteSnapshotWriter адаптер между снимком групп и database.SnapshotDB
type SQLiteSnapshotWriter struct {
	db *database.SnapshotDB
}

// NewSQLiteSnapshotWriter создает writer
func NewSQLiteSnapshotWriter(db *database.SnapshotDB) *SQLiteSnapshotWriter {
	return &SQLiteSnapshotWriter{db: db}
}

// WriteSnapshot реализует SnapshotWriter
func (w *SQLiteSnapshotWriter) WriteSnapshot(ctx context.Context, reason string, groups []grouping.GroupView) error {
	record := database.SnapshotRecord{
		ID:        uuid.New().String(),
		Reason:    reason,
		Groups:    len(groups),
		CreatedAt: time.Now().UTC(),
	}

	rows := make([]database.SnapshotGroup, 0, len(groups))
	for _, g := range groups {
		sg := database.SnapshotGroup{GroupID: g.ID, KeyWords: g.KeyWords}
		for _, item := range g.Items {
			sg.Items = append(sg.Items, database.SnapshotItem{
				SystemID:    item.SystemID,
				OriginalID:  item.OriginalID,
				OriginFile:  item.OriginFile,
				Description: item.OriginalDescription,
			})
		}
		record.Items += len(sg.Items)
		rows = append(rows, sg)
	}

	if err := w.db.SaveSnapshot(ctx, record, rows); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}
