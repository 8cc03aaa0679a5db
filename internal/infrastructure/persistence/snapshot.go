package persistence

import (
	"context"
	"errors"

	"catalogdedup/internal/domain/grouping"
)

// SnapshotWriter сохраняет снимок групп
type SnapshotWriter interface {
	WriteSnapshot(ctx context.Context, reason string, groups []grouping.GroupView) error
}

// MultiWriter пишет снимок во все writers и объединяет их ошибки
type MultiWriter []SnapshotWriter

// WriteSnapshot реализует SnapshotWriter
func (m MultiWriter) WriteSnapshot(ctx context.Context, reason string, groups []grouping.GroupView) error {
	var errs []error
	for _, w := range m {
		if err := w.WriteSnapshot(ctx, reason, groups); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
