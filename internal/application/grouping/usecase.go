package grouping

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"catalogdedup/internal/domain/grouping"
	"catalogdedup/internal/domain/ingestion"
)

// SnapshotWriter сохраняет снимок групп (JSON дамп, SQLite)
type SnapshotWriter interface {
	WriteSnapshot(ctx context.Context, reason string, groups []grouping.GroupView) error
}

// UploadArchive сохраняет принятые файлы
type UploadArchive interface {
	Store(name string, content []byte) (string, error)
}

// MoveOutcome результат ручного перемещения вместе с подозрительными элементами
type MoveOutcome struct {
	PreviousGroupID int                       `json:"previous_group_id"`
	GroupID         int                       `json:"group_id"`
	SuspiciousItems []grouping.SuspiciousItem `json:"suspicious_items"`
}

// DumpResult итог записи снимка
type DumpResult struct {
	Reason  string    `json:"reason"`
	Groups  int       `json:"groups"`
	Items   int       `json:"items"`
	Written time.Time `json:"written_at"`
}

// Stats сводная статистика сервиса
type Stats struct {
	Repository grouping.RepositoryStats `json:"repository"`
	Ingestion  ingestion.Stats          `json:"ingestion"`
	Decisions  any                      `json:"decisions,omitempty"`
	StartedAt  time.Time                `json:"started_at"`
}

// UseCase координирует загрузку файлов, просмотр групп и ручную переклассификацию
type UseCase struct {
	repo          *grouping.Repository
	ingestion     ingestion.Service
	reclassifier  *grouping.ReclassificationService
	auditor       *grouping.Auditor
	writer        SnapshotWriter
	archive       UploadArchive
	decisionStats func() any
	startedAt     time.Time
	logger        *slog.Logger
}

// NewUseCase создает use case группировки
func NewUseCase(
	repo *grouping.Repository,
	ingestionService ingestion.Service,
	reclassifier *grouping.ReclassificationService,
	auditor *grouping.Auditor,
	writer SnapshotWriter,
	logger *slog.Logger,
) *UseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &UseCase{
		repo:         repo,
		ingestion:    ingestionService,
		reclassifier: reclassifier,
		auditor:      auditor,
		writer:       writer,
		startedAt:    time.Now(),
		logger:       logger,
	}
}

// WithDecisionStats подключает источник статистики внешних решений
func (uc *UseCase) WithDecisionStats(source func() any) *UseCase {
	uc.decisionStats = source
	return uc
}

// WithArchive включает сохранение принятых файлов
func (uc *UseCase) WithArchive(archive UploadArchive) *UseCase {
	uc.archive = archive
	return uc
}

// UploadFile принимает файл каталога и группирует его записи.
// Принятый файл сохраняется в архив; ошибка архива не отменяет группировку.
func (uc *UseCase) UploadFile(ctx context.Context, name string, content []byte) (*ingestion.Result, error) {
	result, err := uc.ingestion.Ingest(ctx, ingestion.Upload{Name: name, Content: content})
	if err != nil {
		return result, fmt.Errorf("failed to ingest %s: %w", name, err)
	}

	if uc.archive != nil {
		if path, err := uc.archive.Store(name, content); err != nil {
			uc.logger.Warn("Failed to archive upload", "file", name, "error", err)
		} else {
			uc.logger.Debug("Upload archived", "file", name, "path", path)
		}
	}
	return result, nil
}

// ListGroups возвращает страницу групп
func (uc *UseCase) ListGroups(offset, limit, itemLimit int) grouping.GroupPage {
	return uc.repo.ListGroups(offset, limit, itemLimit)
}

// GetGroup возвращает одну группу
func (uc *UseCase) GetGroup(groupID, itemLimit int) (grouping.GroupView, error) {
	view, err := uc.repo.Group(groupID, itemLimit)
	if err != nil {
		return grouping.GroupView{}, fmt.Errorf("failed to get group %d: %w", groupID, err)
	}
	return view, nil
}

// MoveItem переносит элемент и проверяет оставшихся членов исходной группы
func (uc *UseCase) MoveItem(ctx context.Context, systemID string, targetGroupID int, keyWords []string) (*MoveOutcome, error) {
	moved, err := uc.reclassifier.ChangeItemGroup(ctx, systemID, targetGroupID, keyWords)
	if err != nil {
		return nil, fmt.Errorf("failed to move item %s: %w", systemID, err)
	}

	outcome := &MoveOutcome{
		PreviousGroupID: moved.PreviousGroupID,
		GroupID:         moved.GroupID,
		SuspiciousItems: []grouping.SuspiciousItem{},
	}
	// перенос в ту же группу ничего не меняет, сравнивать группу с самой собой бессмысленно
	if moved.PreviousGroupID == moved.GroupID {
		return outcome, nil
	}

	suspicious, err := uc.auditor.FindSuspiciousItems(moved.PreviousGroupID, moved.GroupID)
	if err != nil {
		return nil, fmt.Errorf("failed to audit group %d: %w", moved.PreviousGroupID, err)
	}
	outcome.SuspiciousItems = suspicious
	return outcome, nil
}

// Stats возвращает сводную статистику
func (uc *UseCase) Stats() Stats {
	stats := Stats{
		Repository: uc.repo.Stats(),
		Ingestion:  uc.ingestion.Stats(),
		StartedAt:  uc.startedAt,
	}
	if uc.decisionStats != nil {
		stats.Decisions = uc.decisionStats()
	}
	return stats
}

// Dump записывает снимок всех групп
func (uc *UseCase) Dump(ctx context.Context, reason string) (*DumpResult, error) {
	if uc.writer == nil {
		return nil, fmt.Errorf("failed to dump groups: no snapshot writer configured")
	}

	groups := uc.repo.Snapshot()
	if err := uc.writer.WriteSnapshot(ctx, reason, groups); err != nil {
		return nil, fmt.Errorf("failed to dump groups: %w", err)
	}

	result := &DumpResult{Reason: reason, Groups: len(groups), Written: time.Now()}
	for _, g := range groups {
		result.Items += g.Size
	}
	uc.logger.Info("Groups dumped", "reason", reason, "groups", result.Groups, "items", result.Items)
	return result, nil
}
