package ingestion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"catalogdedup/internal/domain/grouping"
)

// service реализация domain service для ingestion
type service struct {
	extractors ExtractorRegistry
	columns    *ColumnSelectionCache
	registry   *ContentRegistry
	factory    *grouping.ItemFactory
	engine     *grouping.Engine
	logger     *slog.Logger

	files      atomic.Int64
	items      atomic.Int64
	duplicates atomic.Int64
}

// NewService создает новый domain service для ingestion
func NewService(
	extractors ExtractorRegistry,
	columns *ColumnSelectionCache,
	registry *ContentRegistry,
	factory *grouping.ItemFactory,
	engine *grouping.Engine,
	logger *slog.Logger,
) Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &service{
		extractors: extractors,
		columns:    columns,
		registry:   registry,
		factory:    factory,
		engine:     engine,
		logger:     logger,
	}
}

// Ingest обрабатывает один файл. Если обработка не удалась до назначения
// первого элемента, сигнатура содержимого снимается и файл можно загрузить повторно.
func (s *service) Ingest(ctx context.Context, upload Upload) (result *Result, err error) {
	extractor, ok := s.extractors.For(upload.Name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, upload.Name)
	}

	signature, err := s.registry.Register(upload.Content)
	if err != nil {
		if errors.Is(err, ErrDuplicateContent) {
			s.duplicates.Add(1)
			s.logger.Warn("Duplicate upload ignored", "file", upload.Name, "signature", signature)
		}
		return nil, err
	}
	keepSignature := false
	defer func() {
		if err != nil && !keepSignature {
			s.registry.Forget(signature)
		}
	}()

	result = &Result{FileName: upload.Name, Signature: signature, ReceivedAt: time.Now()}

	tables, err := extractor.Extract(ctx, upload.Content)
	if err != nil {
		return nil, fmt.Errorf("failed to extract tables from %s: %w", upload.Name, err)
	}
	table := MergeTables(tables)
	if len(table.Rows) == 0 {
		s.logger.Warn("No rows found in file", "file", upload.Name)
		s.files.Add(1)
		return result, nil
	}

	selection, err := s.columns.Select(ctx, table.Columns, table.Row(0))
	if err != nil {
		return nil, fmt.Errorf("failed to select columns for %s: %w", upload.Name, err)
	}
	result.Selection = &selection

	items := s.buildItems(upload.Name, table, selection)

	batch, err := s.engine.Group(ctx, items)
	result.Batch = batch
	if err != nil {
		// частично сгруппированный файл повторно не принимается
		keepSignature = batch != nil && batch.Assigned > 0
		return nil, fmt.Errorf("failed to group items from %s: %w", upload.Name, err)
	}

	result.Items = len(items)
	s.files.Add(1)
	s.items.Add(int64(len(items)))

	s.logger.Info("File ingested",
		"file", upload.Name,
		"items", len(items),
		"identifier_column", selection.IdentifierColumn,
		"descriptive_columns", selection.DescriptiveColumns,
	)
	return result, nil
}

func (s *service) buildItems(fileName string, table Table, selection ColumnSelection) []*grouping.Item {
	items := make([]*grouping.Item, 0, len(table.Rows))
	for _, row := range table.Rows {
		fields := make([]string, 0, len(selection.DescriptiveColumns))
		for _, col := range selection.DescriptiveColumns {
			if v, ok := row[col]; ok {
				fields = append(fields, v)
			}
		}
		items = append(items, s.factory.NewItem(fields, fileName, row[selection.IdentifierColumn]))
	}
	return items
}

// Stats возвращает накопленную статистику загрузок
func (s *service) Stats() Stats {
	return Stats{
		Files:          s.files.Load(),
		Items:          s.items.Load(),
		Duplicates:     s.duplicates.Load(),
		CachedColumns:  s.columns.Len(),
		KnownSignature: s.registry.Len(),
	}
}
