package ingestion

import (
	"context"
	"time"

	"catalogdedup/internal/domain/grouping"
)

// Service интерфейс загрузки файлов каталога
type Service interface {
	// Ingest извлекает записи из файла, строит элементы и группирует их одной партией
	Ingest(ctx context.Context, upload Upload) (*Result, error)

	// Stats возвращает накопленную статистику загрузок
	Stats() Stats
}

// Upload загруженный файл
type Upload struct {
	Name    string
	Content []byte
}

// Result результат обработки одного файла
type Result struct {
	FileName   string               `json:"file_name"`
	Signature  string               `json:"signature"`
	Items      int                  `json:"items"`
	Selection  *ColumnSelection     `json:"-"`
	Batch      *grouping.BatchStats `json:"batch,omitempty"`
	ReceivedAt time.Time            `json:"received_at"`
}

// Stats сводка загрузок за время работы процесса
type Stats struct {
	Files          int64 `json:"files"`
	Items          int64 `json:"items"`
	Duplicates     int64 `json:"duplicates"`
	CachedColumns  int   `json:"cached_column_sets"`
	KnownSignature int   `json:"known_signatures"`
}
