package ingestion

import (
	"context"
	"path/filepath"
	"strings"
)

// Field пара "колонка - значение" одной строки таблицы
type Field struct {
	Name  string
	Value string
}

// Table таблица, извлеченная из загруженного файла
type Table struct {
	Columns []string
	Rows    []map[string]string
}

// Row возвращает строку i в порядке колонок
func (t Table) Row(i int) []Field {
	fields := make([]Field, 0, len(t.Columns))
	for _, col := range t.Columns {
		if v, ok := t.Rows[i][col]; ok {
			fields = append(fields, Field{Name: col, Value: v})
		}
	}
	return fields
}

// Extractor извлекает таблицы из содержимого файла определенного формата
type Extractor interface {
	Extract(ctx context.Context, content []byte) ([]Table, error)
}

// ExtractorFunc адаптер функции к интерфейсу Extractor
type ExtractorFunc func(ctx context.Context, content []byte) ([]Table, error)

// Extract реализует Extractor
func (f ExtractorFunc) Extract(ctx context.Context, content []byte) ([]Table, error) {
	return f(ctx, content)
}

// ExtractorRegistry сопоставляет расширения файлов с экстракторами
type ExtractorRegistry map[string]Extractor

// For находит экстрактор по имени файла
func (r ExtractorRegistry) For(fileName string) (Extractor, bool) {
	ext := strings.ToLower(filepath.Ext(fileName))
	e, ok := r[ext]
	return e, ok
}

// MergeTables объединяет таблицы по объединению колонок в порядке первого появления
func MergeTables(tables []Table) Table {
	merged := Table{}
	seen := make(map[string]bool)
	for _, t := range tables {
		for _, col := range t.Columns {
			if !seen[col] {
				seen[col] = true
				merged.Columns = append(merged.Columns, col)
			}
		}
		merged.Rows = append(merged.Rows, t.Rows...)
	}
	return merged
}
