// Package extractors извлекает таблицы из загружаемых файлов каталога
package extractors

import (
	"fmt"
	"strings"

	"catalogdedup/internal/domain/ingestion"
)

// Registry возвращает экстракторы для всех поддерживаемых форматов
func Registry() ingestion.ExtractorRegistry {
	html := NewHTMLExtractor()
	return ingestion.ExtractorRegistry{
		".csv":  NewCSVExtractor(),
		".xlsx": NewXLSXExtractor(),
		".pdf":  NewPDFExtractor(),
		".html": html,
		".htm":  html,
	}
}

// newTable строит таблицу из заголовка и записей.
// Пустые имена колонок заменяются на column_N, повторяющиеся получают суффикс.
func newTable(header []string, records [][]string) ingestion.Table {
	columns := normalizeHeader(header)
	table := ingestion.Table{Columns: columns}

	for _, record := range records {
		if isEmptyRow(record) {
			continue
		}
		row := make(map[string]string, len(columns))
		for i, col := range columns {
			if i < len(record) {
				row[col] = strings.TrimSpace(record[i])
			}
		}
		table.Rows = append(table.Rows, row)
	}
	return table
}

func normalizeHeader(header []string) []string {
	columns := make([]string, len(header))
	seen := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.Join(strings.Fields(h), " ")
		if name == "" {
			name = fmt.Sprintf("column_%d", i+1)
		}
		seen[name]++
		if n := seen[name]; n > 1 {
			name = fmt.Sprintf("%s_%d", name, n)
		}
		columns[i] = name
	}
	return columns
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
