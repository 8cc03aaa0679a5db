package extractors

import (
	"bytes"
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"catalogdedup/internal/domain/ingestion"
)

// XLSXExtractor читает первый лист книги Excel, первая строка - заголовок
type XLSXExtractor struct{}

// NewXLSXExtractor создает экстрактор XLSX
func NewXLSXExtractor() *XLSXExtractor {
	return &XLSXExtractor{}
}

// Extract реализует ingestion.Extractor
func (e *XLSXExtractor) Extract(_ context.Context, content []byte) ([]ingestion.Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("no sheets found in Excel file")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %w", err)
	}

	// пропускаем пустые строки перед заголовком
	for len(rows) > 0 && isEmptyRow(rows[0]) {
		rows = rows[1:]
	}
	if len(rows) == 0 {
		return nil, nil
	}

	return []ingestion.Table{newTable(rows[0], rows[1:])}, nil
}
