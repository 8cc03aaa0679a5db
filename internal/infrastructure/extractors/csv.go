package extractors

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"catalogdedup/internal/domain/ingestion"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVExtractor читает CSV: кодировка UTF-8 или Windows-1252, разделитель определяется по заголовку
type CSVExtractor struct{}

// NewCSVExtractor создает экстрактор CSV
func NewCSVExtractor() *CSVExtractor {
	return &CSVExtractor{}
}

// Extract реализует ingestion.Extractor
func (e *CSVExtractor) Extract(_ context.Context, content []byte) ([]ingestion.Table, error) {
	data, err := decodeText(content)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = sniffDelimiter(data)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV headers: %w", err)
	}

	var records [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row %d: %w", len(records)+2, err)
		}
		records = append(records, record)
	}

	return []ingestion.Table{newTable(header, records)}, nil
}

// decodeText возвращает UTF-8 без BOM; невалидный UTF-8 считается Windows-1252
func decodeText(content []byte) ([]byte, error) {
	content = bytes.TrimPrefix(content, utf8BOM)
	if utf8.Valid(content) {
		return content, nil
	}
	decoded, _, err := transform.Bytes(charmap.Windows1252.NewDecoder(), content)
	if err != nil {
		return nil, fmt.Errorf("failed to decode Windows-1252: %w", err)
	}
	return decoded, nil
}

// sniffDelimiter выбирает самый частый из ",", ";", "\t" в первой строке вне кавычек
func sniffDelimiter(data []byte) rune {
	counts := map[rune]int{',': 0, ';': 0, '\t': 0}
	inQuotes := false
	for _, r := range string(data) {
		if r == '"' {
			inQuotes = !inQuotes
			continue
		}
		if inQuotes {
			continue
		}
		if r == '\n' {
			break
		}
		if _, ok := counts[r]; ok {
			counts[r]++
		}
	}

	best := ','
	for _, r := range []rune{';', '\t'} {
		if counts[r] > counts[best] {
			best = r
		}
	}
	return best
}
