package extractors

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/ledongthuc/pdf"

	"catalogdedup/internal/domain/ingestion"
)

const (
	// defaultCellGap горизонтальный разрыв (в пунктах), начиная с которого фрагменты текста
	// относятся к разным ячейкам
	defaultCellGap = 8.0
	// wordGap разрыв, начиная с которого между фрагментами ставится пробел
	wordGap = 1.5
)

// PDFExtractor восстанавливает таблицу из текстовых строк PDF.
// Первая строка хотя бы из двух ячеек - заголовок; ячейки остальных строк
// относятся к колонке, ближайшей по горизонтали.
type PDFExtractor struct {
	cellGap float64
}

// NewPDFExtractor создает экстрактор PDF
func NewPDFExtractor() *PDFExtractor {
	return &PDFExtractor{cellGap: defaultCellGap}
}

// textRun фрагмент текста строки с горизонтальной позицией
type textRun struct {
	X, W float64
	S    string
}

// cell ячейка строки: склеенные фрагменты и координата начала
type cell struct {
	X    float64
	Text string
}

// Extract реализует ingestion.Extractor
func (e *PDFExtractor) Extract(ctx context.Context, content []byte) ([]ingestion.Table, error) {
	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}

	var lines [][]textRun
	for i := 1; i <= reader.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			return nil, fmt.Errorf("failed to read text of page %d: %w", i, err)
		}
		for _, row := range rows {
			runs := make([]textRun, 0, len(row.Content))
			for _, t := range row.Content {
				runs = append(runs, textRun{X: t.X, W: t.W, S: t.S})
			}
			lines = append(lines, runs)
		}
	}

	table, ok := e.tableFromLines(lines)
	if !ok {
		return nil, nil
	}
	return []ingestion.Table{table}, nil
}

// tableFromLines строит таблицу из строк текста
func (e *PDFExtractor) tableFromLines(lines [][]textRun) (ingestion.Table, bool) {
	var header []cell
	var records [][]string

	for _, line := range lines {
		cells := e.cells(line)
		if len(cells) == 0 {
			continue
		}
		if header == nil {
			if len(cells) >= 2 {
				header = cells
			}
			continue
		}
		// повтор заголовка на следующих страницах
		if sameTexts(cells, header) {
			continue
		}
		records = append(records, assignToColumns(cells, header))
	}

	if header == nil {
		return ingestion.Table{}, false
	}
	names := make([]string, len(header))
	for i, h := range header {
		names[i] = h.Text
	}
	return newTable(names, records), true
}

// cells склеивает соседние фрагменты в ячейки по горизонтальному разрыву
func (e *PDFExtractor) cells(line []textRun) []cell {
	runs := slices.Clone(line)
	slices.SortStableFunc(runs, func(a, b textRun) int {
		switch {
		case a.X < b.X:
			return -1
		case a.X > b.X:
			return 1
		default:
			return 0
		}
	})

	var cells []cell
	var current strings.Builder
	var start, end float64
	flush := func() {
		if text := strings.TrimSpace(current.String()); text != "" {
			cells = append(cells, cell{X: start, Text: strings.Join(strings.Fields(text), " ")})
		}
		current.Reset()
	}

	for i, r := range runs {
		if i > 0 {
			gap := r.X - end
			switch {
			case gap >= e.cellGap:
				flush()
				start = r.X
			case gap >= wordGap:
				current.WriteByte(' ')
			}
		} else {
			start = r.X
		}
		current.WriteString(r.S)
		end = math.Max(end, r.X+r.W)
	}
	flush()
	return cells
}

// assignToColumns относит каждую ячейку к ближайшей колонке заголовка
func assignToColumns(cells, header []cell) []string {
	record := make([]string, len(header))
	for _, c := range cells {
		best, bestDist := 0, math.Inf(1)
		for i, h := range header {
			if d := math.Abs(c.X - h.X); d < bestDist {
				best, bestDist = i, d
			}
		}
		if record[best] == "" {
			record[best] = c.Text
		} else {
			record[best] += " " + c.Text
		}
	}
	return record
}

func sameTexts(a, b []cell) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Text != b[i].Text {
			return false
		}
	}
	return true
}
