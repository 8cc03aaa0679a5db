package extractors

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/charset"

	"catalogdedup/internal/domain/ingestion"
)

// HTMLExtractor извлекает все элементы <table> документа
type HTMLExtractor struct{}

// NewHTMLExtractor создает экстрактор HTML
func NewHTMLExtractor() *HTMLExtractor {
	return &HTMLExtractor{}
}

// Extract реализует ingestion.Extractor
func (e *HTMLExtractor) Extract(_ context.Context, content []byte) ([]ingestion.Table, error) {
	reader, err := charset.NewReader(bytes.NewReader(content), "text/html")
	if err != nil {
		return nil, fmt.Errorf("failed to detect charset: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	var tables []ingestion.Table
	doc.Find("table").Each(func(_ int, table *goquery.Selection) {
		var header []string
		var records [][]string

		table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
			// строки вложенных таблиц обрабатываются отдельно
			if tr.Closest("table").Get(0) != table.Get(0) {
				return
			}
			headCells := tr.ChildrenFiltered("th")
			if header == nil && headCells.Length() > 0 {
				header = cellTexts(tr.ChildrenFiltered("th, td"))
				return
			}
			cells := cellTexts(tr.ChildrenFiltered("td, th"))
			if header == nil {
				header = cells
				return
			}
			records = append(records, cells)
		})

		if len(header) > 0 {
			tables = append(tables, newTable(header, records))
		}
	})
	return tables, nil
}

func cellTexts(cells *goquery.Selection) []string {
	texts := make([]string, 0, cells.Length())
	cells.Each(func(_ int, cell *goquery.Selection) {
		texts = append(texts, strings.Join(strings.Fields(cell.Text()), " "))
	})
	return texts
}
