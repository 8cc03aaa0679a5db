package extractors

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestCSVExtractor(t *testing.T) {
	tests := []struct {
		name    string
		content []byte
		columns []string
		rows    []map[string]string
	}{
		{
			name:    "comma",
			content: []byte("codigo,descricao,preco\n1,\"Caixa de som, preta\",10\n"),
			columns: []string{"codigo", "descricao", "preco"},
			rows:    []map[string]string{{"codigo": "1", "descricao": "Caixa de som, preta", "preco": "10"}},
		},
		{
			name:    "semicolon with BOM",
			content: append([]byte{0xEF, 0xBB, 0xBF}, []byte("codigo;descricao\n1;Mouse\n\n2;Teclado\n")...),
			columns: []string{"codigo", "descricao"},
			rows:    []map[string]string{{"codigo": "1", "descricao": "Mouse"}, {"codigo": "2", "descricao": "Teclado"}},
		},
		{
			name:    "tab",
			content: []byte("sku\tnome\nA\tLapis\n"),
			columns: []string{"sku", "nome"},
			rows:    []map[string]string{{"sku": "A", "nome": "Lapis"}},
		},
		{
			name:    "windows-1252",
			content: []byte("codigo;descri\xe7\xe3o\n1;Cal\xe7a azul\n"),
			columns: []string{"codigo", "descrição"},
			rows:    []map[string]string{{"codigo": "1", "descrição": "Calça azul"}},
		},
		{
			name:    "short rows and blank header",
			content: []byte("codigo,,descricao\n1,x\n"),
			columns: []string{"codigo", "column_2", "descricao"},
			rows:    []map[string]string{{"codigo": "1", "column_2": "x"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tables, err := NewCSVExtractor().Extract(context.Background(), tt.content)
			require.NoError(t, err)
			require.Len(t, tables, 1)
			assert.Equal(t, tt.columns, tables[0].Columns)
			assert.Equal(t, tt.rows, tables[0].Rows)
		})
	}
}

func TestCSVExtractor_Empty(t *testing.T) {
	tables, err := NewCSVExtractor().Extract(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, tables)
}

func TestXLSXExtractor(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]any{"codigo", "descricao", "marca"}))
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]any{"10", "Fone de ouvido", "JBL"}))
	require.NoError(t, f.SetSheetRow(sheet, "A4", &[]any{"11", "Carregador"}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	tables, err := NewXLSXExtractor().Extract(context.Background(), buf.Bytes())
	require.NoError(t, err)
	require.Len(t, tables, 1)

	assert.Equal(t, []string{"codigo", "descricao", "marca"}, tables[0].Columns)
	assert.Equal(t, []map[string]string{
		{"codigo": "10", "descricao": "Fone de ouvido", "marca": "JBL"},
		{"codigo": "11", "descricao": "Carregador"},
	}, tables[0].Rows)
}

func TestXLSXExtractor_InvalidContent(t *testing.T) {
	_, err := NewXLSXExtractor().Extract(context.Background(), []byte("not a workbook"))
	assert.Error(t, err)
}

func TestHTMLExtractor(t *testing.T) {
	content := []byte(`<html><head><meta charset="iso-8859-1"></head><body>
<table>
  <tr><th>codigo</th><th>descri` + "\xe7\xe3" + `o</th></tr>
  <tr><td>1</td><td>Cadeira   gamer</td></tr>
</table>
<p>texto</p>
<table>
  <tr><td>sku</td><td>nome</td></tr>
  <tr><td>A</td><td>Mesa</td></tr>
  <tr><td></td><td></td></tr>
</table>
</body></html>`)

	tables, err := NewHTMLExtractor().Extract(context.Background(), content)
	require.NoError(t, err)
	require.Len(t, tables, 2)

	assert.Equal(t, []string{"codigo", "descrição"}, tables[0].Columns)
	assert.Equal(t, []map[string]string{{"codigo": "1", "descrição": "Cadeira gamer"}}, tables[0].Rows)

	assert.Equal(t, []string{"sku", "nome"}, tables[1].Columns)
	assert.Equal(t, []map[string]string{{"sku": "A", "nome": "Mesa"}}, tables[1].Rows)
}

func TestPDFExtractor_TableFromLines(t *testing.T) {
	e := NewPDFExtractor()
	run := func(x float64, s string) textRun {
		return textRun{X: x, W: float64(len(s)) * 5, S: s}
	}

	lines := [][]textRun{
		{run(10, "Lista de precos")},
		{run(10, "Codigo"), run(100, "Descricao"), run(300, "Preco")},
		{run(10, "1"), run(100, "Caixa"), run(128, "de"), run(141, "som"), run(300, "99")},
		{run(12, "2"), run(102, "Mouse")},
		{run(10, "Codigo"), run(100, "Descricao"), run(300, "Preco")},
		{run(10, "3"), run(100, "Teclado"), run(298, "50")},
	}

	table, ok := e.tableFromLines(lines)
	require.True(t, ok)
	assert.Equal(t, []string{"Codigo", "Descricao", "Preco"}, table.Columns)
	assert.Equal(t, []map[string]string{
		{"Codigo": "1", "Descricao": "Caixa de som", "Preco": "99"},
		{"Codigo": "2", "Descricao": "Mouse", "Preco": ""},
		{"Codigo": "3", "Descricao": "Teclado", "Preco": "50"},
	}, table.Rows)
}

func TestPDFExtractor_CellsJoinFragments(t *testing.T) {
	e := NewPDFExtractor()
	cells := e.cells([]textRun{
		{X: 20, W: 5, S: "b"},
		{X: 10, W: 5, S: "a"},
		{X: 15, W: 5, S: "c"},
		{X: 60, W: 5, S: "z"},
	})

	require.Len(t, cells, 2)
	assert.Equal(t, "acb", cells[0].Text)
	assert.Equal(t, 10.0, cells[0].X)
	assert.Equal(t, "z", cells[1].Text)
}

func TestPDFExtractor_NoTable(t *testing.T) {
	_, ok := NewPDFExtractor().tableFromLines([][]textRun{{{X: 0, W: 10, S: "titulo"}}})
	assert.False(t, ok)
}

func TestPDFExtractor_InvalidContent(t *testing.T) {
	_, err := NewPDFExtractor().Extract(context.Background(), []byte("not a pdf"))
	assert.Error(t, err)
}

func TestRegistry(t *testing.T) {
	registry := Registry()
	for _, name := range []string{"a.csv", "B.XLSX", "c.pdf", "d.html", "e.htm"} {
		_, ok := registry.For(name)
		assert.True(t, ok, name)
	}
	_, ok := registry.For("f.docx")
	assert.False(t, ok)
}
