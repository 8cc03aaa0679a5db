package ingestion

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"

	"catalogdedup/internal/domain/grouping"
)

// ColumnSelectionPrompt запрос выбора описательных колонок таблицы
const ColumnSelectionPrompt = `
Seu papel é identificar quais colunas descrevem diretamente o item em si (modelo, marca ou características), e não informações administrativas ou operacionais.

Retorne apenas os nomes das colunas relevantes, separados por vírgula, sem qualquer texto adicional. Jamais invente ou adicione colunas que não estejam presentes na lista fornecida. A primeira coluna retornada deve ser a que identifica o item na origem (código ou identificador). Ignore colunas como preço, quantidade, estoque ou unidade. Considere apenas colunas que descrevem o item de forma específica, como nome do produto, marca e descrição textual.

Colunas disponíveis: %s

Exemplo de item:
%s

Responda imediatamente apenas com os nomes das colunas separados por vírgula.
`

// ColumnSelection решение о колонках таблицы
type ColumnSelection struct {
	IdentifierColumn   string
	DescriptiveColumns []string
	Raw                string
}

// ColumnSignature сигнатура неупорядоченного множества имен колонок
func ColumnSignature(columns []string) string {
	unique := slices.Clone(columns)
	slices.Sort(unique)
	unique = slices.Compact(unique)
	sum := sha256.Sum256([]byte(strings.Join(unique, "\x00")))
	return hex.EncodeToString(sum[:])
}

// ParseColumnSelection разбирает ответ: первый элемент - колонка-идентификатор,
// остальные - описательные колонки
func ParseColumnSelection(raw string) (ColumnSelection, error) {
	parts := strings.Split(raw, ",")
	idCol := strings.TrimSpace(parts[0])
	if idCol == "" {
		return ColumnSelection{}, fmt.Errorf("%w: %q", ErrInvalidColumnSelection, raw)
	}

	selection := ColumnSelection{IdentifierColumn: idCol, Raw: raw}
	for _, p := range parts[1:] {
		col := strings.TrimSpace(p)
		if col == "" || col == idCol {
			continue
		}
		selection.DescriptiveColumns = append(selection.DescriptiveColumns, col)
	}
	return selection, nil
}

// ResolveColumnSelection разбирает ответ и сверяет его с колонками таблицы.
// Идентификатор и хотя бы одна описательная колонка должны быть среди columns,
// неизвестные описательные колонки отбрасываются. Имена сравниваются без учета регистра.
func ResolveColumnSelection(raw string, columns []string) (ColumnSelection, error) {
	parsed, err := ParseColumnSelection(raw)
	if err != nil {
		return ColumnSelection{}, err
	}

	find := func(name string) (string, bool) {
		for _, col := range columns {
			if strings.EqualFold(col, name) {
				return col, true
			}
		}
		return "", false
	}

	idCol, ok := find(parsed.IdentifierColumn)
	if !ok {
		return ColumnSelection{}, fmt.Errorf("%w: unknown identifier column %q", ErrInvalidColumnSelection, parsed.IdentifierColumn)
	}

	resolved := ColumnSelection{IdentifierColumn: idCol, Raw: raw}
	for _, name := range parsed.DescriptiveColumns {
		col, ok := find(name)
		if !ok || col == idCol || slices.Contains(resolved.DescriptiveColumns, col) {
			continue
		}
		resolved.DescriptiveColumns = append(resolved.DescriptiveColumns, col)
	}
	if len(resolved.DescriptiveColumns) == 0 {
		return ColumnSelection{}, fmt.Errorf("%w: no known descriptive columns in %q", ErrInvalidColumnSelection, raw)
	}
	return resolved, nil
}

// BuildColumnSelectionPrompt формирует запрос выбора колонок
func BuildColumnSelectionPrompt(columns []string, example []Field) string {
	lines := make([]string, 0, len(example))
	for _, f := range example {
		lines = append(lines, fmt.Sprintf("- %s: %s", f.Name, f.Value))
	}
	return strings.TrimSpace(fmt.Sprintf(ColumnSelectionPrompt,
		strings.Join(columns, ", "),
		strings.Join(lines, "\n"),
	))
}

// ColumnSelectionCache кэш решений о колонках по сигнатуре множества колонок.
// Записи живут все время работы процесса.
type ColumnSelectionCache struct {
	decider grouping.Decider
	logger  *slog.Logger

	mu      sync.RWMutex
	entries map[string]string
	group   singleflight.Group
}

// NewColumnSelectionCache создает кэш
func NewColumnSelectionCache(decider grouping.Decider, logger *slog.Logger) *ColumnSelectionCache {
	if logger == nil {
		logger = slog.Default()
	}
	return &ColumnSelectionCache{
		decider: decider,
		logger:  logger,
		entries: make(map[string]string),
	}
}

// Select возвращает выбор колонок, обращаясь к Decider только при промахе.
// Одновременные промахи по одной сигнатуре выполняют один запрос; отмена ctx
// одного вызывающего не прерывает запрос для остальных.
func (c *ColumnSelectionCache) Select(ctx context.Context, columns []string, example []Field) (ColumnSelection, error) {
	if len(columns) == 0 {
		return ColumnSelection{}, ErrEmptyTable
	}
	signature := ColumnSignature(columns)

	if raw, ok := c.lookup(signature); ok {
		c.logger.Debug("Column selection cache hit", "signature", signature[:12])
		return ResolveColumnSelection(raw, columns)
	}

	// запрос живет дольше отмененного вызывающего, время ограничивает сам Decider
	flightCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(signature, func() (any, error) {
		if raw, ok := c.lookup(signature); ok {
			return raw, nil
		}
		c.logger.Debug("Column selection cache miss", "signature", signature[:12], "columns", len(columns))

		raw, err := c.decider.Decide(flightCtx, BuildColumnSelectionPrompt(columns, example))
		if err != nil {
			return "", fmt.Errorf("%w: %w", grouping.ErrEscalationFailed, err)
		}
		if _, err := ResolveColumnSelection(raw, columns); err != nil {
			c.logger.Warn("Rejected column selection", "response", raw, "error", err)
			return "", err
		}

		c.mu.Lock()
		c.entries[signature] = raw
		c.mu.Unlock()
		return raw, nil
	})

	select {
	case <-ctx.Done():
		return ColumnSelection{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return ColumnSelection{}, res.Err
		}
		return ResolveColumnSelection(res.Val.(string), columns)
	}
}

// Len количество закэшированных сигнатур
func (c *ColumnSelectionCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *ColumnSelectionCache) lookup(signature string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	raw, ok := c.entries[signature]
	return raw, ok
}
