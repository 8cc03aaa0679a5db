package grouping

import (
	"fmt"
	"strconv"
	"strings"
)

// GroupSelectionPrompt запрос выбора группы для нового элемента.
// Параметры: список кандидатов, описание нового элемента, допустимые значения ответа.
const GroupSelectionPrompt = `
Seu papel é identificar se o novo item descreve o mesmo produto (mesma marca e mesmo modelo) que algum dos itens listados, mesmo que com variações leves de escrita ou descrição.

Considere equivalentes apenas itens com a mesma marca e o mesmo modelo, permitindo abreviações, ordem diferente das palavras ou descrições complementares. Diferenças relevantes de especificação (capacidade, versão, geração, cor quando indicada) indicam que os itens NÃO são equivalentes.

Itens existentes:
%s

Novo item:
%s

Responda exclusivamente com um único número entre os valores possíveis: %s
Use -1 se nenhum item existente for equivalente.
`

// CandidateEntry кандидат для выбора: группа и описание ее представителя
type CandidateEntry struct {
	GroupID     int
	Description string
}

// BuildGroupSelectionPrompt формирует запрос выбора группы
func BuildGroupSelectionPrompt(candidates []CandidateEntry, description string) string {
	lines := make([]string, 0, len(candidates))
	values := make([]string, 0, len(candidates)+1)
	for _, c := range candidates {
		lines = append(lines, fmt.Sprintf("- número do item: %d, descrição: %s", c.GroupID, c.Description))
		values = append(values, strconv.Itoa(c.GroupID))
	}
	values = append(values, strconv.Itoa(NewGroupID))

	return strings.TrimSpace(fmt.Sprintf(GroupSelectionPrompt,
		strings.Join(lines, "\n"),
		"Descrição: "+description,
		strings.Join(values, ", "),
	))
}

// ParseGroupSelection разбирает ответ на запрос выбора группы.
// Возвращает ID одной из предложенных групп или NewGroupID для ответа "-1".
// Любой другой ответ - нарушение протокола.
func ParseGroupSelection(response string, candidates []CandidateEntry) (int, error) {
	trimmed := strings.TrimSpace(response)
	selected, err := strconv.Atoi(trimmed)
	if err != nil {
		return 0, fmt.Errorf("%w: non-integer group selection %q", ErrProtocolViolation, response)
	}
	if selected == NewGroupID {
		return NewGroupID, nil
	}
	for _, c := range candidates {
		if c.GroupID == selected {
			return selected, nil
		}
	}
	return 0, fmt.Errorf("%w: group %d was not offered", ErrProtocolViolation, selected)
}
