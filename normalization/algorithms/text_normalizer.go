package algorithms

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// TextNormalizer приводит описание товара к сравнимому виду:
// без диакритики, в нижнем регистре, с одиночными пробелами
type TextNormalizer struct{}

// NewTextNormalizer создает новый нормализатор текста
func NewTextNormalizer() *TextNormalizer {
	return &TextNormalizer{}
}

// Normalize выполняет полную нормализацию текста
func (tn *TextNormalizer) Normalize(text string) string {
	// 1. Удаление диакритических знаков
	text = RemoveDiacritics(text)

	// 2. Схлопывание пробелов
	text = strings.Join(strings.Fields(text), " ")

	// 3. Приведение к нижнему регистру
	return strings.ToLower(text)
}

// Tokenize разбивает нормализованный текст на слова
func (tn *TextNormalizer) Tokenize(text string) []string {
	return strings.Fields(text)
}

// RemoveDiacritics удаляет диакритические знаки: "Ação" -> "Acao".
// Цепочка transform не потокобезопасна, поэтому создается на каждый вызов.
func RemoveDiacritics(text string) string {
	if text == "" {
		return ""
	}

	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, err := transform.String(t, text)
	if err != nil {
		return text
	}
	return result
}
