package grouping

import (
	"strings"
	"sync/atomic"

	"github.com/google/uuid"

	"catalogdedup/normalization/algorithms"
)

// Item нормализованное представление одной записи каталога, используемое для сравнения.
// WordSet и UnifiedDescription вычисляются один раз при создании и далее не меняются.
type Item struct {
	SystemID            string
	OriginalID          string
	OriginFile          string
	OriginalDescription string
	WordSet             map[string]struct{}
	UnifiedDescription  string

	// groupRef обратная ссылка на группу (id+1, 0 - вне группы), меняется только репозиторием
	groupRef atomic.Int64
}

// GroupID возвращает идентификатор текущей группы элемента
func (i *Item) GroupID() (int, bool) {
	ref := i.groupRef.Load()
	if ref == 0 {
		return 0, false
	}
	return int(ref - 1), true
}

func (i *Item) setGroupID(id int) {
	i.groupRef.Store(int64(id) + 1)
}

func (i *Item) clearGroupID() {
	i.groupRef.Store(0)
}

// ItemFactory создает элементы из описательных полей записи
type ItemFactory struct {
	normalizer *algorithms.TextNormalizer
	stemmer    algorithms.Stemmer
}

// NewItemFactory создает фабрику элементов с заданным стеммером
func NewItemFactory(stemmer algorithms.Stemmer) *ItemFactory {
	if stemmer == nil {
		stemmer = algorithms.NewPortugueseStemmer()
	}
	return &ItemFactory{
		normalizer: algorithms.NewTextNormalizer(),
		stemmer:    stemmer,
	}
}

// NewItem строит элемент из описательных полей. Никогда не завершается ошибкой:
// пустой вход дает пустое множество слов и пустое объединенное описание.
func (f *ItemFactory) NewItem(descriptiveFields []string, originFile, originalID string) *Item {
	description := f.normalizer.Normalize(strings.Join(descriptiveFields, " "))
	tokens := f.normalizer.Tokenize(description)

	stemmed := make([]string, len(tokens))
	for i, token := range tokens {
		stemmed[i] = f.stemmer.Stem(token)
	}

	return &Item{
		SystemID:            uuid.New().String(),
		OriginalID:          originalID,
		OriginFile:          originFile,
		OriginalDescription: description,
		WordSet:             algorithms.TokenSet(stemmed),
		UnifiedDescription:  strings.Join(stemmed, ""),
	}
}

// Stemmer возвращает стеммер фабрики (используется для ключевых слов групп)
func (f *ItemFactory) Stemmer() algorithms.Stemmer {
	return f.stemmer
}
