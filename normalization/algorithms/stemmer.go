package algorithms

import (
	"fmt"
	"strings"
	"sync"

	"github.com/blevesearch/snowballstem"
	"github.com/blevesearch/snowballstem/portuguese"
	"github.com/kljensen/snowball"
)

// DefaultStemmerLanguage язык стемминга по умолчанию (каталоги на португальском)
const DefaultStemmerLanguage = "portuguese"

// Stemmer interface defines methods for stemming words
type Stemmer interface {
	// Stem returns the stemmed version of a word
	Stem(word string) string
}

// snowballLanguages языки, которые обслуживает github.com/kljensen/snowball
var snowballLanguages = map[string]bool{
	"english":   true,
	"spanish":   true,
	"french":    true,
	"russian":   true,
	"swedish":   true,
	"norwegian": true,
	"hungarian": true,
}

// SupportedStemmerLanguages возвращает список поддерживаемых языков
func SupportedStemmerLanguages() []string {
	langs := []string{DefaultStemmerLanguage}
	for lang := range snowballLanguages {
		langs = append(langs, lang)
	}
	return langs
}

// SnowballStemmer implements Snowball stemming with a per-word cache.
// Portuguese is served by blevesearch/snowballstem, the other languages by kljensen/snowball.
type SnowballStemmer struct {
	language string
	stem     func(word string) string
	cache    map[string]string
	mu       sync.RWMutex
}

// NewStemmer создает стеммер для указанного языка
func NewStemmer(language string) (*SnowballStemmer, error) {
	language = strings.ToLower(strings.TrimSpace(language))
	if language == "" {
		language = DefaultStemmerLanguage
	}

	s := &SnowballStemmer{
		language: language,
		cache:    make(map[string]string),
	}

	switch {
	case language == DefaultStemmerLanguage:
		s.stem = stemPortuguese
	case snowballLanguages[language]:
		s.stem = func(word string) string {
			stemmed, err := snowball.Stem(word, language, true)
			if err != nil {
				// If stemming fails, keep the word as is
				return word
			}
			return stemmed
		}
	default:
		return nil, fmt.Errorf("unsupported stemmer language: %s", language)
	}

	return s, nil
}

// NewPortugueseStemmer создает стеммер португальского языка
func NewPortugueseStemmer() *SnowballStemmer {
	s, _ := NewStemmer(DefaultStemmerLanguage)
	return s
}

// Language возвращает язык стеммера
func (s *SnowballStemmer) Language() string {
	return s.language
}

// Stem returns the stemmed version of a word.
// Example: "preta" -> "pret", "preto" -> "pret"
func (s *SnowballStemmer) Stem(word string) string {
	normalized := strings.ToLower(strings.TrimSpace(word))
	if normalized == "" {
		return ""
	}

	s.mu.RLock()
	if cached, found := s.cache[normalized]; found {
		s.mu.RUnlock()
		return cached
	}
	s.mu.RUnlock()

	stemmed := s.stem(normalized)

	s.mu.Lock()
	s.cache[normalized] = stemmed
	s.mu.Unlock()

	return stemmed
}

// StemTokens returns stemmed versions of multiple words, order preserved
func (s *SnowballStemmer) StemTokens(tokens []string) []string {
	stemmed := make([]string, len(tokens))
	for i, token := range tokens {
		stemmed[i] = s.Stem(token)
	}
	return stemmed
}

// GetCacheSize returns the number of cached words
func (s *SnowballStemmer) GetCacheSize() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.cache)
}

func stemPortuguese(word string) string {
	env := snowballstem.NewEnv(word)
	portuguese.Stem(env)
	return env.Current()
}
