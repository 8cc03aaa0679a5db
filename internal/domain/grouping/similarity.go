package grouping

import (
	"hash/fnv"
	"math/rand/v2"
	"sync"

	"catalogdedup/normalization/algorithms"
)

const (
	// DefaultJaccardWeight вес расстояния Жаккара
	DefaultJaccardWeight = 1.30
	// DefaultLevenshteinWeight вес нормированного расстояния Левенштейна
	DefaultLevenshteinWeight = 0.70
	// DefaultSampleSize сколько членов группы сравнивается с элементом
	DefaultSampleSize = 5
)

// ScorerConfig веса и размер выборки для оценки расстояний
type ScorerConfig struct {
	JaccardWeight     float64
	LevenshteinWeight float64
	SampleSize        int
}

// DefaultScorerConfig возвращает конфигурацию по умолчанию
func DefaultScorerConfig() ScorerConfig {
	return ScorerConfig{
		JaccardWeight:     DefaultJaccardWeight,
		LevenshteinWeight: DefaultLevenshteinWeight,
		SampleSize:        DefaultSampleSize,
	}
}

// Sampler выбирает k различных индексов из [0, n) без возвращения
type Sampler interface {
	Sample(n, k int) []int
}

// RandomSampler равномерная выборка на основе math/rand/v2, безопасна для конкурентного использования
type RandomSampler struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomSampler создает выборку с заданным зерном
func NewRandomSampler(seed uint64) *RandomSampler {
	return &RandomSampler{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Sample реализует Sampler
func (s *RandomSampler) Sample(n, k int) []int {
	if k > n {
		k = n
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Perm(n)[:k]
}

// seededSampler детерминированная выборка для повторяемых расчетов (аудит)
func seededSampler(key string, groupID int) Sampler {
	h := fnv.New64a()
	h.Write([]byte(key))
	return NewRandomSampler(h.Sum64() ^ uint64(groupID))
}

// Scorer вычисляет смешанное расстояние между элементами. Меньше - значит похожее.
type Scorer struct {
	cfg     ScorerConfig
	sampler Sampler
}

// NewScorer создает вычислитель расстояний
func NewScorer(cfg ScorerConfig, sampler Sampler) *Scorer {
	if cfg.SampleSize <= 0 {
		cfg.SampleSize = DefaultSampleSize
	}
	if sampler == nil {
		sampler = NewRandomSampler(rand.Uint64())
	}
	return &Scorer{cfg: cfg, sampler: sampler}
}

// WithSampler возвращает копию с другим источником выборки
func (s *Scorer) WithSampler(sampler Sampler) *Scorer {
	return &Scorer{cfg: s.cfg, sampler: sampler}
}

// PairwiseDistance вычисляет (wJ*jaccard + wL*levenshtein) / 2
func (s *Scorer) PairwiseDistance(a, b *Item) float64 {
	jaccard := algorithms.JaccardDistance(a.WordSet, b.WordSet)
	levenshtein := algorithms.NormalizedLevenshtein(a.UnifiedDescription, b.UnifiedDescription)
	return (s.cfg.JaccardWeight*jaccard + s.cfg.LevenshteinWeight*levenshtein) / 2.0
}

// DistanceToGroup среднее расстояние до членов группы. При размере группы не меньше
// SampleSize усредняется по случайной выборке из SampleSize членов.
// Для пустой группы возвращает 1.0.
func (s *Scorer) DistanceToGroup(item *Item, members []*Item) float64 {
	if len(members) == 0 {
		return 1.0
	}

	if len(members) < s.cfg.SampleSize {
		total := 0.0
		for _, member := range members {
			total += s.PairwiseDistance(item, member)
		}
		return total / float64(len(members))
	}

	idxs := s.sampler.Sample(len(members), s.cfg.SampleSize)
	total := 0.0
	for _, idx := range idxs {
		total += s.PairwiseDistance(item, members[idx])
	}
	return total / float64(len(idxs))
}
