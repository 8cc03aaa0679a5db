package container

import (
	"time"

	"catalogdedup/internal/domain/grouping"
	"catalogdedup/normalization/algorithms"
)

// initGrouping инициализирует репозиторий, оценку и движок группировки
func (c *Container) initGrouping() error {
	g := c.Config.Grouping

	stemmer, err := algorithms.NewStemmer(g.StemmerLanguage)
	if err != nil {
		return err
	}
	c.Stemmer = stemmer

	seed := g.RandomSeed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	c.Repository = grouping.NewRepository(stemmer)
	c.Scorer = grouping.NewScorer(grouping.ScorerConfig{
		JaccardWeight:     g.JaccardWeight,
		LevenshteinWeight: g.LevenshteinWeight,
		SampleSize:        g.SampleSize,
	}, grouping.NewRandomSampler(seed))

	c.Engine = grouping.NewEngine(c.Repository, c.Scorer, c.Decider, grouping.EngineConfig{
		SimilarityThreshold: g.SimilarityThreshold,
		MaxCandidates:       g.MaxCandidates,
		KeywordMatchRatio:   g.KeywordMatchRatio,
		ScoringWorkers:      g.ScoringWorkers,
	}, c.Logger.With("component", "engine"))
	return nil
}
