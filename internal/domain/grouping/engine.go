package grouping

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"slices"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	// DefaultSimilarityThreshold расстояние, ниже которого группа считается кандидатом
	DefaultSimilarityThreshold = 0.35
	// DefaultMaxCandidates максимум кандидатов-совпадений, передаваемых на выбор
	DefaultMaxCandidates = 4
	// DefaultKeywordMatchRatio доля ключевых слов группы, которая должна встретиться в описании
	DefaultKeywordMatchRatio = 0.8
)

// EngineConfig параметры алгоритма назначения групп
type EngineConfig struct {
	SimilarityThreshold float64
	MaxCandidates       int
	KeywordMatchRatio   float64
	ScoringWorkers      int
}

// DefaultEngineConfig возвращает конфигурацию по умолчанию
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		SimilarityThreshold: DefaultSimilarityThreshold,
		MaxCandidates:       DefaultMaxCandidates,
		KeywordMatchRatio:   DefaultKeywordMatchRatio,
		ScoringWorkers:      runtime.GOMAXPROCS(0),
	}
}

// GroupScore расстояние от элемента до группы
type GroupScore struct {
	GroupID  int
	Distance float64
}

// BatchStats статистика обработки одной партии
type BatchStats struct {
	Items           int           `json:"items"`
	Assigned        int           `json:"assigned"`
	Bootstrap       bool          `json:"bootstrap"`
	Direct          int           `json:"direct"`
	Escalations     int           `json:"escalations"`
	NewGroups       int           `json:"new_groups"`
	DecisionLatency time.Duration `json:"decision_latency"`
	Elapsed         time.Duration `json:"elapsed"`
}

// Engine распределяет новые элементы по группам: порог схожести, проверка ключевых слов
// и эскалация неоднозначных случаев к Decider
type Engine struct {
	repo    *Repository
	scorer  *Scorer
	decider Decider
	cfg     EngineConfig
	logger  *slog.Logger
}

// NewEngine создает движок группировки
func NewEngine(repo *Repository, scorer *Scorer, decider Decider, cfg EngineConfig, logger *slog.Logger) *Engine {
	if cfg.ScoringWorkers <= 0 {
		cfg.ScoringWorkers = runtime.GOMAXPROCS(0)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		repo:    repo,
		scorer:  scorer,
		decider: decider,
		cfg:     cfg,
		logger:  logger,
	}
}

// Group распределяет партию элементов одной единицы загрузки.
// Расстояния считаются по снимку групп до первого назначения в партии,
// назначения выполняются строго в порядке партии.
func (e *Engine) Group(ctx context.Context, items []*Item) (*BatchStats, error) {
	start := time.Now()
	stats := &BatchStats{Items: len(items)}
	if len(items) == 0 {
		return stats, nil
	}

	if e.repo.Len() == 0 {
		stats.Bootstrap = true
		for _, item := range items {
			if _, err := e.repo.CreateGroup(item); err != nil {
				return stats, err
			}
			stats.NewGroups++
			stats.Assigned++
		}
		stats.Elapsed = time.Since(start)
		e.logger.Info("Bootstrapped groups", "items", len(items), "elapsed", stats.Elapsed)
		return stats, nil
	}

	scores, err := e.ComputeScores(ctx, items)
	if err != nil {
		return stats, err
	}

	for i, item := range items {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		if err := e.assign(ctx, item, scores[i], stats); err != nil {
			return stats, fmt.Errorf("failed to assign item %d (%s): %w", i, item.SystemID, err)
		}
		stats.Assigned++
	}

	stats.Elapsed = time.Since(start)
	e.logger.Info("Grouped items",
		"items", len(items),
		"elapsed", stats.Elapsed,
		"decision_latency", stats.DecisionLatency,
		"decision_usage", fmt.Sprintf("%d/%d", stats.Escalations, len(items)),
		"direct", stats.Direct,
		"new_groups", stats.NewGroups,
	)
	return stats, nil
}

// ComputeScores оценивает каждый элемент против всех непустых групп снимка.
// scores[i] отсортирован по возрастанию расстояния.
func (e *Engine) ComputeScores(ctx context.Context, items []*Item) ([][]GroupScore, error) {
	snapshot := e.repo.scoringSnapshot()
	scores := make([][]GroupScore, len(items))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.ScoringWorkers)
	for i := range items {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			scores[i] = e.scoreItem(items[i], snapshot)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return scores, nil
}

func (e *Engine) scoreItem(item *Item, snapshot []groupMembers) []GroupScore {
	scores := make([]GroupScore, 0, len(snapshot))
	for _, g := range snapshot {
		scores = append(scores, GroupScore{GroupID: g.id, Distance: e.scorer.DistanceToGroup(item, g.members)})
	}
	// снимок упорядочен по ID, стабильная сортировка сохраняет этот порядок при равенстве
	slices.SortStableFunc(scores, func(a, b GroupScore) int {
		switch {
		case a.Distance < b.Distance:
			return -1
		case a.Distance > b.Distance:
			return 1
		default:
			return 0
		}
	})
	return scores
}

func (e *Engine) assign(ctx context.Context, item *Item, scores []GroupScore, stats *BatchStats) error {
	candidates := 0
	for _, s := range scores {
		if s.Distance < e.cfg.SimilarityThreshold {
			candidates++
		}
	}

	if candidates == 1 {
		allowed, err := e.keyWordsAllow(scores[0].GroupID, item)
		if err != nil {
			return err
		}
		if allowed {
			stats.Direct++
			return e.repo.AddItem(scores[0].GroupID, item)
		}
	}

	if len(scores) == 0 {
		stats.NewGroups++
		_, err := e.repo.CreateGroup(item)
		return err
	}

	window := min(candidates, e.cfg.MaxCandidates) + 1
	offered := scores[:min(window, len(scores))]

	selected, err := e.escalate(ctx, item, offered, stats)
	if err != nil {
		return err
	}

	if selected == NewGroupID {
		stats.NewGroups++
		_, err := e.repo.CreateGroup(item)
		return err
	}
	return e.repo.AddItem(selected, item)
}

// keyWordsAllow прямое назначение разрешено, если у группы нет ключевых слов
// или в описании встречается не менее KeywordMatchRatio из них
func (e *Engine) keyWordsAllow(groupID int, item *Item) (bool, error) {
	keyWords, err := e.repo.KeyWords(groupID)
	if err != nil {
		return false, err
	}
	if len(keyWords) == 0 {
		return true, nil
	}

	matched := 0
	for _, kw := range keyWords {
		if strings.Contains(item.OriginalDescription, kw) {
			matched++
		}
	}
	return float64(matched)/float64(len(keyWords)) >= e.cfg.KeywordMatchRatio, nil
}

func (e *Engine) escalate(ctx context.Context, item *Item, offered []GroupScore, stats *BatchStats) (int, error) {
	entries := make([]CandidateEntry, 0, len(offered))
	for _, s := range offered {
		rep, ok := e.repo.Representative(s.GroupID)
		if !ok {
			// группа опустела после снимка
			continue
		}
		entries = append(entries, CandidateEntry{GroupID: s.GroupID, Description: rep.OriginalDescription})
	}
	if len(entries) == 0 {
		return NewGroupID, nil
	}

	prompt := BuildGroupSelectionPrompt(entries, item.OriginalDescription)

	started := time.Now()
	response, err := e.decider.Decide(ctx, prompt)
	stats.DecisionLatency += time.Since(started)
	stats.Escalations++
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrEscalationFailed, err)
	}

	selected, err := ParseGroupSelection(response, entries)
	if err != nil {
		e.logger.Error("Invalid group selection response",
			"item", item.SystemID,
			"response", response,
			"error", err,
		)
		return 0, err
	}

	e.logger.Debug("Group selected by decider",
		"item", item.SystemID,
		"candidates", len(entries),
		"selected", selected,
	)
	return selected, nil
}
