package grouping

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"catalogdedup/normalization/algorithms"
)

var testFactory = NewItemFactory(algorithms.NewPortugueseStemmer())

func newTestItem(description string) *Item {
	return testFactory.NewItem([]string{description}, "test.csv", description)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// recordingDecider отвечает заранее заданными ответами и запоминает запросы
type recordingDecider struct {
	mu        sync.Mutex
	responses []string
	fallback  string
	err       error
	prompts   []string
}

func (d *recordingDecider) Decide(_ context.Context, prompt string) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.prompts = append(d.prompts, prompt)
	if d.err != nil {
		return "", d.err
	}
	if len(d.responses) > 0 {
		resp := d.responses[0]
		d.responses = d.responses[1:]
		return resp, nil
	}
	return d.fallback, nil
}

func (d *recordingDecider) calls() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.prompts)
}

func newTestEngine(t *testing.T, repo *Repository, decider Decider) *Engine {
	t.Helper()
	scorer := NewScorer(DefaultScorerConfig(), NewRandomSampler(1))
	return NewEngine(repo, scorer, decider, DefaultEngineConfig(), discardLogger())
}

func countCandidateLines(prompt string) int {
	return strings.Count(prompt, "- número do item:")
}
