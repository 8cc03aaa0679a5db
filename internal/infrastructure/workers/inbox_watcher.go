package workers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"catalogdedup/internal/domain/ingestion"
)

// DefaultDebounce пауза после последнего события по файлу перед его обработкой
const DefaultDebounce = 500 * time.Millisecond

// InboxWatcher следит за каталогом и передает новые файлы в ingestion.Service
type InboxWatcher struct {
	dir        string
	debounce   time.Duration
	service    ingestion.Service
	extractors ingestion.ExtractorRegistry
	logger     *slog.Logger

	mu     sync.Mutex
	timers map[string]*time.Timer
	wg     sync.WaitGroup
}

// NewInboxWatcher создает наблюдатель каталога
func NewInboxWatcher(dir string, service ingestion.Service, extractors ingestion.ExtractorRegistry, logger *slog.Logger) *InboxWatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &InboxWatcher{
		dir:        dir,
		debounce:   DefaultDebounce,
		service:    service,
		extractors: extractors,
		logger:     logger,
		timers:     make(map[string]*time.Timer),
	}
}

// WithDebounce задает паузу перед обработкой файла
func (w *InboxWatcher) WithDebounce(d time.Duration) *InboxWatcher {
	w.debounce = d
	return w
}

// Run обрабатывает уже лежащие в каталоге файлы и следит за новыми до отмены ctx
func (w *InboxWatcher) Run(ctx context.Context) error {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create inbox directory: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(w.dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.dir, err)
	}
	w.logger.Info("Inbox watcher started", "dir", w.dir)

	w.scanExisting(ctx)

	for {
		select {
		case <-ctx.Done():
			w.stop()
			w.logger.Info("Inbox watcher stopped", "dir", w.dir)
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				w.stop()
				return nil
			}
			if event.Has(fsnotify.Create) || event.Has(fsnotify.Write) {
				if w.accepts(event.Name) {
					w.schedule(ctx, event.Name)
				}
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				w.stop()
				return nil
			}
			w.logger.Error("Inbox watcher error", "error", err)
		}
	}
}

func (w *InboxWatcher) scanExisting(ctx context.Context) {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		w.logger.Error("Failed to read inbox directory", "dir", w.dir, "error", err)
		return
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	slices.Sort(names)
	for _, name := range names {
		path := filepath.Join(w.dir, name)
		if w.accepts(path) {
			w.schedule(ctx, path)
		}
	}
}

// accepts обычный видимый файл поддерживаемого формата
func (w *InboxWatcher) accepts(path string) bool {
	if strings.HasPrefix(filepath.Base(path), ".") {
		return false
	}
	if _, ok := w.extractors.For(path); !ok {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// schedule откладывает обработку файла до паузы в событиях.
// Каждое событие заводит новый таймер; прежний останавливается, а если он уже
// сработал, его обработка завершается сама и не трогает запись нового таймера.
func (w *InboxWatcher) schedule(ctx context.Context, path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.wg.Add(1)
	if prev, ok := w.timers[path]; ok && prev.Stop() {
		w.wg.Done()
	}

	var t *time.Timer
	t = time.AfterFunc(w.debounce, func() {
		defer w.wg.Done()
		w.mu.Lock()
		if w.timers[path] == t {
			delete(w.timers, path)
		}
		w.mu.Unlock()
		w.process(ctx, path)
	})
	w.timers[path] = t
}

func (w *InboxWatcher) stop() {
	w.mu.Lock()
	for path, t := range w.timers {
		if t.Stop() {
			w.wg.Done()
		}
		delete(w.timers, path)
	}
	w.mu.Unlock()
	w.wg.Wait()
}

func (w *InboxWatcher) process(ctx context.Context, path string) {
	if ctx.Err() != nil {
		return
	}
	content, err := os.ReadFile(path)
	if err != nil {
		w.logger.Error("Failed to read inbox file", "file", path, "error", err)
		return
	}

	result, err := w.service.Ingest(ctx, ingestion.Upload{Name: filepath.Base(path), Content: content})
	switch {
	case errors.Is(err, ingestion.ErrDuplicateContent):
		w.logger.Info("Inbox file skipped, content already processed", "file", path)
	case err != nil:
		w.logger.Error("Failed to ingest inbox file", "file", path, "error", err)
	default:
		w.logger.Info("Inbox file ingested", "file", path, "items", result.Items)
	}
}
