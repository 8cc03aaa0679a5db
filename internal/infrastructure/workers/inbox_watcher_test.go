package workers

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalogdedup/internal/domain/ingestion"
)

type recordingService struct {
	mu      sync.Mutex
	uploads []ingestion.Upload
	seen    map[string]bool
}

func (s *recordingService) Ingest(_ context.Context, upload ingestion.Upload) (*ingestion.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.seen == nil {
		s.seen = make(map[string]bool)
	}
	sig := ingestion.ContentSignature(upload.Content)
	if s.seen[sig] {
		return nil, ingestion.ErrDuplicateContent
	}
	s.seen[sig] = true
	s.uploads = append(s.uploads, upload)
	return &ingestion.Result{FileName: upload.Name, Items: 1}, nil
}

func (s *recordingService) Stats() ingestion.Stats { return ingestion.Stats{} }

func (s *recordingService) names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.uploads))
	for _, u := range s.uploads {
		names = append(names, u.Name)
	}
	return names
}

var csvOnly = ingestion.ExtractorRegistry{".csv": ingestion.ExtractorFunc(func(context.Context, []byte) ([]ingestion.Table, error) {
	return nil, nil
})}

func startWatcher(t *testing.T, dir string, svc ingestion.Service) (cancel func()) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	watcher := NewInboxWatcher(dir, svc, csvOnly, logger).WithDebounce(20 * time.Millisecond)

	ctx, cancelFn := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- watcher.Run(ctx) }()

	return func() {
		cancelFn()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Fatal("watcher did not stop")
		}
	}
}

func TestInboxWatcher_ProcessesExistingAndNewFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "existing.csv"), []byte("a\n1\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	svc := &recordingService{}
	stop := startWatcher(t, dir, svc)
	defer stop()

	require.Eventually(t, func() bool {
		return len(svc.names()) == 1
	}, 3*time.Second, 10*time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "new.csv"), []byte("a\n2\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".hidden.csv"), []byte("a\n3\n"), 0o644))

	require.Eventually(t, func() bool {
		return len(svc.names()) == 2
	}, 3*time.Second, 10*time.Millisecond)

	assert.ElementsMatch(t, []string{"existing.csv", "new.csv"}, svc.names())
}

func TestInboxWatcher_DuplicateContentIsSkipped(t *testing.T) {
	dir := t.TempDir()
	svc := &recordingService{}
	stop := startWatcher(t, dir, svc)
	defer stop()

	// ждем регистрации наблюдателя
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.csv"), []byte("a\n1\n"), 0o644))
	require.Eventually(t, func() bool {
		return len(svc.names()) == 1
	}, 3*time.Second, 10*time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.csv"), []byte("a\n1\n"), 0o644))
	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, []string{"a.csv"}, svc.names())
}

func TestInboxWatcher_Accepts(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.csv"), []byte("x"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.csv"), 0o755))

	w := NewInboxWatcher(dir, &recordingService{}, csvOnly, nil)
	assert.True(t, w.accepts(filepath.Join(dir, "a.csv")))
	assert.False(t, w.accepts(filepath.Join(dir, "sub.csv")))
	assert.False(t, w.accepts(filepath.Join(dir, "missing.csv")))
}

func TestInboxWatcher_RescheduleAcrossDebounce(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.csv")
	require.NoError(t, os.WriteFile(path, []byte("a\n1\n"), 0o644))

	svc := &recordingService{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	w := NewInboxWatcher(dir, svc, csvOnly, logger).WithDebounce(time.Millisecond)

	// события идут то чаще, то реже паузы, таймеры срабатывают между ними
	deadline := time.Now().Add(200 * time.Millisecond)
	for i := 0; time.Now().Before(deadline); i++ {
		w.schedule(context.Background(), path)
		time.Sleep(time.Duration(i%4) * 500 * time.Microsecond)
	}
	w.stop()

	assert.Equal(t, []string{"a.csv"}, svc.names())
	w.mu.Lock()
	defer w.mu.Unlock()
	assert.Empty(t, w.timers)
}
