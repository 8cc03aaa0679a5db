package server

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalogdedup/internal/config"
	"catalogdedup/internal/container"
	"catalogdedup/internal/domain/grouping"
)

func TestServer_RunServesAndDumpsOnShutdown(t *testing.T) {
	dir := t.TempDir()
	cfg := config.GetDefaults()
	cfg.Port = "0"
	cfg.DumpPath = filepath.Join(dir, "groups.json")
	cfg.UploadDir = ""
	cfg.InboxDir = filepath.Join(dir, "inbox")
	require.NoError(t, os.MkdirAll(cfg.InboxDir, 0o755))

	decider := grouping.DeciderFunc(func(context.Context, string) (string, error) {
		return "codigo, descricao", nil
	})
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	c, err := container.NewContainer(cfg, logger, container.WithDecider(decider))
	require.NoError(t, err)

	srv := New(c)
	require.NoError(t, srv.Listen())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	require.NoError(t, os.WriteFile(filepath.Join(cfg.InboxDir, "lista.csv"),
		[]byte("codigo,descricao\n1,Caixa de Som\n2,Mouse\n"), 0o644))
	require.Eventually(t, func() bool { return c.Repository.Len() == 2 }, 5*time.Second, 20*time.Millisecond)

	resp, err := http.Get("http://" + srv.Addr() + "/api/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not stop")
	}

	data, err := os.ReadFile(cfg.DumpPath)
	require.NoError(t, err)
	var dump map[string][]map[string]string
	require.NoError(t, json.Unmarshal(data, &dump))
	assert.Len(t, dump, 2)
	assert.Equal(t, "lista.csv", dump["0"][0]["originFile"])
}
