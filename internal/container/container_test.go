package container

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalogdedup/internal/config"
)

// fakeChatServer OpenAI-совместимый сервер: колонки "codigo, descricao", группы "-1"
func fakeChatServer(t *testing.T, calls *atomic.Int64) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "/chat/completions", r.URL.Path)

		var req struct {
			Messages []struct {
				Content string `json:"content"`
			} `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		answer := "-1"
		if strings.Contains(req.Messages[0].Content, "Colunas disponíveis") {
			answer = "codigo, descricao"
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{{"message": map[string]string{"role": "assistant", "content": answer}}},
		})
	}))
}

func testConfig(t *testing.T, baseURL string) *config.Config {
	t.Helper()
	cfg := config.GetDefaults()
	cfg.AI.BaseURL = baseURL
	cfg.AI.RateLimitPerSec = 0
	cfg.Grouping.RandomSeed = 1
	dir := t.TempDir()
	cfg.DumpPath = filepath.Join(dir, "groups.json")
	cfg.UploadDir = filepath.Join(dir, "ingested_files")
	cfg.SnapshotDatabasePath = ":memory:"
	return cfg
}

func TestNewContainer_EndToEnd(t *testing.T) {
	var calls atomic.Int64
	srv := fakeChatServer(t, &calls)
	defer srv.Close()

	c, err := NewContainer(testConfig(t, srv.URL), slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	defer c.Close()

	require.NotNil(t, c.SnapshotDB)
	assert.Len(t, c.Snapshots, 2)
	assert.Nil(t, c.Inbox)

	upload := func(name, content string) int {
		var body bytes.Buffer
		mw := multipart.NewWriter(&body)
		part, err := mw.CreateFormFile("file", name)
		require.NoError(t, err)
		_, _ = part.Write([]byte(content))
		require.NoError(t, mw.Close())

		req := httptest.NewRequest(http.MethodPost, "/api/uploadfile", &body)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		w := httptest.NewRecorder()
		c.Router.ServeHTTP(w, req)
		return w.Code
	}

	require.Equal(t, http.StatusOK, upload("a.csv", "codigo,descricao\n1,Caixa de Som\n2,Mouse Sem Fio\n"))
	assert.EqualValues(t, 1, calls.Load(), "bootstrap needs only the column selection")

	require.Equal(t, http.StatusOK, upload("b.csv", "codigo,descricao\n3,Teclado Mecanico\n"))
	assert.Equal(t, 3, c.Repository.Len())
	assert.FileExists(t, filepath.Join(c.Config.UploadDir, "b.csv"))

	w := httptest.NewRecorder()
	c.Router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/dump", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.FileExists(t, c.Config.DumpPath)

	records, err := c.SnapshotDB.ListSnapshots(t.Context(), 10)
	require.NoError(t, err)
	assert.Len(t, records, 1)

	w = httptest.NewRecorder()
	c.Router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/stats", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"decisions"`)
}

func TestNewContainer_RequiresAPIKey(t *testing.T) {
	cfg := testConfig(t, "")
	cfg.AI.APIKey = ""

	_, err := NewContainer(cfg, nil)
	assert.ErrorContains(t, err, "api key is required")
}

func TestNewContainer_RejectsUnknownStemmer(t *testing.T) {
	cfg := testConfig(t, "http://localhost:1")
	cfg.Grouping.StemmerLanguage = "klingon"

	_, err := NewContainer(cfg, nil)
	assert.ErrorContains(t, err, "unsupported stemmer language")
}

func TestNewContainer_InboxEnabled(t *testing.T) {
	cfg := testConfig(t, "http://localhost:1")
	cfg.InboxDir = t.TempDir()
	cfg.SnapshotDatabasePath = ""

	c, err := NewContainer(cfg, nil)
	require.NoError(t, err)
	defer c.Close()

	assert.NotNil(t, c.Inbox)
	assert.Len(t, c.Snapshots, 1)
	require.NoError(t, c.Close())
}
