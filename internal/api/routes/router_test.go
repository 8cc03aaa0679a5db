package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalogdedup/internal/api/handlers/common"
	groupinghandler "catalogdedup/internal/api/handlers/grouping"
	"catalogdedup/internal/api/handlers/system"
	groupingapp "catalogdedup/internal/application/grouping"
	"catalogdedup/internal/domain/grouping"
	"catalogdedup/internal/domain/ingestion"
	"catalogdedup/internal/infrastructure/extractors"
	"catalogdedup/internal/infrastructure/persistence"
	"catalogdedup/normalization/algorithms"
	"catalogdedup/server/middleware"
)

const catalogCSV = "codigo,descricao\nA1,Caixa de Som Bluetooth Preta\nA2,Mouse Gamer RGB\nA3,Cabo USB Tipo C\n"

type testServer struct {
	router   *gin.Engine
	repo     *grouping.Repository
	dumpPath string
	failing  atomic.Bool
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	ts := &testServer{dumpPath: filepath.Join(t.TempDir(), "groups.json")}
	decider := grouping.DeciderFunc(func(_ context.Context, prompt string) (string, error) {
		if strings.Contains(prompt, "Colunas disponíveis") {
			return "codigo, descricao", nil
		}
		if ts.failing.Load() {
			return "", errors.New("provider unavailable")
		}
		return "-1", nil
	})

	stemmer := algorithms.NewPortugueseStemmer()
	ts.repo = grouping.NewRepository(stemmer)
	scorer := grouping.NewScorer(grouping.DefaultScorerConfig(), grouping.NewRandomSampler(3))
	engine := grouping.NewEngine(ts.repo, scorer, decider, grouping.DefaultEngineConfig(), logger)
	ingest := ingestion.NewService(extractors.Registry(),
		ingestion.NewColumnSelectionCache(decider, logger),
		ingestion.NewContentRegistry(),
		grouping.NewItemFactory(stemmer), engine, logger)

	useCase := groupingapp.NewUseCase(ts.repo, ingest,
		grouping.NewReclassificationService(ts.repo, logger),
		grouping.NewAuditor(ts.repo, scorer, grouping.DefaultSimilarityThreshold),
		persistence.NewJSONDumpWriter(ts.dumpPath, logger), logger)

	errorHandler := middleware.NewErrorHandler(logger, nil)
	base := common.NewBaseHandlerImpl(errorHandler)
	ts.router = NewRouter(Handlers{
		Grouping: groupinghandler.NewHandler(base, useCase, 1<<20),
		System:   system.NewHandler(base, useCase, errorHandler.Metrics(), "test"),
	}, logger, RegisterOptions{EnableCORS: true})
	return ts
}

func (ts *testServer) do(t *testing.T, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

func (ts *testServer) upload(t *testing.T, name, content string) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/uploadfile", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return ts.do(t, req)
}

func (ts *testServer) move(t *testing.T, systemID, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/items/"+systemID+"/move", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return ts.do(t, req)
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestUploadFile(t *testing.T) {
	ts := newTestServer(t)

	w := ts.upload(t, "catalogo.csv", catalogCSV)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	result := decode[ingestion.Result](t, w)
	assert.Equal(t, 3, result.Items)
	assert.Equal(t, "catalogo.csv", result.FileName)
	assert.Equal(t, []int{0, 1, 2}, ts.repo.GroupIDs())

	t.Run("duplicate content", func(t *testing.T) {
		w := ts.upload(t, "copia.csv", catalogCSV)
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("unsupported format", func(t *testing.T) {
		w := ts.upload(t, "notas.txt", "qualquer coisa")
		assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)
	})

	t.Run("missing file field", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/uploadfile", strings.NewReader(""))
		w := ts.do(t, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("reasoning failure", func(t *testing.T) {
		ts.failing.Store(true)
		defer ts.failing.Store(false)

		w := ts.upload(t, "novo.csv", "codigo,descricao\nB1,Teclado Mecanico\n")
		assert.Equal(t, http.StatusBadGateway, w.Code)

		// подпись забыта, повторная загрузка возможна
		ts.failing.Store(false)
		w = ts.upload(t, "novo.csv", "codigo,descricao\nB1,Teclado Mecanico\n")
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestGroups(t *testing.T) {
	ts := newTestServer(t)
	require.Equal(t, http.StatusOK, ts.upload(t, "catalogo.csv", catalogCSV).Code)

	w := ts.do(t, httptest.NewRequest(http.MethodGet, "/api/groups?offset=1&limit=1", nil))
	require.Equal(t, http.StatusOK, w.Code)
	page := decode[groupinghandler.GroupPageDTO](t, w)
	assert.Equal(t, 3, page.Total)
	require.Len(t, page.Groups, 1)
	assert.Equal(t, 1, page.Groups[0].ID)

	w = ts.do(t, httptest.NewRequest(http.MethodGet, "/api/groups/0", nil))
	require.Equal(t, http.StatusOK, w.Code)
	group := decode[groupinghandler.GroupDTO](t, w)
	require.Len(t, group.Items, 1)
	assert.Equal(t, "A1", group.Items[0].OriginalID)
	assert.Equal(t, "caixa de som bluetooth preta", group.Items[0].Description)

	assert.Equal(t, http.StatusNotFound, ts.do(t, httptest.NewRequest(http.MethodGet, "/api/groups/99", nil)).Code)
	assert.Equal(t, http.StatusBadRequest, ts.do(t, httptest.NewRequest(http.MethodGet, "/api/groups/abc", nil)).Code)
	assert.Equal(t, http.StatusBadRequest, ts.do(t, httptest.NewRequest(http.MethodGet, "/api/groups?limit=0", nil)).Code)
}

func TestMoveItem(t *testing.T) {
	ts := newTestServer(t)
	require.Equal(t, http.StatusOK, ts.upload(t, "catalogo.csv", catalogCSV).Code)

	members, err := ts.repo.Members(0)
	require.NoError(t, err)
	systemID := members[0].SystemID

	w := ts.move(t, systemID, `{"group_id": 1, "keywords": ["Som"]}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	outcome := decode[groupingapp.MoveOutcome](t, w)
	assert.Equal(t, 0, outcome.PreviousGroupID)
	assert.Equal(t, 1, outcome.GroupID)
	assert.Empty(t, outcome.SuspiciousItems)

	keyWords, err := ts.repo.KeyWords(1)
	require.NoError(t, err)
	assert.Contains(t, keyWords, "som")

	w = ts.move(t, systemID, `{"group_id": -1}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 3, decode[groupingapp.MoveOutcome](t, w).GroupID)

	assert.Equal(t, http.StatusNotFound, ts.move(t, "missing", `{"group_id": 1}`).Code)
	assert.Equal(t, http.StatusNotFound, ts.move(t, systemID, `{"group_id": 99}`).Code)
	assert.Equal(t, http.StatusBadRequest, ts.move(t, systemID, `{}`).Code)
	assert.Equal(t, http.StatusBadRequest, ts.move(t, systemID, `{"group_id": -5}`).Code)
}

func TestDumpHealthAndStats(t *testing.T) {
	ts := newTestServer(t)
	require.Equal(t, http.StatusOK, ts.upload(t, "catalogo.csv", catalogCSV).Code)

	w := ts.do(t, httptest.NewRequest(http.MethodPost, "/api/dump", nil))
	require.Equal(t, http.StatusOK, w.Code)

	data, err := os.ReadFile(ts.dumpPath)
	require.NoError(t, err)
	var dump map[string][]persistence.DumpEntry
	require.NoError(t, json.Unmarshal(data, &dump))
	require.Len(t, dump, 3)
	assert.Equal(t, "catalogo.csv", dump["2"][0].OriginFile)

	w = ts.do(t, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	require.Equal(t, http.StatusOK, w.Code)
	health := decode[system.HealthResponse](t, w)
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, 3, health.Groups)

	ts.do(t, httptest.NewRequest(http.MethodGet, "/api/groups/99", nil))
	w = ts.do(t, httptest.NewRequest(http.MethodGet, "/api/stats", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var stats map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Contains(t, stats, "repository")
	assert.Contains(t, stats, "ingestion")
	assert.Contains(t, stats, "errors")
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
}
