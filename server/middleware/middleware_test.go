package middleware

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "catalogdedup/server/errors"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// setupGinTestRouter создает тестовый Gin роутер с базовыми middleware
func setupGinTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(GinRequestIDMiddleware(), GinRecoveryMiddleware(discardLogger()), GinLoggerMiddleware(discardLogger()))
	return router
}

func TestGinRequestIDMiddleware(t *testing.T) {
	router := setupGinTestRouter()
	var seen string
	router.GET("/test", func(c *gin.Context) {
		seen = GetRequestID(c.Request.Context())
		c.Status(http.StatusOK)
	})

	t.Run("generates id", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

		assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
		assert.Equal(t, w.Header().Get(RequestIDHeader), seen)
	})

	t.Run("keeps incoming id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set(RequestIDHeader, "fixed-id")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, "fixed-id", w.Header().Get(RequestIDHeader))
		assert.Equal(t, "fixed-id", seen)
	})
}

func TestGinRecoveryMiddleware(t *testing.T) {
	router := setupGinTestRouter()
	router.GET("/panic", func(c *gin.Context) {
		panic("boom")
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	require.Equal(t, http.StatusInternalServerError, w.Code)
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "internal server error", resp.Error)
	assert.NotEmpty(t, resp.RequestID)
}

func TestGinCORSMiddleware_Preflight(t *testing.T) {
	router := setupGinTestRouter()
	router.Use(GinCORSMiddleware())
	router.POST("/api/dump", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/api/dump", nil))

	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestErrorHandler_Handle(t *testing.T) {
	metrics := apperrors.NewErrorMetricsCollector()
	handler := NewErrorHandler(discardLogger(), metrics)

	router := setupGinTestRouter()
	router.GET("/groups/:id", func(c *gin.Context) {
		handler.Handle(c, apperrors.NewNotFoundError("group not found", errors.New("no such group")))
	})
	router.GET("/plain", func(c *gin.Context) {
		handler.Handle(c, errors.New("disk full"))
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/groups/9", nil))
	require.Equal(t, http.StatusNotFound, w.Code)
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "group not found", resp.Error)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/plain", nil))
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "disk full")

	snap := metrics.Snapshot()
	assert.EqualValues(t, 2, snap.TotalErrors)
	assert.EqualValues(t, 1, snap.ErrorsByEndpoint["/groups/:id"])
}
