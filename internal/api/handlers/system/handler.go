package system

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"catalogdedup/internal/api/handlers/common"
	groupingapp "catalogdedup/internal/application/grouping"
	apperrors "catalogdedup/server/errors"
)

// Handler системные эндпоинты: здоровье и статистика
type Handler struct {
	baseHandler  common.BaseHandlerInterface
	useCase      *groupingapp.UseCase
	errorMetrics *apperrors.ErrorMetricsCollector
	version      string
}

// NewHandler создает системный обработчик
func NewHandler(baseHandler common.BaseHandlerInterface, useCase *groupingapp.UseCase, errorMetrics *apperrors.ErrorMetricsCollector, version string) *Handler {
	return &Handler{
		baseHandler:  baseHandler,
		useCase:      useCase,
		errorMetrics: errorMetrics,
		version:      version,
	}
}

// HealthResponse ответ проверки здоровья
type HealthResponse struct {
	Status  string  `json:"status"`
	Version string  `json:"version"`
	Groups  int     `json:"groups"`
	Uptime  float64 `json:"uptime_seconds"`
}

// StatsResponse ответ статистики
type StatsResponse struct {
	groupingapp.Stats
	Errors *apperrors.ErrorMetrics `json:"errors,omitempty"`
}

// HandleHealth отвечает на проверку здоровья
// @Summary Проверка здоровья
// @Tags system
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func (h *Handler) HandleHealth(c *gin.Context) {
	stats := h.useCase.Stats()
	h.baseHandler.WriteJSON(c, http.StatusOK, HealthResponse{
		Status:  "ok",
		Version: h.version,
		Groups:  stats.Repository.Groups,
		Uptime:  time.Since(stats.StartedAt).Seconds(),
	})
}

// HandleStats возвращает статистику репозитория, загрузок, решений модели и ошибок
// @Summary Статистика сервиса
// @Tags system
// @Produce json
// @Success 200 {object} StatsResponse
// @Router /stats [get]
func (h *Handler) HandleStats(c *gin.Context) {
	resp := StatsResponse{Stats: h.useCase.Stats()}
	if h.errorMetrics != nil {
		snap := h.errorMetrics.Snapshot()
		resp.Errors = &snap
	}
	h.baseHandler.WriteJSON(c, http.StatusOK, resp)
}
