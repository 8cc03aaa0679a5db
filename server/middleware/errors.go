package middleware

import (
	"errors"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "catalogdedup/server/errors"
)

// HTTPError интерфейс для ошибок с HTTP статусом и сообщением
type HTTPError interface {
	error
	StatusCode() int
	UserMessage() string
	Unwrap() error
}

// ErrorResponse структура ответа об ошибке
type ErrorResponse struct {
	Error     string `json:"error"`
	Timestamp string `json:"timestamp"`
	RequestID string `json:"request_id,omitempty"`
}

func newErrorResponse(message, requestID string) ErrorResponse {
	return ErrorResponse{
		Error:     message,
		Timestamp: time.Now().Format(time.RFC3339),
		RequestID: requestID,
	}
}

// ErrorHandler пишет ошибки обработчиков в ответ, лог и метрики
type ErrorHandler struct {
	logger  *slog.Logger
	metrics *apperrors.ErrorMetricsCollector
}

// NewErrorHandler создает обработчик ошибок
func NewErrorHandler(logger *slog.Logger, metrics *apperrors.ErrorMetricsCollector) *ErrorHandler {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = apperrors.NewErrorMetricsCollector()
	}
	return &ErrorHandler{logger: logger, metrics: metrics}
}

// Metrics возвращает сборщик метрик ошибок
func (h *ErrorHandler) Metrics() *apperrors.ErrorMetricsCollector {
	return h.metrics
}

// Handle отвечает JSON ошибкой. Ошибки без HTTP статуса становятся 500.
func (h *ErrorHandler) Handle(c *gin.Context, err error) {
	reqID := GetRequestIDFromGin(c)

	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		appErr = apperrors.NewInternalError("unhandled error", err)
	}
	h.metrics.RecordError(appErr, c.FullPath(), reqID)

	h.logger.Error("HTTP error",
		"error", appErr.Unwrap(),
		"user_message", appErr.UserMessage(),
		"context", appErr.Context,
		"status_code", appErr.StatusCode(),
		"request_id", reqID,
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
	)

	_ = c.Error(err)
	c.AbortWithStatusJSON(appErr.StatusCode(), newErrorResponse(appErr.UserMessage(), reqID))
}

var _ HTTPError = (*apperrors.AppError)(nil)
