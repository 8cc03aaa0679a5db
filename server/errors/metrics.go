package errors

import (
	"maps"
	"net/http"
	"sync"
	"time"
)

const defaultMaxLastErrors = 50

// ErrorMetricsCollector собирает метрики ошибок HTTP слоя
type ErrorMetricsCollector struct {
	mu sync.RWMutex

	totalErrors      int64
	errorsByType     map[string]int64
	errorsByCode     map[int]int64
	errorsByEndpoint map[string]int64

	lastErrors    []ErrorRecord
	maxLastErrors int
	startTime     time.Time
}

// ErrorRecord запись об ошибке
type ErrorRecord struct {
	Timestamp   time.Time `json:"timestamp"`
	Type        string    `json:"type"`
	Code        int       `json:"code"`
	Endpoint    string    `json:"endpoint"`
	RequestID   string    `json:"request_id,omitempty"`
	UserMessage string    `json:"user_message"`
}

// ErrorMetrics снимок метрик ошибок
type ErrorMetrics struct {
	TotalErrors      int64            `json:"total_errors"`
	ErrorsByType     map[string]int64 `json:"errors_by_type"`
	ErrorsByCode     map[int]int64    `json:"errors_by_code"`
	ErrorsByEndpoint map[string]int64 `json:"errors_by_endpoint"`
	LastErrors       []ErrorRecord    `json:"last_errors"`
	UptimeSeconds    float64          `json:"uptime_seconds"`
}

// NewErrorMetricsCollector создает новый сборщик метрик ошибок
func NewErrorMetricsCollector() *ErrorMetricsCollector {
	return &ErrorMetricsCollector{
		errorsByType:     make(map[string]int64),
		errorsByCode:     make(map[int]int64),
		errorsByEndpoint: make(map[string]int64),
		maxLastErrors:    defaultMaxLastErrors,
		startTime:        time.Now(),
	}
}

// RecordError записывает ошибку в метрики
func (emc *ErrorMetricsCollector) RecordError(err *AppError, endpoint, requestID string) {
	emc.mu.Lock()
	defer emc.mu.Unlock()

	errorType := ErrorType(err.Code)
	emc.totalErrors++
	emc.errorsByType[errorType]++
	emc.errorsByCode[err.Code]++
	if endpoint != "" {
		emc.errorsByEndpoint[endpoint]++
	}

	record := ErrorRecord{
		Timestamp:   time.Now(),
		Type:        errorType,
		Code:        err.Code,
		Endpoint:    endpoint,
		RequestID:   requestID,
		UserMessage: err.UserMessage(),
	}
	// новые записи в начале
	emc.lastErrors = append([]ErrorRecord{record}, emc.lastErrors...)
	if len(emc.lastErrors) > emc.maxLastErrors {
		emc.lastErrors = emc.lastErrors[:emc.maxLastErrors]
	}
}

// ErrorType имя типа ошибки по HTTP коду
func ErrorType(code int) string {
	switch code {
	case http.StatusBadRequest:
		return "ValidationError"
	case http.StatusNotFound:
		return "NotFoundError"
	case http.StatusConflict:
		return "ConflictError"
	case http.StatusRequestEntityTooLarge:
		return "PayloadTooLargeError"
	case http.StatusUnsupportedMediaType:
		return "UnsupportedMediaTypeError"
	case http.StatusUnprocessableEntity:
		return "UnprocessableError"
	case http.StatusInternalServerError:
		return "InternalError"
	case http.StatusBadGateway:
		return "BadGatewayError"
	case http.StatusServiceUnavailable:
		return "ServiceUnavailableError"
	default:
		return "UnknownError"
	}
}

// Snapshot возвращает копию метрик
func (emc *ErrorMetricsCollector) Snapshot() ErrorMetrics {
	emc.mu.RLock()
	defer emc.mu.RUnlock()

	return ErrorMetrics{
		TotalErrors:      emc.totalErrors,
		ErrorsByType:     maps.Clone(emc.errorsByType),
		ErrorsByCode:     maps.Clone(emc.errorsByCode),
		ErrorsByEndpoint: maps.Clone(emc.errorsByEndpoint),
		LastErrors:       append([]ErrorRecord(nil), emc.lastErrors...),
		UptimeSeconds:    time.Since(emc.startTime).Seconds(),
	}
}
