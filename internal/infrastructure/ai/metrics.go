package ai

import (
	"sync"
	"time"
)

// MetricsCollector собирает метрики обращений к провайдерам
type MetricsCollector struct {
	mu sync.RWMutex

	requestsTotal map[string]int64
	errorsTotal   map[string]map[string]int64 // провайдер -> тип ошибки -> количество
	durationTotal map[string]time.Duration

	decisionsTotal  int64
	decisionsFailed int64
}

// ProviderMetrics метрики одного провайдера
type ProviderMetrics struct {
	RequestsTotal   int64            `json:"requests_total"`
	ErrorsTotal     int64            `json:"errors_total"`
	ErrorsByType    map[string]int64 `json:"errors_by_type,omitempty"`
	DurationTotalMs int64            `json:"duration_total_ms"`
	DurationAvgMs   int64            `json:"duration_avg_ms"`
}

// MetricsSnapshot снимок всех метрик
type MetricsSnapshot struct {
	Providers       map[string]ProviderMetrics `json:"providers"`
	DecisionsTotal  int64                      `json:"decisions_total"`
	DecisionsFailed int64                      `json:"decisions_failed"`
}

// NewMetricsCollector создает новый сборщик метрик
func NewMetricsCollector() *MetricsCollector {
	return &MetricsCollector{
		requestsTotal: make(map[string]int64),
		errorsTotal:   make(map[string]map[string]int64),
		durationTotal: make(map[string]time.Duration),
	}
}

// RecordAttempt записывает одну попытку запроса к провайдеру
func (mc *MetricsCollector) RecordAttempt(provider string, duration time.Duration, err error) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	mc.requestsTotal[provider]++
	mc.durationTotal[provider] += duration
	if err != nil {
		if mc.errorsTotal[provider] == nil {
			mc.errorsTotal[provider] = make(map[string]int64)
		}
		mc.errorsTotal[provider][errorType(err)]++
	}
}

// RecordDecision записывает итог решения после всех попыток
func (mc *MetricsCollector) RecordDecision(failed bool) {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	mc.decisionsTotal++
	if failed {
		mc.decisionsFailed++
	}
}

// Snapshot возвращает копию метрик
func (mc *MetricsCollector) Snapshot() MetricsSnapshot {
	mc.mu.RLock()
	defer mc.mu.RUnlock()

	snapshot := MetricsSnapshot{
		Providers:       make(map[string]ProviderMetrics, len(mc.requestsTotal)),
		DecisionsTotal:  mc.decisionsTotal,
		DecisionsFailed: mc.decisionsFailed,
	}
	for provider, requests := range mc.requestsTotal {
		m := ProviderMetrics{
			RequestsTotal:   requests,
			DurationTotalMs: mc.durationTotal[provider].Milliseconds(),
		}
		if requests > 0 {
			m.DurationAvgMs = (mc.durationTotal[provider] / time.Duration(requests)).Milliseconds()
		}
		if errs := mc.errorsTotal[provider]; len(errs) > 0 {
			m.ErrorsByType = make(map[string]int64, len(errs))
			for typ, count := range errs {
				m.ErrorsByType[typ] = count
				m.ErrorsTotal += count
			}
		}
		snapshot.Providers[provider] = m
	}
	return snapshot
}
