package metrics

import "github.com/prometheus/client_golang/prometheus"

// Исходы запросов с idempotency-key.
const (
	IdempotencyOutcomeExecuted   = "executed"
	IdempotencyOutcomeReplayed   = "replayed"
	IdempotencyOutcomeInProgress = "in_progress"
	IdempotencyOutcomeMismatch   = "hash_mismatch"
)

// IdempotencyMetrics описывает работу ключей идемпотентности и их очистку.
type IdempotencyMetrics struct {
	requests         *prometheus.CounterVec
	cleanupRuns      *prometheus.CounterVec
	cleanupDeleted   prometheus.Counter
	cleanupLastBatch prometheus.Gauge
}

// NewIdempotencyMetrics регистрирует метрики в prometheus.DefaultRegisterer.
func NewIdempotencyMetrics() *IdempotencyMetrics {
	return NewIdempotencyMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

// NewIdempotencyMetricsWithRegisterer регистрирует метрики в указанном registerer.
func NewIdempotencyMetricsWithRegisterer(registerer prometheus.Registerer) *IdempotencyMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &IdempotencyMetrics{
		requests: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "orderdesk_idempotency_requests_total",
			Help: "Total number of requests carrying an idempotency key grouped by outcome.",
		}, []string{"outcome"}),
		cleanupRuns: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "orderdesk_idempotency_cleanup_runs_total",
			Help: "Total number of idempotency cleanup runs grouped by result.",
		}, []string{"result"}),
		cleanupDeleted: registerCounter(registerer, prometheus.CounterOpts{
			Name: "orderdesk_idempotency_cleanup_deleted_total",
			Help: "Total number of deleted expired idempotency records.",
		}),
		cleanupLastBatch: registerGauge(registerer, prometheus.GaugeOpts{
			Name: "orderdesk_idempotency_cleanup_last_deleted",
			Help: "Number of deleted records during the last cleanup run.",
		}),
	}
}

// RecordRequest учитывает исход запроса с ключом идемпотентности.
func (m *IdempotencyMetrics) RecordRequest(outcome string) {
	m.requests.WithLabelValues(outcome).Inc()
}

// RecordCleanupRun учитывает завершённый цикл очистки.
func (m *IdempotencyMetrics) RecordCleanupRun(deleted int, err error) {
	if err != nil {
		m.cleanupRuns.WithLabelValues("error").Inc()
		return
	}
	m.cleanupRuns.WithLabelValues("ok").Inc()
	m.cleanupLastBatch.Set(float64(deleted))
}

// AddDeleted увеличивает счётчик удалённых записей.
func (m *IdempotencyMetrics) AddDeleted(n int) {
	if n > 0 {
		m.cleanupDeleted.Add(float64(n))
	}
}
