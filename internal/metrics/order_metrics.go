package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Результаты оформления заказа для label `result`.
const (
	PlacementResultPlaced            = "placed"
	PlacementResultRejected          = "rejected"
	PlacementResultInsufficientStock = "insufficient_stock"
	PlacementResultError             = "error"
)

// OrderMetrics содержит метрики оформления и жизненного цикла заказов.
type OrderMetrics struct {
	placements         *prometheus.CounterVec
	placementDuration  prometheus.Histogram
	placementsInFlight prometheus.Gauge
	stockDecremented   prometheus.Counter
	lineItems          prometheus.Histogram
	lifecycleOps       *prometheus.CounterVec
	cacheLookups       *prometheus.CounterVec

	timelineEvents prometheus.Counter
	outboxEvents   prometheus.Counter
}

// NewOrderMetrics регистрирует метрики в prometheus.DefaultRegisterer.
func NewOrderMetrics() *OrderMetrics {
	return NewOrderMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

// NewOrderMetricsWithRegisterer регистрирует метрики в указанном registerer.
func NewOrderMetricsWithRegisterer(registerer prometheus.Registerer) *OrderMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &OrderMetrics{
		placements: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "orderdesk_order_placements_total",
			Help: "Total number of order placement attempts grouped by result",
		}, []string{"result"}),
		placementDuration: registerHistogram(registerer, prometheus.HistogramOpts{
			Name:    "orderdesk_order_placement_duration_seconds",
			Help:    "Duration of the order placement transaction in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
		}),
		placementsInFlight: registerGauge(registerer, prometheus.GaugeOpts{
			Name: "orderdesk_order_placements_in_flight",
			Help: "Number of order placements currently being processed",
		}),
		stockDecremented: registerCounter(registerer, prometheus.CounterOpts{
			Name: "orderdesk_stock_units_decremented_total",
			Help: "Total number of stock units decremented by committed orders",
		}),
		lineItems: registerHistogram(registerer, prometheus.HistogramOpts{
			Name:    "orderdesk_order_line_items",
			Help:    "Number of line items per placed order",
			Buckets: []float64{1, 2, 3, 5, 10, 20, 50},
		}),
		lifecycleOps: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "orderdesk_order_lifecycle_operations_total",
			Help: "Total number of order lifecycle operations grouped by operation and result",
		}, []string{"operation", "result"}),
		cacheLookups: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "orderdesk_order_cache_lookups_total",
			Help: "Total number of order cache lookups grouped by result",
		}, []string{"result"}),
		timelineEvents: registerCounter(registerer, prometheus.CounterOpts{
			Name: "orderdesk_timeline_events_total",
			Help: "Total number of timeline events recorded",
		}),
		outboxEvents: registerCounter(registerer, prometheus.CounterOpts{
			Name: "orderdesk_outbox_events_total",
			Help: "Total number of outbox events enqueued",
		}),
	}
}

// RecordPlacementStarted увеличивает количество заказов в обработке.
func (m *OrderMetrics) RecordPlacementStarted() {
	m.placementsInFlight.Inc()
}

// RecordPlacementFinished фиксирует результат и длительность оформления.
func (m *OrderMetrics) RecordPlacementFinished(result string, duration time.Duration) {
	m.placementsInFlight.Dec()
	m.placements.WithLabelValues(result).Inc()
	m.placementDuration.Observe(duration.Seconds())
}

// RecordOrderPlaced учитывает состав закоммиченного заказа.
func (m *OrderMetrics) RecordOrderPlaced(lineItems int, units int64) {
	m.lineItems.Observe(float64(lineItems))
	m.stockDecremented.Add(float64(units))
}

// RecordLifecycle учитывает операцию над существующим заказом.
func (m *OrderMetrics) RecordLifecycle(operation string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.lifecycleOps.WithLabelValues(operation, result).Inc()
}

// RecordCacheLookup учитывает попадание/промах кэша заказов.
func (m *OrderMetrics) RecordCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(result).Inc()
}

// RecordTimelineEvent увеличивает счётчик событий timeline.
func (m *OrderMetrics) RecordTimelineEvent() {
	m.timelineEvents.Inc()
}

// RecordOutboxEvent увеличивает счётчик событий outbox.
func (m *OrderMetrics) RecordOutboxEvent() {
	m.outboxEvents.Inc()
}
