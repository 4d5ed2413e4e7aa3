package ordering

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/orderdesk/internal/domain"
	"github.com/vladislavdragonenkov/orderdesk/internal/metrics"
)

// eventRecorder пишет события заказа: в outbox внутри транзакции и в таймлайн после коммита.
type eventRecorder struct {
	timeline domain.TimelineRepository
	metrics  *metrics.OrderMetrics
	logger   *log.Entry
}

func newEventRecorder(o options) eventRecorder {
	return eventRecorder{timeline: o.timeline, metrics: o.metrics, logger: o.logger}
}

// enqueue сериализует payload и кладёт сообщение в outbox текущей транзакции.
// Ошибка прерывает транзакцию: событие и изменение заказа фиксируются вместе.
func (r eventRecorder) enqueue(ctx context.Context, outbox domain.OutboxWriter, orderID, eventType string, occurred time.Time, payload map[string]any) error {
	if payload == nil {
		payload = make(map[string]any)
	}
	payload["order_id"] = orderID
	payload["ts"] = occurred.Format(time.RFC3339Nano)

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", eventType, err)
	}

	msg := domain.OutboxMessage{
		AggregateType: domain.AggregateOrder,
		AggregateID:   orderID,
		EventType:     eventType,
		Payload:       data,
		CreatedAt:     occurred,
	}
	if _, err := outbox.Enqueue(ctx, msg); err != nil {
		return fmt.Errorf("enqueue %s event: %w", eventType, err)
	}
	return nil
}

// committed вызывается после успешного коммита: метрики outbox и запись в таймлайн.
// Отмена ctx клиентом не должна терять запись о закоммиченном изменении.
func (r eventRecorder) committed(ctx context.Context, orderID, eventType, reason string, occurred time.Time) {
	if r.metrics != nil {
		r.metrics.RecordOutboxEvent()
	}
	if r.timeline == nil {
		return
	}

	event := domain.TimelineEvent{
		OrderID:  orderID,
		Type:     eventType,
		Reason:   reason,
		Occurred: occurred,
	}
	if err := r.timeline.Append(context.WithoutCancel(ctx), event); err != nil {
		r.logger.WithError(err).WithFields(log.Fields{
			"order_id": orderID,
			"event":    eventType,
		}).Warn("append timeline event failed")
		return
	}
	if r.metrics != nil {
		r.metrics.RecordTimelineEvent()
	}
}

func placedPayload(order domain.Order) map[string]any {
	items := make([]map[string]any, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, map[string]any{
			"product_id": item.ProductID,
			"quantity":   item.Quantity,
			"unit_price": item.UnitPrice.StringFixed(2),
		})
	}
	return map[string]any{
		"customer_id": order.CustomerID,
		"status":      order.Status,
		"total":       order.Total.StringFixed(2),
		"placed_on":   order.PlacedOn.Format(time.DateOnly),
		"items":       items,
	}
}
