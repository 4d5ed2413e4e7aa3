package outbox

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/vladislavdragonenkov/orderdesk/internal/domain"
	"github.com/vladislavdragonenkov/orderdesk/internal/metrics"
)

// DLQEnvelope — содержимое сообщения в dead-letter очереди.
// cmd/dlq-reprocess восстанавливает по нему исходное событие.
type DLQEnvelope struct {
	OutboxID       string          `json:"outbox_id"`
	AggregateType  string          `json:"aggregate_type"`
	AggregateID    string          `json:"aggregate_id"`
	EventType      string          `json:"event_type"`
	Payload        json.RawMessage `json:"payload"`
	Attempts       int             `json:"attempts"`
	CreatedAt      time.Time       `json:"created_at"`
	PublishError   string          `json:"publish_error"`
	DLQPublishedAt time.Time       `json:"dlq_published_at"`
}

// deadLetterMessage заворачивает событие в DLQEnvelope.
// Невалидный JSON в payload сохраняется строкой.
func deadLetterMessage(event domain.OutboxMessage, attempts int, cause error, at time.Time) (domain.OutboxMessage, error) {
	payload := json.RawMessage(event.Payload)
	if !json.Valid(payload) {
		quoted, err := json.Marshal(string(event.Payload))
		if err != nil {
			return domain.OutboxMessage{}, err
		}
		payload = quoted
	}

	body, err := json.Marshal(DLQEnvelope{
		OutboxID:       event.ID,
		AggregateType:  event.AggregateType,
		AggregateID:    event.AggregateID,
		EventType:      event.EventType,
		Payload:        payload,
		Attempts:       attempts,
		CreatedAt:      event.CreatedAt.UTC(),
		PublishError:   cause.Error(),
		DLQPublishedAt: at.UTC(),
	})
	if err != nil {
		return domain.OutboxMessage{}, fmt.Errorf("marshal dlq envelope: %w", err)
	}

	dead := event
	dead.Payload = body
	return dead, nil
}

func (w *Worker) deadLetter(ctx context.Context, event domain.OutboxMessage, cause error) {
	if w.dlq == nil {
		return
	}

	entry := w.logger.WithField("outbox_id", event.ID)
	dead, err := deadLetterMessage(event, event.Attempts+w.maxAttempts, cause, w.now())
	if err == nil {
		err = w.dlq.Publish(ctx, dead)
	}
	if err != nil {
		entry.WithError(err).Warn("failed to publish to DLQ")
		w.metrics.RecordPublish(metrics.PublishResultDLQFailed)
		return
	}
	entry.Info("outbox event moved to DLQ")
	w.metrics.RecordPublish(metrics.PublishResultDLQ)
}
