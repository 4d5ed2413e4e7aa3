package main

import (
	"cmp"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/IBM/sarama"

	"github.com/vladislavdragonenkov/orderdesk/internal/domain"
	"github.com/vladislavdragonenkov/orderdesk/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/orderdesk/internal/service/outbox"
)

// headerReplayedFrom указывает исходное положение события в DLQ: topic/partition/offset.
const headerReplayedFrom = "x-replayed-from"

var (
	errNotOutboxDLQ  = errors.New("message is not an outbox dlq envelope")
	errEventFiltered = errors.New("event type filtered out")
)

type replayMessage struct {
	topic   string
	key     string
	value   []byte
	headers map[string]string
}

// recoverEvent достаёт исходное outbox-событие из DLQ-сообщения, которое пишет outbox worker.
func recoverEvent(value []byte) (domain.OutboxMessage, error) {
	outer, err := kafka.ParseEnvelope(value)
	if err != nil {
		return domain.OutboxMessage{}, err
	}

	var dlq outbox.DLQEnvelope
	if err := json.Unmarshal(outer.Payload, &dlq); err != nil {
		return domain.OutboxMessage{}, fmt.Errorf("decode dlq payload: %w", err)
	}
	switch {
	case dlq.OutboxID == "":
		return domain.OutboxMessage{}, errNotOutboxDLQ
	case len(dlq.Payload) == 0:
		return domain.OutboxMessage{}, fmt.Errorf("dlq envelope %s carries no event payload", dlq.OutboxID)
	}

	return domain.OutboxMessage{
		ID:            dlq.OutboxID,
		AggregateType: cmp.Or(dlq.AggregateType, outer.AggregateType),
		AggregateID:   cmp.Or(dlq.AggregateID, outer.AggregateID),
		EventType:     cmp.Or(dlq.EventType, outer.EventType),
		Payload:       dlq.Payload,
		CreatedAt:     dlq.CreatedAt,
	}, nil
}

// buildReplay готовит сообщение для targetTopic. События другого типа, чем eventType, отсеиваются.
func buildReplay(msg *sarama.ConsumerMessage, targetTopic, eventType string) (replayMessage, error) {
	event, err := recoverEvent(msg.Value)
	if err != nil {
		return replayMessage{}, err
	}
	if eventType != "" && event.EventType != eventType {
		return replayMessage{}, errEventFiltered
	}

	envelope := kafka.NewEnvelope(event, time.Now())
	value, err := json.Marshal(envelope)
	if err != nil {
		return replayMessage{}, fmt.Errorf("encode replay of %s: %w", event.ID, err)
	}

	headers := envelope.Headers()
	headers[headerReplayedFrom] = fmt.Sprintf("%s/%d/%d", msg.Topic, msg.Partition, msg.Offset)
	return replayMessage{topic: targetTopic, key: envelope.Key(), value: value, headers: headers}, nil
}
