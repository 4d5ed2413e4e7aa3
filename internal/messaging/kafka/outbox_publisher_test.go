package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/orderdesk/internal/domain"
)

func TestOutboxPublisher_Publish(t *testing.T) {
	t.Parallel()

	mockProducer := mocks.NewSyncProducer(t, nil)
	publishedAt := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	mockProducer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		envelope, err := ParseEnvelope(val)
		if err != nil {
			return err
		}
		if envelope.AggregateID != "order-123" || envelope.EventType != domain.EventOrderStatusChanged {
			return errors.New("unexpected envelope")
		}
		if !envelope.PublishedAt.Equal(publishedAt) {
			return errors.New("unexpected published_at")
		}
		if string(envelope.Payload) != `{"status":"paid"}` {
			return errors.New("unexpected payload " + string(envelope.Payload))
		}
		return nil
	})

	producer := NewProducerFromSync(mockProducer, log.WithField("component", "kafka-outbox-publisher-test"))
	publisher := NewOutboxPublisher(producer, "")
	publisher.now = func() time.Time { return publishedAt }
	assert.Equal(t, TopicOrderEvents, publisher.Topic())

	err := publisher.Publish(context.Background(), domain.OutboxMessage{
		ID:            "outbox-1",
		AggregateType: domain.AggregateOrder,
		AggregateID:   "order-123",
		EventType:     domain.EventOrderStatusChanged,
		Payload:       []byte(`{"status":"paid"}`),
	})
	require.NoError(t, err)
	require.NoError(t, mockProducer.Close())
}

func TestOutboxPublisher_PublishProducerError(t *testing.T) {
	t.Parallel()

	mockProducer := mocks.NewSyncProducer(t, nil)
	mockProducer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	publisher := NewOutboxPublisher(NewProducerFromSync(mockProducer, nil), TopicDeadLetterQueue)

	err := publisher.Publish(context.Background(), domain.OutboxMessage{
		ID:            "outbox-2",
		AggregateType: domain.AggregateOrder,
		AggregateID:   "order-234",
		EventType:     domain.EventOrderDeleted,
		Payload:       []byte(`{}`),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrOutboxPublish)
	assert.ErrorIs(t, err, sarama.ErrOutOfBrokers)
	require.NoError(t, mockProducer.Close())
}

func TestOutboxPublisher_PublishNilProducer(t *testing.T) {
	t.Parallel()

	publisher := NewOutboxPublisher(nil, TopicOrderEvents)
	require.Error(t, publisher.Publish(context.Background(), domain.OutboxMessage{ID: "outbox-3"}))
}

func TestNewEnvelope(t *testing.T) {
	t.Parallel()

	now := time.Now()
	envelope := NewEnvelope(domain.OutboxMessage{ID: "m1", EventType: "OrderPlaced", Payload: []byte("not-json")}, now)
	assert.Equal(t, "m1", envelope.Key())
	assert.Equal(t, `"not-json"`, string(envelope.Payload))

	raw, err := json.Marshal(envelope)
	require.NoError(t, err)
	parsed, err := ParseEnvelope(raw)
	require.NoError(t, err)
	assert.Equal(t, "OrderPlaced", parsed.EventType)
	assert.Equal(t, "m1", parsed.Headers()[HeaderOutboxID])

	empty := NewEnvelope(domain.OutboxMessage{ID: "m2", AggregateID: "o2", EventType: "OrderDeleted"}, now)
	assert.Equal(t, "o2", empty.Key())
	assert.Equal(t, "null", string(empty.Payload))

	_, err = ParseEnvelope([]byte(`{"id":"x"}`))
	require.Error(t, err)
	_, err = ParseEnvelope([]byte(`{`))
	require.Error(t, err)
}
