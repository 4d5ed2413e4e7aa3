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
)

func headerValue(msg *sarama.ProducerMessage, key string) string {
	for _, h := range msg.Headers {
		if string(h.Key) == key {
			return string(h.Value)
		}
	}
	return ""
}

func TestProducer_Send(t *testing.T) {
	sp := mocks.NewSyncProducer(t, nil)
	producer := NewProducerFromSync(sp, log.WithField("component", "kafka-producer-test"))
	sentAt := time.Date(2026, 4, 2, 9, 30, 0, 0, time.UTC)
	producer.now = func() time.Time { return sentAt }

	sp.ExpectSendMessageWithMessageCheckerFunctionAndSucceed(func(msg *sarama.ProducerMessage) error {
		key, _ := msg.Key.Encode()
		switch {
		case msg.Topic != TopicOrderEvents:
			return errors.New("unexpected topic " + msg.Topic)
		case string(key) != "order-1":
			return errors.New("unexpected key " + string(key))
		case !msg.Timestamp.Equal(sentAt):
			return errors.New("unexpected timestamp")
		case headerValue(msg, HeaderEventType) != "OrderPlaced":
			return errors.New("event type header is missing")
		}
		return nil
	})

	_, err := producer.Send(context.Background(), Message{
		Topic:   TopicOrderEvents,
		Key:     "order-1",
		Value:   []byte(`{}`),
		Headers: map[string]string{HeaderEventType: "OrderPlaced"},
	})
	require.NoError(t, err)
	require.NoError(t, producer.Close())
}

func TestProducer_SendJSON(t *testing.T) {
	sp := mocks.NewSyncProducer(t, nil)
	producer := NewProducerFromSync(sp, nil)

	sp.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		var decoded map[string]any
		if err := json.Unmarshal(val, &decoded); err != nil {
			return err
		}
		if decoded["order_id"] != "order-123" {
			return errors.New("unexpected order_id")
		}
		return nil
	})

	_, err := producer.SendJSON(context.Background(), TopicOrderEvents, "order-123", map[string]any{"order_id": "order-123"}, nil)
	require.NoError(t, err)

	_, err = producer.SendJSON(context.Background(), TopicOrderEvents, "k", map[string]any{"bad": make(chan int)}, nil)
	require.ErrorContains(t, err, "marshal kafka message")
	require.NoError(t, sp.Close())
}

func TestProducer_SendErrors(t *testing.T) {
	sp := mocks.NewSyncProducer(t, nil)
	producer := NewProducerFromSync(sp, nil)

	sp.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)
	_, err := producer.Send(context.Background(), Message{Topic: TopicOrderEvents, Key: "k"})
	require.ErrorIs(t, err, sarama.ErrOutOfBrokers)

	// отменённый контекст не доходит до брокера: ожиданий у мока больше нет
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = producer.Send(ctx, Message{Topic: TopicOrderEvents, Key: "k"})
	require.ErrorIs(t, err, context.Canceled)
	require.NoError(t, sp.Close())
}

func TestProducerConfig(t *testing.T) {
	cfg := ProducerConfig()
	assert.Equal(t, sarama.WaitForAll, cfg.Producer.RequiredAcks)
	assert.True(t, cfg.Producer.Idempotent)
	assert.True(t, cfg.Producer.Return.Successes)
	assert.Equal(t, 1, cfg.Net.MaxOpenRequests)
	require.NoError(t, cfg.Validate())
}
