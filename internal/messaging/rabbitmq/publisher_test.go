package rabbitmq

import (
	"context"
	"errors"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/orderdesk/internal/domain"
	"github.com/vladislavdragonenkov/orderdesk/internal/messaging/kafka"
)

type published struct {
	exchange string
	key      string
	msg      amqp.Publishing
}

type fakeChannel struct {
	declared   []string
	published  []published
	declareErr error
	publishErr error
	closed     bool
}

func (f *fakeChannel) ExchangeDeclare(name, kind string, durable, _, _, _ bool, _ amqp.Table) error {
	if f.declareErr != nil {
		return f.declareErr
	}
	if kind != "topic" || !durable {
		return errors.New("exchange must be a durable topic")
	}
	f.declared = append(f.declared, name)
	return nil
}

func (f *fakeChannel) PublishWithContext(ctx context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	if _, ok := ctx.Deadline(); !ok {
		return errors.New("publish without deadline")
	}
	if f.publishErr != nil {
		return f.publishErr
	}
	f.published = append(f.published, published{exchange: exchange, key: key, msg: msg})
	return nil
}

func (f *fakeChannel) Close() error {
	f.closed = true
	return nil
}

func TestPublisher_Publish(t *testing.T) {
	ch := &fakeChannel{}
	p, err := NewPublisher(ch, "")
	require.NoError(t, err)
	assert.Equal(t, []string{DefaultExchange}, ch.declared)

	now := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	p.now = func() time.Time { return now }

	err = p.Publish(context.Background(), domain.OutboxMessage{
		ID:            "m1",
		AggregateType: domain.AggregateOrder,
		AggregateID:   "O1",
		EventType:     domain.EventOrderStatusChanged,
		Payload:       []byte(`{"status":"paid"}`),
	})
	require.NoError(t, err)
	require.Len(t, ch.published, 1)

	got := ch.published[0]
	assert.Equal(t, DefaultExchange, got.exchange)
	assert.Equal(t, "order.status_changed", got.key)
	assert.Equal(t, "m1", got.msg.MessageId)
	assert.Equal(t, amqp.Persistent, got.msg.DeliveryMode)
	assert.Equal(t, domain.EventOrderStatusChanged, got.msg.Headers[kafka.HeaderEventType])

	envelope, err := kafka.ParseEnvelope(got.msg.Body)
	require.NoError(t, err)
	assert.Equal(t, "O1", envelope.AggregateID)
	assert.True(t, envelope.PublishedAt.Equal(now))
}

func TestPublisher_DerivedDLQ(t *testing.T) {
	ch := &fakeChannel{}
	p, err := NewPublisher(ch, "orders")
	require.NoError(t, err)

	dlq := p.Derive(WithRoutingPrefix(DLQPrefix))
	require.NoError(t, dlq.Publish(context.Background(), domain.OutboxMessage{ID: "m2", AggregateType: domain.AggregateOrder, EventType: domain.EventOrderPlaced}))
	require.Len(t, ch.published, 1)
	assert.Equal(t, "dlq.order.placed", ch.published[0].key)
	assert.Equal(t, "orders", ch.published[0].exchange)
}

func TestPublisher_Errors(t *testing.T) {
	_, err := NewPublisher(&fakeChannel{declareErr: amqp.ErrClosed}, "orders")
	require.ErrorIs(t, err, amqp.ErrClosed)

	p, err := NewPublisher(&fakeChannel{publishErr: amqp.ErrClosed}, "orders")
	require.NoError(t, err)
	err = p.Publish(context.Background(), domain.OutboxMessage{ID: "m3", EventType: domain.EventOrderDeleted})
	require.ErrorIs(t, err, domain.ErrOutboxPublish)
	require.ErrorIs(t, err, amqp.ErrClosed)
}

func TestPublisher_CloseWithoutConnection(t *testing.T) {
	ch := &fakeChannel{}
	p, err := NewPublisher(ch, "orders")
	require.NoError(t, err)
	require.NoError(t, p.Close())
	assert.False(t, ch.closed)
}

func TestRoutingKey(t *testing.T) {
	cases := map[string]string{
		domain.EventOrderPlaced:             "order.placed",
		domain.EventOrderStatusChanged:      "order.status_changed",
		domain.EventOrderCustomerReassigned: "order.customer_reassigned",
		domain.EventOrderDeleted:            "order.deleted",
		"Order":                             "order.event",
	}
	for eventType, want := range cases {
		assert.Equal(t, want, RoutingKey("", eventType), eventType)
	}
	assert.Equal(t, "stock.adjusted", RoutingKey("stock", "Adjusted"))
}
