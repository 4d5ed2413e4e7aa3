// Package rabbitmq публикует события заказов из outbox в topic exchange RabbitMQ.
package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode"

	amqp "github.com/rabbitmq/amqp091-go"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/orderdesk/internal/domain"
	"github.com/vladislavdragonenkov/orderdesk/internal/messaging/kafka"
)

const (
	// DefaultExchange — exchange событий заказов.
	DefaultExchange = "orderdesk.orders"
	// Префикс routing key для сообщений, не доставленных в основной поток.
	DLQPrefix = "dlq."

	publishTimeout = 5 * time.Second
	dialAttempts   = 5
)

// Channel описывает часть *amqp.Channel, нужную паблишеру.
type Channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Publisher реализует domain.OutboxPublisher поверх topic exchange.
type Publisher struct {
	conn     *amqp.Connection
	ch       Channel
	exchange string
	prefix   string
	logger   *log.Entry
	now      func() time.Time
}

// Option настраивает Publisher.
type Option func(*Publisher)

// WithRoutingPrefix добавляет префикс к routing key (например, DLQPrefix).
func WithRoutingPrefix(prefix string) Option {
	return func(p *Publisher) { p.prefix = prefix }
}

// WithLogger задаёт logger.
func WithLogger(logger *log.Entry) Option {
	return func(p *Publisher) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// Dial подключается к RabbitMQ с повторами и объявляет exchange.
func Dial(url, exchange string, opts ...Option) (*Publisher, error) {
	var (
		conn *amqp.Connection
		err  error
	)
	for i := 0; i < dialAttempts; i++ {
		conn, err = amqp.Dial(url)
		if err == nil {
			break
		}
		retry := time.Duration(i*i)*time.Second + time.Second
		log.WithError(err).WithField("retry_in", retry.String()).Warn("rabbitmq dial failed")
		time.Sleep(retry)
	}
	if err != nil {
		return nil, fmt.Errorf("connect to rabbitmq after %d attempts: %w", dialAttempts, err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open rabbitmq channel: %w", err)
	}

	p, err := NewPublisher(ch, exchange, opts...)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}
	p.conn = conn
	return p, nil
}

// NewPublisher объявляет durable topic exchange на ch и возвращает паблишер.
func NewPublisher(ch Channel, exchange string, opts ...Option) (*Publisher, error) {
	if exchange == "" {
		exchange = DefaultExchange
	}
	p := &Publisher{
		ch:       ch,
		exchange: exchange,
		logger:   log.WithField("component", "rabbitmq-publisher"),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}

	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}
	return p, nil
}

// Derive создаёт паблишер на том же канале с другими опциями (например, для DLQ).
func (p *Publisher) Derive(opts ...Option) *Publisher {
	derived := &Publisher{ch: p.ch, exchange: p.exchange, logger: p.logger, now: p.now}
	for _, opt := range opts {
		opt(derived)
	}
	return derived
}

// Publish отправляет событие в exchange. Тело совпадает с конвертом Kafka.
func (p *Publisher) Publish(ctx context.Context, event domain.OutboxMessage) error {
	envelope := kafka.NewEnvelope(event, p.now())
	body, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}

	routingKey := p.prefix + RoutingKey(event.AggregateType, event.EventType)
	headers := amqp.Table{}
	for k, v := range envelope.Headers() {
		headers[k] = v
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err = p.ch.PublishWithContext(ctx, p.exchange, routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    event.ID,
		Timestamp:    envelope.PublishedAt,
		Headers:      headers,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("%w: exchange %s key %s: %w", domain.ErrOutboxPublish, p.exchange, routingKey, err)
	}

	p.logger.WithFields(log.Fields{
		"exchange":    p.exchange,
		"routing_key": routingKey,
		"outbox_id":   event.ID,
	}).Debug("message published to rabbitmq")
	return nil
}

// Close закрывает канал и соединение, если паблишер их открыл.
func (p *Publisher) Close() error {
	if p.conn == nil {
		return nil
	}
	if err := p.ch.Close(); err != nil {
		_ = p.conn.Close()
		return fmt.Errorf("close rabbitmq channel: %w", err)
	}
	return p.conn.Close()
}

// RoutingKey строит ключ вида "order.status_changed" из агрегата и типа события.
func RoutingKey(aggregateType, eventType string) string {
	name := strings.TrimPrefix(eventType, "Order")
	var b strings.Builder
	for i, r := range name {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	if aggregateType == "" {
		aggregateType = domain.AggregateOrder
	}
	if b.Len() == 0 {
		return aggregateType + ".event"
	}
	return aggregateType + "." + b.String()
}

var _ domain.OutboxPublisher = (*Publisher)(nil)
