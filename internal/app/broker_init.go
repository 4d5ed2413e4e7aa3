package app

import (
	"context"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/orderdesk/internal/domain"
	"github.com/vladislavdragonenkov/orderdesk/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/orderdesk/internal/messaging/rabbitmq"
)

// outboxBrokers хранит паблишеры outbox worker и функцию их закрытия.
type outboxBrokers struct {
	publisher domain.OutboxPublisher
	dlq       domain.OutboxPublisher
	closeFn   func() error
}

var (
	newKafkaProducer = kafka.NewProducer
	dialRabbitMQ     = rabbitmq.Dial
)

// initOutboxBrokers подключает брокер, выбранный в cfg.OutboxBroker.
func initOutboxBrokers(cfg Config, logger *log.Entry) (outboxBrokers, error) {
	broker := strings.ToLower(strings.TrimSpace(cfg.OutboxBroker))
	switch broker {
	case "", BrokerNone:
		logger.Info("outbox broker: none, events are only logged")
		return outboxBrokers{publisher: newLogPublisher(logger)}, nil
	case BrokerKafka:
		brokers := splitBrokers(cfg.KafkaBrokers)
		if len(brokers) == 0 {
			return outboxBrokers{}, fmt.Errorf("kafka broker requires brokers list")
		}
		producer, err := newKafkaProducer(brokers)
		if err != nil {
			return outboxBrokers{}, fmt.Errorf("create kafka producer: %w", err)
		}
		logger.WithField("brokers", brokers).Info("kafka producer initialized")
		return outboxBrokers{
			publisher: kafka.NewOutboxPublisher(producer, kafka.TopicOrderEvents),
			dlq:       kafka.NewOutboxPublisher(producer, kafka.TopicDeadLetterQueue),
			closeFn:   producer.Close,
		}, nil
	case BrokerRabbitMQ:
		if strings.TrimSpace(cfg.RabbitMQURL) == "" {
			return outboxBrokers{}, fmt.Errorf("rabbitmq broker requires url")
		}
		publisher, err := dialRabbitMQ(cfg.RabbitMQURL, cfg.RabbitMQExchange,
			rabbitmq.WithLogger(logger.WithField("broker", BrokerRabbitMQ)))
		if err != nil {
			return outboxBrokers{}, err
		}
		logger.WithField("exchange", cfg.RabbitMQExchange).Info("rabbitmq publisher initialized")
		return outboxBrokers{
			publisher: publisher,
			dlq:       publisher.Derive(rabbitmq.WithRoutingPrefix(rabbitmq.DLQPrefix)),
			closeFn:   publisher.Close,
		}, nil
	default:
		return outboxBrokers{}, fmt.Errorf("unsupported outbox broker %q", cfg.OutboxBroker)
	}
}

func (b outboxBrokers) close(logger *log.Entry) {
	if b.closeFn == nil {
		return
	}
	if err := b.closeFn(); err != nil {
		logger.WithError(err).Warn("failed to close outbox broker")
		return
	}
	logger.Info("outbox broker closed")
}

func splitBrokers(raw string) []string {
	var brokers []string
	for _, b := range strings.Split(raw, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

// logPublisher пишет события в лог вместо брокера.
type logPublisher struct {
	logger *log.Entry
}

func newLogPublisher(logger *log.Entry) *logPublisher {
	return &logPublisher{logger: logger.WithField("broker", BrokerNone)}
}

func (p *logPublisher) Publish(_ context.Context, event domain.OutboxMessage) error {
	p.logger.WithFields(log.Fields{
		"outbox_id":    event.ID,
		"event_type":   event.EventType,
		"aggregate_id": event.AggregateID,
	}).Debug("outbox event")
	return nil
}
