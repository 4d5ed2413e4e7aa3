package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	log "github.com/sirupsen/logrus"
)

// Message — запись для отправки в Kafka.
type Message struct {
	Topic   string
	Key     string
	Value   []byte
	Headers map[string]string
}

// Delivery — куда брокер записал сообщение.
type Delivery struct {
	Partition int32
	Offset    int64
}

// Producer синхронно отправляет сообщения через sarama.
type Producer struct {
	sync   sarama.SyncProducer
	logger *log.Entry
	now    func() time.Time
}

// ProducerConfig — настройки sarama для надёжной публикации:
// подтверждение от всех реплик и идемпотентный producer.
func ProducerConfig() *sarama.Config {
	cfg := sarama.NewConfig()
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Retry.Max = 5
	cfg.Producer.Return.Successes = true
	cfg.Producer.Compression = sarama.CompressionSnappy
	cfg.Producer.Idempotent = true
	cfg.Net.MaxOpenRequests = 1
	return cfg
}

// NewProducer подключается к брокерам с ProducerConfig.
func NewProducer(brokers []string) (*Producer, error) {
	sp, err := sarama.NewSyncProducer(brokers, ProducerConfig())
	if err != nil {
		return nil, fmt.Errorf("create kafka producer: %w", err)
	}
	return NewProducerFromSync(sp, nil), nil
}

// NewProducerFromSync оборачивает готовый sarama.SyncProducer.
func NewProducerFromSync(sp sarama.SyncProducer, logger *log.Entry) *Producer {
	if logger == nil {
		logger = log.WithField("component", "kafka-producer")
	}
	return &Producer{sync: sp, logger: logger, now: time.Now}
}

// Send отправляет сообщение и ждёт подтверждения.
// SyncProducer не принимает контекст, поэтому отменённый ctx проверяется до отправки.
func (p *Producer) Send(ctx context.Context, m Message) (Delivery, error) {
	if err := ctx.Err(); err != nil {
		return Delivery{}, err
	}

	pm := &sarama.ProducerMessage{
		Topic:     m.Topic,
		Key:       sarama.StringEncoder(m.Key),
		Value:     sarama.ByteEncoder(m.Value),
		Timestamp: p.now(),
	}
	for k, v := range m.Headers {
		pm.Headers = append(pm.Headers, sarama.RecordHeader{Key: []byte(k), Value: []byte(v)})
	}

	fields := log.Fields{"topic": m.Topic, "key": m.Key}
	partition, offset, err := p.sync.SendMessage(pm)
	if err != nil {
		p.logger.WithError(err).WithFields(fields).Error("kafka send failed")
		return Delivery{}, fmt.Errorf("send to %s: %w", m.Topic, err)
	}

	p.logger.WithFields(fields).WithFields(log.Fields{
		"partition": partition,
		"offset":    offset,
	}).Debug("kafka message sent")
	return Delivery{Partition: partition, Offset: offset}, nil
}

// SendJSON сериализует v и отправляет его в topic.
func (p *Producer) SendJSON(ctx context.Context, topic, key string, v any, headers map[string]string) (Delivery, error) {
	value, err := json.Marshal(v)
	if err != nil {
		return Delivery{}, fmt.Errorf("marshal kafka message: %w", err)
	}
	return p.Send(ctx, Message{Topic: topic, Key: key, Value: value, Headers: headers})
}

func (p *Producer) Close() error {
	if err := p.sync.Close(); err != nil {
		return fmt.Errorf("close kafka producer: %w", err)
	}
	return nil
}
