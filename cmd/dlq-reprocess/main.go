// Команда dlq-reprocess переотправляет события заказов из dead-letter топика в основной.
// По умолчанию работает в режиме dry-run и только логирует кандидатов.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/IBM/sarama"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/orderdesk/internal/messaging/kafka"
)

// dependencies — подключения к Kafka; producer создаётся только для -execute.
type dependencies struct {
	offsets  offsetClient
	source   partitionConsumerSource
	producer sarama.SyncProducer
}

func (d dependencies) close() {
	if d.producer != nil {
		_ = d.producer.Close()
	}
	if d.source != nil {
		_ = d.source.Close()
	}
	if d.offsets != nil {
		_ = d.offsets.Close()
	}
}

type saramaSource struct {
	consumer sarama.Consumer
}

func (s saramaSource) ConsumePartition(topic string, partition int32, offset int64) (partitionConsumer, error) {
	return s.consumer.ConsumePartition(topic, partition, offset)
}

func (s saramaSource) Close() error { return s.consumer.Close() }

var dial = func(cfg config) (dependencies, error) {
	consumerCfg := sarama.NewConfig()
	consumerCfg.Consumer.Return.Errors = true

	client, err := sarama.NewClient(cfg.brokers, consumerCfg)
	if err != nil {
		return dependencies{}, fmt.Errorf("kafka client: %w", err)
	}
	consumer, err := sarama.NewConsumerFromClient(client)
	if err != nil {
		_ = client.Close()
		return dependencies{}, fmt.Errorf("kafka consumer: %w", err)
	}
	deps := dependencies{offsets: client, source: saramaSource{consumer: consumer}}
	if !cfg.execute {
		return deps, nil
	}

	deps.producer, err = sarama.NewSyncProducer(cfg.brokers, kafka.ProducerConfig())
	if err != nil {
		deps.close()
		return dependencies{}, fmt.Errorf("kafka producer: %w", err)
	}
	return deps, nil
}

func main() {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	cfg, err := parseConfig(os.Args[1:], os.Getenv, os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		log.WithError(err).Fatal("invalid config")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	_, err = run(ctx, cfg, log.WithField("component", "dlq-reprocess"))
	stop()
	if err != nil {
		log.WithError(err).Fatal("dlq replay failed")
	}
}

func run(ctx context.Context, cfg config, logger *log.Entry) (tally, error) {
	logger.WithFields(log.Fields{
		"source_topic": cfg.sourceTopic,
		"target_topic": cfg.targetTopic,
		"event_type":   cfg.eventType,
		"limit":        cfg.limit,
		"execute":      cfg.execute,
		"from_newest":  cfg.fromNewest,
	}).Info("starting dlq replay")

	deps, err := dial(cfg)
	if err != nil {
		return tally{}, err
	}
	defer deps.close()

	r := &replayer{cfg: cfg, offsets: deps.offsets, source: deps.source, logger: logger}
	if deps.producer != nil {
		r.producer = kafka.NewProducerFromSync(deps.producer, logger)
	}
	return r.run(ctx)
}
