package main

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/IBM/sarama"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/orderdesk/internal/messaging/kafka"
)

type offsetClient interface {
	GetOffset(topic string, partition int32, time int64) (int64, error)
	Partitions(topic string) ([]int32, error)
	Close() error
}

type partitionConsumer interface {
	Messages() <-chan *sarama.ConsumerMessage
	Errors() <-chan *sarama.ConsumerError
	Close() error
}

type partitionConsumerSource interface {
	ConsumePartition(topic string, partition int32, offset int64) (partitionConsumer, error)
	Close() error
}

// tally считает просмотренные сообщения; каждое либо переотправлено, либо пропущено.
type tally struct {
	scanned  int
	replayed int
	skipped  int
}

func (t *tally) add(other tally) {
	t.scanned += other.scanned
	t.replayed += other.replayed
	t.skipped += other.skipped
}

// replayer читает DLQ по партициям и переотправляет события. Без producer работает в dry-run.
type replayer struct {
	cfg      config
	offsets  offsetClient
	source   partitionConsumerSource
	producer *kafka.Producer
	logger   *log.Entry
}

func (r *replayer) run(ctx context.Context) (tally, error) {
	var total tally
	if r.offsets == nil || r.source == nil {
		return total, errors.New("kafka client and consumer are required")
	}
	if r.cfg.execute && r.producer == nil {
		return total, errors.New("execute mode requires a producer")
	}

	partitions, err := r.offsets.Partitions(r.cfg.sourceTopic)
	if err != nil {
		return total, fmt.Errorf("list partitions of %s: %w", r.cfg.sourceTopic, err)
	}
	if len(partitions) == 0 {
		r.logger.WithField("topic", r.cfg.sourceTopic).Warn("dlq topic has no partitions")
		return total, nil
	}
	slices.Sort(partitions)

	for _, partition := range partitions {
		if total.scanned >= r.cfg.limit {
			break
		}
		got, err := r.drain(ctx, partition, r.cfg.limit-total.scanned)
		total.add(got)
		if err != nil {
			return total, err
		}
	}

	mode := "dry-run"
	if r.cfg.execute {
		mode = "execute"
	}
	r.logger.WithFields(log.Fields{
		"mode":     mode,
		"scanned":  total.scanned,
		"replayed": total.replayed,
		"skipped":  total.skipped,
	}).Info("dlq replay finished")
	return total, nil
}

// drain просматривает не больше budget сообщений партиции, существовавших на момент запуска.
// Чтение прекращается и после idleTimeout без новых сообщений.
func (r *replayer) drain(ctx context.Context, partition int32, budget int) (tally, error) {
	var t tally
	if budget <= 0 {
		return t, nil
	}

	oldest, err := r.offsets.GetOffset(r.cfg.sourceTopic, partition, sarama.OffsetOldest)
	if err != nil {
		return t, fmt.Errorf("oldest offset of partition %d: %w", partition, err)
	}
	newest, err := r.offsets.GetOffset(r.cfg.sourceTopic, partition, sarama.OffsetNewest)
	if err != nil {
		return t, fmt.Errorf("newest offset of partition %d: %w", partition, err)
	}
	if newest <= oldest {
		return t, nil
	}

	start := oldest
	if r.cfg.fromNewest {
		start = max(newest-int64(budget), oldest)
	}
	pc, err := r.source.ConsumePartition(r.cfg.sourceTopic, partition, start)
	if err != nil {
		return t, fmt.Errorf("consume partition %d: %w", partition, err)
	}
	defer func() { _ = pc.Close() }()

	idle := time.NewTimer(r.cfg.idleTimeout)
	defer idle.Stop()

	for t.scanned < budget {
		select {
		case <-ctx.Done():
			return t, ctx.Err()
		case <-idle.C:
			return t, nil
		case cerr := <-pc.Errors():
			if cerr != nil {
				return t, fmt.Errorf("partition %d: %w", partition, cerr)
			}
		case msg, ok := <-pc.Messages():
			if !ok || msg == nil || msg.Offset >= newest {
				return t, nil
			}
			idle.Reset(r.cfg.idleTimeout)
			t.scanned++

			replayed, err := r.handle(ctx, msg)
			if err != nil {
				return t, err
			}
			if replayed {
				t.replayed++
			} else {
				t.skipped++
			}
			if msg.Offset+1 >= newest {
				return t, nil
			}
		}
	}
	return t, nil
}

// handle сообщает, было ли сообщение переотправлено (или, в dry-run, стало бы).
func (r *replayer) handle(ctx context.Context, msg *sarama.ConsumerMessage) (bool, error) {
	entry := r.logger.WithFields(log.Fields{"partition": msg.Partition, "offset": msg.Offset})

	replay, err := buildReplay(msg, r.cfg.targetTopic, r.cfg.eventType)
	switch {
	case errors.Is(err, errEventFiltered):
		return false, nil
	case err != nil:
		entry.WithError(err).Warn("skip unsupported dlq message")
		return false, nil
	case !r.cfg.execute:
		entry.WithFields(log.Fields{
			"target_topic": replay.topic,
			"key":          replay.key,
			"event_type":   replay.headers[kafka.HeaderEventType],
		}).Info("dlq replay candidate")
		return true, nil
	}

	out := kafka.Message{Topic: replay.topic, Key: replay.key, Value: replay.value, Headers: replay.headers}
	if _, err := r.producer.Send(ctx, out); err != nil {
		return false, fmt.Errorf("replay %s: %w", replay.key, err)
	}
	return true, nil
}
