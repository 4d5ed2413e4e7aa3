// Package ordering оформляет заказы со списанием остатков и управляет их жизненным циклом.
package ordering

import (
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/orderdesk/internal/domain"
	"github.com/vladislavdragonenkov/orderdesk/internal/metrics"
)

type options struct {
	logger   *log.Entry
	metrics  *metrics.OrderMetrics
	timeline domain.TimelineRepository
	cache    domain.OrderCache
	clock    func() time.Time
	newID    func() string
}

// Option настраивает Orchestrator и Lifecycle.
type Option func(*options)

// WithLogger задаёт logger.
func WithLogger(logger *log.Entry) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithMetrics включает prometheus-метрики. Без опции метрики не пишутся.
func WithMetrics(m *metrics.OrderMetrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// WithTimeline задаёт хранилище таймлайна заказов.
func WithTimeline(timeline domain.TimelineRepository) Option {
	return func(o *options) {
		o.timeline = timeline
	}
}

// WithCache включает кэш собранных заказов.
func WithCache(cache domain.OrderCache) Option {
	return func(o *options) {
		o.cache = cache
	}
}

// WithClock подменяет источник времени (дата заказа, отметки событий).
func WithClock(clock func() time.Time) Option {
	return func(o *options) {
		o.clock = clock
	}
}

// WithIDGenerator подменяет генератор идентификаторов заказов и позиций.
func WithIDGenerator(newID func() string) Option {
	return func(o *options) {
		o.newID = newID
	}
}

func buildOptions(component string, opts []Option) options {
	o := options{
		clock: func() time.Time { return time.Now().UTC() },
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = log.New().WithField("component", component)
	}
	if o.clock == nil {
		o.clock = func() time.Time { return time.Now().UTC() }
	}
	if o.newID == nil {
		o.newID = uuid.NewString
	}
	return o
}
