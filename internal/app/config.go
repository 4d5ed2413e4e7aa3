package app

import (
	"time"

	"github.com/vladislavdragonenkov/orderdesk/internal/messaging/rabbitmq"
)

const (
	StorageDriverMemory   = "memory"
	StorageDriverPostgres = "postgres"

	BrokerNone     = "none"
	BrokerKafka    = "kafka"
	BrokerRabbitMQ = "rabbitmq"
)

// Config описывает настройки запуска приложения.
type Config struct {
	GRPCAddr    string
	HTTPAddr    string
	MetricsAddr string

	StorageDriver       string
	PostgresDSN         string
	PostgresAutoMigrate bool

	// Пустой RedisAddr выключает кэш заказов.
	RedisAddr     string
	OrderCacheTTL time.Duration

	OutboxBroker     string
	KafkaBrokers     string
	RabbitMQURL      string
	RabbitMQExchange string

	OutboxPollInterval time.Duration
	OutboxBatchSize    int
	OutboxMaxAttempts  int
	OutboxRetryDelay   time.Duration

	// OutboxBreakerFailures = 0 выключает circuit breaker перед брокером.
	OutboxBreakerFailures int
	OutboxBreakerCooldown time.Duration

	RequireIdempotencyKey       bool
	IdempotencyTTL              time.Duration
	IdempotencyCleanupInterval  time.Duration
	IdempotencyCleanupBatchSize int
}

// DefaultConfig возвращает конфигурацию для локального запуска без внешних зависимостей.
func DefaultConfig() Config {
	return Config{
		GRPCAddr:    ":50051",
		HTTPAddr:    ":8080",
		MetricsAddr: ":9090",

		StorageDriver:       StorageDriverMemory,
		PostgresAutoMigrate: true,

		OrderCacheTTL: 5 * time.Minute,

		OutboxBroker:     BrokerNone,
		RabbitMQExchange: rabbitmq.DefaultExchange,

		OutboxPollInterval: time.Second,
		OutboxBatchSize:    100,
		OutboxMaxAttempts:  3,
		OutboxRetryDelay:   100 * time.Millisecond,

		OutboxBreakerFailures: 5,
		OutboxBreakerCooldown: 30 * time.Second,

		IdempotencyTTL:              24 * time.Hour,
		IdempotencyCleanupInterval:  time.Minute,
		IdempotencyCleanupBatchSize: 500,
	}
}
