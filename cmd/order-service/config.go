package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/vladislavdragonenkov/orderdesk/internal/app"
)

const (
	envGRPCAddr                    = "ORDERDESK_GRPC_ADDR"
	envHTTPAddr                    = "ORDERDESK_HTTP_ADDR"
	envMetricsAddr                 = "ORDERDESK_METRICS_ADDR"
	envStorageDriver               = "ORDERDESK_STORAGE_DRIVER"
	envPostgresDSN                 = "ORDERDESK_POSTGRES_DSN"
	envPostgresAutoMigrate         = "ORDERDESK_POSTGRES_AUTO_MIGRATE"
	envRedisAddr                   = "ORDERDESK_REDIS_ADDR"
	envOrderCacheTTL               = "ORDERDESK_ORDER_CACHE_TTL"
	envOutboxBroker                = "ORDERDESK_OUTBOX_BROKER"
	envKafkaBrokers                = "ORDERDESK_KAFKA_BROKERS"
	envRabbitMQURL                 = "ORDERDESK_RABBITMQ_URL"
	envRabbitMQExchange            = "ORDERDESK_RABBITMQ_EXCHANGE"
	envOutboxPollInterval          = "ORDERDESK_OUTBOX_POLL_INTERVAL"
	envOutboxBatchSize             = "ORDERDESK_OUTBOX_BATCH_SIZE"
	envOutboxMaxAttempts           = "ORDERDESK_OUTBOX_MAX_ATTEMPTS"
	envOutboxRetryDelay            = "ORDERDESK_OUTBOX_RETRY_DELAY"
	envOutboxBreakerFailures       = "ORDERDESK_OUTBOX_BREAKER_FAILURES"
	envOutboxBreakerCooldown       = "ORDERDESK_OUTBOX_BREAKER_COOLDOWN"
	envRequireIdempotencyKey       = "ORDERDESK_REQUIRE_IDEMPOTENCY_KEY"
	envIdempotencyTTL              = "ORDERDESK_IDEMPOTENCY_TTL"
	envIdempotencyCleanupInterval  = "ORDERDESK_IDEMPOTENCY_CLEANUP_INTERVAL"
	envIdempotencyCleanupBatchSize = "ORDERDESK_IDEMPOTENCY_CLEANUP_BATCH_SIZE"
	envLogLevel                    = "ORDERDESK_LOG_LEVEL"
)

// envLookup совпадает по сигнатуре с os.LookupEnv.
type envLookup func(key string) (string, bool)

// readConfigFromEnv накладывает переменные окружения на app.DefaultConfig.
// Некорректные значения пропускаются с предупреждением.
func readConfigFromEnv(lookup envLookup) (app.Config, []string) {
	cfg := app.DefaultConfig()
	var warnings []string

	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	lower := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.ToLower(strings.TrimSpace(v))
		}
	}
	boolean := func(key string, dst *bool) {
		v, ok := lookup(key)
		if !ok || strings.TrimSpace(v) == "" {
			return
		}
		parsed, err := parseBool(v)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("%s: %v", key, err))
			return
		}
		*dst = parsed
	}
	positiveInt := func(key string, dst *int) {
		v, ok := lookup(key)
		if !ok || strings.TrimSpace(v) == "" {
			return
		}
		parsed, err := parseInt(v, func(n int) bool { return n > 0 }, "must be > 0")
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("%s: %v", key, err))
			return
		}
		*dst = parsed
	}
	duration := func(key string, least time.Duration, dst *time.Duration) {
		v, ok := lookup(key)
		if !ok || strings.TrimSpace(v) == "" {
			return
		}
		parsed, err := parseDuration(v, func(d time.Duration) bool { return d >= least }, fmt.Sprintf("must be >= %s", least))
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("%s: %v", key, err))
			return
		}
		*dst = parsed
	}

	str(envGRPCAddr, &cfg.GRPCAddr)
	str(envMetricsAddr, &cfg.MetricsAddr)
	// пустой HTTP-адрес выключает REST API
	if v, ok := lookup(envHTTPAddr); ok {
		cfg.HTTPAddr = strings.TrimSpace(v)
	}

	lower(envStorageDriver, &cfg.StorageDriver)
	str(envPostgresDSN, &cfg.PostgresDSN)
	boolean(envPostgresAutoMigrate, &cfg.PostgresAutoMigrate)

	str(envRedisAddr, &cfg.RedisAddr)
	duration(envOrderCacheTTL, time.Second, &cfg.OrderCacheTTL)

	lower(envOutboxBroker, &cfg.OutboxBroker)
	str(envKafkaBrokers, &cfg.KafkaBrokers)
	str(envRabbitMQURL, &cfg.RabbitMQURL)
	str(envRabbitMQExchange, &cfg.RabbitMQExchange)
	duration(envOutboxPollInterval, time.Millisecond, &cfg.OutboxPollInterval)
	positiveInt(envOutboxBatchSize, &cfg.OutboxBatchSize)
	positiveInt(envOutboxMaxAttempts, &cfg.OutboxMaxAttempts)
	duration(envOutboxRetryDelay, 0, &cfg.OutboxRetryDelay)
	if v, ok := lookup(envOutboxBreakerFailures); ok && strings.TrimSpace(v) != "" {
		parsed, err := parseInt(v, func(n int) bool { return n >= 0 }, "must be >= 0")
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("%s: %v", envOutboxBreakerFailures, err))
		} else {
			cfg.OutboxBreakerFailures = parsed
		}
	}
	duration(envOutboxBreakerCooldown, time.Millisecond, &cfg.OutboxBreakerCooldown)

	boolean(envRequireIdempotencyKey, &cfg.RequireIdempotencyKey)
	duration(envIdempotencyTTL, time.Second, &cfg.IdempotencyTTL)
	duration(envIdempotencyCleanupInterval, time.Second, &cfg.IdempotencyCleanupInterval)
	positiveInt(envIdempotencyCleanupBatchSize, &cfg.IdempotencyCleanupBatchSize)

	return cfg, warnings
}

func parseBool(raw string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "yes", "on":
		return true, nil
	case "0", "false", "no", "off":
		return false, nil
	default:
		return false, fmt.Errorf("invalid bool %q", raw)
	}
}

func parseInt(raw string, valid func(int) bool, rule string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("invalid int %q", raw)
	}
	if !valid(v) {
		return 0, fmt.Errorf("value %d %s", v, rule)
	}
	return v, nil
}

func parseDuration(raw string, valid func(time.Duration) bool, rule string) (time.Duration, error) {
	v, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q", raw)
	}
	if !valid(v) {
		return 0, fmt.Errorf("duration %s %s", v, rule)
	}
	return v, nil
}
