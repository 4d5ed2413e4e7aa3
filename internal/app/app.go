// Package app собирает сервис из хранилища, брокера, gRPC/REST-транспорта и фоновых worker'ов.
package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	promgrpc "github.com/grpc-ecosystem/go-grpc-prometheus"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	healthcheck "github.com/vladislavdragonenkov/orderdesk/internal/health"
	"github.com/vladislavdragonenkov/orderdesk/internal/metrics"
	"github.com/vladislavdragonenkov/orderdesk/internal/service/catalog"
	grpcsvc "github.com/vladislavdragonenkov/orderdesk/internal/service/grpc"
	"github.com/vladislavdragonenkov/orderdesk/internal/service/idempotency"
	"github.com/vladislavdragonenkov/orderdesk/internal/service/ordering"
	"github.com/vladislavdragonenkov/orderdesk/internal/service/outbox"
	"github.com/vladislavdragonenkov/orderdesk/internal/service/stock"
	"github.com/vladislavdragonenkov/orderdesk/internal/storage/rediscache"
	"github.com/vladislavdragonenkov/orderdesk/internal/transport/httpapi"
	"github.com/vladislavdragonenkov/orderdesk/internal/version"
	orderdeskv1 "github.com/vladislavdragonenkov/orderdesk/proto/orderdesk/v1"
)

const grpcStopTimeout = 5 * time.Second

// Run поднимает сервис и блокируется до отмены ctx или падения одного из серверов.
func Run(ctx context.Context, cfg Config) error {
	logger := log.WithField("component", "app")
	logger.WithFields(version.Get().Fields()).Info("starting")

	deps, err := initRuntimeDependencies(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStorage(deps.closeFn, logger)

	brokers, err := initOutboxBrokers(cfg, logger)
	if err != nil {
		return err
	}
	defer brokers.close(logger)

	healthHandler := healthcheck.NewHandler(version.Get().Version).WithService(version.Service)
	healthHandler.Register("storage", deps.storageChecker)

	orderMetrics := metrics.NewOrderMetrics()
	idempotencyMetrics := metrics.NewIdempotencyMetrics()

	orderingOpts := []ordering.Option{
		ordering.WithLogger(logger.WithField("layer", "ordering")),
		ordering.WithMetrics(orderMetrics),
		ordering.WithTimeline(deps.timelineRepo),
	}
	if cfg.RedisAddr != "" {
		rdb := rediscache.NewClient(cfg.RedisAddr)
		defer closeRedis(rdb, logger)
		orderingOpts = append(orderingOpts, ordering.WithCache(rediscache.NewOrderCache(rdb, cfg.OrderCacheTTL)))
		healthHandler.Register("redis", healthcheck.Optional("redis", func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		}))
		logger.WithField("addr", cfg.RedisAddr).Info("order cache: redis")
	}

	orchestrator := ordering.NewOrchestrator(deps.tx, orderingOpts...)
	lifecycle := ordering.NewLifecycle(deps.tx, orderingOpts...)

	// Оба транспорта пишут в одно хранилище ключей; ответы различаются scope'ом.
	grpcGuard := newGuard(cfg, deps, grpcsvc.StatusCode, idempotencyMetrics, logger)
	httpGuard := newGuard(cfg, deps, httpapi.StatusForError, idempotencyMetrics, logger)

	serviceOpts := []grpcsvc.Option{
		grpcsvc.WithIdempotencyGuard(grpcGuard),
		grpcsvc.WithLogger(logger.WithField("layer", "grpc")),
	}
	if cfg.RequireIdempotencyKey {
		serviceOpts = append(serviceOpts, grpcsvc.WithRequiredIdempotencyKey())
	}
	orderService := grpcsvc.NewOrderService(orchestrator, lifecycle, serviceOpts...)

	grpcMetrics := promgrpc.NewServerMetrics()
	grpcServer := grpc.NewServer(grpc.ChainUnaryInterceptor(grpcMetrics.UnaryServerInterceptor()))
	if err := prometheus.Register(grpcMetrics); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(*promgrpc.ServerMetrics); ok {
				grpcMetrics = existing
			}
		} else {
			logger.WithError(err).Warn("failed to register grpc metrics")
		}
	}
	orderdeskv1.RegisterOrderServiceServer(grpcServer, orderService)
	grpcMetrics.InitializeMetrics(grpcServer)
	reflection.Register(grpcServer)

	healthServer := health.NewServer()
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(grpcServer, healthServer)

	opsSrv := newHTTPServer(cfg.MetricsAddr, opsRouter(healthHandler))
	serve(opsSrv, logger.WithField("server", "ops"), nil)
	defer shutdownHTTP(opsSrv, logger)

	workerCtx, stopWorkers := context.WithCancel(context.WithoutCancel(ctx))
	outboxDone := startOutboxWorker(workerCtx, cfg, deps, brokers, logger)
	cleanupDone := startCleanupWorker(workerCtx, cfg, deps, idempotencyMetrics, logger)
	defer stopBackgroundWorkers(stopWorkers, logger, outboxDone, cleanupDone)

	lis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		return err
	}

	errCh := make(chan error, 2)
	var apiSrv *http.Server
	if cfg.HTTPAddr != "" {
		router := httpapi.NewRouter(logger.WithField("layer", "http"),
			httpapi.NewOrdersHandler(orchestrator, lifecycle, httpGuard, logger.WithField("layer", "http")),
			httpapi.NewCatalogHandler(
				catalog.NewService(deps.tx, logger.WithField("layer", "catalog")),
				stock.NewService(deps.tx, logger.WithField("layer", "stock")),
				logger.WithField("layer", "http"),
			),
		)
		apiSrv = newHTTPServer(cfg.HTTPAddr, router)
		serve(apiSrv, logger.WithField("server", "api"), errCh)
	}

	go func() {
		logger.Infof("gRPC сервер слушает %s", cfg.GRPCAddr)
		errCh <- grpcServer.Serve(lis)
	}()

	select {
	case <-ctx.Done():
		logger.Info("получен сигнал остановки, останавливаем серверы")
		healthServer.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
		shutdownHTTP(apiSrv, logger)
		stopGRPC(grpcServer, logger)
		return ctx.Err()
	case err := <-errCh:
		shutdownHTTP(apiSrv, logger)
		grpcServer.Stop()
		if errors.Is(err, grpc.ErrServerStopped) {
			return nil
		}
		return err
	}
}

func newGuard(cfg Config, deps runtimeDependencies, statusFn idempotency.StatusFunc, m *metrics.IdempotencyMetrics, logger *log.Entry) *idempotency.Guard {
	return idempotency.NewGuard(deps.idempotencyRepo,
		idempotency.WithStatusFunc(statusFn),
		idempotency.WithTTL(cfg.IdempotencyTTL),
		idempotency.WithGuardMetrics(m),
		idempotency.WithGuardLogger(logger.WithField("layer", "idempotency")),
	)
}

func startOutboxWorker(ctx context.Context, cfg Config, deps runtimeDependencies, brokers outboxBrokers, logger *log.Entry) <-chan struct{} {
	opts := []outbox.Option{
		outbox.WithLogger(logger.WithField("layer", "outbox")),
		outbox.WithMetrics(metrics.NewOutboxMetrics()),
		outbox.WithPollInterval(cfg.OutboxPollInterval),
		outbox.WithBatchSize(cfg.OutboxBatchSize),
		outbox.WithMaxAttempts(cfg.OutboxMaxAttempts),
		outbox.WithRetryBaseDelay(cfg.OutboxRetryDelay),
	}
	if brokers.dlq != nil {
		opts = append(opts, outbox.WithDLQPublisher(brokers.dlq))
	}
	publisher := brokers.publisher
	if cfg.OutboxBreakerFailures > 0 {
		breaker := outbox.NewCircuitBreaker(cfg.OutboxBreakerFailures, cfg.OutboxBreakerCooldown, logger.WithField("layer", "outbox-breaker"))
		publisher = outbox.NewBreakingPublisher(publisher, breaker)
	}
	worker := outbox.NewWorker(deps.outboxRepo, publisher, opts...)

	done := make(chan struct{})
	go func() {
		defer close(done)
		worker.Run(ctx)
	}()
	return done
}

func startCleanupWorker(ctx context.Context, cfg Config, deps runtimeDependencies, m *metrics.IdempotencyMetrics, logger *log.Entry) <-chan struct{} {
	worker := idempotency.NewCleanupWorker(deps.idempotencyRepo,
		idempotency.WithLogger(logger.WithField("layer", "idempotency-cleanup")),
		idempotency.WithCleanupMetrics(m),
		idempotency.WithInterval(cfg.IdempotencyCleanupInterval),
		idempotency.WithBatchSize(cfg.IdempotencyCleanupBatchSize),
	)

	done := make(chan struct{})
	go func() {
		defer close(done)
		worker.Run(ctx)
	}()
	return done
}

// stopGRPC ждёт завершения активных вызовов, но не дольше grpcStopTimeout.
func stopGRPC(server *grpc.Server, logger *log.Entry) {
	stopped := make(chan struct{})
	go func() {
		server.GracefulStop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(grpcStopTimeout):
		logger.Warn("graceful stop превысил таймаут, принудительно останавливаем")
		server.Stop()
	}
}

func stopBackgroundWorkers(cancel context.CancelFunc, logger *log.Entry, done ...<-chan struct{}) {
	if cancel != nil {
		cancel()
	}
	for _, ch := range done {
		if ch == nil {
			continue
		}
		select {
		case <-ch:
		case <-time.After(grpcStopTimeout):
			logger.Warn("background worker did not stop in time")
		}
	}
}

func closeStorage(closeFn func() error, logger *log.Entry) {
	if closeFn == nil {
		return
	}
	if err := closeFn(); err != nil {
		logger.WithError(err).Warn("failed to close storage")
	}
}

func closeRedis(rdb *redis.Client, logger *log.Entry) {
	if err := rdb.Close(); err != nil {
		logger.WithError(err).Warn("failed to close redis client")
	}
}
