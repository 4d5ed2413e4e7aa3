// Package idempotency обеспечивает однократное выполнение запросов с idempotency-key
// и периодически удаляет просроченные ключи.
package idempotency

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"

	"github.com/vladislavdragonenkov/orderdesk/internal/domain"
	"github.com/vladislavdragonenkov/orderdesk/internal/metrics"
)

const defaultTTL = 24 * time.Hour

// StatusFunc переводит результат обработчика в код транспорта (HTTP или gRPC),
// который сохраняется вместе с ответом.
type StatusFunc func(err error) int

// ReplayedError — ошибка, восстановленная из сохранённого ответа.
type ReplayedError struct {
	Kind    domain.ErrorKind `json:"kind"`
	Reason  string           `json:"reason"`
	Message string           `json:"message"`
}

func (e *ReplayedError) Error() string {
	if e.Message == "" {
		return "previous request with the same idempotency key failed"
	}
	return e.Message
}

// ErrorKind возвращает категорию исходной ошибки.
func (e *ReplayedError) ErrorKind() domain.ErrorKind { return e.Kind }

// ErrorReason возвращает код исходной ошибки.
func (e *ReplayedError) ErrorReason() string { return e.Reason }

// Guard выполняет обработчик не более одного раза на ключ и воспроизводит сохранённый результат.
type Guard struct {
	repo    domain.IdempotencyRepository
	ttl     time.Duration
	status  StatusFunc
	logger  *log.Entry
	metrics *metrics.IdempotencyMetrics
	now     func() time.Time
}

// GuardOption настраивает Guard.
type GuardOption func(*Guard)

// WithTTL задаёт время жизни ключа.
func WithTTL(ttl time.Duration) GuardOption {
	return func(g *Guard) {
		if ttl > 0 {
			g.ttl = ttl
		}
	}
}

// WithStatusFunc задаёт преобразование результата в код транспорта.
func WithStatusFunc(fn StatusFunc) GuardOption {
	return func(g *Guard) {
		if fn != nil {
			g.status = fn
		}
	}
}

// WithGuardLogger задаёт logger.
func WithGuardLogger(logger *log.Entry) GuardOption {
	return func(g *Guard) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// WithGuardMetrics задаёт метрики.
func WithGuardMetrics(m *metrics.IdempotencyMetrics) GuardOption {
	return func(g *Guard) {
		g.metrics = m
	}
}

// WithGuardClock подменяет источник времени.
func WithGuardClock(now func() time.Time) GuardOption {
	return func(g *Guard) {
		if now != nil {
			g.now = now
		}
	}
}

// NewGuard создаёт Guard поверх хранилища ключей.
func NewGuard(repo domain.IdempotencyRepository, opts ...GuardOption) *Guard {
	g := &Guard{
		repo: repo,
		ttl:  defaultTTL,
		status: func(err error) int {
			if err != nil {
				return 500
			}
			return 200
		},
		logger: log.WithField("component", "idempotency-guard"),
		now:    func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Do выполняет handler под ключом key. scope отделяет операции друг от друга:
// один и тот же ключ с другим scope или другим телом запроса даёт ErrIdempotencyHashMismatch.
// Без хранилища handler вызывается напрямую.
func Do[T any](ctx context.Context, g *Guard, key, scope string, req any, handler func(context.Context) (T, error)) (T, error) {
	var zero T
	if g == nil || g.repo == nil {
		return handler(ctx)
	}

	key = strings.TrimSpace(key)
	if key == "" {
		return zero, domain.ErrIdempotencyKeyRequired
	}

	hash, err := RequestHash(scope, req)
	if err != nil {
		return zero, fmt.Errorf("build idempotency request hash: %w", err)
	}

	record, err := g.repo.Reserve(ctx, key, hash, g.now().Add(g.ttl))
	if err != nil {
		return replay[T](g, key, record, err)
	}

	resp, runErr := handler(ctx)
	// ответ сохраняется даже если клиент уже отключился
	storeCtx := context.WithoutCancel(ctx)
	if runErr != nil {
		g.storeFailure(storeCtx, key, runErr)
		g.record(metrics.IdempotencyOutcomeExecuted)
		return resp, runErr
	}

	body, err := encodeResponse(resp)
	if err == nil {
		err = g.repo.Complete(storeCtx, key, domain.IdempotencyStatusDone, body, g.status(nil))
	}
	if err != nil {
		g.logger.WithError(err).WithField("idempotency_key", key).Warn("failed to store idempotent success response")
	}
	g.record(metrics.IdempotencyOutcomeExecuted)
	return resp, nil
}

func replay[T any](g *Guard, key string, record domain.IdempotencyRecord, reserveErr error) (T, error) {
	var zero T

	switch {
	case errors.Is(reserveErr, domain.ErrIdempotencyHashMismatch):
		g.record(metrics.IdempotencyOutcomeMismatch)
		return zero, fmt.Errorf("idempotency key %q is already used with a different request: %w", key, reserveErr)
	case errors.Is(reserveErr, domain.ErrIdempotencyKeyAlreadyExists):
	default:
		return zero, fmt.Errorf("reserve idempotency key: %w", reserveErr)
	}

	switch record.Status {
	case domain.IdempotencyStatusDone:
		resp, err := decodeResponse[T](record.Response)
		if err != nil {
			return zero, fmt.Errorf("decode cached idempotency response: %w", err)
		}
		g.record(metrics.IdempotencyOutcomeReplayed)
		return resp, nil
	case domain.IdempotencyStatusFailed:
		g.record(metrics.IdempotencyOutcomeReplayed)
		return zero, decodeFailure(record)
	default:
		g.record(metrics.IdempotencyOutcomeInProgress)
		return zero, fmt.Errorf("request with idempotency key %q is still processing: %w", key, reserveErr)
	}
}

func (g *Guard) storeFailure(ctx context.Context, key string, runErr error) {
	payload, err := json.Marshal(ReplayedError{
		Kind:    domain.Classify(runErr),
		Reason:  domain.Reason(runErr),
		Message: runErr.Error(),
	})
	if err != nil {
		payload = nil
	}
	if err := g.repo.Complete(ctx, key, domain.IdempotencyStatusFailed, payload, g.status(runErr)); err != nil {
		g.logger.WithError(err).WithField("idempotency_key", key).Warn("failed to store idempotency failure response")
	}
}

func decodeFailure(record domain.IdempotencyRecord) error {
	replayed := &ReplayedError{Kind: domain.KindInternal, Reason: "INTERNAL"}
	if len(record.Response) > 0 {
		_ = json.Unmarshal(record.Response, replayed)
	}
	return replayed
}

func (g *Guard) record(outcome string) {
	if g.metrics != nil {
		g.metrics.RecordRequest(outcome)
	}
}

// encodeResponse сохраняет protobuf-ответы через protojson, остальные через encoding/json.
func encodeResponse(resp any) ([]byte, error) {
	if msg, ok := resp.(proto.Message); ok {
		return protojson.Marshal(msg)
	}
	return json.Marshal(resp)
}

func decodeResponse[T any](data []byte) (T, error) {
	var resp T
	if msg, ok := any(resp).(proto.Message); ok {
		fresh := msg.ProtoReflect().New().Interface()
		if err := protojson.Unmarshal(data, fresh); err != nil {
			return resp, err
		}
		typed, ok := fresh.(T)
		if !ok {
			return resp, fmt.Errorf("unexpected cached message type %T", fresh)
		}
		return typed, nil
	}
	err := json.Unmarshal(data, &resp)
	return resp, err
}

// RequestHash вычисляет отпечаток запроса: sha256 от scope и тела req.
// Protobuf-запросы сериализуются детерминированно, остальные в JSON.
func RequestHash(scope string, req any) (string, error) {
	var (
		data []byte
		err  error
	)
	if msg, ok := req.(proto.Message); ok {
		data, err = proto.MarshalOptions{Deterministic: true}.Marshal(msg)
	} else {
		data, err = json.Marshal(req)
	}
	if err != nil {
		return "", err
	}

	payload := make([]byte, 0, len(scope)+1+len(data))
	payload = append(payload, scope...)
	payload = append(payload, ':')
	payload = append(payload, data...)
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:]), nil
}
