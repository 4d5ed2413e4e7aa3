package domain

import (
	"context"
	"time"
)

// OutboxPublisher публикует события из transactional outbox.
type OutboxPublisher interface {
	// Publish передаёт событие наружу; должен быть идемпотентным.
	Publish(ctx context.Context, event OutboxMessage) error
}

// OutboxRepository используется воркером публикации.
// PullPending отдаёт pending-сообщения в порядке создания (created_at, id).
type OutboxRepository interface {
	OutboxWriter
	PullPending(ctx context.Context, limit int) ([]OutboxMessage, error)
	Stats(ctx context.Context) (OutboxStats, error)
	MarkSent(ctx context.Context, id string) error
	MarkFailed(ctx context.Context, id string) error
}

// TimelineRepository хранит события жизненного цикла заказа.
type TimelineRepository interface {
	Append(ctx context.Context, event TimelineEvent) error
	List(ctx context.Context, orderID string) ([]TimelineEvent, error)
}

// IdempotencyRepository хранит состояние обработки запросов по idempotency-key.
type IdempotencyRepository interface {
	// Reserve занимает ключ со статусом processing. Если ключ занят и не истёк,
	// возвращает существующую запись вместе с ErrIdempotencyKeyAlreadyExists
	// или ErrIdempotencyHashMismatch.
	Reserve(ctx context.Context, key, requestHash string, expiresAt time.Time) (IdempotencyRecord, error)
	Get(ctx context.Context, key string) (IdempotencyRecord, error)
	// Complete сохраняет окончательный ответ; status должен быть done или failed.
	Complete(ctx context.Context, key string, status IdempotencyStatus, response []byte, code int) error
	// DeleteExpired удаляет до limit истёкших записей; limit <= 0 снимает ограничение.
	DeleteExpired(ctx context.Context, before time.Time, limit int) (int, error)
}

// OrderCache — кэш собранных заказов (заказ + позиции) для чтения.
//
// Fill не перезаписывает существующую запись. Invalidate оставляет
// короткоживущую метку удаления, и Fill по данным, прочитанным до
// инвалидации, её не затирает.
type OrderCache interface {
	Get(ctx context.Context, id string) (Order, bool, error)
	Fill(ctx context.Context, order Order) error
	Invalidate(ctx context.Context, id string) error
}

// OutboxMessage хранит данные для публикуемого события.
type OutboxMessage struct {
	ID            string
	AggregateType string
	AggregateID   string
	EventType     string
	Payload       []byte
	Attempts      int
	CreatedAt     time.Time
}

// OutboxStats описывает текущее состояние backlog transactional outbox.
type OutboxStats struct {
	PendingCount    int
	OldestPendingAt time.Time
}
