package memory

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vladislavdragonenkov/orderdesk/internal/domain"
)

type outboxStatus uint8

const (
	outboxPending outboxStatus = iota
	outboxSent
	outboxFailed
)

type outboxEntry struct {
	msg       domain.OutboxMessage
	status    outboxStatus
	updatedAt time.Time
}

// outboxRepositoryInMemory держит сообщения упорядоченными по (created_at, id),
// поэтому PullPending не сортирует на каждом вызове.
type outboxRepositoryInMemory struct {
	mu      sync.RWMutex
	ordered []*outboxEntry
	byID    map[string]*outboxEntry
	now     func() time.Time
}

// NewOutboxRepository создаёт in-memory реализацию outbox.
func NewOutboxRepository() *outboxRepositoryInMemory {
	return &outboxRepositoryInMemory{byID: make(map[string]*outboxEntry), now: time.Now}
}

func prepareOutboxMessage(msg domain.OutboxMessage) domain.OutboxMessage {
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}
	msg.CreatedAt = msg.CreatedAt.UTC()
	msg.Payload = slices.Clone(msg.Payload)
	return msg
}

func compareOutbox(a, b domain.OutboxMessage) int {
	return cmp.Or(a.CreatedAt.Compare(b.CreatedAt), cmp.Compare(a.ID, b.ID))
}

// Enqueue сохраняет событие со статусом pending. Повтор с тем же id заменяет запись.
func (r *outboxRepositoryInMemory) Enqueue(ctx context.Context, msg domain.OutboxMessage) (domain.OutboxMessage, error) {
	if err := ctx.Err(); err != nil {
		return domain.OutboxMessage{}, err
	}
	msg = prepareOutboxMessage(msg)

	r.mu.Lock()
	defer r.mu.Unlock()

	if old, ok := r.byID[msg.ID]; ok {
		r.ordered = slices.DeleteFunc(r.ordered, func(e *outboxEntry) bool { return e == old })
	}
	entry := &outboxEntry{msg: msg, status: outboxPending, updatedAt: msg.CreatedAt}
	pos, _ := slices.BinarySearchFunc(r.ordered, msg, func(e *outboxEntry, m domain.OutboxMessage) int {
		return compareOutbox(e.msg, m)
	})
	r.ordered = slices.Insert(r.ordered, pos, entry)
	r.byID[msg.ID] = entry
	return msg, nil
}

// PullPending возвращает до limit самых старых pending-сообщений.
func (r *outboxRepositoryInMemory) PullPending(ctx context.Context, limit int) ([]domain.OutboxMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 100
	}
	return r.collect(outboxPending, limit), nil
}

func (r *outboxRepositoryInMemory) Stats(ctx context.Context) (domain.OutboxStats, error) {
	if err := ctx.Err(); err != nil {
		return domain.OutboxStats{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	var stats domain.OutboxStats
	for _, e := range r.ordered {
		if e.status != outboxPending {
			continue
		}
		if stats.PendingCount == 0 {
			stats.OldestPendingAt = e.msg.CreatedAt
		}
		stats.PendingCount++
	}
	return stats, nil
}

func (r *outboxRepositoryInMemory) MarkSent(ctx context.Context, id string) error {
	return r.mark(ctx, id, outboxSent)
}

// MarkFailed фиксирует окончательную ошибку публикации (после retry и DLQ).
func (r *outboxRepositoryInMemory) MarkFailed(ctx context.Context, id string) error {
	return r.mark(ctx, id, outboxFailed)
}

func (r *outboxRepositoryInMemory) mark(ctx context.Context, id string, status outboxStatus) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.byID[id]
	if !ok {
		return domain.ErrOutboxPublish
	}
	entry.status = status
	entry.msg.Attempts++
	entry.updatedAt = r.now().UTC()
	return nil
}

// AllPending возвращает копию всех pending-сообщений.
func (r *outboxRepositoryInMemory) AllPending() []domain.OutboxMessage {
	return r.collect(outboxPending, -1)
}

// Failed возвращает сообщения, которые воркер не смог доставить.
func (r *outboxRepositoryInMemory) Failed() []domain.OutboxMessage {
	return r.collect(outboxFailed, -1)
}

// collect копирует до limit сообщений со статусом status; limit < 0 снимает ограничение.
func (r *outboxRepositoryInMemory) collect(status outboxStatus, limit int) []domain.OutboxMessage {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.OutboxMessage, 0)
	for _, e := range r.ordered {
		if limit >= 0 && len(result) == limit {
			break
		}
		if e.status == status {
			msg := e.msg
			msg.Payload = slices.Clone(msg.Payload)
			result = append(result, msg)
		}
	}
	return result
}

var _ domain.OutboxRepository = (*outboxRepositoryInMemory)(nil)
