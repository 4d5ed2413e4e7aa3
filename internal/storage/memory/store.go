package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/vladislavdragonenkov/orderdesk/internal/domain"
)

// Store — in-memory хранилище для локальной разработки и тестов.
//
// Транзакции сериализуются: WithinTx держит txMu всё время выполнения fn,
// поэтому чтение и списание остатка не пересекаются между конкурентными вызовами.
// Изменения применяются к копии состояния и становятся видимыми только после успешного fn.
type Store struct {
	txMu sync.Mutex

	mu     sync.RWMutex
	state  *state
	outbox *outboxRepositoryInMemory
}

// NewStore создаёт пустое хранилище с собственным outbox.
func NewStore() *Store {
	return &Store{
		state:  newState(),
		outbox: NewOutboxRepository(),
	}
}

// Outbox возвращает outbox, в который попадают сообщения закоммиченных транзакций.
func (s *Store) Outbox() domain.OutboxRepository {
	return s.outbox
}

// WithinTx выполняет fn в транзакции. Любая ошибка (или паника) откатывает все изменения.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, tx domain.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	working := s.state.clone()
	s.mu.RUnlock()

	tx := &txView{st: working}
	if err := fn(ctx, tx); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("commit memory tx: %w", err)
	}

	s.mu.Lock()
	s.state = working
	s.mu.Unlock()

	for _, msg := range tx.pending {
		if _, err := s.outbox.Enqueue(context.WithoutCancel(ctx), msg); err != nil {
			return fmt.Errorf("flush outbox: %w", err)
		}
	}
	return nil
}

// txView связывает репозитории с рабочей копией состояния.
type txView struct {
	st      *state
	pending []domain.OutboxMessage
}

func (t *txView) Customers() domain.CustomerRepository { return &customerRepositoryInMemory{st: t.st} }
func (t *txView) Products() domain.ProductRepository   { return &productRepositoryInMemory{st: t.st} }
func (t *txView) Stock() domain.StockRepository        { return &stockRepositoryInMemory{st: t.st} }
func (t *txView) Orders() domain.OrderRepository       { return &orderRepositoryInMemory{st: t.st} }
func (t *txView) LineItems() domain.LineItemRepository { return &lineItemRepositoryInMemory{st: t.st} }
func (t *txView) Outbox() domain.OutboxWriter          { return (*txOutbox)(t) }

// txOutbox буферизует сообщения до коммита.
type txOutbox txView

func (o *txOutbox) Enqueue(_ context.Context, msg domain.OutboxMessage) (domain.OutboxMessage, error) {
	msg = prepareOutboxMessage(msg)
	o.pending = append(o.pending, msg)
	return msg, nil
}

var (
	_ domain.TxManager    = (*Store)(nil)
	_ domain.Tx           = (*txView)(nil)
	_ domain.OutboxWriter = (*txOutbox)(nil)
)
