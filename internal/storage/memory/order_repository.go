package memory

import (
	"context"
	"sort"

	"github.com/vladislavdragonenkov/orderdesk/internal/domain"
)

// orderRepositoryInMemory работает поверх снимка состояния транзакции.
type orderRepositoryInMemory struct {
	st *state
}

// Create сохраняет новый заказ, если ID ещё не занят. Позиции хранятся отдельно.
func (r *orderRepositoryInMemory) Create(_ context.Context, order domain.Order) error {
	if _, exists := r.st.orders[order.ID]; exists {
		return domain.ErrOrderAlreadyExists
	}
	order.Items = nil
	r.st.orders[order.ID] = order
	return nil
}

// Get возвращает заказ или ErrOrderNotFound, если его нет.
func (r *orderRepositoryInMemory) Get(_ context.Context, id string) (domain.Order, error) {
	order, ok := r.st.orders[id]
	if !ok {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	return order, nil
}

// GetWithItems возвращает заказ вместе с копией позиций.
func (r *orderRepositoryInMemory) GetWithItems(ctx context.Context, id string) (domain.Order, error) {
	order, err := r.Get(ctx, id)
	if err != nil {
		return domain.Order{}, err
	}
	order.Items = append([]domain.LineItem(nil), r.st.items[id]...)
	return order, nil
}

// ListByCustomer возвращает заказы клиента, ограничивая выборку limit (если >0).
func (r *orderRepositoryInMemory) ListByCustomer(_ context.Context, customerID string, limit int) ([]domain.Order, error) {
	result := make([]domain.Order, 0)
	for _, order := range r.st.orders {
		if order.CustomerID != customerID {
			continue
		}
		result = append(result, order)
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID > result[j].ID
	})

	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}

	return result, nil
}

// Save перезаписывает заказ, проверяя версию (optimistic locking).
func (r *orderRepositoryInMemory) Save(_ context.Context, order domain.Order) error {
	current, ok := r.st.orders[order.ID]
	if !ok {
		return domain.ErrOrderNotFound
	}
	if current.Version != order.Version {
		return domain.ErrOrderVersionConflict
	}
	order.Version++
	order.Items = nil
	r.st.orders[order.ID] = order
	return nil
}

// Delete удаляет заказ и каскадно его позиции.
func (r *orderRepositoryInMemory) Delete(_ context.Context, id string) error {
	if _, ok := r.st.orders[id]; !ok {
		return domain.ErrOrderNotFound
	}
	delete(r.st.orders, id)
	delete(r.st.items, id)
	return nil
}

// lineItemRepositoryInMemory хранит позиции, сгруппированные по заказу.
type lineItemRepositoryInMemory struct {
	st *state
}

// SaveAll добавляет позиции к уже существующим заказам, сохраняя порядок.
func (r *lineItemRepositoryInMemory) SaveAll(_ context.Context, items []domain.LineItem) error {
	for _, item := range items {
		if _, ok := r.st.orders[item.OrderID]; !ok {
			return domain.ErrOrderNotFound
		}
		r.st.items[item.OrderID] = append(r.st.items[item.OrderID], item)
	}
	return nil
}

func (r *lineItemRepositoryInMemory) ListByOrder(_ context.Context, orderID string) ([]domain.LineItem, error) {
	return append([]domain.LineItem(nil), r.st.items[orderID]...), nil
}

var (
	_ domain.OrderRepository    = (*orderRepositoryInMemory)(nil)
	_ domain.LineItemRepository = (*lineItemRepositoryInMemory)(nil)
)
