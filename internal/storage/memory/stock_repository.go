package memory

import (
	"context"
	"time"

	"github.com/vladislavdragonenkov/orderdesk/internal/domain"
)

// stockRepositoryInMemory хранит остатки и индекс product_id -> stock_id.
type stockRepositoryInMemory struct {
	st *state
}

func (r *stockRepositoryInMemory) GetByProduct(_ context.Context, productID string) (domain.StockEntry, error) {
	id, ok := r.st.stockByProduct[productID]
	if !ok {
		return domain.StockEntry{}, &domain.StockError{ProductID: productID}
	}
	return r.st.stock[id], nil
}

func (r *stockRepositoryInMemory) Get(_ context.Context, id string) (domain.StockEntry, error) {
	entry, ok := r.st.stock[id]
	if !ok {
		return domain.StockEntry{}, &domain.StockError{StockID: id}
	}
	return entry, nil
}

func (r *stockRepositoryInMemory) Create(_ context.Context, entry domain.StockEntry) error {
	if entry.Quantity < 0 {
		return domain.ErrStockNegative
	}
	if _, exists := r.st.stockByProduct[entry.ProductID]; exists {
		return domain.ErrStockAlreadyExists
	}
	if _, exists := r.st.stock[entry.ID]; exists {
		return domain.ErrStockAlreadyExists
	}
	if entry.UpdatedAt.IsZero() {
		entry.UpdatedAt = time.Now().UTC()
	}
	r.st.stock[entry.ID] = entry
	r.st.stockByProduct[entry.ProductID] = entry.ID
	return nil
}

func (r *stockRepositoryInMemory) UpdateQuantity(_ context.Context, id string, quantity int64) error {
	if quantity < 0 {
		return domain.ErrStockNegative
	}
	entry, ok := r.st.stock[id]
	if !ok {
		return &domain.StockError{StockID: id}
	}
	entry.Quantity = quantity
	entry.UpdatedAt = time.Now().UTC()
	r.st.stock[id] = entry
	return nil
}

func (r *stockRepositoryInMemory) Delete(_ context.Context, id string) error {
	entry, ok := r.st.stock[id]
	if !ok {
		return &domain.StockError{StockID: id}
	}
	delete(r.st.stock, id)
	delete(r.st.stockByProduct, entry.ProductID)
	return nil
}

var _ domain.StockRepository = (*stockRepositoryInMemory)(nil)
