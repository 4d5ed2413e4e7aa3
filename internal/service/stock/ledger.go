// Package stock ведёт складской учёт: чтение и запись остатков по товарам.
package stock

import (
	"context"
	"errors"
	"fmt"

	"github.com/vladislavdragonenkov/orderdesk/internal/domain"
)

// Ledger — операции над остатками в рамках уже открытой транзакции.
// Ledger не пересчитывает и не перечитывает значения: решение о списании
// принимает вызывающий код, Ledger только проверяет, что остаток не уйдёт в минус.
type Ledger struct {
	repo domain.StockRepository
}

// NewLedger привязывает Ledger к репозиторию транзакции.
func NewLedger(repo domain.StockRepository) *Ledger {
	return &Ledger{repo: repo}
}

// ForTx сокращает NewLedger(tx.Stock()).
func ForTx(tx domain.Tx) *Ledger {
	return NewLedger(tx.Stock())
}

// GetByProduct возвращает складскую запись товара.
func (l *Ledger) GetByProduct(ctx context.Context, productID string) (domain.StockEntry, error) {
	entry, err := l.repo.GetByProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, domain.ErrStockNotFound) {
			return domain.StockEntry{}, notFoundForProduct(err, productID)
		}
		return domain.StockEntry{}, fmt.Errorf("get stock for product %s: %w", productID, err)
	}
	return entry, nil
}

// Get возвращает запись по её идентификатору.
func (l *Ledger) Get(ctx context.Context, id string) (domain.StockEntry, error) {
	entry, err := l.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrStockNotFound) {
			return domain.StockEntry{}, &domain.StockError{StockID: id}
		}
		return domain.StockEntry{}, fmt.Errorf("get stock %s: %w", id, err)
	}
	return entry, nil
}

// ApplyDelta записывает новое значение остатка для записи entryID.
func (l *Ledger) ApplyDelta(ctx context.Context, entryID string, newQuantity int64) error {
	if newQuantity < 0 {
		return fmt.Errorf("stock %s set to %d: %w", entryID, newQuantity, domain.ErrStockNegative)
	}
	if err := l.repo.UpdateQuantity(ctx, entryID, newQuantity); err != nil {
		return fmt.Errorf("update stock %s: %w", entryID, err)
	}
	return nil
}

// Delete удаляет складскую запись.
func (l *Ledger) Delete(ctx context.Context, id string) error {
	if err := l.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrStockNotFound) {
			return &domain.StockError{StockID: id}
		}
		return fmt.Errorf("delete stock %s: %w", id, err)
	}
	return nil
}

func notFoundForProduct(err error, productID string) error {
	var stockErr *domain.StockError
	if errors.As(err, &stockErr) && stockErr.ProductID != "" {
		return stockErr
	}
	return &domain.StockError{ProductID: productID}
}
