package stock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/orderdesk/internal/domain"
)

// Service — управление складскими записями вне оформления заказа
// (заведение остатков, ручная корректировка, удаление).
type Service struct {
	tx     domain.TxManager
	logger *log.Entry
	now    func() time.Time
}

// NewService создаёт сервис управления остатками.
func NewService(tx domain.TxManager, logger *log.Entry) *Service {
	if logger == nil {
		logger = log.WithField("component", "stock-service")
	}
	return &Service{
		tx:     tx,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Create заводит остаток для существующего товара.
func (s *Service) Create(ctx context.Context, productID string, quantity int64) (domain.StockEntry, error) {
	if quantity < 0 {
		return domain.StockEntry{}, domain.ErrStockNegative
	}

	entry := domain.StockEntry{
		ID:        uuid.NewString(),
		ProductID: productID,
		Quantity:  quantity,
		UpdatedAt: s.now(),
	}
	err := s.tx.WithinTx(ctx, func(ctx context.Context, tx domain.Tx) error {
		if _, err := tx.Products().Get(ctx, productID); err != nil {
			return fmt.Errorf("resolve product %s: %w", productID, err)
		}
		return tx.Stock().Create(ctx, entry)
	})
	if err != nil {
		return domain.StockEntry{}, err
	}

	s.logger.WithFields(log.Fields{
		"stock_id":   entry.ID,
		"product_id": productID,
		"quantity":   quantity,
	}).Info("stock entry created")
	return entry, nil
}

// Get возвращает запись по идентификатору.
func (s *Service) Get(ctx context.Context, id string) (domain.StockEntry, error) {
	var entry domain.StockEntry
	err := s.tx.WithinTx(ctx, func(ctx context.Context, tx domain.Tx) error {
		var err error
		entry, err = ForTx(tx).Get(ctx, id)
		return err
	})
	return entry, err
}

// GetByProduct возвращает запись по идентификатору товара.
func (s *Service) GetByProduct(ctx context.Context, productID string) (domain.StockEntry, error) {
	var entry domain.StockEntry
	err := s.tx.WithinTx(ctx, func(ctx context.Context, tx domain.Tx) error {
		var err error
		entry, err = ForTx(tx).GetByProduct(ctx, productID)
		return err
	})
	return entry, err
}

// GetByProductDescription находит товар по описанию и возвращает его остаток.
func (s *Service) GetByProductDescription(ctx context.Context, description string) (domain.StockEntry, error) {
	var entry domain.StockEntry
	err := s.tx.WithinTx(ctx, func(ctx context.Context, tx domain.Tx) error {
		product, err := tx.Products().GetByDescription(ctx, description)
		if err != nil {
			return fmt.Errorf("resolve product %q: %w", description, err)
		}
		entry, err = ForTx(tx).GetByProduct(ctx, product.ID)
		return err
	})
	return entry, err
}

// SetQuantity перезаписывает остаток (инвентаризация, поступление товара).
func (s *Service) SetQuantity(ctx context.Context, id string, quantity int64) (domain.StockEntry, error) {
	var entry domain.StockEntry
	err := s.tx.WithinTx(ctx, func(ctx context.Context, tx domain.Tx) error {
		ledger := ForTx(tx)
		current, err := ledger.Get(ctx, id)
		if err != nil {
			return err
		}
		if err := ledger.ApplyDelta(ctx, id, quantity); err != nil {
			return err
		}
		entry = current
		entry.Quantity = quantity
		entry.UpdatedAt = s.now()
		return nil
	})
	if err != nil {
		return domain.StockEntry{}, err
	}

	s.logger.WithFields(log.Fields{
		"stock_id": id,
		"quantity": quantity,
	}).Info("stock quantity set")
	return entry, nil
}

// Delete удаляет складскую запись.
func (s *Service) Delete(ctx context.Context, id string) error {
	err := s.tx.WithinTx(ctx, func(ctx context.Context, tx domain.Tx) error {
		return ForTx(tx).Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	s.logger.WithField("stock_id", id).Info("stock entry deleted")
	return nil
}
