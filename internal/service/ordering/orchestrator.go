package ordering

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/orderdesk/internal/domain"
	"github.com/vladislavdragonenkov/orderdesk/internal/metrics"
	"github.com/vladislavdragonenkov/orderdesk/internal/service/stock"
)

// Orchestrator оформляет заказ одной транзакцией: клиент, позиции, списание остатков,
// сумма, сохранение заказа и события OrderPlaced. При любой ошибке изменений не остаётся.
// Повторов внутри нет: конфликт или нехватку остатка вызывающий обрабатывает сам.
type Orchestrator struct {
	tx        domain.TxManager
	assembler *Assembler
	events    eventRecorder
	opts      options
}

// NewOrchestrator создаёт оркестратор поверх менеджера транзакций.
func NewOrchestrator(tx domain.TxManager, opts ...Option) *Orchestrator {
	o := buildOptions("order-orchestrator", opts)
	return &Orchestrator{
		tx:        tx,
		assembler: NewAssembler(o.newID),
		events:    newEventRecorder(o),
		opts:      o,
	}
}

// Place оформляет заказ клиента customerID из позиций raw и возвращает его вместе с позициями.
func (o *Orchestrator) Place(ctx context.Context, customerID string, raw []domain.ItemRequest) (domain.Order, error) {
	start := time.Now()
	if o.opts.metrics != nil {
		o.opts.metrics.RecordPlacementStarted()
	}

	var placed domain.Order
	err := o.tx.WithinTx(ctx, func(ctx context.Context, tx domain.Tx) error {
		var err error
		placed, err = o.place(ctx, tx, customerID, raw)
		return err
	})

	if o.opts.metrics != nil {
		o.opts.metrics.RecordPlacementFinished(placementResult(err), time.Since(start))
	}
	if err != nil {
		o.opts.logger.WithError(err).WithFields(log.Fields{
			"customer_id": customerID,
			"items":       len(raw),
		}).Warn("order placement rejected")
		return domain.Order{}, err
	}

	var units int64
	for _, item := range placed.Items {
		units += item.Quantity
	}
	if o.opts.metrics != nil {
		o.opts.metrics.RecordOrderPlaced(len(placed.Items), units)
	}
	o.events.committed(ctx, placed.ID, domain.EventOrderPlaced, "", placed.CreatedAt)

	o.opts.logger.WithFields(log.Fields{
		"order_id":    placed.ID,
		"customer_id": placed.CustomerID,
		"items":       len(placed.Items),
		"total":       placed.Total.StringFixed(2),
	}).Info("order placed")
	return placed, nil
}

func (o *Orchestrator) place(ctx context.Context, tx domain.Tx, customerID string, raw []domain.ItemRequest) (domain.Order, error) {
	customerID = strings.TrimSpace(customerID)
	if customerID == "" {
		return domain.Order{}, domain.ErrInvalidCustomer
	}
	if _, err := tx.Customers().Get(ctx, customerID); err != nil {
		if errors.Is(err, domain.ErrCustomerNotFound) {
			return domain.Order{}, fmt.Errorf("customer %s: %w", customerID, domain.ErrInvalidCustomer)
		}
		return domain.Order{}, fmt.Errorf("resolve customer %s: %w", customerID, err)
	}

	now := o.opts.clock()
	order := domain.Order{
		ID:         o.opts.newID(),
		CustomerID: customerID,
		PlacedOn:   domain.DateOf(now),
		Status:     domain.OrderStatusPlaced,
		Total:      decimal.Zero,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	items, err := o.assembler.Assemble(ctx, tx.Products(), order, raw)
	if err != nil {
		return domain.Order{}, err
	}

	// Позиции списываются строго по очереди: вторая позиция того же товара
	// видит остаток, уже уменьшенный первой.
	ledger := stock.ForTx(tx)
	total := decimal.Zero
	for _, item := range items {
		entry, err := ledger.GetByProduct(ctx, item.ProductID)
		if err != nil {
			return domain.Order{}, err
		}
		if !entry.CanFulfil(item.Quantity) {
			return domain.Order{}, &domain.InsufficientStockError{
				ProductID:   item.ProductID,
				Description: item.Description,
				Available:   entry.Quantity,
				Requested:   item.Quantity,
			}
		}
		if err := ledger.ApplyDelta(ctx, entry.ID, entry.Quantity-item.Quantity); err != nil {
			return domain.Order{}, err
		}
		total = total.Add(item.Subtotal())
	}
	order.Total = total
	order.Items = items
	if err := checkPlaced(order); err != nil {
		return domain.Order{}, err
	}

	if err := tx.Orders().Create(ctx, order); err != nil {
		return domain.Order{}, fmt.Errorf("create order: %w", err)
	}
	if err := tx.LineItems().SaveAll(ctx, items); err != nil {
		return domain.Order{}, fmt.Errorf("save line items: %w", err)
	}

	if err := o.events.enqueue(ctx, tx.Outbox(), order.ID, domain.EventOrderPlaced, now, placedPayload(order)); err != nil {
		return domain.Order{}, err
	}
	return order, nil
}

// checkPlaced сверяет собранный заказ с инвариантами до записи в хранилище.
func checkPlaced(order domain.Order) error {
	if errs := order.ValidateInvariants(); len(errs) > 0 {
		return fmt.Errorf("order %s: %w", order.ID, errors.Join(errs...))
	}
	return nil
}

func placementResult(err error) string {
	switch {
	case err == nil:
		return metrics.PlacementResultPlaced
	case errors.Is(err, domain.ErrInsufficientStock):
		return metrics.PlacementResultInsufficientStock
	case domain.Classify(err) == domain.KindInternal:
		return metrics.PlacementResultError
	default:
		return metrics.PlacementResultRejected
	}
}
