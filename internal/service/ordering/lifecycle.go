package ordering

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/orderdesk/internal/domain"
)

const defaultListLimit = 50

// Lifecycle управляет уже оформленными заказами.
// Удаление заказа не возвращает товар на склад.
type Lifecycle struct {
	tx     domain.TxManager
	events eventRecorder
	opts   options
}

// NewLifecycle создаёт менеджер жизненного цикла заказов.
func NewLifecycle(tx domain.TxManager, opts ...Option) *Lifecycle {
	o := buildOptions("order-lifecycle", opts)
	return &Lifecycle{
		tx:     tx,
		events: newEventRecorder(o),
		opts:   o,
	}
}

// GetComplete возвращает заказ с позициями. Для отсутствующего заказа возвращает (Order{}, false, nil).
func (l *Lifecycle) GetComplete(ctx context.Context, id string) (domain.Order, bool, error) {
	if l.opts.cache != nil {
		cached, hit, err := l.opts.cache.Get(ctx, id)
		if err != nil {
			l.opts.logger.WithError(err).WithField("order_id", id).Warn("order cache lookup failed")
		}
		if l.opts.metrics != nil {
			l.opts.metrics.RecordCacheLookup(hit)
		}
		if hit {
			return cached, true, nil
		}
	}

	var (
		order domain.Order
		found bool
	)
	err := l.tx.WithinTx(ctx, func(ctx context.Context, tx domain.Tx) error {
		var err error
		order, err = tx.Orders().GetWithItems(ctx, id)
		switch {
		case errors.Is(err, domain.ErrOrderNotFound):
			return nil
		case err != nil:
			return fmt.Errorf("load order %s: %w", id, err)
		}
		found = true
		return nil
	})
	if err != nil || !found {
		return domain.Order{}, false, err
	}

	if l.opts.cache != nil {
		if err := l.opts.cache.Fill(ctx, order); err != nil {
			l.opts.logger.WithError(err).WithField("order_id", id).Warn("order cache fill failed")
		}
	}
	return order, true, nil
}

// UpdateStatus переводит заказ в status. Повторная установка того же статуса ничего не меняет.
func (l *Lifecycle) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (domain.Order, error) {
	if !status.Valid() {
		return domain.Order{}, fmt.Errorf("status %q: %w", status, domain.ErrInvalidStatus)
	}

	var (
		order    domain.Order
		previous domain.OrderStatus
	)
	err := l.tx.WithinTx(ctx, func(ctx context.Context, tx domain.Tx) error {
		var err error
		order, err = tx.Orders().GetWithItems(ctx, id)
		if err != nil {
			return err
		}
		previous = order.Status
		if previous == status {
			return nil
		}

		order.Status = status
		order.UpdatedAt = l.opts.clock()
		if err := tx.Orders().Save(ctx, order); err != nil {
			return fmt.Errorf("save order %s: %w", id, err)
		}
		order.Version++

		return l.events.enqueue(ctx, tx.Outbox(), id, domain.EventOrderStatusChanged, order.UpdatedAt, map[string]any{
			"from": previous,
			"to":   status,
		})
	})
	l.record("update_status", err)
	if err != nil {
		return domain.Order{}, err
	}
	if previous == status {
		return order, nil
	}

	l.afterCommit(ctx, order.ID, domain.EventOrderStatusChanged, string(status), order.UpdatedAt)
	l.opts.logger.WithFields(log.Fields{
		"order_id": id,
		"from":     previous,
		"to":       status,
	}).Info("order status changed")
	return order, nil
}

// ReassignCustomer переназначает заказ другому клиенту.
func (l *Lifecycle) ReassignCustomer(ctx context.Context, id, customerID string) (domain.Order, error) {
	customerID = strings.TrimSpace(customerID)

	var order domain.Order
	err := l.tx.WithinTx(ctx, func(ctx context.Context, tx domain.Tx) error {
		var err error
		order, err = tx.Orders().GetWithItems(ctx, id)
		if err != nil {
			return err
		}
		if customerID == "" {
			return domain.ErrInvalidCustomer
		}
		if _, err := tx.Customers().Get(ctx, customerID); err != nil {
			if errors.Is(err, domain.ErrCustomerNotFound) {
				return fmt.Errorf("customer %s: %w", customerID, domain.ErrInvalidCustomer)
			}
			return fmt.Errorf("resolve customer %s: %w", customerID, err)
		}

		previous := order.CustomerID
		order.CustomerID = customerID
		order.UpdatedAt = l.opts.clock()
		if err := tx.Orders().Save(ctx, order); err != nil {
			return fmt.Errorf("save order %s: %w", id, err)
		}
		order.Version++

		return l.events.enqueue(ctx, tx.Outbox(), id, domain.EventOrderCustomerReassigned, order.UpdatedAt, map[string]any{
			"from_customer_id": previous,
			"to_customer_id":   customerID,
		})
	})
	l.record("reassign_customer", err)
	if err != nil {
		return domain.Order{}, err
	}

	l.afterCommit(ctx, order.ID, domain.EventOrderCustomerReassigned, customerID, order.UpdatedAt)
	l.opts.logger.WithFields(log.Fields{
		"order_id":    id,
		"customer_id": customerID,
	}).Info("order reassigned")
	return order, nil
}

// Delete удаляет заказ вместе с позициями. Остатки на складе не восстанавливаются.
func (l *Lifecycle) Delete(ctx context.Context, id string) error {
	deletedAt := l.opts.clock()
	err := l.tx.WithinTx(ctx, func(ctx context.Context, tx domain.Tx) error {
		order, err := tx.Orders().Get(ctx, id)
		if err != nil {
			return err
		}
		if err := tx.Orders().Delete(ctx, id); err != nil {
			return fmt.Errorf("delete order %s: %w", id, err)
		}
		return l.events.enqueue(ctx, tx.Outbox(), id, domain.EventOrderDeleted, deletedAt, map[string]any{
			"customer_id": order.CustomerID,
			"status":      order.Status,
		})
	})
	l.record("delete", err)
	if err != nil {
		return err
	}

	l.afterCommit(ctx, id, domain.EventOrderDeleted, "", deletedAt)
	l.opts.logger.WithField("order_id", id).Info("order deleted")
	return nil
}

// ListByCustomer возвращает последние заказы клиента (без позиций).
func (l *Lifecycle) ListByCustomer(ctx context.Context, customerID string, limit int) ([]domain.Order, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	var orders []domain.Order
	err := l.tx.WithinTx(ctx, func(ctx context.Context, tx domain.Tx) error {
		var err error
		orders, err = tx.Orders().ListByCustomer(ctx, customerID, limit)
		return err
	})
	return orders, err
}

// Timeline возвращает события заказа в хронологическом порядке.
func (l *Lifecycle) Timeline(ctx context.Context, orderID string) ([]domain.TimelineEvent, error) {
	if l.opts.timeline == nil {
		return nil, nil
	}
	return l.opts.timeline.List(ctx, orderID)
}

func (l *Lifecycle) afterCommit(ctx context.Context, orderID, eventType, reason string, occurred time.Time) {
	if l.opts.cache != nil {
		if err := l.opts.cache.Invalidate(context.WithoutCancel(ctx), orderID); err != nil {
			l.opts.logger.WithError(err).WithField("order_id", orderID).Warn("order cache invalidation failed")
		}
	}
	l.events.committed(ctx, orderID, eventType, reason, occurred)
}

func (l *Lifecycle) record(operation string, err error) {
	if l.opts.metrics != nil {
		l.opts.metrics.RecordLifecycle(operation, err)
	}
}
