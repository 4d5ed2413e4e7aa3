package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vladislavdragonenkov/orderdesk/internal/domain"
)

const (
	orderColumns = `id, customer_id, placed_on, status, total, version, created_at, updated_at`

	insertOrderSQL = `
		INSERT INTO orders (` + orderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	selectOrderSQL = `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	// LIMIT NULL в PostgreSQL означает «без ограничения».
	listOrdersByCustomerSQL = `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE customer_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2`

	// saveOrderSQL различает «нет заказа» и «версия устарела» за один запрос:
	// existing пуст, если заказа нет; saved пуст, если версия не совпала.
	saveOrderSQL = `
		WITH existing AS (
			SELECT version FROM orders WHERE id = $1
		), saved AS (
			UPDATE orders
			SET customer_id = $3, status = $4, total = $5, version = version + 1, updated_at = $6
			WHERE id = $1 AND version = $2
			RETURNING version
		)
		SELECT (SELECT version FROM existing), (SELECT version FROM saved)`

	deleteOrderSQL = `DELETE FROM orders WHERE id = $1`

	lineItemColumns = `id, order_id, product_id, description, unit_price, quantity, created_at`

	insertLineItemSQL = `
		INSERT INTO order_items (` + lineItemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	selectLineItemsSQL = `
		SELECT ` + lineItemColumns + `
		FROM order_items
		WHERE order_id = $1
		ORDER BY seq`
)

type orderRepository struct {
	q querier
}

func (r *orderRepository) Create(ctx context.Context, o domain.Order) error {
	_, err := r.q.ExecContext(ctx, insertOrderSQL,
		o.ID, o.CustomerID, o.PlacedOn.UTC(), string(o.Status),
		o.Total, o.Version, o.CreatedAt.UTC(), o.UpdatedAt.UTC(),
	)
	switch {
	case err == nil:
		return nil
	case isUniqueViolation(err):
		return domain.ErrOrderAlreadyExists
	case isForeignKeyViolation(err):
		return fmt.Errorf("customer %s: %w", o.CustomerID, domain.ErrInvalidCustomer)
	default:
		return fmt.Errorf("insert order: %w", err)
	}
}

func (r *orderRepository) Get(ctx context.Context, id string) (domain.Order, error) {
	o, err := scanOrder(r.q.QueryRowContext(ctx, selectOrderSQL, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	return o, err
}

func (r *orderRepository) GetWithItems(ctx context.Context, id string) (domain.Order, error) {
	o, err := r.Get(ctx, id)
	if err != nil {
		return domain.Order{}, err
	}
	if o.Items, err = loadItems(ctx, r.q, id); err != nil {
		return domain.Order{}, err
	}
	return o, nil
}

// ListByCustomer возвращает заказы покупателя от новых к старым; limit <= 0 снимает ограничение.
func (r *orderRepository) ListByCustomer(ctx context.Context, customerID string, limit int) ([]domain.Order, error) {
	rows, err := r.q.QueryContext(ctx, listOrdersByCustomerSQL, customerID, sql.NullInt64{Int64: int64(limit), Valid: limit > 0})
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	orders := []domain.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order rows: %w", err)
	}
	return orders, nil
}

// Save обновляет заказ при совпадении версии и увеличивает её на единицу.
func (r *orderRepository) Save(ctx context.Context, o domain.Order) error {
	var existing, saved sql.NullInt64
	err := r.q.QueryRowContext(ctx, saveOrderSQL,
		o.ID, o.Version, o.CustomerID, string(o.Status), o.Total, o.UpdatedAt.UTC(),
	).Scan(&existing, &saved)
	switch {
	case err != nil && isForeignKeyViolation(err):
		return fmt.Errorf("customer %s: %w", o.CustomerID, domain.ErrInvalidCustomer)
	case err != nil:
		return fmt.Errorf("update order: %w", err)
	case !existing.Valid:
		return domain.ErrOrderNotFound
	case !saved.Valid:
		return domain.ErrOrderVersionConflict
	}
	return nil
}

// Delete удаляет заказ; позиции удаляются каскадом (ON DELETE CASCADE).
func (r *orderRepository) Delete(ctx context.Context, id string) error {
	res, err := r.q.ExecContext(ctx, deleteOrderSQL, id)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	return requireAffected(res, domain.ErrOrderNotFound)
}

func scanOrder(row rowScanner) (domain.Order, error) {
	var (
		o      domain.Order
		status string
	)
	err := row.Scan(&o.ID, &o.CustomerID, &o.PlacedOn, &status, &o.Total, &o.Version, &o.CreatedAt, &o.UpdatedAt)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return domain.Order{}, err
	case err != nil:
		return domain.Order{}, fmt.Errorf("scan order: %w", err)
	}
	o.Status = domain.OrderStatus(status)
	o.PlacedOn = o.PlacedOn.UTC()
	return o, nil
}

type lineItemRepository struct {
	q querier
}

// SaveAll вставляет позиции в порядке среза; порядок фиксируется столбцом seq.
func (r *lineItemRepository) SaveAll(ctx context.Context, items []domain.LineItem) error {
	for _, it := range items {
		_, err := r.q.ExecContext(ctx, insertLineItemSQL,
			it.ID, it.OrderID, it.ProductID, it.Description, it.UnitPrice, it.Quantity, it.CreatedAt.UTC(),
		)
		switch {
		case err == nil:
		case isForeignKeyViolation(err):
			return domain.ErrOrderNotFound
		case isCheckViolation(err):
			return &domain.ProductError{ProductID: it.ProductID, Err: domain.ErrItemQtyInvalid}
		default:
			return fmt.Errorf("insert order item: %w", err)
		}
	}
	return nil
}

func (r *lineItemRepository) ListByOrder(ctx context.Context, orderID string) ([]domain.LineItem, error) {
	return loadItems(ctx, r.q, orderID)
}

func loadItems(ctx context.Context, q querier, orderID string) ([]domain.LineItem, error) {
	rows, err := q.QueryContext(ctx, selectLineItemsSQL, orderID)
	if err != nil {
		return nil, fmt.Errorf("load order items: %w", err)
	}
	defer rows.Close()

	items := []domain.LineItem{}
	for rows.Next() {
		var it domain.LineItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.Description, &it.UnitPrice, &it.Quantity, &it.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order items: %w", err)
	}
	return items, nil
}

var (
	_ domain.OrderRepository    = (*orderRepository)(nil)
	_ domain.LineItemRepository = (*lineItemRepository)(nil)
)
