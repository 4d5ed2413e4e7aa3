package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/vladislavdragonenkov/orderdesk/internal/domain"
)

type stockRepository struct {
	q querier
}

// GetByProduct блокирует строку остатка до конца транзакции (FOR UPDATE).
func (r *stockRepository) GetByProduct(ctx context.Context, productID string) (domain.StockEntry, error) {
	var entry domain.StockEntry
	err := r.q.QueryRowContext(ctx, `
		SELECT id, product_id, quantity, updated_at
		FROM stock_entries
		WHERE product_id = $1
		FOR UPDATE
	`, productID).Scan(&entry.ID, &entry.ProductID, &entry.Quantity, &entry.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.StockEntry{}, &domain.StockError{ProductID: productID}
		}
		return domain.StockEntry{}, fmt.Errorf("select stock by product: %w", err)
	}
	return entry, nil
}

func (r *stockRepository) Get(ctx context.Context, id string) (domain.StockEntry, error) {
	var entry domain.StockEntry
	err := r.q.QueryRowContext(ctx, `
		SELECT id, product_id, quantity, updated_at
		FROM stock_entries
		WHERE id = $1
		FOR UPDATE
	`, id).Scan(&entry.ID, &entry.ProductID, &entry.Quantity, &entry.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.StockEntry{}, &domain.StockError{StockID: id}
		}
		return domain.StockEntry{}, fmt.Errorf("select stock: %w", err)
	}
	return entry, nil
}

func (r *stockRepository) Create(ctx context.Context, entry domain.StockEntry) error {
	if entry.Quantity < 0 {
		return domain.ErrStockNegative
	}
	if entry.UpdatedAt.IsZero() {
		entry.UpdatedAt = time.Now().UTC()
	}

	_, err := r.q.ExecContext(ctx, `
		INSERT INTO stock_entries (id, product_id, quantity, updated_at)
		VALUES ($1,$2,$3,$4)
	`, entry.ID, entry.ProductID, entry.Quantity, entry.UpdatedAt.UTC())
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return domain.ErrStockAlreadyExists
		case isForeignKeyViolation(err):
			return &domain.ProductError{ProductID: entry.ProductID, Err: domain.ErrProductNotFound}
		}
		return fmt.Errorf("insert stock entry: %w", err)
	}
	return nil
}

func (r *stockRepository) UpdateQuantity(ctx context.Context, id string, quantity int64) error {
	if quantity < 0 {
		return domain.ErrStockNegative
	}

	res, err := r.q.ExecContext(ctx, `
		UPDATE stock_entries
		SET quantity = $2, updated_at = $3
		WHERE id = $1
	`, id, quantity, time.Now().UTC())
	if err != nil {
		if isCheckViolation(err) {
			return domain.ErrStockNegative
		}
		return fmt.Errorf("update stock quantity: %w", err)
	}
	return requireAffected(res, &domain.StockError{StockID: id})
}

func (r *stockRepository) Delete(ctx context.Context, id string) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM stock_entries WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete stock entry: %w", err)
	}
	return requireAffected(res, &domain.StockError{StockID: id})
}

// requireAffected возвращает notFound, если запрос не затронул ни одной строки.
func requireAffected(res sql.Result, notFound error) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return notFound
	}
	return nil
}

var _ domain.StockRepository = (*stockRepository)(nil)
