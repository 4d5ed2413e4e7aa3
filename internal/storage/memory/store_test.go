package memory_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/orderdesk/internal/domain"
	"github.com/vladislavdragonenkov/orderdesk/internal/storage/memory"
)

func seedStock(t *testing.T, store *memory.Store, productID string, qty int64) {
	t.Helper()
	err := store.WithinTx(context.Background(), func(ctx context.Context, tx domain.Tx) error {
		if err := tx.Products().Create(ctx, domain.Product{
			ID:          productID,
			Description: "Product " + productID,
			UnitPrice:   decimal.RequireFromString("1.00"),
		}); err != nil {
			return err
		}
		return tx.Stock().Create(ctx, domain.StockEntry{ID: "stock-" + productID, ProductID: productID, Quantity: qty})
	})
	require.NoError(t, err)
}

func readStock(t *testing.T, store *memory.Store, productID string) int64 {
	t.Helper()
	var qty int64
	err := store.WithinTx(context.Background(), func(ctx context.Context, tx domain.Tx) error {
		entry, err := tx.Stock().GetByProduct(ctx, productID)
		qty = entry.Quantity
		return err
	})
	require.NoError(t, err)
	return qty
}

func TestStore_RollbackOnError(t *testing.T) {
	store := memory.NewStore()
	seedStock(t, store, "p1", 5)
	boom := errors.New("boom")

	err := store.WithinTx(context.Background(), func(ctx context.Context, tx domain.Tx) error {
		require.NoError(t, tx.Stock().UpdateQuantity(ctx, "stock-p1", 1))
		require.NoError(t, tx.Customers().Create(ctx, domain.Customer{ID: "c1"}))
		_, err := tx.Outbox().Enqueue(ctx, domain.OutboxMessage{EventType: domain.EventOrderPlaced})
		require.NoError(t, err)
		return boom
	})
	require.ErrorIs(t, err, boom)

	require.Equal(t, int64(5), readStock(t, store, "p1"))
	pending, err := store.Outbox().PullPending(context.Background(), 10)
	require.NoError(t, err)
	require.Empty(t, pending)

	err = store.WithinTx(context.Background(), func(ctx context.Context, tx domain.Tx) error {
		_, err := tx.Customers().Get(ctx, "c1")
		return err
	})
	require.ErrorIs(t, err, domain.ErrCustomerNotFound)
}

func TestStore_OutboxFlushedOnCommit(t *testing.T) {
	store := memory.NewStore()

	err := store.WithinTx(context.Background(), func(ctx context.Context, tx domain.Tx) error {
		_, err := tx.Outbox().Enqueue(ctx, domain.OutboxMessage{AggregateID: "order-1", EventType: domain.EventOrderPlaced})
		return err
	})
	require.NoError(t, err)

	pending, err := store.Outbox().PullPending(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	require.Equal(t, "order-1", pending[0].AggregateID)
}

func TestStore_CanceledContext(t *testing.T) {
	store := memory.NewStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := store.WithinTx(ctx, func(context.Context, domain.Tx) error {
		called = true
		return nil
	})
	require.ErrorIs(t, err, context.Canceled)
	require.False(t, called)
}

func TestStore_SerializesReadModifyWrite(t *testing.T) {
	store := memory.NewStore()
	seedStock(t, store, "p1", 50)

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = store.WithinTx(context.Background(), func(ctx context.Context, tx domain.Tx) error {
				entry, err := tx.Stock().GetByProduct(ctx, "p1")
				if err != nil {
					return err
				}
				if !entry.CanFulfil(1) {
					return domain.ErrInsufficientStock
				}
				return tx.Stock().UpdateQuantity(ctx, entry.ID, entry.Quantity-1)
			})
		}()
	}
	wg.Wait()

	require.Equal(t, int64(0), readStock(t, store, "p1"))
}

func TestStockRepository_Constraints(t *testing.T) {
	store := memory.NewStore()
	seedStock(t, store, "p1", 5)

	err := store.WithinTx(context.Background(), func(ctx context.Context, tx domain.Tx) error {
		return tx.Stock().Create(ctx, domain.StockEntry{ID: "other", ProductID: "p1", Quantity: 1})
	})
	require.ErrorIs(t, err, domain.ErrStockAlreadyExists)

	err = store.WithinTx(context.Background(), func(ctx context.Context, tx domain.Tx) error {
		return tx.Stock().UpdateQuantity(ctx, "stock-p1", -1)
	})
	require.ErrorIs(t, err, domain.ErrStockNegative)

	err = store.WithinTx(context.Background(), func(ctx context.Context, tx domain.Tx) error {
		_, err := tx.Stock().GetByProduct(ctx, "unknown")
		return err
	})
	var stockErr *domain.StockError
	require.ErrorAs(t, err, &stockErr)
	require.Equal(t, "unknown", stockErr.ProductID)

	err = store.WithinTx(context.Background(), func(ctx context.Context, tx domain.Tx) error {
		if err := tx.Stock().Delete(ctx, "stock-p1"); err != nil {
			return err
		}
		_, err := tx.Stock().GetByProduct(ctx, "p1")
		return err
	})
	require.ErrorIs(t, err, domain.ErrStockNotFound)
}

func TestProductRepository_ListAndDescription(t *testing.T) {
	store := memory.NewStore()
	seedStock(t, store, "p2", 1)
	seedStock(t, store, "p1", 1)

	err := store.WithinTx(context.Background(), func(ctx context.Context, tx domain.Tx) error {
		products, err := tx.Products().List(ctx, 0)
		require.NoError(t, err)
		require.Len(t, products, 2)
		require.Equal(t, "p1", products[0].ID)

		found, err := tx.Products().GetByDescription(ctx, "Product p2")
		require.NoError(t, err)
		require.Equal(t, "p2", found.ID)

		_, err = tx.Products().GetByDescription(ctx, "nothing")
		return err
	})
	require.ErrorIs(t, err, domain.ErrProductNotFound)
}
