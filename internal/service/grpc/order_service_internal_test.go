package grpcsvc

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/vladislavdragonenkov/orderdesk/internal/domain"
	"github.com/vladislavdragonenkov/orderdesk/internal/service/idempotency"
)

func TestStatusCode_Mapping(t *testing.T) {
	cases := []struct {
		err  error
		code codes.Code
	}{
		{nil, codes.OK},
		{domain.ErrEmptyOrder, codes.InvalidArgument},
		{fmt.Errorf("customer C9: %w", domain.ErrInvalidCustomer), codes.InvalidArgument},
		{&domain.ProductError{ProductID: "P9", Err: domain.ErrInvalidProduct}, codes.InvalidArgument},
		{&domain.InsufficientStockError{ProductID: "P1", Available: 1, Requested: 2}, codes.FailedPrecondition},
		{domain.ErrOrderNotFound, codes.NotFound},
		{&domain.StockError{ProductID: "P1"}, codes.NotFound},
		{domain.ErrOrderVersionConflict, codes.Aborted},
		{fmt.Errorf("commit tx: %w", domain.ErrConcurrentUpdate), codes.Aborted},
		{domain.ErrIdempotencyHashMismatch, codes.Aborted},
		{errors.New("db down"), codes.Internal},
	}

	for _, tc := range cases {
		require.Equal(t, int(tc.code), StatusCode(tc.err), "err=%v", tc.err)
	}
}

func TestToStatusError_AttachesErrorInfo(t *testing.T) {
	err := toStatusError(&domain.InsufficientStockError{ProductID: "P1", Description: "Pen", Available: 2, Requested: 3})

	st := status.Convert(err)
	require.Equal(t, codes.FailedPrecondition, st.Code())
	require.Contains(t, st.Message(), "available 2, requested 3")
	require.Len(t, st.Details(), 1)

	info, ok := st.Details()[0].(*errdetails.ErrorInfo)
	require.True(t, ok)
	require.Equal(t, "INSUFFICIENT_STOCK", info.Reason)
	require.Equal(t, errorDomain, info.Domain)
	require.Equal(t, map[string]string{"product_id": "P1", "available": "2", "requested": "3"}, info.Metadata)
}

func TestToStatusError_ConflictCarriesRetryInfo(t *testing.T) {
	for _, err := range []error{
		fmt.Errorf("update order O1: %w", domain.ErrOrderVersionConflict),
		fmt.Errorf("%w: deadlock detected", domain.ErrConcurrentUpdate),
	} {
		st := status.Convert(toStatusError(err))
		require.Equal(t, codes.Aborted, st.Code())
		require.Len(t, st.Details(), 2)

		retry, ok := st.Details()[1].(*errdetails.RetryInfo)
		require.True(t, ok)
		require.Equal(t, conflictRetryDelay, retry.GetRetryDelay().AsDuration())
	}

	st := status.Convert(toStatusError(domain.ErrIdempotencyHashMismatch))
	require.Equal(t, codes.Aborted, st.Code())
	require.Len(t, st.Details(), 1)
}

func TestToStatusError_HidesInternalMessage(t *testing.T) {
	st := status.Convert(toStatusError(errors.New("pq: connection refused")))
	require.Equal(t, codes.Internal, st.Code())
	require.Equal(t, "internal error", st.Message())
}

func TestToStatusError_ReplayedFailureKeepsKind(t *testing.T) {
	replayed := &idempotency.ReplayedError{Kind: domain.KindNotFound, Reason: "ORDER_NOT_FOUND", Message: "order not found"}

	st := status.Convert(toStatusError(replayed))
	require.Equal(t, codes.NotFound, st.Code())
	require.Equal(t, "order not found", st.Message())
}

func TestErrorMetadata(t *testing.T) {
	require.Equal(t, map[string]string{"product_id": "P9"},
		errorMetadata(&domain.ProductError{ProductID: "P9", Err: domain.ErrInvalidProduct}))
	require.Equal(t, map[string]string{"stock_id": "S1"},
		errorMetadata(&domain.StockError{StockID: "S1"}))
	require.Equal(t, map[string]string{"product_id": "P1"},
		errorMetadata(fmt.Errorf("place: %w", &domain.StockError{ProductID: "P1"})))
	require.Nil(t, errorMetadata(domain.ErrEmptyOrder))
}

func TestFail_PassesThroughStatusErrors(t *testing.T) {
	s := NewOrderService(nil, nil)
	original := status.Error(codes.InvalidArgument, "order_id is required")
	require.Equal(t, original, s.fail("GetOrder", "", original))
}

func TestReadIdempotencyKey(t *testing.T) {
	require.Empty(t, readIdempotencyKey(context.Background()))

	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs(idempotencyKeyHeader, "  key-1 "))
	require.Equal(t, "key-1", readIdempotencyKey(ctx))

	blank := metadata.NewIncomingContext(context.Background(), metadata.Pairs(idempotencyKeyHeader, " "))
	require.Empty(t, readIdempotencyKey(blank))
}

func TestRequireOrderID(t *testing.T) {
	id, err := requireOrderID(" order-1 ")
	require.NoError(t, err)
	require.Equal(t, "order-1", id)

	_, err = requireOrderID("")
	require.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestToAPIOrder(t *testing.T) {
	created := time.Date(2026, 4, 10, 15, 30, 0, 0, time.UTC)
	order := domain.Order{
		ID:         "order-1",
		CustomerID: "C1",
		PlacedOn:   domain.DateOf(created),
		Status:     domain.OrderStatusPlaced,
		Total:      decimal.RequireFromString("30"),
		Items: []domain.LineItem{{
			ID:          "item-1",
			ProductID:   "P1",
			Description: "Pen",
			UnitPrice:   decimal.RequireFromString("10"),
			Quantity:    3,
		}},
		Version:   2,
		CreatedAt: created,
		UpdatedAt: created,
	}

	api := toAPIOrder(order)
	require.Equal(t, "2026-04-10", api.PlacedOn)
	require.Equal(t, "30.00", api.Total)
	require.Equal(t, "10.00", api.Items[0].UnitPrice)
	require.Equal(t, "30.00", api.Items[0].Subtotal)
	require.EqualValues(t, 2, api.Version)
	require.Equal(t, created.Unix(), api.CreatedAtUnix)
}
