package grpcsvc_test

import (
	"context"
	"net"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/vladislavdragonenkov/orderdesk/internal/domain"
	"github.com/vladislavdragonenkov/orderdesk/internal/metrics"
	grpcsvc "github.com/vladislavdragonenkov/orderdesk/internal/service/grpc"
	"github.com/vladislavdragonenkov/orderdesk/internal/service/idempotency"
	"github.com/vladislavdragonenkov/orderdesk/internal/service/ordering"
	"github.com/vladislavdragonenkov/orderdesk/internal/storage/memory"
	orderdeskv1 "github.com/vladislavdragonenkov/orderdesk/proto/orderdesk/v1"
)

const bufSize = 1024 * 1024

func idemCtx(key string) context.Context {
	return metadata.AppendToOutgoingContext(context.Background(), "idempotency-key", key)
}

type testEnv struct {
	client orderdeskv1.OrderServiceClient
	store  *memory.Store
}

func newTestServer(t *testing.T, opts ...grpcsvc.Option) *testEnv {
	t.Helper()

	store := memory.NewStore()
	seedCatalog(t, store)

	logger := loggerForTests()
	timeline := memory.NewTimelineRepository()
	orderMetrics := metrics.NewOrderMetricsWithRegisterer(prometheus.NewRegistry())
	common := []ordering.Option{
		ordering.WithLogger(logger),
		ordering.WithMetrics(orderMetrics),
		ordering.WithTimeline(timeline),
	}
	guard := idempotency.NewGuard(memory.NewIdempotencyRepository(),
		idempotency.WithStatusFunc(grpcsvc.StatusCode),
		idempotency.WithGuardMetrics(metrics.NewIdempotencyMetricsWithRegisterer(prometheus.NewRegistry())),
	)
	service := grpcsvc.NewOrderService(
		ordering.NewOrchestrator(store, common...),
		ordering.NewLifecycle(store, common...),
		append([]grpcsvc.Option{grpcsvc.WithLogger(logger), grpcsvc.WithIdempotencyGuard(guard)}, opts...)...,
	)

	listener := bufconn.Listen(bufSize)
	server := grpc.NewServer()
	orderdeskv1.RegisterOrderServiceServer(server, service)
	go func() {
		if err := server.Serve(listener); err != nil {
			logger.WithError(err).Error("grpc serve failed")
		}
	}()

	dialer := func(context.Context, string) (net.Conn, error) {
		return listener.Dial()
	}

	//nolint:staticcheck // grpc.Dial is required for bufconn testing
	conn, err := grpc.Dial("bufnet", grpc.WithContextDialer(dialer), grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = conn.Close()
		server.Stop()
	})

	return &testEnv{client: orderdeskv1.NewOrderServiceClient(conn), store: store}
}

func seedCatalog(t *testing.T, store *memory.Store) {
	t.Helper()
	err := store.WithinTx(context.Background(), func(ctx context.Context, tx domain.Tx) error {
		for _, c := range []domain.Customer{{ID: "C1", Name: "Ada"}, {ID: "C2", Name: "Grace"}} {
			if err := tx.Customers().Create(ctx, c); err != nil {
				return err
			}
		}
		if err := tx.Products().Create(ctx, domain.Product{ID: "P1", Description: "Pen", UnitPrice: decimal.RequireFromString("10.00")}); err != nil {
			return err
		}
		return tx.Stock().Create(ctx, domain.StockEntry{ID: "S1", ProductID: "P1", Quantity: 5})
	})
	require.NoError(t, err)
}

func (e *testEnv) stock(t *testing.T) int64 {
	t.Helper()
	var qty int64
	err := e.store.WithinTx(context.Background(), func(ctx context.Context, tx domain.Tx) error {
		entry, err := tx.Stock().GetByProduct(ctx, "P1")
		qty = entry.Quantity
		return err
	})
	require.NoError(t, err)
	return qty
}

func loggerForTests() *logrus.Entry {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: false, DisableTimestamp: true})
	logger.SetLevel(logrus.DebugLevel)
	return logger.WithField("component", "test")
}

func errorInfo(t *testing.T, err error) *errdetails.ErrorInfo {
	t.Helper()
	st, ok := status.FromError(err)
	require.True(t, ok, "expected grpc status, got %v", err)
	for _, detail := range st.Details() {
		if info, ok := detail.(*errdetails.ErrorInfo); ok {
			return info
		}
	}
	t.Fatalf("status %v carries no ErrorInfo", st)
	return nil
}

func TestOrderService_PlaceAndGet(t *testing.T) {
	env := newTestServer(t)

	placed, err := env.client.PlaceOrder(context.Background(), &orderdeskv1.PlaceOrderRequest{
		CustomerId: "C1",
		Items:      []*orderdeskv1.ItemRequest{{ProductId: "P1", Quantity: 3}},
	})
	require.NoError(t, err)
	require.Equal(t, "30.00", placed.Order.Total)
	require.Equal(t, orderdeskv1.OrderStatus_ORDER_STATUS_PLACED, placed.Order.Status)
	require.Len(t, placed.Order.Items, 1)
	require.Equal(t, "10.00", placed.Order.Items[0].UnitPrice)
	require.Equal(t, "Pen", placed.Order.Items[0].Description)
	require.Len(t, placed.Order.PlacedOn, len("2006-01-02"))
	require.EqualValues(t, 2, env.stock(t))

	got, err := env.client.GetOrder(context.Background(), &orderdeskv1.GetOrderRequest{OrderId: placed.Order.Id})
	require.NoError(t, err)
	require.Equal(t, placed.Order.Id, got.Order.Id)
	require.Equal(t, "30.00", got.Order.Total)
	require.NotEmpty(t, got.Timeline)
	require.Equal(t, domain.EventOrderPlaced, got.Timeline[0].Type)
}

func TestOrderService_PlaceOrder_InsufficientStock(t *testing.T) {
	env := newTestServer(t)

	_, err := env.client.PlaceOrder(context.Background(), &orderdeskv1.PlaceOrderRequest{
		CustomerId: "C1",
		Items: []*orderdeskv1.ItemRequest{
			{ProductId: "P1", Quantity: 3},
			{ProductId: "P1", Quantity: 3},
		},
	})
	require.Equal(t, codes.FailedPrecondition, status.Code(err))

	info := errorInfo(t, err)
	require.Equal(t, "INSUFFICIENT_STOCK", info.Reason)
	require.Equal(t, "P1", info.Metadata["product_id"])
	require.Equal(t, "2", info.Metadata["available"])
	require.Equal(t, "3", info.Metadata["requested"])
	require.EqualValues(t, 5, env.stock(t))
}

func TestOrderService_PlaceOrder_ValidationErrors(t *testing.T) {
	env := newTestServer(t)

	cases := []struct {
		name   string
		req    *orderdeskv1.PlaceOrderRequest
		reason string
	}{
		{
			name:   "unknown customer",
			req:    &orderdeskv1.PlaceOrderRequest{CustomerId: "C9", Items: []*orderdeskv1.ItemRequest{{ProductId: "P1", Quantity: 1}}},
			reason: "INVALID_CUSTOMER",
		},
		{
			name:   "empty order",
			req:    &orderdeskv1.PlaceOrderRequest{CustomerId: "C1"},
			reason: "EMPTY_ORDER",
		},
		{
			name:   "unknown product",
			req:    &orderdeskv1.PlaceOrderRequest{CustomerId: "C1", Items: []*orderdeskv1.ItemRequest{{ProductId: "P404", Quantity: 1}}},
			reason: "INVALID_PRODUCT",
		},
		{
			name:   "zero quantity",
			req:    &orderdeskv1.PlaceOrderRequest{CustomerId: "C1", Items: []*orderdeskv1.ItemRequest{{ProductId: "P1", Quantity: 0}}},
			reason: "INVALID_QUANTITY",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := env.client.PlaceOrder(context.Background(), tc.req)
			require.Equal(t, codes.InvalidArgument, status.Code(err))
			require.Equal(t, tc.reason, errorInfo(t, err).Reason)
		})
	}
	require.EqualValues(t, 5, env.stock(t))
}

func TestOrderService_PlaceOrder_IdempotentReplay(t *testing.T) {
	env := newTestServer(t)
	req := &orderdeskv1.PlaceOrderRequest{CustomerId: "C1", Items: []*orderdeskv1.ItemRequest{{ProductId: "P1", Quantity: 2}}}

	first, err := env.client.PlaceOrder(idemCtx("place-1"), req)
	require.NoError(t, err)
	second, err := env.client.PlaceOrder(idemCtx("place-1"), req)
	require.NoError(t, err)

	require.Equal(t, first.Order.Id, second.Order.Id)
	require.EqualValues(t, 3, env.stock(t))

	_, err = env.client.PlaceOrder(idemCtx("place-1"), &orderdeskv1.PlaceOrderRequest{
		CustomerId: "C1",
		Items:      []*orderdeskv1.ItemRequest{{ProductId: "P1", Quantity: 1}},
	})
	require.Equal(t, codes.Aborted, status.Code(err))
	require.Equal(t, "IDEMPOTENCY_CONFLICT", errorInfo(t, err).Reason)
}

func TestOrderService_PlaceOrder_ReplaysFailure(t *testing.T) {
	env := newTestServer(t)
	req := &orderdeskv1.PlaceOrderRequest{CustomerId: "C1", Items: []*orderdeskv1.ItemRequest{{ProductId: "P1", Quantity: 6}}}

	_, err := env.client.PlaceOrder(idemCtx("place-2"), req)
	require.Equal(t, codes.FailedPrecondition, status.Code(err))

	_, err = env.client.PlaceOrder(idemCtx("place-2"), req)
	require.Equal(t, codes.FailedPrecondition, status.Code(err))
	require.Equal(t, "INSUFFICIENT_STOCK", errorInfo(t, err).Reason)
}

func TestOrderService_RequiresIdempotencyKey(t *testing.T) {
	env := newTestServer(t, grpcsvc.WithRequiredIdempotencyKey())

	_, err := env.client.PlaceOrder(context.Background(), &orderdeskv1.PlaceOrderRequest{
		CustomerId: "C1",
		Items:      []*orderdeskv1.ItemRequest{{ProductId: "P1", Quantity: 1}},
	})
	require.Equal(t, codes.InvalidArgument, status.Code(err))
	require.EqualValues(t, 5, env.stock(t))
}

func TestOrderService_Lifecycle(t *testing.T) {
	env := newTestServer(t)
	ctx := context.Background()

	placed, err := env.client.PlaceOrder(ctx, &orderdeskv1.PlaceOrderRequest{
		CustomerId: "C1",
		Items:      []*orderdeskv1.ItemRequest{{ProductId: "P1", Quantity: 1}},
	})
	require.NoError(t, err)
	orderID := placed.Order.Id

	updated, err := env.client.UpdateOrderStatus(ctx, &orderdeskv1.UpdateOrderStatusRequest{OrderId: orderID, Status: orderdeskv1.OrderStatus_ORDER_STATUS_PAID})
	require.NoError(t, err)
	require.Equal(t, orderdeskv1.OrderStatus_ORDER_STATUS_PAID, updated.Order.Status)

	_, err = env.client.UpdateOrderStatus(ctx, &orderdeskv1.UpdateOrderStatusRequest{OrderId: orderID, Status: orderdeskv1.OrderStatus(42)})
	require.Equal(t, codes.InvalidArgument, status.Code(err))

	reassigned, err := env.client.ReassignCustomer(ctx, &orderdeskv1.ReassignCustomerRequest{OrderId: orderID, CustomerId: "C2"})
	require.NoError(t, err)
	require.Equal(t, "C2", reassigned.Order.CustomerId)

	_, err = env.client.ReassignCustomer(ctx, &orderdeskv1.ReassignCustomerRequest{OrderId: orderID, CustomerId: "C9"})
	require.Equal(t, codes.InvalidArgument, status.Code(err))

	listed, err := env.client.ListOrders(ctx, &orderdeskv1.ListOrdersRequest{CustomerId: "C2"})
	require.NoError(t, err)
	require.Len(t, listed.Orders, 1)

	deleted, err := env.client.DeleteOrder(ctx, &orderdeskv1.DeleteOrderRequest{OrderId: orderID})
	require.NoError(t, err)
	require.Equal(t, orderID, deleted.OrderId)
	require.EqualValues(t, 4, env.stock(t))

	_, err = env.client.GetOrder(ctx, &orderdeskv1.GetOrderRequest{OrderId: orderID})
	require.Equal(t, codes.NotFound, status.Code(err))
	require.Equal(t, "ORDER_NOT_FOUND", errorInfo(t, err).Reason)
}

func TestOrderService_MissingOrder(t *testing.T) {
	env := newTestServer(t)
	ctx := context.Background()

	_, err := env.client.UpdateOrderStatus(ctx, &orderdeskv1.UpdateOrderStatusRequest{OrderId: "missing", Status: orderdeskv1.OrderStatus_ORDER_STATUS_PAID})
	require.Equal(t, codes.NotFound, status.Code(err))

	_, err = env.client.DeleteOrder(ctx, &orderdeskv1.DeleteOrderRequest{OrderId: "missing"})
	require.Equal(t, codes.NotFound, status.Code(err))

	_, err = env.client.GetOrder(ctx, &orderdeskv1.GetOrderRequest{})
	require.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = env.client.ListOrders(ctx, &orderdeskv1.ListOrdersRequest{})
	require.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestOrderService_ConcurrentPlacementsDoNotOversell(t *testing.T) {
	env := newTestServer(t)

	const workers = 12
	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		placed int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := env.client.PlaceOrder(context.Background(), &orderdeskv1.PlaceOrderRequest{
				CustomerId: "C1",
				Items:      []*orderdeskv1.ItemRequest{{ProductId: "P1", Quantity: 1}},
			})
			if err == nil {
				mu.Lock()
				placed++
				mu.Unlock()
				return
			}
			if status.Code(err) != codes.FailedPrecondition {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	require.Equal(t, 5, placed)
	require.EqualValues(t, 0, env.stock(t))
}
