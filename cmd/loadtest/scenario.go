package main

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	orderdeskv1 "github.com/vladislavdragonenkov/orderdesk/proto/orderdesk/v1"
)

const idempotencyHeader = "idempotency-key"

// runner выполняет сценарии одного прогона; ключи идемпотентности уникальны в пределах runID.
type runner struct {
	cfg   config
	runID string
	col   *collector
}

// run оформляет заказ и, в зависимости от режима, отгружает или удаляет его.
// Результат сценария учитывается в серии scenarioSeries.
func (r *runner) run(ctx context.Context, client orderdeskv1.OrderServiceClient, index int) (err error) {
	start := time.Now()
	defer func() { r.col.observe(scenarioSeries, start, err) }()

	orderID, err := r.place(ctx, client, index)
	if err != nil {
		return err
	}
	if r.cfg.deletes(index) {
		return r.delete(ctx, client, orderID)
	}
	if r.cfg.mode == modePlaceShip {
		return r.ship(ctx, client, orderID, index)
	}
	return nil
}

func (r *runner) place(ctx context.Context, client orderdeskv1.OrderServiceClient, index int) (string, error) {
	ctx, cancel := r.callContext(ctx, fmt.Sprintf("lt-place-%s-%d", r.runID, index))
	defer cancel()

	start := time.Now()
	resp, err := client.PlaceOrder(ctx, &orderdeskv1.PlaceOrderRequest{
		CustomerId: r.cfg.customerID,
		Items:      []*orderdeskv1.ItemRequest{{ProductId: r.cfg.productID, Quantity: r.cfg.quantity}},
	})
	r.col.observe("PlaceOrder", start, err)
	if err != nil {
		return "", err
	}
	if resp.Order == nil || resp.Order.Id == "" {
		return "", status.Error(codes.Internal, "place order returned no order id")
	}
	r.col.commit(r.cfg.quantity)
	return resp.Order.Id, nil
}

func (r *runner) ship(ctx context.Context, client orderdeskv1.OrderServiceClient, orderID string, index int) error {
	ctx, cancel := r.callContext(ctx, fmt.Sprintf("lt-ship-%s-%d", r.runID, index))
	defer cancel()

	start := time.Now()
	_, err := client.UpdateOrderStatus(ctx, &orderdeskv1.UpdateOrderStatusRequest{OrderId: orderID, Status: orderdeskv1.OrderStatus_ORDER_STATUS_SHIPPED})
	r.col.observe("UpdateOrderStatus", start, err)
	return err
}

func (r *runner) delete(ctx context.Context, client orderdeskv1.OrderServiceClient, orderID string) error {
	ctx, cancel := r.callContext(ctx, "")
	defer cancel()

	start := time.Now()
	_, err := client.DeleteOrder(ctx, &orderdeskv1.DeleteOrderRequest{OrderId: orderID})
	r.col.observe("DeleteOrder", start, err)
	return err
}

// callContext ограничивает вызов таймаутом и добавляет idempotency-key, если он задан.
func (r *runner) callContext(ctx context.Context, key string) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.timeout)
	if key != "" {
		ctx = metadata.AppendToOutgoingContext(ctx, idempotencyHeader, key)
	}
	return ctx, cancel
}
