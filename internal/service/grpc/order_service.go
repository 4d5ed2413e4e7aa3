package grpcsvc

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/durationpb"

	"github.com/vladislavdragonenkov/orderdesk/internal/domain"
	"github.com/vladislavdragonenkov/orderdesk/internal/service/idempotency"
	orderdeskv1 "github.com/vladislavdragonenkov/orderdesk/proto/orderdesk/v1"
)

// OrderPlacer оформляет заказы.
type OrderPlacer interface {
	Place(ctx context.Context, customerID string, raw []domain.ItemRequest) (domain.Order, error)
}

// OrderLifecycle управляет оформленными заказами.
type OrderLifecycle interface {
	GetComplete(ctx context.Context, id string) (domain.Order, bool, error)
	UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (domain.Order, error)
	ReassignCustomer(ctx context.Context, id, customerID string) (domain.Order, error)
	Delete(ctx context.Context, id string) error
	ListByCustomer(ctx context.Context, customerID string, limit int) ([]domain.Order, error)
	Timeline(ctx context.Context, orderID string) ([]domain.TimelineEvent, error)
}

// OrderService реализует gRPC API поверх оркестратора оформления и менеджера жизненного цикла.
type OrderService struct {
	orderdeskv1.UnimplementedOrderServiceServer

	placer     OrderPlacer
	lifecycle  OrderLifecycle
	guard      *idempotency.Guard
	requireKey bool
	logger     *log.Entry
}

const (
	idempotencyKeyHeader = "idempotency-key"
	errorDomain          = "orderdesk"
	conflictRetryDelay   = 200 * time.Millisecond

	defaultListOrdersLimit = 100
)

// Option настраивает OrderService.
type Option func(*OrderService)

// WithIdempotencyGuard включает повторное воспроизведение ответов по idempotency-key.
func WithIdempotencyGuard(guard *idempotency.Guard) Option {
	return func(s *OrderService) {
		s.guard = guard
	}
}

// WithRequiredIdempotencyKey делает metadata idempotency-key обязательной для изменяющих методов.
func WithRequiredIdempotencyKey() Option {
	return func(s *OrderService) {
		s.requireKey = true
	}
}

// WithLogger задаёт logger.
func WithLogger(logger *log.Entry) Option {
	return func(s *OrderService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewOrderService конструирует сервис с зависимостями.
func NewOrderService(placer OrderPlacer, lifecycle OrderLifecycle, opts ...Option) *OrderService {
	s := &OrderService{
		placer:    placer,
		lifecycle: lifecycle,
		logger:    log.New().WithField("component", "order-service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// StatusCode возвращает код gRPC, который сервис вернёт для err. Используется как StatusFunc идемпотентности.
func StatusCode(err error) int {
	if err == nil {
		return int(codes.OK)
	}
	return int(codeForKind(domain.Classify(err)))
}

// PlaceOrder оформляет заказ.
func (s *OrderService) PlaceOrder(ctx context.Context, req *orderdeskv1.PlaceOrderRequest) (*orderdeskv1.PlaceOrderResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	raw := make([]domain.ItemRequest, 0, len(req.GetItems()))
	for _, item := range req.GetItems() {
		raw = append(raw, domain.ItemRequest{ProductID: strings.TrimSpace(item.GetProductId()), Quantity: item.GetQuantity()})
	}

	return withIdempotency(s, ctx, orderdeskv1.OrderService_PlaceOrder_FullMethodName, req,
		func(ctx context.Context) (*orderdeskv1.PlaceOrderResponse, error) {
			order, err := s.placer.Place(ctx, req.GetCustomerId(), raw)
			if err != nil {
				return nil, err
			}
			return &orderdeskv1.PlaceOrderResponse{Order: toAPIOrder(order)}, nil
		})
}

// GetOrder возвращает заказ с позициями и таймлайн событий.
func (s *OrderService) GetOrder(ctx context.Context, req *orderdeskv1.GetOrderRequest) (*orderdeskv1.GetOrderResponse, error) {
	orderID, err := requireOrderID(req.GetOrderId())
	if err != nil {
		return nil, err
	}

	order, found, err := s.lifecycle.GetComplete(ctx, orderID)
	if err != nil {
		return nil, s.fail("GetOrder", orderID, err)
	}
	if !found {
		return nil, s.fail("GetOrder", orderID, domain.ErrOrderNotFound)
	}

	return &orderdeskv1.GetOrderResponse{
		Order:    toAPIOrder(order),
		Timeline: s.buildTimeline(ctx, order.ID),
	}, nil
}

// UpdateOrderStatus меняет статус заказа.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, req *orderdeskv1.UpdateOrderStatusRequest) (*orderdeskv1.UpdateOrderStatusResponse, error) {
	orderID, err := requireOrderID(req.GetOrderId())
	if err != nil {
		return nil, err
	}
	next := fromAPIStatus(req.GetStatus())

	return withIdempotency(s, ctx, orderdeskv1.OrderService_UpdateOrderStatus_FullMethodName, req,
		func(ctx context.Context) (*orderdeskv1.UpdateOrderStatusResponse, error) {
			order, err := s.lifecycle.UpdateStatus(ctx, orderID, next)
			if err != nil {
				return nil, err
			}
			return &orderdeskv1.UpdateOrderStatusResponse{Order: toAPIOrder(order)}, nil
		})
}

// DeleteOrder удаляет заказ вместе с позициями. Остатки на складе не восстанавливаются.
func (s *OrderService) DeleteOrder(ctx context.Context, req *orderdeskv1.DeleteOrderRequest) (*orderdeskv1.DeleteOrderResponse, error) {
	orderID, err := requireOrderID(req.GetOrderId())
	if err != nil {
		return nil, err
	}

	return withIdempotency(s, ctx, orderdeskv1.OrderService_DeleteOrder_FullMethodName, req,
		func(ctx context.Context) (*orderdeskv1.DeleteOrderResponse, error) {
			if err := s.lifecycle.Delete(ctx, orderID); err != nil {
				return nil, err
			}
			return &orderdeskv1.DeleteOrderResponse{OrderId: orderID}, nil
		})
}

// ReassignCustomer переназначает заказ другому клиенту.
func (s *OrderService) ReassignCustomer(ctx context.Context, req *orderdeskv1.ReassignCustomerRequest) (*orderdeskv1.ReassignCustomerResponse, error) {
	orderID, err := requireOrderID(req.GetOrderId())
	if err != nil {
		return nil, err
	}

	return withIdempotency(s, ctx, orderdeskv1.OrderService_ReassignCustomer_FullMethodName, req,
		func(ctx context.Context) (*orderdeskv1.ReassignCustomerResponse, error) {
			order, err := s.lifecycle.ReassignCustomer(ctx, orderID, req.GetCustomerId())
			if err != nil {
				return nil, err
			}
			return &orderdeskv1.ReassignCustomerResponse{Order: toAPIOrder(order)}, nil
		})
}

// ListOrders возвращает заказы клиента.
func (s *OrderService) ListOrders(ctx context.Context, req *orderdeskv1.ListOrdersRequest) (*orderdeskv1.ListOrdersResponse, error) {
	customerID := strings.TrimSpace(req.GetCustomerId())
	if customerID == "" {
		return nil, status.Error(codes.InvalidArgument, "customer_id is required")
	}

	limit := int(req.GetPageSize())
	if limit <= 0 {
		limit = defaultListOrdersLimit
	}

	orders, err := s.lifecycle.ListByCustomer(ctx, customerID, limit)
	if err != nil {
		return nil, s.fail("ListOrders", "", err)
	}

	result := make([]*orderdeskv1.Order, 0, len(orders))
	for _, order := range orders {
		result = append(result, toAPIOrder(order))
	}
	return &orderdeskv1.ListOrdersResponse{Orders: result}, nil
}

func withIdempotency[T any](
	s *OrderService,
	ctx context.Context,
	method string,
	req any,
	handler func(context.Context) (T, error),
) (T, error) {
	key := readIdempotencyKey(ctx)
	guard := s.guard
	if key == "" && !s.requireKey {
		guard = nil
	}

	resp, err := idempotency.Do(ctx, guard, key, method, req, handler)
	if err != nil {
		var zero T
		return zero, s.fail(method, "", err)
	}
	return resp, nil
}

func (s *OrderService) fail(operation, orderID string, err error) error {
	if _, ok := status.FromError(err); ok {
		return err
	}

	fields := log.Fields{
		"operation": operation,
		"reason":    domain.Reason(err),
	}
	if orderID != "" {
		fields["order_id"] = orderID
	}
	entry := s.logger.WithError(err).WithFields(fields)
	if domain.Classify(err) == domain.KindInternal {
		entry.Error("order request failed")
	} else {
		entry.Warn("order request rejected")
	}

	return toStatusError(err)
}

func codeForKind(kind domain.ErrorKind) codes.Code {
	switch kind {
	case domain.KindValidation, domain.KindInvalidCustomer:
		return codes.InvalidArgument
	case domain.KindBusinessRule:
		return codes.FailedPrecondition
	case domain.KindNotFound:
		return codes.NotFound
	case domain.KindConflict:
		return codes.Aborted
	default:
		return codes.Internal
	}
}

// toStatusError переводит доменную ошибку в gRPC-статус с errdetails.ErrorInfo.
func toStatusError(err error) error {
	code := codeForKind(domain.Classify(err))
	message := err.Error()
	if code == codes.Internal {
		message = "internal error"
	}

	st := status.New(code, message)
	info := &errdetails.ErrorInfo{
		Reason:   domain.Reason(err),
		Domain:   errorDomain,
		Metadata: errorMetadata(err),
	}

	detailed, detailErr := st.WithDetails(info)
	if domain.IsVersionConflict(err) {
		// Конфликт записи клиент может повторить.
		detailed, detailErr = st.WithDetails(info, &errdetails.RetryInfo{RetryDelay: durationpb.New(conflictRetryDelay)})
	}
	if detailErr == nil {
		st = detailed
	}
	return st.Err()
}

func errorMetadata(err error) map[string]string {
	var (
		stockErr   *domain.InsufficientStockError
		productErr *domain.ProductError
		missing    *domain.StockError
	)
	switch {
	case errors.As(err, &stockErr):
		return map[string]string{
			"product_id": stockErr.ProductID,
			"available":  strconv.FormatInt(stockErr.Available, 10),
			"requested":  strconv.FormatInt(stockErr.Requested, 10),
		}
	case errors.As(err, &productErr):
		return map[string]string{"product_id": productErr.ProductID}
	case errors.As(err, &missing):
		if missing.StockID != "" {
			return map[string]string{"stock_id": missing.StockID}
		}
		return map[string]string{"product_id": missing.ProductID}
	default:
		return nil
	}
}

func readIdempotencyKey(ctx context.Context) string {
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		values := md.Get(idempotencyKeyHeader)
		if len(values) > 0 && strings.TrimSpace(values[0]) != "" {
			return strings.TrimSpace(values[0])
		}
	}
	return ""
}

func requireOrderID(orderID string) (string, error) {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return "", status.Error(codes.InvalidArgument, "order_id is required")
	}
	return orderID, nil
}

func (s *OrderService) buildTimeline(ctx context.Context, orderID string) []*orderdeskv1.TimelineEvent {
	events, err := s.lifecycle.Timeline(ctx, orderID)
	if err != nil {
		s.logger.WithError(err).WithField("order_id", orderID).Warn("failed to list timeline events")
		return nil
	}
	result := make([]*orderdeskv1.TimelineEvent, 0, len(events))
	for _, event := range events {
		result = append(result, &orderdeskv1.TimelineEvent{
			Type:     event.Type,
			Reason:   event.Reason,
			UnixTime: event.Occurred.Unix(),
		})
	}
	return result
}
