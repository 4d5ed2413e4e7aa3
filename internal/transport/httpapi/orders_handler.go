package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/orderdesk/internal/domain"
	"github.com/vladislavdragonenkov/orderdesk/internal/service/idempotency"
)

// IdempotencyKeyHeader — заголовок с ключом идемпотентности для изменяющих запросов.
const IdempotencyKeyHeader = "Idempotency-Key"

var errInvalidLimit = errors.New("limit must be a non-negative integer")

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

// OrdersHandler обслуживает /api/v1/orders.
type OrdersHandler struct {
	placer    OrderPlacer
	lifecycle OrderLifecycle
	guard     *idempotency.Guard
	logger    *log.Entry
}

// NewOrdersHandler создаёт обработчик заказов. guard может быть nil.
func NewOrdersHandler(placer OrderPlacer, lifecycle OrderLifecycle, guard *idempotency.Guard, logger *log.Entry) *OrdersHandler {
	if logger == nil {
		logger = log.WithField("component", "http-orders")
	}
	return &OrdersHandler{placer: placer, lifecycle: lifecycle, guard: guard, logger: logger}
}

// RegisterRoutes подключает маршруты заказов.
func (h *OrdersHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1/orders", func(r chi.Router) {
		r.Post("/", h.placeOrder)
		r.Get("/{id}", h.getOrder)
		r.Patch("/{id}/status", h.updateStatus)
		r.Patch("/{id}/customer", h.reassignCustomer)
		r.Delete("/{id}", h.deleteOrder)
	})
	r.Get("/api/v1/customers/{id}/orders", h.listCustomerOrders)
}

func (h *OrdersHandler) placeOrder(w http.ResponseWriter, r *http.Request) {
	var req placeOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid json: "+err.Error())
		return
	}

	raw := make([]domain.ItemRequest, 0, len(req.Items))
	for _, item := range req.Items {
		raw = append(raw, domain.ItemRequest{ProductID: strings.TrimSpace(item.ProductID), Quantity: item.Quantity})
	}

	view, err := idempotent(h, r, "POST /api/v1/orders", req, func(ctx context.Context) (orderView, error) {
		order, err := h.placer.Place(ctx, req.CustomerID, raw)
		if err != nil {
			return orderView{}, err
		}
		return toOrderView(order), nil
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

func (h *OrdersHandler) getOrder(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	order, found, err := h.lifecycle.GetComplete(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if !found {
		writeError(w, h.logger, domain.ErrOrderNotFound)
		return
	}

	details := orderDetailsView{Order: toOrderView(order), Timeline: []timelineView{}}
	events, err := h.lifecycle.Timeline(r.Context(), order.ID)
	if err != nil {
		h.logger.WithError(err).WithField("order_id", order.ID).Warn("failed to list timeline events")
	}
	for _, event := range events {
		details.Timeline = append(details.Timeline, timelineView{Type: event.Type, Reason: event.Reason, Occurred: event.Occurred})
	}
	writeJSON(w, http.StatusOK, details)
}

func (h *OrdersHandler) updateStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req updateStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid json: "+err.Error())
		return
	}
	next := domain.OrderStatus(strings.ToLower(strings.TrimSpace(req.Status)))

	view, err := idempotent(h, r, "PATCH /api/v1/orders/"+id+"/status", req, func(ctx context.Context) (orderView, error) {
		order, err := h.lifecycle.UpdateStatus(ctx, id, next)
		if err != nil {
			return orderView{}, err
		}
		return toOrderView(order), nil
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *OrdersHandler) reassignCustomer(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req reassignRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid json: "+err.Error())
		return
	}

	view, err := idempotent(h, r, "PATCH /api/v1/orders/"+id+"/customer", req, func(ctx context.Context) (orderView, error) {
		order, err := h.lifecycle.ReassignCustomer(ctx, id, req.CustomerID)
		if err != nil {
			return orderView{}, err
		}
		return toOrderView(order), nil
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *OrdersHandler) deleteOrder(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	_, err := idempotent(h, r, "DELETE /api/v1/orders/"+id, nil, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, h.lifecycle.Delete(ctx, id)
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *OrdersHandler) listCustomerOrders(w http.ResponseWriter, r *http.Request) {
	limit, err := parseLimit(r)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	orders, err := h.lifecycle.ListByCustomer(r.Context(), chi.URLParam(r, "id"), limit)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	views := make([]orderView, 0, len(orders))
	for _, order := range orders {
		views = append(views, toOrderView(order))
	}
	writeJSON(w, http.StatusOK, views)
}

// idempotent выполняет fn через Guard, если клиент прислал Idempotency-Key.
func idempotent[T any](h *OrdersHandler, r *http.Request, scope string, req any, fn func(context.Context) (T, error)) (T, error) {
	key := strings.TrimSpace(r.Header.Get(IdempotencyKeyHeader))
	if key == "" || h.guard == nil {
		return fn(r.Context())
	}
	return idempotency.Do(r.Context(), h.guard, key, scope, req, fn)
}

func parseLimit(r *http.Request) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("limit"))
	if raw == "" {
		return 0, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		return 0, errInvalidLimit
	}
	return limit, nil
}
