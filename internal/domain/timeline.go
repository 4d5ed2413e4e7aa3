package domain

import "time"

// Типы событий таймлайна и outbox.
const (
	EventOrderPlaced             = "OrderPlaced"
	EventOrderStatusChanged      = "OrderStatusChanged"
	EventOrderCustomerReassigned = "OrderCustomerReassigned"
	EventOrderDeleted            = "OrderDeleted"
)

// Тип агрегата для outbox-сообщений по заказам.
const AggregateOrder = "order"

// TimelineEvent описывает событие в жизненном цикле заказа.
type TimelineEvent struct {
	OrderID  string
	Type     string
	Reason   string
	Occurred time.Time
}
