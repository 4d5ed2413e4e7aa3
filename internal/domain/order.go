package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus описывает жизненный цикл заказа.
type OrderStatus string

const (
	// OrderStatusPlaced — начальный статус: товары списаны со склада, сумма посчитана.
	OrderStatusPlaced    OrderStatus = "placed"
	OrderStatusPaid      OrderStatus = "paid"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCanceled  OrderStatus = "canceled"
)

// Valid проверяет, что статус относится к поддерживаемым значениям.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPlaced, OrderStatusPaid, OrderStatusShipped, OrderStatusDelivered, OrderStatusCanceled:
		return true
	default:
		return false
	}
}

// ItemRequest — позиция в том виде, в котором её прислал клиент.
type ItemRequest struct {
	ProductID string
	Quantity  int64
}

// LineItem представляет одну позицию заказа.
// Description и UnitPrice хранят снимок товара на момент оформления.
type LineItem struct {
	ID          string
	OrderID     string
	ProductID   string
	Description string
	UnitPrice   decimal.Decimal
	Quantity    int64
	CreatedAt   time.Time
}

// Subtotal возвращает quantity × unit price без округления.
func (i LineItem) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(i.Quantity))
}

// Order агрегирует состояние заказа и его позиции.
type Order struct {
	ID         string
	CustomerID string
	// Календарная дата оформления, полночь UTC.
	PlacedOn  time.Time
	Status    OrderStatus
	Total     decimal.Decimal
	Items     []LineItem
	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ItemsTotal суммирует позиции заказа.
func (o *Order) ItemsTotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// ValidateInvariants проверяет базовые инварианты размещённого заказа и возвращает список замечаний.
func (o *Order) ValidateInvariants() []error {
	var errs []error

	if o.CustomerID == "" {
		errs = append(errs, ErrInvalidCustomer)
	}
	if !o.Status.Valid() {
		errs = append(errs, ErrInvalidStatus)
	}
	if len(o.Items) == 0 {
		errs = append(errs, ErrEmptyOrder)
	}
	for _, item := range o.Items {
		if item.Quantity <= 0 {
			errs = append(errs, &ProductError{ProductID: item.ProductID, Err: ErrItemQtyInvalid})
		}
	}
	if !o.ItemsTotal().Equal(o.Total) {
		errs = append(errs, ErrAmountMismatch)
	}

	return errs
}

// DateOf отбрасывает время суток, оставляя календарную дату в UTC.
func DateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
