package grpcsvc

import (
	"github.com/vladislavdragonenkov/orderdesk/internal/domain"
	orderdeskv1 "github.com/vladislavdragonenkov/orderdesk/proto/orderdesk/v1"
)

const (
	dateLayout  = "2006-01-02"
	moneyPlaces = 2
)

var statusToAPI = map[domain.OrderStatus]orderdeskv1.OrderStatus{
	domain.OrderStatusPlaced:    orderdeskv1.OrderStatus_ORDER_STATUS_PLACED,
	domain.OrderStatusPaid:      orderdeskv1.OrderStatus_ORDER_STATUS_PAID,
	domain.OrderStatusShipped:   orderdeskv1.OrderStatus_ORDER_STATUS_SHIPPED,
	domain.OrderStatusDelivered: orderdeskv1.OrderStatus_ORDER_STATUS_DELIVERED,
	domain.OrderStatusCanceled:  orderdeskv1.OrderStatus_ORDER_STATUS_CANCELED,
}

func toAPIStatus(s domain.OrderStatus) orderdeskv1.OrderStatus {
	return statusToAPI[s]
}

// fromAPIStatus возвращает пустой статус для UNSPECIFIED и неизвестных значений;
// доменная проверка отклоняет его как ErrInvalidStatus.
func fromAPIStatus(s orderdeskv1.OrderStatus) domain.OrderStatus {
	for status, api := range statusToAPI {
		if api == s {
			return status
		}
	}
	return ""
}

func toAPIOrder(order domain.Order) *orderdeskv1.Order {
	items := make([]*orderdeskv1.LineItem, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, &orderdeskv1.LineItem{
			Id:          item.ID,
			ProductId:   item.ProductID,
			Description: item.Description,
			UnitPrice:   item.UnitPrice.StringFixed(moneyPlaces),
			Quantity:    item.Quantity,
			Subtotal:    item.Subtotal().StringFixed(moneyPlaces),
		})
	}

	return &orderdeskv1.Order{
		Id:            order.ID,
		CustomerId:    order.CustomerID,
		PlacedOn:      order.PlacedOn.Format(dateLayout),
		Status:        toAPIStatus(order.Status),
		Total:         order.Total.StringFixed(moneyPlaces),
		Items:         items,
		Version:       order.Version,
		CreatedAtUnix: order.CreatedAt.Unix(),
		UpdatedAtUnix: order.UpdatedAt.Unix(),
	}
}
