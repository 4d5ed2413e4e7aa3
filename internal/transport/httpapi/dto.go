package httpapi

import (
	"time"

	"github.com/vladislavdragonenkov/orderdesk/internal/domain"
)

type itemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int64  `json:"quantity"`
}

type placeOrderRequest struct {
	CustomerID string        `json:"customer_id"`
	Items      []itemRequest `json:"items"`
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

type reassignRequest struct {
	CustomerID string `json:"customer_id"`
}

type createCustomerRequest struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type createProductRequest struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	UnitPrice   string `json:"unit_price"`
}

type createStockRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int64  `json:"quantity"`
}

type setQuantityRequest struct {
	Quantity *int64 `json:"quantity"`
}

type lineItemView struct {
	ID          string `json:"id"`
	ProductID   string `json:"product_id"`
	Description string `json:"description"`
	UnitPrice   string `json:"unit_price"`
	Quantity    int64  `json:"quantity"`
	Subtotal    string `json:"subtotal"`
}

type orderView struct {
	ID         string         `json:"id"`
	CustomerID string         `json:"customer_id"`
	PlacedOn   string         `json:"placed_on"`
	Status     string         `json:"status"`
	Total      string         `json:"total"`
	Items      []lineItemView `json:"items,omitempty"`
	Version    int64          `json:"version"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

type timelineView struct {
	Type     string    `json:"type"`
	Reason   string    `json:"reason,omitempty"`
	Occurred time.Time `json:"occurred"`
}

type orderDetailsView struct {
	Order    orderView      `json:"order"`
	Timeline []timelineView `json:"timeline"`
}

type customerView struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type productView struct {
	ID          string    `json:"id"`
	Description string    `json:"description"`
	UnitPrice   string    `json:"unit_price"`
	CreatedAt   time.Time `json:"created_at"`
}

type stockView struct {
	ID        string    `json:"id"`
	ProductID string    `json:"product_id"`
	Quantity  int64     `json:"quantity"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toOrderView(order domain.Order) orderView {
	view := orderView{
		ID:         order.ID,
		CustomerID: order.CustomerID,
		PlacedOn:   order.PlacedOn.Format("2006-01-02"),
		Status:     string(order.Status),
		Total:      order.Total.StringFixed(2),
		Version:    order.Version,
		CreatedAt:  order.CreatedAt,
		UpdatedAt:  order.UpdatedAt,
	}
	for _, item := range order.Items {
		view.Items = append(view.Items, lineItemView{
			ID:          item.ID,
			ProductID:   item.ProductID,
			Description: item.Description,
			UnitPrice:   item.UnitPrice.StringFixed(2),
			Quantity:    item.Quantity,
			Subtotal:    item.Subtotal().StringFixed(2),
		})
	}
	return view
}

func toCustomerView(c domain.Customer) customerView {
	return customerView{ID: c.ID, Name: c.Name, Email: c.Email, CreatedAt: c.CreatedAt}
}

func toProductView(p domain.Product) productView {
	return productView{ID: p.ID, Description: p.Description, UnitPrice: p.UnitPrice.StringFixed(2), CreatedAt: p.CreatedAt}
}

func toStockView(s domain.StockEntry) stockView {
	return stockView{ID: s.ID, ProductID: s.ProductID, Quantity: s.Quantity, UpdatedAt: s.UpdatedAt}
}
