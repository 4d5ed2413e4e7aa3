package memory

import (
	"github.com/vladislavdragonenkov/orderdesk/internal/domain"
)

// state хранит снимок всех таблиц in-memory хранилища.
// Транзакция работает с копией и подменяет исходное состояние только при коммите.
type state struct {
	customers      map[string]domain.Customer
	products       map[string]domain.Product
	stock          map[string]domain.StockEntry
	stockByProduct map[string]string
	orders         map[string]domain.Order
	items          map[string][]domain.LineItem
}

func newState() *state {
	return &state{
		customers:      make(map[string]domain.Customer),
		products:       make(map[string]domain.Product),
		stock:          make(map[string]domain.StockEntry),
		stockByProduct: make(map[string]string),
		orders:         make(map[string]domain.Order),
		items:          make(map[string][]domain.LineItem),
	}
}

func (s *state) clone() *state {
	dst := &state{
		customers:      make(map[string]domain.Customer, len(s.customers)),
		products:       make(map[string]domain.Product, len(s.products)),
		stock:          make(map[string]domain.StockEntry, len(s.stock)),
		stockByProduct: make(map[string]string, len(s.stockByProduct)),
		orders:         make(map[string]domain.Order, len(s.orders)),
		items:          make(map[string][]domain.LineItem, len(s.items)),
	}
	for k, v := range s.customers {
		dst.customers[k] = v
	}
	for k, v := range s.products {
		dst.products[k] = v
	}
	for k, v := range s.stock {
		dst.stock[k] = v
	}
	for k, v := range s.stockByProduct {
		dst.stockByProduct[k] = v
	}
	for k, v := range s.orders {
		dst.orders[k] = v
	}
	for k, v := range s.items {
		dst.items[k] = append([]domain.LineItem(nil), v...)
	}
	return dst
}
