package domain

import "time"

// StockEntry — доступный остаток товара. На один товар приходится не больше одной записи.
type StockEntry struct {
	ID        string
	ProductID string
	Quantity  int64
	UpdatedAt time.Time
}

// CanFulfil сообщает, хватает ли остатка на requested единиц.
func (s StockEntry) CanFulfil(requested int64) bool {
	return s.Quantity >= requested
}
