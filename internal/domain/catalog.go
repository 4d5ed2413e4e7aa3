package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Customer — покупатель, на которого оформляются заказы.
type Customer struct {
	ID        string
	Name      string
	Email     string
	CreatedAt time.Time
}

// Product — товар каталога. Цена хранится с фиксированной точностью.
type Product struct {
	ID          string
	Description string
	UnitPrice   decimal.Decimal
	CreatedAt   time.Time
}

// Validate проверяет поля товара перед сохранением.
func (p *Product) Validate() error {
	if p.ID == "" || p.Description == "" {
		return &ProductError{ProductID: p.ID, Err: ErrInvalidProduct}
	}
	if p.UnitPrice.IsNegative() {
		return &ProductError{ProductID: p.ID, Err: ErrProductPriceInvalid}
	}
	return nil
}
