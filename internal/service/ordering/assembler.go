package ordering

import (
	"context"
	"errors"
	"fmt"

	"github.com/vladislavdragonenkov/orderdesk/internal/domain"
)

// Assembler превращает запрошенные позиции в позиции заказа.
// Только читает каталог; порядок позиций сохраняется, повторяющиеся товары не склеиваются.
type Assembler struct {
	newID func() string
}

// NewAssembler создаёт Assembler с указанным генератором ID позиций.
func NewAssembler(newID func() string) *Assembler {
	return &Assembler{newID: newID}
}

// Assemble разрешает каждую позицию через каталог и фиксирует снимок описания и цены.
func (a *Assembler) Assemble(ctx context.Context, products domain.ProductRepository, order domain.Order, raw []domain.ItemRequest) ([]domain.LineItem, error) {
	if len(raw) == 0 {
		return nil, domain.ErrEmptyOrder
	}

	items := make([]domain.LineItem, 0, len(raw))
	for _, req := range raw {
		if req.Quantity <= 0 {
			return nil, &domain.ProductError{ProductID: req.ProductID, Err: domain.ErrItemQtyInvalid}
		}

		product, err := products.Get(ctx, req.ProductID)
		if err != nil {
			if errors.Is(err, domain.ErrProductNotFound) {
				return nil, &domain.ProductError{ProductID: req.ProductID, Err: domain.ErrInvalidProduct}
			}
			return nil, fmt.Errorf("resolve product %s: %w", req.ProductID, err)
		}

		items = append(items, domain.LineItem{
			ID:          a.newID(),
			OrderID:     order.ID,
			ProductID:   product.ID,
			Description: product.Description,
			UnitPrice:   product.UnitPrice,
			Quantity:    req.Quantity,
			CreatedAt:   order.CreatedAt,
		})
	}
	return items, nil
}
