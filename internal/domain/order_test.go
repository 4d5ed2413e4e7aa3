package domain_test

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vladislavdragonenkov/orderdesk/internal/domain"
)

// helper для создания размещённого заказа с двумя позициями.
func makeOrder() domain.Order {
	now := time.Now().UTC()
	return domain.Order{
		ID:         "order-1",
		CustomerID: "customer-1",
		PlacedOn:   domain.DateOf(now),
		Status:     domain.OrderStatusPlaced,
		Total:      decimal.RequireFromString("35.50"),
		Items: []domain.LineItem{
			{
				ID:          "item-1",
				OrderID:     "order-1",
				ProductID:   "product-1",
				Description: "Pen",
				UnitPrice:   decimal.RequireFromString("10.00"),
				Quantity:    3,
				CreatedAt:   now,
			},
			{
				ID:          "item-2",
				OrderID:     "order-1",
				ProductID:   "product-2",
				Description: "Notebook",
				UnitPrice:   decimal.RequireFromString("2.75"),
				Quantity:    2,
				CreatedAt:   now,
			},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestOrderValidateInvariants_Ok(t *testing.T) {
	order := makeOrder()
	if errs := order.ValidateInvariants(); len(errs) != 0 {
		t.Fatalf("expected no validation errors, got %v", errs)
	}
}

func TestOrderValidateInvariants_Errors(t *testing.T) {
	cases := []struct {
		name string
		mut  func(o *domain.Order)
		want error
	}{
		{
			name: "no customer",
			mut:  func(o *domain.Order) { o.CustomerID = "" },
			want: domain.ErrInvalidCustomer,
		},
		{
			name: "unknown status",
			mut:  func(o *domain.Order) { o.Status = "lost" },
			want: domain.ErrInvalidStatus,
		},
		{
			name: "no items",
			mut: func(o *domain.Order) {
				o.Items = nil
				o.Total = decimal.Zero
			},
			want: domain.ErrEmptyOrder,
		},
		{
			name: "qty invalid",
			mut: func(o *domain.Order) {
				o.Items[0].Quantity = 0
				o.Total = decimal.RequireFromString("5.50")
			},
			want: domain.ErrItemQtyInvalid,
		},
		{
			name: "amount mismatch",
			mut:  func(o *domain.Order) { o.Total = decimal.RequireFromString("35.49") },
			want: domain.ErrAmountMismatch,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			o := makeOrder()
			tc.mut(&o)
			errs := o.ValidateInvariants()
			if len(errs) != 1 {
				t.Fatalf("expected exactly one error, got %v", errs)
			}
			if !errors.Is(errs[0], tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, errs[0])
			}
		})
	}
}

func TestLineItemSubtotalIsExact(t *testing.T) {
	item := domain.LineItem{UnitPrice: decimal.RequireFromString("0.10"), Quantity: 3}
	if got := item.Subtotal(); !got.Equal(decimal.RequireFromString("0.30")) {
		t.Fatalf("expected 0.30, got %s", got)
	}
}

func TestOrderStatusValid(t *testing.T) {
	for _, s := range []domain.OrderStatus{
		domain.OrderStatusPlaced,
		domain.OrderStatusPaid,
		domain.OrderStatusShipped,
		domain.OrderStatusDelivered,
		domain.OrderStatusCanceled,
	} {
		if !s.Valid() {
			t.Fatalf("status %q must be valid", s)
		}
	}
	if domain.OrderStatus("pending").Valid() {
		t.Fatal("pending is not part of the lifecycle")
	}
}

func TestDateOfTruncatesToUTCMidnight(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	got := domain.DateOf(time.Date(2026, 5, 2, 1, 30, 0, 0, loc))
	want := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("expected %s, got %s", want, got)
	}
}

func TestProductValidate(t *testing.T) {
	ok := domain.Product{ID: "p1", Description: "Pen", UnitPrice: decimal.RequireFromString("1.00")}
	if err := ok.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	negative := ok
	negative.UnitPrice = decimal.RequireFromString("-0.01")
	if err := negative.Validate(); !errors.Is(err, domain.ErrProductPriceInvalid) {
		t.Fatalf("expected ErrProductPriceInvalid, got %v", err)
	}

	unnamed := ok
	unnamed.Description = ""
	if err := unnamed.Validate(); !errors.Is(err, domain.ErrInvalidProduct) {
		t.Fatalf("expected ErrInvalidProduct, got %v", err)
	}
}
