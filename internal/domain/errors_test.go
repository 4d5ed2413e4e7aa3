package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConflictPredicates(t *testing.T) {
	extra := errors.New("extra context")
	for _, tt := range []struct {
		err         error
		version     bool
		idempotency bool
	}{
		{ErrOrderVersionConflict, true, false},
		{errors.Join(ErrOrderVersionConflict, extra), true, false},
		{fmt.Errorf("save: %w", ErrOrderVersionConflict), true, false},
		{fmt.Errorf("%w: deadlock detected", ErrConcurrentUpdate), true, false},
		{ErrIdempotencyKeyAlreadyExists, false, true},
		{errors.Join(ErrIdempotencyHashMismatch, extra), false, true},
		{ErrOrderNotFound, false, false},
		{nil, false, false},
	} {
		assert.Equal(t, tt.version, IsVersionConflict(tt.err), "IsVersionConflict(%v)", tt.err)
		assert.Equal(t, tt.idempotency, IsIdempotencyConflict(tt.err), "IsIdempotencyConflict(%v)", tt.err)
	}
}

func TestTypedErrorsUnwrapToSentinels(t *testing.T) {
	var err error = &InsufficientStockError{ProductID: "p1", Description: "Pen", Available: 2, Requested: 3}
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}
	var stockErr *InsufficientStockError
	if !errors.As(fmt.Errorf("place: %w", err), &stockErr) || stockErr.Available != 2 || stockErr.Requested != 3 {
		t.Fatalf("payload lost after wrapping: %+v", stockErr)
	}

	err = &ProductError{ProductID: "missing", Err: ErrInvalidProduct}
	if !errors.Is(err, ErrInvalidProduct) {
		t.Fatalf("expected ErrInvalidProduct, got %v", err)
	}

	err = &StockError{ProductID: "p1"}
	if !errors.Is(err, ErrStockNotFound) {
		t.Fatalf("expected ErrStockNotFound, got %v", err)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		err    error
		kind   ErrorKind
		reason string
	}{
		{ErrEmptyOrder, KindValidation, "EMPTY_ORDER"},
		{&ProductError{ProductID: "p", Err: ErrInvalidProduct}, KindValidation, "INVALID_PRODUCT"},
		{&ProductError{ProductID: "p", Err: ErrItemQtyInvalid}, KindValidation, "INVALID_QUANTITY"},
		{ErrInvalidCustomer, KindInvalidCustomer, "INVALID_CUSTOMER"},
		{&InsufficientStockError{ProductID: "p"}, KindBusinessRule, "INSUFFICIENT_STOCK"},
		{fmt.Errorf("load: %w", ErrOrderNotFound), KindNotFound, "ORDER_NOT_FOUND"},
		{&StockError{StockID: "s"}, KindNotFound, "STOCK_NOT_FOUND"},
		{ErrOrderVersionConflict, KindConflict, "VERSION_CONFLICT"},
		{fmt.Errorf("commit tx: %w", ErrConcurrentUpdate), KindConflict, "CONCURRENT_UPDATE"},
		{ErrAmountMismatch, KindInternal, "INTERNAL"},
		{ErrStockAlreadyExists, KindConflict, "ALREADY_EXISTS"},
		{errors.New("boom"), KindInternal, "INTERNAL"},
		{ErrIdempotencyKeyRequired, KindValidation, "VALIDATION_FAILED"},
		{fmt.Errorf("replay: %w", classifiedStub{}), KindBusinessRule, "INSUFFICIENT_STOCK"},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			if got := Classify(tt.err); got != tt.kind {
				t.Errorf("Classify() = %v, want %v", got, tt.kind)
			}
			if got := Reason(tt.err); got != tt.reason {
				t.Errorf("Reason() = %v, want %v", got, tt.reason)
			}
		})
	}
}

type classifiedStub struct{}

func (classifiedStub) Error() string        { return "stored failure" }
func (classifiedStub) ErrorKind() ErrorKind { return KindBusinessRule }
func (classifiedStub) ErrorReason() string  { return "INSUFFICIENT_STOCK" }
