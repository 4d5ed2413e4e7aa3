package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCustomer — клиент не указан или не найден при оформлении заказа.
	ErrInvalidCustomer = errors.New("invalid customer")
	// ErrCustomerNotFound возвращается репозиторием клиентов.
	ErrCustomerNotFound = errors.New("customer not found")
	// ErrCustomerAlreadyExists — клиент с таким ID уже зарегистрирован.
	ErrCustomerAlreadyExists = errors.New("customer already exists")
	// ErrInvalidProduct — позиция ссылается на несуществующий товар.
	ErrInvalidProduct = errors.New("invalid product")
	// ErrProductNotFound возвращается репозиторием каталога.
	ErrProductNotFound = errors.New("product not found")
	// Ошибка повторной регистрации товара с тем же ID.
	ErrProductAlreadyExists = errors.New("product already exists")
	// Ошибка отрицательной цены товара.
	ErrProductPriceInvalid = errors.New("product price must be non-negative")
	// ErrEmptyOrder — в запросе нет ни одной позиции.
	ErrEmptyOrder = errors.New("order must contain at least one item")
	// Ошибка при некорректном количестве товара (<= 0).
	ErrItemQtyInvalid = errors.New("item qty must be greater than zero")
	// ErrInsufficientStock — остатка не хватает для позиции.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrStockNotFound — для товара нет складской записи.
	ErrStockNotFound = errors.New("stock entry not found")
	// Ошибка второй складской записи для одного товара.
	ErrStockAlreadyExists = errors.New("stock entry already exists")
	// Ошибка записи отрицательного остатка.
	ErrStockNegative = errors.New("stock quantity must be non-negative")
	// ErrOrderNotFound возвращается, если заказ не найден в репозитории.
	ErrOrderNotFound = errors.New("order not found")
	// Ошибка повторного сохранения заказа с тем же ID.
	ErrOrderAlreadyExists = errors.New("order already exists")
	// Ошибка несоответствия суммы заказа и сумм позиций.
	ErrAmountMismatch = errors.New("order total does not match items sum")
	// ErrOrderVersionConflict сигнализирует о конфликте версий при сохранении.
	ErrOrderVersionConflict = errors.New("order version conflict")
	// ErrConcurrentUpdate — хранилище откатило транзакцию из-за конкурентной записи
	// (дедлок или сбой сериализации).
	ErrConcurrentUpdate = errors.New("transaction aborted by concurrent update")
	// ErrInvalidStatus — статус не входит в жизненный цикл заказа.
	ErrInvalidStatus = errors.New("invalid order status")
	// Ошибка пустого ключа идемпотентности.
	ErrIdempotencyKeyRequired = errors.New("idempotency key is required")
	// Ошибка пустого хэша запроса.
	ErrIdempotencyRequestHashRequired = errors.New("idempotency request hash is required")
	// Ошибка отсутствующего ключа идемпотентности.
	ErrIdempotencyKeyNotFound = errors.New("idempotency key not found")
	// Ошибка сохранения ответа с незавершённым статусом.
	ErrIdempotencyStatusInvalid = errors.New("idempotency status must be done or failed")
	// ErrIdempotencyKeyAlreadyExists — ключ уже занят другим запросом.
	ErrIdempotencyKeyAlreadyExists = errors.New("idempotency key already exists")
	// ErrIdempotencyHashMismatch — ключ переиспользован с другим телом запроса.
	ErrIdempotencyHashMismatch = errors.New("idempotency key reused with different request")
	// ErrOutboxPublish — ошибка при публикации сообщения из outbox.
	ErrOutboxPublish = errors.New("outbox publish failed")
)

// ProductError связывает ошибку позиции с конкретным товаром.
type ProductError struct {
	ProductID string
	Err       error
}

func (e *ProductError) Error() string {
	return fmt.Sprintf("product %q: %v", e.ProductID, e.Err)
}

func (e *ProductError) Unwrap() error { return e.Err }

// InsufficientStockError описывает позицию, которую не удалось списать со склада.
type InsufficientStockError struct {
	ProductID   string
	Description string
	Available   int64
	Requested   int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %q (%s): available %d, requested %d",
		e.ProductID, e.Description, e.Available, e.Requested)
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// StockError описывает отсутствующую складскую запись.
// Заполняется либо ProductID, либо StockID, в зависимости от способа поиска.
type StockError struct {
	ProductID string
	StockID   string
}

func (e *StockError) Error() string {
	if e.StockID != "" {
		return fmt.Sprintf("stock entry %q not found", e.StockID)
	}
	return fmt.Sprintf("stock entry for product %q not found", e.ProductID)
}

func (e *StockError) Unwrap() error { return ErrStockNotFound }

// ErrorKind группирует доменные ошибки для транспортного слоя.
type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindValidation
	KindInvalidCustomer
	KindBusinessRule
	KindNotFound
	KindConflict
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindInvalidCustomer:
		return "invalid_customer"
	case KindBusinessRule:
		return "business_rule"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	default:
		return "internal"
	}
}

// ClassifiedError — ошибка, которая уже знает свою категорию и код,
// например восстановленная из сохранённого ответа.
type ClassifiedError interface {
	error
	ErrorKind() ErrorKind
	ErrorReason() string
}

// Classify сопоставляет ошибку с категорией. Неизвестные ошибки считаются внутренними.
func Classify(err error) ErrorKind {
	var classified ClassifiedError
	switch {
	case err == nil:
		return KindInternal
	case errors.As(err, &classified):
		return classified.ErrorKind()
	case errors.Is(err, ErrInvalidCustomer):
		return KindInvalidCustomer
	case errors.Is(err, ErrEmptyOrder),
		errors.Is(err, ErrInvalidProduct),
		errors.Is(err, ErrItemQtyInvalid),
		errors.Is(err, ErrInvalidStatus),
		errors.Is(err, ErrProductPriceInvalid),
		errors.Is(err, ErrStockNegative),
		errors.Is(err, ErrIdempotencyKeyRequired):
		return KindValidation
	case errors.Is(err, ErrInsufficientStock):
		return KindBusinessRule
	case errors.Is(err, ErrOrderNotFound),
		errors.Is(err, ErrStockNotFound),
		errors.Is(err, ErrCustomerNotFound),
		errors.Is(err, ErrProductNotFound),
		errors.Is(err, ErrIdempotencyKeyNotFound):
		return KindNotFound
	case IsVersionConflict(err),
		errors.Is(err, ErrOrderAlreadyExists),
		errors.Is(err, ErrCustomerAlreadyExists),
		errors.Is(err, ErrProductAlreadyExists),
		errors.Is(err, ErrStockAlreadyExists),
		IsIdempotencyConflict(err):
		return KindConflict
	default:
		return KindInternal
	}
}

// Reason возвращает машиночитаемый код ошибки для error details и REST-ответов.
func Reason(err error) string {
	var classified ClassifiedError
	switch {
	case errors.As(err, &classified):
		return classified.ErrorReason()
	case errors.Is(err, ErrInvalidCustomer):
		return "INVALID_CUSTOMER"
	case errors.Is(err, ErrEmptyOrder):
		return "EMPTY_ORDER"
	case errors.Is(err, ErrItemQtyInvalid):
		return "INVALID_QUANTITY"
	case errors.Is(err, ErrInvalidProduct):
		return "INVALID_PRODUCT"
	case errors.Is(err, ErrInvalidStatus):
		return "INVALID_STATUS"
	case errors.Is(err, ErrInsufficientStock):
		return "INSUFFICIENT_STOCK"
	case errors.Is(err, ErrOrderNotFound):
		return "ORDER_NOT_FOUND"
	case errors.Is(err, ErrStockNotFound):
		return "STOCK_NOT_FOUND"
	case errors.Is(err, ErrCustomerNotFound):
		return "CUSTOMER_NOT_FOUND"
	case errors.Is(err, ErrProductNotFound):
		return "PRODUCT_NOT_FOUND"
	case errors.Is(err, ErrConcurrentUpdate):
		return "CONCURRENT_UPDATE"
	case errors.Is(err, ErrOrderVersionConflict):
		return "VERSION_CONFLICT"
	case IsIdempotencyConflict(err):
		return "IDEMPOTENCY_CONFLICT"
	case Classify(err) == KindConflict:
		return "ALREADY_EXISTS"
	case Classify(err) == KindValidation:
		return "VALIDATION_FAILED"
	default:
		return "INTERNAL"
	}
}

// IsVersionConflict проверяет, проиграл ли запрос гонку за запись: конфликт версий
// или откат транзакции хранилищем. Такой запрос можно повторить.
func IsVersionConflict(err error) bool {
	return errors.Is(err, ErrOrderVersionConflict) || errors.Is(err, ErrConcurrentUpdate)
}

// IsIdempotencyConflict проверяет конфликт по ключу идемпотентности.
func IsIdempotencyConflict(err error) bool {
	return errors.Is(err, ErrIdempotencyKeyAlreadyExists) || errors.Is(err, ErrIdempotencyHashMismatch)
}
